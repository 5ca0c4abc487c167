package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/brewcart/internal/models"

	"gorm.io/gorm"
)

// SharedCartRepository 分享购物车数据访问接口
type SharedCartRepository interface {
	Create(record *models.SharedCart) error
	FindByCode(code string) (*models.SharedCart, error)
	ExistsByCode(code string) (bool, error)
	DeleteExpired(now time.Time) ([]string, error)
}

// GormSharedCartRepository GORM 实现
type GormSharedCartRepository struct {
	db *gorm.DB
}

// NewSharedCartRepository 创建分享购物车仓库
func NewSharedCartRepository(db *gorm.DB) *GormSharedCartRepository {
	return &GormSharedCartRepository{db: db}
}

// Create 写入分享记录（记录创建后不再更新）
func (r *GormSharedCartRepository) Create(record *models.SharedCart) error {
	if record == nil {
		return nil
	}
	record.Code = strings.ToUpper(strings.TrimSpace(record.Code))
	return r.db.Create(record).Error
}

// FindByCode 按分享码查询（大写归一）。重试耗尽后可能存在重码，
// 按创建时间倒序取最新一条：后写者胜。
func (r *GormSharedCartRepository) FindByCode(code string) (*models.SharedCart, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var record models.SharedCart
	err := r.db.Where("code = ?", normalized).
		Order("created_at desc").
		Order("id desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsByCode 判断分享码是否已被占用
func (r *GormSharedCartRepository) ExistsByCode(code string) (bool, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.SharedCart{}).Where("code = ?", normalized).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired 删除已过期的分享记录，返回被删除的分享码
// （调用方据此失效对应的查询缓存）
func (r *GormSharedCartRepository) DeleteExpired(now time.Time) ([]string, error) {
	var codes []string
	err := r.db.Model(&models.SharedCart{}).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Distinct().
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	result := r.db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&models.SharedCart{})
	return codes, result.Error
}
