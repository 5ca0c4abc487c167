package models

import (
	"time"
)

// SharedCart 分享购物车记录：短码映射到不透明的编码载荷。
// 记录创建后 Encoded 不可变更；分享新版本的购物车必须生成新码。
type SharedCart struct {
	ID        uint       `gorm:"primarykey" json:"id"`                        // 主键
	Code      string     `gorm:"type:varchar(32);not null;index" json:"code"` // 分享码（统一大写）
	Encoded   string     `gorm:"type:text;not null" json:"encoded"`           // 编码后的购物车载荷（服务端不解析）
	CreatedAt time.Time  `gorm:"index" json:"created_at"`                     // 创建时间
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`           // 过期时间（空表示永不过期）
}

// TableName 指定表名
func (SharedCart) TableName() string {
	return "shared_carts"
}

// Expired 判断记录在给定时刻是否已过期
func (s SharedCart) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
