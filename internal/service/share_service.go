package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/brewcart/internal/cache"
	"github.com/brewcart/internal/constants"
	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/models"
	"github.com/brewcart/internal/repository"
)

// ShareServiceOptions 分享服务配置
type ShareServiceOptions struct {
	CodeLength  int           // 分享码长度
	MaxAttempts int           // 冲突重试上限
	CodeTTL     time.Duration // 分享码有效期（0 表示永不过期）
	CacheTTL    time.Duration // 查询缓存有效期
}

// ShareService 分享购物车服务：短码生成与载荷存取。
// 载荷对服务端完全不透明，结构校验由客户端解码时完成。
type ShareService struct {
	repo repository.SharedCartRepository
	opts ShareServiceOptions

	// generateCode 可替换的分享码生成函数，测试用它制造冲突
	generateCode func(length int) (string, error)
	now          func() time.Time
}

// NewShareService 创建分享购物车服务
func NewShareService(repo repository.SharedCartRepository, opts ShareServiceOptions) *ShareService {
	if opts.CodeLength <= 0 {
		opts.CodeLength = constants.ShareCodeLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = constants.ShareCodeMaxAttempts
	}
	return &ShareService{
		repo:         repo,
		opts:         opts,
		generateCode: randomCode,
		now:          time.Now,
	}
}

// Save 保存编码载荷并返回新分享码。
// 候选码与已有记录冲突时重新生成，最多重试 MaxAttempts 次；重试
// 耗尽后直接用最后一个候选落库——接受极小概率的残余重码，换取
// 请求不失败。生成-检查-写入存在并发竞态，同样由该策略兜底，
// 不加锁串行化。
func (s *ShareService) Save(ctx context.Context, encoded string) (string, error) {
	if strings.TrimSpace(encoded) == "" {
		return "", ErrEncodedPayloadMissing
	}

	code, err := s.generateCode(s.opts.CodeLength)
	if err != nil {
		return "", err
	}
	for attempts := 0; attempts < s.opts.MaxAttempts; attempts++ {
		exists, err := s.repo.ExistsByCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		logger.Debugw("share_code_collision", "code", code, "attempt", attempts+1)
		if code, err = s.generateCode(s.opts.CodeLength); err != nil {
			return "", err
		}
	}

	record := &models.SharedCart{
		Code:      code,
		Encoded:   encoded,
		CreatedAt: s.now(),
	}
	if s.opts.CodeTTL > 0 {
		expiresAt := record.CreatedAt.Add(s.opts.CodeTTL)
		record.ExpiresAt = &expiresAt
	}
	if err := s.repo.Create(record); err != nil {
		return "", err
	}
	return record.Code, nil
}

// Resolve 按分享码取回编码载荷（大小写不敏感）。
// 记录不可变，查询结果可安全走 Redis 旁路缓存；缓存故障只降级为
// 直查数据库，不影响结果。
func (s *ShareService) Resolve(ctx context.Context, code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", ErrShareCodeNotFound
	}

	cacheKey := constants.CacheKeyShareCode + normalized
	var cached string
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("share_code_cache_read_failed", "code", normalized, "error", err)
	} else if hit && cached != "" {
		return cached, nil
	}

	record, err := s.repo.FindByCode(normalized)
	if err != nil {
		return "", err
	}
	if record == nil || record.Expired(s.now()) {
		return "", ErrShareCodeNotFound
	}

	// 缓存有效期不得超过记录剩余有效期，否则过期码会从缓存复活
	cacheTTL := s.opts.CacheTTL
	if record.ExpiresAt != nil {
		if remaining := record.ExpiresAt.Sub(s.now()); cacheTTL <= 0 || remaining < cacheTTL {
			cacheTTL = remaining
		}
	}
	if err := cache.SetJSON(ctx, cacheKey, record.Encoded, cacheTTL); err != nil {
		logger.Warnw("share_code_cache_write_failed", "code", normalized, "error", err)
	}
	return record.Encoded, nil
}

// PurgeExpired 清理已过期的分享记录并失效对应的查询缓存
func (s *ShareService) PurgeExpired(ctx context.Context) (int64, error) {
	codes, err := s.repo.DeleteExpired(s.now())
	if err != nil {
		return 0, err
	}
	for _, code := range codes {
		if err := cache.Del(ctx, constants.CacheKeyShareCode+code); err != nil {
			logger.Warnw("share_code_cache_del_failed", "code", code, "error", err)
		}
	}
	if len(codes) > 0 {
		logger.Infow("shared_cart_purged", "deleted", len(codes))
	}
	return int64(len(codes)), nil
}

// randomCode 用强随机源生成大写十六进制分享码
func randomCode(length int) (string, error) {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := strings.ToUpper(hex.EncodeToString(buf))
	return code[:length], nil
}
