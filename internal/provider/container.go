package provider

import (
	"time"

	"github.com/brewcart/internal/cache"
	"github.com/brewcart/internal/config"
	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/models"
	"github.com/brewcart/internal/queue"
	"github.com/brewcart/internal/repository"
	"github.com/brewcart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SharedCartRepo repository.SharedCartRepository

	// Services
	ShareService *service.ShareService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.SharedCartRepo = repository.NewSharedCartRepository(models.DB)
	c.ShareService = service.NewShareService(c.SharedCartRepo, service.ShareServiceOptions{
		CodeLength:  cfg.Share.CodeLength,
		MaxAttempts: cfg.Share.MaxAttempts,
		CodeTTL:     time.Duration(cfg.Share.CodeTTLHours) * time.Hour,
		CacheTTL:    time.Duration(cfg.Share.CacheTTLSeconds) * time.Second,
	})

	return c
}

// Close 释放容器持有的资源
func (c *Container) Close() error {
	if c == nil || c.QueueClient == nil {
		return nil
	}
	return c.QueueClient.Close()
}
