package worker

import (
	"context"

	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/provider"
	"github.com/brewcart/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSharedCartPurge, c.handleSharedCartPurge)
}

func (c *Consumer) handleSharedCartPurge(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shared_cart_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.ShareService == nil {
		logger.Warnw("worker_shared_cart_purge_skip_service_nil")
		return nil
	}
	deleted, err := c.ShareService.PurgeExpired(ctx)
	if err != nil {
		logger.Warnw("worker_shared_cart_purge_failed", "error", err)
		return err
	}
	logger.Debugw("worker_shared_cart_purge_done", "deleted", deleted)
	return nil
}
