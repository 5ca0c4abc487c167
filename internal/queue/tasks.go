package queue

import (
	"github.com/brewcart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSharedCartPurge 过期分享码清理任务
	TaskSharedCartPurge = constants.TaskSharedCartPurge
)

// NewSharedCartPurgeTask 创建过期分享码清理任务（无载荷）
func NewSharedCartPurgeTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskSharedCartPurge, nil), nil
}
