package worker

import (
	"context"
	"errors"
	"time"

	"github.com/devonoff/internal/constants"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/provider"
	"github.com/devonoff/internal/queue"
	"github.com/devonoff/internal/service"

	"github.com/hibiken/asynq"
)

// CleanupCompletedEvent 清理完成事件
type CleanupCompletedEvent struct {
	Reason          string                   `json:"reason"`
	ReferenceTime   time.Time                `json:"reference_time"`
	Expired         int                      `json:"expired"`
	Deleted         int                      `json:"deleted"`
	DeletedComments int64                    `json:"deleted_comments"`
	DeletedReplies  int64                    `json:"deleted_replies"`
	Failures        []service.CleanupFailure `json:"failures,omitempty"`
}

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
	mux.HandleFunc(queue.TaskStudyPostCleanup, c.handleStudyPostCleanup)
}

func (c *Consumer) handleStudyPostCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseStudyPostCleanupPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_cleanup_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return errors.Join(err, asynq.SkipRetry)
	}
	if c.CleanupService == nil {
		logger.Warnw("worker_cleanup_skip_service_nil", "reason", payload.Reason)
		return nil
	}

	started := time.Now()
	report, err := c.CleanupService.Run(ctx)
	c.recordCleanup(report, time.Since(started), err)
	if err != nil {
		logger.Errorw("worker_cleanup_run_failed", "reason", payload.Reason, "error", err)
		return err
	}

	failures := append(append([]service.CleanupFailure{}, report.ExpireFailed...), report.DeleteFailed...)
	fields := []interface{}{
		"reason", payload.Reason,
		"reference_time", report.ReferenceTime,
		"expired", len(report.Expired),
		"candidates", report.Candidates,
		"deleted", len(report.Deleted),
		"deleted_comments", report.DeletedComments,
		"deleted_replies", report.DeletedReplies,
		"failed", len(failures),
	}
	if report.HasFailures() {
		// 单帖失败不重试整批，下次运行会重新选中
		logger.Warnw("worker_cleanup_finished_with_failures", append(fields, "failures", failures)...)
	} else {
		logger.Infow("worker_cleanup_finished", fields...)
	}

	if c.EventPublisher != nil {
		event := CleanupCompletedEvent{
			Reason:          payload.Reason,
			ReferenceTime:   report.ReferenceTime,
			Expired:         len(report.Expired),
			Deleted:         len(report.Deleted),
			DeletedComments: report.DeletedComments,
			DeletedReplies:  report.DeletedReplies,
			Failures:        failures,
		}
		if err := c.EventPublisher.Publish(ctx, constants.EventStudyPostCleanupDone, event); err != nil {
			logger.Warnw("worker_cleanup_publish_failed", "error", err)
		}
	}
	return nil
}

func (c *Consumer) recordCleanup(report *service.CleanupReport, elapsed time.Duration, runErr error) {
	if c.Metrics == nil {
		return
	}
	c.Metrics.RecordCleanupRun(elapsed, runErr)
	if report == nil {
		return
	}
	c.Metrics.RecordCleanupPosts("expired", len(report.Expired))
	c.Metrics.RecordCleanupPosts("expire_failed", len(report.ExpireFailed))
	c.Metrics.RecordCleanupPosts("deleted", len(report.Deleted))
	c.Metrics.RecordCleanupPosts("delete_failed", len(report.DeleteFailed))
	c.Metrics.RecordCleanupChildren("comments", report.DeletedComments)
	c.Metrics.RecordCleanupChildren("replies", report.DeletedReplies)
}
