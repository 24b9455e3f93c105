package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/provider"
	"github.com/devonoff/internal/queue"
	"github.com/devonoff/internal/router"
	"github.com/devonoff/internal/worker"

	"go.uber.org/zap"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 与定时服务
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case err != nil && mode == ModeWorker:
			return nil, err
		case err != nil:
			// all 模式下队列未启用时仅运行 HTTP
			logger.Warnw("app_worker_skipped", "reason", err.Error())
		default:
			services = append(services, workerService)
		}
		if err == nil && cfg.Cleanup.Enabled {
			scheduler, err := worker.NewSchedulerService(&cfg.Queue, &cfg.Cleanup)
			if err != nil {
				return nil, err
			}
			services = append(services, scheduler)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := provider.NewContainer(opts.Config)
	defer container.Close()

	if opts.Mode == ModeCleanup {
		return RunCleanupOnce(context.Background(), container, opts.Logger)
	}

	runner, err := BuildRunner(opts.Config, container, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	for _, svc := range runner.services {
		httpService, ok := svc.(*HTTPService)
		if !ok {
			continue
		}
		if err := httpService.Listen(); err != nil {
			return err
		}
		addr = httpService.Addr()
	}
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

// RunCleanupOnce 手动触发一次清理：启用队列时投递任务，否则在当前进程内执行
func RunCleanupOnce(ctx context.Context, container *provider.Container, log *zap.SugaredLogger) error {
	if log == nil {
		log = logger.S()
	}
	if container == nil || container.CleanupService == nil {
		return errors.New("cleanup service not initialized")
	}
	payload := queue.StudyPostCleanupPayload{
		Reason:      queue.CleanupReasonManual,
		TriggeredAt: container.Clock.Now(),
	}
	if container.QueueClient.Enabled() {
		err := container.QueueClient.EnqueueStudyPostCleanup(payload)
		if errors.Is(err, queue.ErrCleanupAlreadyQueued) {
			log.Infow("cleanup_already_queued")
			return nil
		}
		if err != nil {
			return fmt.Errorf("enqueue cleanup: %w", err)
		}
		log.Infow("cleanup_enqueued", "triggered_at", payload.TriggeredAt)
		return nil
	}

	started := time.Now()
	report, err := container.CleanupService.Run(ctx)
	if container.Metrics != nil {
		container.Metrics.RecordCleanupRun(time.Since(started), err)
	}
	if err != nil {
		return fmt.Errorf("run cleanup: %w", err)
	}
	log.Infow("cleanup_finished",
		"reference_time", report.ReferenceTime,
		"expired", len(report.Expired),
		"deleted", len(report.Deleted),
		"deleted_comments", report.DeletedComments,
		"deleted_replies", report.DeletedReplies,
		"failed", len(report.ExpireFailed)+len(report.DeleteFailed),
	)
	if report.HasFailures() {
		return fmt.Errorf("cleanup finished with %d failures", len(report.ExpireFailed)+len(report.DeleteFailed))
	}
	return nil
}
