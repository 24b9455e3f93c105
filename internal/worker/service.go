package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultCleanupCron = "0 0 * * *"

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.S()
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// SchedulerService 定时投递清理任务
type SchedulerService struct {
	name      string
	scheduler *asynq.Scheduler
	entryID   string
}

// NewSchedulerService 创建清理定时服务
func NewSchedulerService(queueCfg *config.QueueConfig, cleanupCfg *config.CleanupConfig) (*SchedulerService, error) {
	if queueCfg == nil || !queueCfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if cleanupCfg == nil || !cleanupCfg.Enabled {
		return nil, errors.New("cleanup disabled")
	}
	loc, err := loadLocation(cleanupCfg.Timezone)
	if err != nil {
		return nil, err
	}
	opt, _ := queue.BuildServerConfig(queueCfg)
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   logger.S(),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Warnw("scheduler_cleanup_enqueue_failed", "error", err)
				return
			}
			logger.Debugw("scheduler_cleanup_enqueued", "task_id", info.ID)
		},
	})

	task, err := queue.NewStudyPostCleanupTask(queue.StudyPostCleanupPayload{Reason: queue.CleanupReasonSchedule})
	if err != nil {
		return nil, err
	}
	spec := cronSpec(cleanupCfg.Cron)
	entryID, err := scheduler.Register(spec, task, asynq.Queue(queue.DefaultQueue), asynq.MaxRetry(3))
	if err != nil {
		return nil, err
	}
	logger.Infow("scheduler_cleanup_registered", "cron", spec, "timezone", loc.String(), "entry_id", entryID)
	return &SchedulerService{
		name:      "scheduler",
		scheduler: scheduler,
		entryID:   entryID,
	}, nil
}

// Name 服务名称
func (s *SchedulerService) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start 启动定时器
func (s *SchedulerService) Start(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return errors.New("scheduler not initialized")
	}
	return s.scheduler.Run()
}

// Stop 停止定时器
func (s *SchedulerService) Stop(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return nil
	}
	s.scheduler.Shutdown()
	return nil
}

func cronSpec(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return defaultCleanupCron
	}
	return spec
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
