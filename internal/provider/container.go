package provider

import (
	"github.com/devonoff/internal/cache"
	"github.com/devonoff/internal/clock"
	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/events"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/metrics"
	"github.com/devonoff/internal/models"
	"github.com/devonoff/internal/queue"
	"github.com/devonoff/internal/repository"
	"github.com/devonoff/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	Clock          clock.Clock
	QueueClient    *queue.Client
	Store          service.CredentialStore
	EventPublisher events.Publisher
	Registry       *prometheus.Registry
	Metrics        *metrics.Collector

	// Repositories
	UserRepo         repository.UserRepository
	StudentRepo      repository.StudentRepository
	StudySignupRepo  repository.StudySignupRepository
	StudyPostRepo    repository.StudyPostRepository
	StudyCommentRepo repository.StudyCommentRepository
	StudyReplyRepo   repository.StudyReplyRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	TokenService     *service.TokenService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	AuthService      *service.AuthService
	StudyPostService *service.StudyPostService
	CommentService   *service.CommentService
	SignupService    *service.StudySignupService
	CleanupService   *service.CleanupService
	LoginLogService  *service.UserLoginLogService
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
		Config:         cfg,
		Clock:          clock.System{},
		QueueClient:    queueClient,
		EventPublisher: events.NewPublisher(cfg.Events),
	}
	c.initStore()
	c.initMetrics()

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices()

	return c
}

// NewContainerWith 使用给定的数据库与基础设施组装容器，供测试与嵌入使用
func NewContainerWith(cfg *config.Config, db *gorm.DB, store service.CredentialStore, clk clock.Clock) *Container {
	if clk == nil {
		clk = clock.System{}
	}
	c := &Container{
		Config:         cfg,
		Clock:          clk,
		Store:          store,
		EventPublisher: events.NopPublisher{},
	}
	c.initMetrics()
	c.initRepositories(db)
	c.initServices()
	return c
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initStore() {
	if client := cache.Client(); client != nil {
		c.Store = cache.NewRedisCredentialStore(client, cache.Prefix())
		return
	}
	// 未启用 Redis 时凭证仅保存在进程内，多实例部署不可用
	logger.Warnw("provider_credential_store_in_memory")
	c.Store = cache.NewMemoryCredentialStore(c.Clock)
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewCollector(c.Registry)
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.StudentRepo = repository.NewStudentRepository(db)
	c.StudySignupRepo = repository.NewStudySignupRepository(db)
	c.StudyPostRepo = repository.NewStudyPostRepository(db)
	c.StudyCommentRepo = repository.NewStudyCommentRepository(db)
	c.StudyReplyRepo = repository.NewStudyReplyRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	c.TokenService = service.NewTokenService(c.Config.JWT, c.Clock)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)

	c.AuthService = service.NewAuthService(
		c.Config,
		c.UserRepo,
		c.StudentRepo,
		c.StudySignupRepo,
		c.StudyPostRepo,
		c.TokenService,
		c.Store,
		c.EmailService,
		c.Clock,
	)
	c.AuthService.SetEventPublisher(c.EventPublisher)
	c.AuthService.SetRecorder(c.Metrics)

	c.StudyPostService = service.NewStudyPostService(c.StudyPostRepo, c.UserRepo, c.Clock)
	c.StudyPostService.SetEventPublisher(c.EventPublisher)
	c.CommentService = service.NewCommentService(c.StudyPostRepo, c.StudyCommentRepo, c.StudyReplyRepo)
	c.SignupService = service.NewStudySignupService(c.StudyPostRepo, c.StudySignupRepo, c.StudentRepo)
	c.CleanupService = service.NewCleanupService(c.Config.Cleanup, c.StudyPostRepo, c.StudyCommentRepo, c.StudyReplyRepo, c.Clock)
	c.LoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo, c.Clock)
}
