package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devonoff/internal/cache"
	"github.com/devonoff/internal/config"
	publichandlers "github.com/devonoff/internal/http/handlers/public"
	"github.com/devonoff/internal/logger"
	"github.com/devonoff/internal/metrics"
	"github.com/devonoff/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	redisPrefix := cache.Prefix()
	redisClient := cache.Client()
	signInRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:sign_in", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	emailSendRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:email_send", redisPrefix),
		WindowSeconds: cfg.Security.EmailSendRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.EmailSendRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", healthHandler)
	if cfg.Metrics.Enabled && c.Registry != nil {
		r.GET(metricsPath(cfg.Metrics.Path), gin.WrapH(metrics.Handler(c.Registry)))
	}

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.GET("/captcha/image", h.GetImageCaptcha)
			auth.POST("/nickname-check", h.NicknameCheck)
			auth.POST("/email-send", RateLimitMiddleware(redisClient, emailSendRule, KeyByIPAndJSONField("email")), h.EmailSend)
			auth.POST("/email-certification", h.EmailCertification)
			auth.POST("/sign-up", h.SignUp)
			auth.POST("/sign-in", RateLimitMiddleware(redisClient, signInRule, KeyByIPAndJSONField("email")), h.SignIn)
			auth.POST("/token-reissue", h.TokenReissue)
		}

		apiV1.GET("/study-posts", h.ListStudyPosts)
		apiV1.GET("/study-posts/:id", h.GetStudyPost)
		apiV1.GET("/study-posts/:id/comments", h.ListComments)

		// 需要登录的接口
		authed := apiV1.Group("")
		authed.Use(UserJWTAuthMiddleware(c.TokenService, c.UserRepo))
		{
			authed.POST("/auth/sign-out", h.SignOut)

			authed.GET("/me", h.GetMe)
			authed.PUT("/me", h.UpdateMe)
			authed.GET("/me/login-logs", h.GetMyLoginLogs)
			authed.PUT("/me/password", h.ChangePassword)
			authed.POST("/me/withdrawal", h.Withdraw)

			authed.POST("/study-posts", h.CreateStudyPost)
			authed.PUT("/study-posts/:id", h.UpdateStudyPost)
			authed.POST("/study-posts/:id/cancel", h.CancelStudyPost)
			authed.POST("/study-posts/:id/signups", h.ApplyStudySignup)
			authed.GET("/study-posts/:id/signups", h.ListStudySignups)
			authed.PUT("/study-signups/:id", h.DecideStudySignup)
			authed.DELETE("/study-signups/:id", h.WithdrawStudySignup)

			authed.POST("/study-posts/:id/comments", h.CreateComment)
			authed.PUT("/comments/:id", h.UpdateComment)
			authed.DELETE("/comments/:id", h.DeleteComment)
			authed.POST("/comments/:id/replies", h.CreateReply)
			authed.PUT("/replies/:id", h.UpdateReply)
			authed.DELETE("/replies/:id", h.DeleteReply)
		}
	}

	return r
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(ctx); err != nil {
			logger.Warnw("health_redis_ping_failed", "error", err)
			status = "degraded"
			redisStatus = "unavailable"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "redis": redisStatus})
}

func metricsPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/metrics"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
