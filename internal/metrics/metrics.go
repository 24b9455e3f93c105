package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devonoff"

// Collector Prometheus 指标收集
type Collector struct {
	authTotal       *prometheus.CounterVec
	cleanupRuns     *prometheus.CounterVec
	cleanupPosts    *prometheus.CounterVec
	cleanupChildren *prometheus.CounterVec
	cleanupDuration prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector 创建并注册指标
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "认证操作次数，按操作与结果区分",
		}, []string{"operation", "outcome"}),
		cleanupRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_runs_total",
			Help:      "清理任务运行次数",
		}, []string{"result"}),
		cleanupPosts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_posts_total",
			Help:      "清理任务处理的帖子数",
		}, []string{"action"}),
		cleanupChildren: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_children_deleted_total",
			Help:      "级联删除的评论与回复数",
		}, []string{"kind"}),
		cleanupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cleanup_duration_seconds",
			Help:      "清理任务耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求数",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.authTotal,
		c.cleanupRuns,
		c.cleanupPosts,
		c.cleanupChildren,
		c.cleanupDuration,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

// ObserveAuth 记录认证操作结果
func (c *Collector) ObserveAuth(operation, outcome string) {
	c.authTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCleanupRun 记录一次清理运行
func (c *Collector) RecordCleanupRun(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.cleanupRuns.WithLabelValues(result).Inc()
	c.cleanupDuration.Observe(duration.Seconds())
}

// RecordCleanupPosts 记录帖子处理数，action 为 expired / deleted / expire_failed / delete_failed
func (c *Collector) RecordCleanupPosts(action string, count int) {
	if count <= 0 {
		return
	}
	c.cleanupPosts.WithLabelValues(action).Add(float64(count))
}

// RecordCleanupChildren 记录级联删除的子记录数
func (c *Collector) RecordCleanupChildren(kind string, count int64) {
	if count <= 0 {
		return
	}
	c.cleanupChildren.WithLabelValues(kind).Add(float64(count))
}

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler Prometheus 抓取端点
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
