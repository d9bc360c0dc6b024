package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"success-sprout/internal/core/config"
	mdw "success-sprout/internal/transport/http/middleware"
	resp "success-sprout/internal/transport/http/response"
)

type Options struct {
	RPS            float64
	Burst          int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	CORS           config.CORS
}

func (o Options) withDefaults() Options {
	if o.RPS <= 0 {
		o.RPS = 200
	}
	if o.Burst <= 0 {
		o.Burst = 400
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		// 需大于 PayPal 调用超时
		o.RequestTimeout = 30 * time.Second
	}
	return o
}

func newEngine(l *zap.Logger, o Options) *gin.Engine {
	o = o.withDefaults()
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.CORS(o.CORS),
		mdw.RateLimitPerIP(rate.Limit(o.RPS), o.Burst),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.NoRoute(func(c *gin.Context) { resp.AbortWith(c, http.StatusNotFound, "route not found") })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// NewAPIEngine 用户端：/api 下挂载注册的模块
func NewAPIEngine(l *zap.Logger, o Options, reg *Registry) *gin.Engine {
	r := newEngine(l, o)

	// 健康检查
	r.GET("/health", health)
	api := r.Group("/api")
	api.GET("/health", health)

	reg.MountAllAPI(api)
	return r
}
