package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "success-sprout/internal/transport/http/response"
)

// queueWait 并发槽位排队上限，超时直接 503
const queueWait = 2 * time.Second

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 与 PayPal 下游）
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), queueWait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			resp.AbortWith(c, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

// MaxBodyBytes 限制请求体大小；超限在绑定时报错，由 IsBodyTooLarge 识别为 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.AbortWith(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// Timeout 给请求上下文加截止时间；下游按 ctx 退出后补 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.AbortWith(c, http.StatusGatewayTimeout, "timeout")
		}
	}
}
