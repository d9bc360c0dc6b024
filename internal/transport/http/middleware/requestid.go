package middleware

import (
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const KeyRequestID = "X-Request-ID"

type ridKey struct{}

// 上游传入的 id 只接受安全字符，防止日志注入
var ridPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// RequestID 透传或生成请求 id，同时写入 gin 上下文与 request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if !ridPattern.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ridKey{}, rid))
		c.Next()
	}
}

// RequestIDFrom 供 service/provider 调用处取当前请求 id
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(ridKey{}).(string)
	return rid
}
