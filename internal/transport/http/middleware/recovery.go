package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "success-sprout/internal/transport/http/response"
)

// Recovery panic 记录堆栈后统一回 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.AbortWith(c, http.StatusInternalServerError, "internal error")
	})
}
