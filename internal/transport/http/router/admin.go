package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAdminEngine 管理端：/admin/v1，鉴权与角色由模块自行挂载
func NewAdminEngine(l *zap.Logger, o Options, reg *Registry) *gin.Engine {
	r := newEngine(l, o)

	// 健康检查
	r.GET("/health", health)

	admin := r.Group("/admin/v1")
	reg.MountAllAdmin(admin)
	return r
}
