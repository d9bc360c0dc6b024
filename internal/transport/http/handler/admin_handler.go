package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/domain"
	"success-sprout/internal/service"
	httpez "success-sprout/internal/transport/http/ez"
	mdw "success-sprout/internal/transport/http/middleware"
)

type AdminHandler struct {
	svc   *service.AdminService
	authn gin.HandlerFunc
}

func NewAdminHandler(svc *service.AdminService, authn gin.HandlerFunc) *AdminHandler {
	return &AdminHandler{svc: svc, authn: authn}
}

// MountAdmin 管理端统一要求 admin 角色
func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	g := admin.Group("", h.authn, mdw.RequireRoles(domain.RoleAdmin))
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, *service.Dashboard]{
		Method: http.MethodGet, Path: "/dashboard", Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *httpez.NoInput) (*service.Dashboard, error) {
			return h.svc.Dashboard(c.Request.Context())
		},
	})

	// --- 用户列表 ---
	httpez.RegisterAction(ez, httpez.Action[service.UserListQuery, domain.Page[domain.PublicUser]]{
		Method: http.MethodGet, Path: "/users", Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *service.UserListQuery) (domain.Page[domain.PublicUser], error) {
			return h.svc.ListUsers(c.Request.Context(), *in)
		},
	})

	// --- 封禁（软删） ---
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, httpez.Message]{
		Method: http.MethodPost, Path: "/users/:id/ban", Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *httpez.NoInput) (httpez.Message, error) {
			if err := h.svc.Ban(c.Request.Context(), mdw.CurrentUser(c), c.Param("id")); err != nil {
				return httpez.Message{}, err
			}
			return httpez.Message{Message: "user banned"}, nil
		},
	})

	// --- 改角色 ---
	httpez.RegisterAction(ez, httpez.Action[service.RoleInput, *domain.PublicUser]{
		Method: http.MethodPut, Path: "/users/:id/role", Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.RoleInput) (*domain.PublicUser, error) {
			return h.svc.SetRole(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), in.Role)
		},
	})
}
