package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/domain"
	"success-sprout/internal/transport/http/middleware"
)

// CrudService 目录类资源的业务接口
type CrudService[T any, In any] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, caller *domain.User, in *In) (*T, error)
	Update(ctx context.Context, caller *domain.User, id string, in *In) (*T, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
	Join(ctx context.Context, caller *domain.User, id string) error
}

type CrudConfig[T any, In any] struct {
	Group   *gin.RouterGroup
	Path    string // 例 "/courses"
	Name    string // 提示语中的资源名
	Service CrudService[T, In]

	Auth       gin.HandlerFunc // 写操作与报名前置鉴权
	WriteRoles []domain.Role   // 创建/修改/删除允许的角色
	JoinRoles  []domain.Role   // 报名/申请允许的角色

	JoinAction  string // "enroll" / "apply"；为空不挂载
	JoinMessage string
}

// Crud 一次注册 list/get/create/update/delete/join
func Crud[T any, In any](cfg CrudConfig[T, In]) {
	e := New(cfg.Group.Group(cfg.Path))
	svc := cfg.Service
	write := []gin.HandlerFunc{cfg.Auth, middleware.RequireRoles(cfg.WriteRoles...)}

	RegisterAction(e, Action[domain.ListQuery, domain.Page[T]]{
		Method: http.MethodGet, Path: "", Binder: BindQuery,
		Handler: func(c *gin.Context, q *domain.ListQuery) (domain.Page[T], error) {
			return svc.List(c.Request.Context(), *q)
		},
	})
	RegisterAction(e, Action[NoInput, *T]{
		Method: http.MethodGet, Path: "/:id", Binder: BindNone,
		Handler: func(c *gin.Context, _ *NoInput) (*T, error) {
			return svc.Get(c.Request.Context(), c.Param("id"))
		},
	})
	RegisterAction(e, Action[In, *T]{
		Method: http.MethodPost, Path: "", Binder: BindJSON, Status: http.StatusCreated, Use: write,
		Handler: func(c *gin.Context, in *In) (*T, error) {
			return svc.Create(c.Request.Context(), middleware.CurrentUser(c), in)
		},
	})
	RegisterAction(e, Action[In, *T]{
		Method: http.MethodPut, Path: "/:id", Binder: BindJSON, Use: write,
		Handler: func(c *gin.Context, in *In) (*T, error) {
			return svc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
		},
	})
	RegisterAction(e, Action[NoInput, Message]{
		Method: http.MethodDelete, Path: "/:id", Binder: BindNone, Use: write,
		Handler: func(c *gin.Context, _ *NoInput) (Message, error) {
			if err := svc.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
				return Message{}, err
			}
			return Message{Message: cfg.Name + " deleted successfully"}, nil
		},
	})

	if cfg.JoinAction == "" {
		return
	}
	RegisterAction(e, Action[NoInput, Message]{
		Method: http.MethodPost, Path: "/:id/" + cfg.JoinAction, Binder: BindNone,
		Use: []gin.HandlerFunc{cfg.Auth, middleware.RequireRoles(cfg.JoinRoles...)},
		Handler: func(c *gin.Context, _ *NoInput) (Message, error) {
			if err := svc.Join(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
				return Message{}, err
			}
			return Message{Message: cfg.JoinMessage}, nil
		},
	})
}
