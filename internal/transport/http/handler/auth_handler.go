package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/domain"
	"success-sprout/internal/service"
	httpez "success-sprout/internal/transport/http/ez"
	mdw "success-sprout/internal/transport/http/middleware"
)

type ResumeQuery struct {
	UserID string `form:"userId"`
}

// AuthHandler 注册登录、个人资料、简历直传
type AuthHandler struct {
	auth   *service.AuthService
	resume *service.ResumeService
	authn  gin.HandlerFunc
}

func NewAuthHandler(a *service.AuthService, r *service.ResumeService, authn gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{auth: a, resume: r, authn: authn}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	pub := httpez.New(api)
	// /register /login 与 /auth/* 两套路径
	for _, prefix := range []string{"", "/auth"} {
		httpez.RegisterAction(pub, httpez.Action[service.RegisterInput, *service.AuthResult]{
			Method: http.MethodPost, Path: prefix + "/register", Binder: httpez.BindJSON, Status: http.StatusCreated,
			Handler: func(c *gin.Context, in *service.RegisterInput) (*service.AuthResult, error) {
				return h.auth.Register(c.Request.Context(), *in)
			},
		})
		httpez.RegisterAction(pub, httpez.Action[service.LoginInput, *service.AuthResult]{
			Method: http.MethodPost, Path: prefix + "/login", Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *service.LoginInput) (*service.AuthResult, error) {
				return h.auth.Login(c.Request.Context(), *in)
			},
		})
	}

	authed := []gin.HandlerFunc{h.authn}
	httpez.RegisterAction(pub, httpez.Action[httpez.NoInput, domain.PublicUser]{
		Method: http.MethodGet, Path: "/auth/me", Binder: httpez.BindNone, Use: authed,
		Handler: func(c *gin.Context, _ *httpez.NoInput) (domain.PublicUser, error) {
			return mdw.CurrentUser(c).Public(), nil
		},
	})
	httpez.RegisterAction(pub, httpez.Action[service.ProfileInput, *domain.PublicUser]{
		Method: http.MethodPut, Path: "/auth/profile", Binder: httpez.BindJSON, Use: authed,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.PublicUser, error) {
			return h.auth.UpdateProfile(c.Request.Context(), mdw.CurrentUser(c).ID, *in)
		},
	})
	httpez.RegisterAction(pub, httpez.Action[service.ResumeUploadInput, *service.PresignedURL]{
		Method: http.MethodPost, Path: "/auth/resume", Binder: httpez.BindJSON, Use: authed,
		Handler: func(c *gin.Context, in *service.ResumeUploadInput) (*service.PresignedURL, error) {
			return h.resume.UploadURL(c.Request.Context(), mdw.CurrentUser(c), *in)
		},
	})
	httpez.RegisterAction(pub, httpez.Action[service.ResumeConfirmInput, *service.PresignedURL]{
		Method: http.MethodPost, Path: "/auth/resume/confirm", Binder: httpez.BindJSON, Use: authed,
		Handler: func(c *gin.Context, in *service.ResumeConfirmInput) (*service.PresignedURL, error) {
			return h.resume.ConfirmUpload(c.Request.Context(), mdw.CurrentUser(c), *in)
		},
	})
	httpez.RegisterAction(pub, httpez.Action[ResumeQuery, *service.PresignedURL]{
		Method: http.MethodGet, Path: "/auth/resume", Binder: httpez.BindQuery, Use: authed,
		Handler: func(c *gin.Context, in *ResumeQuery) (*service.PresignedURL, error) {
			return h.resume.DownloadURL(c.Request.Context(), mdw.CurrentUser(c), in.UserID)
		},
	})
	httpez.RegisterAction(pub, httpez.Action[httpez.NoInput, *domain.PublicUser]{
		Method: http.MethodGet, Path: "/auth/:id", Binder: httpez.BindNone, Use: authed,
		Handler: func(c *gin.Context, _ *httpez.NoInput) (*domain.PublicUser, error) {
			return h.auth.Profile(c.Request.Context(), c.Param("id"))
		},
	})
}
