package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
	resp "success-sprout/internal/transport/http/response"
)

const (
	KeyUser   = "currentUser"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// Authenticator 校验 token 并加载当前账号
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Authenticate 解析 Bearer token，挂载当前账号（而非 claims）
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(ah, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			resp.AbortWith(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		u, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if apperr.KindOf(err) == apperr.KindUnauthenticated {
				resp.AbortWith(c, http.StatusUnauthorized, err.Error())
				return
			}
			resp.Abort(c, err)
			return
		}
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Set(KeyRole, string(u.Role))
		c.Next()
	}
}

// RequireRoles 必须挂在 Authenticate 之后；未挂载账号时按 401 处理
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			resp.AbortWith(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		resp.AbortWith(c, http.StatusForbidden, "access denied for role "+string(u.Role))
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
