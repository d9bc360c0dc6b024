package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/config"
	"success-sprout/internal/domain"
)

type fakeAuth map[string]*domain.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == "db-down" {
		return nil, apperr.Internal("find user", context.DeadlineExceeded)
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperr.Unauthenticated("invalid token")
}

func serve(r *gin.Engine, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func init() { gin.SetMode(gin.TestMode) }

func TestAuthenticateAndRequireRoles(t *testing.T) {
	users := fakeAuth{
		"stu": {ID: "u1", Role: domain.RoleStudent},
		"rec": {ID: "u2", Role: domain.RoleRecruiter},
	}
	r := gin.New()
	r.GET("/open-gate", RequireRoles(domain.RoleStudent), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/students", Authenticate(users), RequireRoles(domain.RoleStudent), func(c *gin.Context) {
		assert.Equal(t, "u1", CurrentUser(c).ID)
		assert.Equal(t, "u1", c.GetString(KeyUserID))
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"gate without auth", "/open-gate", "", http.StatusUnauthorized},
		{"no header", "/students", "", http.StatusUnauthorized},
		{"basic scheme", "/students", "Basic stu", http.StatusUnauthorized},
		{"empty bearer", "/students", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "/students", "Bearer nope", http.StatusUnauthorized},
		{"store failure", "/students", "Bearer db-down", http.StatusInternalServerError},
		{"wrong role", "/students", "Bearer rec", http.StatusForbidden},
		{"ok", "/students", "bearer stu", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tc.path, map[string]string{"Authorization": tc.header})
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(1, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, http.MethodGet, "/", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORS{AllowOrigins: []string{"https://app.example.com/"}, AllowLocalhost: true}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		origin string
		allow  bool
	}{
		{"https://app.example.com", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:8080", true},
		{"https://evil.example.com", false},
	}
	for _, tc := range cases {
		w := serve(r, http.MethodGet, "/", map[string]string{"Origin": tc.origin})
		if tc.allow {
			assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"), tc.origin)
		} else {
			assert.Equal(t, http.StatusForbidden, w.Code, tc.origin)
		}
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			assert.True(t, IsBodyTooLarge(err))
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// 未声明长度的请求体在读取时截断
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := serve(r, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRequestIDAndMask(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, c.GetString(KeyRequestID), RequestIDFrom(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/", map[string]string{KeyRequestID: "rid-1"})
	assert.Equal(t, "rid-1", w.Header().Get(KeyRequestID))
	for _, bad := range []string{strings.Repeat("x", 200), "rid\nforged=1"} {
		w = serve(r, http.MethodGet, "/", map[string]string{KeyRequestID: bad})
		require.Len(t, w.Header().Get(KeyRequestID), 36)
	}

	m := mask(map[string][]string{"token": {"EC-123"}, "page": {"2"}})
	assert.Equal(t, []string{"****"}, m["token"])
	assert.Equal(t, []string{"2"}, m["page"])
}
