package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"success-sprout/internal/core/config"
)

// CORS 按配置放行来源；allowLocalhost 时任意端口的 localhost/127.0.0.1 均放行
func CORS(c config.CORS) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(c.AllowOrigins))
	for _, o := range c.AllowOrigins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if c.AllowAll {
				return true
			}
			if _, ok := allowed[strings.ToLower(origin)]; ok {
				return true
			}
			return c.AllowLocalhost && isLocalhost(origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", KeyRequestID},
		ExposeHeaders:    []string{KeyRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func isLocalhost(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	h := u.Hostname()
	return h == "localhost" || h == "127.0.0.1" || h == "::1"
}
