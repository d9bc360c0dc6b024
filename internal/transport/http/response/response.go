package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/core/apperr"
)

// Body 统一错误体
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 失败响应（customMsg 为空时用状态码默认文案）
func Error(code int, customMsg string) Body {
	msg := customMsg
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Body{Code: code, Message: msg}
}

// FromError 把 error 翻译为状态码与响应体；内部错误不向客户端透出细节
func FromError(err error) (int, Body) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, Error(http.StatusInternalServerError, "")
	}
	status := StatusOf(ae.Kind)
	if status >= http.StatusInternalServerError && ae.Kind != apperr.KindGatewayUnavailable {
		return status, Error(status, "")
	}
	msg := ae.Msg
	if msg == "" {
		msg = ae.Kind.String()
	}
	return status, Error(status, msg)
}

// Abort 终止请求并写错误体；原始错误挂到 c.Errors 供访问日志输出
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := FromError(err)
	c.AbortWithStatusJSON(status, body)
}

// AbortWith 直接按状态码终止（中间件用）
func AbortWith(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}
