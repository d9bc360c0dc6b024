package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/transport/http/middleware"
	resp "success-sprout/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group() *gin.RouterGroup { return e.g }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// NoInput 无入参动作
type NoInput struct{}

// Message 只有提示语的响应
type Message struct {
	Message string `json:"message"`
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string            // "GET" | "POST" | "PUT" | "DELETE"
	Path    string            // 例："/login"、"/courses/:id/enroll"
	Binder  Binder            // 绑定方式
	Status  int               // 成功状态码，默认 200
	Use     []gin.HandlerFunc // 前置中间件（鉴权、角色）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			if middleware.IsBodyTooLarge(bindErr) {
				resp.AbortWith(c, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			_ = c.Error(bindErr)
			resp.AbortWith(c, http.StatusBadRequest, bindMessage(bindErr))
			return
		}

		// 2) 执行
		out, err := a.Handler(c, &in)

		// 3) 统一错误映射
		if err != nil {
			resp.Abort(c, err)
			return
		}
		c.JSON(status, out)
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}

func bindMessage(err error) string {
	if strings.Contains(err.Error(), "EOF") {
		return "request body required"
	}
	return "invalid request: " + err.Error()
}
