package response

import (
	"net/http"

	"success-sprout/internal/core/apperr"
)

// kindStatus 业务错误分类 → HTTP 状态码
var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:         http.StatusBadRequest,
	apperr.KindUnauthenticated:    http.StatusUnauthorized,
	apperr.KindForbidden:          http.StatusForbidden,
	apperr.KindNotFound:           http.StatusNotFound,
	apperr.KindAlreadyExists:      http.StatusBadRequest,
	apperr.KindGatewayUnavailable: http.StatusBadGateway,
	apperr.KindMissingReference:   http.StatusInternalServerError,
	apperr.KindInternal:           http.StatusInternalServerError,
}

// StatusOf 未知分类按 500 处理
func StatusOf(k apperr.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}
