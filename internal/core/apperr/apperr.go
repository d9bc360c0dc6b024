package apperr

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，由传输层映射为 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindAlreadyExists
	KindGatewayUnavailable
	KindMissingReference
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindGatewayUnavailable:
		return "GatewayUnavailable"
	case KindMissingReference:
		return "MissingReference"
	default:
		return "InternalError"
	}
}

// Error 统一错误对象
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, apperr.ErrNotFound) 之类按 Kind 匹配
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// 哨兵：仅用于 errors.Is 比较
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists}
	ErrGatewayUnavailable = &Error{Kind: KindGatewayUnavailable}
	ErrMissingReference   = &Error{Kind: KindMissingReference}
	ErrInternal           = &Error{Kind: KindInternal}
)

func Validation(msg string) error      { return &Error{Kind: KindValidation, Msg: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Msg: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Msg: msg} }
func AlreadyExists(msg string) error   { return &Error{Kind: KindAlreadyExists, Msg: msg} }

func GatewayUnavailable(msg string, err error) error {
	return &Error{Kind: KindGatewayUnavailable, Msg: msg, Err: err}
}

func MissingReference(msg string) error { return &Error{Kind: KindMissingReference, Msg: msg} }

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf 非 *Error 的错误一律视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
