package generate

import (
	"errors"
	"net/http"

	"gemapi/internal/gateway/provider"
)

// Kind 区分生成失败的来源。
type Kind int

const (
	KindClientInput Kind = iota + 1
	KindProvider
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client_input"
	case KindProvider:
		return "provider"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error 是返回给调用方的失败描述，Status 即 HTTP 状态码。
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func clientInput(msg string) *Error {
	return &Error{Kind: KindClientInput, Status: http.StatusBadRequest, Message: msg}
}

// ClientInputWithStatus 构造非 400 的客户端输入错误（例如请求体过大）。
func ClientInputWithStatus(status int, msg string) *Error {
	return &Error{Kind: KindClientInput, Status: status, Message: msg}
}

// internal 构造 500 错误；msg 返回给客户端，err 只进日志，避免泄露服务端路径。
func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msg, cause: err}
}

// Classify 把任意错误归入三类之一：已分类的 *Error 原样返回，
// provider.Error 保留其状态与详情，其余一律视为 500。
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	var perr *provider.Error
	if errors.As(err, &perr) {
		return &Error{
			Kind:    KindProvider,
			Status:  perr.Status,
			Message: perr.StatusText,
			Details: perr.Details,
			cause:   perr,
		}
	}
	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msg, cause: err}
}
