package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"google.golang.org/api/googleapi"
)

// Error 是推理服务返回的结构化失败，携带 HTTP 状态与原始错误详情。
type Error struct {
	Status     int
	StatusText string
	Message    string
	Details    any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = e.StatusText
	}
	return fmt.Sprintf("provider status=%d: %s", e.Status, msg)
}

// NewError 按状态码构造 Error，StatusText 取标准 HTTP 原因短语。
func NewError(status int, message string, details any) *Error {
	text := http.StatusText(status)
	if text == "" {
		text = fmt.Sprintf("status %d", status)
	}
	return &Error{Status: status, StatusText: text, Message: message, Details: details}
}

// fromAPIError 把 SDK 错误链中的 googleapi.Error 转换为 *Error；不是结构化错误时返回 nil。
func fromAPIError(err error) *Error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code <= 0 {
		return nil
	}
	return NewError(gerr.Code, gerr.Message, errorDetails(gerr))
}

func errorDetails(gerr *googleapi.Error) any {
	body := strings.TrimSpace(gerr.Body)
	if body != "" && gjson.Valid(body) {
		if node := gjson.Get(body, "error"); node.Exists() {
			return node.Value()
		}
		return gjson.Parse(body).Value()
	}
	if len(gerr.Details) > 0 {
		return gerr.Details
	}
	return nil
}
