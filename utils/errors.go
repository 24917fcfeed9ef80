package utils

import (
	"errors"
	"net/http"
)

// HTTPError 业务异常：固定的 HTTP 状态码 + 提示信息
// 由 service 层返回，handler 通过 c.Error 交给 ErrorHandlerMiddleware 统一输出
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError 创建业务异常
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// ConflictError 409
func ConflictError(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

// UnauthorizedError 401
func UnauthorizedError(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// AsHTTPError 从错误链中取出 HTTPError
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
