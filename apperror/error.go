// Package apperror defines the small, fixed error taxonomy shared by every
// procedure and REST handler.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code is the coarse error class surfaced to callers.
type Code string

const (
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

var statusByCode = map[Code]int{
	CodeBadRequest:      http.StatusBadRequest,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeTooManyRequests: http.StatusTooManyRequests,
	CodeInternal:        http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status used when the code is returned from a
// single-call endpoint.
func (c Code) HTTPStatus() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a typed, user-facing error. Message is shown to end users as is.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus is a shortcut for e.Code.HTTPStatus().
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// Wrap attaches an underlying cause that is logged but never sent to clients.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: cause}
}

func New(code Code, message string) *Error { return &Error{Code: code, Message: message} }

func BadRequest(message string) *Error   { return New(CodeBadRequest, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }
func TooManyRequests(message string) *Error {
	return New(CodeTooManyRequests, message)
}
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요.", cause: cause}
}

// From converts any error into an *Error. Typed errors are returned as is,
// a missing record becomes NOT_FOUND and everything else INTERNAL_SERVER_ERROR.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("요청한 데이터를 찾을 수 없습니다.").Wrap(err)
	}
	return Internal(err)
}

// CodeOf returns the code of err, or "" when err is nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return From(err).Code
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
