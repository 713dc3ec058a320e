package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
)

// ErrNetwork marks failures to reach the server at all.
var ErrNetwork = errors.New("client: network error")

// Error is a failed call as reported by the server.
type Error struct {
	Code    apperror.Code
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("client: HTTP %d", e.Status)
	}
	return fmt.Sprintf("client: %s: %s", e.Code, e.Message)
}

func networkError(err error) error {
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// responseError decodes {"error": {...}} bodies and falls back to the HTTP
// status when the body carries no error.
func responseError(status int, body []byte) error {
	var out struct {
		Error *apperror.Error `json:"error"`
	}
	if json.Unmarshal(body, &out) == nil && out.Error != nil && out.Error.Code != "" {
		return &Error{Code: out.Error.Code, Message: out.Error.Message, Status: status}
	}
	return &Error{Status: status}
}

// Kind groups errors into the classes the UI has copy for.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not-found"
	KindConflict   Kind = "conflict"
	KindRateLimit  Kind = "rate-limit"
	KindServer     Kind = "server"
	KindUnknown    Kind = "unknown"
)

var kindByCode = map[apperror.Code]Kind{
	apperror.CodeBadRequest:      KindValidation,
	apperror.CodeUnauthorized:    KindAuth,
	apperror.CodeForbidden:       KindAuth,
	apperror.CodeNotFound:        KindNotFound,
	apperror.CodeConflict:        KindConflict,
	apperror.CodeTooManyRequests: KindRateLimit,
	apperror.CodeInternal:        KindServer,
}

// Classify maps err to a Kind. nil maps to "".
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}
	if k, ok := kindByCode[e.Code]; ok {
		return k
	}
	switch {
	case e.Status == http.StatusTooManyRequests:
		return KindRateLimit
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindAuth
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status >= http.StatusInternalServerError:
		return KindServer
	}
	return KindUnknown
}

var messages = map[Kind]string{
	KindNetwork:    "네트워크 연결을 확인한 후 다시 시도해주세요.",
	KindValidation: "입력한 내용을 다시 확인해주세요.",
	KindAuth:       "로그인이 필요하거나 접근 권한이 없습니다.",
	KindNotFound:   "요청한 정보를 찾을 수 없습니다.",
	KindConflict:   "이미 처리된 요청입니다.",
	KindRateLimit:  "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	KindServer:     "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
	KindUnknown:    "알 수 없는 오류가 발생했습니다.",
}

// Message returns the user-facing copy for k.
func Message(k Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return messages[KindUnknown]
}
