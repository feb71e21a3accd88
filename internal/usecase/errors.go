package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// エラーの種類（handlerでHTTPステータスとcodeに変換する）
var (
	//400 入力不正
	ErrInvalidInput = errors.New("invalid input")
	//404
	ErrNotFound = errors.New("not found")
	//400 在庫不足など、状態として実行できない
	ErrInvalidState = errors.New("invalid state")
	//500 DBなど（呼び出し側で再試行してよい）
	ErrTransientStorage = errors.New("transient storage failure")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403　権限
	ErrForbidden = errors.New("forbidden")
	//409 競合
	ErrConflict = errors.New("conflict")
)

type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Kind }

// レスポンスのcode
func (e *HTTPError) Code() string {
	switch e.Kind {
	case ErrInvalidInput:
		return "INVALID_INPUT"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrInvalidState:
		return "INVALID_STATE"
	case ErrUnauthorized:
		return "UNAUTHORIZED"
	case ErrForbidden:
		return "FORBIDDEN"
	case ErrConflict:
		return "CONFLICT"
	default:
		return "TRANSIENT_STORAGE_FAILURE"
	}
}

// 再試行してよいか
func (e *HTTPError) Retryable() bool {
	return errors.Is(e.Kind, ErrTransientStorage)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindOf(status),
	}
}

// 400でも在庫不足はInvalidState
func newInvalidState(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Kind: ErrInvalidState}
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrTransientStorage
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 想定外のDBエラーはログに残して500にする（中身は返さない）
func storageError(ctx context.Context, op string, err error, attrs ...any) error {
	args := append([]any{slog.String("op", op), slog.Any("error", err)}, attrs...)
	slog.ErrorContext(ctx, "storage failure", args...)
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
