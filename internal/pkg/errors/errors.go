package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с копиями шаблонов
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails возвращает копию ошибки с деталями; шаблоны из codes.go не мутируются
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap возвращает копию ошибки с причиной
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// Validation - агрегированная ошибка валидации со списком всех нарушенных правил
func Validation(violations []string) *AppError {
	return &AppError{
		Code:       CodeValidationFailed,
		Message:    strings.Join(violations, "; "),
		StatusCode: http.StatusUnprocessableEntity,
		Details:    map[string]interface{}{"violations": violations},
	}
}

// FetchFailed - ошибка загрузки данных; предыдущее состояние сохраняется
func FetchFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeFetchFailed,
		Message:    FetchFailedMessage,
		StatusCode: http.StatusBadGateway,
		Details:    map[string]interface{}{"reason": cause.Error()},
		cause:      cause,
	}
}

// MutationFailed - ошибка удалённой записи (toggle, create, update, delete)
func MutationFailed(message string, cause error) *AppError {
	return &AppError{
		Code:       CodeMutationFailed,
		Message:    fmt.Sprintf("%s: %v", message, cause),
		StatusCode: http.StatusBadGateway,
		Details:    map[string]interface{}{"reason": cause.Error()},
		cause:      cause,
	}
}

func NotFound(what, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s non trovato: %s", what, id),
		StatusCode: http.StatusNotFound,
		Details:    map[string]interface{}{"id": id},
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
		Details:    make(map[string]interface{}),
	}
}

// As is a shortcut around errors.As for *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
