// Package apperror defines the coded errors returned by the store services.
package apperror

import "fmt"

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"
	CodeWrite             = "WRITE_ERROR"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Error is a service error carrying a stable code. Two errors are considered
// equal by errors.Is when their codes match, so detailed instances still
// match the package sentinels.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrValidation        = New(CodeValidation, "validation failed")
	ErrNotFound          = New(CodeNotFound, "resource not found")
	ErrDuplicateEmail    = New(CodeDuplicateEmail, "Email already exists")
	ErrWrite             = New(CodeWrite, "write failed")
	ErrInsufficientStock = New(CodeInsufficientStock, "insufficient stock")
)

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func InsufficientStock(format string, args ...any) *Error {
	return New(CodeInsufficientStock, fmt.Sprintf(format, args...))
}

// Write wraps a persistence failure.
func Write(message string, err error) *Error {
	return &Error{Code: CodeWrite, Message: message, Err: err}
}
