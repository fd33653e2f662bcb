package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeSelfTarget        = "SELF_TARGET"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDuplicateRequest  = "DUPLICATE_REQUEST"
	ErrCodeAlreadyFriends    = "ALREADY_FRIENDS"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// CodeOf returns the code of the outermost AppError in err's chain, or
// ErrCodeInternalError for anything else.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// MessageOf returns the user-facing message of an AppError.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// IsUserFacing reports whether err is a validation or business-rule rejection
// that should be rendered inline rather than aborting the request.
func IsUserFacing(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidation,
		ErrCodeInvalidTransition,
		ErrCodeDuplicateRequest,
		ErrCodeAlreadyFriends,
		ErrCodeAlreadyExists,
		ErrCodeRateLimitExceeded:
		return true
	}
	return false
}

// IsRetryable reports whether the failure came from the store rather than a
// business rule. Nothing is committed when it is returned.
func IsRetryable(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeInternalError
}
