package handlers

import (
	"net/http"
	"testing"

	"github.com/mroshb/daymate/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		errors.ErrCodeValidation:        http.StatusBadRequest,
		errors.ErrCodeUnauthorized:      http.StatusUnauthorized,
		errors.ErrCodeForbidden:         http.StatusForbidden,
		errors.ErrCodeSelfTarget:        http.StatusForbidden,
		errors.ErrCodeNotFound:          http.StatusNotFound,
		errors.ErrCodeInvalidTransition: http.StatusConflict,
		errors.ErrCodeDuplicateRequest:  http.StatusConflict,
		errors.ErrCodeAlreadyFriends:    http.StatusConflict,
		errors.ErrCodeAlreadyExists:     http.StatusConflict,
		errors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
		errors.ErrCodeInternalError:     http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, statusFor(code), code)
	}
}
