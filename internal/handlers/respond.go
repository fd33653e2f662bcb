package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mroshb/daymate/internal/middleware"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodeSelfTarget:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidTransition,
		errors.ErrCodeDuplicateRequest,
		errors.ErrCodeAlreadyFriends,
		errors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)

	message := errors.MessageOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Error: message})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid request body")
	}
	return nil
}

// actor returns the authenticated user's id. Routes behind Auth always
// have one.
func actor(r *http.Request) string {
	userID, _ := middleware.UserIDFromContext(r.Context())
	return userID
}
