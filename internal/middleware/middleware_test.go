package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mroshb/daymate/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_minimum_32_chars"

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		_, _ = w.Write([]byte(userID))
	})
}

func TestAuth(t *testing.T) {
	token, err := security.GenerateJWT("user-1", "alice", testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := security.GenerateJWT("user-1", "alice", testSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "user-1"},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
	}

	handler := Auth(testSecret)(echoUser())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRateLimiter_UserBudget(t *testing.T) {
	rl := NewRateLimiter(3, 100, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.CheckUserLimit("alice"), "request %d", i)
	}
	assert.False(t, rl.CheckUserLimit("alice"))
	assert.True(t, rl.CheckUserLimit("bob"))
	assert.Equal(t, 3, rl.GetUserRemaining("carol"))

	rl.Reset()
	assert.True(t, rl.CheckUserLimit("alice"))
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl)(echoUser())
	serve := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if userID != "" {
			req = req.WithContext(WithUserID(req.Context(), userID))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("alice"))
	assert.Equal(t, http.StatusTooManyRequests, serve("alice"))
	assert.Equal(t, http.StatusTooManyRequests, serve("bob"), "ip budget spent")
}
