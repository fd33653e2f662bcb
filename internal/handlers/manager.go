// Package handlers serves the scheduling services as a JSON HTTP API.
package handlers

import (
	"net/http"
	"time"

	"github.com/mroshb/daymate/internal/config"
	"github.com/mroshb/daymate/internal/metrics"
	"github.com/mroshb/daymate/internal/middleware"
	"github.com/mroshb/daymate/internal/services"
)

type HandlerManager struct {
	Config   *config.Config
	Services *services.Services
	Metrics  *metrics.Metrics
	Limiter  *middleware.RateLimiter
}

func NewHandlerManager(
	cfg *config.Config,
	svc *services.Services,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
) *HandlerManager {
	return &HandlerManager{
		Config:   cfg,
		Services: svc,
		Metrics:  m,
		Limiter:  limiter,
	}
}

// Routes builds the request multiplexer.
func (h *HandlerManager) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", h.Metrics.Handler())

	h.public(mux, "POST /api/users", h.Register)

	h.authed(mux, "GET /api/me", h.GetMe)
	h.authed(mux, "PATCH /api/me", h.UpdateProfile)
	h.authed(mux, "PUT /api/me/meeting-policy", h.UpdateMeetingPolicy)
	h.authed(mux, "GET /api/users/{username}", h.GetProfile)

	h.authed(mux, "GET /api/users/{username}/days", h.ListMonth)
	h.authed(mux, "GET /api/users/{username}/days/export", h.ExportMonth)
	h.authed(mux, "GET /api/users/{username}/days/{date}", h.GetDay)
	h.authed(mux, "PUT /api/users/{username}/days/{date}", h.SetAvailability)
	h.authed(mux, "POST /api/users/{username}/days/{date}/comments", h.AddComment)
	h.authed(mux, "POST /api/users/{username}/days/{date}/proposals", h.Propose)

	h.authed(mux, "GET /api/proposals/pending", h.ListPendingProposals)
	h.authed(mux, "POST /api/proposals/{id}/respond", h.RespondProposal)

	h.authed(mux, "GET /api/friends", h.ListFriends)
	h.authed(mux, "DELETE /api/friends/{username}", h.RemoveFriend)
	h.authed(mux, "GET /api/friends/requests", h.ListFriendRequests)
	h.authed(mux, "POST /api/friends/requests", h.SendFriendRequest)
	h.authed(mux, "POST /api/friends/requests/{id}/respond", h.RespondFriendRequest)

	h.authed(mux, "GET /api/conversations", h.ListConversations)
	h.authed(mux, "POST /api/conversations", h.StartConversation)
	h.authed(mux, "GET /api/conversations/{id}/messages", h.ListMessages)
	h.authed(mux, "POST /api/conversations/{id}/messages", h.PostMessage)

	h.authed(mux, "GET /api/feed", h.Feed)

	return mux
}

func (h *HandlerManager) public(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, h.instrument(pattern, middleware.RateLimit(h.Limiter)(fn)))
}

func (h *HandlerManager) authed(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	chain := middleware.Auth(h.Config.JWTSecret)(middleware.RateLimit(h.Limiter)(fn))
	mux.Handle(pattern, h.instrument(pattern, chain))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *HandlerManager) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Metrics.ObserveRequest(route, rec.status, time.Since(start))
	})
}
