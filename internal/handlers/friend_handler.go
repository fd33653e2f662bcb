package handlers

import (
	"net/http"

	"github.com/mroshb/daymate/pkg/errors"
)

func (h *HandlerManager) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Services.Friends.ListFriends(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]*userView, 0, len(friends))
	for i := range friends {
		views = append(views, newUserView(&friends[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

type friendRequestsResponse struct {
	Incoming []friendshipView `json:"incoming"`
	Outgoing []friendshipView `json:"outgoing"`
}

func (h *HandlerManager) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	incoming, err := h.Services.Friends.ListIncoming(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	outgoing, err := h.Services.Friends.ListOutgoing(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := friendRequestsResponse{
		Incoming: make([]friendshipView, 0, len(incoming)),
		Outgoing: make([]friendshipView, 0, len(outgoing)),
	}
	for i := range incoming {
		resp.Incoming = append(resp.Incoming, newFriendshipView(&incoming[i]))
	}
	for i := range outgoing {
		resp.Outgoing = append(resp.Outgoing, newFriendshipView(&outgoing[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type friendRequestRequest struct {
	Username string `json:"username"`
}

func (h *HandlerManager) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequestRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	friendship, err := h.Services.Friends.SendRequest(r.Context(), actor(r), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newFriendshipView(friendship))
}

type respondFriendRequest struct {
	Accept *bool `json:"accept"`
}

// RespondFriendRequest answers a request. A rejection deletes it and
// returns 204.
func (h *HandlerManager) RespondFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req respondFriendRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Accept == nil {
		writeError(w, r, errors.New(errors.ErrCodeValidation, "accept is required"))
		return
	}

	friendship, err := h.Services.Friends.Respond(r.Context(), actor(r), r.PathValue("id"), *req.Accept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if friendship == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newFriendshipView(friendship))
}

func (h *HandlerManager) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := h.Services.Friends.Remove(r.Context(), actor(r), r.PathValue("username")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
