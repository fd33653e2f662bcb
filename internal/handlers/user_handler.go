package handlers

import (
	"net/http"

	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type registerResponse struct {
	User  *userView `json:"user"`
	Token string    `json:"token"`
}

// Register creates an account and returns a session token for it.
func (h *HandlerManager) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Services.Users.Register(r.Context(), req.Username, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := security.GenerateJWT(user.ID, user.Username, h.Config.JWTSecret, h.Config.GetTokenTTL())
	if err != nil {
		logger.Error("failed to issue token", "user_id", user.ID, "error", err)
		writeError(w, r, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token"))
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{User: newUserView(user), Token: token})
}

func (h *HandlerManager) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.Services.Users.GetByID(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

func (h *HandlerManager) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Services.Users.UpdateProfile(r.Context(), actor(r), req.DisplayName, req.Bio)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

type meetingPolicyRequest struct {
	FriendOnly *bool `json:"friend_only"`
}

func (h *HandlerManager) UpdateMeetingPolicy(w http.ResponseWriter, r *http.Request) {
	var req meetingPolicyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.FriendOnly == nil {
		writeError(w, r, errors.New(errors.ErrCodeValidation, "friend_only is required"))
		return
	}

	user, err := h.Services.Users.UpdateMeetingPolicy(r.Context(), actor(r), *req.FriendOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

type profileResponse struct {
	User         *userView `json:"user"`
	Relation     string    `json:"relation"`
	FriendshipID string    `json:"friendship_id,omitempty"`
	CanPropose   bool      `json:"can_propose"`
}

// GetProfile shows another user and how the caller relates to them.
func (h *HandlerManager) GetProfile(w http.ResponseWriter, r *http.Request) {
	rel, err := h.Services.Friends.Relation(r.Context(), actor(r), r.PathValue("username"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:         newUserView(rel.Owner),
		Relation:     string(rel.State),
		FriendshipID: rel.FriendshipID,
		CanPropose:   rel.CanPropose,
	})
}
