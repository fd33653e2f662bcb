package handlers

import (
	"net/http"

	"github.com/mroshb/daymate/internal/models"
)

func (h *HandlerManager) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Services.Conversations.ListConversations(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]conversationView, 0, len(summaries))
	for i := range summaries {
		views = append(views, newConversationView(&summaries[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

type startConversationRequest struct {
	Username string `json:"username"`
}

type conversationRef struct {
	ID string `json:"id"`
}

func (h *HandlerManager) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	conversation, err := h.Services.Conversations.StartConversation(r.Context(), actor(r), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversationRef{ID: conversation.ID})
}

func (h *HandlerManager) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Services.Conversations.ListMessages(r.Context(), actor(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, newMessageView(&messages[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage appends a text message. Blank content is accepted and
// ignored with 204.
func (h *HandlerManager) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	message, err := h.Services.Conversations.PostMessage(r.Context(), r.PathValue("id"), actor(r), req.Content, models.MessageTypeText, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if message == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.Metrics.MessagePosted()
	writeJSON(w, http.StatusCreated, newMessageView(message))
}
