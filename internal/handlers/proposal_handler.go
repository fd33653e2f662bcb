package handlers

import (
	"net/http"

	"github.com/mroshb/daymate/internal/models"
)

type proposeRequest struct {
	Message string `json:"message"`
}

// Propose asks the user in the path to meet on the date in the path.
func (h *HandlerManager) Propose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	proposal, err := h.Services.Proposals.Propose(r.Context(), actor(r), r.PathValue("username"), r.PathValue("date"), req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Proposal(string(proposal.Status))
	writeJSON(w, http.StatusCreated, newProposalView(proposal))
}

type respondProposalRequest struct {
	Status string `json:"status"`
}

func (h *HandlerManager) RespondProposal(w http.ResponseWriter, r *http.Request) {
	var req respondProposalRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := models.ParseResponseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	proposal, err := h.Services.Proposals.Respond(r.Context(), actor(r), r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Proposal(string(proposal.Status))
	writeJSON(w, http.StatusOK, newProposalView(proposal))
}

func (h *HandlerManager) ListPendingProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.Services.Proposals.ListPendingForReceiver(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]proposalView, 0, len(proposals))
	for i := range proposals {
		views = append(views, newProposalView(&proposals[i]))
	}
	writeJSON(w, http.StatusOK, views)
}
