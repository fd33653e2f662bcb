package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/export"
	"github.com/mroshb/daymate/pkg/errors"
)

type dayResponse struct {
	Owner     *userView      `json:"owner"`
	Date      string         `json:"date"`
	Entry     *dayEntryView  `json:"entry"`
	Comments  []commentView  `json:"comments"`
	Proposals []proposalView `json:"proposals"`
}

func (h *HandlerManager) GetDay(w http.ResponseWriter, r *http.Request) {
	view, err := h.Services.Availability.GetDay(r.Context(), r.PathValue("username"), r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dayResponse{
		Owner:     newUserView(view.Owner),
		Date:      view.Date,
		Entry:     newDayEntryView(view.Entry),
		Comments:  make([]commentView, 0, len(view.Comments)),
		Proposals: make([]proposalView, 0, len(view.Proposals)),
	}
	for i := range view.Comments {
		resp.Comments = append(resp.Comments, newCommentView(&view.Comments[i]))
	}
	for i := range view.Proposals {
		resp.Proposals = append(resp.Proposals, newProposalView(&view.Proposals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type availabilityRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *HandlerManager) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.Services.Availability.SetAvailability(r.Context(), actor(r), r.PathValue("username"), r.PathValue("date"), req.Status, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDayEntryView(entry))
}

// monthParam reads ?month=, defaulting to the current month.
func monthParam(r *http.Request) string {
	if month := r.URL.Query().Get("month"); month != "" {
		return month
	}
	return calendar.Today(nil)
}

type monthResponse struct {
	Owner   *userView       `json:"owner"`
	Entries []*dayEntryView `json:"entries"`
}

func (h *HandlerManager) ListMonth(w http.ResponseWriter, r *http.Request) {
	owner, entries, err := h.Services.Availability.ListMonth(r.Context(), r.PathValue("username"), monthParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := monthResponse{Owner: newUserView(owner), Entries: make([]*dayEntryView, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, newDayEntryView(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportMonth downloads a month of the user's calendar as .xlsx.
func (h *HandlerManager) ExportMonth(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)
	start, next, err := calendar.MonthRange(month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	owner, entries, err := h.Services.Availability.ListMonth(r.Context(), r.PathValue("username"), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonth(&buf, owner, start, next, entries); err != nil {
		writeError(w, r, errors.Wrap(err, errors.ErrCodeInternalError, "failed to build spreadsheet"))
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", owner.Username, start[:7])
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *HandlerManager) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.Services.Comments.AddComment(r.Context(), actor(r), r.PathValue("username"), r.PathValue("date"), req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCommentView(comment))
}
