package handlers

import "net/http"

func (h *HandlerManager) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.Services.Feed.Recent(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]feedItemView, 0, len(items))
	for i := range items {
		views = append(views, newFeedItemView(&items[i]))
	}
	writeJSON(w, http.StatusOK, views)
}
