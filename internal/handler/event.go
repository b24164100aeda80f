package handler

import (
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/utils"
)

// ListEvents is the public calendar: published events only.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListPublic()
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewEvents(items))
}
