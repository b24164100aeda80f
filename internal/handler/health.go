package handler

import (
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/utils"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(); err != nil {
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
