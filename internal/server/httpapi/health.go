package httpapi

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

type statusBody struct {
	Status string `json:"status"`
}

func (h *api) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		h.log.Error(ctx, "health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, statusBody{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, statusBody{Status: "ok"})
}
