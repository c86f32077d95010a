package handlers

import (
	"net/http"

	"inventory-api/internal/store"

	"github.com/rs/zerolog"
)

type HealthHandler struct {
	pinger store.Pinger
	logger zerolog.Logger
}

func NewHealthHandler(pinger store.Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		pinger: pinger,
		logger: logger,
	}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Health check failed")
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"db":     "disconnected",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"db":     "connected",
	})
}
