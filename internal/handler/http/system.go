package http

import (
	"log/slog"
	"net/http"

	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
)

// SystemHandler serves the public service metadata and stats endpoints.
type SystemHandler struct {
	stats   *service.StatsService
	appName string
	logger  *slog.Logger
}

// NewSystemHandler creates a new system HTTP handler.
func NewSystemHandler(stats *service.StatsService, appName string, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{stats: stats, appName: appName, logger: logger}
}

// Root handles GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"service": h.appName,
		"status":  "running",
	}})
}

// Stats handles GET /api/stats
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.SystemStats(r.Context())
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: stats})
}
