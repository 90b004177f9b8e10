package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// StateHandler serves the live state snapshot.
type StateHandler struct {
	engine *engine.Engine
}

// NewStateHandler creates a new StateHandler with the given engine.
func NewStateHandler(e *engine.Engine) *StateHandler {
	return &StateHandler{engine: e}
}

// ServeHTTP handles GET /api/status.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(h.engine.Snapshot()))
}

// StatsHandler serves the raw runtime counters.
type StatsHandler struct {
	engine *engine.Engine
	events *store.EventRepository
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(e *engine.Engine, events *store.EventRepository) *StatsHandler {
	return &StatsHandler{engine: e, events: events}
}

type statsResponse struct {
	TotalRequests int64   `json:"total_requests"`
	ErrorCount    int64   `json:"error_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	AvgFPS        float64 `json:"avg_fps"`
	TotalLogs     int     `json:"total_logs"`
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats := h.engine.Stats()

	totalLogs := 0
	if h.events != nil {
		if count, err := h.events.Count(); err == nil {
			totalLogs = count
		}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalRequests: stats.TotalRequests,
		ErrorCount:    stats.ErrorCount,
		UptimeSeconds: stats.Uptime,
		AvgFPS:        stats.AvgFPS,
		TotalLogs:     totalLogs,
	})
}
