package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// HealthHandler serves the detailed health check.
type HealthHandler struct {
	engine  *engine.Engine
	events  *store.EventRepository
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(e *engine.Engine, events *store.EventRepository, version string) *HealthHandler {
	return &HealthHandler{engine: e, events: events, version: version}
}

type healthResponse struct {
	Status    string  `json:"status"`
	Version   string  `json:"version"`
	Uptime    float64 `json:"uptime"`
	DBStatus  string  `json:"db_status"`
	TotalLogs int     `json:"total_logs"`
	FPSAvg    float64 `json:"fps_avg"`
}

// ServeHTTP handles GET /api/health. A failing log count probe degrades
// the reported status instead of failing the request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	dbStatus := "ok"
	totalLogs := 0
	if h.events != nil {
		count, err := h.events.Count()
		if err != nil {
			dbStatus = "error"
		} else {
			totalLogs = count
		}
	}

	status := "healthy"
	if dbStatus != "ok" {
		status = "degraded"
	}

	stats := h.engine.Stats()

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    stats.Uptime,
		DBStatus:  dbStatus,
		TotalLogs: totalLogs,
		FPSAvg:    stats.AvgFPS,
	})
}
