package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/analytics"
)

// AnalyticsHandler serves the analytics reports. Each endpoint is
// computed as one atomic unit: a failure anywhere fails that endpoint's
// whole response.
type AnalyticsHandler struct {
	analytics *analytics.Engine
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the given engine.
func NewAnalyticsHandler(a *analytics.Engine) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: a}
}

// Summary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, err := h.analytics.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ByGesture handles GET /api/analytics/by-gesture.
func (h *AnalyticsHandler) ByGesture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	breakdown, err := h.analytics.ByGesture()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute gesture breakdown")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Timeline handles GET /api/analytics/timeline?hours=N.
func (h *AnalyticsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			hours = v
		}
	}

	timeline, err := h.analytics.Timeline(hours)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute timeline")
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

// Accuracy handles GET /api/analytics/accuracy.
func (h *AnalyticsHandler) Accuracy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := h.analytics.Accuracy()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute accuracy report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Performance handles GET /api/analytics/performance.
func (h *AnalyticsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := h.analytics.Performance()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute performance report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
