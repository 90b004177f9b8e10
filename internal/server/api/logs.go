package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// Listing limits. The CSV export allows a larger window than the JSON
// listing.
const (
	defaultListLimit = 50
	maxListLimit     = 500
	defaultCSVLimit  = 200
	maxCSVLimit      = 2000
)

// LogsHandler serves the persisted event log.
type LogsHandler struct {
	events *store.EventRepository
}

// NewLogsHandler creates a new LogsHandler with the given repository.
func NewLogsHandler(events *store.EventRepository) *LogsHandler {
	return &LogsHandler{events: events}
}

type logEntryResponse struct {
	ID           int64   `json:"id"`
	Time         float64 `json:"time"`
	Gesture      string  `json:"gesture"`
	Command      string  `json:"command"`
	Score        float64 `json:"score"`
	ResponseTime float64 `json:"response_time"`
	SessionID    string  `json:"session_id"`
	IsCorrect    bool    `json:"is_correct"`
	CreatedAt    string  `json:"created_at"`
}

// parseLimit reads the limit query parameter, applying the default and
// clamping the result to [1, max].
func parseLimit(r *http.Request, def, max int) int {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

// ServeHTTP handles GET /api/logs, newest first.
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := parseLimit(r, defaultListLimit, maxListLimit)

	events, err := h.events.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs")
		return
	}

	response := make([]logEntryResponse, 0, len(events))
	for _, e := range events {
		response = append(response, logEntryResponse{
			ID:           e.ID,
			Time:         e.Time,
			Gesture:      e.Gesture,
			Command:      e.Command,
			Score:        e.Score,
			ResponseTime: e.ResponseTime,
			SessionID:    e.SessionID,
			IsCorrect:    e.IsCorrect,
			CreatedAt:    e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// ExportHandler serves the event log as a CSV download.
type ExportHandler struct {
	events *store.EventRepository
}

// NewExportHandler creates a new ExportHandler with the given repository.
func NewExportHandler(events *store.EventRepository) *ExportHandler {
	return &ExportHandler{events: events}
}

// ServeHTTP handles GET /api/logs/export.csv. Rows come out in
// chronological order and the body starts with a UTF-8 BOM so the file
// opens cleanly in spreadsheet tools.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := parseLimit(r, defaultCSVLimit, maxCSVLimit)

	events, err := h.events.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export logs")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=gesture_logs.csv")
	w.WriteHeader(http.StatusOK)

	w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.Write([]string{"time", "gesture", "command", "score", "response_time", "session_id", "is_correct"})

	// List returns newest first; walk backwards for chronological order.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]

		isCorrect := "0"
		if e.IsCorrect {
			isCorrect = "1"
		}

		cw.Write([]string{
			strconv.FormatFloat(e.Time, 'f', -1, 64),
			e.Gesture,
			e.Command,
			strconv.FormatFloat(e.Score, 'f', -1, 64),
			strconv.FormatFloat(e.ResponseTime, 'f', -1, 64),
			e.SessionID,
			isCorrect,
		})
	}
	cw.Flush()
}
