// Package api provides HTTP API handlers for the Mudra gesture control backend.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
)

// EventHandler handles gesture event submissions.
type EventHandler struct {
	engine *engine.Engine
}

// NewEventHandler creates a new EventHandler with the given engine.
func NewEventHandler(e *engine.Engine) *EventHandler {
	return &EventHandler{engine: e}
}

// Request and response types

type gestureEventRequest struct {
	Gesture        string   `json:"gesture"`
	Score          *float64 `json:"score"`
	TS             *float64 `json:"ts"`
	SessionID      string   `json:"session_id"`
	ResponseTimeMs float64  `json:"response_time_ms"`
	IsCorrect      *bool    `json:"is_correct"`
	FPS            float64  `json:"fps"`
}

type gestureEventResponse struct {
	Accepted bool          `json:"accepted"`
	Reason   string        `json:"reason,omitempty"`
	Command  string        `json:"command"`
	State    stateResponse `json:"state"`
}

type stateResponse struct {
	Mode          string  `json:"mode"`
	LastGesture   string  `json:"last_gesture"`
	LastCommand   string  `json:"last_command"`
	UpdatedAt     float64 `json:"updated_at"`
	Uptime        float64 `json:"uptime"`
	TotalRequests int64   `json:"total_requests"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toStateResponse converts an engine.StateSnapshot to a stateResponse.
func toStateResponse(s engine.StateSnapshot) stateResponse {
	return stateResponse{
		Mode:          string(s.Mode),
		LastGesture:   s.LastGesture,
		LastCommand:   s.LastCommand,
		UpdatedAt:     s.UpdatedAt,
		Uptime:        s.Uptime,
		TotalRequests: s.TotalRequests,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP handles POST /api/gesture/event.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req gestureEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Score defaults to 1.0 and must land in [0, 1]. Validation failures
	// reject the event before it enters the pipeline.
	score := 1.0
	if req.Score != nil {
		score = *req.Score
	}
	if score < 0.0 || score > 1.0 {
		writeError(w, http.StatusBadRequest, "Score must be between 0 and 1")
		return
	}

	if req.ResponseTimeMs < 0 {
		writeError(w, http.StatusBadRequest, "Response time must not be negative")
		return
	}

	result := h.engine.Ingest(engine.EventInput{
		Gesture:        req.Gesture,
		Score:          score,
		Time:           req.TS,
		SessionID:      req.SessionID,
		ResponseTimeMs: req.ResponseTimeMs,
		IsCorrect:      req.IsCorrect,
		FPS:            req.FPS,
	})

	writeJSON(w, http.StatusOK, gestureEventResponse{
		Accepted: result.Accepted,
		Reason:   result.Reason,
		Command:  result.Command,
		State:    toStateResponse(result.State),
	})
}
