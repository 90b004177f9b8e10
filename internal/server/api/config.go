package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
)

// ConfigHandler serves and updates the runtime configuration.
type ConfigHandler struct {
	engine *engine.Engine
}

// NewConfigHandler creates a new ConfigHandler with the given engine.
func NewConfigHandler(e *engine.Engine) *ConfigHandler {
	return &ConfigHandler{engine: e}
}

type configUpdateRequest struct {
	DebounceSec *float64          `json:"debounce_sec"`
	Mapping     map[string]string `json:"mapping"`
}

type configResponse struct {
	DebounceSec float64           `json:"debounce_sec"`
	Mapping     map[string]string `json:"mapping"`
	Enabled     bool              `json:"enabled"`
}

type configUpdateResponse struct {
	OK     bool           `json:"ok"`
	Config configResponse `json:"config"`
}

func (h *ConfigHandler) currentConfig() configResponse {
	return configResponse{
		DebounceSec: h.engine.DebounceWindow(),
		Mapping:     h.engine.MappingSnapshot(),
		Enabled:     h.engine.IsEnabled(),
	}
}

// ServeHTTP routes GET and POST requests on /api/config.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.currentConfig())
	case http.MethodPost:
		h.update(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// update handles POST /api/config. Out-of-range debounce values are
// dropped without feedback; the response carries whatever is applied.
func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	var req configUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DebounceSec != nil {
		h.engine.SetDebounce(*req.DebounceSec)
	}
	if req.Mapping != nil {
		h.engine.UpdateMapping(req.Mapping)
	}

	writeJSON(w, http.StatusOK, configUpdateResponse{OK: true, Config: h.currentConfig()})
}

// MappingHandler serves the gesture mapping table.
type MappingHandler struct {
	engine *engine.Engine
}

// NewMappingHandler creates a new MappingHandler with the given engine.
func NewMappingHandler(e *engine.Engine) *MappingHandler {
	return &MappingHandler{engine: e}
}

// ServeHTTP handles GET /api/mapping.
func (h *MappingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.engine.MappingSnapshot())
}
