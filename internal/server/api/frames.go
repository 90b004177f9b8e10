package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/preprocess"
	"github.com/ayusman/mudra/internal/store"
)

// FramesHandler runs uploaded frames through the preprocessing pipeline.
type FramesHandler struct {
	processor   *preprocess.Processor
	engine      *engine.Engine
	maxFileSize int64
}

// NewFramesHandler creates a new FramesHandler.
func NewFramesHandler(p *preprocess.Processor, e *engine.Engine, maxFileSize int64) *FramesHandler {
	return &FramesHandler{processor: p, engine: e, maxFileSize: maxFileSize}
}

type frameResponse struct {
	OK            bool   `json:"ok"`
	Pipeline      string `json:"pipeline"`
	OriginalFile  string `json:"original_file"`
	ProcessedFile string `json:"processed_file"`
	OriginalSize  [2]int `json:"original_size"`
	ProcessedSize [2]int `json:"processed_size"`
}

// ServeHTTP handles POST /api/frame/preprocess with a multipart "file"
// field. Each processed frame is also recorded in the event log.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	result, err := h.processor.Process(data)
	if err != nil {
		if errors.Is(err, preprocess.ErrDecodeFailed) {
			writeError(w, http.StatusBadRequest, "Failed to decode image")
			return
		}
		h.engine.RecordError()
		writeError(w, http.StatusInternalServerError, "Preprocessing failed")
		return
	}

	h.engine.AppendAsync(store.Event{
		Time:      h.engine.Now(),
		Gesture:   "FRAME",
		Command:   "PREPROCESS",
		Score:     1.0,
		IsCorrect: true,
	})

	writeJSON(w, http.StatusOK, frameResponse{
		OK:            true,
		Pipeline:      result.Pipeline,
		OriginalFile:  result.OriginalFile,
		ProcessedFile: result.ProcessedFile,
		OriginalSize:  result.OriginalSize,
		ProcessedSize: result.ProcessedSize,
	})
}
