// Package engine implements the gesture event ingestion pipeline: label
// normalization, command resolution, debouncing, the operating mode
// state machine, and fire-and-forget persistence into the event log.
package engine

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/store"
)

// Debounce window bounds in seconds. Updates outside this range are
// ignored without feedback; this mirrors the original backend.
const (
	MinDebounceSec = 0.1
	MaxDebounceSec = 2.0
)

// GestureUnknown is substituted for empty gesture labels.
const GestureUnknown = "UNKNOWN"

// fpsWindow bounds the ring of recent frame-rate samples.
const fpsWindow = 100

// Clock supplies the current time as a float Unix timestamp. Injected
// so tests can construct engines with fake time.
type Clock func() float64

// SystemClock is the default Clock backed by the wall clock.
func SystemClock() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Recorder appends event rows to durable storage.
// *store.EventRepository satisfies it.
type Recorder interface {
	Insert(*store.Event) error
}

// EventInput is one incoming gesture event. Time is optional: when the
// caller supplies no timestamp, the engine falls back to its clock at
// ingestion time. IsCorrect defaults to true when absent (the system
// has no independent way to falsify it). FPS, when positive, is the
// client-reported capture frame rate and feeds the rolling average.
type EventInput struct {
	Gesture        string
	Score          float64
	Time           *float64
	SessionID      string
	ResponseTimeMs float64
	IsCorrect      *bool
	FPS            float64
}

// IngestResult is the outcome of one ingestion attempt.
type IngestResult struct {
	Accepted bool
	Reason   string
	Command  string
	State    StateSnapshot
}

// StateSnapshot is a point-in-time copy of the live state.
type StateSnapshot struct {
	Mode          Mode
	LastGesture   string
	LastCommand   string
	UpdatedAt     float64
	Uptime        float64
	TotalRequests int64
}

// Stats is a snapshot of the runtime counters.
type Stats struct {
	Uptime        float64
	TotalRequests int64
	ErrorCount    int64
	AvgFPS        float64
}

// Config holds the engine construction parameters.
type Config struct {
	// Mapping seeds the gesture-to-command table.
	Mapping map[string]string
	// DebounceSec is the initial debounce window.
	DebounceSec float64
	// Events receives accepted event rows; nil disables persistence.
	Events Recorder
	// Clock overrides the wall clock; nil uses SystemClock.
	Clock Clock
	// Logger receives append failures; nil uses slog.Default.
	Logger *slog.Logger
}

// Engine is the shared mutable core of the ingestion path. The debounce
// state, mode, snapshot and counters form a single unit guarded by one
// mutex so the debounce check and the state update cannot interleave.
// The mapping table carries its own lock (see Mapping).
type Engine struct {
	mapping *Mapping
	events  Recorder
	clock   Clock
	logger  *slog.Logger

	mu                 sync.Mutex
	window             float64
	lastTriggerGesture string
	lastTriggerTime    float64
	mode               Mode
	lastGesture        string
	lastCommand        string
	updatedAt          float64
	startTime          float64
	totalRequests      int64
	errorCount         int64
	fps                []float64
	enabled            bool

	appends sync.WaitGroup
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	window := cfg.DebounceSec
	if window < MinDebounceSec || window > MaxDebounceSec {
		window = 0.5
	}

	now := clock()
	return &Engine{
		mapping:     NewMapping(cfg.Mapping),
		events:      cfg.Events,
		clock:       clock,
		logger:      logger,
		window:      window,
		mode:        ModeIdle,
		lastGesture: "-",
		lastCommand: "-",
		updatedAt:   now,
		startTime:   now,
		enabled:     true,
	}
}

// Ingest runs one event through the pipeline. The in-memory state is
// updated synchronously before the result is returned; the durable log
// write completes in the background and its failure only increments
// the error counter.
func (e *Engine) Ingest(in EventInput) IngestResult {
	gesture := strings.ToUpper(strings.TrimSpace(in.Gesture))
	if gesture == "" {
		gesture = GestureUnknown
	}

	command := e.mapping.Resolve(gesture)

	// Debounce on event time; fall back to ingestion time when the
	// caller supplies no timestamp.
	t := e.clock()
	if in.Time != nil {
		t = *in.Time
	}

	e.mu.Lock()
	e.totalRequests++
	if in.FPS > 0 {
		e.addFPSLocked(in.FPS)
	}

	if !e.enabled {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return IngestResult{Accepted: false, Reason: "disabled", Command: command, State: snap}
	}

	if e.lastTriggerGesture == gesture && t-e.lastTriggerTime < e.window {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		metrics.RecordEventDebounced()
		return IngestResult{Accepted: false, Reason: "debounced", Command: command, State: snap}
	}

	// Record the debounce state before anything downstream so that of
	// two near-simultaneous identical events exactly one is accepted.
	e.lastTriggerGesture = gesture
	e.lastTriggerTime = t

	e.mode = e.mode.Transition(command)
	e.lastGesture = gesture
	e.lastCommand = command
	e.updatedAt = e.clock()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	metrics.RecordEventAccepted()

	isCorrect := true
	if in.IsCorrect != nil {
		isCorrect = *in.IsCorrect
	}

	e.AppendAsync(store.Event{
		Time:         t,
		Gesture:      gesture,
		Command:      command,
		Score:        in.Score,
		ResponseTime: in.ResponseTimeMs,
		SessionID:    in.SessionID,
		IsCorrect:    isCorrect,
	})

	return IngestResult{Accepted: true, Command: command, State: snap}
}

// AppendAsync writes an event row in the background. A failed or
// panicking write increments the error counter and is logged; it never
// propagates to the caller.
func (e *Engine) AppendAsync(ev store.Event) {
	if e.events == nil {
		return
	}

	e.appends.Add(1)
	go func() {
		defer e.appends.Done()
		defer func() {
			if r := recover(); r != nil {
				e.RecordError()
				e.logger.Error("event append panicked", "panic", r)
			}
		}()

		if err := e.events.Insert(&ev); err != nil {
			e.RecordError()
			metrics.RecordLogWriteFailure()
			e.logger.Error("event append failed", "gesture", ev.Gesture, "error", err)
		}
	}()
}

// Now returns the current time from the engine's clock.
func (e *Engine) Now() float64 {
	return e.clock()
}

// Drain waits for all in-flight background appends to finish. Used by
// graceful shutdown and by tests that assert on persisted rows.
func (e *Engine) Drain() {
	e.appends.Wait()
}

// SetDebounce updates the debounce window. Values outside
// [MinDebounceSec, MaxDebounceSec] are ignored without feedback.
func (e *Engine) SetDebounce(v float64) {
	if v < MinDebounceSec || v > MaxDebounceSec {
		return
	}

	e.mu.Lock()
	e.window = v
	e.mu.Unlock()
}

// DebounceWindow returns the current debounce window in seconds.
func (e *Engine) DebounceWindow() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}

// UpdateMapping merges the patch into the gesture mapping table.
func (e *Engine) UpdateMapping(patch map[string]string) {
	e.mapping.Update(patch)
}

// MappingSnapshot returns a copy of the gesture mapping table.
func (e *Engine) MappingSnapshot() map[string]string {
	return e.mapping.Snapshot()
}

// Snapshot returns a copy of the live state.
func (e *Engine) Snapshot() StateSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() StateSnapshot {
	return StateSnapshot{
		Mode:          e.mode,
		LastGesture:   e.lastGesture,
		LastCommand:   e.lastCommand,
		UpdatedAt:     e.updatedAt,
		Uptime:        e.clock() - e.startTime,
		TotalRequests: e.totalRequests,
	}
}

// Stats returns a snapshot of the runtime counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Uptime:        e.clock() - e.startTime,
		TotalRequests: e.totalRequests,
		ErrorCount:    e.errorCount,
		AvgFPS:        e.avgFPSLocked(),
	}
}

// RecordError increments the process-wide error counter.
func (e *Engine) RecordError() {
	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()
}

// AddFPS records a frame-rate sample into the bounded ring.
func (e *Engine) AddFPS(fps float64) {
	e.mu.Lock()
	e.addFPSLocked(fps)
	e.mu.Unlock()
}

func (e *Engine) addFPSLocked(fps float64) {
	e.fps = append(e.fps, fps)
	if len(e.fps) > fpsWindow {
		e.fps = e.fps[1:]
	}
}

func (e *Engine) avgFPSLocked() float64 {
	if len(e.fps) == 0 {
		return 0.0
	}

	var sum float64
	for _, f := range e.fps {
		sum += f
	}
	return sum / float64(len(e.fps))
}

// SetEnabled toggles ingestion. While disabled, events are rejected
// without touching the debounce or mode state.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
}

// IsEnabled reports whether ingestion is currently enabled.
func (e *Engine) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}
