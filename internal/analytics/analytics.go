// Package analytics derives summary statistics, per-gesture breakdowns,
// hourly timelines and performance metrics from the gesture event log.
// All queries are read-only snapshots; concurrent writes may or may not
// be observed by a query in flight.
package analytics

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// Timeline window bounds in hours.
const (
	MinTimelineHours = 1
	MaxTimelineHours = 168
)

// StatsProvider supplies the live runtime counters for the performance
// report. *engine.Engine satisfies it.
type StatsProvider interface {
	Stats() engine.Stats
}

// Engine answers analytics queries over the event log.
type Engine struct {
	events *store.EventRepository
	stats  StatsProvider
	clock  engine.Clock

	cacheTTL time.Duration
	mu       sync.Mutex
	cache    map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// Config holds the analytics engine construction parameters.
type Config struct {
	Events *store.EventRepository
	Stats  StatsProvider
	// Clock overrides the wall clock; nil uses engine.SystemClock.
	Clock engine.Clock
	// CacheTTL enables short-lived response caching when positive.
	CacheTTL time.Duration
}

// New creates an analytics Engine.
func New(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = engine.SystemClock
	}

	return &Engine{
		events:   cfg.Events,
		stats:    cfg.Stats,
		clock:    clock,
		cacheTTL: cfg.CacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

func (e *Engine) cacheGet(key string) (any, bool) {
	if e.cacheTTL <= 0 {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.cache[key]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

func (e *Engine) cachePut(key string, v any) {
	if e.cacheTTL <= 0 {
		return
	}

	e.mu.Lock()
	e.cache[key] = cacheEntry{value: v, expires: time.Now().Add(e.cacheTTL)}
	e.mu.Unlock()
}
