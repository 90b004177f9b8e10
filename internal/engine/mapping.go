package engine

import (
	"strings"
	"sync"
)

// CommandNone is resolved for gestures with no mapping entry.
const CommandNone = "NONE"

// Mapping is the live gesture-to-command lookup table. Keys are
// upper-cased on every write, values stored verbatim. Updates merge
// into the existing table; entries are never implicitly deleted.
type Mapping struct {
	mu    sync.RWMutex
	table map[string]string
}

// NewMapping creates a Mapping seeded from the given table.
func NewMapping(seed map[string]string) *Mapping {
	m := &Mapping{table: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.table[strings.ToUpper(k)] = v
	}
	return m
}

// Resolve returns the command mapped to the gesture, or CommandNone
// if the gesture has no entry.
func (m *Mapping) Resolve(gesture string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if cmd, ok := m.table[gesture]; ok {
		return cmd
	}
	return CommandNone
}

// Update merges the patch into the table. The merge is atomic with
// respect to concurrent Resolve calls: readers see either none or all
// of the patch.
func (m *Mapping) Update(patch map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range patch {
		m.table[strings.ToUpper(k)] = v
	}
}

// Snapshot returns a copy of the current table.
func (m *Mapping) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.table))
	for k, v := range m.table {
		out[k] = v
	}
	return out
}
