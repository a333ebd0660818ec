// Package progress tracks the transient per-session checklist position.
//
// The tracker is deliberately process-lifetime only: losing it on restart is
// acceptable because the durable checklist record allows the position to be
// reconstructed (see domain.Record.ConfirmedPrefix). Entries are removed when
// a checklist completes, which bounds growth to the set of in-flight sessions.
package progress

import (
	"sync"

	"github.com/examops/checkbot/internal/checklist/domain"
)

// Progress is one session's place in its active day template.
type Progress struct {
	Day       domain.Day
	NextIndex int
}

// Tracker is a concurrency-safe session-to-progress lookup table. Mutation
// ownership belongs to the progression engine.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]Progress
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]Progress)}
}

// Get returns the progress for one session when present.
func (t *Tracker) Get(sessionID string) (Progress, bool) {
	if t == nil {
		return Progress{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[sessionID]
	return entry, ok
}

// Set stores the progress for one session.
func (t *Tracker) Set(sessionID string, entry Progress) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[sessionID] = entry
}

// Delete removes one session's progress entry.
func (t *Tracker) Delete(sessionID string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, sessionID)
}

// Len returns the number of sessions with in-flight progress.
func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
