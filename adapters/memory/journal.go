// Package memory provides in-memory adapter implementations for tests and
// the host simulator.
package memory

import (
	"context"
	"sync"

	"github.com/modrig/modrig/ports"
)

// Journal keeps lifecycle events in memory.
type Journal struct {
	mu     sync.RWMutex
	events []ports.Event
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an event.
func (j *Journal) Record(ctx context.Context, e ports.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
	return nil
}

// Close is a no-op.
func (j *Journal) Close() error {
	return nil
}

// Events returns a copy of all recorded events.
func (j *Journal) Events() []ports.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]ports.Event, len(j.events))
	copy(out, j.events)
	return out
}

// ByKind returns all events of one kind.
func (j *Journal) ByKind(kind string) []ports.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []ports.Event
	for _, e := range j.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
