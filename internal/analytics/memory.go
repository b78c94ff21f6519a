package analytics

import (
	"context"
	"sync"
)

// MemorySink keeps captured events in memory, newest last.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemorySink) Capture(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the captured events.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Names returns the captured event names in order.
func (m *MemorySink) Names() []string {
	events := m.Events()
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}
