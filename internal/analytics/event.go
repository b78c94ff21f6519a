// Package analytics carries product events from the wizard and guards to
// pluggable sinks. Capture is fire-and-forget: sink failures are logged and
// counted, never returned to the caller.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is one product analytics event.
type Event struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"event"`
	Payload    map[string]any `json:"payload,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Validate checks the event shape before it reaches a sink.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	return nil
}

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Capture(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Capture(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Capture delivers event to sink and swallows any error or panic.
// It reports whether the event was recorded; events dropped by the collection
// policy report false without counting as failures.
func Capture(ctx context.Context, sink Sink, event Event) (accepted bool) {
	if sink == nil {
		return false
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	defer func() {
		if r := recover(); r != nil {
			accepted = false
			GetMetrics().RecordFailed(event.Name, "panic")
			log.Warn().
				Str("event", event.Name).
				Interface("panic", r).
				Msg("Analytics sink panicked; event dropped")
		}
	}()

	if err := event.Validate(); err != nil {
		GetMetrics().RecordFailed(event.Name, "invalid")
		log.Debug().Err(err).Msg("Dropping invalid analytics event")
		return false
	}

	if err := sink.Capture(ctx, event); err != nil {
		if errors.Is(err, ErrSkipped) {
			return false
		}
		GetMetrics().RecordFailed(event.Name, "sink_error")
		log.Warn().
			Err(err).
			Str("event", event.Name).
			Str("session_id", event.SessionID).
			Msg("Analytics capture failed; event dropped")
		return false
	}
	return true
}
