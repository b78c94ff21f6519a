package analytics

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/leadforge/leadcore/internal/config"
)

// ErrSkipped is returned by a Filtered sink for events the collection policy
// drops. Capture treats it as "not recorded" rather than a failure.
var ErrSkipped = errors.New("analytics event skipped by collection policy")

// Collection is the live analytics collection policy: a master switch plus
// event names that are never recorded. It can be swapped while a session runs.
type Collection struct {
	mu       sync.RWMutex
	enabled  bool
	disabled []string
}

// CollectionFromConfig builds the policy from LEADCORE_ANALYTICS_* settings.
func CollectionFromConfig(cfg *config.Config) *Collection {
	c := &Collection{}
	if cfg == nil {
		c.enabled = true
		return c
	}
	c.Apply(cfg)
	return c
}

// Apply replaces the policy with the analytics settings in cfg and reports
// whether anything changed.
func (c *Collection) Apply(cfg *config.Config) bool {
	if c == nil || cfg == nil {
		return false
	}
	disabled := normalizeEventNames(cfg.AnalyticsDisabledEvents)

	c.mu.Lock()
	changed := c.enabled != cfg.AnalyticsEnabled || !slices.Equal(c.disabled, disabled)
	c.enabled = cfg.AnalyticsEnabled
	c.disabled = disabled
	c.mu.Unlock()

	if changed {
		log.Info().
			Bool("enabled", cfg.AnalyticsEnabled).
			Strs("disabled_events", disabled).
			Msg("Analytics collection policy updated")
	}
	return changed
}

// skipReason returns the metrics label for a dropped event, or "" when the
// event should be recorded. A nil policy records everything.
func (c *Collection) skipReason(name string) string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.enabled {
		return "collection_disabled"
	}
	if _, found := slices.BinarySearch(c.disabled, strings.TrimSpace(name)); found {
		return "event_disabled"
	}
	return ""
}

func normalizeEventNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Filtered wraps next so events the policy drops never reach it. Dropped
// events are counted and reported as ErrSkipped.
func Filtered(c *Collection, next Sink) Sink {
	return SinkFunc(func(ctx context.Context, event Event) error {
		if reason := c.skipReason(event.Name); reason != "" {
			GetMetrics().RecordSkipped(reason)
			return ErrSkipped
		}
		if next == nil {
			return nil
		}
		return next.Capture(ctx, event)
	})
}
