package analytics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	lcmetrics "github.com/leadforge/leadcore/internal/metrics"
)

// Metrics manages Prometheus instrumentation for analytics delivery.
type Metrics struct {
	eventsTotal  *prometheus.CounterVec
	failedTotal  *prometheus.CounterVec
	skippedTotal *prometheus.CounterVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
	metricsFactory  = defaultMetricsFactory
)

// GetMetrics returns the singleton analytics metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = metricsFactory()
	})
	return metricsInstance
}

func defaultMetricsFactory() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics registers analytics collectors on registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadcore",
				Subsystem: "analytics",
				Name:      "events_total",
				Help:      "Total analytics events accepted by event name",
			},
			[]string{"event"},
		),
		failedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadcore",
				Subsystem: "analytics",
				Name:      "events_failed_total",
				Help:      "Total analytics events dropped by event name and reason",
			},
			[]string{"event", "reason"},
		),
		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadcore",
				Subsystem: "analytics",
				Name:      "events_skipped_total",
				Help:      "Total analytics events skipped by collection reason",
			},
			[]string{"reason"},
		),
	}

	m.eventsTotal = lcmetrics.RegisterCounterVec(registerer, m.eventsTotal)
	m.failedTotal = lcmetrics.RegisterCounterVec(registerer, m.failedTotal)
	m.skippedTotal = lcmetrics.RegisterCounterVec(registerer, m.skippedTotal)

	return m
}

// RecordEvent counts an accepted event.
func (m *Metrics) RecordEvent(name string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(labelOrUnknown(name)).Inc()
}

// RecordFailed counts an event dropped because of a sink failure.
func (m *Metrics) RecordFailed(name, reason string) {
	if m == nil {
		return
	}
	m.failedTotal.WithLabelValues(labelOrUnknown(name), labelOrUnknown(reason)).Inc()
}

// RecordSkipped counts an event skipped by collection config.
func (m *Metrics) RecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.skippedTotal.WithLabelValues(labelOrUnknown(reason)).Inc()
}

// Capture implements Sink by counting the event.
func (m *Metrics) Capture(_ context.Context, event Event) error {
	m.RecordEvent(event.Name)
	return nil
}

func labelOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
