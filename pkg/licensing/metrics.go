package licensing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	lcmetrics "github.com/leadforge/leadcore/internal/metrics"
)

// GuardMetrics manages Prometheus instrumentation for access checks.
type GuardMetrics struct {
	checksTotal   *prometheus.CounterVec
	upgradesTotal *prometheus.CounterVec
}

var (
	guardMetricsInstance *GuardMetrics
	guardMetricsOnce     sync.Once
	guardMetricsFactory  = defaultGuardMetricsFactory
)

// GetGuardMetrics returns the singleton guard metrics instance.
func GetGuardMetrics() *GuardMetrics {
	guardMetricsOnce.Do(func() {
		guardMetricsInstance = guardMetricsFactory()
	})
	return guardMetricsInstance
}

func defaultGuardMetricsFactory() *GuardMetrics {
	return NewGuardMetrics(prometheus.DefaultRegisterer)
}

// NewGuardMetrics registers guard collectors on registerer, reusing collectors
// that are already registered.
func NewGuardMetrics(registerer prometheus.Registerer) *GuardMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &GuardMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadcore",
				Subsystem: "guard",
				Name:      "checks_total",
				Help:      "Total feature access checks by feature and outcome",
			},
			[]string{"feature", "outcome"},
		),
		upgradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadcore",
				Subsystem: "guard",
				Name:      "upgrade_required_total",
				Help:      "Total checks that required a tier upgrade by target tier",
			},
			[]string{"required_tier"},
		),
	}

	m.checksTotal = lcmetrics.RegisterCounterVec(registerer, m.checksTotal)
	m.upgradesTotal = lcmetrics.RegisterCounterVec(registerer, m.upgradesTotal)

	return m
}

// RecordAccess records the outcome of one Check.
func (m *GuardMetrics) RecordAccess(access Access) {
	m.record(access.Decision, accessOutcome(access))
}

// RecordDecision records a tier-only guard decision.
func (m *GuardMetrics) RecordDecision(decision GuardDecision) {
	outcome := "allowed"
	if !decision.Allowed {
		outcome = "upgrade_required"
	}
	m.record(decision, outcome)
}

func (m *GuardMetrics) record(decision GuardDecision, outcome string) {
	if m == nil || m.checksTotal == nil {
		return
	}
	feature := "unregistered"
	if decision.Registered {
		feature = string(decision.FeatureKey)
	}
	m.checksTotal.WithLabelValues(feature, outcome).Inc()
	if decision.IsUpgradeRequired {
		m.upgradesTotal.WithLabelValues(defaultLabel(string(decision.RequiredTier))).Inc()
	}
}

func accessOutcome(access Access) string {
	switch {
	case access.Allowed && access.Quota == QuotaSoftBlock:
		return "allowed_quota_warning"
	case access.Allowed:
		return "allowed"
	case access.Decision.IsUpgradeRequired:
		return "upgrade_required"
	case !access.PermissionGranted:
		return "permission_denied"
	case access.Quota == QuotaHardBlock:
		return "quota_exhausted"
	default:
		return "denied"
	}
}

func defaultLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
