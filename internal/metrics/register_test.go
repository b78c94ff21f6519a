package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func newCounter(labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadcore",
		Subsystem: "test",
		Name:      "things_total",
		Help:      "Things",
	}, labels)
}

func TestRegisterCounterVec_ReusesExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := RegisterCounterVec(reg, newCounter("kind"))
	second := RegisterCounterVec(reg, newCounter("kind"))
	if first != second {
		t.Fatal("expected the already registered collector to be returned")
	}
}

func TestRegisterCounterVec_PanicsOnConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCounterVec(reg, newCounter("kind"))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a conflicting descriptor")
		}
	}()
	RegisterCounterVec(reg, newCounter("other"))
}
