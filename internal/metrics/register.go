// Package metrics holds Prometheus registration helpers shared by the
// instrumented packages.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterCounterVec registers counter on registerer. When an identical
// collector is already registered the existing one is returned, so metrics
// constructors can run more than once against the same registry.
func RegisterCounterVec(registerer prometheus.Registerer, counter *prometheus.CounterVec) *prometheus.CounterVec {
	if err := registerer.Register(counter); err != nil {
		if alreadyRegisteredErr, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := alreadyRegisteredErr.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return counter
}
