package main

import (
	"github.com/rs/zerolog/log"

	"github.com/leadforge/leadcore/internal/analytics"
	"github.com/leadforge/leadcore/internal/config"
)

// buildSink wires the configured analytics sinks behind the collection
// policy. The store is opened whenever a path is configured so that a policy
// change at runtime can start recording. The returned close func is always
// non-nil.
func buildSink(cfg *config.Config) (analytics.Sink, *analytics.Collection, func(), error) {
	collection := analytics.CollectionFromConfig(cfg)

	sinks := analytics.MultiSink{analytics.GetMetrics()}
	closeFn := func() {}

	if path := cfg.AnalyticsDBPath(); path != "" {
		store, err := analytics.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, closeFn, err
		}
		sinks = append(sinks, store)
		closeFn = func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close analytics store")
			}
		}
	}

	return analytics.Filtered(collection, sinks), collection, closeFn, nil
}
