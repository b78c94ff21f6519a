package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MultiSink fans each event out to every sink concurrently.
type MultiSink []Sink

// Capture delivers event to all sinks and returns the first error. Every sink
// still receives the event when another one fails.
func (m MultiSink) Capture(ctx context.Context, event Event) error {
	var g errgroup.Group
	for i, sink := range m {
		if sink == nil {
			continue
		}
		i, sink := i, sink
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("sink %d panicked: %v", i, r)
				}
			}()
			return sink.Capture(ctx, event)
		})
	}
	return g.Wait()
}
