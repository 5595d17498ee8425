package metrics

import (
	"context"

	"github.com/Claudio-NG/FROTAS/core/runmetrics"
	"github.com/Claudio-NG/FROTAS/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards run events
// to the sink. It stops when the context is canceled or the bus closes;
// the returned channel closes once every delivered event was recorded.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink runmetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case runmetrics.RunCompletedEvent:
					_ = sink.RecordRunSummary(runmetrics.RunSummary{
						RunID:        e.RunID,
						Today:        e.Today,
						FleetSize:    e.FleetSize,
						StatusCounts: e.StatusCounts,
						AnomalyCount: e.AnomalyCount,
						Duration:     e.Duration,
					})
				case runmetrics.AnomalyEvent:
					_ = sink.RecordAnomaly(e.Anomaly)
				}
			}
		}
	}()
	return done
}
