// Package runmetrics defines the sink interface engine runs report into and
// the events the engine publishes on the bus. Concrete sinks live under
// infra/metrics.
package runmetrics

import (
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
)

// RunSummary is the per-run snapshot recorded by sinks.
type RunSummary struct {
	RunID        string
	Today        time.Time
	FleetSize    int
	StatusCounts map[model.Status]int
	AnomalyCount int
	Duration     time.Duration
}

// MetricsSink records engine run outcomes.
type MetricsSink interface {
	RecordRunSummary(RunSummary) error
	RecordAnomaly(model.Anomaly) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRunSummary(RunSummary) error { return nil }
func (NopSink) RecordAnomaly(model.Anomaly) error { return nil }

// RunCompletedEvent is published on the bus once per finished run.
type RunCompletedEvent struct {
	RunID        string
	Today        time.Time
	FleetSize    int
	StatusCounts map[model.Status]int
	AnomalyCount int
	Duration     time.Duration
}

// AnomalyEvent is published once per detected anomaly.
type AnomalyEvent struct {
	Anomaly model.Anomaly
}

// CountStatuses tallies projection rows per status.
func CountStatuses(rows []model.Projection) map[model.Status]int {
	counts := make(map[model.Status]int, 4)
	for _, p := range rows {
		counts[p.Status]++
	}
	return counts
}
