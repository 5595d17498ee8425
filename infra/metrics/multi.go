package metrics

import (
	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []runmetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...runmetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRunSummary forwards the summary to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRunSummary(sum runmetrics.RunSummary) error {
	for _, s := range m.Sinks {
		if err := s.RecordRunSummary(sum); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnomaly forwards the anomaly to all sinks.
func (m *MultiSink) RecordAnomaly(a model.Anomaly) error {
	for _, s := range m.Sinks {
		if err := s.RecordAnomaly(a); err != nil {
			return err
		}
	}
	return nil
}
