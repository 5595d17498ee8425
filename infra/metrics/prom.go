package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
)

// PromSink records engine run outcomes in Prometheus metrics.
type PromSink struct {
	fleet     prometheus.Gauge
	statuses  *prometheus.GaugeVec
	anomalies *prometheus.CounterVec
	duration  prometheus.Histogram
	runs      prometheus.Counter
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The Prometheus server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_total",
		Help: "Number of distinct vehicles in the last projection run",
	})
	statuses := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_maintenance_status_vehicles",
		Help: "Vehicles per maintenance status in the last projection run",
	}, []string{"status"})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_data_anomalies_total",
		Help: "Data-quality anomalies detected, by kind",
	}, []string{"kind"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "projection_run_duration_seconds",
		Help:    "Wall time of one full projection run",
		Buckets: prometheus.DefBuckets,
	})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "projection_runs_total",
		Help: "Total number of projection runs",
	})

	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(statuses); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			statuses = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(anomalies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			anomalies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		fleet:     fleet,
		statuses:  statuses,
		anomalies: anomalies,
		duration:  duration,
		runs:      runs,
	}, nil
}

// RecordRunSummary updates the fleet gauges and run counters.
func (s *PromSink) RecordRunSummary(sum runmetrics.RunSummary) error {
	s.fleet.Set(float64(sum.FleetSize))
	for _, st := range []model.Status{
		model.StatusOverdue, model.StatusAttention, model.StatusOnTrack, model.StatusUnknown,
	} {
		s.statuses.WithLabelValues(st.String()).Set(float64(sum.StatusCounts[st]))
	}
	s.duration.Observe(sum.Duration.Seconds())
	s.runs.Inc()
	return nil
}

// RecordAnomaly increments the anomaly counter for the anomaly's kind.
func (s *PromSink) RecordAnomaly(a model.Anomaly) error {
	s.anomalies.WithLabelValues(string(a.Kind)).Inc()
	return nil
}
