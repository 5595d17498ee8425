package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
)

func TestPromSink_RecordRunSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	sum := runmetrics.RunSummary{
		RunID:     "run-1",
		FleetSize: 42,
		StatusCounts: map[model.Status]int{
			model.StatusOverdue:   3,
			model.StatusAttention: 5,
			model.StatusOnTrack:   30,
			model.StatusUnknown:   4,
		},
		AnomalyCount: 2,
		Duration:     150 * time.Millisecond,
	}
	if err := sink.RecordRunSummary(sum); err != nil {
		t.Fatalf("record error: %v", err)
	}

	if got := testutil.ToFloat64(sink.fleet); got != 42 {
		t.Errorf("fleet gauge: got %v", got)
	}
	expected := `
# HELP fleet_maintenance_status_vehicles Vehicles per maintenance status in the last projection run
# TYPE fleet_maintenance_status_vehicles gauge
fleet_maintenance_status_vehicles{status="attention"} 5
fleet_maintenance_status_vehicles{status="on_track"} 30
fleet_maintenance_status_vehicles{status="overdue"} 3
fleet_maintenance_status_vehicles{status="unknown"} 4
`
	if err := testutil.CollectAndCompare(sink.statuses, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.runs); got != 1 {
		t.Errorf("runs counter: got %v", got)
	}
	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("duration not recorded")
	}
}

func TestPromSink_RecordAnomaly(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	a := model.Anomaly{Plate: "ABC1234", Kind: model.AnomalyMileageRegression}
	if err := sink.RecordAnomaly(a); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordAnomaly(a); err != nil {
		t.Fatalf("record error: %v", err)
	}

	got := testutil.ToFloat64(sink.anomalies.WithLabelValues(string(model.AnomalyMileageRegression)))
	if got != 2 {
		t.Errorf("anomaly counter: got %v", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}
