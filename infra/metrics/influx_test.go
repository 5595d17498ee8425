package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
)

func TestInfluxSink_RecordRunSummary(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	sum := runmetrics.RunSummary{
		RunID:     "run-1",
		Today:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		FleetSize: 10,
		StatusCounts: map[model.Status]int{
			model.StatusOverdue: 2,
			model.StatusOnTrack: 8,
		},
		AnomalyCount: 1,
		Duration:     time.Second,
	}
	if err := sink.RecordRunSummary(sum); err != nil {
		t.Fatalf("record error: %v", err)
	}

	if !strings.HasPrefix(body, "maintenance_run,run_id=run-1 ") {
		t.Errorf("unexpected measurement line: %s", body)
	}
	for _, field := range []string{"fleet_size=10i", "overdue=2i", "on_track=8i", "anomalies=1i"} {
		if !strings.Contains(body, field) {
			t.Errorf("missing field %s in %s", field, body)
		}
	}
}

func TestInfluxSink_RecordAnomaly(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	a := model.Anomaly{Plate: "ABC1234", Kind: model.AnomalyTemporalInversion, Detail: "latest predates baseline"}
	if err := sink.RecordAnomaly(a); err != nil {
		t.Fatalf("record error: %v", err)
	}

	if !strings.HasPrefix(body, "maintenance_anomaly,kind=temporal_inversion,plate=ABC1234 ") {
		t.Errorf("unexpected measurement line: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
