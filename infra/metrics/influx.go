package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
	"github.com/Claudio-NG/FROTAS/infra/logger"
)

// InfluxSink writes run snapshots to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) runmetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return runmetrics.NopSink{}
	}
	return sink
}

// RecordRunSummary writes one point per run with the status counts as fields.
func (s *InfluxSink) RecordRunSummary(sum runmetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("maintenance_run",
		map[string]string{"run_id": sum.RunID},
		map[string]interface{}{
			"fleet_size":       sum.FleetSize,
			"overdue":          sum.StatusCounts[model.StatusOverdue],
			"attention":        sum.StatusCounts[model.StatusAttention],
			"on_track":         sum.StatusCounts[model.StatusOnTrack],
			"unknown":          sum.StatusCounts[model.StatusUnknown],
			"anomalies":        sum.AnomalyCount,
			"duration_seconds": sum.Duration.Seconds(),
		},
		sum.Today)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAnomaly writes one point per detected anomaly.
func (s *InfluxSink) RecordAnomaly(a model.Anomaly) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := influxdb2.NewPoint("maintenance_anomaly",
		map[string]string{"plate": a.Plate, "kind": string(a.Kind)},
		map[string]interface{}{"detail": a.Detail},
		time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
