// Package app wires the batch pipeline: sources in, projection run, report
// tables out, plus the optional metrics and MQTT sinks.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Claudio-NG/FROTAS/config"
	"github.com/Claudio-NG/FROTAS/core/fleet"
	"github.com/Claudio-NG/FROTAS/core/maintenance"
	"github.com/Claudio-NG/FROTAS/core/normalize"
	"github.com/Claudio-NG/FROTAS/core/projection"
	"github.com/Claudio-NG/FROTAS/core/report"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
	"github.com/Claudio-NG/FROTAS/infra/logger"
	"github.com/Claudio-NG/FROTAS/infra/metrics"
	"github.com/Claudio-NG/FROTAS/infra/publish"
	"github.com/Claudio-NG/FROTAS/internal/eventbus"
	"github.com/Claudio-NG/FROTAS/pkg/export"
)

// Service orchestrates one projection run end to end.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	bus       *eventbus.Bus
	engine    *projection.Engine
	sink      runmetrics.MetricsSink
	publisher *publish.Publisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []runmetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink runmetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = runmetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher *publish.Publisher
	if cfg.Publish.Enabled {
		p, err := publish.New(cfg.Publish)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = p
	}

	bus := eventbus.New()
	engine := projection.New(cfg.Engine, logger.New("engine"), projection.WithBus(bus))
	return &Service{
		cfg:       cfg,
		log:       logg,
		bus:       bus,
		engine:    engine,
		sink:      sink,
		publisher: publisher,
	}, nil
}

// Run executes the full pipeline once and writes the report tables.
func (s *Service) Run(ctx context.Context) error {
	collectorDone := metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.PrometheusEnabled && s.cfg.Metrics.PrometheusAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srcs, err := LoadSources(s.cfg.Sources, s.log)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	filter := normalize.NewStatusFilter(s.cfg.ExcludedStatuses)
	roster := normalize.Roster(srcs.Roster, filter)
	services := normalize.Service(srcs.Maintenance)
	intake := normalize.Intake(srcs.Intake, filter)
	fuel := normalize.Fuel(srcs.Fuel)
	s.log.Infof("sources: %d roster, %d maintenance, %d intake, %d fuel rows",
		len(roster), len(services), len(intake), len(fuel))

	index := fleet.Resolve(roster, services, intake, fuel)
	baselines := maintenance.BuildBaselines(services, intake)
	fuelIndex := maintenance.BuildFuelIndex(fuel)

	run, err := s.engine.Run(ctx, index, baselines, fuelIndex)
	if err != nil {
		return err
	}
	if err := s.export(run, baselines); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRun(run); err != nil {
			s.log.Errorf("publish run: %v", err)
		}
	}

	// closing the bus lets the collector drain the delivered events
	s.bus.Close()
	<-collectorDone
	return nil
}

func (s *Service) export(run *projection.Run, baselines *maintenance.Baselines) error {
	dir := s.cfg.Export.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}

	if s.cfg.Export.Format == "json" {
		if err := writeFile(dir, "projection.json", func(f *os.File) error {
			return export.WriteProjectionJSON(f, run.Projections)
		}); err != nil {
			return err
		}
	} else {
		if err := writeFile(dir, "projection.csv", func(f *os.File) error {
			return export.WriteProjectionCSV(f, run.Projections)
		}); err != nil {
			return err
		}
	}

	groupFiles := []struct {
		name      string
		dimension string
		groups    []report.GroupSummary
	}{
		{"by_responsible.csv", "responsible", report.ByResponsible(run.Projections)},
		{"by_unit.csv", "unit", report.ByUnit(run.Projections)},
		{"by_region.csv", "region", report.ByRegion(run.Projections)},
		{"by_workshop.csv", "workshop", report.ByWorkshop(run.Projections)},
	}
	for _, g := range groupFiles {
		g := g
		if err := writeFile(dir, g.name, func(f *os.File) error {
			return export.WriteGroupSummaryCSV(f, g.dimension, g.groups)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(dir, "calendar.csv", func(f *os.File) error {
		return export.WriteCalendarCSV(f, report.Calendar(run.Projections))
	}); err != nil {
		return err
	}
	if err := writeFile(dir, "cost_projection.csv", func(f *os.File) error {
		entries := report.CostProjection(run.Projections, baselines.Costs(), s.cfg.Engine.ReferenceCost)
		return export.WriteCostProjectionCSV(f, entries)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, "anomalies.csv", func(f *os.File) error {
		return export.WriteAnomaliesCSV(f, run.Anomalies)
	}); err != nil {
		return err
	}
	s.log.Infof("run %s exported to %s", run.ID, dir)
	return nil
}

func writeFile(dir, name string, write func(*os.File) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close releases the external connections.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}
