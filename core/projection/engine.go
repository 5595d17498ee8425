// Package projection computes, per vehicle, the next maintenance due point
// by calendar time and by accumulated distance, classifies urgency and
// evaluates renewal eligibility. One Run is a full batch recomputation over
// immutable per-run indices; vehicles are independent and fan out across a
// bounded worker pool.
package projection

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Claudio-NG/FROTAS/core/anomaly"
	"github.com/Claudio-NG/FROTAS/core/fleet"
	"github.com/Claudio-NG/FROTAS/core/logger"
	"github.com/Claudio-NG/FROTAS/core/maintenance"
	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/runmetrics"
	"github.com/Claudio-NG/FROTAS/internal/eventbus"
)

// Run is the terminal artifact of one pipeline execution.
type Run struct {
	ID          string
	Today       time.Time
	Projections []model.Projection
	Anomalies   []model.Anomaly
	Duration    time.Duration
}

// Engine projects maintenance due points for a resolved fleet.
type Engine struct {
	cfg   Config
	log   logger.Logger
	bus   eventbus.EventBus
	clock func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithBus attaches an event bus; the engine publishes run summary and
// anomaly events on it after each run.
func WithBus(bus eventbus.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithClock overrides the wall clock, fixing "today" for reproducible runs.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New creates an Engine with the given policy. A nil logger is replaced by
// a no-op one.
func New(cfg Config, log logger.Logger, opts ...Option) *Engine {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	e := &Engine{cfg: cfg, log: log, clock: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run computes one projection per resolved plate. The context only bounds
// the fan-out; a cancelled run is discarded by the caller.
func (e *Engine) Run(
	ctx context.Context,
	index *fleet.Index,
	baselines *maintenance.Baselines,
	fuel *maintenance.FuelIndex,
) (*Run, error) {
	start := e.clock()
	today := day(start)
	plates := index.Plates()

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(plates) {
		workers = len(plates)
	}

	rows := make([]model.Projection, len(plates))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, _ := index.Record(plates[i])
				rows[i] = e.project(rec, today, baselines, fuel)
			}
		}()
	}
	for i := range plates {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	sortByUrgency(rows)
	anomalies := anomaly.Detect(rows)

	run := &Run{
		ID:          uuid.NewString(),
		Today:       today,
		Projections: rows,
		Anomalies:   anomalies,
		Duration:    e.clock().Sub(start),
	}
	e.log.Infof("run %s: %d vehicles, %d anomalies in %s",
		run.ID, len(rows), len(anomalies), run.Duration)
	e.publish(run)
	return run, nil
}

func (e *Engine) publish(run *Run) {
	if e.bus == nil {
		return
	}
	counts := runmetrics.CountStatuses(run.Projections)
	e.bus.Publish(runmetrics.RunCompletedEvent{
		RunID:        run.ID,
		Today:        run.Today,
		FleetSize:    len(run.Projections),
		StatusCounts: counts,
		AnomalyCount: len(run.Anomalies),
		Duration:     run.Duration,
	})
	for _, a := range run.Anomalies {
		e.bus.Publish(runmetrics.AnomalyEvent{Anomaly: a})
	}
}

// project runs the per-vehicle pipeline: baseline, odometer correlation,
// due projection, classification and renewal flags.
func (e *Engine) project(
	rec model.VehicleRecord,
	today time.Time,
	baselines *maintenance.Baselines,
	fuel *maintenance.FuelIndex,
) model.Projection {
	p := model.Projection{Vehicle: rec}

	bl, ok := baselines.For(rec.Plate)
	if !ok {
		// no service history and no intake date: visible but unknowable
		p.Status = model.StatusUnknown
		e.renewal(&p, today)
		return p
	}
	p.BaselineDate, p.HasBaselineDate = bl.Date, bl.HasDate
	p.BaselineFromIntake = bl.FromIntake
	p.Workshop = bl.Workshop
	p.ServiceCost, p.HasServiceCost = bl.Cost, bl.HasCost

	if bl.HasDate {
		p.NextDueDate = bl.Date.AddDate(0, 0, e.cfg.TimeIntervalDays)
		p.HasNextDueDate = true
		p.DaysRemaining = daysBetween(today, p.NextDueDate)
		p.HasDays = true
	}

	// Baseline odometer proxy: the fuel reading nearest the service date.
	// Intake baselines carry no consumption evidence, so they start the
	// distance interval from zero.
	if !bl.FromIntake {
		var r model.Reading
		var found bool
		if bl.HasDate {
			r, found = fuel.NearestTo(rec.Plate, bl.Date)
		} else {
			r, found = fuel.Latest(rec.Plate)
		}
		if found {
			p.BaselineOdoDate, p.HasBaselineOdoDate = r.Date, true
			if r.HasOdo {
				p.BaselineOdometer = r.Odometer
			}
		}
	}
	p.NextDueOdometer = p.BaselineOdometer + e.cfg.DistanceInterval

	if r, found := fuel.Latest(rec.Plate); found {
		p.LatestOdoDate, p.HasLatestDate = r.Date, true
		if r.HasOdo {
			p.LatestOdometer, p.HasLatestOdo = r.Odometer, true
		}
	}
	if p.HasLatestOdo {
		p.DistanceRemaining = p.NextDueOdometer - p.LatestOdometer
	} else {
		// no consumption evidence yet: the full interval remains
		p.DistanceRemaining = p.NextDueOdometer
	}
	p.HasDistance = true

	p.Status = e.classify(p)
	e.renewal(&p, today)
	e.effectiveDays(&p)
	return p
}

// classify maps the two shortfalls onto the three-state status; first match
// wins. Callers guarantee at least one shortfall is known here.
func (e *Engine) classify(p model.Projection) model.Status {
	switch {
	case (p.HasDays && p.DaysRemaining < 0) || (p.HasDistance && p.DistanceRemaining < 0):
		return model.StatusOverdue
	case (p.HasDays && p.DaysRemaining < e.cfg.AttentionDays) ||
		(p.HasDistance && p.DistanceRemaining < e.cfg.AttentionDistance):
		return model.StatusAttention
	default:
		return model.StatusOnTrack
	}
}

// renewal evaluates the age-based replacement flags. They are independent
// of the maintenance status.
func (e *Engine) renewal(p *model.Projection, today time.Time) {
	y := p.Vehicle.ModelYear
	if y <= 0 {
		return
	}
	p.RenewalNow = today.Year()-y >= e.cfg.RenewalAgeYears
	if p.HasNextDueDate {
		p.RenewalAtNextDue = p.NextDueDate.Year()-y >= e.cfg.RenewalAgeYears
	}
}

// effectiveDays reconciles the distance shortfall into days at the assumed
// daily-distance rate and keeps the tighter criterion. Advisory only.
func (e *Engine) effectiveDays(p *model.Projection) {
	var distDays int
	hasDistDays := p.HasDistance && e.cfg.DailyDistance > 0
	if hasDistDays {
		distDays = int(p.DistanceRemaining / e.cfg.DailyDistance)
	}
	switch {
	case p.HasDays && hasDistDays:
		p.EffectiveDays = min(p.DaysRemaining, distDays)
		p.HasEffectiveDays = true
	case p.HasDays:
		p.EffectiveDays = p.DaysRemaining
		p.HasEffectiveDays = true
	case hasDistDays:
		p.EffectiveDays = distDays
		p.HasEffectiveDays = true
	}
}

// sortByUrgency orders rows by the tighter of the two shortfalls, most
// urgent first, with the plate as a deterministic tie-break.
func sortByUrgency(rows []model.Projection) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := urgency(rows[i]), urgency(rows[j])
		if a != b {
			return a < b
		}
		return rows[i].Vehicle.Plate < rows[j].Vehicle.Plate
	})
}

const noUrgency = float64(1 << 40)

func urgency(p model.Projection) float64 {
	u := noUrgency
	if p.HasDays && float64(p.DaysRemaining) < u {
		u = float64(p.DaysRemaining)
	}
	if p.HasDistance && p.DistanceRemaining < u {
		u = p.DistanceRemaining
	}
	return u
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
