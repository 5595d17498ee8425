// Package maintenance derives the per-vehicle service baseline and answers
// odometer lookups against the fuel-transaction series.
package maintenance

import (
	"sort"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/normalize"
)

// Baseline is the reference point the next due projection starts from.
type Baseline struct {
	Plate    string
	Date     time.Time
	HasDate  bool
	Odometer float64
	HasOdo   bool
	Workshop string
	Cost     float64
	HasCost  bool

	// FromIntake marks a baseline taken from the intake date because the
	// vehicle has no service history.
	FromIntake bool
}

// Baselines maps each plate to its most recent service entry, falling back
// to the intake date when no service history exists. Built once per run.
type Baselines struct {
	byPlate map[string]Baseline
}

// BuildBaselines sorts each plate's service entries by date and keeps the
// most recent dated one. An odometer reading of exactly zero is discarded
// as a data error. Plates without service history get the intake date with
// no odometer.
func BuildBaselines(services []model.ServiceRecord, intake []normalize.IntakeRecord) *Baselines {
	byPlate := make(map[string]Baseline)

	perPlate := make(map[string][]model.ServiceRecord)
	for _, s := range services {
		if s.Plate == "" {
			continue
		}
		perPlate[s.Plate] = append(perPlate[s.Plate], s)
	}
	for plate, entries := range perPlate {
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.HasDate != b.HasDate {
				return !a.HasDate // undated entries sort first, dated ones win
			}
			return a.Date.Before(b.Date)
		})
		last := entries[len(entries)-1]
		b := Baseline{
			Plate:    plate,
			Date:     last.Date,
			HasDate:  last.HasDate,
			Workshop: last.Workshop,
			Cost:     last.Cost,
			HasCost:  last.HasCost,
		}
		if last.HasOdo && last.Odometer != 0 {
			b.Odometer = last.Odometer
			b.HasOdo = true
		}
		byPlate[plate] = b
	}

	for _, r := range intake {
		if r.Plate == "" || !r.HasDate {
			continue
		}
		cur, ok := byPlate[r.Plate]
		if ok && cur.HasDate {
			continue
		}
		if ok {
			// service history exists but carries no usable date
			cur.Date = r.Date
			cur.HasDate = true
			cur.FromIntake = true
			byPlate[r.Plate] = cur
			continue
		}
		byPlate[r.Plate] = Baseline{
			Plate:      r.Plate,
			Date:       r.Date,
			HasDate:    true,
			FromIntake: true,
		}
	}
	return &Baselines{byPlate: byPlate}
}

// For returns the plate's baseline. ok is false when the plate has neither
// service history nor an intake date.
func (b *Baselines) For(plate string) (Baseline, bool) {
	bl, ok := b.byPlate[plate]
	return bl, ok
}

// Costs returns the service costs observed on the retained baselines, one
// value per plate that has one. Input for the cost projection's mean.
func (b *Baselines) Costs() []float64 {
	var costs []float64
	for _, bl := range b.byPlate {
		if bl.HasCost {
			costs = append(costs, bl.Cost)
		}
	}
	return costs
}
