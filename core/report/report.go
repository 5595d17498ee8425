// Package report groups one run's projections along organizational
// dimensions and derives the due-date calendar and the cost projection.
// Pure summarization: counts, sums and one mean, nothing recomputed.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Claudio-NG/FROTAS/core/model"
)

// NoGroup buckets rows whose grouping attribute is empty.
const NoGroup = "(none)"

// GroupSummary is the per-group status tally.
type GroupSummary struct {
	Key       string
	Total     int
	Overdue   int
	Attention int
	OnTrack   int
	Unknown   int
}

// ModelYearSummary counts vehicles and renewal flags per model year.
type ModelYearSummary struct {
	Year             int
	Total            int
	RenewalNow       int
	RenewalAtNextDue int
}

// CalendarEntry is the number of vehicles due in one year-month.
type CalendarEntry struct {
	Month string // "2006-01"
	Count int
}

// CostEntry projects the service spend for one year-month.
type CostEntry struct {
	Month         string
	Count         int
	ProjectedCost float64
}

// ByResponsible tallies statuses per responsible party.
func ByResponsible(rows []model.Projection) []GroupSummary {
	return group(rows, func(p model.Projection) string { return p.Vehicle.Responsible })
}

// ByUnit tallies statuses per organizational unit.
func ByUnit(rows []model.Projection) []GroupSummary {
	return group(rows, func(p model.Projection) string { return p.Vehicle.Unit })
}

// ByRegion tallies statuses per region.
func ByRegion(rows []model.Projection) []GroupSummary {
	return group(rows, func(p model.Projection) string { return p.Vehicle.Region })
}

// ByWorkshop tallies statuses per baseline workshop.
func ByWorkshop(rows []model.Projection) []GroupSummary {
	return group(rows, func(p model.Projection) string { return p.Workshop })
}

// ByModelYear counts vehicles and renewal eligibility per model year.
// Vehicles with an unknown model year fall under year 0.
func ByModelYear(rows []model.Projection) []ModelYearSummary {
	byYear := make(map[int]*ModelYearSummary)
	for _, p := range rows {
		s, ok := byYear[p.Vehicle.ModelYear]
		if !ok {
			s = &ModelYearSummary{Year: p.Vehicle.ModelYear}
			byYear[p.Vehicle.ModelYear] = s
		}
		s.Total++
		if p.RenewalNow {
			s.RenewalNow++
		}
		if p.RenewalAtNextDue {
			s.RenewalAtNextDue++
		}
	}
	out := make([]ModelYearSummary, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Calendar histograms rows with a due date by year-month.
func Calendar(rows []model.Projection) []CalendarEntry {
	byMonth := make(map[string]int)
	for _, p := range rows {
		if !p.HasNextDueDate {
			continue
		}
		byMonth[yearMonth(p)]++
	}
	out := make([]CalendarEntry, 0, len(byMonth))
	for m, n := range byMonth {
		out = append(out, CalendarEntry{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CostProjection multiplies each month's due count by the mean historical
// service cost. referenceCost stands in when no cost history exists or the
// observed mean degenerates to zero or NaN.
func CostProjection(rows []model.Projection, costs []float64, referenceCost float64) []CostEntry {
	meanCost := referenceCost
	if len(costs) > 0 {
		if m := stat.Mean(costs, nil); m > 0 {
			meanCost = m
		}
	}
	cal := Calendar(rows)
	out := make([]CostEntry, 0, len(cal))
	for _, c := range cal {
		out = append(out, CostEntry{
			Month:         c.Month,
			Count:         c.Count,
			ProjectedCost: float64(c.Count) * meanCost,
		})
	}
	return out
}

// Alerts returns the rows needing action, preserving the run's urgency
// order.
func Alerts(rows []model.Projection) []model.Projection {
	var out []model.Projection
	for _, p := range rows {
		if p.Status == model.StatusOverdue || p.Status == model.StatusAttention {
			out = append(out, p)
		}
	}
	return out
}

// NoHistory returns the rows missing a baseline date or a latest odometer
// reading, sorted by plate.
func NoHistory(rows []model.Projection) []model.Projection {
	var out []model.Projection
	for _, p := range rows {
		if !p.HasBaselineDate || !p.HasLatestOdo {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vehicle.Plate < out[j].Vehicle.Plate })
	return out
}

func group(rows []model.Projection, key func(model.Projection) string) []GroupSummary {
	byKey := make(map[string]*GroupSummary)
	for _, p := range rows {
		k := key(p)
		if k == "" {
			k = NoGroup
		}
		s, ok := byKey[k]
		if !ok {
			s = &GroupSummary{Key: k}
			byKey[k] = s
		}
		s.Total++
		switch p.Status {
		case model.StatusOverdue:
			s.Overdue++
		case model.StatusAttention:
			s.Attention++
		case model.StatusOnTrack:
			s.OnTrack++
		default:
			s.Unknown++
		}
	}
	out := make([]GroupSummary, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	// worst groups first, key as the deterministic tie-break
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		if a.Attention != b.Attention {
			return a.Attention > b.Attention
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Key < b.Key
	})
	return out
}

func yearMonth(p model.Projection) string {
	return fmt.Sprintf("%04d-%02d", p.NextDueDate.Year(), int(p.NextDueDate.Month()))
}
