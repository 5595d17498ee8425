package maintenance

import (
	"sort"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
)

// FuelIndex holds each plate's dated fuel readings sorted ascending by
// date. Built once per run and read-only afterwards, so nearest-date
// lookups stay O(log n) per vehicle.
type FuelIndex struct {
	byPlate map[string][]model.Reading
}

// BuildFuelIndex indexes the fuel series per plate. Records without a date
// are unusable for temporal correlation and are skipped.
func BuildFuelIndex(fuel []model.FuelRecord) *FuelIndex {
	byPlate := make(map[string][]model.Reading)
	for _, f := range fuel {
		if f.Plate == "" || !f.HasDate {
			continue
		}
		byPlate[f.Plate] = append(byPlate[f.Plate], model.Reading{
			Date:     f.Date,
			Odometer: f.Odometer,
			HasOdo:   f.HasOdo,
		})
	}
	for plate := range byPlate {
		s := byPlate[plate]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	}
	return &FuelIndex{byPlate: byPlate}
}

// NearestTo returns the reading whose date is closest to ref. Ties on the
// absolute day delta resolve to the earlier date so results are
// deterministic. ok is false when the plate has no dated readings.
func (ix *FuelIndex) NearestTo(plate string, ref time.Time) (model.Reading, bool) {
	series := ix.byPlate[plate]
	if len(series) == 0 {
		return model.Reading{}, false
	}
	i := sort.Search(len(series), func(i int) bool { return !series[i].Date.Before(ref) })
	switch {
	case i == 0:
		return series[0], true
	case i == len(series):
		return series[len(series)-1], true
	}
	before, after := series[i-1], series[i]
	if absDays(ref, after.Date) < absDays(ref, before.Date) {
		return after, true
	}
	return before, true
}

// Latest returns the plate's most recent reading by date. ok is false when
// the plate has no dated readings.
func (ix *FuelIndex) Latest(plate string) (model.Reading, bool) {
	series := ix.byPlate[plate]
	if len(series) == 0 {
		return model.Reading{}, false
	}
	return series[len(series)-1], true
}

func absDays(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
