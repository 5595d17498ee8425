// Package fleet resolves the universe of distinct vehicles appearing in any
// source and one attribute snapshot per vehicle.
package fleet

import (
	"sort"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/normalize"
)

// Index is the immutable per-run vehicle lookup table. Build it once with
// Resolve; it is safe for concurrent reads.
type Index struct {
	records map[string]model.VehicleRecord
	plates  []string
}

// Resolve unions the plates observed in the roster, maintenance, intake and
// fuel sources and merges attributes per plate. Attribute merge is
// last-non-empty-wins with roster records taking precedence over intake
// records; an attribute present in only one source still populates the
// snapshot. Empty plates are dropped.
func Resolve(
	roster []normalize.RosterRecord,
	services []model.ServiceRecord,
	intake []normalize.IntakeRecord,
	fuel []model.FuelRecord,
) *Index {
	records := make(map[string]model.VehicleRecord)

	ensure := func(plate string) {
		if plate == "" {
			return
		}
		if _, ok := records[plate]; !ok {
			records[plate] = model.VehicleRecord{Plate: plate}
		}
	}

	for _, r := range services {
		ensure(r.Plate)
	}
	for _, r := range fuel {
		ensure(r.Plate)
	}

	// intake first so roster values overwrite, leaving intake as gap fill
	for _, r := range intake {
		ensure(r.Plate)
		if r.Plate == "" {
			continue
		}
		rec := records[r.Plate]
		setIfPresent(&rec.Make, r.Make)
		setIfPresent(&rec.Model, r.Model)
		if r.ModelYear != 0 {
			rec.ModelYear = r.ModelYear
		}
		records[r.Plate] = rec
	}
	for _, r := range roster {
		ensure(r.Plate)
		if r.Plate == "" {
			continue
		}
		rec := records[r.Plate]
		setIfPresent(&rec.Responsible, r.Responsible)
		setIfPresent(&rec.Unit, r.Unit)
		setIfPresent(&rec.Region, r.Region)
		setIfPresent(&rec.Division, r.Division)
		setIfPresent(&rec.Site, r.Site)
		setIfPresent(&rec.Make, r.Make)
		setIfPresent(&rec.Model, r.Model)
		if r.ModelYear != 0 {
			rec.ModelYear = r.ModelYear
		}
		records[r.Plate] = rec
	}

	plates := make([]string, 0, len(records))
	for p := range records {
		plates = append(plates, p)
	}
	sort.Strings(plates)
	return &Index{records: records, plates: plates}
}

// Plates returns all resolved plates in ascending order.
func (ix *Index) Plates() []string {
	out := make([]string, len(ix.plates))
	copy(out, ix.plates)
	return out
}

// Record returns the attribute snapshot for the plate. ok is false when the
// plate was not observed in any source.
func (ix *Index) Record(plate string) (model.VehicleRecord, bool) {
	rec, ok := ix.records[plate]
	return rec, ok
}

// Len reports the number of distinct vehicles.
func (ix *Index) Len() int { return len(ix.plates) }

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
