package normalize

import (
	"strings"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
)

// RosterRow is one raw vehicle/assignment roster record as delivered by the
// source-side adapter. All fields are free text.
type RosterRow struct {
	Plate       string
	Responsible string
	Unit        string
	Region      string
	Division    string
	Site        string
	Make        string
	Model       string
	ModelYear   string
	Status      string
}

// RosterRecord is a normalized roster row. ModelYear is 0 when unknown.
type RosterRecord struct {
	Plate       string
	Responsible string
	Unit        string
	Region      string
	Division    string
	Site        string
	Make        string
	Model       string
	ModelYear   int
}

// ServiceRow is one raw maintenance-log record.
type ServiceRow struct {
	Plate    string
	Date     string
	Odometer string
	Workshop string
	Cost     string
}

// IntakeRow is one raw intake/acquisition-log record.
type IntakeRow struct {
	Plate     string
	Date      string
	Make      string
	Model     string
	ModelYear string
	Status    string
}

// IntakeRecord is a normalized intake row. The attribute fields back-fill
// roster gaps during identity resolution.
type IntakeRecord struct {
	Plate     string
	Date      time.Time
	HasDate   bool
	Make      string
	Model     string
	ModelYear int
}

// FuelRow is one raw fuel-transaction record.
type FuelRow struct {
	Plate    string
	Date     string
	Odometer string
}

// Roster normalizes roster rows, dropping records whose status marks the
// vehicle out of the active fleet.
func Roster(rows []RosterRow, filter StatusFilter) []RosterRecord {
	out := make([]RosterRecord, 0, len(rows))
	for _, r := range rows {
		if filter.Excluded(r.Status) {
			continue
		}
		rec := RosterRecord{
			Plate:       CanonicalPlate(r.Plate),
			Responsible: trim(r.Responsible),
			Unit:        trim(r.Unit),
			Region:      trim(r.Region),
			Division:    trim(r.Division),
			Site:        trim(r.Site),
			Make:        trim(r.Make),
			Model:       trim(r.Model),
		}
		if y, ok := ParseModelYear(r.ModelYear); ok {
			rec.ModelYear = y
		}
		out = append(out, rec)
	}
	return out
}

// Service normalizes maintenance-log rows. Unparseable dates and odometers
// degrade to missing; costs likewise.
func Service(rows []ServiceRow) []model.ServiceRecord {
	out := make([]model.ServiceRecord, 0, len(rows))
	for _, r := range rows {
		rec := model.ServiceRecord{
			Plate:    CanonicalPlate(r.Plate),
			Workshop: trim(r.Workshop),
		}
		rec.Date, rec.HasDate = ParseDate(r.Date)
		rec.Odometer, rec.HasOdo = ParseNumber(r.Odometer)
		rec.Cost, rec.HasCost = ParseNumber(r.Cost)
		out = append(out, rec)
	}
	return out
}

// Intake normalizes intake rows, applying the active-fleet filter.
func Intake(rows []IntakeRow, filter StatusFilter) []IntakeRecord {
	out := make([]IntakeRecord, 0, len(rows))
	for _, r := range rows {
		if filter.Excluded(r.Status) {
			continue
		}
		rec := IntakeRecord{
			Plate: CanonicalPlate(r.Plate),
			Make:  trim(r.Make),
			Model: trim(r.Model),
		}
		rec.Date, rec.HasDate = ParseDate(r.Date)
		if y, ok := ParseModelYear(r.ModelYear); ok {
			rec.ModelYear = y
		}
		out = append(out, rec)
	}
	return out
}

// Fuel normalizes fuel-transaction rows.
func Fuel(rows []FuelRow) []model.FuelRecord {
	out := make([]model.FuelRecord, 0, len(rows))
	for _, r := range rows {
		rec := model.FuelRecord{Plate: CanonicalPlate(r.Plate)}
		rec.Date, rec.HasDate = ParseDate(r.Date)
		rec.Odometer, rec.HasOdo = ParseNumber(r.Odometer)
		out = append(out, rec)
	}
	return out
}

func trim(s string) string {
	// collapse the "nan"/"None" artifacts spreadsheet exports leave in text cells
	t := strings.TrimSpace(s)
	if t == "nan" || t == "NaN" || t == "None" {
		return ""
	}
	return t
}
