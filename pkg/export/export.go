// Package export writes projection runs and report tables as CSV or JSON
// for the spreadsheet-facing collaborators.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/report"
)

const dateLayout = "2006-01-02"

// WriteProjectionJSON writes the projection rows to w in JSON format.
func WriteProjectionJSON(w io.Writer, rows []model.Projection) error {
	type row struct {
		Plate             string   `json:"plate"`
		Responsible       string   `json:"responsible,omitempty"`
		Unit              string   `json:"unit,omitempty"`
		Region            string   `json:"region,omitempty"`
		Make              string   `json:"make,omitempty"`
		Model             string   `json:"model,omitempty"`
		ModelYear         int      `json:"model_year,omitempty"`
		BaselineDate      string   `json:"baseline_date,omitempty"`
		NextDueDate       string   `json:"next_due_date,omitempty"`
		DaysRemaining     *int     `json:"days_remaining"`
		BaselineOdometer  float64  `json:"baseline_odometer"`
		NextDueOdometer   float64  `json:"next_due_odometer"`
		LatestOdometer    *float64 `json:"latest_odometer"`
		DistanceRemaining *float64 `json:"distance_remaining"`
		Workshop          string   `json:"workshop,omitempty"`
		Status            string   `json:"status"`
		RenewalNow        bool     `json:"renewal_now"`
		RenewalAtNextDue  bool     `json:"renewal_at_next_due"`
	}
	out := make([]row, 0, len(rows))
	for _, p := range rows {
		r := row{
			Plate:            p.Vehicle.Plate,
			Responsible:      p.Vehicle.Responsible,
			Unit:             p.Vehicle.Unit,
			Region:           p.Vehicle.Region,
			Make:             p.Vehicle.Make,
			Model:            p.Vehicle.Model,
			ModelYear:        p.Vehicle.ModelYear,
			BaselineOdometer: p.BaselineOdometer,
			NextDueOdometer:  p.NextDueOdometer,
			Workshop:         p.Workshop,
			Status:           p.Status.String(),
			RenewalNow:       p.RenewalNow,
			RenewalAtNextDue: p.RenewalAtNextDue,
		}
		if p.HasBaselineDate {
			r.BaselineDate = p.BaselineDate.Format(dateLayout)
		}
		if p.HasNextDueDate {
			r.NextDueDate = p.NextDueDate.Format(dateLayout)
		}
		if p.HasDays {
			d := p.DaysRemaining
			r.DaysRemaining = &d
		}
		if p.HasLatestOdo {
			v := p.LatestOdometer
			r.LatestOdometer = &v
		}
		if p.HasDistance {
			v := p.DistanceRemaining
			r.DistanceRemaining = &v
		}
		out = append(out, r)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// WriteProjectionCSV writes the projection rows to w with a header.
func WriteProjectionCSV(w io.Writer, rows []model.Projection) error {
	cw := csv.NewWriter(w)
	header := []string{
		"plate", "responsible", "unit", "region", "make", "model", "model_year",
		"baseline_date", "next_due_date", "days_remaining",
		"baseline_odometer", "next_due_odometer", "latest_odometer", "distance_remaining",
		"workshop", "status", "renewal_now", "renewal_at_next_due",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range rows {
		rec := []string{
			p.Vehicle.Plate,
			p.Vehicle.Responsible,
			p.Vehicle.Unit,
			p.Vehicle.Region,
			p.Vehicle.Make,
			p.Vehicle.Model,
			intField(p.Vehicle.ModelYear, p.Vehicle.ModelYear > 0),
			dateField(p.BaselineDate, p.HasBaselineDate),
			dateField(p.NextDueDate, p.HasNextDueDate),
			intField(p.DaysRemaining, p.HasDays),
			floatField(p.BaselineOdometer, p.HasBaselineDate || p.HasDistance),
			floatField(p.NextDueOdometer, p.HasDistance),
			floatField(p.LatestOdometer, p.HasLatestOdo),
			floatField(p.DistanceRemaining, p.HasDistance),
			p.Workshop,
			p.Status.String(),
			strconv.FormatBool(p.RenewalNow),
			strconv.FormatBool(p.RenewalAtNextDue),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupSummaryCSV writes one status tally per group.
func WriteGroupSummaryCSV(w io.Writer, dimension string, groups []report.GroupSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{dimension, "total", "overdue", "attention", "on_track", "unknown"}); err != nil {
		return err
	}
	for _, g := range groups {
		rec := []string{
			g.Key,
			strconv.Itoa(g.Total),
			strconv.Itoa(g.Overdue),
			strconv.Itoa(g.Attention),
			strconv.Itoa(g.OnTrack),
			strconv.Itoa(g.Unknown),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCalendarCSV writes the monthly due-date histogram.
func WriteCalendarCSV(w io.Writer, entries []report.CalendarEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "due_vehicles"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Month, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCostProjectionCSV writes the projected service spend per month.
func WriteCostProjectionCSV(w io.Writer, entries []report.CostEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "due_vehicles", "projected_cost"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Month,
			strconv.Itoa(e.Count),
			strconv.FormatFloat(e.ProjectedCost, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAnomaliesCSV writes the data-quality flags.
func WriteAnomaliesCSV(w io.Writer, anomalies []model.Anomaly) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"plate", "kind", "detail"}); err != nil {
		return err
	}
	for _, a := range anomalies {
		if err := cw.Write([]string{a.Plate, string(a.Kind), a.Detail}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func dateField(v time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return v.Format(dateLayout)
}

func intField(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func floatField(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
