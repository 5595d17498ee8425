package report

import (
	"math"
	"testing"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
)

func row(plate, responsible string, status model.Status) model.Projection {
	return model.Projection{
		Vehicle: model.VehicleRecord{Plate: plate, Responsible: responsible},
		Status:  status,
	}
}

func dueRow(plate string, due time.Time) model.Projection {
	return model.Projection{
		Vehicle:        model.VehicleRecord{Plate: plate},
		NextDueDate:    due,
		HasNextDueDate: true,
	}
}

func TestByResponsibleTallies(t *testing.T) {
	rows := []model.Projection{
		row("A1", "Alice", model.StatusOverdue),
		row("A2", "Alice", model.StatusOnTrack),
		row("B1", "Bob", model.StatusAttention),
		row("C1", "", model.StatusUnknown),
	}
	got := ByResponsible(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %v", got)
	}
	// Alice has the overdue row, so she leads
	if got[0].Key != "Alice" || got[0].Total != 2 || got[0].Overdue != 1 || got[0].OnTrack != 1 {
		t.Fatalf("alice group: %+v", got[0])
	}
	if got[1].Key != "Bob" || got[1].Attention != 1 {
		t.Fatalf("bob group: %+v", got[1])
	}
	if got[2].Key != NoGroup || got[2].Unknown != 1 {
		t.Fatalf("empty key must bucket under %q: %+v", NoGroup, got[2])
	}
}

func TestGroupOrderIsDeterministic(t *testing.T) {
	rows := []model.Projection{
		row("A1", "Alice", model.StatusOnTrack),
		row("B1", "Bob", model.StatusOnTrack),
	}
	got := ByResponsible(rows)
	if got[0].Key != "Alice" || got[1].Key != "Bob" {
		t.Fatalf("equal groups must sort by key: %+v", got)
	}
}

func TestIdempotentReaggregation(t *testing.T) {
	rows := []model.Projection{
		row("A1", "Alice", model.StatusOverdue),
		row("B1", "Bob", model.StatusAttention),
		row("A2", "Alice", model.StatusOnTrack),
	}
	reversed := []model.Projection{rows[2], rows[1], rows[0]}

	a, b := ByResponsible(rows), ByResponsible(reversed)
	if len(a) != len(b) {
		t.Fatalf("group counts differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row order must not change totals: %+v vs %+v", a[i], b[i])
		}
	}
}

func TestByModelYear(t *testing.T) {
	rows := []model.Projection{
		{Vehicle: model.VehicleRecord{Plate: "A1", ModelYear: 2020}, RenewalNow: true, RenewalAtNextDue: true},
		{Vehicle: model.VehicleRecord{Plate: "A2", ModelYear: 2020}, RenewalNow: true},
		{Vehicle: model.VehicleRecord{Plate: "B1", ModelYear: 2024}},
		{Vehicle: model.VehicleRecord{Plate: "C1"}},
	}
	got := ByModelYear(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 years, got %+v", got)
	}
	if got[0].Year != 0 || got[0].Total != 1 {
		t.Fatalf("unknown year must fall under 0: %+v", got[0])
	}
	if got[1].Year != 2020 || got[1].RenewalNow != 2 || got[1].RenewalAtNextDue != 1 {
		t.Fatalf("2020 summary: %+v", got[1])
	}
}

func TestCalendar(t *testing.T) {
	rows := []model.Projection{
		dueRow("A1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		dueRow("A2", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)),
		dueRow("B1", time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)),
		{Vehicle: model.VehicleRecord{Plate: "C1"}}, // no due date, no bucket
	}
	got := Calendar(rows)
	want := []CalendarEntry{{Month: "2024-06", Count: 2}, {Month: "2024-07", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %+v want %+v", got, want)
		}
	}
}

func TestCostProjectionUsesMeanCost(t *testing.T) {
	rows := []model.Projection{
		dueRow("A1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		dueRow("A2", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)),
	}
	got := CostProjection(rows, []float64{400, 800}, 500)
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if math.Abs(got[0].ProjectedCost-1200) > 1e-9 {
		t.Fatalf("2 vehicles at mean 600: got %v", got[0].ProjectedCost)
	}
}

func TestCostProjectionFallsBackToReferenceCost(t *testing.T) {
	rows := []model.Projection{dueRow("A1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	got := CostProjection(rows, nil, 500)
	if got[0].ProjectedCost != 500 {
		t.Fatalf("got %v", got[0].ProjectedCost)
	}
}

func TestCostProjectionFallsBackOnZeroMean(t *testing.T) {
	rows := []model.Projection{dueRow("A1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	// recorded costs of zero carry no pricing information
	got := CostProjection(rows, []float64{0, 0}, 500)
	if got[0].ProjectedCost != 500 {
		t.Fatalf("zero mean must fall back: got %v", got[0].ProjectedCost)
	}
}

func TestAlertsPreservesOrder(t *testing.T) {
	rows := []model.Projection{
		row("A1", "", model.StatusOverdue),
		row("B1", "", model.StatusOnTrack),
		row("C1", "", model.StatusAttention),
		row("D1", "", model.StatusUnknown),
	}
	got := Alerts(rows)
	if len(got) != 2 || got[0].Vehicle.Plate != "A1" || got[1].Vehicle.Plate != "C1" {
		t.Fatalf("got %+v", got)
	}
}

func TestNoHistory(t *testing.T) {
	rows := []model.Projection{
		{Vehicle: model.VehicleRecord{Plate: "B1"}, HasBaselineDate: true},
		{Vehicle: model.VehicleRecord{Plate: "A1"}, HasBaselineDate: true, HasLatestOdo: true},
		{Vehicle: model.VehicleRecord{Plate: "C1"}, HasLatestOdo: true},
	}
	got := NoHistory(rows)
	if len(got) != 2 || got[0].Vehicle.Plate != "B1" || got[1].Vehicle.Plate != "C1" {
		t.Fatalf("got %+v", got)
	}
}
