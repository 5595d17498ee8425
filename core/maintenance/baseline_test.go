package maintenance

import (
	"testing"
	"time"

	"github.com/Claudio-NG/FROTAS/core/model"
	"github.com/Claudio-NG/FROTAS/core/normalize"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildBaselinesKeepsMostRecentService(t *testing.T) {
	b := BuildBaselines([]model.ServiceRecord{
		{Plate: "AAA1111", Date: day(2023, 1, 10), HasDate: true, Workshop: "Old Shop", Cost: 300, HasCost: true},
		{Plate: "AAA1111", Date: day(2023, 6, 1), HasDate: true, Workshop: "New Shop", Odometer: 50000, HasOdo: true, Cost: 800, HasCost: true},
		{Plate: "AAA1111", Date: day(2022, 12, 1), HasDate: true},
	}, nil)

	bl, ok := b.For("AAA1111")
	if !ok {
		t.Fatalf("missing baseline")
	}
	if !bl.HasDate || !bl.Date.Equal(day(2023, 6, 1)) {
		t.Fatalf("wrong baseline date: %+v", bl)
	}
	if bl.Workshop != "New Shop" || !bl.HasOdo || bl.Odometer != 50000 {
		t.Fatalf("baseline must carry the winning entry's fields: %+v", bl)
	}
	if bl.FromIntake {
		t.Fatalf("service baseline must not be flagged as intake")
	}
}

func TestBuildBaselinesDatedBeatsUndated(t *testing.T) {
	b := BuildBaselines([]model.ServiceRecord{
		{Plate: "AAA1111", Date: day(2023, 1, 10), HasDate: true},
		{Plate: "AAA1111"}, // undated row later in the file must not win
	}, nil)
	bl, _ := b.For("AAA1111")
	if !bl.HasDate || !bl.Date.Equal(day(2023, 1, 10)) {
		t.Fatalf("dated entry must win over undated: %+v", bl)
	}
}

func TestBuildBaselinesDiscardsZeroOdometer(t *testing.T) {
	b := BuildBaselines([]model.ServiceRecord{
		{Plate: "AAA1111", Date: day(2023, 6, 1), HasDate: true, Odometer: 0, HasOdo: true},
	}, nil)
	bl, _ := b.For("AAA1111")
	if bl.HasOdo {
		t.Fatalf("zero odometer must be discarded: %+v", bl)
	}
}

func TestBuildBaselinesIntakeFallback(t *testing.T) {
	b := BuildBaselines(nil, []normalize.IntakeRecord{
		{Plate: "BBB2222", Date: day(2024, 2, 1), HasDate: true},
		{Plate: "CCC3333"}, // undated intake contributes nothing
	})

	bl, ok := b.For("BBB2222")
	if !ok || !bl.FromIntake || !bl.HasDate || !bl.Date.Equal(day(2024, 2, 1)) {
		t.Fatalf("intake fallback wrong: %+v ok=%v", bl, ok)
	}
	if bl.HasOdo {
		t.Fatalf("intake baseline must carry no odometer")
	}
	if _, ok := b.For("CCC3333"); ok {
		t.Fatalf("undated intake must not create a baseline")
	}
}

func TestBuildBaselinesIntakeDoesNotShadowService(t *testing.T) {
	b := BuildBaselines(
		[]model.ServiceRecord{{Plate: "AAA1111", Date: day(2023, 6, 1), HasDate: true}},
		[]normalize.IntakeRecord{{Plate: "AAA1111", Date: day(2020, 1, 1), HasDate: true}},
	)
	bl, _ := b.For("AAA1111")
	if bl.FromIntake || !bl.Date.Equal(day(2023, 6, 1)) {
		t.Fatalf("dated service baseline must win over intake: %+v", bl)
	}
}

func TestBuildBaselinesIntakeDatesUndatedService(t *testing.T) {
	b := BuildBaselines(
		[]model.ServiceRecord{{Plate: "AAA1111", Workshop: "Shop", Odometer: 41000, HasOdo: true}},
		[]normalize.IntakeRecord{{Plate: "AAA1111", Date: day(2021, 3, 15), HasDate: true}},
	)
	bl, _ := b.For("AAA1111")
	if !bl.HasDate || !bl.Date.Equal(day(2021, 3, 15)) || !bl.FromIntake {
		t.Fatalf("intake must date an undated service baseline: %+v", bl)
	}
	if bl.Workshop != "Shop" || !bl.HasOdo {
		t.Fatalf("service fields must survive the date fill: %+v", bl)
	}
}

func TestCosts(t *testing.T) {
	b := BuildBaselines([]model.ServiceRecord{
		{Plate: "AAA1111", Date: day(2023, 6, 1), HasDate: true, Cost: 800, HasCost: true},
		{Plate: "BBB2222", Date: day(2023, 7, 1), HasDate: true},
	}, nil)
	costs := b.Costs()
	if len(costs) != 1 || costs[0] != 800 {
		t.Fatalf("unexpected costs: %v", costs)
	}
}
