package oee

import (
	"context"
	"testing"

	"github.com/tagspc/tagspc/internal/historian"
)

func baseInputs() Inputs {
	return Inputs{
		Line:              "Enterprise B/Site1/fillerproduction/fillingline01",
		Start:             "2026-01-01T06:00:00Z",
		End:               "2026-01-01T18:00:00Z",
		ShiftLabel:        "day",
		TimeRunning:       36000, // 10h
		TimeIdle:          3600,
		TimeDownPlanned:   1800,
		TimeDownUnplanned: 1800,
		CountInfeed:       10000,
		CountOutfeed:      9600,
		CountDefect:       100,
		RateActual:        950,
		RateStandard:      1000,
	}
}

func TestCompute_TimeUtilization(t *testing.T) {
	rep := Compute(baseInputs())
	tu := rep.TimeUtilization

	if tu.TotalSeconds != 43200 {
		t.Errorf("TotalSeconds = %v, want 43200", tu.TotalSeconds)
	}
	if tu.PctRunning != 83.3 {
		t.Errorf("PctRunning = %v, want 83.3", tu.PctRunning)
	}
	if tu.PctIdle != 8.3 {
		t.Errorf("PctIdle = %v, want 8.3", tu.PctIdle)
	}
	if tu.PctPlannedDown != 4.2 || tu.PctUnplannedDown != 4.2 {
		t.Errorf("down pcts = %v/%v, want 4.2/4.2", tu.PctPlannedDown, tu.PctUnplannedDown)
	}
}

func TestCompute_Production(t *testing.T) {
	rep := Compute(baseInputs())
	p := rep.Production

	if p.UnitsIn != 10000 || p.UnitsOut != 9600 || p.Defects != 100 {
		t.Errorf("units = %d/%d/%d", p.UnitsIn, p.UnitsOut, p.Defects)
	}
	// 9600 units over 10 running hours.
	if p.ThroughputPerHour != 960 {
		t.Errorf("ThroughputPerHour = %v, want 960", p.ThroughputPerHour)
	}
	// (9600-100)/10000 * 100 = 95%
	if p.YieldPct == nil || *p.YieldPct != 95 {
		t.Errorf("YieldPct = %v, want 95", p.YieldPct)
	}
	if p.RateEfficiencyPct == nil || *p.RateEfficiencyPct != 95 {
		t.Errorf("RateEfficiencyPct = %v, want 95", p.RateEfficiencyPct)
	}
}

func TestCompute_ZeroDenominators(t *testing.T) {
	rep := Compute(Inputs{Line: "l", ShiftLabel: "day"})

	tu := rep.TimeUtilization
	if tu.PctRunning != 0 || tu.PctIdle != 0 {
		t.Errorf("pct splits on zero total = %v/%v, want 0", tu.PctRunning, tu.PctIdle)
	}
	p := rep.Production
	if p.ThroughputPerHour != 0 {
		t.Errorf("ThroughputPerHour = %v, want 0 with no running time", p.ThroughputPerHour)
	}
	if p.YieldPct != nil {
		t.Errorf("YieldPct = %v, want nil with no infeed", *p.YieldPct)
	}
	if p.RateEfficiencyPct != nil {
		t.Error("RateEfficiencyPct should be nil with no standard rate")
	}
	if rep.WorkOrder.CompletionPct != nil {
		t.Error("CompletionPct should be nil without work order data")
	}
}

func TestCompute_WorkOrderCompletion(t *testing.T) {
	in := baseInputs()
	in.WONumber = "WO-4711"
	in.WOProduct = "Lemonade 0.5L"
	in.WOUOM = "bottles"
	in.WOActual = f64(26000.4)
	in.WOTarget = f64(52000)
	in.WODefect = f64(120)

	rep := Compute(in)
	wo := rep.WorkOrder
	if wo.Actual == nil || *wo.Actual != 26000 {
		t.Errorf("Actual = %v, want 26000", wo.Actual)
	}
	if wo.CompletionPct == nil || *wo.CompletionPct != 50 {
		t.Errorf("CompletionPct = %v, want 50", wo.CompletionPct)
	}
	if wo.Number != "WO-4711" || wo.UOM != "bottles" {
		t.Errorf("work order passthrough = %+v", wo)
	}
}

// --- Analyzer over a fake querier ---

type fakeQuerier struct {
	data map[string][]historian.Point
	err  error
}

func (f *fakeQuerier) Query(ctx context.Context, tags []string, start, end string) (map[string][]historian.Point, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string][]historian.Point{}
	for _, tag := range tags {
		if pts, ok := f.data[tag]; ok {
			out[tag] = pts
		}
	}
	return out, nil
}

func counter(first, last float64) []historian.Point {
	return []historian.Point{{Timestamp: "t0", Value: first}, {Timestamp: "t1", Value: last}}
}

func TestAnalyzer_Analyze(t *testing.T) {
	line := "Enterprise B/Site1/fillerproduction/fillingline01"
	q := &fakeQuerier{data: map[string][]historian.Point{
		line + tagTimeRunning:   counter(1000, 37000),
		line + tagTimeIdle:      counter(0, 3600),
		line + tagCountInfeed:   counter(500, 10500),
		line + tagCountOutfeed:  counter(400, 10000),
		line + tagCountDefect:   counter(0, 100),
		line + tagRateActual:    {{Timestamp: "t1", Value: 950.0}},
		line + tagRateStandard:  {{Timestamp: "t1", Value: 1000.0}},
		line + tagWONumber:      {{Timestamp: "t1", Value: "WO-1"}},
	}}

	rep, err := NewAnalyzer(q).Analyze(context.Background(), line,
		"2026-01-01T06:00:00Z", "2026-01-01T18:00:00Z", "day")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.TimeUtilization.RunningSeconds != 36000 {
		t.Errorf("RunningSeconds = %v, want delta 36000", rep.TimeUtilization.RunningSeconds)
	}
	if rep.Production.UnitsOut != 9600 {
		t.Errorf("UnitsOut = %d, want 9600", rep.Production.UnitsOut)
	}
	if rep.WorkOrder.Number != "WO-1" {
		t.Errorf("WONumber = %v", rep.WorkOrder.Number)
	}
	if rep.Period.Shift != "day" {
		t.Errorf("Shift = %q", rep.Period.Shift)
	}
}

func TestAnalyzer_NoTimeData(t *testing.T) {
	q := &fakeQuerier{data: map[string][]historian.Point{}}
	_, err := NewAnalyzer(q).Analyze(context.Background(), "line", "s", "e", "day")
	if err == nil {
		t.Fatal("expected error when the running-time counter has no points")
	}
}
