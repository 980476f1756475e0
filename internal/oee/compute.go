package oee

import "math"

// Inputs holds the raw values extracted from the historian for one line
// and window: counter deltas in seconds/units, latest instantaneous
// rates, and the latest work-order fields.
type Inputs struct {
	Line       string
	Start, End string
	ShiftLabel string

	// Cumulative time counter deltas, seconds spent in each state.
	TimeRunning       float64
	TimeIdle          float64
	TimeDownPlanned   float64
	TimeDownUnplanned float64

	// Cumulative production counter deltas, units.
	CountInfeed  float64
	CountOutfeed float64
	CountDefect  float64

	// Latest instantaneous rates, units per hour.
	RateActual   float64
	RateStandard float64

	// Latest work-order values. Number, Product and UOM are raw historian
	// values (string or numeric); the quantity fields are nil when the tag
	// has no data in the window.
	WONumber  any
	WOProduct any
	WOUOM     any
	WOActual  *float64
	WOTarget  *float64
	WODefect  *float64
}

// TimeUtilization breaks the window down by equipment state.
type TimeUtilization struct {
	TotalSeconds         float64 `json:"total_seconds"`
	RunningSeconds       float64 `json:"running_seconds"`
	IdleSeconds          float64 `json:"idle_seconds"`
	PlannedDownSeconds   float64 `json:"planned_down_seconds"`
	UnplannedDownSeconds float64 `json:"unplanned_down_seconds"`
	PctRunning           float64 `json:"pct_running"`
	PctIdle              float64 `json:"pct_idle"`
	PctPlannedDown       float64 `json:"pct_planned_down"`
	PctUnplannedDown     float64 `json:"pct_unplanned_down"`
}

// Production summarizes unit flow and rate efficiency.
type Production struct {
	UnitsIn           int      `json:"units_in"`
	UnitsOut          int      `json:"units_out"`
	Defects           int      `json:"defects"`
	YieldPct          *float64 `json:"yield_pct"`
	ThroughputPerHour float64  `json:"throughput_per_hour"`
	RateActual        float64  `json:"rate_actual"`
	RateStandard      float64  `json:"rate_standard"`
	RateEfficiencyPct *float64 `json:"rate_efficiency_pct"`
}

// WorkOrder reports the active work order and its completion.
type WorkOrder struct {
	Number        any      `json:"number"`
	Product       any      `json:"product"`
	Actual        *int     `json:"actual"`
	Target        *int     `json:"target"`
	Defects       *int     `json:"defects"`
	CompletionPct *float64 `json:"completion_pct"`
	UOM           any      `json:"uom"`
}

// Period is the analyzed window plus its shift label.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Shift string `json:"shift"`
}

// Report is the full production analysis for one line and window.
type Report struct {
	Line            string          `json:"line"`
	Period          Period          `json:"period"`
	TimeUtilization TimeUtilization `json:"time_utilization"`
	Production      Production      `json:"production"`
	WorkOrder       WorkOrder       `json:"work_order"`
	Status          string          `json:"status"`
}

// Compute derives the production report from raw inputs. It is a pure
// function; ratios with zero denominators come back as 0 (percent splits,
// throughput) or nil (yield, rate efficiency, completion).
func Compute(in Inputs) *Report {
	rep := &Report{
		Line:   in.Line,
		Period: Period{Start: in.Start, End: in.End, Shift: in.ShiftLabel},
		Status: "ok",
	}

	total := in.TimeRunning + in.TimeIdle + in.TimeDownPlanned + in.TimeDownUnplanned
	tu := TimeUtilization{
		TotalSeconds:         round1(total),
		RunningSeconds:       round1(in.TimeRunning),
		IdleSeconds:          round1(in.TimeIdle),
		PlannedDownSeconds:   round1(in.TimeDownPlanned),
		UnplannedDownSeconds: round1(in.TimeDownUnplanned),
	}
	if total > 0 {
		tu.PctRunning = round1(in.TimeRunning / total * 100)
		tu.PctIdle = round1(in.TimeIdle / total * 100)
		tu.PctPlannedDown = round1(in.TimeDownPlanned / total * 100)
		tu.PctUnplannedDown = round1(in.TimeDownUnplanned / total * 100)
	}
	rep.TimeUtilization = tu

	prod := Production{
		UnitsIn:      int(math.Round(in.CountInfeed)),
		UnitsOut:     int(math.Round(in.CountOutfeed)),
		Defects:      int(math.Round(in.CountDefect)),
		RateActual:   round1(in.RateActual),
		RateStandard: round1(in.RateStandard),
	}
	if runningHours := in.TimeRunning / 3600; runningHours > 0 {
		prod.ThroughputPerHour = round1(in.CountOutfeed / runningHours)
	}
	if in.RateStandard > 0 {
		prod.RateEfficiencyPct = f64(round1(in.RateActual / in.RateStandard * 100))
	}
	if in.CountInfeed > 0 {
		prod.YieldPct = f64(round2((in.CountOutfeed - in.CountDefect) / in.CountInfeed * 100))
	}
	rep.Production = prod

	wo := WorkOrder{
		Number:  in.WONumber,
		Product: in.WOProduct,
		UOM:     in.WOUOM,
		Actual:  roundedInt(in.WOActual),
		Target:  roundedInt(in.WOTarget),
		Defects: roundedInt(in.WODefect),
	}
	if in.WOTarget != nil && *in.WOTarget > 0 && in.WOActual != nil {
		wo.CompletionPct = f64(round1(*in.WOActual / *in.WOTarget * 100))
	}
	rep.WorkOrder = wo

	return rep
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func f64(v float64) *float64 { return &v }

func roundedInt(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}
