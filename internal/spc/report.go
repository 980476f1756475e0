package spc

import "fmt"

// MinSamples is the minimum number of points required before the rule
// scanners run. Below it the report carries statistics and limits only.
const MinSamples = 20

// maxDetailPerRule caps the violation detail list per rule; the summary
// counts stay exact and uncapped.
const maxDetailPerRule = 3

// Statistics is the report view of a Summary, rounded for output.
type Statistics struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// ControlLimits is the report view of the resolved limits. Target carries
// the center line, matching the historical output field name.
type ControlLimits struct {
	UCL    float64     `json:"ucl"`
	LCL    float64     `json:"lcl"`
	Target float64     `json:"target"`
	Source LimitSource `json:"source"`
}

// Report is the complete evaluation result for one tag and period.
// Statistics and ControlLimits are nil when the input sequence was empty.
type Report struct {
	Tag              string         `json:"tag"`
	Period           Period         `json:"period"`
	Statistics       *Statistics    `json:"statistics"`
	ControlLimits    *ControlLimits `json:"control_limits"`
	Violations       []Violation    `json:"violations"`
	ViolationSummary map[string]int `json:"violation_summary"`
	ViolationCount   int            `json:"violation_count"`
	Status           string         `json:"status"`
	Message          string         `json:"message,omitempty"`
}

// Evaluate runs the full pipeline over one closed batch of samples:
// statistics, control limits, the four rule scanners in fixed order, and
// the bounded-output aggregation. It never fails; degenerate inputs are
// reported through Status/Message per the error taxonomy.
func Evaluate(tag string, period Period, samples []Sample, ov Overrides) *Report {
	rep := &Report{
		Tag:              tag,
		Period:           period,
		Violations:       []Violation{},
		ViolationSummary: map[string]int{},
		Status:           "ok",
	}

	if len(samples) == 0 {
		rep.Message = "No data points in the specified period"
		return rep
	}

	sum, _ := Summarize(values(samples))
	lim := ResolveLimits(sum, ov)

	rep.Statistics = &Statistics{
		Mean:   round2(sum.Mean),
		StdDev: round2(sum.StdDev),
		Min:    round2(sum.Min),
		Max:    round2(sum.Max),
		Count:  sum.Count,
	}
	rep.ControlLimits = &ControlLimits{
		UCL:    round2(lim.UCL),
		LCL:    round2(lim.LCL),
		Target: round2(lim.Center),
		Source: lim.Source,
	}

	if sum.Count < MinSamples {
		rep.Message = fmt.Sprintf(
			"Only %d data points — minimum %d required for Western Electric Rule evaluation. Statistics reported only.",
			sum.Count, MinSamples)
		return rep
	}

	// Rule checks use the unrounded limits; rounding is output-only.
	var all []Violation
	all = append(all, Rule1(samples, lim.UCL, lim.LCL)...)
	all = append(all, Rule2(samples, lim.Center)...)
	all = append(all, Rule3(samples)...)
	all = append(all, Rule4(samples)...)

	shown := map[int]int{}
	for _, v := range all {
		rep.ViolationSummary[fmt.Sprintf("rule_%d", v.Rule)]++
		if shown[v.Rule] < maxDetailPerRule {
			rep.Violations = append(rep.Violations, v)
			shown[v.Rule]++
		}
	}
	rep.ViolationCount = len(all)

	return rep
}
