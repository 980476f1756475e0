package spc

import "fmt"

// Run lengths that trigger each pattern rule.
const (
	rule2RunLength   = 9
	rule3TrendLength = 6
	rule4AltLength   = 14
)

// Rule1 flags every point strictly beyond the control limits.
//
// The comparisons are strict: a degenerate series with UCL == LCL == mean
// produces no hits, because every point equals both limits exactly.
func Rule1(samples []Sample, ucl, lcl float64) []Violation {
	var out []Violation
	for _, s := range samples {
		if s.Value > ucl || s.Value < lcl {
			side := "below LCL"
			if s.Value > ucl {
				side = "above UCL"
			}
			out = append(out, Violation{
				Rule:        1,
				Description: fmt.Sprintf("Point beyond control limits (%s)", side),
				Timestamp:   s.Timestamp,
				Value:       round2(s.Value),
				Severity:    SeverityImmediateAction,
			})
		}
	}
	return out
}

// Rule2 flags 9 consecutive points on the same side of the center line.
//
// A point exactly on the center zeroes the run counter without flipping the
// tracked side, so the next off-center point is compared against the side
// recorded before the tie. After a hit the counter resets to 0, which
// suppresses an immediate re-trigger: a fresh run of 9 must accumulate
// before the next detection.
func Rule2(samples []Sample, center float64) []Violation {
	var out []Violation
	if len(samples) < rule2RunLength {
		return out
	}

	runCount := 1
	above := samples[0].Value > center

	for i := 1; i < len(samples); i++ {
		v := samples[i].Value
		if v == center {
			runCount = 0
			continue
		}
		if (v > center) == above {
			runCount++
		} else {
			runCount = 1
			above = v > center
		}

		if runCount >= rule2RunLength {
			side := "below"
			if above {
				side = "above"
			}
			out = append(out, Violation{
				Rule:        2,
				Description: fmt.Sprintf("9 consecutive points %s center line", side),
				Timestamp:   samples[i].Timestamp,
				Value:       round2(v),
				Severity:    SeverityTrendAlert,
			})
			runCount = 0
		}
	}
	return out
}

// Rule3 flags 6 consecutive points steadily increasing or decreasing.
// Equal neighbors break both directions. The triggered counter resets to 1,
// so an unbroken trend re-fires every further 5 steps.
func Rule3(samples []Sample) []Violation {
	var out []Violation
	if len(samples) < rule3TrendLength {
		return out
	}

	incCount := 1
	decCount := 1

	for i := 1; i < len(samples); i++ {
		switch {
		case samples[i].Value > samples[i-1].Value:
			incCount++
			decCount = 1
		case samples[i].Value < samples[i-1].Value:
			decCount++
			incCount = 1
		default:
			incCount = 1
			decCount = 1
		}

		if incCount >= rule3TrendLength {
			out = append(out, Violation{
				Rule:        3,
				Description: "6 consecutive points steadily increasing",
				Timestamp:   samples[i].Timestamp,
				Value:       round2(samples[i].Value),
				Severity:    SeverityTrendAlert,
			})
			incCount = 1
		} else if decCount >= rule3TrendLength {
			out = append(out, Violation{
				Rule:        3,
				Description: "6 consecutive points steadily decreasing",
				Timestamp:   samples[i].Timestamp,
				Value:       round2(samples[i].Value),
				Severity:    SeverityTrendAlert,
			})
			decCount = 1
		}
	}
	return out
}

// Rule4 flags 14 consecutive points alternating up and down. The run is
// tracked by comparing the sign of each step to the sign of the previous
// step; a zero step yields neither sign and breaks the run.
func Rule4(samples []Sample) []Violation {
	var out []Violation
	if len(samples) < rule4AltLength {
		return out
	}

	altCount := 1

	for i := 2; i < len(samples); i++ {
		prevDir := samples[i-1].Value - samples[i-2].Value
		currDir := samples[i].Value - samples[i-1].Value

		if (prevDir > 0 && currDir < 0) || (prevDir < 0 && currDir > 0) {
			altCount++
		} else {
			altCount = 1
		}

		if altCount >= rule4AltLength {
			out = append(out, Violation{
				Rule:        4,
				Description: "14 consecutive points alternating up and down",
				Timestamp:   samples[i].Timestamp,
				Value:       round2(samples[i].Value),
				Severity:    SeverityProcessAlert,
			})
			altCount = 1
		}
	}
	return out
}
