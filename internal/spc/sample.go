package spc

import "math"

// Sample is one timestamped measurement in the evaluated series.
// The timestamp is an opaque ordering token (ISO 8601 in practice) and is
// never parsed here; the input sequence is assumed already ascending.
type Sample struct {
	Timestamp string
	Value     float64
}

// Severity classifies how urgently a violation should be acted on.
type Severity string

const (
	SeverityImmediateAction Severity = "immediate_action"
	SeverityTrendAlert      Severity = "trend_alert"
	SeverityProcessAlert    Severity = "process_alert"
)

// Violation is a single rule hit at one point in the series.
type Violation struct {
	Rule        int      `json:"rule"`
	Description string   `json:"description"`
	Timestamp   string   `json:"timestamp"`
	Value       float64  `json:"value"`
	Severity    Severity `json:"severity"`
}

// Period is the analyzed time range, echoed back unmodified in the report.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// round2 rounds to two decimals for report output. Internal calculations
// always use unrounded values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// values extracts the measurement column from a sample sequence.
func values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
