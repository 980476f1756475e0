package spc

// LimitSource records whether control limits came from the caller or were
// derived from the summary statistics.
type LimitSource string

const (
	SourceProvided   LimitSource = "provided"
	SourceCalculated LimitSource = "calculated"
)

// sigmaMultiplier is the classical 3-sigma width of calculated limits.
const sigmaMultiplier = 3

// Overrides carries the caller's optional explicit limits and target.
// UCL and LCL are only honored as a pair.
type Overrides struct {
	UCL    *float64
	LCL    *float64
	Target *float64
}

// Limits is the resolved control-limit set for one evaluation.
type Limits struct {
	UCL    float64
	LCL    float64
	Center float64
	Source LimitSource
}

// ResolveLimits derives the control limits and center line.
//
// The center tracks the explicit target when one is supplied, otherwise the
// mean. Calculated UCL/LCL stay anchored to the mean even when the target
// diverges from it; that asymmetry is intentional. Supplying only one of
// UCL/LCL silently falls back to fully calculated limits.
func ResolveLimits(sum Summary, ov Overrides) Limits {
	center := sum.Mean
	if ov.Target != nil {
		center = *ov.Target
	}

	if ov.UCL != nil && ov.LCL != nil {
		return Limits{UCL: *ov.UCL, LCL: *ov.LCL, Center: center, Source: SourceProvided}
	}
	return Limits{
		UCL:    sum.Mean + sigmaMultiplier*sum.StdDev,
		LCL:    sum.Mean - sigmaMultiplier*sum.StdDev,
		Center: center,
		Source: SourceCalculated,
	}
}
