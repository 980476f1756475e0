package oee

import (
	"context"
	"fmt"

	"github.com/tagspc/tagspc/internal/historian"
)

// Tag path suffixes under a filling line.
const (
	tagTimeRunning       = "/metric/input/timerunning"
	tagTimeIdle          = "/metric/input/timeidle"
	tagTimeDownPlanned   = "/metric/input/timedownplanned"
	tagTimeDownUnplanned = "/metric/input/timedownunplanned"

	tagCountInfeed  = "/metric/input/countinfeed"
	tagCountOutfeed = "/metric/input/countoutfeed"
	tagCountDefect  = "/metric/input/countdefect"

	tagRateActual   = "/metric/input/rateactual"
	tagRateStandard = "/metric/input/ratestandard"

	tagWONumber  = "/workorder/workordernumber"
	tagWOProduct = "/workorder/lotnumber/item/itemname"
	tagWOActual  = "/workorder/quantityactual"
	tagWOTarget  = "/workorder/quantitytarget"
	tagWODefect  = "/workorder/quantitydefect"
	tagWOUOM     = "/workorder/uom"
)

// Querier is the slice of the historian client the analyzer needs.
type Querier interface {
	Query(ctx context.Context, tags []string, start, end string) (map[string][]historian.Point, error)
}

// Analyzer runs the production analysis for filling lines.
type Analyzer struct {
	q Querier
}

// NewAnalyzer returns an Analyzer reading from q.
func NewAnalyzer(q Querier) *Analyzer {
	return &Analyzer{q: q}
}

// Analyze queries all line counters over [start, end] and derives the
// production report. It fails when the line has no running-time data in
// the window, since every derived metric depends on it.
func (a *Analyzer) Analyze(ctx context.Context, line, start, end, shiftLabel string) (*Report, error) {
	suffixes := []string{
		tagTimeRunning, tagTimeIdle, tagTimeDownPlanned, tagTimeDownUnplanned,
		tagCountInfeed, tagCountOutfeed, tagCountDefect,
		tagRateActual, tagRateStandard,
		tagWONumber, tagWOProduct, tagWOActual, tagWOTarget, tagWODefect, tagWOUOM,
	}
	tags := make([]string, len(suffixes))
	for i, s := range suffixes {
		tags[i] = line + s
	}

	data, err := a.q.Query(ctx, tags, start, end)
	if err != nil {
		return nil, err
	}

	running, ok := historian.Delta(data[line+tagTimeRunning])
	if !ok {
		return nil, fmt.Errorf("oee: no time data for %s", line)
	}

	in := Inputs{
		Line:        line,
		Start:       start,
		End:         end,
		ShiftLabel:  shiftLabel,
		TimeRunning: running,
	}
	// Missing secondary counters default to 0.
	in.TimeIdle, _ = historian.Delta(data[line+tagTimeIdle])
	in.TimeDownPlanned, _ = historian.Delta(data[line+tagTimeDownPlanned])
	in.TimeDownUnplanned, _ = historian.Delta(data[line+tagTimeDownUnplanned])

	in.CountInfeed, _ = historian.Delta(data[line+tagCountInfeed])
	in.CountOutfeed, _ = historian.Delta(data[line+tagCountOutfeed])
	in.CountDefect, _ = historian.Delta(data[line+tagCountDefect])

	in.RateActual, _ = historian.LatestFloat(data[line+tagRateActual])
	in.RateStandard, _ = historian.LatestFloat(data[line+tagRateStandard])

	if p, ok := historian.Latest(data[line+tagWONumber]); ok {
		in.WONumber = p.Value
	}
	if p, ok := historian.Latest(data[line+tagWOProduct]); ok {
		in.WOProduct = p.Value
	}
	if p, ok := historian.Latest(data[line+tagWOUOM]); ok {
		in.WOUOM = p.Value
	}
	if v, ok := historian.LatestFloat(data[line+tagWOActual]); ok {
		in.WOActual = f64(v)
	}
	if v, ok := historian.LatestFloat(data[line+tagWOTarget]); ok {
		in.WOTarget = f64(v)
	}
	if v, ok := historian.LatestFloat(data[line+tagWODefect]); ok {
		in.WODefect = f64(v)
	}

	return Compute(in), nil
}
