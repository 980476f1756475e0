// Package states snapshots the current equipment states and line-level
// OEE metrics for one site.
//
// Equipment layout (which lines and vats a site has) comes from the
// configuration maps, not from anything baked in here; the tag paths
// follow the plant's ISA-95 hierarchy.
package states

import (
	"context"
	"fmt"
	"math"

	"github.com/tagspc/tagspc/internal/config"
	"github.com/tagspc/tagspc/internal/historian"
)

// Equipment units present on every filling line.
var equipmentTypes = []string{"washer", "filler", "caploader"}

// Pre-calculated line metrics exposed by the historian as 0..1 fractions.
var oeeMetrics = []string{"oee", "availability", "performance", "quality"}

// Querier is the slice of the historian client this package needs.
type Querier interface {
	Query(ctx context.Context, tags []string, start, end string) (map[string][]historian.Point, error)
}

// LineStatus is the state and metric snapshot for one filling line.
type LineStatus struct {
	// EquipmentStates maps equipment type to its latest state name,
	// nil when the tag had no data in the window.
	EquipmentStates map[string]any `json:"equipment_states"`

	// OEEMetrics maps metric name to its latest value as a percentage.
	OEEMetrics map[string]any `json:"oee_metrics"`
}

// VatStatus is the state snapshot for one vat.
type VatStatus struct {
	State any `json:"state"`
}

// Period is the queried window, echoed back unmodified.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Report is the full site snapshot.
type Report struct {
	Site         string                `json:"site"`
	Period       Period                `json:"period"`
	FillingLines map[string]LineStatus `json:"filling_lines"`
	Vats         map[string]VatStatus  `json:"vats"`
	Status       string                `json:"status"`
}

// Snapshot queries the latest state and metric values for every piece of
// equipment the site layout declares. Tags with no data in the window
// appear with nil values rather than failing the whole snapshot.
func Snapshot(ctx context.Context, q Querier, site string, layout config.Site, start, end string) (*Report, error) {
	var tags []string
	for _, line := range layout.FillingLines {
		for _, equip := range equipmentTypes {
			tags = append(tags, stateTag(site, line, equip))
		}
		for _, metric := range oeeMetrics {
			tags = append(tags, metricTag(site, line, metric))
		}
	}
	for _, vat := range layout.Vats {
		tags = append(tags, vatTag(site, vat))
	}

	data, err := q.Query(ctx, tags, start, end)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Site:         site,
		Period:       Period{Start: start, End: end},
		FillingLines: make(map[string]LineStatus, len(layout.FillingLines)),
		Vats:         make(map[string]VatStatus, len(layout.Vats)),
		Status:       "ok",
	}

	for _, line := range layout.FillingLines {
		ls := LineStatus{
			EquipmentStates: make(map[string]any, len(equipmentTypes)),
			OEEMetrics:      make(map[string]any, len(oeeMetrics)),
		}
		for _, equip := range equipmentTypes {
			ls.EquipmentStates[equip] = latestValue(data[stateTag(site, line, equip)])
		}
		for _, metric := range oeeMetrics {
			v := latestValue(data[metricTag(site, line, metric)])
			// Historian stores line metrics as 0..1 fractions.
			if f, ok := v.(float64); ok {
				v = math.Round(f*100*10) / 10
			}
			ls.OEEMetrics[metric] = v
		}
		rep.FillingLines[line] = ls
	}

	for _, vat := range layout.Vats {
		rep.Vats[vat] = VatStatus{State: latestValue(data[vatTag(site, vat)])}
	}

	return rep, nil
}

func stateTag(site, line, equip string) string {
	return fmt.Sprintf("%s/fillerproduction/%s/%s/processdata/state/name", site, line, equip)
}

func metricTag(site, line, metric string) string {
	return fmt.Sprintf("%s/fillerproduction/%s/metric/%s", site, line, metric)
}

func vatTag(site, vat string) string {
	return fmt.Sprintf("%s/liquidprocessing/mixroom01/%s/processdata/state/name", site, vat)
}

func latestValue(points []historian.Point) any {
	p, ok := historian.Latest(points)
	if !ok {
		return nil
	}
	return p.Value
}
