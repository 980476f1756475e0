// Package datarange discovers what time range a site actually has data
// for, by probing the first filling line's OEE metric over the last 30
// days, and recommends a shift-aligned analysis window around the most
// recent data.
package datarange

import (
	"context"
	"fmt"
	"time"

	"github.com/tagspc/tagspc/internal/config"
	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/shift"
)

// probeWindow is how far back the discovery looks.
const probeWindow = 30 * 24 * time.Hour

// Querier is the slice of the historian client this package needs.
type Querier interface {
	Query(ctx context.Context, tags []string, start, end string) (map[string][]historian.Point, error)
}

// Report describes the available data range for a site.
type Report struct {
	Site              string `json:"site"`
	Earliest          string `json:"earliest,omitempty"`
	Latest            string `json:"latest,omitempty"`
	RecommendedStart  string `json:"recommended_start,omitempty"`
	RecommendedEnd    string `json:"recommended_end,omitempty"`
	DataPointsSampled int    `json:"data_points_sampled,omitempty"`
	TagProbed         string `json:"tag_probed"`
	Status            string `json:"status"`
	Message           string `json:"message,omitempty"`
}

// Discover probes the site's primary OEE tag and reports the earliest and
// latest points found plus a recommended 12-hour window snapped to shift
// boundaries. A site with no data in the probe window yields status
// "no_data" rather than an error.
func Discover(ctx context.Context, q Querier, site string, layout config.Site, now time.Time) (*Report, error) {
	probeTag := fmt.Sprintf("%s/fillerproduction/%s/metric/oee", site, layout.FillingLines[0])

	start := now.UTC().Add(-probeWindow).Format(time.RFC3339)
	end := now.UTC().Format(time.RFC3339)

	data, err := q.Query(ctx, []string{probeTag}, start, end)
	if err != nil {
		return nil, err
	}
	points := data[probeTag]

	if len(points) == 0 {
		return &Report{
			Site:      site,
			TagProbed: probeTag,
			Status:    "no_data",
			Message:   fmt.Sprintf("No data found for %s in the last 30 days", probeTag),
		}, nil
	}

	rep := &Report{
		Site:              site,
		Earliest:          points[0].Timestamp,
		Latest:            points[len(points)-1].Timestamp,
		DataPointsSampled: len(points),
		TagProbed:         probeTag,
		Status:            "ok",
	}

	latest, err := time.Parse(time.RFC3339, rep.Latest)
	if err != nil {
		return nil, fmt.Errorf("datarange: parse latest timestamp %q: %w", rep.Latest, err)
	}
	recStart, recEnd := shift.Recommend(latest)
	rep.RecommendedStart = recStart.Format(time.RFC3339)
	rep.RecommendedEnd = recEnd.Format(time.RFC3339)

	return rep, nil
}
