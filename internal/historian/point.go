package historian

import "github.com/tagspc/tagspc/internal/spc"

// Point is one historian reading. Value holds the raw JSON value: float64
// for numeric tags, string for state names and work-order fields, nil when
// the reading is missing (filtered out by the client before delivery).
type Point struct {
	Timestamp string `json:"t"`
	Value     any    `json:"v"`
}

// Float returns the point value as a number.
func (p Point) Float() (float64, bool) {
	v, ok := p.Value.(float64)
	return v, ok
}

// Text returns the point value as a string.
func (p Point) Text() (string, bool) {
	v, ok := p.Value.(string)
	return v, ok
}

// Numeric converts numeric points to SPC samples, preserving order.
// Non-numeric points are skipped.
func Numeric(points []Point) []spc.Sample {
	out := make([]spc.Sample, 0, len(points))
	for _, p := range points {
		if v, ok := p.Float(); ok {
			out = append(out, spc.Sample{Timestamp: p.Timestamp, Value: v})
		}
	}
	return out
}

// Latest returns the most recent point.
func Latest(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}

// LatestFloat returns the most recent numeric value.
func LatestFloat(points []Point) (float64, bool) {
	p, ok := Latest(points)
	if !ok {
		return 0, false
	}
	return p.Float()
}

// Delta returns the change of a cumulative counter over the series
// (last minus first). A single point yields 0; the second return is
// false when there are no points at all.
func Delta(points []Point) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	if len(points) == 1 {
		return 0, true
	}
	first, ok1 := points[0].Float()
	last, ok2 := points[len(points)-1].Float()
	if !ok1 || !ok2 {
		return 0, false
	}
	return last - first, true
}
