// Package shift resolves named shift windows to absolute time ranges.
//
// The plant runs two 12-hour shifts on UTC boundaries: day 06:00–18:00 and
// night 18:00–06:00 the next day. "current" is the in-progress shift up to
// now; "last" is the most recently completed one.
package shift

import (
	"fmt"
	"time"
)

// Shift boundary hours (UTC).
const (
	dayStartHour   = 6
	nightStartHour = 18
)

// Length of one shift.
const Duration = 12 * time.Hour

// Resolve maps a shift name (last, current, day, night) to its absolute
// (start, end) range relative to now.
func Resolve(name string, now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	today6am := time.Date(now.Year(), now.Month(), now.Day(), dayStartHour, 0, 0, 0, time.UTC)
	today6pm := time.Date(now.Year(), now.Month(), now.Day(), nightStartHour, 0, 0, 0, time.UTC)

	switch name {
	case "day":
		return today6am, today6pm, nil

	case "night":
		return today6pm, today6am.Add(24 * time.Hour), nil

	case "current":
		if now.Hour() >= dayStartHour && now.Hour() < nightStartHour {
			return today6am, now, nil
		}
		if now.Hour() >= nightStartHour {
			return today6pm, now, nil
		}
		// Before 06:00: still inside the night shift that started yesterday.
		return today6pm.Add(-24 * time.Hour), now, nil

	case "last":
		if now.Hour() >= dayStartHour && now.Hour() < nightStartHour {
			return today6pm.Add(-24 * time.Hour), today6am, nil
		}
		return today6am, today6pm, nil

	default:
		return time.Time{}, time.Time{}, fmt.Errorf("shift: unknown shift %q", name)
	}
}

// Label names the shift a window belongs to, judged by its start hour.
func Label(start time.Time) string {
	if start.UTC().Hour() == dayStartHour {
		return "day"
	}
	return "night"
}

// Recommend returns the 12-hour analysis window snapped to shift
// boundaries that contains the given instant (typically the latest
// available data point).
func Recommend(latest time.Time) (time.Time, time.Time) {
	latest = latest.UTC()

	var start time.Time
	switch {
	case latest.Hour() >= nightStartHour:
		start = time.Date(latest.Year(), latest.Month(), latest.Day(), nightStartHour, 0, 0, 0, time.UTC)
	case latest.Hour() >= dayStartHour:
		start = time.Date(latest.Year(), latest.Month(), latest.Day(), dayStartHour, 0, 0, 0, time.UTC)
	default:
		// Night shift that started the previous day.
		prev := latest.Add(-24 * time.Hour)
		start = time.Date(prev.Year(), prev.Month(), prev.Day(), nightStartHour, 0, 0, 0, time.UTC)
	}
	return start, start.Add(Duration)
}
