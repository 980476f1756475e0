package shift

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestResolve_FixedShifts(t *testing.T) {
	now := at(10, 30)

	start, end, err := Resolve("day", now)
	if err != nil {
		t.Fatal(err)
	}
	if start != at(6, 0) || end != at(18, 0) {
		t.Errorf("day = %v..%v", start, end)
	}

	start, end, err = Resolve("night", now)
	if err != nil {
		t.Fatal(err)
	}
	if start != at(18, 0) || end != at(6, 0).Add(24*time.Hour) {
		t.Errorf("night = %v..%v", start, end)
	}
}

func TestResolve_Current(t *testing.T) {
	// Mid-day: current day shift up to now.
	start, end, _ := Resolve("current", at(14, 0))
	if start != at(6, 0) || end != at(14, 0) {
		t.Errorf("current@14:00 = %v..%v", start, end)
	}

	// Evening: current night shift.
	start, _, _ = Resolve("current", at(22, 0))
	if start != at(18, 0) {
		t.Errorf("current@22:00 start = %v", start)
	}

	// Early morning: the night shift that started yesterday.
	start, _, _ = Resolve("current", at(3, 0))
	if start != at(18, 0).Add(-24*time.Hour) {
		t.Errorf("current@03:00 start = %v", start)
	}
}

func TestResolve_Last(t *testing.T) {
	// Mid-day: last completed shift is last night's.
	start, end, _ := Resolve("last", at(14, 0))
	if start != at(18, 0).Add(-24*time.Hour) || end != at(6, 0) {
		t.Errorf("last@14:00 = %v..%v", start, end)
	}

	// Evening: last completed shift is today's day shift.
	start, end, _ = Resolve("last", at(22, 0))
	if start != at(6, 0) || end != at(18, 0) {
		t.Errorf("last@22:00 = %v..%v", start, end)
	}
}

func TestResolve_Unknown(t *testing.T) {
	if _, _, err := Resolve("swing", at(12, 0)); err == nil {
		t.Error("expected error for unknown shift name")
	}
}

func TestLabel(t *testing.T) {
	if Label(at(6, 0)) != "day" {
		t.Error("06:00 start should label day")
	}
	if Label(at(18, 0)) != "night" {
		t.Error("18:00 start should label night")
	}
}

func TestRecommend_SnapsToShift(t *testing.T) {
	// Latest data at 14:23 → day shift window 06:00–18:00.
	start, end := Recommend(at(14, 23))
	if start != at(6, 0) || end != at(18, 0) {
		t.Errorf("recommend@14:23 = %v..%v", start, end)
	}

	// Latest at 02:00 → night shift that began yesterday 18:00.
	start, end = Recommend(at(2, 0))
	if start != at(18, 0).Add(-24*time.Hour) || end != at(6, 0) {
		t.Errorf("recommend@02:00 = %v..%v", start, end)
	}

	// Latest at 19:00 → tonight's shift.
	start, _ = Recommend(at(19, 0))
	if start != at(18, 0) {
		t.Errorf("recommend@19:00 start = %v", start)
	}
}
