package calendar

import (
	"testing"
	"time"
)

func TestParseDayKey(t *testing.T) {
	k, err := ParseDayKey("2026-02-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if k != "2026-02-05" {
		t.Errorf("key = %q, want %q", k, "2026-02-05")
	}
}

func TestParseDayKeyRejectsMalformed(t *testing.T) {
	bad := []string{"", "2026-2-5", "02-05-2026", "2026/02/05", "2026-02-30", "2026-13-01", "2026-02-05T00:00:00Z"}
	for _, s := range bad {
		if _, err := ParseDayKey(s); err == nil {
			t.Errorf("ParseDayKey(%q) succeeded, want error", s)
		}
	}
}

func TestWeekday(t *testing.T) {
	// 2026-02-01 is a Sunday.
	cases := map[DayKey]int{
		"2026-02-01": 0,
		"2026-02-02": 1,
		"2026-02-05": 4,
		"2026-02-07": 6,
	}
	for key, want := range cases {
		if got := key.Weekday(); got != want {
			t.Errorf("%s.Weekday() = %d, want %d", key, got, want)
		}
	}
}

func TestAddDays(t *testing.T) {
	k := DayKey("2026-02-05")
	if got := k.AddDays(3); got != "2026-02-08" {
		t.Errorf("AddDays(3) = %q, want %q", got, "2026-02-08")
	}
	if got := k.AddDays(-5); got != "2026-01-31" {
		t.Errorf("AddDays(-5) = %q, want %q", got, "2026-01-31")
	}
}

func TestDayKeyOrderingIsChronological(t *testing.T) {
	if !(DayKey("2026-01-31") < DayKey("2026-02-01")) {
		t.Error("expected 2026-01-31 < 2026-02-01")
	}
	if !(DayKey("2025-12-31") < DayKey("2026-01-01")) {
		t.Error("expected 2025-12-31 < 2026-01-01")
	}
}

func TestTodayKeyDependsOnZone(t *testing.T) {
	// 03:00 UTC on Feb 6 is still Feb 5 in New York but already Feb 6 in Tokyo.
	now := time.Date(2026, 2, 6, 3, 0, 0, 0, time.UTC)

	ny, err := TodayKeyAt(now, "America/New_York")
	if err != nil {
		t.Fatalf("new york: %v", err)
	}
	if ny != "2026-02-05" {
		t.Errorf("new york today = %q, want %q", ny, "2026-02-05")
	}

	tokyo, err := TodayKeyAt(now, "Asia/Tokyo")
	if err != nil {
		t.Fatalf("tokyo: %v", err)
	}
	if tokyo != "2026-02-06" {
		t.Errorf("tokyo today = %q, want %q", tokyo, "2026-02-06")
	}
}

func TestTodayKeyUnknownZone(t *testing.T) {
	if _, err := TodayKeyAt(time.Now(), "Mars/Olympus_Mons"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestWeekWindowMondayStart(t *testing.T) {
	// Thursday 2026-02-05, noon in New York.
	now := time.Date(2026, 2, 5, 17, 0, 0, 0, time.UTC)

	w, err := WeekWindowAt(now, "America/New_York", 1)
	if err != nil {
		t.Fatalf("week window: %v", err)
	}
	if w.Start != "2026-02-02" {
		t.Errorf("start = %q, want %q", w.Start, "2026-02-02")
	}
	if w.End != "2026-02-08" {
		t.Errorf("end = %q, want %q", w.End, "2026-02-08")
	}
	if len(w.Days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(w.Days))
	}
	for i, day := range w.Days {
		if want := w.Start.AddDays(i); day != want {
			t.Errorf("days[%d] = %q, want %q", i, day, want)
		}
	}
	if w.Days[0].Weekday() != 1 {
		t.Errorf("first day weekday = %d, want 1", w.Days[0].Weekday())
	}
}

func TestWeekWindowTodayIsStartDay(t *testing.T) {
	// Sunday 2026-02-01 with a Sunday week start: zero days walked back.
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	w, err := WeekWindowAt(now, "UTC", 0)
	if err != nil {
		t.Fatalf("week window: %v", err)
	}
	if w.Start != "2026-02-01" {
		t.Errorf("start = %q, want %q", w.Start, "2026-02-01")
	}
	if w.End != "2026-02-07" {
		t.Errorf("end = %q, want %q", w.End, "2026-02-07")
	}
}

func TestWeekWindowEveryStartDay(t *testing.T) {
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	for startDay := 0; startDay <= 6; startDay++ {
		w, err := WeekWindowAt(now, "UTC", startDay)
		if err != nil {
			t.Fatalf("week window (start %d): %v", startDay, err)
		}
		if got := w.Start.Weekday(); got != startDay {
			t.Errorf("start weekday = %d, want %d", got, startDay)
		}
		if !w.Contains("2026-02-05") {
			t.Errorf("window [%s, %s] does not contain today", w.Start, w.End)
		}
		if w.End != w.Start.AddDays(6) {
			t.Errorf("end = %q, want start+6 = %q", w.End, w.Start.AddDays(6))
		}
	}
}

func TestWeekWindowInvalidStartDay(t *testing.T) {
	if _, err := WeekWindowAt(time.Now(), "UTC", 7); err == nil {
		t.Error("expected error for week start day 7")
	}
	if _, err := WeekWindowAt(time.Now(), "UTC", -1); err == nil {
		t.Error("expected error for week start day -1")
	}
}
