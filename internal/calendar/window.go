package calendar

import (
	"fmt"
	"time"
)

// Window is the 7-day challenge span [Start, End] that contains today.
type Window struct {
	Start DayKey
	End   DayKey
	Days  []DayKey
}

// Contains reports whether k falls inside the window.
func (w Window) Contains(k DayKey) bool {
	return k >= w.Start && k <= w.End
}

// WeekWindow returns the unique 7-day span containing today (in the given
// zone) that begins on weekStartDay (0 = Sunday .. 6 = Saturday).
func WeekWindow(timezone string, weekStartDay int) (Window, error) {
	return WeekWindowAt(time.Now(), timezone, weekStartDay)
}

// WeekWindowAt is WeekWindow evaluated at an explicit instant.
// Algorithm: walk backward from today one day at a time until the weekday
// matches weekStartDay; if today already matches, zero days are walked.
func WeekWindowAt(now time.Time, timezone string, weekStartDay int) (Window, error) {
	if weekStartDay < 0 || weekStartDay > 6 {
		return Window{}, fmt.Errorf("invalid week start day %d: must be 0-6", weekStartDay)
	}

	today, err := TodayKeyAt(now, timezone)
	if err != nil {
		return Window{}, err
	}

	start := today
	for start.Weekday() != weekStartDay {
		start = start.AddDays(-1)
	}

	days := make([]DayKey, 7)
	for i := range days {
		days[i] = start.AddDays(i)
	}

	return Window{Start: start, End: days[6], Days: days}, nil
}
