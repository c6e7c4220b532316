package calendar

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey is a calendar date with no time-of-day or zone component,
// canonical form YYYY-MM-DD. Lexical ordering of DayKeys matches
// chronological ordering, so keys compare with plain < and >.
type DayKey string

// ParseDayKey validates s and returns it as a DayKey. The format must be
// exactly YYYY-MM-DD with in-range components.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	// time.Parse normalizes out-of-range components (e.g. 2026-02-30
	// becomes 2026-03-02); reject anything that round-trips differently.
	if t.Format(dayKeyLayout) != s {
		return "", fmt.Errorf("invalid day key %q: out-of-range component", s)
	}
	return DayKey(s), nil
}

// Weekday returns the weekday index of the key (0 = Sunday .. 6 = Saturday).
// No timezone is involved; a DayKey has none. Returns -1 for a malformed key,
// which matches no repeat schedule.
func (k DayKey) Weekday() int {
	t, err := time.Parse(dayKeyLayout, string(k))
	if err != nil {
		return -1
	}
	return int(t.Weekday())
}

// AddDays returns the key n calendar days after k (n may be negative).
func (k DayKey) AddDays(n int) DayKey {
	t, err := time.Parse(dayKeyLayout, string(k))
	if err != nil {
		return k
	}
	return DayKey(t.AddDate(0, 0, n).Format(dayKeyLayout))
}

// TodayKey resolves the current instant to a DayKey in the given IANA zone.
// Two households in different zones can legitimately disagree about "today",
// so this must never be derived from UTC directly.
func TodayKey(timezone string) (DayKey, error) {
	return TodayKeyAt(time.Now(), timezone)
}

// TodayKeyAt is TodayKey evaluated at an explicit instant.
func TodayKeyAt(now time.Time, timezone string) (DayKey, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return DayKey(now.In(loc).Format(dayKeyLayout)), nil
}
