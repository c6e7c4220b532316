package model

import "time"

// RecurringTemplate is a chore definition with a weekly repeat pattern.
// RepeatDays holds weekday indices 0-6 (0 = Sunday); empty means the
// template does not repeat yet. Templates are edited in place and never
// deleted destructively — removing one leaves historical instances alone.
type RecurringTemplate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RepeatDays []int     `json:"repeat_days"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RepeatsOn reports whether the template calls for an occurrence on the
// given weekday index.
func (t RecurringTemplate) RepeatsOn(weekday int) bool {
	for _, d := range t.RepeatDays {
		if d == weekday {
			return true
		}
	}
	return false
}
