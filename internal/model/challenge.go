package model

import (
	"time"

	"github.com/mlynch/tidyduel/internal/calendar"
)

// Challenge is one weekly competition between the household's two
// competitors. Exactly one non-completed challenge exists at a time;
// once IsCompleted is set its task set is frozen.
type Challenge struct {
	ID          string          `json:"id"`
	StartDay    calendar.DayKey `json:"start_day"`
	EndDay      calendar.DayKey `json:"end_day"`
	Prize       string          `json:"prize"`
	WinnerID    *string         `json:"winner_id"`
	IsTie       bool            `json:"is_tie"`
	IsCompleted bool            `json:"is_completed"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
