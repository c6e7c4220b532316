package model

import (
	"time"

	"github.com/mlynch/tidyduel/internal/calendar"
)

// SkipRecord is a durable marker keyed by (template, day): do not
// materialize an instance for that template on that day even though its
// repeat schedule calls for one. Created when a seeded instance is
// deleted or detached; never expired.
type SkipRecord struct {
	TemplateID string          `json:"template_id"`
	DayKey     calendar.DayKey `json:"day_key"`
	CreatedAt  time.Time       `json:"created_at"`
}
