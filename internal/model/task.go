package model

import (
	"time"

	"github.com/mlynch/tidyduel/internal/calendar"
)

// PointMap maps a competitor id to the points recorded for them on one
// task. Absent entries read as 0 by contract; per-task values are
// clamped to [0,3] at the write boundary, not here.
type PointMap map[string]int

// Get returns the points for a competitor, defaulting absent keys to 0.
func (p PointMap) Get(competitorID string) int {
	return p[competitorID]
}

// IsZero reports whether every recorded entry is zero, i.e. the task is
// an untouched placeholder.
func (p PointMap) IsZero() bool {
	for _, v := range p {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the map.
func (p PointMap) Clone() PointMap {
	c := make(PointMap, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// TaskInstance is one concrete, dated chore occurrence, optionally
// linked to the template that seeded it. OriginalName records the
// template's name at link time so drift can be detected later.
type TaskInstance struct {
	ID           string          `json:"id"`
	ChallengeID  string          `json:"challenge_id"`
	DayKey       calendar.DayKey `json:"day_key"`
	Name         string          `json:"name"`
	TemplateID   *string         `json:"template_id"`
	OriginalName string          `json:"original_name"`
	Points       PointMap        `json:"points"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Linked reports whether the task came from a recurring template.
// TemplateID == nil means a one-off that was never seeded.
func (t TaskInstance) Linked() bool {
	return t.TemplateID != nil
}

// Scored reports whether any competitor has nonzero points on the task.
// Scored tasks are historical results and are immutable under bulk edits.
func (t TaskInstance) Scored() bool {
	return !t.Points.IsZero()
}
