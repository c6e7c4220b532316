// Package seed materializes concrete task instances from recurring
// templates for a week's worth of day keys. Seeding is idempotent:
// repeated runs against the same inputs never create a (template, day)
// pair twice, and a skip record suppresses a pair permanently.
package seed

import (
	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/model"
)

type slot struct {
	templateID string
	dayKey     calendar.DayKey
}

// Seed returns the task instances that are missing from the given week.
// For every day, every template whose schedule includes that weekday gets
// an instance unless a skip record or an already-materialized instance
// claims the (template, day) slot. Only the delta is returned; callers
// append it to their own state. Inputs are never mutated.
//
// Seed is called whenever the active week changes, a template is added,
// or the app resumes, so it must be safe to call redundantly at any
// time. That safety lives entirely in the two slot checks below, not in
// any caller-side deduplication.
func Seed(days []calendar.DayKey, templates []model.RecurringTemplate, existing []model.TaskInstance, skips []model.SkipRecord, challengeID string) []model.TaskInstance {
	skipped := make(map[slot]struct{}, len(skips))
	for _, s := range skips {
		skipped[slot{s.TemplateID, s.DayKey}] = struct{}{}
	}

	materialized := make(map[slot]struct{}, len(existing))
	for _, t := range existing {
		if t.TemplateID != nil {
			materialized[slot{*t.TemplateID, t.DayKey}] = struct{}{}
		}
	}

	var created []model.TaskInstance
	for _, day := range days {
		weekday := day.Weekday()
		for _, tmpl := range templates {
			if !tmpl.RepeatsOn(weekday) {
				continue
			}
			key := slot{tmpl.ID, day}
			if _, ok := skipped[key]; ok {
				continue
			}
			if _, ok := materialized[key]; ok {
				continue
			}

			templateID := tmpl.ID
			created = append(created, model.TaskInstance{
				ID:           uuid.NewString(),
				ChallengeID:  challengeID,
				DayKey:       day,
				Name:         tmpl.Name,
				TemplateID:   &templateID,
				OriginalName: tmpl.Name,
				Points:       model.PointMap{},
			})
			// Guard against duplicate templates in the input slice.
			materialized[key] = struct{}{}
		}
	}

	return created
}
