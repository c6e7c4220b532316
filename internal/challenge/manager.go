// Package challenge owns the lifecycle of the weekly competition: it
// computes the active window, rolls completed weeks over, drives the
// seeding and edit engines, and persists their deltas. The engines stay
// pure; everything stateful lives here.
package challenge

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/edit"
	"github.com/mlynch/tidyduel/internal/model"
	"github.com/mlynch/tidyduel/internal/score"
	"github.com/mlynch/tidyduel/internal/seed"
	"github.com/mlynch/tidyduel/internal/store"
	ws "github.com/mlynch/tidyduel/internal/websocket"
)

// Points per task are capped at 3; the cap is enforced here, at the
// write boundary, so the scoring side can trust stored values.
const MaxTaskPoints = 3

type Manager struct {
	settings    *store.SettingsStore
	competitors *store.CompetitorStore
	templates   *store.TemplateStore
	tasks       *store.TaskStore
	skips       *store.SkipStore
	challenges  *store.ChallengeStore
	hub         *ws.Hub
	logger      *slog.Logger
	now         func() time.Time
}

func NewManager(
	settings *store.SettingsStore,
	competitors *store.CompetitorStore,
	templates *store.TemplateStore,
	tasks *store.TaskStore,
	skips *store.SkipStore,
	challenges *store.ChallengeStore,
	hub *ws.Hub,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		settings:    settings,
		competitors: competitors,
		templates:   templates,
		tasks:       tasks,
		skips:       skips,
		challenges:  challenges,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

func (m *Manager) broadcast(msg ws.Message) {
	if m.hub != nil {
		m.hub.Broadcast(msg)
	}
}

func (m *Manager) window() (calendar.Window, error) {
	timezone, weekStartDay, err := m.settings.HouseholdConfig()
	if err != nil {
		return calendar.Window{}, err
	}
	return calendar.WeekWindowAt(m.now(), timezone, weekStartDay)
}

// Current returns the open challenge for the active week, creating it
// (and finalizing the previous week) when the window has moved on. The
// week is reseeded on every call; seeding is idempotent so redundant
// calls are harmless.
func (m *Manager) Current() (*model.Challenge, error) {
	w, err := m.window()
	if err != nil {
		return nil, err
	}

	cur, err := m.challenges.Current()
	if err != nil {
		return nil, err
	}

	if cur != nil && cur.StartDay != w.Start {
		if err := m.finalize(cur); err != nil {
			return nil, err
		}
		cur = nil
	}

	if cur == nil {
		prize, err := m.settings.Get(store.KeyPrize)
		if err != nil {
			return nil, err
		}
		cur, err = m.challenges.Create(w.Start, w.End, prize)
		if err != nil {
			return nil, err
		}
		m.logger.Info("challenge started", "challenge_id", cur.ID, "start", cur.StartDay, "end", cur.EndDay)
		m.broadcast(ws.NewMessage("challenge", "created", cur.ID, nil))
	}

	if _, err := m.seedWeek(cur, w); err != nil {
		return nil, err
	}

	return cur, nil
}

// finalize freezes an elapsed challenge: totals are compared, the
// winner (or tie) is recorded, and no seeding or edits ever run against
// it again.
func (m *Manager) finalize(ch *model.Challenge) error {
	totals, err := m.totalsFor(ch)
	if err != nil {
		return err
	}

	winnerID, isTie := decideOutcome(totals)
	if _, err := m.challenges.Complete(ch.ID, winnerID, isTie); err != nil {
		return err
	}

	m.logger.Info("challenge completed", "challenge_id", ch.ID, "tie", isTie)
	m.broadcast(ws.NewMessage("challenge", "completed", ch.ID, nil))
	return nil
}

// decideOutcome compares totals: the highest total wins, equal highs
// tie. An empty household ties trivially.
func decideOutcome(totals map[string]int) (winnerID *string, isTie bool) {
	best := -1
	var bestID string
	ties := 0
	for id, total := range totals {
		switch {
		case total > best:
			best, bestID, ties = total, id, 1
		case total == best:
			ties++
		}
	}
	if ties != 1 {
		return nil, true
	}
	return &bestID, false
}

// seedWeek materializes missing task instances for the window and
// persists only the delta. Dedup runs over every instance dated inside
// the window, not just the current challenge's: a week-start or
// timezone change can shift the window over days a finalized challenge
// already materialized, and reseeding those slots would violate the
// one-instance-per-(template, day) guarantee.
func (m *Manager) seedWeek(ch *model.Challenge, w calendar.Window) ([]model.TaskInstance, error) {
	templates, err := m.templates.List()
	if err != nil {
		return nil, err
	}
	existing, err := m.tasks.ListByDayRange(w.Start, w.End)
	if err != nil {
		return nil, err
	}
	skips, err := m.skips.List()
	if err != nil {
		return nil, err
	}

	created := seed.Seed(w.Days, templates, existing, skips, ch.ID)
	for _, task := range created {
		if _, err := m.tasks.Create(task); err != nil {
			return nil, fmt.Errorf("persist seeded task: %w", err)
		}
	}

	if len(created) > 0 {
		m.logger.Info("seeded week", "challenge_id", ch.ID, "created", len(created))
		m.broadcast(ws.NewMessage("task", "seeded", ch.ID, map[string]any{"count": len(created)}))
	}
	return created, nil
}

// Tasks returns the current week's task instances, seeding first.
func (m *Manager) Tasks() ([]model.TaskInstance, error) {
	ch, err := m.Current()
	if err != nil {
		return nil, err
	}
	return m.tasks.ListByChallenge(ch.ID)
}

// Totals returns the current challenge's per-competitor point totals.
func (m *Manager) Totals() (map[string]int, error) {
	ch, err := m.Current()
	if err != nil {
		return nil, err
	}
	return m.totalsFor(ch)
}

// TotalsFor aggregates a specific (possibly completed) challenge, for
// the history view.
func (m *Manager) TotalsFor(ch *model.Challenge) (map[string]int, error) {
	return m.totalsFor(ch)
}

func (m *Manager) totalsFor(ch *model.Challenge) (map[string]int, error) {
	instances, err := m.tasks.ListByChallenge(ch.ID)
	if err != nil {
		return nil, err
	}
	ids, err := m.competitors.IDs()
	if err != nil {
		return nil, err
	}
	return score.Totals(instances, ids), nil
}

// CreateOneOff adds a user-created task that was never seeded.
func (m *Manager) CreateOneOff(dayKey calendar.DayKey, name string) (*model.TaskInstance, error) {
	ch, err := m.Current()
	if err != nil {
		return nil, err
	}

	task, err := m.tasks.Create(model.TaskInstance{
		ID:          uuid.NewString(),
		ChallengeID: ch.ID,
		DayKey:      dayKey,
		Name:        name,
		Points:      model.PointMap{},
	})
	if err != nil {
		return nil, err
	}

	m.broadcast(ws.NewMessage("task", "created", task.ID, nil))
	return task, nil
}

// SetTaskPoints records a point value for one competitor on one task,
// clamped to [0, MaxTaskPoints]. A stale task id is a silent no-op.
func (m *Manager) SetTaskPoints(taskID, competitorID string, points int) error {
	if points < 0 {
		points = 0
	}
	if points > MaxTaskPoints {
		points = MaxTaskPoints
	}

	ch, err := m.Current()
	if err != nil {
		return err
	}
	tasks, err := m.tasks.ListByChallenge(ch.ID)
	if err != nil {
		return err
	}

	res := edit.SetPoints(tasks, taskID, competitorID, points)
	if res.Empty() {
		m.logger.Debug("points edit on missing task", "task_id", taskID)
		return nil
	}

	if err := m.tasks.SetPoints(taskID, competitorID, points); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("task", "scored", taskID, nil))
	return nil
}

// RenameTask applies a scoped rename through the edit engine.
func (m *Manager) RenameTask(taskID, newName string, scope edit.Scope) error {
	ch, err := m.Current()
	if err != nil {
		return err
	}
	tasks, err := m.tasks.ListByChallenge(ch.ID)
	if err != nil {
		return err
	}
	templates, err := m.templates.List()
	if err != nil {
		return err
	}

	res := edit.Rename(tasks, templates, taskID, newName, scope)
	if res.Empty() {
		m.logger.Debug("rename on missing task", "task_id", taskID)
		return nil
	}
	if err := m.apply(res); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("task", "renamed", taskID, nil))
	return nil
}

// DeleteTask applies a scoped delete through the edit engine.
func (m *Manager) DeleteTask(taskID string, scope edit.Scope) error {
	ch, err := m.Current()
	if err != nil {
		return err
	}
	tasks, err := m.tasks.ListByChallenge(ch.ID)
	if err != nil {
		return err
	}

	res := edit.Delete(tasks, taskID, scope)
	if res.Empty() {
		m.logger.Debug("delete on missing task", "task_id", taskID)
		return nil
	}
	if err := m.apply(res); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("task", "deleted", taskID, nil))
	return nil
}

// CreateTemplate adds a recurring template and materializes its slots
// in the current week immediately.
func (m *Manager) CreateTemplate(name string, repeatDays []int) (*model.RecurringTemplate, error) {
	tmpl, err := m.templates.Create(name, repeatDays)
	if err != nil {
		return nil, err
	}
	if _, err := m.Current(); err != nil {
		return nil, err
	}
	m.broadcast(ws.NewMessage("template", "created", tmpl.ID, nil))
	return tmpl, nil
}

// UpdateTemplate renames and/or reschedules a template. The rename
// carries onto unscored instances; the schedule change only affects
// future seeding. A stale template id is a silent no-op.
func (m *Manager) UpdateTemplate(templateID, newName string, repeatDays []int) error {
	ch, err := m.Current()
	if err != nil {
		return err
	}
	tasks, err := m.tasks.ListByChallenge(ch.ID)
	if err != nil {
		return err
	}
	templates, err := m.templates.List()
	if err != nil {
		return err
	}

	renamed := edit.RenameTemplate(templates, tasks, templateID, newName)
	if renamed.Empty() {
		m.logger.Debug("update on missing template", "template_id", templateID)
		return nil
	}
	rescheduled := edit.Reschedule(templates, templateID, repeatDays)

	// Merge: the template row carries both the new name and schedule.
	merged := renamed
	merged.UpdatedTemplate.RepeatDays = rescheduled.UpdatedTemplate.RepeatDays
	if err := m.apply(merged); err != nil {
		return err
	}

	// New schedule days may call for instances this week.
	if _, err := m.Current(); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("template", "updated", templateID, nil))
	return nil
}

// DeleteTemplate removes the definition. Historical instances survive;
// nothing is reseeded because the template no longer exists.
func (m *Manager) DeleteTemplate(templateID string) error {
	if err := m.templates.Delete(templateID); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("template", "deleted", templateID, nil))
	return nil
}

// UpdatePrize changes the stake on the current challenge and the
// default for future weeks.
func (m *Manager) UpdatePrize(prize string) error {
	if err := m.settings.Set(store.KeyPrize, prize); err != nil {
		return err
	}
	ch, err := m.Current()
	if err != nil {
		return err
	}
	if _, err := m.challenges.UpdatePrize(ch.ID, prize); err != nil {
		return err
	}
	m.broadcast(ws.NewMessage("challenge", "updated", ch.ID, nil))
	return nil
}

// apply persists an edit-engine delta: deletes first (their skips keep
// the slots vacant), then task updates, then the template row.
func (m *Manager) apply(res edit.Result) error {
	for _, id := range res.DeletedTaskIDs {
		if err := m.tasks.Delete(id); err != nil {
			return err
		}
	}
	for _, task := range res.UpdatedTasks {
		if _, err := m.tasks.Update(task); err != nil {
			return err
		}
	}
	if res.UpdatedTemplate != nil {
		t := res.UpdatedTemplate
		if _, err := m.templates.Update(t.ID, t.Name, t.RepeatDays); err != nil {
			return err
		}
	}
	for _, skip := range res.Skips {
		if err := m.skips.Add(skip.TemplateID, skip.DayKey); err != nil {
			return err
		}
	}
	return nil
}
