// Package edit decides how a change to a single task instance lands:
// on just that instance (today scope) or on its template and the
// template's unscored instances (future scope). Every function is a
// pure (inputs) -> delta computation; inputs are never mutated and a
// stale task or template id produces an empty no-op Result rather than
// an error, because ids can legitimately disappear between user intent
// and execution when a second device deletes concurrently.
package edit

import (
	"github.com/mlynch/tidyduel/internal/model"
)

// Scope selects whether an edit touches only the target instance or the
// template plus its unscored future instances.
type Scope string

const (
	ScopeToday  Scope = "today"
	ScopeFuture Scope = "future"
)

// Result is the pure state delta an edit produces. The caller applies
// it to local state and persists it; nothing here has been written yet.
type Result struct {
	UpdatedTasks    []model.TaskInstance
	UpdatedTemplate *model.RecurringTemplate
	DeletedTaskIDs  []string
	Skips           []model.SkipRecord
}

// Empty reports whether the edit resolved to a no-op.
func (r Result) Empty() bool {
	return len(r.UpdatedTasks) == 0 && r.UpdatedTemplate == nil &&
		len(r.DeletedTaskIDs) == 0 && len(r.Skips) == 0
}

// SetPoints records a point value for one competitor on one task.
// Points never propagate to other instances; scope does not apply.
// The value is clamped to [0,3] at the write boundary, not here.
func SetPoints(tasks []model.TaskInstance, taskID, competitorID string, points int) Result {
	task, ok := find(tasks, taskID)
	if !ok {
		return Result{}
	}
	task.Points = task.Points.Clone()
	task.Points[competitorID] = points
	return Result{UpdatedTasks: []model.TaskInstance{task}}
}

// Rename changes a task's name. Today scope on a linked task detaches
// it from its template first (the template keeps its name and future
// behavior); future scope renames the template and every other linked
// instance that is still an unscored placeholder. Scored instances are
// historical results and are never touched.
func Rename(tasks []model.TaskInstance, templates []model.RecurringTemplate, taskID, newName string, scope Scope) Result {
	task, ok := find(tasks, taskID)
	if !ok {
		return Result{}
	}

	if !task.Linked() {
		task.Name = newName
		return Result{UpdatedTasks: []model.TaskInstance{task}}
	}

	if scope == ScopeToday {
		detached, skip := Detach(task)
		detached.Name = newName
		return Result{
			UpdatedTasks: []model.TaskInstance{detached},
			Skips:        []model.SkipRecord{skip},
		}
	}

	templateID := *task.TemplateID
	tmpl, tmplOK := findTemplate(templates, templateID)

	res := Result{}
	if tmplOK {
		tmpl.Name = newName
		res.UpdatedTemplate = &tmpl
	}

	// The target is renamed unconditionally — the user edited it
	// directly. Siblings are renamed only while unscored.
	task.Name = newName
	res.UpdatedTasks = append(res.UpdatedTasks, task)

	for _, other := range tasks {
		if other.ID == taskID || other.TemplateID == nil || *other.TemplateID != templateID {
			continue
		}
		if other.Scored() {
			continue
		}
		renamed := other
		renamed.Points = other.Points.Clone()
		renamed.Name = newName
		res.UpdatedTasks = append(res.UpdatedTasks, renamed)
	}

	return res
}

// RenameTemplate renames a template directly (no target instance) and
// carries the new name onto its unscored instances, mirroring a
// future-scope rename initiated from the template list.
func RenameTemplate(templates []model.RecurringTemplate, tasks []model.TaskInstance, templateID, newName string) Result {
	tmpl, ok := findTemplate(templates, templateID)
	if !ok {
		return Result{}
	}
	tmpl.Name = newName

	res := Result{UpdatedTemplate: &tmpl}
	for _, t := range tasks {
		if t.TemplateID == nil || *t.TemplateID != templateID || t.Scored() {
			continue
		}
		renamed := t
		renamed.Points = t.Points.Clone()
		renamed.Name = newName
		res.UpdatedTasks = append(res.UpdatedTasks, renamed)
	}
	return res
}

// Reschedule replaces a template's repeat schedule. Already-materialized
// instances are never moved or removed as a side effect; the next seed
// run simply follows the new schedule.
func Reschedule(templates []model.RecurringTemplate, templateID string, repeatDays []int) Result {
	tmpl, ok := findTemplate(templates, templateID)
	if !ok {
		return Result{}
	}
	tmpl.RepeatDays = append([]int(nil), repeatDays...)
	return Result{UpdatedTemplate: &tmpl}
}

// Delete removes a task. Today scope deletes only the target, emitting a
// skip record when the target was seeded so the slot stays vacant.
// Future scope additionally deletes every other linked instance on or
// after the target's day whose points are all zero, with one skip record
// per deleted slot; scored instances on or after that day are preserved.
func Delete(tasks []model.TaskInstance, taskID string, scope Scope) Result {
	task, ok := find(tasks, taskID)
	if !ok {
		return Result{}
	}

	res := Result{DeletedTaskIDs: []string{task.ID}}
	if skip := DeleteForTemplateSlot(task); skip != nil {
		res.Skips = append(res.Skips, *skip)
	}

	if scope != ScopeFuture || !task.Linked() {
		return res
	}

	templateID := *task.TemplateID
	for _, other := range tasks {
		if other.ID == taskID || other.TemplateID == nil || *other.TemplateID != templateID {
			continue
		}
		if other.DayKey < task.DayKey || other.Scored() {
			continue
		}
		res.DeletedTaskIDs = append(res.DeletedTaskIDs, other.ID)
		res.Skips = append(res.Skips, model.SkipRecord{
			TemplateID: templateID,
			DayKey:     other.DayKey,
		})
	}

	return res
}

// Detach converts a linked task into a standalone one-off, keeping its
// points and history. The skip record is required even though the task
// no longer references the template: seeding matches slots against the
// template's id, so without it the now-vacant (template, day) slot
// would be re-materialized as a duplicate on the next run.
func Detach(task model.TaskInstance) (model.TaskInstance, model.SkipRecord) {
	skip := model.SkipRecord{TemplateID: *task.TemplateID, DayKey: task.DayKey}
	task.TemplateID = nil
	task.Points = task.Points.Clone()
	return task, skip
}

// DeleteForTemplateSlot returns the skip record that must accompany a
// deletion of the given task, or nil for one-offs (nothing to suppress).
func DeleteForTemplateSlot(task model.TaskInstance) *model.SkipRecord {
	if !task.Linked() {
		return nil
	}
	return &model.SkipRecord{TemplateID: *task.TemplateID, DayKey: task.DayKey}
}

func find(tasks []model.TaskInstance, id string) (model.TaskInstance, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.TaskInstance{}, false
}

func findTemplate(templates []model.RecurringTemplate, id string) (model.RecurringTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.RecurringTemplate{}, false
}
