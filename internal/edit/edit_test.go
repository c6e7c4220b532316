package edit

import (
	"testing"

	"github.com/mlynch/tidyduel/internal/model"
)

func TestSetPoints(t *testing.T) {
	tid := "T1"
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
		{ID: "b", DayKey: "2026-02-04", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
	}

	res := SetPoints(tasks, "a", "alice", 3)
	if len(res.UpdatedTasks) != 1 {
		t.Fatalf("updated %d tasks, want 1", len(res.UpdatedTasks))
	}
	if got := res.UpdatedTasks[0].Points.Get("alice"); got != 3 {
		t.Errorf("points = %d, want 3", got)
	}
	// Points never propagate and inputs are never mutated.
	if tasks[0].Points.Get("alice") != 0 {
		t.Error("input task was mutated")
	}
	if len(res.Skips) != 0 || res.UpdatedTemplate != nil {
		t.Error("points edit must not touch template or emit skips")
	}
}

func TestSetPointsUnknownTask(t *testing.T) {
	res := SetPoints(nil, "missing", "alice", 2)
	if !res.Empty() {
		t.Errorf("result = %+v, want empty no-op", res)
	}
}

func TestRenameOneOffIgnoresScope(t *testing.T) {
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-02", Name: "Mop floor", Points: model.PointMap{}},
	}

	for _, scope := range []Scope{ScopeToday, ScopeFuture} {
		res := Rename(tasks, nil, "a", "Mop kitchen floor", scope)
		if len(res.UpdatedTasks) != 1 {
			t.Fatalf("scope %s: updated %d tasks, want 1", scope, len(res.UpdatedTasks))
		}
		if res.UpdatedTasks[0].Name != "Mop kitchen floor" {
			t.Errorf("scope %s: name = %q", scope, res.UpdatedTasks[0].Name)
		}
		if len(res.Skips) != 0 {
			t.Errorf("scope %s: one-off rename emitted skips", scope)
		}
	}
}

func TestRenameTodayDetaches(t *testing.T) {
	tid := "T1"
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, OriginalName: "Dishes",
			Points: model.PointMap{"alice": 2}},
	}

	res := Rename(tasks, nil, "a", "Deep clean dishes", ScopeToday)
	if len(res.UpdatedTasks) != 1 {
		t.Fatalf("updated %d tasks, want 1", len(res.UpdatedTasks))
	}
	got := res.UpdatedTasks[0]
	if got.TemplateID != nil {
		t.Error("expected detached task to have nil template id")
	}
	if got.Name != "Deep clean dishes" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Points.Get("alice") != 2 {
		t.Error("detach must preserve points")
	}
	if len(res.Skips) != 1 || res.Skips[0].TemplateID != "T1" || res.Skips[0].DayKey != "2026-02-02" {
		t.Fatalf("skips = %+v, want one for (T1, 2026-02-02)", res.Skips)
	}
	if res.UpdatedTemplate != nil {
		t.Error("today rename must not touch the template")
	}
}

func TestRenameFuturePreservesScoredHistory(t *testing.T) {
	tid := "T1"
	templates := []model.RecurringTemplate{{ID: "T1", Name: "Dishes", RepeatDays: []int{1, 3, 5}}}
	tasks := []model.TaskInstance{
		// Scored Monday — historical, must keep its name.
		{ID: "mon", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{"alice": 1}},
		// Unscored Friday placeholder — renamed.
		{ID: "fri", DayKey: "2026-02-06", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{"alice": 0, "bob": 0}},
	}

	res := Rename(tasks, templates, "fri", "Wash dishes", ScopeFuture)

	if res.UpdatedTemplate == nil || res.UpdatedTemplate.Name != "Wash dishes" {
		t.Fatalf("template = %+v, want renamed", res.UpdatedTemplate)
	}

	names := map[string]string{}
	for _, u := range res.UpdatedTasks {
		names[u.ID] = u.Name
	}
	if names["fri"] != "Wash dishes" {
		t.Errorf("target name = %q, want renamed", names["fri"])
	}
	if _, touched := names["mon"]; touched {
		t.Error("scored instance was renamed; historical results are immutable")
	}
	if len(res.Skips) != 0 {
		t.Error("future rename must not emit skips")
	}
}

func TestRenameFutureRenamesUnscoredSiblings(t *testing.T) {
	tid := "T1"
	templates := []model.RecurringTemplate{{ID: "T1", Name: "Dishes"}}
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
		{ID: "b", DayKey: "2026-02-04", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
		{ID: "c", DayKey: "2026-02-06", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
	}

	res := Rename(tasks, templates, "a", "Wash dishes", ScopeFuture)
	if len(res.UpdatedTasks) != 3 {
		t.Fatalf("updated %d tasks, want 3", len(res.UpdatedTasks))
	}
	for _, u := range res.UpdatedTasks {
		if u.Name != "Wash dishes" {
			t.Errorf("task %s name = %q, want renamed", u.ID, u.Name)
		}
		if u.TemplateID == nil {
			t.Errorf("task %s lost its template link", u.ID)
		}
	}
}

func TestRenameUnknownTask(t *testing.T) {
	res := Rename(nil, nil, "missing", "x", ScopeFuture)
	if !res.Empty() {
		t.Errorf("result = %+v, want empty no-op", res)
	}
}

func TestRenameTemplateDirect(t *testing.T) {
	tid := "T1"
	templates := []model.RecurringTemplate{{ID: "T1", Name: "Dishes"}}
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{"alice": 1}},
		{ID: "b", DayKey: "2026-02-04", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
	}

	res := RenameTemplate(templates, tasks, "T1", "Wash dishes")
	if res.UpdatedTemplate == nil || res.UpdatedTemplate.Name != "Wash dishes" {
		t.Fatalf("template = %+v, want renamed", res.UpdatedTemplate)
	}
	if len(res.UpdatedTasks) != 1 || res.UpdatedTasks[0].ID != "b" {
		t.Fatalf("updated tasks = %+v, want only unscored b", res.UpdatedTasks)
	}
}

func TestReschedule(t *testing.T) {
	templates := []model.RecurringTemplate{{ID: "T1", Name: "Dishes", RepeatDays: []int{1}}}

	res := Reschedule(templates, "T1", []int{2, 4})
	if res.UpdatedTemplate == nil {
		t.Fatal("expected updated template")
	}
	if got := res.UpdatedTemplate.RepeatDays; len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("repeat days = %v, want [2 4]", got)
	}
	// Materialized instances are never moved as a side effect.
	if len(res.UpdatedTasks) != 0 || len(res.DeletedTaskIDs) != 0 || len(res.Skips) != 0 {
		t.Errorf("reschedule touched instances: %+v", res)
	}
	if templates[0].RepeatDays[0] != 1 {
		t.Error("input template was mutated")
	}
}

func TestRescheduleUnknownTemplate(t *testing.T) {
	if res := Reschedule(nil, "missing", []int{1}); !res.Empty() {
		t.Errorf("result = %+v, want empty no-op", res)
	}
}

func TestDeleteTodayLinked(t *testing.T) {
	tid := "T1"
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-04", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
	}

	res := Delete(tasks, "a", ScopeToday)
	if len(res.DeletedTaskIDs) != 1 || res.DeletedTaskIDs[0] != "a" {
		t.Fatalf("deleted = %v, want [a]", res.DeletedTaskIDs)
	}
	if len(res.Skips) != 1 || res.Skips[0].TemplateID != "T1" || res.Skips[0].DayKey != "2026-02-04" {
		t.Fatalf("skips = %+v, want one for (T1, 2026-02-04)", res.Skips)
	}
}

func TestDeleteTodayOneOffNoSkip(t *testing.T) {
	tasks := []model.TaskInstance{
		{ID: "a", DayKey: "2026-02-04", Name: "Water plants", Points: model.PointMap{}},
	}

	res := Delete(tasks, "a", ScopeToday)
	if len(res.DeletedTaskIDs) != 1 {
		t.Fatalf("deleted = %v, want [a]", res.DeletedTaskIDs)
	}
	if len(res.Skips) != 0 {
		t.Errorf("one-off delete emitted skips: %+v", res.Skips)
	}
}

func TestDeleteFutureSkipsScored(t *testing.T) {
	tid := "T1"
	tasks := []model.TaskInstance{
		// Before the target — untouched either way.
		{ID: "mon", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
		// The target.
		{ID: "wed", DayKey: "2026-02-04", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
		// Scored on a later day — preserved.
		{ID: "fri", DayKey: "2026-02-06", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{"bob": 3}},
		// Unscored on a later day — deleted with a skip.
		{ID: "sat", DayKey: "2026-02-07", Name: "Dishes", TemplateID: &tid, Points: model.PointMap{}},
	}

	res := Delete(tasks, "wed", ScopeFuture)

	deleted := map[string]bool{}
	for _, id := range res.DeletedTaskIDs {
		deleted[id] = true
	}
	if !deleted["wed"] || !deleted["sat"] {
		t.Errorf("deleted = %v, want wed and sat", res.DeletedTaskIDs)
	}
	if deleted["mon"] {
		t.Error("instance before the target day was deleted")
	}
	if deleted["fri"] {
		t.Error("scored instance was deleted; historical results are immutable")
	}

	skipDays := map[model.SkipRecord]bool{}
	for _, s := range res.Skips {
		skipDays[s] = true
	}
	if len(res.Skips) != 2 {
		t.Fatalf("skips = %+v, want 2", res.Skips)
	}
	if !skipDays[model.SkipRecord{TemplateID: "T1", DayKey: "2026-02-04"}] ||
		!skipDays[model.SkipRecord{TemplateID: "T1", DayKey: "2026-02-07"}] {
		t.Errorf("skips = %+v, want (T1, 02-04) and (T1, 02-07)", res.Skips)
	}
}

func TestDeleteUnknownTask(t *testing.T) {
	if res := Delete(nil, "missing", ScopeFuture); !res.Empty() {
		t.Errorf("result = %+v, want empty no-op", res)
	}
}

func TestDetachPreservesPoints(t *testing.T) {
	tid := "T1"
	task := model.TaskInstance{
		ID: "a", DayKey: "2026-02-02", Name: "Dishes", TemplateID: &tid,
		OriginalName: "Dishes", Points: model.PointMap{"alice": 2, "bob": 1},
	}

	detached, skip := Detach(task)
	if detached.TemplateID != nil {
		t.Error("expected nil template id after detach")
	}
	if detached.Points.Get("alice") != 2 || detached.Points.Get("bob") != 1 {
		t.Errorf("points = %v, want preserved", detached.Points)
	}
	if skip.TemplateID != "T1" || skip.DayKey != "2026-02-02" {
		t.Errorf("skip = %+v, want (T1, 2026-02-02)", skip)
	}
	if task.TemplateID == nil {
		t.Error("input task was mutated")
	}
}

func TestDeleteForTemplateSlot(t *testing.T) {
	tid := "T1"
	withTemplate := model.TaskInstance{ID: "a", DayKey: "2026-02-02", TemplateID: &tid}
	oneOff := model.TaskInstance{ID: "b", DayKey: "2026-02-02"}

	if skip := DeleteForTemplateSlot(withTemplate); skip == nil || skip.TemplateID != "T1" {
		t.Errorf("skip = %+v, want (T1, 2026-02-02)", skip)
	}
	if skip := DeleteForTemplateSlot(oneOff); skip != nil {
		t.Errorf("skip = %+v, want nil for one-off", skip)
	}
}
