package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/model"
)

func createTestChallenge(t *testing.T, db *sql.DB) *model.Challenge {
	t.Helper()
	cs := NewChallengeStore(db)
	ch, err := cs.Create("2026-02-01", "2026-02-07", "winner picks dinner")
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return ch
}

func TestTaskCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ch := createTestChallenge(t, db)
	ts := NewTaskStore(db)

	templateID := "T1"
	task, err := ts.Create(model.TaskInstance{
		ID:           uuid.NewString(),
		ChallengeID:  ch.ID,
		DayKey:       "2026-02-02",
		Name:         "Dishes",
		TemplateID:   &templateID,
		OriginalName: "Dishes",
		Points:       model.PointMap{"alice": 2},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Name != "Dishes" || task.DayKey != "2026-02-02" {
		t.Errorf("task = %+v", task)
	}
	if task.TemplateID == nil || *task.TemplateID != "T1" {
		t.Errorf("template id = %v, want T1", task.TemplateID)
	}
	if task.Points.Get("alice") != 2 {
		t.Errorf("points = %v, want alice:2", task.Points)
	}
}

func TestTaskListByChallengeLoadsPoints(t *testing.T) {
	db := setupTestDB(t)
	ch := createTestChallenge(t, db)
	ts := NewTaskStore(db)

	a, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: ch.ID, DayKey: "2026-02-02", Name: "Dishes"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: ch.ID, DayKey: "2026-02-03", Name: "Trash"}); err != nil {
		t.Fatalf("create b: %v", err)
	}

	if err := ts.SetPoints(a.ID, "bob", 3); err != nil {
		t.Fatalf("set points: %v", err)
	}

	tasks, err := ts.ListByChallenge(ch.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	if tasks[0].ID != a.ID {
		t.Fatalf("tasks[0] = %s, want day-ordered first task", tasks[0].ID)
	}
	if tasks[0].Points.Get("bob") != 3 {
		t.Errorf("tasks[0] points = %v, want bob:3", tasks[0].Points)
	}
	if len(tasks[1].Points) != 0 {
		t.Errorf("tasks[1] points = %v, want empty", tasks[1].Points)
	}
}

func TestTaskListByDayRangeSpansChallenges(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	cs := NewChallengeStore(db)

	old, err := cs.Create("2026-02-01", "2026-02-07", "")
	if err != nil {
		t.Fatalf("create old challenge: %v", err)
	}
	cur, err := cs.Create("2026-02-05", "2026-02-11", "")
	if err != nil {
		t.Fatalf("create new challenge: %v", err)
	}

	if _, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: old.ID, DayKey: "2026-02-03", Name: "Dishes"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: old.ID, DayKey: "2026-02-06", Name: "Laundry"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: cur.ID, DayKey: "2026-02-09", Name: "Trash"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, err := ts.ListByDayRange("2026-02-05", "2026-02-11")
	if err != nil {
		t.Fatalf("list by day range: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2 (both challenges' tasks inside the range)", len(tasks))
	}
	if tasks[0].DayKey != "2026-02-06" || tasks[1].DayKey != "2026-02-09" {
		t.Errorf("days = %s, %s, want 2026-02-06 then 2026-02-09", tasks[0].DayKey, tasks[1].DayKey)
	}
}

func TestTaskSetPointsUpsert(t *testing.T) {
	db := setupTestDB(t)
	ch := createTestChallenge(t, db)
	ts := NewTaskStore(db)

	task, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: ch.ID, DayKey: "2026-02-02", Name: "Dishes"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := ts.SetPoints(task.ID, "alice", 1); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := ts.SetPoints(task.ID, "alice", 3); err != nil {
		t.Fatalf("set points again: %v", err)
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Points.Get("alice") != 3 {
		t.Errorf("points = %v, want alice:3 after upsert", got.Points)
	}
}

func TestTaskUpdateDetach(t *testing.T) {
	db := setupTestDB(t)
	ch := createTestChallenge(t, db)
	ts := NewTaskStore(db)

	templateID := "T1"
	task, err := ts.Create(model.TaskInstance{
		ID: uuid.NewString(), ChallengeID: ch.ID, DayKey: "2026-02-02",
		Name: "Dishes", TemplateID: &templateID, OriginalName: "Dishes",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task.TemplateID = nil
	task.Name = "Deep clean dishes"
	updated, err := ts.Update(*task)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.TemplateID != nil {
		t.Error("expected nil template id after detach update")
	}
	if updated.Name != "Deep clean dishes" {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestTaskDelete(t *testing.T) {
	db := setupTestDB(t)
	ch := createTestChallenge(t, db)
	ts := NewTaskStore(db)

	task, err := ts.Create(model.TaskInstance{ID: uuid.NewString(), ChallengeID: ch.ID, DayKey: "2026-02-02", Name: "Dishes"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get deleted task: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted task")
	}
}

func TestTaskGetByIDNotFound(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	got, err := ts.GetByID("nope")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent task")
	}
}
