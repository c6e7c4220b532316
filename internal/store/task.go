package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, challenge_id, day_key, name, template_id, original_name, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.TaskInstance, error) {
	var t model.TaskInstance
	var templateID sql.NullString

	err := scanner.Scan(
		&t.ID, &t.ChallengeID, &t.DayKey, &t.Name,
		&templateID, &t.OriginalName, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if templateID.Valid {
		t.TemplateID = &templateID.String
	}
	t.Points = model.PointMap{}
	return &t, nil
}

// Create persists a task instance the engine (or a user one-off) built.
// The id comes from the caller; timestamps are set here.
func (s *TaskStore) Create(task model.TaskInstance) (*model.TaskInstance, error) {
	var templateID sql.NullString
	if task.TemplateID != nil {
		templateID = sql.NullString{String: *task.TemplateID, Valid: true}
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, challenge_id, day_key, name, template_id, original_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ChallengeID, string(task.DayKey), task.Name, templateID, task.OriginalName, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	for competitorID, points := range task.Points {
		if err := s.SetPoints(task.ID, competitorID, points); err != nil {
			return nil, err
		}
	}

	return s.GetByID(task.ID)
}

func (s *TaskStore) GetByID(id string) (*model.TaskInstance, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if err := s.loadPoints(map[string]*model.TaskInstance{t.ID: t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) ListByChallenge(challengeID string) ([]model.TaskInstance, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE challenge_id = ? ORDER BY day_key ASC, created_at ASC`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.TaskInstance
	byID := make(map[string]*model.TaskInstance)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
		byID[t.ID] = &tasks[len(tasks)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadPoints(byID); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByDayRange returns every task instance dated within [start, end],
// across all challenges. Seeding dedups against this, not against a
// single challenge's tasks: a settings change can shift the active
// window over days an earlier challenge already materialized, and those
// slots must still count as occupied.
func (s *TaskStore) ListByDayRange(start, end calendar.DayKey) ([]model.TaskInstance, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE day_key >= ? AND day_key <= ? ORDER BY day_key ASC, created_at ASC`,
		string(start), string(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks by day range: %w", err)
	}
	defer rows.Close()

	var tasks []model.TaskInstance
	byID := make(map[string]*model.TaskInstance)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
		byID[t.ID] = &tasks[len(tasks)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadPoints(byID); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) loadPoints(tasks map[string]*model.TaskInstance) error {
	if len(tasks) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks))
	for id := range tasks {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	rows, err := s.db.Query(
		`SELECT task_id, competitor_id, points FROM task_points
		 WHERE task_id IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, competitorID string
		var points int
		if err := rows.Scan(&taskID, &competitorID, &points); err != nil {
			return fmt.Errorf("scan points: %w", err)
		}
		if t, ok := tasks[taskID]; ok {
			t.Points[competitorID] = points
		}
	}
	return rows.Err()
}

// Update persists a rename or detach. Points are written separately via
// SetPoints; this covers the fields the edit engine changes in bulk.
func (s *TaskStore) Update(task model.TaskInstance) (*model.TaskInstance, error) {
	var templateID sql.NullString
	if task.TemplateID != nil {
		templateID = sql.NullString{String: *task.TemplateID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET name = ?, template_id = ?, original_name = ?, updated_at = ? WHERE id = ?`,
		task.Name, templateID, task.OriginalName, time.Now().UTC(), task.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(task.ID)
}

func (s *TaskStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// SetPoints records one competitor's points on one task. Values are
// clamped by the HTTP handler before they get here; the aggregate side
// trusts what is stored.
func (s *TaskStore) SetPoints(taskID, competitorID string, points int) error {
	_, err := s.db.Exec(
		`INSERT INTO task_points (task_id, competitor_id, points) VALUES (?, ?, ?)
		 ON CONFLICT(task_id, competitor_id) DO UPDATE SET points = excluded.points`,
		taskID, competitorID, points,
	)
	if err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}
