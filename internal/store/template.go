package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/model"
)

type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateCols = `id, name, repeat_days, created_at, updated_at`

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.RecurringTemplate, error) {
	var t model.RecurringTemplate
	var repeatDays string
	err := scanner.Scan(&t.ID, &t.Name, &repeatDays, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.RepeatDays, err = parseRepeatDays(repeatDays)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", t.ID, err)
	}
	return &t, nil
}

// Repeat days are persisted as comma-joined weekday indices, e.g. "1,3,5".
func joinRepeatDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseRepeatDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid repeat day %q", p)
		}
		days = append(days, d)
	}
	return days, nil
}

func (s *TemplateStore) Create(name string, repeatDays []int) (*model.RecurringTemplate, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO templates (id, name, repeat_days, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, joinRepeatDays(repeatDays), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) GetByID(id string) (*model.RecurringTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) List() ([]model.RecurringTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateCols + ` FROM templates ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) Update(id, name string, repeatDays []int) (*model.RecurringTemplate, error) {
	_, err := s.db.Exec(
		`UPDATE templates SET name = ?, repeat_days = ?, updated_at = ? WHERE id = ?`,
		name, joinRepeatDays(repeatDays), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the template definition only. Historical instances keep
// their template_id reference and are never removed retroactively.
func (s *TemplateStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
