package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/model"
)

// SkipStore is append-only from the engine's perspective: records are
// added when a seeded instance is deleted or detached and are never
// expired.
type SkipStore struct {
	db *sql.DB
}

func NewSkipStore(db *sql.DB) *SkipStore {
	return &SkipStore{db: db}
}

// Add records a suppression for the (template, day) slot. Re-adding an
// existing slot is a no-op, so callers never need to check first.
func (s *SkipStore) Add(templateID string, dayKey calendar.DayKey) error {
	_, err := s.db.Exec(
		`INSERT INTO skips (template_id, day_key, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(template_id, day_key) DO NOTHING`,
		templateID, string(dayKey), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert skip: %w", err)
	}
	return nil
}

func (s *SkipStore) List() ([]model.SkipRecord, error) {
	rows, err := s.db.Query(`SELECT template_id, day_key, created_at FROM skips ORDER BY day_key ASC, template_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skips: %w", err)
	}
	defer rows.Close()

	var skips []model.SkipRecord
	for rows.Next() {
		var rec model.SkipRecord
		if err := rows.Scan(&rec.TemplateID, &rec.DayKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan skip: %w", err)
		}
		skips = append(skips, rec)
	}
	return skips, rows.Err()
}

// Exists reports whether the slot is suppressed.
func (s *SkipStore) Exists(templateID string, dayKey calendar.DayKey) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM skips WHERE template_id = ? AND day_key = ?`,
		templateID, string(dayKey),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check skip: %w", err)
	}
	return n > 0, nil
}
