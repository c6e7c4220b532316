package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Settings keys that parameterize the challenge window.
const (
	KeyTimezone     = "timezone"
	KeyWeekStartDay = "week_start_day"
	KeyPrize        = "prize"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// HouseholdConfig returns the timezone and week start day that
// parameterize window computation.
func (s *SettingsStore) HouseholdConfig() (timezone string, weekStartDay int, err error) {
	timezone, err = s.Get(KeyTimezone)
	if err != nil {
		return "", 0, err
	}
	raw, err := s.Get(KeyWeekStartDay)
	if err != nil {
		return "", 0, err
	}
	weekStartDay, err = strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("parse week_start_day %q: %w", raw, err)
	}
	return timezone, weekStartDay, nil
}
