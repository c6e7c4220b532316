package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/model"
)

type ChallengeStore struct {
	db *sql.DB
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

const challengeCols = `id, start_day, end_day, prize, winner_id, is_tie, is_completed, created_at, updated_at`

func scanChallenge(scanner interface{ Scan(...any) error }) (*model.Challenge, error) {
	var c model.Challenge
	var winnerID sql.NullString

	err := scanner.Scan(
		&c.ID, &c.StartDay, &c.EndDay, &c.Prize,
		&winnerID, &c.IsTie, &c.IsCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if winnerID.Valid {
		c.WinnerID = &winnerID.String
	}
	return &c, nil
}

func (s *ChallengeStore) Create(start, end calendar.DayKey, prize string) (*model.Challenge, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO challenges (id, start_day, end_day, prize, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(start), string(end), prize, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChallengeStore) GetByID(id string) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE id = ?`, id)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

// Current returns the single non-completed challenge, or nil before the
// first week has been set up.
func (s *ChallengeStore) Current() (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT ` + challengeCols + ` FROM challenges WHERE is_completed = 0 ORDER BY start_day DESC LIMIT 1`)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current challenge: %w", err)
	}
	return c, nil
}

// Complete freezes a challenge with its outcome. Once completed, no
// seeding or edit logic runs against it again.
func (s *ChallengeStore) Complete(id string, winnerID *string, isTie bool) (*model.Challenge, error) {
	var winner sql.NullString
	if winnerID != nil {
		winner = sql.NullString{String: *winnerID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE challenges SET winner_id = ?, is_tie = ?, is_completed = 1, updated_at = ? WHERE id = ?`,
		winner, isTie, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete challenge: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChallengeStore) UpdatePrize(id, prize string) (*model.Challenge, error) {
	_, err := s.db.Exec(
		`UPDATE challenges SET prize = ?, updated_at = ? WHERE id = ?`,
		prize, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update prize: %w", err)
	}
	return s.GetByID(id)
}

// ListCompleted returns past challenges newest-first, for the weekly
// history view and downstream narrative consumers.
func (s *ChallengeStore) ListCompleted() ([]model.Challenge, error) {
	rows, err := s.db.Query(`SELECT ` + challengeCols + ` FROM challenges WHERE is_completed = 1 ORDER BY start_day DESC`)
	if err != nil {
		return nil, fmt.Errorf("list completed challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}
