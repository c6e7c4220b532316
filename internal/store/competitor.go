package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlynch/tidyduel/internal/model"
)

type CompetitorStore struct {
	db *sql.DB
}

func NewCompetitorStore(db *sql.DB) *CompetitorStore {
	return &CompetitorStore{db: db}
}

const competitorCols = `id, name, sort_order, created_at`

func scanCompetitor(scanner interface{ Scan(...any) error }) (*model.Competitor, error) {
	var c model.Competitor
	err := scanner.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CompetitorStore) Create(name string, sortOrder int) (*model.Competitor, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO competitors (id, name, sort_order, created_at) VALUES (?, ?, ?, ?)`,
		id, name, sortOrder, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert competitor: %w", err)
	}
	return s.GetByID(id)
}

func (s *CompetitorStore) GetByID(id string) (*model.Competitor, error) {
	row := s.db.QueryRow(`SELECT `+competitorCols+` FROM competitors WHERE id = ?`, id)
	c, err := scanCompetitor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get competitor: %w", err)
	}
	return c, nil
}

func (s *CompetitorStore) List() ([]model.Competitor, error) {
	rows, err := s.db.Query(`SELECT ` + competitorCols + ` FROM competitors ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	defer rows.Close()

	var competitors []model.Competitor
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan competitor: %w", err)
		}
		competitors = append(competitors, *c)
	}
	return competitors, rows.Err()
}

// IDs returns competitor ids in sort order, for score aggregation.
func (s *CompetitorStore) IDs() ([]string, error) {
	competitors, err := s.List()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(competitors))
	for i, c := range competitors {
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *CompetitorStore) Update(id, name string, sortOrder int) (*model.Competitor, error) {
	_, err := s.db.Exec(
		`UPDATE competitors SET name = ?, sort_order = ? WHERE id = ?`,
		name, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update competitor: %w", err)
	}
	return s.GetByID(id)
}

func (s *CompetitorStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM competitors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete competitor: %w", err)
	}
	return nil
}
