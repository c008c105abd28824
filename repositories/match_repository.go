package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByContext(ctx context.Context, contextID string) ([]*models.Match, error)
	ListContainingUID(ctx context.Context, exec SQLExecutor, uid string) ([]*models.Match, error)
	UpdateSlots(ctx context.Context, exec SQLExecutor, m *models.Match) error
	DeleteByContext(ctx context.Context, exec SQLExecutor, contextID string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, context_id, round, position, player1, player2, winner, is_third_place, created_at`

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	var p1, p2, w models.PlayerSnapshot
	return row.Scan(
		&m.ID,
		&m.ContextID,
		&m.Round,
		&m.Position,
		&nullableSnapshot{&m.Player1, &p1},
		&nullableSnapshot{&m.Player2, &p2},
		&nullableSnapshot{&m.Winner, &w},
		&m.IsThirdPlace,
		&m.CreatedAt,
	)
}

// nullableSnapshot scans a JSONB column into *PlayerSnapshot, leaving the
// target nil for SQL NULL.
type nullableSnapshot struct {
	target **models.PlayerSnapshot
	buf    *models.PlayerSnapshot
}

func (n *nullableSnapshot) Scan(src interface{}) error {
	if src == nil {
		*n.target = nil
		return nil
	}
	if err := n.buf.Scan(src); err != nil {
		return err
	}
	*n.target = n.buf
	return nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches (context_id, round, position, player1, player2, winner, is_third_place)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	for _, m := range matches {
		err := exec.QueryRowContext(ctx, query,
			m.ContextID,
			m.Round,
			m.Position,
			m.Player1,
			m.Player2,
			m.Winner,
			m.IsThirdPlace,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match (round %d, position %d): %w", m.Round, m.Position, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m := &models.Match{}
	err := r.scanMatch(r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByContext(ctx context.Context, contextID string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE context_id = $1 ORDER BY round, position`
	rows, err := r.db.QueryContext(ctx, query, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for context %s: %w", contextID, err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresMatchRepository) ListContainingUID(ctx context.Context, exec SQLExecutor, uid string) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE player1->>'uid' = $1 OR player2->>'uid' = $1 OR winner->>'uid' = $1`
	rows, err := exec.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches containing uid %s: %w", uid, err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresMatchRepository) collect(rows *sql.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		m := &models.Match{}
		if err := r.scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET player1 = $1, player2 = $2, winner = $3 WHERE id = $4`,
		m.Player1, m.Player2, m.Winner, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update match %d slots: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByContext(ctx context.Context, exec SQLExecutor, contextID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE context_id = $1`, contextID)
	if err != nil {
		return fmt.Errorf("failed to delete matches for context %s: %w", contextID, err)
	}
	return nil
}
