package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
)

var ErrTournamentNotFound = errors.New("custom tournament not found")

type CustomTournamentRepository interface {
	Create(ctx context.Context, t *models.CustomTournament) error
	GetByID(ctx context.Context, id string) (*models.CustomTournament, error)
	List(ctx context.Context) ([]*models.CustomTournament, error)
	UpdateStreamPointer(ctx context.Context, id string, matchID *int) error
	UpdateBannerPointer(ctx context.Context, id string, matchID *int) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresCustomTournamentRepository struct {
	db *sql.DB
}

func NewPostgresCustomTournamentRepository(db *sql.DB) CustomTournamentRepository {
	return &postgresCustomTournamentRepository{db: db}
}

const tournamentColumns = `id, title, has_grand_finale, hide_rankings, active_stream_match_id, active_banner_match_id, created_by, created_at`

func (r *postgresCustomTournamentRepository) scanTournament(row interface{ Scan(...interface{}) error }, t *models.CustomTournament) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.HasGrandFinale,
		&t.HideRankings,
		&t.ActiveStreamMatchID,
		&t.ActiveBannerMatchID,
		&t.CreatedBy,
		&t.CreatedAt,
	)
}

func (r *postgresCustomTournamentRepository) Create(ctx context.Context, t *models.CustomTournament) error {
	query := `
		INSERT INTO custom_tournaments (id, title, has_grand_finale, hide_rankings, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.HasGrandFinale, t.HideRankings, t.CreatedBy,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create custom tournament: %w", err)
	}
	return nil
}

func (r *postgresCustomTournamentRepository) GetByID(ctx context.Context, id string) (*models.CustomTournament, error) {
	t := &models.CustomTournament{}
	err := r.scanTournament(r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM custom_tournaments WHERE id = $1`, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find custom tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresCustomTournamentRepository) List(ctx context.Context) ([]*models.CustomTournament, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tournamentColumns+` FROM custom_tournaments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.CustomTournament
	for rows.Next() {
		t := &models.CustomTournament{}
		if err := r.scanTournament(rows, t); err != nil {
			return nil, fmt.Errorf("failed to scan custom tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresCustomTournamentRepository) UpdateStreamPointer(ctx context.Context, id string, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE custom_tournaments SET active_stream_match_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament stream pointer: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresCustomTournamentRepository) UpdateBannerPointer(ctx context.Context, id string, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE custom_tournaments SET active_banner_match_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner pointer: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresCustomTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM custom_tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete custom tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
