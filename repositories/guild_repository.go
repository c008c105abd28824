package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
)

var ErrGuildNotFound = errors.New("guild not found")

type GuildRepository interface {
	GetByID(ctx context.Context, id string) (*models.Guild, error)
	List(ctx context.Context) ([]*models.Guild, error)
	UpdateStreamPointer(ctx context.Context, id string, matchID *int) error
	UpdateBannerPointer(ctx context.Context, id string, matchID *int) error
	UpdateLastArenaWinners(ctx context.Context, exec SQLExecutor, id string, winners models.ArenaWinners) error
	UpdateFlags(ctx context.Context, id string, hasGrandFinale, hideRankings bool) error
}

type postgresGuildRepository struct {
	db *sql.DB
}

func NewPostgresGuildRepository(db *sql.DB) GuildRepository {
	return &postgresGuildRepository{db: db}
}

const guildColumns = `id, name, has_grand_finale, hide_rankings, active_stream_match_id, active_banner_match_id, last_arena_winners, created_at`

func (r *postgresGuildRepository) scanGuild(row interface{ Scan(...interface{}) error }, g *models.Guild) error {
	return row.Scan(
		&g.ID,
		&g.Name,
		&g.HasGrandFinale,
		&g.HideRankings,
		&g.ActiveStreamMatchID,
		&g.ActiveBannerMatchID,
		&g.LastArenaWinners,
		&g.CreatedAt,
	)
}

func (r *postgresGuildRepository) GetByID(ctx context.Context, id string) (*models.Guild, error) {
	g := &models.Guild{}
	err := r.scanGuild(r.db.QueryRowContext(ctx, `SELECT `+guildColumns+` FROM guilds WHERE id = $1`, id), g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to find guild %s: %w", id, err)
	}
	return g, nil
}

func (r *postgresGuildRepository) List(ctx context.Context) ([]*models.Guild, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+guildColumns+` FROM guilds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	var guilds []*models.Guild
	for rows.Next() {
		g := &models.Guild{}
		if err := r.scanGuild(rows, g); err != nil {
			return nil, fmt.Errorf("failed to scan guild row: %w", err)
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}

func (r *postgresGuildRepository) UpdateStreamPointer(ctx context.Context, id string, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE guilds SET active_stream_match_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return fmt.Errorf("failed to update guild stream pointer: %w", err)
	}
	return checkAffectedRows(result, ErrGuildNotFound)
}

func (r *postgresGuildRepository) UpdateBannerPointer(ctx context.Context, id string, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE guilds SET active_banner_match_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return fmt.Errorf("failed to update guild banner pointer: %w", err)
	}
	return checkAffectedRows(result, ErrGuildNotFound)
}

func (r *postgresGuildRepository) UpdateLastArenaWinners(ctx context.Context, exec SQLExecutor, id string, winners models.ArenaWinners) error {
	result, err := exec.ExecContext(ctx, `UPDATE guilds SET last_arena_winners = $1 WHERE id = $2`, winners, id)
	if err != nil {
		return fmt.Errorf("failed to update guild arena winners: %w", err)
	}
	return checkAffectedRows(result, ErrGuildNotFound)
}

func (r *postgresGuildRepository) UpdateFlags(ctx context.Context, id string, hasGrandFinale, hideRankings bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE guilds SET has_grand_finale = $1, hide_rankings = $2 WHERE id = $3`,
		hasGrandFinale, hideRankings, id)
	if err != nil {
		return fmt.Errorf("failed to update guild flags: %w", err)
	}
	return checkAffectedRows(result, ErrGuildNotFound)
}
