package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/lib/pq"
)

var ErrKillRecordNotFound = errors.New("kill record not found")

type LeaderboardRepository interface {
	Create(ctx context.Context, rec *models.KillRecord) error
	ListByGuild(ctx context.Context, guildID string, boss *string) ([]*models.KillRecord, error)
	Delete(ctx context.Context, id int) error
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) Create(ctx context.Context, rec *models.KillRecord) error {
	query := `
		INSERT INTO kill_records (guild_id, boss, clear_millis, party, proof_key, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		rec.GuildID, rec.Boss, rec.ClearMillis, pq.Array(rec.Party), rec.ProofKey, rec.RecordedBy,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create kill record: %w", err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) ListByGuild(ctx context.Context, guildID string, boss *string) ([]*models.KillRecord, error) {
	query := `
		SELECT id, guild_id, boss, clear_millis, party, proof_key, recorded_by, created_at
		FROM kill_records WHERE guild_id = $1`
	args := []interface{}{guildID}
	if boss != nil {
		query += ` AND boss = $2`
		args = append(args, *boss)
	}
	query += ` ORDER BY clear_millis`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kill records for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var records []*models.KillRecord
	for rows.Next() {
		rec := &models.KillRecord{}
		if err := rows.Scan(&rec.ID, &rec.GuildID, &rec.Boss, &rec.ClearMillis, pq.Array(&rec.Party), &rec.ProofKey, &rec.RecordedBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan kill record row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresLeaderboardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kill_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete kill record %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrKillRecordNotFound)
}
