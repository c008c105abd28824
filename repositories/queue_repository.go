package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/lib/pq"
)

var (
	ErrQueueEntryNotFound = errors.New("boss queue entry not found")
	ErrQueueEntryConflict = errors.New("user is already in the boss queue")
)

type BossQueueRepository interface {
	Join(ctx context.Context, entry *models.BossQueueEntry) error
	ListByGuild(ctx context.Context, guildID string) ([]*models.BossQueueEntry, error)
	RemoveByUID(ctx context.Context, guildID, uid string) error
	Clear(ctx context.Context, guildID string) error
}

type postgresBossQueueRepository struct {
	db *sql.DB
}

func NewPostgresBossQueueRepository(db *sql.DB) BossQueueRepository {
	return &postgresBossQueueRepository{db: db}
}

func (r *postgresBossQueueRepository) Join(ctx context.Context, entry *models.BossQueueEntry) error {
	// Position is assigned at the tail; joining is strictly FIFO.
	query := `
		INSERT INTO boss_queue (guild_id, uid, display_name, position)
		VALUES ($1, $2, $3, COALESCE((SELECT MAX(position) FROM boss_queue WHERE guild_id = $1), 0) + 1)
		RETURNING id, position, joined_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.GuildID, entry.UID, entry.DisplayName,
	).Scan(&entry.ID, &entry.Position, &entry.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrQueueEntryConflict
		}
		return fmt.Errorf("failed to join boss queue: %w", err)
	}
	return nil
}

func (r *postgresBossQueueRepository) ListByGuild(ctx context.Context, guildID string) ([]*models.BossQueueEntry, error) {
	query := `
		SELECT id, guild_id, uid, display_name, position, joined_at
		FROM boss_queue WHERE guild_id = $1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boss queue for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var entries []*models.BossQueueEntry
	for rows.Next() {
		e := &models.BossQueueEntry{}
		if err := rows.Scan(&e.ID, &e.GuildID, &e.UID, &e.DisplayName, &e.Position, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan boss queue row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresBossQueueRepository) RemoveByUID(ctx context.Context, guildID, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boss_queue WHERE guild_id = $1 AND uid = $2`, guildID, uid)
	if err != nil {
		return fmt.Errorf("failed to remove boss queue entry: %w", err)
	}
	return checkAffectedRows(result, ErrQueueEntryNotFound)
}

func (r *postgresBossQueueRepository) Clear(ctx context.Context, guildID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM boss_queue WHERE guild_id = $1`, guildID)
	if err != nil {
		return fmt.Errorf("failed to clear boss queue for guild %s: %w", guildID, err)
	}
	return nil
}
