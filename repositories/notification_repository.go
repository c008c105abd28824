package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blackrose-gg/guild-system/models"
)

var ErrNoticeNotFound = errors.New("party notice not found")

type NoticeRepository interface {
	Create(ctx context.Context, n *models.PartyNotice) error
	ListByGuild(ctx context.Context, guildID string) ([]*models.PartyNotice, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.PartyNotice, error)
	MarkSent(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
}

type postgresNoticeRepository struct {
	db *sql.DB
}

func NewPostgresNoticeRepository(db *sql.DB) NoticeRepository {
	return &postgresNoticeRepository{db: db}
}

func (r *postgresNoticeRepository) Create(ctx context.Context, n *models.PartyNotice) error {
	query := `
		INSERT INTO party_notices (guild_id, message, notify_at, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		n.GuildID, n.Message, n.NotifyAt, n.CreatedBy,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create party notice: %w", err)
	}
	return nil
}

func (r *postgresNoticeRepository) ListByGuild(ctx context.Context, guildID string) ([]*models.PartyNotice, error) {
	return r.list(ctx,
		`SELECT id, guild_id, message, notify_at, sent_at, created_by, created_at
		 FROM party_notices WHERE guild_id = $1 ORDER BY notify_at`, guildID)
}

func (r *postgresNoticeRepository) ListDue(ctx context.Context, now time.Time) ([]*models.PartyNotice, error) {
	return r.list(ctx,
		`SELECT id, guild_id, message, notify_at, sent_at, created_by, created_at
		 FROM party_notices WHERE sent_at IS NULL AND notify_at <= $1 ORDER BY notify_at`, now)
}

func (r *postgresNoticeRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.PartyNotice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list party notices: %w", err)
	}
	defer rows.Close()

	var notices []*models.PartyNotice
	for rows.Next() {
		n := &models.PartyNotice{}
		if err := rows.Scan(&n.ID, &n.GuildID, &n.Message, &n.NotifyAt, &n.SentAt, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan party notice row: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *postgresNoticeRepository) MarkSent(ctx context.Context, id int, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE party_notices SET sent_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark party notice sent: %w", err)
	}
	return checkAffectedRows(result, ErrNoticeNotFound)
}

func (r *postgresNoticeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM party_notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete party notice %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNoticeNotFound)
}
