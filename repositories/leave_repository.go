package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
)

var ErrLeaveRequestNotFound = errors.New("leave request not found")

type LeaveRepository interface {
	Create(ctx context.Context, l *models.LeaveRequest) error
	ListByGuild(ctx context.Context, guildID string) ([]*models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, id int, status models.LeaveStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresLeaveRepository struct {
	db *sql.DB
}

func NewPostgresLeaveRepository(db *sql.DB) LeaveRepository {
	return &postgresLeaveRepository{db: db}
}

func (r *postgresLeaveRepository) Create(ctx context.Context, l *models.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (guild_id, uid, display_name, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		l.GuildID, l.UID, l.DisplayName, l.StartDate, l.EndDate, l.Reason, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (r *postgresLeaveRepository) ListByGuild(ctx context.Context, guildID string) ([]*models.LeaveRequest, error) {
	query := `
		SELECT id, guild_id, uid, display_name, start_date, end_date, reason, status, created_at
		FROM leave_requests WHERE guild_id = $1 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var requests []*models.LeaveRequest
	for rows.Next() {
		l := &models.LeaveRequest{}
		if err := rows.Scan(&l.ID, &l.GuildID, &l.UID, &l.DisplayName, &l.StartDate, &l.EndDate, &l.Reason, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

func (r *postgresLeaveRepository) UpdateStatus(ctx context.Context, id int, status models.LeaveStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE leave_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	return checkAffectedRows(result, ErrLeaveRequestNotFound)
}

func (r *postgresLeaveRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeaveRequestNotFound)
}
