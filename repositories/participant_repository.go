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
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("user is already registered in this context")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	FindByContextAndUID(ctx context.Context, contextID, uid string) (*models.Participant, error)
	ListByContext(ctx context.Context, contextID string, statusFilter *models.ParticipantStatus) ([]*models.Participant, error)
	UpdateStatus(ctx context.Context, id string, status models.ParticipantStatus) error
	UpdatePoints(ctx context.Context, id string, points int) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	DeleteByContext(ctx context.Context, exec SQLExecutor, contextID string) error
	UpdateSnapshotsByUID(ctx context.Context, exec SQLExecutor, uid, displayName, photoURL, roleClass string) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, context_id, uid, display_name, photo_url, role_class, guild_name, points, status, created_at`

func (r *postgresParticipantRepository) scanParticipant(row interface{ Scan(...interface{}) error }, p *models.Participant) error {
	return row.Scan(
		&p.ID,
		&p.ContextID,
		&p.UID,
		&p.DisplayName,
		&p.PhotoURL,
		&p.RoleClass,
		&p.GuildName,
		&p.Points,
		&p.Status,
		&p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (id, context_id, uid, display_name, photo_url, role_class, guild_name, points, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.ContextID,
		p.UID,
		p.DisplayName,
		p.PhotoURL,
		p.RoleClass,
		p.GuildName,
		p.Points,
		p.Status,
	).Scan(&p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrParticipantConflict
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	err := r.scanParticipant(r.db.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	return r.findOne(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
}

func (r *postgresParticipantRepository) FindByContextAndUID(ctx context.Context, contextID, uid string) (*models.Participant, error) {
	return r.findOne(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE context_id = $1 AND uid = $2`,
		contextID, uid)
}

func (r *postgresParticipantRepository) ListByContext(ctx context.Context, contextID string, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE context_id = $1`
	args := []interface{}{contextID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for context %s: %w", contextID, err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		if err := r.scanParticipant(rows, p); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id string, status models.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdatePoints(ctx context.Context, id string, points int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET points = $1 WHERE id = $2`, points, id)
	if err != nil {
		return fmt.Errorf("failed to update participant points: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) DeleteByContext(ctx context.Context, exec SQLExecutor, contextID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM participants WHERE context_id = $1`, contextID)
	if err != nil {
		return fmt.Errorf("failed to delete participants for context %s: %w", contextID, err)
	}
	return nil
}

func (r *postgresParticipantRepository) UpdateSnapshotsByUID(ctx context.Context, exec SQLExecutor, uid, displayName, photoURL, roleClass string) error {
	_, err := exec.ExecContext(ctx,
		`UPDATE participants SET display_name = $1, photo_url = $2, role_class = $3 WHERE uid = $4`,
		displayName, photoURL, roleClass, uid)
	if err != nil {
		return fmt.Errorf("failed to cascade profile update into participants: %w", err)
	}
	return nil
}
