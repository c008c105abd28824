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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email is already taken")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByGuild(ctx context.Context, guildID string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, exec SQLExecutor, user *models.User) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `uid, display_name, email, password_hash, role, role_class, guild_id, weapon_loadout, photo_key, created_at`

func (r *postgresUserRepository) scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.UID,
		&u.DisplayName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.RoleClass,
		&u.GuildID,
		&u.WeaponLoadout,
		&u.PhotoKey,
		&u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uid, display_name, email, password_hash, role, role_class, guild_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UID,
		user.DisplayName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.RoleClass,
		user.GuildID,
	).Scan(&user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	err := r.scanUser(r.db.QueryRowContext(ctx, query, args...), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresUserRepository) ListByGuild(ctx context.Context, guildID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE guild_id = $1 ORDER BY display_name`
	rows, err := r.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := r.scanUser(rows, u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		UPDATE users
		SET display_name = $1, role_class = $2, weapon_loadout = $3, photo_key = $4
		WHERE uid = $5`

	result, err := exec.ExecContext(ctx, query,
		user.DisplayName,
		user.RoleClass,
		user.WeaponLoadout,
		user.PhotoKey,
		user.UID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
