package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	RoleClass   string  `json:"role_class"`
	GuildID     *string `json:"guild_id,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	guildRepo repositories.GuildRepository
}

func NewAuthService(userRepo repositories.UserRepository, guildRepo repositories.GuildRepository) AuthService {
	return &authService{userRepo: userRepo, guildRepo: guildRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.DisplayName == "" || input.Email == "" {
		return nil, ErrValidationFailed
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if input.GuildID != nil {
		if _, err := s.guildRepo.GetByID(ctx, *input.GuildID); err != nil {
			if errors.Is(err, repositories.ErrGuildNotFound) {
				return nil, ErrGuildNotFound
			}
			return nil, fmt.Errorf("failed to verify guild: %w", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UID:          uuid.NewString(),
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		RoleClass:    input.RoleClass,
		GuildID:      input.GuildID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
