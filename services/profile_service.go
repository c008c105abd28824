package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
	"github.com/blackrose-gg/guild-system/storage"
	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	DisplayName   string  `json:"display_name"`
	RoleClass     string  `json:"role_class"`
	WeaponLoadout *string `json:"weapon_loadout,omitempty"`
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error)
	UploadPhoto(ctx context.Context, actor *models.User, contentType string, reader io.Reader) (*models.User, error)
}

type profileService struct {
	db              *sql.DB
	userRepo        repositories.UserRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	hub             *arena.Hub
	logger          *slog.Logger
}

func NewProfileService(
	db *sql.DB,
	userRepo repositories.UserRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	hub *arena.Hub,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		db:              db,
		userRepo:        userRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		hub:             hub,
		logger:          logger,
	}
}

func (s *profileService) Get(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.resolvePhotoURL(user)
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile rewrites the user row and cascades the denormalized copies:
// every participant row and every match slot holding this uid, all in one
// transaction so subscribers never see a half-renamed player.
func (s *profileService) UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.DisplayName == "" {
		return nil, ErrValidationFailed
	}

	user, err := s.userRepo.GetByUID(ctx, actor.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.DisplayName = input.DisplayName
	user.RoleClass = input.RoleClass
	user.WeaponLoadout = input.WeaponLoadout

	touched, err := s.cascade(ctx, user)
	if err != nil {
		return nil, err
	}
	for _, contextID := range touched {
		s.hub.Publish(contextID, arena.EventBracketUpdated, nil)
		s.hub.Publish(contextID, arena.EventParticipantsUpdated, nil)
	}

	s.resolvePhotoURL(user)
	user.PasswordHash = ""
	return user, nil
}

// UploadPhoto stores the image, swaps the user's photo key and cascades the
// new public URL into snapshots. The old object is deleted best-effort after
// commit.
func (s *profileService) UploadPhoto(ctx context.Context, actor *models.User, contentType string, reader io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, actor.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("profiles/%s/%s", user.UID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile photo: %w", err)
	}

	oldKey := user.PhotoKey
	user.PhotoKey = &result.Key

	if _, err := s.cascade(ctx, user); err != nil {
		// The row still points at the old photo; drop the orphaned upload.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Warn("failed to delete orphaned photo upload",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, err
	}

	if oldKey != nil {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete replaced profile photo",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	s.resolvePhotoURL(user)
	user.PasswordHash = ""
	return user, nil
}

// cascade persists the user row and rewrites every denormalized snapshot of
// them. Returns the context ids whose documents changed.
func (s *profileService) cascade(ctx context.Context, user *models.User) ([]string, error) {
	photoURL := ""
	if user.PhotoKey != nil {
		photoURL = s.uploader.GetPublicURL(*user.PhotoKey)
	}

	var touched []string
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.userRepo.UpdateProfile(ctx, tx, user); err != nil {
			return err
		}
		if err := s.participantRepo.UpdateSnapshotsByUID(ctx, tx, user.UID, user.DisplayName, photoURL, user.RoleClass); err != nil {
			return err
		}

		matches, err := s.matchRepo.ListContainingUID(ctx, tx, user.UID)
		if err != nil {
			return err
		}
		seen := map[string]bool{}
		for _, m := range matches {
			for _, snap := range []*models.PlayerSnapshot{m.Player1, m.Player2, m.Winner} {
				if snap == nil || snap.UID != user.UID {
					continue
				}
				snap.DisplayName = user.DisplayName
				snap.PhotoURL = photoURL
				snap.RoleClass = user.RoleClass
			}
			if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
				return err
			}
			if !seen[m.ContextID] {
				seen[m.ContextID] = true
				touched = append(touched, m.ContextID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return touched, nil
}

func (s *profileService) resolvePhotoURL(user *models.User) {
	if user.PhotoKey != nil {
		url := s.uploader.GetPublicURL(*user.PhotoKey)
		user.PhotoURL = &url
	}
}
