package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
	"github.com/blackrose-gg/guild-system/storage"
	"github.com/google/uuid"
)

type SubmitRecordInput struct {
	Boss        string
	ClearMillis int64
	Party       []string
	// Optional proof screenshot. ProofReader nil means no proof attached.
	ProofContentType string
	ProofReader      io.Reader
}

type LeaderboardService interface {
	SubmitRecord(ctx context.Context, actor *models.User, guildID string, input SubmitRecordInput) (*models.KillRecord, error)
	List(ctx context.Context, guildID string, boss *string) ([]*models.KillRecord, error)
	DeleteRecord(ctx context.Context, actor *models.User, guildID string, id int) error
}

type leaderboardService struct {
	recordRepo repositories.LeaderboardRepository
	guildRepo  repositories.GuildRepository
	auditRepo  repositories.AuditRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewLeaderboardService(
	recordRepo repositories.LeaderboardRepository,
	guildRepo repositories.GuildRepository,
	auditRepo repositories.AuditRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		recordRepo: recordRepo,
		guildRepo:  guildRepo,
		auditRepo:  auditRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

// SubmitRecord files a boss-kill time for the actor's own guild, with an
// optional proof screenshot pushed to the blob store first.
func (s *leaderboardService) SubmitRecord(ctx context.Context, actor *models.User, guildID string, input SubmitRecordInput) (*models.KillRecord, error) {
	if actor.GuildID == nil || *actor.GuildID != guildID {
		return nil, ErrForbiddenOperation
	}
	if input.Boss == "" {
		return nil, ErrBossRequired
	}
	if input.ClearMillis <= 0 {
		return nil, ErrInvalidClearTime
	}

	rec := &models.KillRecord{
		GuildID:     guildID,
		Boss:        input.Boss,
		ClearMillis: input.ClearMillis,
		Party:       input.Party,
		RecordedBy:  actor.UID,
	}

	if input.ProofReader != nil {
		key := fmt.Sprintf("proofs/%s/%s", guildID, uuid.NewString())
		result, err := s.uploader.Upload(ctx, key, input.ProofContentType, input.ProofReader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload kill proof: %w", err)
		}
		rec.ProofKey = &result.Key
	}

	if err := s.recordRepo.Create(ctx, rec); err != nil {
		if rec.ProofKey != nil {
			if delErr := s.uploader.Delete(ctx, *rec.ProofKey); delErr != nil {
				s.logger.Warn("failed to delete orphaned proof upload",
					slog.String("key", *rec.ProofKey), slog.Any("error", delErr))
			}
		}
		return nil, err
	}

	s.resolveProofURL(rec)
	return rec, nil
}

func (s *leaderboardService) List(ctx context.Context, guildID string, boss *string) ([]*models.KillRecord, error) {
	if _, err := s.guildRepo.GetByID(ctx, guildID); err != nil {
		if errors.Is(err, repositories.ErrGuildNotFound) {
			return nil, ErrGuildNotFound
		}
		return nil, err
	}

	records, err := s.recordRepo.ListByGuild(ctx, guildID, boss)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		s.resolveProofURL(rec)
	}
	return records, nil
}

func (s *leaderboardService) DeleteRecord(ctx context.Context, actor *models.User, guildID string, id int) error {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return err
	}
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrKillRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "leaderboard.delete", strPtr(guildID), fmt.Sprintf("record %d", id))
	return nil
}

func (s *leaderboardService) resolveProofURL(rec *models.KillRecord) {
	if rec.ProofKey != nil {
		url := s.uploader.GetPublicURL(*rec.ProofKey)
		rec.ProofURL = &url
	}
}
