package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

type QueueService interface {
	Join(ctx context.Context, actor *models.User, guildID string) (*models.BossQueueEntry, error)
	List(ctx context.Context, guildID string) ([]*models.BossQueueEntry, error)
	Leave(ctx context.Context, actor *models.User, guildID string) error
	PopNext(ctx context.Context, actor *models.User, guildID string) (*models.BossQueueEntry, error)
	Reset(ctx context.Context, actor *models.User, guildID string) error
	RotateAll(ctx context.Context) error
}

type queueService struct {
	queueRepo repositories.BossQueueRepository
	guildRepo repositories.GuildRepository
	auditRepo repositories.AuditRepository
	hub       *arena.Hub
	logger    *slog.Logger
}

func NewQueueService(
	queueRepo repositories.BossQueueRepository,
	guildRepo repositories.GuildRepository,
	auditRepo repositories.AuditRepository,
	hub *arena.Hub,
	logger *slog.Logger,
) QueueService {
	return &queueService{
		queueRepo: queueRepo,
		guildRepo: guildRepo,
		auditRepo: auditRepo,
		hub:       hub,
		logger:    logger,
	}
}

// Join appends the actor to their own guild's boss queue.
func (s *queueService) Join(ctx context.Context, actor *models.User, guildID string) (*models.BossQueueEntry, error) {
	if actor.GuildID == nil || *actor.GuildID != guildID {
		return nil, ErrForbiddenOperation
	}
	if _, err := s.guildRepo.GetByID(ctx, guildID); err != nil {
		if errors.Is(err, repositories.ErrGuildNotFound) {
			return nil, ErrGuildNotFound
		}
		return nil, err
	}

	entry := &models.BossQueueEntry{
		GuildID:     guildID,
		UID:         actor.UID,
		DisplayName: actor.DisplayName,
	}
	if err := s.queueRepo.Join(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrQueueEntryConflict) {
			return nil, ErrAlreadyQueued
		}
		return nil, err
	}

	s.hub.Publish(guildID, arena.EventQueueUpdated, nil)
	return entry, nil
}

func (s *queueService) List(ctx context.Context, guildID string) ([]*models.BossQueueEntry, error) {
	if _, err := s.guildRepo.GetByID(ctx, guildID); err != nil {
		if errors.Is(err, repositories.ErrGuildNotFound) {
			return nil, ErrGuildNotFound
		}
		return nil, err
	}
	return s.queueRepo.ListByGuild(ctx, guildID)
}

func (s *queueService) Leave(ctx context.Context, actor *models.User, guildID string) error {
	if err := s.queueRepo.RemoveByUID(ctx, guildID, actor.UID); err != nil {
		if errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.hub.Publish(guildID, arena.EventQueueUpdated, nil)
	return nil
}

// PopNext hands the head of the queue its turn and removes it.
func (s *queueService) PopNext(ctx context.Context, actor *models.User, guildID string) (*models.BossQueueEntry, error) {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return nil, err
	}

	entries, err := s.queueRepo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrQueueEmpty
	}

	head := entries[0]
	if err := s.queueRepo.RemoveByUID(ctx, guildID, head.UID); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "queue.pop", strPtr(guildID), head.DisplayName)
	s.hub.Publish(guildID, arena.EventQueueUpdated, head)
	return head, nil
}

func (s *queueService) Reset(ctx context.Context, actor *models.User, guildID string) error {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return err
	}
	if err := s.queueRepo.Clear(ctx, guildID); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "queue.reset", strPtr(guildID), "")
	s.hub.Publish(guildID, arena.EventQueueUpdated, nil)
	return nil
}

// RotateAll clears every guild's queue. Run by the weekly scheduler job after
// the boss cycle closes.
func (s *queueService) RotateAll(ctx context.Context) error {
	guilds, err := s.guildRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, g := range guilds {
		if err := s.queueRepo.Clear(ctx, g.ID); err != nil {
			s.logger.Error("failed to rotate boss queue",
				slog.String("guild_id", g.ID), slog.Any("error", err))
			continue
		}
		s.hub.Publish(g.ID, arena.EventQueueUpdated, nil)
	}
	return nil
}
