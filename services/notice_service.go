package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

type CreateNoticeInput struct {
	Message  string    `json:"message"`
	NotifyAt time.Time `json:"notify_at"`
}

type NoticeService interface {
	Create(ctx context.Context, actor *models.User, guildID string, input CreateNoticeInput) (*models.PartyNotice, error)
	ListByGuild(ctx context.Context, guildID string) ([]*models.PartyNotice, error)
	Delete(ctx context.Context, actor *models.User, guildID string, id int) error
	DispatchDue(ctx context.Context) error
}

type noticeService struct {
	noticeRepo repositories.NoticeRepository
	hub        *arena.Hub
	logger     *slog.Logger
}

func NewNoticeService(noticeRepo repositories.NoticeRepository, hub *arena.Hub, logger *slog.Logger) NoticeService {
	return &noticeService{noticeRepo: noticeRepo, hub: hub, logger: logger}
}

func (s *noticeService) Create(ctx context.Context, actor *models.User, guildID string, input CreateNoticeInput) (*models.PartyNotice, error) {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return nil, err
	}
	if input.Message == "" {
		return nil, ErrMessageRequired
	}

	notifyAt := input.NotifyAt
	if notifyAt.IsZero() {
		notifyAt = time.Now()
	}

	n := &models.PartyNotice{
		GuildID:   guildID,
		Message:   input.Message,
		NotifyAt:  notifyAt,
		CreatedBy: actor.UID,
	}
	if err := s.noticeRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *noticeService) ListByGuild(ctx context.Context, guildID string) ([]*models.PartyNotice, error) {
	return s.noticeRepo.ListByGuild(ctx, guildID)
}

func (s *noticeService) Delete(ctx context.Context, actor *models.User, guildID string, id int) error {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return err
	}
	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DispatchDue pushes every unsent due notice into its guild's room and marks
// it sent. Run on a short interval by the scheduler.
func (s *noticeService) DispatchDue(ctx context.Context) error {
	now := time.Now()
	due, err := s.noticeRepo.ListDue(ctx, now)
	if err != nil {
		return err
	}

	for _, n := range due {
		s.hub.Publish(n.GuildID, arena.EventPartyNotice, n)
		if err := s.noticeRepo.MarkSent(ctx, n.ID, now); err != nil {
			s.logger.Error("failed to mark party notice sent",
				slog.Int("id", n.ID), slog.Any("error", err))
		}
	}
	return nil
}
