package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

type FileLeaveInput struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

type LeaveService interface {
	File(ctx context.Context, actor *models.User, input FileLeaveInput) (*models.LeaveRequest, error)
	ListByGuild(ctx context.Context, actor *models.User, guildID string) ([]*models.LeaveRequest, error)
	Approve(ctx context.Context, actor *models.User, guildID string, id int) error
	Deny(ctx context.Context, actor *models.User, guildID string, id int) error
}

type leaveService struct {
	leaveRepo repositories.LeaveRepository
	auditRepo repositories.AuditRepository
	logger    *slog.Logger
}

func NewLeaveService(leaveRepo repositories.LeaveRepository, auditRepo repositories.AuditRepository, logger *slog.Logger) LeaveService {
	return &leaveService{leaveRepo: leaveRepo, auditRepo: auditRepo, logger: logger}
}

// File records an absence for the actor's own guild.
func (s *leaveService) File(ctx context.Context, actor *models.User, input FileLeaveInput) (*models.LeaveRequest, error) {
	if actor.GuildID == nil {
		return nil, ErrForbiddenOperation
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidLeaveRange
	}

	l := &models.LeaveRequest{
		GuildID:     *actor.GuildID,
		UID:         actor.UID,
		DisplayName: actor.DisplayName,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Reason:      input.Reason,
		Status:      models.LeavePending,
	}
	if err := s.leaveRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListByGuild is manager-only; members see only their own filing via the
// create response.
func (s *leaveService) ListByGuild(ctx context.Context, actor *models.User, guildID string) ([]*models.LeaveRequest, error) {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return nil, err
	}
	return s.leaveRepo.ListByGuild(ctx, guildID)
}

func (s *leaveService) Approve(ctx context.Context, actor *models.User, guildID string, id int) error {
	return s.decide(ctx, actor, guildID, id, models.LeaveApproved, "leave.approve")
}

func (s *leaveService) Deny(ctx context.Context, actor *models.User, guildID string, id int) error {
	return s.decide(ctx, actor, guildID, id, models.LeaveDenied, "leave.deny")
}

func (s *leaveService) decide(ctx context.Context, actor *models.User, guildID string, id int, status models.LeaveStatus, action string) error {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return err
	}
	if err := s.leaveRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrLeaveRequestNotFound) {
			return ErrNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, action, strPtr(guildID), fmt.Sprintf("request %d", id))
	return nil
}
