package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
	"github.com/google/uuid"
)

type ParticipantService interface {
	Apply(ctx context.Context, actor *models.User, contextID string) (*models.Participant, error)
	List(ctx context.Context, contextID string, status *models.ParticipantStatus) ([]*models.Participant, error)
	Approve(ctx context.Context, actor *models.User, contextID, participantID string) error
	Deny(ctx context.Context, actor *models.User, contextID, participantID string) error
	SetPoints(ctx context.Context, actor *models.User, contextID, participantID string, points int) error
	Remove(ctx context.Context, actor *models.User, contextID, participantID string) error
	Leave(ctx context.Context, actor *models.User, contextID string) error
}

type participantService struct {
	db              *sql.DB
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	guildRepo       repositories.GuildRepository
	auditRepo       repositories.AuditRepository
	contextService  ContextService
	hub             *arena.Hub
	logger          *slog.Logger
}

func NewParticipantService(
	db *sql.DB,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	guildRepo repositories.GuildRepository,
	auditRepo repositories.AuditRepository,
	contextService ContextService,
	hub *arena.Hub,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		db:              db,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		guildRepo:       guildRepo,
		auditRepo:       auditRepo,
		contextService:  contextService,
		hub:             hub,
		logger:          logger,
	}
}

// Apply files the actor's own entry into a context. Guild entries reuse the
// uid as the row key so re-applying after a denied cycle is a clean conflict,
// custom entries get a synthetic id. Either way the entry starts pending.
func (s *participantService) Apply(ctx context.Context, actor *models.User, contextID string) (*models.Participant, error) {
	tc, err := s.contextService.Lookup(ctx, contextID)
	if err != nil {
		return nil, err
	}

	p := &models.Participant{
		ContextID:   contextID,
		UID:         actor.UID,
		DisplayName: actor.DisplayName,
		RoleClass:   actor.RoleClass,
		Status:      models.ParticipantPending,
	}
	if actor.PhotoURL != nil {
		p.PhotoURL = *actor.PhotoURL
	}

	switch tc.Kind {
	case models.ContextGuild:
		if actor.GuildID == nil || *actor.GuildID != contextID {
			return nil, ErrForbiddenOperation
		}
		p.ID = actor.UID
	case models.ContextCustom:
		p.ID = uuid.NewString()
		if actor.GuildID != nil {
			if guild, err := s.guildRepo.GetByID(ctx, *actor.GuildID); err == nil {
				p.GuildName = guild.Name
			}
		}
	}

	if err := s.participantRepo.Create(ctx, p); err != nil {
		if !errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, err
		}
		// Re-application: a denied entry goes back to pending, anything else
		// is a genuine conflict.
		existing, findErr := s.participantRepo.FindByContextAndUID(ctx, contextID, actor.UID)
		if findErr != nil {
			return nil, findErr
		}
		if existing.Status != models.ParticipantDenied {
			return nil, ErrAlreadyApplied
		}
		if err := s.participantRepo.UpdateStatus(ctx, existing.ID, models.ParticipantPending); err != nil {
			return nil, err
		}
		existing.Status = models.ParticipantPending
		p = existing
	}

	s.hub.Publish(contextID, arena.EventParticipantsUpdated, p)
	return p, nil
}

func (s *participantService) List(ctx context.Context, contextID string, status *models.ParticipantStatus) ([]*models.Participant, error) {
	if _, err := s.contextService.Lookup(ctx, contextID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByContext(ctx, contextID, status)
}

func (s *participantService) Approve(ctx context.Context, actor *models.User, contextID, participantID string) error {
	return s.setStatus(ctx, actor, contextID, participantID, models.ParticipantApproved, "participant.approve")
}

func (s *participantService) Deny(ctx context.Context, actor *models.User, contextID, participantID string) error {
	return s.setStatus(ctx, actor, contextID, participantID, models.ParticipantDenied, "participant.deny")
}

func (s *participantService) setStatus(ctx context.Context, actor *models.User, contextID, participantID string, status models.ParticipantStatus, action string) error {
	p, err := s.authorizeAndFetch(ctx, actor, contextID, participantID)
	if err != nil {
		return err
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, status); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, action, strPtr(contextID), p.DisplayName)
	s.hub.Publish(contextID, arena.EventParticipantsUpdated, nil)
	return nil
}

func (s *participantService) SetPoints(ctx context.Context, actor *models.User, contextID, participantID string, points int) error {
	p, err := s.authorizeAndFetch(ctx, actor, contextID, participantID)
	if err != nil {
		return err
	}

	if err := s.participantRepo.UpdatePoints(ctx, participantID, points); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "participant.set_points", strPtr(contextID),
		fmt.Sprintf("%s to %d points", p.DisplayName, points))
	s.hub.Publish(contextID, arena.EventParticipantsUpdated, nil)
	return nil
}

// Remove deletes a participant by manager decision and scrubs them out of
// every unresolved slot they still occupy.
func (s *participantService) Remove(ctx context.Context, actor *models.User, contextID, participantID string) error {
	p, err := s.authorizeAndFetch(ctx, actor, contextID, participantID)
	if err != nil {
		return err
	}

	if err := s.removeAndScrub(ctx, contextID, p); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "participant.remove", strPtr(contextID), p.DisplayName)
	return nil
}

// Leave is the voluntary path out of a context: only approved participants
// have anything to withdraw from, pending applicants cancel via Remove by a
// manager or simply wait for a decision.
func (s *participantService) Leave(ctx context.Context, actor *models.User, contextID string) error {
	if _, err := s.contextService.Lookup(ctx, contextID); err != nil {
		return err
	}

	p, err := s.participantRepo.FindByContextAndUID(ctx, contextID, actor.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	if p.Status != models.ParticipantApproved {
		return ErrParticipantNotInGame
	}

	if err := s.removeAndScrub(ctx, contextID, p); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "participant.leave", strPtr(contextID), p.DisplayName)
	return nil
}

func (s *participantService) removeAndScrub(ctx context.Context, contextID string, p *models.Participant) error {
	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return err
	}
	changed := arena.ScrubParticipant(matches, p.UID)

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.participantRepo.Delete(ctx, tx, p.ID); err != nil {
			return err
		}
		for _, m := range changed {
			if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	s.hub.Publish(contextID, arena.EventParticipantsUpdated, nil)
	if len(changed) > 0 {
		s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	}
	return nil
}

func (s *participantService) authorizeAndFetch(ctx context.Context, actor *models.User, contextID, participantID string) (*models.Participant, error) {
	tc, err := s.contextService.Lookup(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if err := authorizeContextManager(actor, tc); err != nil {
		return nil, err
	}

	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if p.ContextID != contextID {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}
