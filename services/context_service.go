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
	"golang.org/x/sync/errgroup"
)

// ContextView is the full snapshot a freshly opened window renders from:
// the context record, its participants and matches, plus the live podium.
type ContextView struct {
	Context      *models.TournamentContext `json:"context"`
	Participants []*models.Participant     `json:"participants"`
	Matches      []*models.Match           `json:"matches"`
	Podium       *arena.Podium             `json:"podium,omitempty"`
}

type CreateTournamentInput struct {
	Title          string `json:"title"`
	HasGrandFinale bool   `json:"has_grand_finale"`
	HideRankings   bool   `json:"hide_rankings"`
}

type ContextService interface {
	ListGuilds(ctx context.Context) ([]*models.Guild, error)
	ListCustomTournaments(ctx context.Context) ([]*models.CustomTournament, error)
	CreateCustomTournament(ctx context.Context, actor *models.User, input CreateTournamentInput) (*models.CustomTournament, error)
	DeleteCustomTournament(ctx context.Context, actor *models.User, id string) error
	UpdateGuildFlags(ctx context.Context, actor *models.User, guildID string, hasGrandFinale, hideRankings bool) error
	Lookup(ctx context.Context, contextID string) (*models.TournamentContext, error)
	GetContextView(ctx context.Context, contextID string) (*ContextView, error)
}

type contextService struct {
	db              *sql.DB
	guildRepo       repositories.GuildRepository
	tournamentRepo  repositories.CustomTournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	auditRepo       repositories.AuditRepository
	hub             *arena.Hub
	logger          *slog.Logger
}

func NewContextService(
	db *sql.DB,
	guildRepo repositories.GuildRepository,
	tournamentRepo repositories.CustomTournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	auditRepo repositories.AuditRepository,
	hub *arena.Hub,
	logger *slog.Logger,
) ContextService {
	return &contextService{
		db:              db,
		guildRepo:       guildRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		auditRepo:       auditRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *contextService) ListGuilds(ctx context.Context) ([]*models.Guild, error) {
	return s.guildRepo.List(ctx)
}

func (s *contextService) ListCustomTournaments(ctx context.Context) ([]*models.CustomTournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *contextService) CreateCustomTournament(ctx context.Context, actor *models.User, input CreateTournamentInput) (*models.CustomTournament, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	t := &models.CustomTournament{
		ID:             uuid.NewString(),
		Title:          input.Title,
		HasGrandFinale: input.HasGrandFinale,
		HideRankings:   input.HideRankings,
		CreatedBy:      actor.UID,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "tournament.create", strPtr(t.ID), t.Title)
	return t, nil
}

// DeleteCustomTournament removes a custom context together with its
// participants and matches, in one transaction.
func (s *contextService) DeleteCustomTournament(ctx context.Context, actor *models.User, id string) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByContext(ctx, tx, id); err != nil {
			return err
		}
		if err := s.participantRepo.DeleteByContext(ctx, tx, id); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "tournament.delete", strPtr(id), "")
	return nil
}

func (s *contextService) UpdateGuildFlags(ctx context.Context, actor *models.User, guildID string, hasGrandFinale, hideRankings bool) error {
	if err := authorizeGuildManager(actor, guildID); err != nil {
		return err
	}
	if err := s.guildRepo.UpdateFlags(ctx, guildID, hasGrandFinale, hideRankings); err != nil {
		if errors.Is(err, repositories.ErrGuildNotFound) {
			return ErrGuildNotFound
		}
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "guild.update_flags", strPtr(guildID),
		fmt.Sprintf("grand_finale=%t hide_rankings=%t", hasGrandFinale, hideRankings))
	return nil
}

// Lookup resolves a bare context id against both context collections: guilds
// first, then custom tournaments. The two collections share the pointer
// fields but are distinct entities, so consumers get the tagged union.
func (s *contextService) Lookup(ctx context.Context, contextID string) (*models.TournamentContext, error) {
	guild, err := s.guildRepo.GetByID(ctx, contextID)
	if err == nil {
		return guild.Context(), nil
	}
	if !errors.Is(err, repositories.ErrGuildNotFound) {
		return nil, fmt.Errorf("failed to probe guild collection: %w", err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, contextID)
	if err == nil {
		return tournament.Context(), nil
	}
	if !errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, fmt.Errorf("failed to probe tournament collection: %w", err)
	}
	return nil, ErrContextNotFound
}

func (s *contextService) GetContextView(ctx context.Context, contextID string) (*ContextView, error) {
	tc, err := s.Lookup(ctx, contextID)
	if err != nil {
		return nil, err
	}

	view := &ContextView{Context: tc}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		participants, err := s.participantRepo.ListByContext(gCtx, contextID, nil)
		if err != nil {
			return err
		}
		view.Participants = participants
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByContext(gCtx, contextID)
		if err != nil {
			return err
		}
		view.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble view for context %s: %w", contextID, err)
	}

	// Custom contexts resolve the podium live on every read; guild contexts
	// additionally carry the frozen snapshot inside the context record.
	view.Podium = arena.ResolvePodium(view.Matches)
	return view, nil
}
