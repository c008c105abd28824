package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

// CustomPairing names the two participants of one manually built matchup.
// The second side may be empty for an odd entrant count.
type CustomPairing struct {
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id,omitempty"`
}

type BracketService interface {
	InitializeStandard(ctx context.Context, actor *models.User, contextID string, size int) ([]*models.Match, error)
	InitializeCustom(ctx context.Context, actor *models.User, contextID string, pairings []CustomPairing) ([]*models.Match, error)
	ResetBracket(ctx context.Context, actor *models.User, contextID string) error
	ShuffleSeed(ctx context.Context, actor *models.User, contextID string) error
	DeclareWinner(ctx context.Context, actor *models.User, contextID string, matchID int, winnerUID string) error
	ClearSlot(ctx context.Context, actor *models.User, contextID string, matchID int, slot arena.Slot) error
	AssignSlot(ctx context.Context, actor *models.User, contextID string, matchID int, slot arena.Slot, participantID string) error
}

type bracketService struct {
	db              *sql.DB
	guildRepo       repositories.GuildRepository
	tournamentRepo  repositories.CustomTournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	auditRepo       repositories.AuditRepository
	contextService  ContextService
	hub             *arena.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	guildRepo repositories.GuildRepository,
	tournamentRepo repositories.CustomTournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	auditRepo repositories.AuditRepository,
	contextService ContextService,
	hub *arena.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		guildRepo:       guildRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		auditRepo:       auditRepo,
		contextService:  contextService,
		hub:             hub,
		logger:          logger,
	}
}

func (s *bracketService) authorize(ctx context.Context, actor *models.User, contextID string) (*models.TournamentContext, error) {
	tc, err := s.contextService.Lookup(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if err := authorizeContextManager(actor, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

// InitializeStandard replaces the context's bracket with an empty skeleton of
// the given size. Destructive: every existing match is deleted first, so the
// caller confirms before invoking.
func (s *bracketService) InitializeStandard(ctx context.Context, actor *models.User, contextID string, size int) ([]*models.Match, error) {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return nil, err
	}

	matches, err := arena.GenerateStandard(contextID, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := s.replaceBracket(ctx, contextID, matches); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "bracket.initialize", strPtr(contextID), fmt.Sprintf("standard size %d", size))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	return matches, nil
}

// InitializeCustom replaces the bracket with a single-round skirmish built
// from manually paired participants.
func (s *bracketService) InitializeCustom(ctx context.Context, actor *models.User, contextID string, pairings []CustomPairing) ([]*models.Match, error) {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return nil, err
	}

	pairs := make([]arena.Pairing, 0, len(pairings))
	for _, pr := range pairings {
		pair := arena.Pairing{}
		p1, err := s.lookupParticipant(ctx, contextID, pr.Player1ID)
		if err != nil {
			return nil, err
		}
		pair.Player1 = p1.Snapshot()
		if pr.Player2ID != "" {
			p2, err := s.lookupParticipant(ctx, contextID, pr.Player2ID)
			if err != nil {
				return nil, err
			}
			pair.Player2 = p2.Snapshot()
		}
		pairs = append(pairs, pair)
	}

	matches, err := arena.GenerateCustom(contextID, pairs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := s.replaceBracket(ctx, contextID, matches); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "bracket.initialize", strPtr(contextID), fmt.Sprintf("custom with %d matchups", len(pairs)))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	return matches, nil
}

func (s *bracketService) lookupParticipant(ctx context.Context, contextID, participantID string) (*models.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if p.ContextID != contextID {
		return nil, fmt.Errorf("%w: participant %s belongs to another context", ErrValidationFailed, participantID)
	}
	return p, nil
}

func (s *bracketService) replaceBracket(ctx context.Context, contextID string, matches []*models.Match) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByContext(ctx, tx, contextID); err != nil {
			return err
		}
		return s.matchRepo.CreateBatch(ctx, tx, matches)
	})
}

// ResetBracket deletes every match of the context without creating new ones.
func (s *bracketService) ResetBracket(ctx context.Context, actor *models.User, contextID string) error {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return err
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matchRepo.DeleteByContext(ctx, tx, contextID)
	})
	if err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "bracket.reset", strPtr(contextID), "")
	s.hub.Publish(contextID, arena.EventBracketUpdated, []*models.Match{})
	return nil
}

// ShuffleSeed wipes the whole bracket and reseeds round 1 with a random
// permutation of the approved participants.
func (s *bracketService) ShuffleSeed(ctx context.Context, actor *models.User, contextID string) error {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return err
	}

	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return err
	}
	approvedStatus := models.ParticipantApproved
	approved, err := s.participantRepo.ListByContext(ctx, contextID, &approvedStatus)
	if err != nil {
		return err
	}

	changed := arena.Shuffle(matches, approved)

	if err := s.writeChanged(ctx, changed); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "bracket.shuffle", strPtr(contextID), fmt.Sprintf("%d approved participants", len(approved)))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	return nil
}

// DeclareWinner records a match result and persists every downstream
// mutation the advancement engine computed in one batch. Deciding the final
// freezes the podium onto guild contexts.
func (s *bracketService) DeclareWinner(ctx context.Context, actor *models.User, contextID string, matchID int, winnerUID string) error {
	tc, err := s.authorize(ctx, actor, contextID)
	if err != nil {
		return err
	}

	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return err
	}

	changed, champion, err := arena.DeclareWinner(matches, matchID, winnerUID)
	if err != nil {
		return mapArenaError(err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, m := range changed {
			if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
				return err
			}
		}
		if champion && tc.Kind == models.ContextGuild {
			winners := podiumToWinners(arena.ResolvePodium(matches))
			if err := s.guildRepo.UpdateLastArenaWinners(ctx, tx, contextID, winners); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "match.declare_winner", strPtr(contextID), fmt.Sprintf("match %d won by %s", matchID, winnerUID))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	if champion {
		s.hub.Publish(contextID, arena.EventChampionDeclared, arena.ResolvePodium(matches))
	}
	return nil
}

// ClearSlot empties one slot of a match. Deliberately does not walk forward:
// anything already advanced from this match stays where it is.
func (s *bracketService) ClearSlot(ctx context.Context, actor *models.User, contextID string, matchID int, slot arena.Slot) error {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return err
	}

	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return err
	}

	changed, err := arena.ClearSlot(matches, matchID, slot)
	if err != nil {
		return mapArenaError(err)
	}
	if err := s.writeChanged(ctx, changed); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "match.clear_slot", strPtr(contextID), fmt.Sprintf("match %d slot %d", matchID, slot))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	return nil
}

// AssignSlot drops a participant into an empty or occupied slot. Rejected if
// the participant already sits anywhere in the bracket.
func (s *bracketService) AssignSlot(ctx context.Context, actor *models.User, contextID string, matchID int, slot arena.Slot, participantID string) error {
	if _, err := s.authorize(ctx, actor, contextID); err != nil {
		return err
	}

	p, err := s.lookupParticipant(ctx, contextID, participantID)
	if err != nil {
		return err
	}

	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return err
	}

	changed, err := arena.AssignSlot(matches, matchID, slot, p.Snapshot())
	if err != nil {
		return mapArenaError(err)
	}
	if err := s.writeChanged(ctx, changed); err != nil {
		return err
	}

	recordAudit(ctx, s.auditRepo, s.logger, actor, "match.assign_slot", strPtr(contextID), fmt.Sprintf("%s into match %d slot %d", p.UID, matchID, slot))
	s.hub.Publish(contextID, arena.EventBracketUpdated, matches)
	return nil
}

func (s *bracketService) writeChanged(ctx context.Context, changed []*models.Match) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, m := range changed {
			if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func mapArenaError(err error) error {
	switch {
	case errors.Is(err, arena.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, arena.ErrMatchNotReady),
		errors.Is(err, arena.ErrNotAPlayer),
		errors.Is(err, arena.ErrInvalidSlot),
		errors.Is(err, arena.ErrAlreadyAssigned):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}

func podiumToWinners(p *arena.Podium) models.ArenaWinners {
	if p == nil {
		return nil
	}
	now := time.Now()
	var winners models.ArenaWinners
	for rank, snap := range map[int]*models.PlayerSnapshot{1: p.First, 2: p.Second, 3: p.Third} {
		if snap == nil {
			continue
		}
		winners = append(winners, models.ArenaWinner{
			Rank:        rank,
			UID:         snap.UID,
			DisplayName: snap.DisplayName,
			PhotoURL:    snap.PhotoURL,
			RecordedAt:  now,
		})
	}
	return winners
}
