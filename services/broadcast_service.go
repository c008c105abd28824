package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
)

// BroadcastPlayer is a match slot enriched for the display surfaces with
// fields the snapshot itself does not carry.
type BroadcastPlayer struct {
	*models.PlayerSnapshot
	WeaponLoadout string `json:"weapon_loadout,omitempty"`
	GuildName     string `json:"guild_name,omitempty"`
}

// VSView is the auto-selected live matchup for the stream overlay. Match is
// nil when nothing is currently live.
type VSView struct {
	ContextID string           `json:"context_id"`
	Match     *models.Match    `json:"match,omitempty"`
	Player1   *BroadcastPlayer `json:"player1,omitempty"`
	Player2   *BroadcastPlayer `json:"player2,omitempty"`
}

// BannerView is the pointer-driven surface. Waiting is set when no banner
// match is pinned, so the page renders its idle state.
type BannerView struct {
	ContextID string               `json:"context_id"`
	Waiting   bool                 `json:"waiting"`
	Match     *models.Match        `json:"match,omitempty"`
	Player1   *BroadcastPlayer     `json:"player1,omitempty"`
	Player2   *BroadcastPlayer     `json:"player2,omitempty"`
	Winners   models.ArenaWinners `json:"last_arena_winners,omitempty"`
}

type BroadcastService interface {
	SetStreamMatch(ctx context.Context, actor *models.User, contextID string, matchID *int) error
	SetBannerMatch(ctx context.Context, actor *models.User, contextID string, matchID *int) error
	GetVSView(ctx context.Context, contextID string) (*VSView, error)
	GetBannerView(ctx context.Context, contextID string) (*BannerView, error)
}

type broadcastService struct {
	guildRepo      repositories.GuildRepository
	tournamentRepo repositories.CustomTournamentRepository
	matchRepo      repositories.MatchRepository
	userRepo       repositories.UserRepository
	auditRepo      repositories.AuditRepository
	contextService ContextService
	hub            *arena.Hub
	logger         *slog.Logger
}

func NewBroadcastService(
	guildRepo repositories.GuildRepository,
	tournamentRepo repositories.CustomTournamentRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	contextService ContextService,
	hub *arena.Hub,
	logger *slog.Logger,
) BroadcastService {
	return &broadcastService{
		guildRepo:      guildRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		contextService: contextService,
		hub:            hub,
		logger:         logger,
	}
}

// SetStreamMatch overwrites the stream pointer on whichever collection the
// context id resolves to. Nil clears the pointer.
func (s *broadcastService) SetStreamMatch(ctx context.Context, actor *models.User, contextID string, matchID *int) error {
	return s.setPointer(ctx, actor, contextID, matchID, "broadcast.set_stream",
		s.guildRepo.UpdateStreamPointer, s.tournamentRepo.UpdateStreamPointer)
}

func (s *broadcastService) SetBannerMatch(ctx context.Context, actor *models.User, contextID string, matchID *int) error {
	return s.setPointer(ctx, actor, contextID, matchID, "broadcast.set_banner",
		s.guildRepo.UpdateBannerPointer, s.tournamentRepo.UpdateBannerPointer)
}

func (s *broadcastService) setPointer(
	ctx context.Context,
	actor *models.User,
	contextID string,
	matchID *int,
	action string,
	guildWrite func(context.Context, string, *int) error,
	tournamentWrite func(context.Context, string, *int) error,
) error {
	tc, err := s.contextService.Lookup(ctx, contextID)
	if err != nil {
		return err
	}
	if err := authorizeContextManager(actor, tc); err != nil {
		return err
	}

	if matchID != nil {
		m, err := s.matchRepo.GetByID(ctx, *matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if m.ContextID != contextID {
			return ErrMatchNotFound
		}
	}

	switch tc.Kind {
	case models.ContextGuild:
		err = guildWrite(ctx, contextID, matchID)
	case models.ContextCustom:
		err = tournamentWrite(ctx, contextID, matchID)
	}
	if err != nil {
		return err
	}

	detail := "cleared"
	if matchID != nil {
		detail = "pinned"
	}
	recordAudit(ctx, s.auditRepo, s.logger, actor, action, strPtr(contextID), detail)
	s.hub.Publish(contextID, arena.EventPointerUpdated, matchID)
	return nil
}

// GetVSView auto-selects the best live match. The explicit stream pointer is
// deliberately ignored here: the VS screen follows the bracket, not the
// pointer.
func (s *broadcastService) GetVSView(ctx context.Context, contextID string) (*VSView, error) {
	if _, err := s.contextService.Lookup(ctx, contextID); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByContext(ctx, contextID)
	if err != nil {
		return nil, err
	}

	view := &VSView{ContextID: contextID}
	if live := arena.PickLiveMatch(matches); live != nil {
		view.Match = live
		view.Player1 = s.enrich(ctx, live.Player1)
		view.Player2 = s.enrich(ctx, live.Player2)
	}
	return view, nil
}

// GetBannerView resolves the explicit banner pointer. The context lookup
// doubles as the guild-vs-custom existence probe the banner page needs before
// it knows which collection's pointer it is following.
func (s *broadcastService) GetBannerView(ctx context.Context, contextID string) (*BannerView, error) {
	tc, err := s.contextService.Lookup(ctx, contextID)
	if err != nil {
		return nil, err
	}

	view := &BannerView{ContextID: contextID, Winners: tc.LastArenaWinners}
	if tc.ActiveBannerMatchID == nil {
		view.Waiting = true
		return view, nil
	}

	m, err := s.matchRepo.GetByID(ctx, *tc.ActiveBannerMatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			// Pointer survived a bracket reset; treat as unset.
			view.Waiting = true
			return view, nil
		}
		return nil, err
	}

	view.Match = m
	view.Player1 = s.enrich(ctx, m.Player1)
	view.Player2 = s.enrich(ctx, m.Player2)
	return view, nil
}

// enrich pulls weapon loadout and guild name from the profile registry.
// Best-effort: lookup failures leave the fields blank, never block rendering.
func (s *broadcastService) enrich(ctx context.Context, snap *models.PlayerSnapshot) *BroadcastPlayer {
	if snap == nil {
		return nil
	}
	p := &BroadcastPlayer{PlayerSnapshot: snap, GuildName: snap.GuildName}

	user, err := s.userRepo.GetByUID(ctx, snap.UID)
	if err != nil {
		s.logger.Warn("broadcast enrichment lookup failed",
			slog.String("uid", snap.UID), slog.Any("error", err))
		return p
	}
	if user.WeaponLoadout != nil {
		p.WeaponLoadout = *user.WeaponLoadout
	}
	if p.GuildName == "" && user.GuildID != nil {
		if guild, err := s.guildRepo.GetByID(ctx, *user.GuildID); err == nil {
			p.GuildName = guild.Name
		}
	}
	return p
}
