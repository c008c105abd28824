package models

import "time"

// CustomTournament is an ad-hoc tournament context created and destroyed by an
// admin, as opposed to a guild's persistent recurring arena. Deleting one
// cascades to its participants and matches.
type CustomTournament struct {
	ID                  string    `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	HasGrandFinale      bool      `json:"has_grand_finale" db:"has_grand_finale"`
	HideRankings        bool      `json:"hide_rankings" db:"hide_rankings"`
	ActiveStreamMatchID *int      `json:"active_stream_match_id,omitempty" db:"active_stream_match_id"`
	ActiveBannerMatchID *int      `json:"active_banner_match_id,omitempty" db:"active_banner_match_id"`
	CreatedBy           string    `json:"created_by" db:"created_by"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

type ContextKind string

const (
	ContextGuild  ContextKind = "guild"
	ContextCustom ContextKind = "custom"
)

// TournamentContext is the tagged union over the two physically separate
// context collections. Guild and custom records share the pointer and podium
// fields but only guild contexts carry a persisted winners snapshot.
type TournamentContext struct {
	Kind                ContextKind  `json:"kind"`
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	HasGrandFinale      bool         `json:"has_grand_finale"`
	HideRankings        bool         `json:"hide_rankings"`
	ActiveStreamMatchID *int         `json:"active_stream_match_id,omitempty"`
	ActiveBannerMatchID *int         `json:"active_banner_match_id,omitempty"`
	LastArenaWinners    ArenaWinners `json:"last_arena_winners,omitempty"`
}

func (g *Guild) Context() *TournamentContext {
	return &TournamentContext{
		Kind:                ContextGuild,
		ID:                  g.ID,
		Title:               g.Name,
		HasGrandFinale:      g.HasGrandFinale,
		HideRankings:        g.HideRankings,
		ActiveStreamMatchID: g.ActiveStreamMatchID,
		ActiveBannerMatchID: g.ActiveBannerMatchID,
		LastArenaWinners:    g.LastArenaWinners,
	}
}

func (t *CustomTournament) Context() *TournamentContext {
	return &TournamentContext{
		Kind:                ContextCustom,
		ID:                  t.ID,
		Title:               t.Title,
		HasGrandFinale:      t.HasGrandFinale,
		HideRankings:        t.HideRankings,
		ActiveStreamMatchID: t.ActiveStreamMatchID,
		ActiveBannerMatchID: t.ActiveBannerMatchID,
	}
}
