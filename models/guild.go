package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ArenaWinner is one row of the frozen top-3 snapshot taken when a guild's
// arena concludes. The snapshot outlives the bracket it came from so the
// champions banner can render before the next cycle's bracket exists.
type ArenaWinner struct {
	Rank        int       `json:"rank"`
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type ArenaWinners []ArenaWinner

func (w ArenaWinners) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

func (w *ArenaWinners) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for ArenaWinners", src)
	}
	return json.Unmarshal(b, w)
}

// Guild is a branch of the Black Rose community. Each guild doubles as a
// persistent tournament context for its recurring arena.
type Guild struct {
	ID                  string       `json:"id" db:"id"`
	Name                string       `json:"name" db:"name"`
	HasGrandFinale      bool         `json:"has_grand_finale" db:"has_grand_finale"`
	HideRankings        bool         `json:"hide_rankings" db:"hide_rankings"`
	ActiveStreamMatchID *int         `json:"active_stream_match_id,omitempty" db:"active_stream_match_id"`
	ActiveBannerMatchID *int         `json:"active_banner_match_id,omitempty" db:"active_banner_match_id"`
	LastArenaWinners    ArenaWinners `json:"last_arena_winners,omitempty" db:"last_arena_winners"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
}
