package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlayerSnapshot is a denormalized copy of a participant embedded in a match
// slot, so display surfaces can render without a join. Profile edits must
// cascade into every snapshot holding the same uid (see ProfileService).
type PlayerSnapshot struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	RoleClass   string `json:"role_class,omitempty"`
	GuildName   string `json:"guild_name,omitempty"`
}

func (s *PlayerSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *PlayerSnapshot) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for PlayerSnapshot", src)
	}
	return json.Unmarshal(b, s)
}

// Match is a single bracket node. Round is 1-based and increases toward the
// final; the third-place match sits outside the numbered tree at a reserved
// round value with IsThirdPlace set. Within a context no two non-third-place
// matches share (round, position).
type Match struct {
	ID           int             `json:"id" db:"id"`
	ContextID    string          `json:"context_id" db:"context_id"`
	Round        int             `json:"round" db:"round"`
	Position     int             `json:"position" db:"position"`
	Player1      *PlayerSnapshot `json:"player1,omitempty" db:"player1"`
	Player2      *PlayerSnapshot `json:"player2,omitempty" db:"player2"`
	Winner       *PlayerSnapshot `json:"winner,omitempty" db:"winner"`
	IsThirdPlace bool            `json:"is_third_place" db:"is_third_place"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Ready reports whether both slots are filled and no winner is declared yet,
// i.e. the match can go live.
func (m *Match) Ready() bool {
	return m.Player1 != nil && m.Player2 != nil && m.Winner == nil
}

// HoldsUID reports whether the uid occupies any slot of the match.
func (m *Match) HoldsUID(uid string) bool {
	return (m.Player1 != nil && m.Player1.UID == uid) ||
		(m.Player2 != nil && m.Player2.UID == uid) ||
		(m.Winner != nil && m.Winner.UID == uid)
}
