package models

import "time"

// KillRecord is a boss-kill speedround entry on a guild's leaderboard,
// ranked by clear time ascending.
type KillRecord struct {
	ID          int       `json:"id" db:"id"`
	GuildID     string    `json:"guild_id" db:"guild_id"`
	Boss        string    `json:"boss" db:"boss"`
	ClearMillis int64     `json:"clear_millis" db:"clear_millis"`
	Party       []string  `json:"party" db:"party"`
	ProofKey    *string   `json:"-" db:"proof_key"`
	ProofURL    *string   `json:"proof_url,omitempty" db:"-"`
	RecordedBy  string    `json:"recorded_by" db:"recorded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
