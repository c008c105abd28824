package models

import "time"

// BossQueueEntry is one member's place in a guild's FIFO turn queue for the
// weekly boss fight. Position is assigned on join and never reshuffled.
type BossQueueEntry struct {
	ID          int       `json:"id" db:"id"`
	GuildID     string    `json:"guild_id" db:"guild_id"`
	UID         string    `json:"uid" db:"uid"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Position    int       `json:"position" db:"position"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}
