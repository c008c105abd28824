package models

import "time"

// PartyNotice is a scheduled party-finder announcement. The scheduler picks
// up due rows and pushes them into the guild's websocket room.
type PartyNotice struct {
	ID        int        `json:"id" db:"id"`
	GuildID   string     `json:"guild_id" db:"guild_id"`
	Message   string     `json:"message" db:"message"`
	NotifyAt  time.Time  `json:"notify_at" db:"notify_at"`
	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedBy string     `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
