package models

import "time"

type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantApproved ParticipantStatus = "approved"
	ParticipantDenied   ParticipantStatus = "denied"
)

// Participant is one user's entry in one tournament context. Guild contexts
// key the row deterministically by uid, custom contexts use a synthetic id;
// either way (context_id, uid) is unique.
type Participant struct {
	ID          string            `json:"id" db:"id"`
	ContextID   string            `json:"context_id" db:"context_id"`
	UID         string            `json:"uid" db:"uid"`
	DisplayName string            `json:"display_name" db:"display_name"`
	PhotoURL    string            `json:"photo_url,omitempty" db:"photo_url"`
	RoleClass   string            `json:"role_class,omitempty" db:"role_class"`
	GuildName   string            `json:"guild_name,omitempty" db:"guild_name"` // provenance badge in custom tournaments
	Points      int               `json:"points" db:"points"`                   // activity points, manual eligibility gate only
	Status      ParticipantStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// Snapshot returns the denormalized copy of this participant that gets
// embedded into match slots.
func (p *Participant) Snapshot() *PlayerSnapshot {
	return &PlayerSnapshot{
		UID:         p.UID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		RoleClass:   p.RoleClass,
		GuildName:   p.GuildName,
	}
}
