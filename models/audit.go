package models

import "time"

// AuditEntry records one manager mutation: who did what, against which
// context, with a short human-readable detail string.
type AuditEntry struct {
	ID        int       `json:"id" db:"id"`
	ActorUID  string    `json:"actor_uid" db:"actor_uid"`
	ActorName string    `json:"actor_name" db:"actor_name"`
	Action    string    `json:"action" db:"action"`
	ContextID *string   `json:"context_id,omitempty" db:"context_id"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
