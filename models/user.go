package models

import "time"

type UserRole string

const (
	RoleMember  UserRole = "member"
	RoleOfficer UserRole = "officer"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	UID           string    `json:"uid" db:"uid"`
	DisplayName   string    `json:"display_name" db:"display_name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Role          UserRole  `json:"role" db:"role"`
	RoleClass     string    `json:"role_class" db:"role_class"` // in-game class tag shown as a badge
	GuildID       *string   `json:"guild_id,omitempty" db:"guild_id"`
	WeaponLoadout *string   `json:"weapon_loadout,omitempty" db:"weapon_loadout"`
	PhotoKey      *string   `json:"-" db:"photo_key"`
	PhotoURL      *string   `json:"photo_url,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// IsManagerOf reports whether the user may mutate state scoped to the given
// guild context. Admins manage everything, officers only their own branch.
func (u *User) IsManagerOf(guildID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleOfficer && u.GuildID != nil && *u.GuildID == guildID
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
