package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveDenied   LeaveStatus = "denied"
)

// LeaveRequest is a filed absence: a member declares a date range they will
// miss, an officer approves or denies it.
type LeaveRequest struct {
	ID          int         `json:"id" db:"id"`
	GuildID     string      `json:"guild_id" db:"guild_id"`
	UID         string      `json:"uid" db:"uid"`
	DisplayName string      `json:"display_name" db:"display_name"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	Reason      string      `json:"reason" db:"reason"`
	Status      LeaveStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
