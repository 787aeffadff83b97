package models

import "time"

// Member represents one per-group-per-member rollup row.
// MessageCount and LastMessageAt are maintained by the backend, not here.
type Member struct {
	ID        int64      `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	LastSeen  *time.Time `json:"last_seen,omitempty" db:"last_seen"`

	GroupID   string  `json:"group_id" db:"group_id"`
	GroupName *string `json:"group_name,omitempty" db:"group_name"`

	// identity (at most one of number/lid guaranteed present)
	UserID       string  `json:"user_id" db:"user_id"`
	UserName     *string `json:"user_name,omitempty" db:"user_name"`
	UserPushName *string `json:"user_pushname,omitempty" db:"user_pushname"`
	UserNumber   *string `json:"user_number,omitempty" db:"user_number"`
	UserLID      *string `json:"user_lid,omitempty" db:"user_lid"`

	IsAdmin      bool `json:"is_admin" db:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin" db:"is_super_admin"`

	// backend-maintained rollup
	MessageCount  int        `json:"message_count" db:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
}

// Ghost represents one row of the backend's inactive-member view.
// The inactivity threshold (30 days) is applied by the backend, not here.
type Ghost struct {
	GroupName     *string    `json:"group_name,omitempty" db:"group_name"`
	UserNumber    *string    `json:"user_number,omitempty" db:"user_number"`
	UserLID       *string    `json:"user_lid,omitempty" db:"user_lid"`
	UserPushName  *string    `json:"user_pushname,omitempty" db:"user_pushname"`
	MessageCount  int        `json:"message_count" db:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	DaysInactive  int        `json:"days_inactive" db:"days_inactive"`
}
