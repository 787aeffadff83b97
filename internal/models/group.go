package models

import "time"

// GroupStats represents one row of the backend's per-group summary view.
type GroupStats struct {
	GroupID       string     `json:"group_id" db:"group_id"`
	GroupName     *string    `json:"group_name,omitempty" db:"group_name"`
	MemberCount   int        `json:"member_count" db:"member_count"`
	AdminCount    int        `json:"admin_count" db:"admin_count"`
	TotalMessages int        `json:"total_messages" db:"total_messages"`
	LastActivity  *time.Time `json:"last_activity,omitempty" db:"last_activity"`

	// members reachable by a real phone number vs only by an opaque lid
	PhoneMembers int `json:"phone_members" db:"phone_members"`
	LIDMembers   int `json:"lid_members" db:"lid_members"`
}

// Name returns the group display name, falling back to the group key.
func (g *GroupStats) Name() string {
	if g.GroupName != nil && *g.GroupName != "" {
		return *g.GroupName
	}
	return g.GroupID
}
