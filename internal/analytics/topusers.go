package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/blockedby/groupwatch/internal/models"
)

// UserActivity is one row of the user leaderboard.
type UserActivity struct {
	UserID        string     `json:"user_id"`
	PushName      *string    `json:"user_pushname,omitempty"`
	Number        *string    `json:"user_number,omitempty"`
	LID           *string    `json:"user_lid,omitempty"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IdentityKey implements models.Identified.
func (u *UserActivity) IdentityKey() string { return u.UserID }

// DisplayID implements models.Identified.
func (u *UserActivity) DisplayID() string {
	id, _ := models.ResolveID(optional(u.Number), optional(u.LID), u.UserID)
	return id
}

// DisplayName implements models.Identified.
func (u *UserActivity) DisplayName() string {
	return models.ResolveName(optional(u.PushName), "", u.DisplayID())
}

// HasPhone implements models.Identified.
func (u *UserActivity) HasPhone() bool { return optional(u.Number) != "" }

// IsLIDOnly implements models.Identified.
func (u *UserActivity) IsLIDOnly() bool {
	return optional(u.Number) == "" && optional(u.LID) != ""
}

var _ models.Identified = (*UserActivity)(nil)

func userFromMember(m *models.Member) UserActivity {
	return UserActivity{
		UserID:        m.UserID,
		PushName:      m.UserPushName,
		Number:        m.UserNumber,
		LID:           m.UserLID,
		MessageCount:  m.MessageCount,
		LastMessageAt: m.LastMessageAt,
	}
}

// TopUsers returns the top limit users by message count, descending, ties in
// first-encountered order.
//
// With a group filter the backend-maintained per-membership rollup is already
// scoped and sorted, so the rows pass through and get truncated. Across all
// groups the same person appears once per group they belong to, so rollups
// are merged by member key: counts are summed, the latest last_message_at
// wins, and the display name of the most recent record fills in a missing
// one.
func (s *Service) TopUsers(ctx context.Context, limit int, groupID string) []UserActivity {
	if s.client == nil {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	members, err := s.client.ListMembers(ctx, groupID)
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("top users failed")
		return nil
	}

	if groupID != "" {
		if len(members) > limit {
			members = members[:limit]
		}
		out := make([]UserActivity, len(members))
		for i := range members {
			out[i] = userFromMember(&members[i])
		}
		return out
	}

	// all-groups mode: true aggregation across per-group rollups
	var order []string
	merged := map[string]*UserActivity{}

	for i := range members {
		m := &members[i]
		existing, ok := merged[m.UserID]
		if !ok {
			u := userFromMember(m)
			merged[m.UserID] = &u
			order = append(order, m.UserID)
			continue
		}

		existing.MessageCount += m.MessageCount
		if m.LastMessageAt != nil &&
			(existing.LastMessageAt == nil || m.LastMessageAt.After(*existing.LastMessageAt)) {
			existing.LastMessageAt = m.LastMessageAt
			// keep the freshest record's name when none is known yet
			if m.UserPushName != nil && existing.PushName == nil {
				existing.PushName = m.UserPushName
			}
		}
	}

	out := make([]UserActivity, len(order))
	for i, key := range order {
		out[i] = *merged[key]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MessageCount > out[j].MessageCount })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
