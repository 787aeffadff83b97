// Package backend defines the read-only contract against the hosted tabular
// query service. Four logical collections are consumed: the message log, the
// per-group membership rollups, and two precomputed views (group summaries and
// inactive members). Implementations live in backend/rest (hosted endpoint)
// and backend/postgres (direct mode).
package backend

import (
	"context"
	"time"

	"github.com/blockedby/groupwatch/internal/models"
)

// Collection names as exposed by the backend.
const (
	CollectionMessages = "messages"
	CollectionMembers  = "group_members"
	CollectionGroups   = "v_group_stats"
	CollectionGhosts   = "v_ghost_users"
)

// Window is an inclusive [Start, End] timestamp range. The zero value means
// "no time filter".
type Window struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the window covering the past n days up to now.
func LastDays(n int, now time.Time) Window {
	return Window{Start: now.AddDate(0, 0, -n), End: now}
}

// IsZero reports whether the window carries no bounds.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether t falls inside the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// Client is the read-only data source consumed by the analytics layer. All
// methods are request/response calls against the remote backend; a groupID of
// "" means "all groups". Implementations must not retain returned slices.
type Client interface {
	// CountMessages returns the number of message rows in the window,
	// without fetching any rows.
	CountMessages(ctx context.Context, win Window, groupID string) (int, error)

	// MessageTimestamps returns one page of message timestamps in the
	// window, for aggregation folding.
	MessageTimestamps(ctx context.Context, win Window, groupID string, limit, offset int) ([]time.Time, error)

	// MessageTypes returns one page of message type tags.
	MessageTypes(ctx context.Context, groupID string, limit, offset int) ([]string, error)

	// SearchMessages issues one case-insensitive substring match against the
	// message body, newest first, returning the page together with the total
	// hit count from the same request.
	SearchMessages(ctx context.Context, query, groupID string, limit, offset int) ([]models.Message, int, error)

	// ListMessages returns all messages of a group in chronological order.
	ListMessages(ctx context.Context, groupID string) ([]models.Message, error)

	// ListMembers returns membership rollups. With a group filter the rows
	// come back ordered by message count descending.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CountMembers returns the total number of membership rows.
	CountMembers(ctx context.Context) (int, error)

	// ListGroups returns the per-group summary view.
	ListGroups(ctx context.Context) ([]models.GroupStats, error)

	// ListGhosts returns the inactive-member view.
	ListGhosts(ctx context.Context) ([]models.Ghost, error)

	// CountInactiveMembers returns how many members went quiet inside the
	// window (last_message_at within [Start, End)).
	CountInactiveMembers(ctx context.Context, win Window) (int, error)
}
