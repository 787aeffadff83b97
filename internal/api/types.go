package api

import (
	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/models"
)

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status" example:"ok" description:"Health status"`
	Version   string `json:"version" example:"dev" description:"Application version"`
	Backend   bool   `json:"backend" description:"Whether a data backend is configured"`
	Summaries bool   `json:"summaries" description:"Whether AI summaries are configured"`
}

// ============================================================================
// Directory Types
// ============================================================================

// GroupsResponse lists the per-group summary rows.
type GroupsResponse struct {
	Groups []models.GroupStats `json:"groups" description:"Per-group summary rows"`
	Total  int                 `json:"total" description:"Number of groups"`
}

// GhostsResponse lists inactive members.
type GhostsResponse struct {
	Ghosts []models.Ghost `json:"ghosts" description:"Members inactive beyond the backend threshold"`
	Total  int            `json:"total" description:"Number of inactive members"`
}

// MembersResponse lists membership rollups.
type MembersResponse struct {
	Members []models.Member `json:"members" description:"Membership rollup rows"`
	Total   int             `json:"total" description:"Number of members returned"`
}

// ============================================================================
// Analytics Types
// ============================================================================

// StatsResponse carries the headline dashboard card data.
type StatsResponse struct {
	Stats *analytics.DashboardStats `json:"stats" description:"Totals and week-over-week trends; null when no backend is configured"`
}

// DailyActivityResponse is the dense daily message series.
type DailyActivityResponse struct {
	Days   int                   `json:"days" description:"Requested window length in days"`
	Counts []analytics.DailyCount `json:"counts" description:"One bucket per day, oldest first"`
	Report analytics.PageReport   `json:"report" description:"Pagination completeness report"`
}

// HourlyActivityResponse is the day-of-week by hour-of-day matrix.
type HourlyActivityResponse struct {
	Cells  []analytics.HourlyCount `json:"cells" description:"Exactly 168 cells in day-major order"`
	Report analytics.PageReport    `json:"report" description:"Pagination completeness report"`
}

// TypeDistributionResponse is the message type histogram.
type TypeDistributionResponse struct {
	Types  []analytics.TypeCount `json:"types" description:"Type buckets, most frequent first"`
	Report analytics.PageReport  `json:"report" description:"Pagination completeness report"`
}

// TopUsersResponse is the user leaderboard.
type TopUsersResponse struct {
	Users []analytics.UserActivity `json:"users" description:"Most active users, descending"`
}

// SearchResponse carries one page of search hits.
type SearchResponse struct {
	Query    string           `json:"query" description:"The query as executed"`
	Messages []models.Message `json:"messages" description:"Matching messages, newest first"`
	Total    int              `json:"total" description:"Total matches across all pages"`
	Limit    int              `json:"limit" description:"Page size used"`
	Offset   int              `json:"offset" description:"Row offset used"`
}

// ============================================================================
// Summary Types
// ============================================================================

// SummaryResponse carries a generated conversation summary.
type SummaryResponse struct {
	GroupID string `json:"group_id" description:"Group key"`
	Kind    string `json:"kind" description:"Summary kind: daily or weekly"`
	Text    string `json:"text" description:"Generated summary or a sentinel message"`
}

// InsightsResponse carries generated activity insights.
type InsightsResponse struct {
	GroupID string `json:"group_id" description:"Group key"`
	Text    string `json:"text" description:"Generated insights or a sentinel message"`
}

// ============================================================================
// Snapshot Types
// ============================================================================

// RefreshResponse acknowledges a refresh trigger.
type RefreshResponse struct {
	Status string `json:"status" example:"scheduled" description:"Refresh scheduling status"`
}
