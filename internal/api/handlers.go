package api

import (
	"strconv"
	"strings"

	"github.com/go-fuego/fuego"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/dashboard"
	"github.com/blockedby/groupwatch/internal/summary"
)

// ============================================================================
// Health
// ============================================================================

func (s *Server) healthCheck(c fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{
		Status:    "ok",
		Version:   "dev",
		Backend:   s.deps.Analytics.Configured(),
		Summaries: s.deps.Summaries != nil && s.deps.Summaries.Configured(),
	}, nil
}

// ============================================================================
// Directory Handlers
// ============================================================================

func (s *Server) listGroups(c fuego.ContextNoBody) (GroupsResponse, error) {
	groups := s.deps.Analytics.Groups(c.Context())
	return GroupsResponse{Groups: groups, Total: len(groups)}, nil
}

func (s *Server) listGhosts(c fuego.ContextNoBody) (GhostsResponse, error) {
	ghosts := s.deps.Analytics.Ghosts(c.Context())
	return GhostsResponse{Ghosts: ghosts, Total: len(ghosts)}, nil
}

func (s *Server) listMembers(c fuego.ContextNoBody) (MembersResponse, error) {
	groupID := c.PathParam("id")
	if groupID == "" {
		return MembersResponse{}, fuego.BadRequestError{Detail: "Missing group ID"}
	}
	members := s.deps.Analytics.Members(c.Context(), groupID)
	return MembersResponse{Members: members, Total: len(members)}, nil
}

func (s *Server) listAllMembers(c fuego.ContextNoBody) (MembersResponse, error) {
	members := s.deps.Analytics.Members(c.Context(), "")
	return MembersResponse{Members: members, Total: len(members)}, nil
}

// ============================================================================
// Analytics Handlers
// ============================================================================

func (s *Server) getStats(c fuego.ContextNoBody) (StatsResponse, error) {
	return StatsResponse{Stats: s.deps.Analytics.DashboardStats(c.Context())}, nil
}

func (s *Server) dailyActivity(c fuego.ContextNoBody) (DailyActivityResponse, error) {
	days := parseIntWithDefault(c.QueryParam("days"), 30)
	if days < 1 {
		days = 1
	}
	series := s.deps.Analytics.DailyMessageCounts(c.Context(), days, c.QueryParam("group_id"))
	return DailyActivityResponse{
		Days:   days,
		Counts: series.Counts,
		Report: series.Report,
	}, nil
}

func (s *Server) hourlyActivity(c fuego.ContextNoBody) (HourlyActivityResponse, error) {
	days := parseIntWithDefault(c.QueryParam("days"), 30)
	if days < 1 {
		days = 1
	}
	matrix := s.deps.Analytics.HourlyActivity(c.Context(), days, c.QueryParam("group_id"))
	return HourlyActivityResponse{Cells: matrix.Cells, Report: matrix.Report}, nil
}

func (s *Server) typeDistribution(c fuego.ContextNoBody) (TypeDistributionResponse, error) {
	hist := s.deps.Analytics.MessageTypeDistribution(c.Context(), c.QueryParam("group_id"))
	return TypeDistributionResponse{Types: hist.Types, Report: hist.Report}, nil
}

func (s *Server) topUsers(c fuego.ContextNoBody) (TopUsersResponse, error) {
	limit := parseIntWithDefault(c.QueryParam("limit"), 10)
	users := s.deps.Analytics.TopUsers(c.Context(), limit, c.QueryParam("group_id"))
	return TopUsersResponse{Users: users}, nil
}

func (s *Server) search(c fuego.ContextNoBody) (SearchResponse, error) {
	query := c.QueryParam("q")
	limit := parseIntWithDefault(c.QueryParam("limit"), analytics.DefaultSearchLimit)
	offset := parseIntWithDefault(c.QueryParam("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	result := s.deps.Analytics.SearchMessages(c.Context(), query, analytics.SearchOptions{
		GroupID: c.QueryParam("group_id"),
		Limit:   limit,
		Offset:  offset,
	})

	return SearchResponse{
		Query:    strings.TrimSpace(query),
		Messages: result.Hits,
		Total:    result.Total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// ============================================================================
// Summary Handlers
// ============================================================================

func (s *Server) groupSummary(c fuego.ContextNoBody) (SummaryResponse, error) {
	groupID := c.PathParam("id")
	if groupID == "" {
		return SummaryResponse{}, fuego.BadRequestError{Detail: "Missing group ID"}
	}
	if s.deps.Summaries == nil {
		return SummaryResponse{GroupID: groupID, Kind: string(summary.KindDaily), Text: summary.MsgNotConfigured}, nil
	}

	kind := summary.Kind(c.QueryParam("kind"))
	if kind != summary.KindWeekly {
		kind = summary.KindDaily
	}

	messages := s.deps.Analytics.Messages(c.Context(), groupID)
	text := s.deps.Summaries.GroupSummary(c.Context(), s.groupName(c, groupID), messages, kind)

	return SummaryResponse{GroupID: groupID, Kind: string(kind), Text: text}, nil
}

func (s *Server) groupInsights(c fuego.ContextNoBody) (InsightsResponse, error) {
	groupID := c.PathParam("id")
	if groupID == "" {
		return InsightsResponse{}, fuego.BadRequestError{Detail: "Missing group ID"}
	}
	if s.deps.Summaries == nil {
		return InsightsResponse{GroupID: groupID, Text: summary.MsgNotConfigured}, nil
	}

	messages := s.deps.Analytics.Messages(c.Context(), groupID)
	text := s.deps.Summaries.Insights(c.Context(), s.groupName(c, groupID), messages)

	return InsightsResponse{GroupID: groupID, Text: text}, nil
}

// groupName resolves a display name for prompts, falling back to the key.
func (s *Server) groupName(c fuego.ContextNoBody, groupID string) string {
	for _, g := range s.deps.Analytics.Groups(c.Context()) {
		if g.GroupID == groupID {
			return g.Name()
		}
	}
	return groupID
}

// ============================================================================
// Snapshot Handlers
// ============================================================================

func (s *Server) getSnapshot(c fuego.ContextNoBody) (*dashboard.Snapshot, error) {
	if s.deps.Loader == nil {
		return nil, fuego.NotFoundError{Detail: "Snapshot loading is not enabled"}
	}
	snap := s.deps.Loader.Current()
	if snap == nil {
		return nil, fuego.NotFoundError{Detail: "No snapshot loaded yet"}
	}
	return snap, nil
}

func (s *Server) triggerRefresh(c fuego.ContextNoBody) (RefreshResponse, error) {
	if s.deps.Loader == nil {
		return RefreshResponse{}, fuego.NotFoundError{Detail: "Snapshot loading is not enabled"}
	}
	s.deps.Loader.TriggerRefresh()
	return RefreshResponse{Status: "scheduled"}, nil
}

// parseIntWithDefault parses an integer query parameter.
func parseIntWithDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
