package analytics

import (
	"context"
	"strings"

	"github.com/blockedby/groupwatch/internal/models"
)

// DefaultSearchLimit is the page size used when the caller passes none.
const DefaultSearchLimit = 50

// SearchOptions scope and page a search request. The caller drives paging
// interactively, so no exhaustive pagination happens here.
type SearchOptions struct {
	GroupID string
	Limit   int
	Offset  int
}

// SearchResult is one page of hits plus the total hit count from the same
// combined query.
type SearchResult struct {
	Hits  []models.Message `json:"hits"`
	Total int              `json:"total"`
}

// SearchMessages issues one case-insensitive substring match against message
// bodies, newest first. A blank query short-circuits without touching the
// backend; a failed request degrades to an empty result.
func (s *Service) SearchMessages(ctx context.Context, query string, opts SearchOptions) SearchResult {
	empty := SearchResult{Hits: []models.Message{}}

	if s.client == nil || strings.TrimSpace(query) == "" {
		return empty
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits, total, err := s.client.SearchMessages(ctx, query, opts.GroupID, limit, opts.Offset)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("search failed")
		return empty
	}
	if hits == nil {
		hits = []models.Message{}
	}

	return SearchResult{Hits: hits, Total: total}
}
