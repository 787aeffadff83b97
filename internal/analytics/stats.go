package analytics

import (
	"context"
	"sync"

	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/models"
)

// trendDays is the fixed comparison window: current 7 days vs the 7 before.
const trendDays = 7

// DashboardTrends holds the week-over-week trends shown on the stat cards.
type DashboardTrends struct {
	Messages Trend `json:"messages"`
	Members  Trend `json:"members"`
	Ghosts   Trend `json:"ghosts"`
}

// DashboardStats is the headline card data for the dashboard.
type DashboardStats struct {
	TotalMessages int             `json:"total_messages"`
	TotalMembers  int             `json:"total_members"`
	TotalGroups   int             `json:"total_groups"`
	GhostUsers    int             `json:"ghost_users"`
	Trends        DashboardTrends `json:"trends"`
}

// DashboardStats assembles the headline totals and their trends. The
// independent sub-loads run concurrently and join before returning; each one
// degrades to zero on failure so a single bad query never takes down the
// whole card row. Returns nil when the backend is not configured.
func (s *Service) DashboardStats(ctx context.Context) *DashboardStats {
	if s.client == nil {
		return nil
	}

	now := s.now().UTC()
	currentWin := backend.LastDays(trendDays, now)
	previousWin := backend.Window{
		Start: now.AddDate(0, 0, -2*trendDays),
		End:   now.AddDate(0, 0, -trendDays),
	}

	var (
		wg sync.WaitGroup

		currentMessages  int
		previousMessages int
		totalMessages    int
		totalMembers     int
		groups           []models.GroupStats
		ghosts           []models.Ghost
		previousGhosts   int
	)

	load := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.log.Error().Err(err).Str("load", name).Msg("dashboard stat load failed")
			}
		}()
	}

	load("current_messages", func() (err error) {
		currentMessages, err = s.client.CountMessages(ctx, currentWin, "")
		return
	})
	load("previous_messages", func() (err error) {
		previousMessages, err = s.client.CountMessages(ctx, previousWin, "")
		return
	})
	load("total_messages", func() (err error) {
		totalMessages, err = s.client.CountMessages(ctx, backend.Window{}, "")
		return
	})
	load("total_members", func() (err error) {
		totalMembers, err = s.client.CountMembers(ctx)
		return
	})
	load("groups", func() (err error) {
		groups, err = s.client.ListGroups(ctx)
		return
	})
	load("ghosts", func() (err error) {
		ghosts, err = s.client.ListGhosts(ctx)
		return
	})
	load("previous_ghosts", func() (err error) {
		previousGhosts, err = s.client.CountInactiveMembers(ctx, previousWin)
		return
	})

	wg.Wait()

	// the exact count can come back zero on very large logs; fall back to
	// summing the per-group rollups
	if totalMessages == 0 {
		for _, g := range groups {
			totalMessages += g.TotalMessages
		}
	}

	return &DashboardStats{
		TotalMessages: totalMessages,
		TotalMembers:  totalMembers,
		TotalGroups:   len(groups),
		GhostUsers:    len(ghosts),
		Trends: DashboardTrends{
			Messages: CalculateTrend(currentMessages, previousMessages),
			// membership churn is too slow for a weekly window
			Members: CalculateTrend(totalMembers, totalMembers),
			Ghosts:  CalculateTrend(len(ghosts), previousGhosts),
		},
	}
}
