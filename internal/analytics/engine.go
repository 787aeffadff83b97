package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/blockedby/groupwatch/internal/backend"
)

const dayFormat = "2006-01-02"

// PageReport records what the count-then-page protocol actually fetched.
// A failed page is skipped, not retried; the aggregate then under-counts.
type PageReport struct {
	TotalRows   int `json:"total_rows"`
	FailedPages int `json:"failed_pages"`
}

// Incomplete reports whether at least one page was lost, i.e. whether the
// aggregate under-counts the true row count.
func (r PageReport) Incomplete() bool {
	return r.FailedPages > 0
}

// DailyCount is one dense bucket of the daily series.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// DailySeries is a dense chronological daily histogram over a window.
type DailySeries struct {
	Counts []DailyCount `json:"counts"`
	Report PageReport   `json:"report"`
}

// HourlyCount is one cell of the day-of-week by hour-of-day matrix.
type HourlyCount struct {
	Day   int `json:"day"`  // 0-6, Sunday first
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// HourlyMatrix always holds exactly 7x24 = 168 cells in day-major order.
type HourlyMatrix struct {
	Cells  []HourlyCount `json:"cells"`
	Report PageReport    `json:"report"`
}

// TypeCount is one bucket of the message type histogram.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypeHistogram is the message type frequency distribution, most frequent
// first.
type TypeHistogram struct {
	Types  []TypeCount `json:"types"`
	Report PageReport  `json:"report"`
}

// foldTimestamps runs the count-then-page protocol over the message log and
// feeds every fetched timestamp to fold. The count query is issued first so
// the exact number of pages is known up front; pages are then requested
// sequentially. A failed page is logged and skipped.
func (s *Service) foldTimestamps(ctx context.Context, win backend.Window, groupID string, fold func(time.Time)) (PageReport, error) {
	total, err := s.client.CountMessages(ctx, win, groupID)
	if err != nil {
		return PageReport{}, err
	}

	report := PageReport{TotalRows: total}
	if total == 0 {
		// nothing to page through
		return report, nil
	}

	pages := (total + s.pageSize - 1) / s.pageSize
	for page := 0; page < pages; page++ {
		stamps, err := s.client.MessageTimestamps(ctx, win, groupID, s.pageSize, page*s.pageSize)
		if err != nil {
			s.log.Error().Err(err).Int("page", page).Str("group_id", groupID).
				Msg("aggregation page failed, skipping")
			report.FailedPages++
			continue
		}
		for _, ts := range stamps {
			fold(ts)
		}
	}

	return report, nil
}

// DailyMessageCounts aggregates the message log into a dense daily series
// covering the past days+1 calendar days (UTC). Every day in the window is
// present even at zero; rows whose day falls outside the initialized window
// are silently dropped.
func (s *Service) DailyMessageCounts(ctx context.Context, days int, groupID string) DailySeries {
	if s.client == nil {
		return DailySeries{}
	}

	now := s.now().UTC()
	win := backend.Window{Start: now.AddDate(0, 0, -days), End: now}

	keys := make([]string, 0, days+1)
	counts := make(map[string]int, days+1)
	for i := 0; i <= days; i++ {
		day := now.AddDate(0, 0, -(days - i)).Format(dayFormat)
		keys = append(keys, day)
		counts[day] = 0
	}

	report, err := s.foldTimestamps(ctx, win, groupID, func(ts time.Time) {
		day := ts.UTC().Format(dayFormat)
		if _, ok := counts[day]; ok {
			counts[day]++
		}
	})
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("daily counts failed")
		return DailySeries{}
	}

	out := make([]DailyCount, len(keys))
	for i, day := range keys {
		out[i] = DailyCount{Date: day, Count: counts[day]}
	}
	return DailySeries{Counts: out, Report: report}
}

// HourlyActivity aggregates the message log into the 7x24 day-by-hour
// matrix over the past days+1 calendar days (UTC). All 168 cells are present
// regardless of how sparse the input is.
func (s *Service) HourlyActivity(ctx context.Context, days int, groupID string) HourlyMatrix {
	if s.client == nil {
		return HourlyMatrix{}
	}

	now := s.now().UTC()
	win := backend.Window{Start: now.AddDate(0, 0, -days), End: now}

	var heat [7][24]int
	report, err := s.foldTimestamps(ctx, win, groupID, func(ts time.Time) {
		u := ts.UTC()
		heat[int(u.Weekday())][u.Hour()]++
	})
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("hourly activity failed")
		return HourlyMatrix{}
	}

	cells := make([]HourlyCount, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, HourlyCount{Day: day, Hour: hour, Count: heat[day][hour]})
		}
	}
	return HourlyMatrix{Cells: cells, Report: report}
}

// MessageTypeDistribution aggregates the whole message log (optionally scoped
// to one group) into a type histogram, most frequent type first. Ties keep
// first-encountered order.
func (s *Service) MessageTypeDistribution(ctx context.Context, groupID string) TypeHistogram {
	if s.client == nil {
		return TypeHistogram{}
	}

	total, err := s.client.CountMessages(ctx, backend.Window{}, groupID)
	if err != nil {
		s.log.Error().Err(err).Str("group_id", groupID).Msg("type distribution count failed")
		return TypeHistogram{}
	}

	report := PageReport{TotalRows: total}
	if total == 0 {
		return TypeHistogram{Report: report}
	}

	var order []string
	counts := map[string]int{}

	pages := (total + s.pageSize - 1) / s.pageSize
	for page := 0; page < pages; page++ {
		types, err := s.client.MessageTypes(ctx, groupID, s.pageSize, page*s.pageSize)
		if err != nil {
			s.log.Error().Err(err).Int("page", page).Str("group_id", groupID).
				Msg("type distribution page failed, skipping")
			report.FailedPages++
			continue
		}
		for _, t := range types {
			if t == "" {
				t = "other"
			}
			if _, seen := counts[t]; !seen {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	out := make([]TypeCount, len(order))
	for i, t := range order {
		out[i] = TypeCount{Type: t, Count: counts[t]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	return TypeHistogram{Types: out, Report: report}
}
