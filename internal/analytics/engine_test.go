package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blockedby/groupwatch/internal/backend"
)

func TestDailyMessageCounts_DenseBucketsOnEmptyLog(t *testing.T) {
	client := newMockClient()
	s := newTestService(client, 1000)

	series := s.DailyMessageCounts(context.Background(), 7, "")

	if len(series.Counts) != 8 {
		t.Fatalf("got %d buckets, want 8 (days+1)", len(series.Counts))
	}
	for _, b := range series.Counts {
		if b.Count != 0 {
			t.Errorf("bucket %s = %d, want 0", b.Date, b.Count)
		}
	}
	// last bucket is today, first is seven days back
	if series.Counts[7].Date != "2024-05-15" {
		t.Errorf("last bucket = %s, want 2024-05-15", series.Counts[7].Date)
	}
	if series.Counts[0].Date != "2024-05-08" {
		t.Errorf("first bucket = %s, want 2024-05-08", series.Counts[0].Date)
	}

	// a zero count must not trigger any page request
	if client.calls["MessageTimestamps"] != 0 {
		t.Errorf("page requests after zero count: %d", client.calls["MessageTimestamps"])
	}
}

func TestDailyMessageCounts_LosslessAcrossPages(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2024, 5, d, h, 0, 0, 0, time.UTC)
	}
	events := []time.Time{
		day(13, 9), day(13, 10), day(13, 23),
		day(14, 1), day(14, 2),
		day(15, 8), day(15, 9),
	}

	client := newMockClient()
	client.countMessagesFn = func(backend.Window, string) (int, error) { return len(events), nil }
	client.timestampsFn = pagedTimestamps(events)

	// page size 3 forces ceil(7/3) = 3 pages
	s := newTestService(client, 3)
	series := s.DailyMessageCounts(context.Background(), 7, "")

	if client.calls["MessageTimestamps"] != 3 {
		t.Errorf("pages fetched = %d, want 3", client.calls["MessageTimestamps"])
	}

	sum := 0
	byDate := map[string]int{}
	for _, b := range series.Counts {
		sum += b.Count
		byDate[b.Date] = b.Count
	}
	if sum != len(events) {
		t.Errorf("bucket sum = %d, want %d (aggregation must be lossless)", sum, len(events))
	}
	if byDate["2024-05-13"] != 3 || byDate["2024-05-14"] != 2 || byDate["2024-05-15"] != 2 {
		t.Errorf("per-day counts wrong: %v", byDate)
	}
	if series.Report.Incomplete() {
		t.Error("report marked incomplete without failures")
	}
}

func TestDailyMessageCounts_OutOfWindowRowsDropped(t *testing.T) {
	events := []time.Time{
		time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // clock-skewed straggler
	}

	client := newMockClient()
	client.countMessagesFn = func(backend.Window, string) (int, error) { return len(events), nil }
	client.timestampsFn = pagedTimestamps(events)

	s := newTestService(client, 1000)
	series := s.DailyMessageCounts(context.Background(), 7, "")

	sum := 0
	for _, b := range series.Counts {
		sum += b.Count
	}
	if sum != 1 {
		t.Errorf("bucket sum = %d, want 1 (straggler must be dropped, not counted)", sum)
	}
}

func TestDailyMessageCounts_FailedPageSkipped(t *testing.T) {
	events := []time.Time{
		time.Date(2024, 5, 13, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC),
	}

	client := newMockClient()
	client.countMessagesFn = func(backend.Window, string) (int, error) { return len(events), nil }
	serve := pagedTimestamps(events)
	client.timestampsFn = func(win backend.Window, groupID string, limit, offset int) ([]time.Time, error) {
		if offset == 1 { // second of three single-row pages
			return nil, errors.New("transient backend failure")
		}
		return serve(win, groupID, limit, offset)
	}

	s := newTestService(client, 1)
	series := s.DailyMessageCounts(context.Background(), 7, "")

	if client.calls["MessageTimestamps"] != 3 {
		t.Errorf("pages tried = %d, want 3 (failure must not abort remaining pages)", client.calls["MessageTimestamps"])
	}
	sum := 0
	for _, b := range series.Counts {
		sum += b.Count
	}
	if sum != 2 {
		t.Errorf("bucket sum = %d, want 2 (under-count, not error)", sum)
	}
	if series.Report.FailedPages != 1 || !series.Report.Incomplete() {
		t.Errorf("report = %+v, want one failed page and incomplete", series.Report)
	}
}

func TestDailyMessageCounts_CountFailureDegradesToEmpty(t *testing.T) {
	client := newMockClient()
	client.countMessagesFn = func(backend.Window, string) (int, error) {
		return 0, errors.New("backend down")
	}

	s := newTestService(client, 1000)
	series := s.DailyMessageCounts(context.Background(), 7, "")

	if len(series.Counts) != 0 {
		t.Errorf("got %d buckets after count failure, want none", len(series.Counts))
	}
}

func TestHourlyActivity_Always168Cells(t *testing.T) {
	client := newMockClient()
	s := newTestService(client, 1000)

	matrix := s.HourlyActivity(context.Background(), 30, "")

	if len(matrix.Cells) != 168 {
		t.Fatalf("got %d cells, want 168", len(matrix.Cells))
	}
	for i, c := range matrix.Cells {
		if c.Day < 0 || c.Day > 6 || c.Hour < 0 || c.Hour > 23 {
			t.Fatalf("cell %d out of range: %+v", i, c)
		}
		if c.Count != 0 {
			t.Errorf("cell %+v nonzero on empty log", c)
		}
	}
	// day-major order
	if matrix.Cells[0].Day != 0 || matrix.Cells[0].Hour != 0 {
		t.Errorf("first cell = %+v, want day 0 hour 0", matrix.Cells[0])
	}
	if matrix.Cells[167].Day != 6 || matrix.Cells[167].Hour != 23 {
		t.Errorf("last cell = %+v, want day 6 hour 23", matrix.Cells[167])
	}
}

func TestHourlyActivity_FoldsIntoRightCell(t *testing.T) {
	// 2024-05-15 is a Wednesday (weekday 3)
	events := []time.Time{
		time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 9, 45, 0, 0, time.UTC),
		time.Date(2024, 5, 12, 23, 0, 0, 0, time.UTC), // Sunday
	}

	client := newMockClient()
	client.countMessagesFn = func(backend.Window, string) (int, error) { return len(events), nil }
	client.timestampsFn = pagedTimestamps(events)

	s := newTestService(client, 1000)
	matrix := s.HourlyActivity(context.Background(), 30, "")

	get := func(day, hour int) int {
		for _, c := range matrix.Cells {
			if c.Day == day && c.Hour == hour {
				return c.Count
			}
		}
		t.Fatalf("cell %d/%d missing", day, hour)
		return 0
	}

	if got := get(3, 9); got != 2 {
		t.Errorf("wednesday 09h = %d, want 2", got)
	}
	if got := get(0, 23); got != 1 {
		t.Errorf("sunday 23h = %d, want 1", got)
	}
}

func TestMessageTypeDistribution(t *testing.T) {
	types := []string{"chat", "image", "chat", "chat", "", "image", "sticker"}

	client := newMockClient()
	client.countMessagesFn = func(win backend.Window, _ string) (int, error) {
		if !win.IsZero() {
			t.Error("type distribution must count the whole log, got a window")
		}
		return len(types), nil
	}
	client.typesFn = func(_ string, limit, offset int) ([]string, error) {
		if offset >= len(types) {
			return nil, nil
		}
		end := offset + limit
		if end > len(types) {
			end = len(types)
		}
		return types[offset:end], nil
	}

	s := newTestService(client, 4)
	hist := s.MessageTypeDistribution(context.Background(), "")

	want := []TypeCount{
		{Type: "chat", Count: 3},
		{Type: "image", Count: 2},
		{Type: "other", Count: 1},
		{Type: "sticker", Count: 1},
	}
	if len(hist.Types) != len(want) {
		t.Fatalf("got %d types, want %d: %v", len(hist.Types), len(want), hist.Types)
	}
	for i, w := range want {
		if hist.Types[i] != w {
			t.Errorf("types[%d] = %+v, want %+v", i, hist.Types[i], w)
		}
	}
}

func TestMessageTypeDistribution_EmptyLog(t *testing.T) {
	client := newMockClient()
	s := newTestService(client, 1000)

	hist := s.MessageTypeDistribution(context.Background(), "g1")
	if len(hist.Types) != 0 {
		t.Errorf("got %d types on empty log, want none", len(hist.Types))
	}
	if client.calls["MessageTypes"] != 0 {
		t.Errorf("page requests after zero count: %d", client.calls["MessageTypes"])
	}
}

func TestUnconfiguredServiceShortCircuits(t *testing.T) {
	s := NewService(nil, 0, nil)
	ctx := context.Background()

	if s.Configured() {
		t.Error("Configured() = true with nil client")
	}
	if got := s.DailyMessageCounts(ctx, 7, ""); len(got.Counts) != 0 {
		t.Error("daily counts not empty without backend")
	}
	if got := s.HourlyActivity(ctx, 7, ""); len(got.Cells) != 0 {
		t.Error("hourly matrix not empty without backend")
	}
	if got := s.DashboardStats(ctx); got != nil {
		t.Error("dashboard stats not nil without backend")
	}
	if got := s.TopUsers(ctx, 10, ""); got != nil {
		t.Error("top users not nil without backend")
	}
}
