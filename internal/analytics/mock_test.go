package analytics

import (
	"context"
	"time"

	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/models"
)

// mockClient implements backend.Client with pluggable behavior and per-method
// call counters.
type mockClient struct {
	countMessagesFn    func(win backend.Window, groupID string) (int, error)
	timestampsFn       func(win backend.Window, groupID string, limit, offset int) ([]time.Time, error)
	typesFn            func(groupID string, limit, offset int) ([]string, error)
	searchFn           func(query, groupID string, limit, offset int) ([]models.Message, int, error)
	listMessagesFn     func(groupID string) ([]models.Message, error)
	listMembersFn      func(groupID string) ([]models.Member, error)
	countMembersFn     func() (int, error)
	listGroupsFn       func() ([]models.GroupStats, error)
	listGhostsFn       func() ([]models.Ghost, error)
	countInactiveFn    func(win backend.Window) (int, error)

	calls map[string]int
}

var _ backend.Client = (*mockClient)(nil)

func newMockClient() *mockClient {
	return &mockClient{calls: map[string]int{}}
}

func (m *mockClient) record(name string) {
	m.calls[name]++
}

func (m *mockClient) totalCalls() int {
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockClient) CountMessages(_ context.Context, win backend.Window, groupID string) (int, error) {
	m.record("CountMessages")
	if m.countMessagesFn == nil {
		return 0, nil
	}
	return m.countMessagesFn(win, groupID)
}

func (m *mockClient) MessageTimestamps(_ context.Context, win backend.Window, groupID string, limit, offset int) ([]time.Time, error) {
	m.record("MessageTimestamps")
	if m.timestampsFn == nil {
		return nil, nil
	}
	return m.timestampsFn(win, groupID, limit, offset)
}

func (m *mockClient) MessageTypes(_ context.Context, groupID string, limit, offset int) ([]string, error) {
	m.record("MessageTypes")
	if m.typesFn == nil {
		return nil, nil
	}
	return m.typesFn(groupID, limit, offset)
}

func (m *mockClient) SearchMessages(_ context.Context, query, groupID string, limit, offset int) ([]models.Message, int, error) {
	m.record("SearchMessages")
	if m.searchFn == nil {
		return nil, 0, nil
	}
	return m.searchFn(query, groupID, limit, offset)
}

func (m *mockClient) ListMessages(_ context.Context, groupID string) ([]models.Message, error) {
	m.record("ListMessages")
	if m.listMessagesFn == nil {
		return nil, nil
	}
	return m.listMessagesFn(groupID)
}

func (m *mockClient) ListMembers(_ context.Context, groupID string) ([]models.Member, error) {
	m.record("ListMembers")
	if m.listMembersFn == nil {
		return nil, nil
	}
	return m.listMembersFn(groupID)
}

func (m *mockClient) CountMembers(_ context.Context) (int, error) {
	m.record("CountMembers")
	if m.countMembersFn == nil {
		return 0, nil
	}
	return m.countMembersFn()
}

func (m *mockClient) ListGroups(_ context.Context) ([]models.GroupStats, error) {
	m.record("ListGroups")
	if m.listGroupsFn == nil {
		return nil, nil
	}
	return m.listGroupsFn()
}

func (m *mockClient) ListGhosts(_ context.Context) ([]models.Ghost, error) {
	m.record("ListGhosts")
	if m.listGhostsFn == nil {
		return nil, nil
	}
	return m.listGhostsFn()
}

func (m *mockClient) CountInactiveMembers(_ context.Context, win backend.Window) (int, error) {
	m.record("CountInactiveMembers")
	if m.countInactiveFn == nil {
		return 0, nil
	}
	return m.countInactiveFn(win)
}

// testNow is the frozen clock for deterministic windows (a Wednesday).
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestService(client backend.Client, pageSize int) *Service {
	s := NewService(client, pageSize, nil)
	s.now = func() time.Time { return testNow }
	return s
}

// pagedTimestamps serves a fixed timestamp set page by page, the way the
// backend would.
func pagedTimestamps(all []time.Time) func(backend.Window, string, int, int) ([]time.Time, error) {
	return func(_ backend.Window, _ string, limit, offset int) ([]time.Time, error) {
		if offset >= len(all) {
			return nil, nil
		}
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		return all[offset:end], nil
	}
}
