package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/blockedby/groupwatch/internal/models"
)

func TestSearchMessages_BlankQueryShortCircuits(t *testing.T) {
	client := newMockClient()
	s := newTestService(client, 1000)

	for _, q := range []string{"", "   ", "\t\n"} {
		res := s.SearchMessages(context.Background(), q, SearchOptions{})
		if res.Total != 0 || len(res.Hits) != 0 {
			t.Errorf("query %q: got %+v, want empty", q, res)
		}
	}

	if n := client.totalCalls(); n != 0 {
		t.Errorf("blank queries issued %d backend calls, want 0", n)
	}
}

func TestSearchMessages_PassesScopeAndDefaults(t *testing.T) {
	body := "hello world"
	client := newMockClient()
	client.searchFn = func(query, groupID string, limit, offset int) ([]models.Message, int, error) {
		if query != "hello" || groupID != "g1" {
			t.Errorf("got query=%q group=%q", query, groupID)
		}
		if limit != DefaultSearchLimit || offset != 0 {
			t.Errorf("got limit=%d offset=%d, want default paging", limit, offset)
		}
		return []models.Message{{ID: 1, Body: &body}}, 37, nil
	}

	s := newTestService(client, 1000)
	res := s.SearchMessages(context.Background(), "hello", SearchOptions{GroupID: "g1"})

	if res.Total != 37 || len(res.Hits) != 1 {
		t.Errorf("res = %+v", res)
	}
}

func TestSearchMessages_FailureDegradesToEmpty(t *testing.T) {
	client := newMockClient()
	client.searchFn = func(string, string, int, int) ([]models.Message, int, error) {
		return nil, 0, errors.New("backend down")
	}

	s := newTestService(client, 1000)
	res := s.SearchMessages(context.Background(), "hello", SearchOptions{})

	if res.Total != 0 || res.Hits == nil || len(res.Hits) != 0 {
		t.Errorf("res = %+v, want empty non-nil hits", res)
	}
}
