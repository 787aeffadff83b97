package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/groupwatch/internal/models"
)

type fakeCompleter struct {
	reply string
	err   error

	calls      int
	lastSystem string
	lastUser   string
	lastTokens int
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	f.lastTokens = maxTokens
	return f.reply, f.err
}

func ptr(s string) *string { return &s }

func msgAt(hour int, pushname, body string) models.Message {
	return models.Message{
		Timestamp:      time.Date(2024, 5, 15, hour, 30, 0, 0, time.UTC),
		SenderID:       "12345678901@c.us",
		SenderNumber:   ptr("12345678901"),
		SenderPushName: ptr(pushname),
		Body:           ptr(body),
		Type:           models.MessageTypeChat,
	}
}

func TestGroupSummary(t *testing.T) {
	fake := &fakeCompleter{reply: "the summary"}
	s := NewService(fake, nil)

	msgs := []models.Message{
		msgAt(9, "Alice", "good morning"),
		msgAt(10, "Bob", "hi all"),
	}
	out := s.GroupSummary(context.Background(), "Family", msgs, KindWeekly)

	require.Equal(t, "the summary", out)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, 1500, fake.lastTokens)
	assert.Contains(t, fake.lastSystem, "weekly summaries")
	assert.Contains(t, fake.lastUser, `"Family"`)
	assert.Contains(t, fake.lastUser, "[2024-05-15 09:30:00] Alice: good morning")
}

func TestGroupSummary_Sentinels(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := NewService(nil, nil)
		out := s.GroupSummary(context.Background(), "g", []models.Message{msgAt(9, "a", "b")}, KindDaily)
		assert.Equal(t, MsgNotConfigured, out)
	})

	t.Run("no messages", func(t *testing.T) {
		fake := &fakeCompleter{}
		s := NewService(fake, nil)
		out := s.GroupSummary(context.Background(), "g", nil, KindDaily)
		assert.Equal(t, MsgNoMessages, out)
		assert.Zero(t, fake.calls)
	})

	t.Run("completion failure", func(t *testing.T) {
		fake := &fakeCompleter{err: errors.New("rate limited")}
		s := NewService(fake, nil)
		out := s.GroupSummary(context.Background(), "g", []models.Message{msgAt(9, "a", "b")}, KindDaily)
		assert.Equal(t, MsgSummaryFailed, out)
	})
}

func TestTranscript(t *testing.T) {
	media := models.Message{
		Timestamp: time.Date(2024, 5, 15, 11, 0, 0, 0, time.UTC),
		SenderID:  "999@lid",
		SenderLID: ptr("999"),
		HasMedia:  true,
		MediaType: ptr("image"),
		Type:      models.MessageTypeImage,
	}
	got := Transcript([]models.Message{msgAt(9, "Alice", "hello"), media}, 0)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-05-15 09:30:00] Alice: hello", lines[0])
	// nameless lid-only sender falls back to the lid, media body to a placeholder
	assert.Equal(t, "[2024-05-15 11:00:00] 999: [image]", lines[1])
}

func TestTranscript_TrailingLimit(t *testing.T) {
	msgs := make([]models.Message, 150)
	for i := range msgs {
		msgs[i] = msgAt(12, "A", "m")
		msgs[i].Body = ptr(string(rune('a' + i%26)))
	}
	got := Transcript(msgs, 100)
	assert.Len(t, strings.Split(got, "\n"), 100)
	// the kept window is the tail of the conversation
	lastBody := *msgs[len(msgs)-1].Body
	assert.True(t, strings.HasSuffix(got, lastBody))
}

func TestInsights_PatternStats(t *testing.T) {
	fake := &fakeCompleter{reply: "insights"}
	s := NewService(fake, nil)

	msgs := []models.Message{
		msgAt(9, "Alice", "1"),
		msgAt(9, "Alice", "2"),
		msgAt(9, "Alice", "3"),
		msgAt(14, "Bob", "4"),
		msgAt(14, "Bob", "5"),
		msgAt(22, "Cara", "6"),
	}
	out := s.Insights(context.Background(), "Team", msgs)

	require.Equal(t, "insights", out)
	assert.Equal(t, 500, fake.lastTokens)
	assert.Contains(t, fake.lastUser, "Total messages: 6")
	assert.Contains(t, fake.lastUser, "Alice: 3 messages, Bob: 2 messages, Cara: 1 messages")
	assert.Contains(t, fake.lastUser, "Peak activity hour: 9:00 (3 messages)")
}

func TestInsights_FailureSentinel(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	s := NewService(fake, nil)
	out := s.Insights(context.Background(), "g", []models.Message{msgAt(9, "a", "b")})
	assert.Equal(t, MsgInsightsFailed, out)
}
