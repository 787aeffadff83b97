package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blockedby/groupwatch/internal/logger"
	"github.com/blockedby/groupwatch/internal/models"
)

// Kind selects the summary flavor.
type Kind string

// Summary kinds.
const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// Sentinel texts shown to the UI instead of errors.
const (
	MsgNotConfigured  = "Summaries are not configured. Set OPENAI_API_KEY to enable them."
	MsgNoMessages     = "No messages to summarize."
	MsgSummaryFailed  = "Failed to generate summary. Please try again later."
	MsgInsightsFailed = "Failed to generate insights."
)

// transcriptLimit caps how many trailing messages go into a prompt.
const transcriptLimit = 100

// Completer defines the interface for chat completion operations.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Service produces group summaries. Failures and missing configuration come
// back as sentinel texts rather than errors; the dashboard renders whatever
// string it gets.
type Service struct {
	llm Completer
	log *logger.Logger
}

// NewService creates a summary service. llm may be nil when no API key is
// configured.
func NewService(llm Completer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Get()
	}
	return &Service{llm: llm, log: log.Component("summary")}
}

// Configured reports whether a chat backend is available.
func (s *Service) Configured() bool {
	return s.llm != nil
}

// GroupSummary summarizes a group conversation from its trailing messages.
func (s *Service) GroupSummary(ctx context.Context, groupName string, messages []models.Message, kind Kind) string {
	if s.llm == nil {
		return MsgNotConfigured
	}
	if len(messages) == 0 {
		return MsgNoMessages
	}
	if kind != KindWeekly {
		kind = KindDaily
	}

	systemPrompt := fmt.Sprintf(`You are an assistant summarizing group chat conversations.
Your task is to provide %s summaries of group conversations.

When summarizing:
- Identify the main topics discussed
- Highlight any important decisions or agreements
- Note any action items or tasks mentioned
- Identify key participants and their contributions
- Keep the tone professional but friendly

Provide a well-structured summary with clear sections.`, kind)

	userPrompt := fmt.Sprintf("Please provide a %s summary of this conversation from the group %q:\n\n%s",
		kind, groupName, Transcript(messages, transcriptLimit))

	out, err := s.llm.Complete(ctx, systemPrompt, userPrompt, 1500)
	if err != nil {
		s.log.Error().Err(err).Str("group", groupName).Msg("summary generation failed")
		return MsgSummaryFailed
	}
	return out
}

// Insights reports brief observations about the group's communication
// patterns, computed from sender and hour frequencies.
func (s *Service) Insights(ctx context.Context, groupName string, messages []models.Message) string {
	if s.llm == nil {
		return MsgNotConfigured
	}
	if len(messages) == 0 {
		return MsgNoMessages
	}

	stats := patternStats(messages)

	systemPrompt := "You are an assistant providing quick insights about group activity patterns."
	userPrompt := fmt.Sprintf(`Based on these stats from %q:
- Total messages: %d
- Top senders: %s
- Peak activity hour: %s

Provide 3-4 brief, actionable insights about the group's communication patterns.`,
		groupName, len(messages), stats.topSenders, stats.peakHour)

	out, err := s.llm.Complete(ctx, systemPrompt, userPrompt, 500)
	if err != nil {
		s.log.Error().Err(err).Str("group", groupName).Msg("insights generation failed")
		return MsgInsightsFailed
	}
	return out
}

// Transcript renders the last limit messages as "[time] sender: text" lines.
func Transcript(messages []models.Message, limit int) string {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	lines := make([]string, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		sender := models.ResolveName(optional(m.SenderPushName), optional(m.SenderName), senderID(m))
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			m.Timestamp.UTC().Format(time.DateTime), sender, m.Text()))
	}
	return strings.Join(lines, "\n")
}

func senderID(m *models.Message) string {
	id, _ := models.ResolveID(optional(m.SenderNumber), optional(m.SenderLID), m.SenderID)
	return id
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type stats struct {
	topSenders string
	peakHour   string
}

func patternStats(messages []models.Message) stats {
	senderCounts := map[string]int{}
	var senderOrder []string
	hourCounts := [24]int{}

	for i := range messages {
		m := &messages[i]
		sender := models.ResolveName(optional(m.SenderPushName), optional(m.SenderName), senderID(m))
		if _, seen := senderCounts[sender]; !seen {
			senderOrder = append(senderOrder, sender)
		}
		senderCounts[sender]++
		hourCounts[m.Timestamp.UTC().Hour()]++
	}

	sort.SliceStable(senderOrder, func(i, j int) bool {
		return senderCounts[senderOrder[i]] > senderCounts[senderOrder[j]]
	})
	if len(senderOrder) > 5 {
		senderOrder = senderOrder[:5]
	}
	top := make([]string, len(senderOrder))
	for i, name := range senderOrder {
		top[i] = fmt.Sprintf("%s: %d messages", name, senderCounts[name])
	}

	peak, peakCount := 0, 0
	for h, n := range hourCounts {
		if n > peakCount {
			peak, peakCount = h, n
		}
	}
	peakStr := "N/A"
	if peakCount > 0 {
		peakStr = fmt.Sprintf("%d:00 (%d messages)", peak, peakCount)
	}

	return stats{topSenders: strings.Join(top, ", "), peakHour: peakStr}
}
