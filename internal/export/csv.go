package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/blockedby/groupwatch/internal/models"
)

// MessagesCSV writes the message log with stable headers.
func MessagesCSV(w io.Writer, messages []models.Message) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Timestamp", "Group Name", "Sender", "Sender Number",
		"Message Type", "Content", "Has Media", "Is Forwarded",
	}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range messages {
		m := &messages[i]
		sender := optional(m.SenderPushName)
		if sender == "" {
			sender = optional(m.SenderName)
		}
		row := []string{
			strconv.FormatInt(m.ID, 10),
			m.Timestamp.UTC().Format(time.RFC3339),
			optional(m.GroupName),
			sender,
			optional(m.SenderNumber),
			string(m.Type),
			optional(m.Body),
			strconv.FormatBool(m.HasMedia),
			strconv.FormatBool(m.IsForwarded),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// MembersCSV writes membership rollups with stable headers.
func MembersCSV(w io.Writer, members []models.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Group Name", "User Name", "User Number", "Is Admin",
		"Message Count", "Last Message At", "Last Seen",
	}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range members {
		m := &members[i]
		name := optional(m.UserPushName)
		if name == "" {
			name = optional(m.UserName)
		}
		row := []string{
			strconv.FormatInt(m.ID, 10),
			optional(m.GroupName),
			name,
			optional(m.UserNumber),
			strconv.FormatBool(m.IsAdmin),
			strconv.Itoa(m.MessageCount),
			timestamp(m.LastMessageAt),
			timestamp(m.LastSeen),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// GhostsCSV writes the inactive-member view with stable headers.
func GhostsCSV(w io.Writer, ghosts []models.Ghost) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Group Name", "User Name", "User Number", "Message Count",
		"Last Message At", "Days Inactive",
	}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range ghosts {
		g := &ghosts[i]
		row := []string{
			optional(g.GroupName),
			optional(g.UserPushName),
			optional(g.UserNumber),
			strconv.Itoa(g.MessageCount),
			timestamp(g.LastMessageAt),
			strconv.Itoa(g.DaysInactive),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
