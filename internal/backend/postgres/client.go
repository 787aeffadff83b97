// Package postgres implements the backend contract over a direct postgres
// connection for self-hosted installs, issuing the SQL equivalents of the
// hosted query dialect against the same tables and views.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/models"
)

// Client reads the analytics collections over a pgx connection pool. It
// implements backend.Client.
type Client struct {
	pool *pgxpool.Pool
}

var _ backend.Client = (*Client)(nil)

// New creates a postgres backend client and verifies connectivity.
func New(ctx context.Context, databaseURL string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// winArgs converts a window into nullable bound arguments.
func winArgs(win backend.Window) (start, end *time.Time) {
	if !win.Start.IsZero() {
		s := win.Start.UTC()
		start = &s
	}
	if !win.End.IsZero() {
		e := win.End.UTC()
		end = &e
	}
	return start, end
}

func groupArg(groupID string) *string {
	if groupID == "" {
		return nil
	}
	return &groupID
}

// CountMessages returns the number of message rows in the window.
func (c *Client) CountMessages(ctx context.Context, win backend.Window, groupID string) (int, error) {
	start, end := winArgs(win)

	var count int
	err := c.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE ($1::timestamptz IS NULL OR message_timestamp >= $1)
		  AND ($2::timestamptz IS NULL OR message_timestamp <= $2)
		  AND ($3::text IS NULL OR group_id = $3)
	`, start, end, groupArg(groupID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// MessageTimestamps returns one page of message timestamps in the window.
func (c *Client) MessageTimestamps(ctx context.Context, win backend.Window, groupID string, limit, offset int) ([]time.Time, error) {
	start, end := winArgs(win)

	rows, err := c.pool.Query(ctx, `
		SELECT message_timestamp
		FROM messages
		WHERE ($1::timestamptz IS NULL OR message_timestamp >= $1)
		  AND ($2::timestamptz IS NULL OR message_timestamp <= $2)
		  AND ($3::text IS NULL OR group_id = $3)
		ORDER BY message_timestamp
		LIMIT $4 OFFSET $5
	`, start, end, groupArg(groupID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("page message timestamps: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// MessageTypes returns one page of message type tags.
func (c *Client) MessageTypes(ctx context.Context, groupID string, limit, offset int) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT message_type
		FROM messages
		WHERE ($1::text IS NULL OR group_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, groupArg(groupID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("page message types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan message type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const messageColumns = `
	id, created_at, message_timestamp, message_id, chat_id,
	group_id, group_name,
	sender_id, sender_name, sender_pushname, sender_number, sender_lid,
	is_from_me, body, message_type,
	quoted_message_id, is_forwarded, forwarding_score, is_starred,
	has_media, media_type, media_mimetype, media_filename, media_filesize`

func scanMessage(row interface{ Scan(...any) error }) (models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.CreatedAt, &m.Timestamp, &m.MessageID, &m.ChatID,
		&m.GroupID, &m.GroupName,
		&m.SenderID, &m.SenderName, &m.SenderPushName, &m.SenderNumber, &m.SenderLID,
		&m.IsFromMe, &m.Body, &m.Type,
		&m.QuotedMessageID, &m.IsForwarded, &m.ForwardingScore, &m.IsStarred,
		&m.HasMedia, &m.MediaType, &m.MediaMimetype, &m.MediaFilename, &m.MediaFilesize,
	)
	return m, err
}

// SearchMessages issues one substring-match page with the total hit count
// taken from the same query via a window function.
func (c *Client) SearchMessages(ctx context.Context, search, groupID string, limit, offset int) ([]models.Message, int, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT `+messageColumns+`, COUNT(*) OVER() AS total
		FROM messages
		WHERE body ILIKE '%' || $1 || '%'
		  AND ($2::text IS NULL OR group_id = $2)
		ORDER BY message_timestamp DESC
		LIMIT $3 OFFSET $4
	`, search, groupArg(groupID), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search messages: %w", err)
	}
	defer rows.Close()

	var (
		hits  []models.Message
		total int
	)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.Timestamp, &m.MessageID, &m.ChatID,
			&m.GroupID, &m.GroupName,
			&m.SenderID, &m.SenderName, &m.SenderPushName, &m.SenderNumber, &m.SenderLID,
			&m.IsFromMe, &m.Body, &m.Type,
			&m.QuotedMessageID, &m.IsForwarded, &m.ForwardingScore, &m.IsStarred,
			&m.HasMedia, &m.MediaType, &m.MediaMimetype, &m.MediaFilename, &m.MediaFilesize,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, m)
	}
	return hits, total, rows.Err()
}

// ListMessages returns all messages of a group in chronological order.
func (c *Client) ListMessages(ctx context.Context, groupID string) ([]models.Message, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE ($1::text IS NULL OR group_id = $1)
		ORDER BY message_timestamp
	`, groupArg(groupID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ListMembers returns membership rollups, ordered by message count when a
// group filter is present.
func (c *Client) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, created_at, updated_at, last_seen,
		       group_id, group_name,
		       user_id, user_name, user_pushname, user_number, user_lid,
		       is_admin, is_super_admin,
		       message_count, last_message_at
		FROM group_members
		WHERE ($1::text IS NULL OR group_id = $1)
		ORDER BY message_count DESC
	`, groupArg(groupID))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.LastSeen,
			&m.GroupID, &m.GroupName,
			&m.UserID, &m.UserName, &m.UserPushName, &m.UserNumber, &m.UserLID,
			&m.IsAdmin, &m.IsSuperAdmin,
			&m.MessageCount, &m.LastMessageAt,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CountMembers returns the total number of membership rows.
func (c *Client) CountMembers(ctx context.Context) (int, error) {
	var count int
	if err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM group_members`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// ListGroups returns the per-group summary view.
func (c *Client) ListGroups(ctx context.Context) ([]models.GroupStats, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT group_id, group_name, member_count, admin_count,
		       total_messages, last_activity, phone_members, lid_members
		FROM v_group_stats
	`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.GroupStats
	for rows.Next() {
		var g models.GroupStats
		if err := rows.Scan(
			&g.GroupID, &g.GroupName, &g.MemberCount, &g.AdminCount,
			&g.TotalMessages, &g.LastActivity, &g.PhoneMembers, &g.LIDMembers,
		); err != nil {
			return nil, fmt.Errorf("scan group stats: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListGhosts returns the inactive-member view.
func (c *Client) ListGhosts(ctx context.Context) ([]models.Ghost, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT group_name, user_number, user_lid, user_pushname,
		       message_count, last_message_at, days_inactive
		FROM v_ghost_users
	`)
	if err != nil {
		return nil, fmt.Errorf("list ghosts: %w", err)
	}
	defer rows.Close()

	var ghosts []models.Ghost
	for rows.Next() {
		var g models.Ghost
		if err := rows.Scan(
			&g.GroupName, &g.UserNumber, &g.UserLID, &g.UserPushName,
			&g.MessageCount, &g.LastMessageAt, &g.DaysInactive,
		); err != nil {
			return nil, fmt.Errorf("scan ghost: %w", err)
		}
		ghosts = append(ghosts, g)
	}
	return ghosts, rows.Err()
}

// CountInactiveMembers counts members whose last message falls in [Start, End).
func (c *Client) CountInactiveMembers(ctx context.Context, win backend.Window) (int, error) {
	start, end := winArgs(win)

	var count int
	err := c.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM group_members
		WHERE last_message_at >= $1
		  AND last_message_at < $2
	`, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count inactive members: %w", err)
	}
	return count, nil
}
