// Package rest implements the backend contract against a hosted query
// endpoint speaking the PostgREST dialect (collections addressed by name with
// an eq/gte/lte/ilike filter algebra, Range pagination and exact counts via
// the Content-Range header).
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/logger"
	"github.com/blockedby/groupwatch/internal/models"
)

const (
	tsColumn   = "message_timestamp"
	defaultRPS = 10.0
)

// Config holds the rest client configuration.
type Config struct {
	// BaseURL is the project endpoint, e.g. https://xyz.supabase.co
	BaseURL string
	// APIKey is the access key sent as apikey and bearer token.
	APIKey string
	// RPS limits outgoing requests per second (0 = default).
	RPS float64
	// Timeout applies per request (0 = 30s).
	Timeout time.Duration
}

// Client talks to the hosted query endpoint. It implements backend.Client.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	limiter *RateLimiter
	log     *logger.Logger
}

// make sure the interface stays satisfied
var _ backend.Client = (*Client)(nil)

// New creates a rest backend client.
func New(cfg Config, log *logger.Logger) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Get()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: NewRateLimiter(rps, 2),
		log:     log.Component("backend.rest"),
	}
}

// query describes one request against a collection.
type query struct {
	collection string
	sel        string
	filters    url.Values
	order      string
	limit      int // 0 = no range header
	offset     int
	countExact bool
	headOnly   bool
}

func newQuery(collection string) *query {
	return &query{collection: collection, sel: "*", filters: url.Values{}}
}

func (q *query) filter(column, op, value string) *query {
	q.filters.Add(column, op+"."+value)
	return q
}

func (q *query) window(win backend.Window) *query {
	if !win.Start.IsZero() {
		q.filter(tsColumn, "gte", win.Start.UTC().Format(time.RFC3339))
	}
	if !win.End.IsZero() {
		q.filter(tsColumn, "lte", win.End.UTC().Format(time.RFC3339))
	}
	return q
}

func (q *query) group(groupID string) *query {
	if groupID != "" {
		q.filter("group_id", "eq", groupID)
	}
	return q
}

// do issues the request, decodes the body into out (unless nil) and returns
// the exact total when it was requested.
func (c *Client) do(ctx context.Context, q *query, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	params := url.Values{}
	params.Set("select", q.sel)
	if q.order != "" {
		params.Set("order", q.order)
	}
	for column, exprs := range q.filters {
		for _, expr := range exprs {
			params.Add(column, expr)
		}
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, q.collection, params.Encode())

	method := http.MethodGet
	if q.headOnly {
		method = http.MethodHead
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if q.countExact {
		req.Header.Set("Prefer", "count=exact")
	}
	if q.limit > 0 {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", q.offset, q.offset+q.limit-1))
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, q.collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retry := retryAfter(resp.Header.Get("Retry-After"))
		c.limiter.SetBackoff(retry)
		return 0, fmt.Errorf("%s %s: rate limited, retry after %s", method, q.collection, retry)
	}

	// PostgREST answers 200, or 206 for partial ranges
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%s %s: status %d: %s", method, q.collection, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	total := -1
	if q.countExact {
		total, err = parseContentRange(resp.Header.Get("Content-Range"))
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", method, q.collection, err)
		}
	}

	if out != nil && !q.headOnly {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return 0, fmt.Errorf("decode %s response: %w", q.collection, err)
		}
	}

	c.log.Debug().
		Str("collection", q.collection).
		Str("method", method).
		Int("total", total).
		Dur("took", time.Since(started)).
		Msg("backend request")

	return total, nil
}

// parseContentRange extracts the total from a "0-999/5000" or "*/0" header.
func parseContentRange(header string) (int, error) {
	_, totalPart, ok := strings.Cut(header, "/")
	if !ok {
		return 0, fmt.Errorf("missing content-range header")
	}
	if totalPart == "*" {
		return 0, fmt.Errorf("content-range total not computed")
	}
	total, err := strconv.Atoi(totalPart)
	if err != nil {
		return 0, fmt.Errorf("parse content-range %q: %w", header, err)
	}
	return total, nil
}

func retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 5 * time.Second
}

// CountMessages returns the number of message rows in the window.
func (c *Client) CountMessages(ctx context.Context, win backend.Window, groupID string) (int, error) {
	q := newQuery(backend.CollectionMessages).window(win).group(groupID)
	q.countExact = true
	q.headOnly = true
	return c.do(ctx, q, nil)
}

// MessageTimestamps returns one page of message timestamps in the window.
func (c *Client) MessageTimestamps(ctx context.Context, win backend.Window, groupID string, limit, offset int) ([]time.Time, error) {
	q := newQuery(backend.CollectionMessages).window(win).group(groupID)
	q.sel = tsColumn
	q.order = tsColumn + ".asc"
	q.limit = limit
	q.offset = offset

	var rows []struct {
		Timestamp time.Time `json:"message_timestamp"`
	}
	if _, err := c.do(ctx, q, &rows); err != nil {
		return nil, err
	}

	out := make([]time.Time, len(rows))
	for i, r := range rows {
		out[i] = r.Timestamp
	}
	return out, nil
}

// MessageTypes returns one page of message type tags.
func (c *Client) MessageTypes(ctx context.Context, groupID string, limit, offset int) ([]string, error) {
	q := newQuery(backend.CollectionMessages).group(groupID)
	q.sel = "message_type"
	q.order = "id.asc"
	q.limit = limit
	q.offset = offset

	var rows []struct {
		Type string `json:"message_type"`
	}
	if _, err := c.do(ctx, q, &rows); err != nil {
		return nil, err
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Type
	}
	return out, nil
}

// SearchMessages issues one substring-match page with a combined exact count.
func (c *Client) SearchMessages(ctx context.Context, search, groupID string, limit, offset int) ([]models.Message, int, error) {
	q := newQuery(backend.CollectionMessages).group(groupID)
	q.filter("body", "ilike", "*"+search+"*")
	q.order = tsColumn + ".desc"
	q.limit = limit
	q.offset = offset
	q.countExact = true

	var hits []models.Message
	total, err := c.do(ctx, q, &hits)
	if err != nil {
		return nil, 0, err
	}
	return hits, total, nil
}

// ListMessages returns all messages of a group in chronological order.
func (c *Client) ListMessages(ctx context.Context, groupID string) ([]models.Message, error) {
	q := newQuery(backend.CollectionMessages).group(groupID)
	q.order = tsColumn + ".asc"

	var msgs []models.Message
	if _, err := c.do(ctx, q, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListMembers returns membership rollups, ordered by message count when a
// group filter is present.
func (c *Client) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	q := newQuery(backend.CollectionMembers).group(groupID)
	if groupID != "" {
		q.order = "message_count.desc"
	}

	var members []models.Member
	if _, err := c.do(ctx, q, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers returns the total number of membership rows.
func (c *Client) CountMembers(ctx context.Context) (int, error) {
	q := newQuery(backend.CollectionMembers)
	q.countExact = true
	q.headOnly = true
	return c.do(ctx, q, nil)
}

// ListGroups returns the per-group summary view.
func (c *Client) ListGroups(ctx context.Context) ([]models.GroupStats, error) {
	var groups []models.GroupStats
	if _, err := c.do(ctx, newQuery(backend.CollectionGroups), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListGhosts returns the inactive-member view.
func (c *Client) ListGhosts(ctx context.Context) ([]models.Ghost, error) {
	var ghosts []models.Ghost
	if _, err := c.do(ctx, newQuery(backend.CollectionGhosts), &ghosts); err != nil {
		return nil, err
	}
	return ghosts, nil
}

// CountInactiveMembers counts members whose last message falls in [Start, End).
func (c *Client) CountInactiveMembers(ctx context.Context, win backend.Window) (int, error) {
	q := newQuery(backend.CollectionMembers)
	q.filter("last_message_at", "gte", win.Start.UTC().Format(time.RFC3339))
	q.filter("last_message_at", "lt", win.End.UTC().Format(time.RFC3339))
	q.countExact = true
	q.headOnly = true
	return c.do(ctx, q, nil)
}
