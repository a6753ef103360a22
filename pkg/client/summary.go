package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwkim/assistant/pkg/types"
)

// Search runs the combined cross-entity search. The query is required.
func (c *Client) Search(ctx context.Context, query string, limit int) (*types.SearchResults, error) {
	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var results types.SearchResults
	if err := c.do(ctx, http.MethodGet, "/api/search", q, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Summary returns the aggregate counts and today's schedules.
func (c *Client) Summary(ctx context.Context) (*types.Summary, error) {
	var summary types.Summary
	if err := c.do(ctx, http.MethodGet, "/api/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// TodaySummary returns today's schedules, due todos, and recent memos.
func (c *Client) TodaySummary(ctx context.Context) (*types.TodaySummary, error) {
	var summary types.TodaySummary
	if err := c.do(ctx, http.MethodGet, "/api/summary/today", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Health reports the server's health endpoint, which is reachable without
// authentication.
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var health map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return health, nil
}
