package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwkim/assistant/pkg/types"
)

// CreateBookmarkParams is the input for CreateBookmark. URL and Title are
// required.
type CreateBookmarkParams struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// BookmarkPatch updates a bookmark. Nil fields keep their stored values.
type BookmarkPatch struct {
	URL         *string  `json:"url,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// BookmarkListOptions filters ListBookmarks. Zero values apply no filter.
type BookmarkListOptions struct {
	Query string // substring match on url, title, or description
	Tag   string
	Limit int
}

func (o BookmarkListOptions) query() url.Values {
	q := url.Values{}
	if o.Query != "" {
		q.Set("query", o.Query)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *Client) CreateBookmark(ctx context.Context, params CreateBookmarkParams) (*types.Bookmark, error) {
	var bookmark types.Bookmark
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", nil, params, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (c *Client) ListBookmarks(ctx context.Context, opts BookmarkListOptions) ([]types.Bookmark, error) {
	var resp listEnvelope[types.Bookmark]
	if err := c.do(ctx, http.MethodGet, "/api/bookmarks", opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetBookmark(ctx context.Context, id int64) (*types.Bookmark, error) {
	var bookmark types.Bookmark
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d", id), nil, nil, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (c *Client) UpdateBookmark(ctx context.Context, id int64, patch BookmarkPatch) (*types.Bookmark, error) {
	var bookmark types.Bookmark
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/bookmarks/%d", id), nil, patch, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (c *Client) DeleteBookmark(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/bookmarks/%d", id), nil, nil, nil)
}
