package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwkim/assistant/pkg/types"
)

// CreateMemoParams is the input for CreateMemo. Title is required.
type CreateMemoParams struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// MemoPatch updates a memo. Nil fields keep their stored values.
type MemoPatch struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// MemoListOptions filters ListMemos. Zero values apply no filter.
type MemoListOptions struct {
	Query string // substring match on title or content
	Tag   string // exact tag membership
	Limit int
}

func (o MemoListOptions) query() url.Values {
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

func (c *Client) CreateMemo(ctx context.Context, params CreateMemoParams) (*types.Memo, error) {
	var memo types.Memo
	if err := c.do(ctx, http.MethodPost, "/api/memos", nil, params, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

func (c *Client) ListMemos(ctx context.Context, opts MemoListOptions) ([]types.Memo, error) {
	var resp listEnvelope[types.Memo]
	if err := c.do(ctx, http.MethodGet, "/api/memos", opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetMemo(ctx context.Context, id int64) (*types.Memo, error) {
	var memo types.Memo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/memos/%d", id), nil, nil, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

func (c *Client) UpdateMemo(ctx context.Context, id int64, patch MemoPatch) (*types.Memo, error) {
	var memo types.Memo
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/memos/%d", id), nil, patch, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

func (c *Client) DeleteMemo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/memos/%d", id), nil, nil, nil)
}
