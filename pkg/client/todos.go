package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwkim/assistant/pkg/types"
)

// CreateTodoParams is the input for CreateTodo. Title is required; Priority
// defaults to medium server-side. DueDate is a YYYY-MM-DD date.
type CreateTodoParams struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TodoPatch updates a todo. Nil fields keep their stored values. The due
// date is tri-state: leave both DueDate and ClearDueDate zero to keep it,
// set DueDate to replace it, or set ClearDueDate to remove it.
type TodoPatch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *string
	DueDate      *string
	ClearDueDate bool
	Tags         []string
}

// MarshalJSON emits an explicit null for due_date when ClearDueDate is set,
// and omits the key entirely when the due date is untouched.
func (p TodoPatch) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Completed != nil {
		m["completed"] = *p.Completed
	}
	if p.Priority != nil {
		m["priority"] = *p.Priority
	}
	if p.Tags != nil {
		m["tags"] = p.Tags
	}
	if p.ClearDueDate {
		m["due_date"] = nil
	} else if p.DueDate != nil {
		m["due_date"] = *p.DueDate
	}
	return json.Marshal(m)
}

// TodoListOptions filters ListTodos. Zero values apply no filter.
type TodoListOptions struct {
	Completed *bool
	Priority  string
	Tag       string
	Limit     int
}

func (o TodoListOptions) query() url.Values {
	q := url.Values{}
	if o.Completed != nil {
		q.Set("completed", strconv.FormatBool(*o.Completed))
	}
	if o.Priority != "" {
		q.Set("priority", o.Priority)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *Client) CreateTodo(ctx context.Context, params CreateTodoParams) (*types.Todo, error) {
	var todo types.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", nil, params, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ListTodos(ctx context.Context, opts TodoListOptions) ([]types.Todo, error) {
	var resp listEnvelope[types.Todo]
	if err := c.do(ctx, http.MethodGet, "/api/todos", opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetTodo(ctx context.Context, id int64) (*types.Todo, error) {
	var todo types.Todo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/todos/%d", id), nil, nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, patch TodoPatch) (*types.Todo, error) {
	var todo types.Todo
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/todos/%d", id), nil, patch, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil, nil)
}
