package handlers

import (
	"encoding/json"
	"time"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is the response format for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Engine  string `json:"engine"`
}

// CreateMemoRequest is the request body for POST /api/memos.
type CreateMemoRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateMemoRequest is the request body for PATCH /api/memos/{id}.
// Omitted fields keep their stored values.
type UpdateMemoRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// CreateTodoRequest is the request body for POST /api/todos.
type CreateTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateTodoRequest is the request body for PATCH /api/todos/{id}.
//
// due_date is tri-state: an omitted key keeps the stored value, an explicit
// null clears it, and a date string replaces it.
type UpdateTodoRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// DueDateSet records whether the body contained the due_date key.
	DueDateSet bool `json:"-"`
}

// UnmarshalJSON records key presence for the tri-state due_date field.
func (r *UpdateTodoRequest) UnmarshalJSON(data []byte) error {
	type Alias UpdateTodoRequest
	if err := json.Unmarshal(data, (*Alias)(r)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.DueDateSet = keys["due_date"]
	return nil
}

// CreateScheduleRequest is the request body for POST /api/schedules.
// Times are RFC 3339 timestamps.
type CreateScheduleRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Location    string     `json:"location,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateScheduleRequest is the request body for PATCH /api/schedules/{id}.
// end_time follows the same tri-state convention as due_date on todos.
type UpdateScheduleRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	// EndTimeSet records whether the body contained the end_time key.
	EndTimeSet bool `json:"-"`
}

// UnmarshalJSON records key presence for the tri-state end_time field.
func (r *UpdateScheduleRequest) UnmarshalJSON(data []byte) error {
	type Alias UpdateScheduleRequest
	if err := json.Unmarshal(data, (*Alias)(r)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.EndTimeSet = keys["end_time"]
	return nil
}

// CreateBookmarkRequest is the request body for POST /api/bookmarks.
type CreateBookmarkRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateBookmarkRequest is the request body for PATCH /api/bookmarks/{id}.
type UpdateBookmarkRequest struct {
	URL         *string  `json:"url,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListResponse wraps a list payload with its length so clients do not have
// to count.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// Event is the envelope broadcast to WebSocket clients on every mutation.
type Event struct {
	Type string      `json:"type"` // e.g. "memo.created", "todo.updated"
	Data interface{} `json:"data"`
}
