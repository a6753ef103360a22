package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jwkim/assistant/pkg/types"
)

// CreateScheduleParams is the input for CreateSchedule. Title and StartTime
// are required.
type CreateScheduleParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Location    string     `json:"location,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// SchedulePatch updates a schedule. Nil fields keep their stored values.
// The end time is tri-state: set EndTime to replace it, set ClearEndTime to
// remove it, leave both zero to keep it.
type SchedulePatch struct {
	Title        *string
	Description  *string
	StartTime    *time.Time
	EndTime      *time.Time
	ClearEndTime bool
	Location     *string
	Tags         []string
}

// MarshalJSON emits an explicit null for end_time when ClearEndTime is set,
// and omits the key entirely when the end time is untouched.
func (p SchedulePatch) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.StartTime != nil {
		m["start_time"] = p.StartTime
	}
	if p.Location != nil {
		m["location"] = *p.Location
	}
	if p.Tags != nil {
		m["tags"] = p.Tags
	}
	if p.ClearEndTime {
		m["end_time"] = nil
	} else if p.EndTime != nil {
		m["end_time"] = p.EndTime
	}
	return json.Marshal(m)
}

// ScheduleListOptions filters ListSchedules. Date selects a single
// YYYY-MM-DD day; From/To bound a YYYY-MM-DD range. Zero values apply no
// filter.
type ScheduleListOptions struct {
	Date  string
	From  string
	To    string
	Tag   string
	Limit int
}

func (o ScheduleListOptions) query() url.Values {
	q := url.Values{}
	if o.Date != "" {
		q.Set("date", o.Date)
	}
	if o.From != "" {
		q.Set("from", o.From)
	}
	if o.To != "" {
		q.Set("to", o.To)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *Client) CreateSchedule(ctx context.Context, params CreateScheduleParams) (*types.Schedule, error) {
	var schedule types.Schedule
	if err := c.do(ctx, http.MethodPost, "/api/schedules", nil, params, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) ListSchedules(ctx context.Context, opts ScheduleListOptions) ([]types.Schedule, error) {
	var resp listEnvelope[types.Schedule]
	if err := c.do(ctx, http.MethodGet, "/api/schedules", opts.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// WeekSchedules returns the current ISO week's schedules, Monday through
// Sunday.
func (c *Client) WeekSchedules(ctx context.Context) ([]types.Schedule, error) {
	var resp listEnvelope[types.Schedule]
	if err := c.do(ctx, http.MethodGet, "/api/schedules/week", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetSchedule(ctx context.Context, id int64) (*types.Schedule, error) {
	var schedule types.Schedule
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/schedules/%d", id), nil, nil, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (*types.Schedule, error) {
	var schedule types.Schedule
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/schedules/%d", id), nil, patch, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", id), nil, nil, nil)
}
