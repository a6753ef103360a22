package storage

import (
	"errors"
	"time"

	"github.com/jwkim/assistant/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// MemoFilter narrows memo listings. Nil pointer fields mean "no filter on
// this column". Query matches case-insensitively against both title and
// content; Tag requires exact membership in the memo's tag set.
type MemoFilter struct {
	Query *string
	Tag   *string
}

// TodoFilter narrows todo listings.
type TodoFilter struct {
	// Completed filters by completion state. Nil means both states.
	Completed *bool

	// Priority filters by exact priority level.
	Priority *types.Priority

	// Tag requires exact membership in the todo's tag set.
	Tag *string
}

// ScheduleFilter narrows schedule listings. Dates are calendar dates in
// YYYY-MM-DD form compared against the date part of start_time.
type ScheduleFilter struct {
	// Date restricts to events starting on this exact date.
	Date *string

	// From restricts to events starting on or after this date.
	From *string

	// To restricts to events starting on or before this date.
	To *string

	// Tag requires exact membership in the schedule's tag set.
	Tag *string
}

// BookmarkFilter narrows bookmark listings. Query matches case-insensitively
// against title, description, and URL.
type BookmarkFilter struct {
	Query *string
	Tag   *string
}

// MemoCreate holds the fields for a new memo. Title is required.
type MemoCreate struct {
	Title   string
	Content string
	Tags    []string
}

// TodoCreate holds the fields for a new todo. Title is required; Priority
// defaults to medium when empty.
type TodoCreate struct {
	Title       string
	Description string
	Priority    types.Priority
	DueDate     *string
	Tags        []string
}

// ScheduleCreate holds the fields for a new schedule. Title and StartTime
// are required.
type ScheduleCreate struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Location    string
	Tags        []string
}

// BookmarkCreate holds the fields for a new bookmark. URL is required.
type BookmarkCreate struct {
	URL         string
	Title       string
	Description string
	Tags        []string
}

// MemoUpdate is a partial memo update. Nil fields keep the stored value.
type MemoUpdate struct {
	Title   *string
	Content *string
	Tags    []string
}

// TodoUpdate is a partial todo update. Nil fields keep the stored value.
// DueDate is tri-state: the field absent (SetDueDate false) keeps the stored
// value, while SetDueDate true with a nil DueDate clears it.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *types.Priority
	DueDate     *string
	SetDueDate  bool
	Tags        []string
}

// ScheduleUpdate is a partial schedule update. EndTime follows the same
// tri-state convention as TodoUpdate.DueDate.
type ScheduleUpdate struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	SetEndTime  bool
	Location    *string
	Tags        []string
}

// BookmarkUpdate is a partial bookmark update. Nil fields keep the stored value.
type BookmarkUpdate struct {
	URL         *string
	Title       *string
	Description *string
	Tags        []string
}
