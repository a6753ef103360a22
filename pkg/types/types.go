// Package types defines the core entity records for the personal assistant:
// memos, todos, schedules, and bookmarks. All four are independent — no
// entity references another entity's ID — and all are JSON-serializable in
// the shape the REST API and MCP tools return.
package types

import "time"

// Priority is the todo priority level.
type Priority string

// Priority levels, ordered high before medium before low in listings.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValidPriority reports whether p is one of the known priority levels.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort rank for a priority (high=1, medium=2, low=3).
// Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Memo is a free-form note with a title, body, and tag set.
type Memo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Todo is a task with completion state, priority, and an optional due date.
// DueDate is a calendar date in YYYY-MM-DD form; nil means no due date.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	DueDate     *string   `json:"due_date"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Schedule is a calendar event. StartTime is required; EndTime is nil for
// open-ended events.
type Schedule struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Location    string     `json:"location"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Bookmark is a saved URL with optional title and description.
type Bookmark struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// TodoCounts summarises todos by completion state for the summary endpoints.
type TodoCounts struct {
	Incomplete int `json:"incomplete"`
	Completed  int `json:"completed"`
	DueToday   int `json:"dueToday"`
}

// CountTotal wraps a single total count.
type CountTotal struct {
	Total int `json:"total"`
}

// ScheduleList wraps today's schedules inside the REST summary payload.
type ScheduleList struct {
	Today []Schedule `json:"today"`
}

// Summary is the aggregate returned by the REST summary endpoint.
type Summary struct {
	Date      string       `json:"date"`
	Memos     CountTotal   `json:"memos"`
	Todos     TodoCounts   `json:"todos"`
	Schedules ScheduleList `json:"schedules"`
	Bookmarks CountTotal   `json:"bookmarks"`
}

// TodaySummary is the aggregate returned by the MCP get_today_summary tool.
type TodaySummary struct {
	Date                string     `json:"date"`
	TodaySchedules      []Schedule `json:"todaySchedules"`
	DueTodos            []Todo     `json:"dueTodos"`
	IncompleteTodoCount int        `json:"incompleteTodoCount"`
	RecentMemos         []Memo     `json:"recentMemos"`
	BookmarkCount       int        `json:"bookmarkCount"`
}

// SearchResults is the combined cross-entity search result.
type SearchResults struct {
	Memos     []Memo     `json:"memos"`
	Todos     []Todo     `json:"todos"`
	Schedules []Schedule `json:"schedules"`
	Bookmarks []Bookmark `json:"bookmarks"`
}
