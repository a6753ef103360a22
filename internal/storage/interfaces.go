// Package storage provides composable storage interfaces for the assistant.
//
// The storage layer is designed with small, focused interfaces that can be
// implemented independently and composed as needed. Both the SQLite and
// Postgres backends implement the full Store interface.
package storage

import (
	"context"

	"github.com/jwkim/assistant/pkg/types"
)

// MemoStore provides CRUD operations for memos.
type MemoStore interface {
	// CreateMemo inserts a new memo and returns it with its assigned ID
	// and timestamps. Returns ErrInvalidInput if the title is empty.
	CreateMemo(ctx context.Context, in MemoCreate) (*types.Memo, error)

	// GetMemo retrieves a memo by ID. Returns ErrNotFound if it doesn't exist.
	GetMemo(ctx context.Context, id int64) (*types.Memo, error)

	// ListMemos retrieves memos matching the filter, newest updated first.
	ListMemos(ctx context.Context, f MemoFilter, limit int) ([]types.Memo, error)

	// UpdateMemo applies a partial update and returns the updated memo.
	// Returns ErrNotFound if the memo doesn't exist.
	UpdateMemo(ctx context.Context, id int64, u MemoUpdate) (*types.Memo, error)

	// DeleteMemo removes a memo. Returns ErrNotFound if it doesn't exist.
	DeleteMemo(ctx context.Context, id int64) error

	// CountMemos returns the total number of memos.
	CountMemos(ctx context.Context) (int, error)
}

// TodoStore provides CRUD operations and summary counts for todos.
type TodoStore interface {
	// CreateTodo inserts a new todo and returns it with its assigned ID.
	// Priority defaults to medium when empty. Returns ErrInvalidInput for
	// an empty title, an unknown priority, or a malformed due date.
	CreateTodo(ctx context.Context, in TodoCreate) (*types.Todo, error)

	// GetTodo retrieves a todo by ID. Returns ErrNotFound if it doesn't exist.
	GetTodo(ctx context.Context, id int64) (*types.Todo, error)

	// ListTodos retrieves todos matching the filter, ordered by priority
	// (high first) then due date ascending with undated todos last.
	ListTodos(ctx context.Context, f TodoFilter, limit int) ([]types.Todo, error)

	// UpdateTodo applies a partial update and returns the updated todo.
	// Returns ErrNotFound if the todo doesn't exist.
	UpdateTodo(ctx context.Context, id int64, u TodoUpdate) (*types.Todo, error)

	// DeleteTodo removes a todo. Returns ErrNotFound if it doesn't exist.
	DeleteTodo(ctx context.Context, id int64) error

	// ListTodosDueOn returns incomplete todos whose due date equals the
	// given YYYY-MM-DD date, in the standard todo ordering.
	ListTodosDueOn(ctx context.Context, date string) ([]types.Todo, error)

	// CountTodos returns completion-state counts, with DueToday computed
	// against the given YYYY-MM-DD date.
	CountTodos(ctx context.Context, today string) (types.TodoCounts, error)
}

// ScheduleStore provides CRUD operations and date-window queries for schedules.
type ScheduleStore interface {
	// CreateSchedule inserts a new schedule and returns it with its assigned
	// ID. Returns ErrInvalidInput if title is empty or StartTime is zero.
	CreateSchedule(ctx context.Context, in ScheduleCreate) (*types.Schedule, error)

	// GetSchedule retrieves a schedule by ID. Returns ErrNotFound if it
	// doesn't exist.
	GetSchedule(ctx context.Context, id int64) (*types.Schedule, error)

	// ListSchedules retrieves schedules matching the filter, ordered by
	// start time ascending.
	ListSchedules(ctx context.Context, f ScheduleFilter, limit int) ([]types.Schedule, error)

	// UpdateSchedule applies a partial update and returns the updated
	// schedule. Returns ErrNotFound if the schedule doesn't exist.
	UpdateSchedule(ctx context.Context, id int64, u ScheduleUpdate) (*types.Schedule, error)

	// DeleteSchedule removes a schedule. Returns ErrNotFound if it doesn't
	// exist.
	DeleteSchedule(ctx context.Context, id int64) error
}

// BookmarkStore provides CRUD operations for bookmarks.
type BookmarkStore interface {
	// CreateBookmark inserts a new bookmark and returns it with its
	// assigned ID. Returns ErrInvalidInput if the URL is empty.
	CreateBookmark(ctx context.Context, in BookmarkCreate) (*types.Bookmark, error)

	// GetBookmark retrieves a bookmark by ID. Returns ErrNotFound if it
	// doesn't exist.
	GetBookmark(ctx context.Context, id int64) (*types.Bookmark, error)

	// ListBookmarks retrieves bookmarks matching the filter, newest first.
	ListBookmarks(ctx context.Context, f BookmarkFilter, limit int) ([]types.Bookmark, error)

	// UpdateBookmark applies a partial update and returns the updated
	// bookmark. Returns ErrNotFound if the bookmark doesn't exist.
	UpdateBookmark(ctx context.Context, id int64, u BookmarkUpdate) (*types.Bookmark, error)

	// DeleteBookmark removes a bookmark. Returns ErrNotFound if it doesn't
	// exist.
	DeleteBookmark(ctx context.Context, id int64) error

	// CountBookmarks returns the total number of bookmarks.
	CountBookmarks(ctx context.Context) (int, error)
}

// Store is the full storage surface used by the services and servers.
type Store interface {
	MemoStore
	TodoStore
	ScheduleStore
	BookmarkStore

	// Close releases any resources held by the store.
	Close() error
}
