package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/internal/storage/postgres"
	"github.com/jwkim/assistant/pkg/types"
)

// postgresTestDSN returns the DSN for the test database.
// If POSTGRES_TEST_DSN is not set, tests are skipped.
func postgresTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set; skipping PostgreSQL integration tests")
	}
	return dsn
}

// newTestStore creates a fresh Store connected to the test database with
// empty tables, and registers cleanup.
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()

	store, err := postgres.New(postgresTestDSN(t))
	require.NoError(t, err, "New should succeed")

	require.NoError(t, store.TruncateForTest(context.Background()), "truncate tables")

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestMemoRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memo, err := store.CreateMemo(ctx, storage.MemoCreate{
		Title:   "Postgres memo",
		Content: "array-backed tags",
		Tags:    []string{"infra", "notes"},
	})
	require.NoError(t, err)
	assert.NotZero(t, memo.ID)
	assert.Equal(t, []string{"infra", "notes"}, memo.Tags)

	// Tag membership via = ANY(tags) is exact.
	memos, err := store.ListMemos(ctx, storage.MemoFilter{Tag: strPtr("infra")}, 0)
	require.NoError(t, err)
	assert.Len(t, memos, 1)

	memos, err = store.ListMemos(ctx, storage.MemoFilter{Tag: strPtr("inf")}, 0)
	require.NoError(t, err)
	assert.Empty(t, memos)

	// A present-but-empty tag is a membership test for "" and matches
	// nothing; only a nil Tag skips the predicate.
	memos, err = store.ListMemos(ctx, storage.MemoFilter{Tag: strPtr("")}, 0)
	require.NoError(t, err)
	assert.Empty(t, memos)

	// ILIKE search against title and content.
	memos, err = store.ListMemos(ctx, storage.MemoFilter{Query: strPtr("ARRAY-BACKED")}, 0)
	require.NoError(t, err)
	assert.Len(t, memos, 1)

	updated, err := store.UpdateMemo(ctx, memo.ID, storage.MemoUpdate{Title: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "array-backed tags", updated.Content)

	require.NoError(t, store.DeleteMemo(ctx, memo.ID))
	_, err = store.GetMemo(ctx, memo.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTodoRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateTodo(ctx, storage.TodoCreate{
		Title: "low later", Priority: types.PriorityLow, DueDate: strPtr("2026-09-20"),
	})
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, storage.TodoCreate{
		Title: "high dated", Priority: types.PriorityHigh, DueDate: strPtr("2026-09-10"),
	})
	require.NoError(t, err)
	undated, err := store.CreateTodo(ctx, storage.TodoCreate{
		Title: "high undated", Priority: types.PriorityHigh,
	})
	require.NoError(t, err)

	// Priority first, then due date with NULLS LAST.
	todos, err := store.ListTodos(ctx, storage.TodoFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "high dated", todos[0].Title)
	assert.Equal(t, "high undated", todos[1].Title)
	assert.Equal(t, "low later", todos[2].Title)

	// DATE columns round-trip as YYYY-MM-DD strings.
	require.NotNil(t, todos[0].DueDate)
	assert.Equal(t, "2026-09-10", *todos[0].DueDate)

	// Tri-state due date clear.
	cleared, err := store.UpdateTodo(ctx, todos[0].ID, storage.TodoUpdate{SetDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	// Completion filter.
	_, err = store.UpdateTodo(ctx, undated.ID, storage.TodoUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)
	open, err := store.ListTodos(ctx, storage.TodoFilter{Completed: boolPtr(false)}, 0)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	counts, err := store.CountTodos(ctx, "2026-09-20")
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Incomplete)
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 1, counts.DueToday)
}

func TestScheduleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	schedule, err := store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "standup",
		StartTime: start,
		EndTime:   &end,
		Location:  "zoom",
	})
	require.NoError(t, err)

	_, err = store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "next week",
		StartTime: start.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	schedules, err := store.ListSchedules(ctx, storage.ScheduleFilter{Date: strPtr("2026-09-07")}, 0)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "standup", schedules[0].Title)

	schedules, err = store.ListSchedules(ctx, storage.ScheduleFilter{
		From: strPtr("2026-09-07"),
		To:   strPtr("2026-09-14"),
	}, 0)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)

	cleared, err := store.UpdateSchedule(ctx, schedule.ID, storage.ScheduleUpdate{SetEndTime: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.EndTime)
}

func TestBookmarkRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateBookmark(ctx, storage.BookmarkCreate{
		URL:   "https://example.com/golang",
		Title: "Go resources",
		Tags:  []string{"go"},
	})
	require.NoError(t, err)

	_, err = store.CreateBookmark(ctx, storage.BookmarkCreate{URL: "https://example.com/untitled"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	// Query matches the URL as well as title and description.
	bookmarks, err := store.ListBookmarks(ctx, storage.BookmarkFilter{Query: strPtr("GOLANG")}, 0)
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)

	count, err := store.CountBookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
