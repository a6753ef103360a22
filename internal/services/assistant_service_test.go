package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/internal/storage/sqlite"
	"github.com/jwkim/assistant/pkg/types"
)

// fixedNow pins the service clock to a Wednesday so week math is stable.
var fixedNow = time.Date(2026, 9, 2, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *AssistantService {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewAssistantService(store).WithClock(func() time.Time { return fixedNow })
}

func strPtr(s string) *string { return &s }

func seedAll(t *testing.T, svc *AssistantService) {
	t.Helper()
	ctx := context.Background()
	store := svc.Store()

	_, err := store.CreateMemo(ctx, storage.MemoCreate{Title: "Project alpha notes", Content: "kickoff recap"})
	require.NoError(t, err)
	_, err = store.CreateMemo(ctx, storage.MemoCreate{Title: "Shopping", Content: "milk"})
	require.NoError(t, err)

	_, err = store.CreateTodo(ctx, storage.TodoCreate{
		Title: "Ship alpha build", Priority: types.PriorityHigh, DueDate: strPtr("2026-09-02"),
	})
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, storage.TodoCreate{Title: "Water plants"})
	require.NoError(t, err)

	_, err = store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "Alpha review",
		StartTime: time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "Dentist",
		StartTime: time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "Offsite",
		StartTime: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = store.CreateBookmark(ctx, storage.BookmarkCreate{
		URL: "https://example.com/alpha-spec", Title: "Alpha spec",
	})
	require.NoError(t, err)
}

func TestSearchAll(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	results, err := svc.SearchAll(context.Background(), "alpha", 0)
	require.NoError(t, err)

	assert.Len(t, results.Memos, 1, "memo title match")
	assert.Len(t, results.Todos, 1, "todo title match")
	assert.Len(t, results.Schedules, 1, "schedule title match")
	assert.Len(t, results.Bookmarks, 1, "bookmark url+title match")

	// Case-insensitive everywhere.
	upper, err := svc.SearchAll(context.Background(), "ALPHA", 0)
	require.NoError(t, err)
	assert.Equal(t, results, upper)
}

func TestSearchAllRequiresQuery(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SearchAll(context.Background(), "  ", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestTodaySummary(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	summary, err := svc.TodaySummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-09-02", summary.Date)
	require.Len(t, summary.TodaySchedules, 1)
	assert.Equal(t, "Alpha review", summary.TodaySchedules[0].Title)
	require.Len(t, summary.DueTodos, 1)
	assert.Equal(t, "Ship alpha build", summary.DueTodos[0].Title)
	assert.Equal(t, 2, summary.IncompleteTodoCount)
	assert.Len(t, summary.RecentMemos, 2)
	assert.Equal(t, 1, summary.BookmarkCount)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Memos.Total)
	assert.Equal(t, 2, summary.Todos.Incomplete)
	assert.Equal(t, 0, summary.Todos.Completed)
	assert.Equal(t, 1, summary.Todos.DueToday)
	assert.Len(t, summary.Schedules.Today, 1)
	assert.Equal(t, 1, summary.Bookmarks.Total)
}

func TestWeekSchedules(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	// The fixed clock is Wednesday 2026-09-02; its ISO week runs
	// Monday 2026-08-31 through Sunday 2026-09-06. The offsite on the
	// 14th falls outside it.
	schedules, err := svc.WeekSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, "Alpha review", schedules[0].Title)
	assert.Equal(t, "Dentist", schedules[1].Title)
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "2026-08-31"},  // Monday
		{time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC), "2026-08-31"},  // Wednesday
		{time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC), "2026-08-31"},  // Sunday
		{time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), "2026-09-07"},   // next Monday
	}

	for _, tc := range cases {
		if got := weekStart(tc.day).Format("2006-01-02"); got != tc.want {
			t.Errorf("weekStart(%v) = %s, want %s", tc.day, got, tc.want)
		}
	}
}

func TestIncompleteTodos(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	todos, err := svc.IncompleteTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Ship alpha build", todos[0].Title, "high priority sorts first")
}
