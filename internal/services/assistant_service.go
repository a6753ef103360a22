// Package services contains the application services that sit between the
// transport layers (REST, MCP) and the storage backends.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

// recentMemoLimit bounds the memo list included in the daily summary.
const recentMemoLimit = 5

// AssistantService implements the cross-entity operations: combined search
// and the daily summary aggregates. Single-entity CRUD goes straight to the
// store; this service exists for the operations that touch several tables.
type AssistantService struct {
	store storage.Store

	// now is injected so tests can pin the clock.
	now func() time.Time
}

// NewAssistantService creates a new AssistantService backed by the given store.
func NewAssistantService(store storage.Store) *AssistantService {
	return &AssistantService{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the service clock. For tests.
func (s *AssistantService) WithClock(now func() time.Time) *AssistantService {
	s.now = now
	return s
}

// Store exposes the underlying store for the transport layers.
func (s *AssistantService) Store() storage.Store {
	return s.store
}

// today returns the current local calendar date as YYYY-MM-DD.
func (s *AssistantService) today() string {
	return s.now().Format("2006-01-02")
}

// SearchAll searches memos, todos, schedules, and bookmarks for the query
// string, case-insensitively. The four lookups run concurrently; if any of
// them fails the whole search fails.
func (s *AssistantService) SearchAll(ctx context.Context, query string, limit int) (*types.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", storage.ErrInvalidInput)
	}

	results := &types.SearchResults{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		memos, err := s.store.ListMemos(ctx, storage.MemoFilter{Query: &query}, limit)
		if err != nil {
			return fmt.Errorf("search memos: %w", err)
		}
		results.Memos = memos
		return nil
	})

	g.Go(func() error {
		// Todos have no stored search column worth indexing, so fetch and
		// filter in process like the other entity queries do in SQL.
		todos, err := s.store.ListTodos(ctx, storage.TodoFilter{}, 0)
		if err != nil {
			return fmt.Errorf("search todos: %w", err)
		}
		results.Todos = filterTodos(todos, query, limit)
		return nil
	})

	g.Go(func() error {
		schedules, err := s.store.ListSchedules(ctx, storage.ScheduleFilter{}, 0)
		if err != nil {
			return fmt.Errorf("search schedules: %w", err)
		}
		results.Schedules = filterSchedules(schedules, query, limit)
		return nil
	})

	g.Go(func() error {
		bookmarks, err := s.store.ListBookmarks(ctx, storage.BookmarkFilter{Query: &query}, limit)
		if err != nil {
			return fmt.Errorf("search bookmarks: %w", err)
		}
		results.Bookmarks = bookmarks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// TodaySummary assembles the daily briefing: today's schedule, todos due
// today, the incomplete todo count, the most recent memos, and the bookmark
// total. All five lookups run concurrently.
func (s *AssistantService) TodaySummary(ctx context.Context) (*types.TodaySummary, error) {
	today := s.today()
	summary := &types.TodaySummary{Date: today}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		schedules, err := s.store.ListSchedules(ctx, storage.ScheduleFilter{Date: &today}, 0)
		if err != nil {
			return fmt.Errorf("today's schedules: %w", err)
		}
		summary.TodaySchedules = schedules
		return nil
	})

	g.Go(func() error {
		todos, err := s.store.ListTodosDueOn(ctx, today)
		if err != nil {
			return fmt.Errorf("todos due today: %w", err)
		}
		summary.DueTodos = todos
		return nil
	})

	g.Go(func() error {
		counts, err := s.store.CountTodos(ctx, today)
		if err != nil {
			return fmt.Errorf("todo counts: %w", err)
		}
		summary.IncompleteTodoCount = counts.Incomplete
		return nil
	})

	g.Go(func() error {
		memos, err := s.store.ListMemos(ctx, storage.MemoFilter{}, recentMemoLimit)
		if err != nil {
			return fmt.Errorf("recent memos: %w", err)
		}
		summary.RecentMemos = memos
		return nil
	})

	g.Go(func() error {
		count, err := s.store.CountBookmarks(ctx)
		if err != nil {
			return fmt.Errorf("bookmark count: %w", err)
		}
		summary.BookmarkCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Summary assembles the dashboard aggregate: entity totals, todo completion
// counts, and today's schedule.
func (s *AssistantService) Summary(ctx context.Context) (*types.Summary, error) {
	today := s.today()
	summary := &types.Summary{Date: today}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.store.CountMemos(ctx)
		if err != nil {
			return fmt.Errorf("memo count: %w", err)
		}
		summary.Memos.Total = count
		return nil
	})

	g.Go(func() error {
		counts, err := s.store.CountTodos(ctx, today)
		if err != nil {
			return fmt.Errorf("todo counts: %w", err)
		}
		summary.Todos = counts
		return nil
	})

	g.Go(func() error {
		schedules, err := s.store.ListSchedules(ctx, storage.ScheduleFilter{Date: &today}, 0)
		if err != nil {
			return fmt.Errorf("today's schedules: %w", err)
		}
		summary.Schedules.Today = schedules
		return nil
	})

	g.Go(func() error {
		count, err := s.store.CountBookmarks(ctx)
		if err != nil {
			return fmt.Errorf("bookmark count: %w", err)
		}
		summary.Bookmarks.Total = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// WeekSchedules returns this week's schedules, Monday through Sunday of the
// current ISO week.
func (s *AssistantService) WeekSchedules(ctx context.Context) ([]types.Schedule, error) {
	monday := weekStart(s.now())
	from := monday.Format("2006-01-02")
	to := monday.AddDate(0, 0, 6).Format("2006-01-02")

	return s.store.ListSchedules(ctx, storage.ScheduleFilter{From: &from, To: &to}, 0)
}

// IncompleteTodos returns open todos in the standard priority ordering.
func (s *AssistantService) IncompleteTodos(ctx context.Context) ([]types.Todo, error) {
	completed := false
	return s.store.ListTodos(ctx, storage.TodoFilter{Completed: &completed}, 0)
}

// weekStart returns the Monday of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -daysSinceMonday)
}

// filterTodos keeps todos whose title or description contains the query,
// case-insensitively. The stored ordering is preserved.
func filterTodos(todos []types.Todo, query string, limit int) []types.Todo {
	q := strings.ToLower(query)
	matched := []types.Todo{}
	for _, todo := range todos {
		if limit > 0 && len(matched) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(todo.Title), q) ||
			strings.Contains(strings.ToLower(todo.Description), q) {
			matched = append(matched, todo)
		}
	}
	return matched
}

// filterSchedules keeps schedules whose title, description, or location
// contains the query, case-insensitively.
func filterSchedules(schedules []types.Schedule, query string, limit int) []types.Schedule {
	q := strings.ToLower(query)
	matched := []types.Schedule{}
	for _, schedule := range schedules {
		if limit > 0 && len(matched) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(schedule.Title), q) ||
			strings.Contains(strings.ToLower(schedule.Description), q) ||
			strings.Contains(strings.ToLower(schedule.Location), q) {
			matched = append(matched, schedule)
		}
	}
	return matched
}
