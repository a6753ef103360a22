package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

func TestTodoCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	todo, err := store.CreateTodo(ctx, storage.TodoCreate{
		Title:    "Write report",
		Priority: types.PriorityHigh,
		DueDate:  strPtr("2026-09-05"),
		Tags:     []string{"work"},
	})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if todo.Completed {
		t.Error("CreateTodo() should start incomplete")
	}
	if todo.DueDate == nil || *todo.DueDate != "2026-09-05" {
		t.Errorf("DueDate: got %v, want 2026-09-05", todo.DueDate)
	}

	updated, err := store.UpdateTodo(ctx, todo.ID, storage.TodoUpdate{
		Completed: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}
	if !updated.Completed {
		t.Error("UpdateTodo() did not mark completed")
	}
	if updated.Priority != types.PriorityHigh {
		t.Errorf("Priority changed unexpectedly: got %q", updated.Priority)
	}

	if err := store.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("DeleteTodo() failed: %v", err)
	}
	if _, err := store.GetTodo(ctx, todo.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTodo() after delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateTodoDefaultsAndValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	todo, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "defaults"})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if todo.Priority != types.PriorityMedium {
		t.Errorf("Priority default: got %q, want medium", todo.Priority)
	}
	if todo.DueDate != nil {
		t.Errorf("DueDate default: got %v, want nil", todo.DueDate)
	}

	if _, err := store.CreateTodo(ctx, storage.TodoCreate{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateTodo() without title: got %v, want ErrInvalidInput", err)
	}

	_, err = store.CreateTodo(ctx, storage.TodoCreate{Title: "bad", Priority: "urgent"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateTodo() with unknown priority: got %v, want ErrInvalidInput", err)
	}

	_, err = store.CreateTodo(ctx, storage.TodoCreate{Title: "bad", DueDate: strPtr("tomorrow")})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateTodo() with malformed due date: got %v, want ErrInvalidInput", err)
	}
}

func TestListTodosOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []storage.TodoCreate{
		{Title: "low undated", Priority: types.PriorityLow},
		{Title: "high late", Priority: types.PriorityHigh, DueDate: strPtr("2026-09-20")},
		{Title: "medium early", Priority: types.PriorityMedium, DueDate: strPtr("2026-09-02")},
		{Title: "high early", Priority: types.PriorityHigh, DueDate: strPtr("2026-09-03")},
		{Title: "high undated", Priority: types.PriorityHigh},
	}
	for _, in := range seed {
		if _, err := store.CreateTodo(ctx, in); err != nil {
			t.Fatalf("seed CreateTodo() failed: %v", err)
		}
	}

	todos, err := store.ListTodos(ctx, storage.TodoFilter{}, 0)
	if err != nil {
		t.Fatalf("ListTodos() failed: %v", err)
	}

	want := []string{"high early", "high late", "high undated", "medium early", "low undated"}
	if len(todos) != len(want) {
		t.Fatalf("ListTodos(): got %d todos, want %d", len(todos), len(want))
	}
	for i, title := range want {
		if todos[i].Title != title {
			t.Errorf("ListTodos()[%d]: got %q, want %q", i, todos[i].Title, title)
		}
	}
}

func TestListTodosFiltering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "done", Tags: []string{"work"}})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.UpdateTodo(ctx, done.ID, storage.TodoUpdate{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}
	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "open high", Priority: types.PriorityHigh}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}

	todos, err := store.ListTodos(ctx, storage.TodoFilter{Completed: boolPtr(false)}, 0)
	if err != nil {
		t.Fatalf("ListTodos(completed=false) failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "open high" {
		t.Errorf("ListTodos(completed=false): got %v, want just the open todo", todos)
	}

	priority := types.PriorityHigh
	todos, err = store.ListTodos(ctx, storage.TodoFilter{Priority: &priority}, 0)
	if err != nil {
		t.Fatalf("ListTodos(priority) failed: %v", err)
	}
	if len(todos) != 1 {
		t.Errorf("ListTodos(priority): got %d todos, want 1", len(todos))
	}

	todos, err = store.ListTodos(ctx, storage.TodoFilter{Tag: strPtr("work")}, 0)
	if err != nil {
		t.Fatalf("ListTodos(tag) failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "done" {
		t.Errorf("ListTodos(tag): got %v, want just the tagged todo", todos)
	}
}

func TestListTodosEmptyTagMatchesNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "tagged", Tags: []string{"work"}}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "untagged"}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}

	// An empty tag is a membership test for "" and no todo carries that
	// tag, so nothing matches. Only a nil Tag means no filter.
	todos, err := store.ListTodos(ctx, storage.TodoFilter{Tag: strPtr("")}, 0)
	if err != nil {
		t.Fatalf("ListTodos(empty tag) failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("ListTodos(empty tag): got %d todos, want 0", len(todos))
	}
}

func TestListTodosZeroLimitReturnsAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const total = 120
	for i := 0; i < total; i++ {
		if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: fmt.Sprintf("todo %d", i)}); err != nil {
			t.Fatalf("CreateTodo() failed: %v", err)
		}
	}

	todos, err := store.ListTodos(ctx, storage.TodoFilter{}, 0)
	if err != nil {
		t.Fatalf("ListTodos() failed: %v", err)
	}
	if len(todos) != total {
		t.Errorf("ListTodos() with no limit: got %d todos, want %d", len(todos), total)
	}

	todos, err = store.ListTodos(ctx, storage.TodoFilter{}, 10)
	if err != nil {
		t.Fatalf("ListTodos(limit=10) failed: %v", err)
	}
	if len(todos) != 10 {
		t.Errorf("ListTodos(limit=10): got %d todos, want 10", len(todos))
	}
}

func TestUpdateTodoDueDateTriState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	todo, err := store.CreateTodo(ctx, storage.TodoCreate{
		Title:   "due date handling",
		DueDate: strPtr("2026-09-10"),
	})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}

	// An update that doesn't mention the due date keeps it.
	updated, err := store.UpdateTodo(ctx, todo.ID, storage.TodoUpdate{Title: strPtr("renamed")})
	if err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}
	if updated.DueDate == nil || *updated.DueDate != "2026-09-10" {
		t.Errorf("DueDate after unrelated update: got %v, want 2026-09-10", updated.DueDate)
	}

	// An explicit nil with SetDueDate clears it.
	updated, err = store.UpdateTodo(ctx, todo.ID, storage.TodoUpdate{SetDueDate: true})
	if err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate after clear: got %v, want nil", updated.DueDate)
	}

	// And it can be set again.
	updated, err = store.UpdateTodo(ctx, todo.ID, storage.TodoUpdate{
		SetDueDate: true,
		DueDate:    strPtr("2026-10-01"),
	})
	if err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}
	if updated.DueDate == nil || *updated.DueDate != "2026-10-01" {
		t.Errorf("DueDate after re-set: got %v, want 2026-10-01", updated.DueDate)
	}
}

func TestListTodosDueOn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "due today", DueDate: strPtr("2026-09-01")}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "due later", DueDate: strPtr("2026-09-08")}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	finished, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "finished today", DueDate: strPtr("2026-09-01")})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.UpdateTodo(ctx, finished.ID, storage.TodoUpdate{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}

	todos, err := store.ListTodosDueOn(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("ListTodosDueOn() failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "due today" {
		t.Errorf("ListTodosDueOn(): got %v, want just the incomplete todo due today", todos)
	}
}

func TestCountTodos(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "open", DueDate: strPtr("2026-09-01")}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "open later", DueDate: strPtr("2026-09-09")}); err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	done, err := store.CreateTodo(ctx, storage.TodoCreate{Title: "done"})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	if _, err := store.UpdateTodo(ctx, done.ID, storage.TodoUpdate{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("UpdateTodo() failed: %v", err)
	}

	counts, err := store.CountTodos(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("CountTodos() failed: %v", err)
	}
	if counts.Incomplete != 2 {
		t.Errorf("Incomplete: got %d, want 2", counts.Incomplete)
	}
	if counts.Completed != 1 {
		t.Errorf("Completed: got %d, want 1", counts.Completed)
	}
	if counts.DueToday != 1 {
		t.Errorf("DueToday: got %d, want 1", counts.DueToday)
	}
}
