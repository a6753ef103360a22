package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

// todoOrder sorts by priority (high first), then due date ascending with
// undated todos last.
const todoOrder = `ORDER BY
		CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END,
		due_date ASC NULLS LAST`

const todoColumns = "id, title, description, completed, priority, due_date, tags, created_at, updated_at"

func validateDueDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: due date must be YYYY-MM-DD, got %q", storage.ErrInvalidInput, date)
	}
	return nil
}

// CreateTodo inserts a new todo. Priority defaults to medium when empty.
func (s *Store) CreateTodo(ctx context.Context, in storage.TodoCreate) (*types.Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: todo title is required", storage.ErrInvalidInput)
	}

	priority := in.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !types.IsValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", storage.ErrInvalidInput, priority)
	}

	if in.DueDate != nil {
		if err := validateDueDate(*in.DueDate); err != nil {
			return nil, err
		}
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		rebind("INSERT INTO todos (title, description, priority, due_date, tags) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		in.Title, in.Description, priority, nullableString(in.DueDate), tags(in.Tags),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create todo: %w", err)
	}

	return s.GetTodo(ctx, id)
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id int64) (*types.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		rebind("SELECT "+todoColumns+" FROM todos WHERE id = ?"), id)

	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get todo: %w", err)
	}
	return todo, nil
}

// ListTodos retrieves todos matching the filter in priority-then-due order.
func (s *Store) ListTodos(ctx context.Context, f storage.TodoFilter, limit int) ([]types.Todo, error) {
	var conditions []string
	var args []interface{}

	if f.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, *f.Completed)
	}

	if f.Priority != nil {
		if !types.IsValidPriority(*f.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", storage.ErrInvalidInput, *f.Priority)
		}
		conditions = append(conditions, "priority = ?")
		args = append(args, *f.Priority)
	}

	if f.Tag != nil {
		conditions = append(conditions, "? = ANY(tags)")
		args = append(args, *f.Tag)
	}

	query := "SELECT " + todoColumns + " FROM todos"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " " + todoOrder
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryTodos(ctx, rebind(query), args...)
}

// ListTodosDueOn returns incomplete todos due on the given date.
func (s *Store) ListTodosDueOn(ctx context.Context, date string) ([]types.Todo, error) {
	if err := validateDueDate(date); err != nil {
		return nil, err
	}

	query := "SELECT " + todoColumns + " FROM todos WHERE completed = FALSE AND due_date = ? " + todoOrder
	return s.queryTodos(ctx, rebind(query), date)
}

// UpdateTodo applies a partial update. DueDate is only touched when
// SetDueDate is true; a nil DueDate then clears it.
func (s *Store) UpdateTodo(ctx context.Context, id int64, u storage.TodoUpdate) (*types.Todo, error) {
	existing, err := s.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if u.Title != nil {
		title = *u.Title
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: todo title is required", storage.ErrInvalidInput)
	}

	description := existing.Description
	if u.Description != nil {
		description = *u.Description
	}

	completed := existing.Completed
	if u.Completed != nil {
		completed = *u.Completed
	}

	priority := existing.Priority
	if u.Priority != nil {
		priority = *u.Priority
	}
	if !types.IsValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", storage.ErrInvalidInput, priority)
	}

	dueDate := existing.DueDate
	if u.SetDueDate {
		dueDate = u.DueDate
	}
	if dueDate != nil {
		if err := validateDueDate(*dueDate); err != nil {
			return nil, err
		}
	}

	newTags := existing.Tags
	if u.Tags != nil {
		newTags = u.Tags
	}

	result, err := s.db.ExecContext(ctx,
		rebind("UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, tags = ?, updated_at = ? WHERE id = ?"),
		title, description, completed, priority, nullableString(dueDate), tags(newTags), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo by ID.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, rebind("DELETE FROM todos WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountTodos returns completion-state counts for the summary endpoints.
func (s *Store) CountTodos(ctx context.Context, today string) (types.TodoCounts, error) {
	var counts types.TodoCounts
	if err := validateDueDate(today); err != nil {
		return counts, err
	}

	query := rebind(`
		SELECT
			COUNT(CASE WHEN NOT completed THEN 1 END),
			COUNT(CASE WHEN completed THEN 1 END),
			COUNT(CASE WHEN NOT completed AND due_date = ? THEN 1 END)
		FROM todos
	`)
	err := s.db.QueryRowContext(ctx, query, today).Scan(
		&counts.Incomplete, &counts.Completed, &counts.DueToday)
	if err != nil {
		return counts, fmt.Errorf("postgres: failed to count todos: %w", err)
	}
	return counts, nil
}

func (s *Store) queryTodos(ctx context.Context, query string, args ...interface{}) ([]types.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row scanner) (*types.Todo, error) {
	var todo types.Todo
	var todoTags pq.StringArray
	var dueDate sql.NullTime

	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed,
		&todo.Priority, &dueDate, &todoTags, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// DATE columns come back as midnight timestamps; present them as
	// calendar dates.
	if dueDate.Valid {
		d := dueDate.Time.Format("2006-01-02")
		todo.DueDate = &d
	}

	todo.Tags = []string(todoTags)
	if todo.Tags == nil {
		todo.Tags = []string{}
	}
	return &todo, nil
}
