package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

// todoOrder sorts by priority (high first), then due date ascending with
// undated todos last.
const todoOrder = `ORDER BY
		CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END,
		due_date IS NULL, due_date ASC`

const todoColumns = "id, title, description, completed, priority, due_date, tags, created_at, updated_at"

// validateDueDate checks that a due date is a well-formed calendar date.
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

	tagsJSON, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (title, description, completed, priority, due_date, tags, created_at, updated_at) VALUES (?, ?, 0, ?, ?, ?, ?, ?)",
		in.Title, in.Description, priority, nullableString(in.DueDate), tagsJSON, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo id: %w", err)
	}

	return s.GetTodo(ctx, id)
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id int64) (*types.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)

	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
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
		conditions = append(conditions, tagCondition("todos"))
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

	return s.queryTodos(ctx, query, args...)
}

// ListTodosDueOn returns incomplete todos due on the given date.
func (s *Store) ListTodosDueOn(ctx context.Context, date string) ([]types.Todo, error) {
	if err := validateDueDate(date); err != nil {
		return nil, err
	}

	query := "SELECT " + todoColumns + " FROM todos WHERE completed = 0 AND due_date = ? " + todoOrder
	return s.queryTodos(ctx, query, date)
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

	tags := existing.Tags
	if u.Tags != nil {
		tags = u.Tags
	}
	tagsJSON, err := marshalTags(tags)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, tags = ?, updated_at = ? WHERE id = ?",
		title, description, completed, priority, nullableString(dueDate), tagsJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo by ID.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
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

	query := `
		SELECT
			COUNT(CASE WHEN completed = 0 THEN 1 END),
			COUNT(CASE WHEN completed = 1 THEN 1 END),
			COUNT(CASE WHEN completed = 0 AND due_date = ? THEN 1 END)
		FROM todos
	`
	err := s.db.QueryRowContext(ctx, query, today).Scan(
		&counts.Incomplete, &counts.Completed, &counts.DueToday)
	if err != nil {
		return counts, fmt.Errorf("failed to count todos: %w", err)
	}
	return counts, nil
}

func (s *Store) queryTodos(ctx context.Context, query string, args ...interface{}) ([]types.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row scanner) (*types.Todo, error) {
	var todo types.Todo
	var tagsJSON string
	var dueDate sql.NullString

	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed,
		&todo.Priority, &dueDate, &tagsJSON, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		todo.DueDate = &dueDate.String
	}

	todo.Tags, err = scanTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
