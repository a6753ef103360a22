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

func tags(in []string) pq.StringArray {
	if in == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(in)
}

// CreateMemo inserts a new memo.
func (s *Store) CreateMemo(ctx context.Context, in storage.MemoCreate) (*types.Memo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: memo title is required", storage.ErrInvalidInput)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		rebind("INSERT INTO memos (title, content, tags) VALUES (?, ?, ?) RETURNING id"),
		in.Title, in.Content, tags(in.Tags),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create memo: %w", err)
	}

	return s.GetMemo(ctx, id)
}

// GetMemo retrieves a memo by ID.
func (s *Store) GetMemo(ctx context.Context, id int64) (*types.Memo, error) {
	row := s.db.QueryRowContext(ctx,
		rebind("SELECT id, title, content, tags, created_at, updated_at FROM memos WHERE id = ?"), id)

	memo, err := scanMemo(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get memo: %w", err)
	}
	return memo, nil
}

// ListMemos retrieves memos matching the filter, newest updated first.
func (s *Store) ListMemos(ctx context.Context, f storage.MemoFilter, limit int) ([]types.Memo, error) {
	var conditions []string
	var args []interface{}

	if f.Query != nil && *f.Query != "" {
		conditions = append(conditions, "(title ILIKE ? OR content ILIKE ?)")
		pattern := "%" + *f.Query + "%"
		args = append(args, pattern, pattern)
	}

	// A present tag always filters, even when empty: an empty tag is a
	// never-matching membership test, not a no-op.
	if f.Tag != nil {
		conditions = append(conditions, "? = ANY(tags)")
		args = append(args, *f.Tag)
	}

	query := "SELECT id, title, content, tags, created_at, updated_at FROM memos"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list memos: %w", err)
	}
	defer rows.Close()

	memos := []types.Memo{}
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan memo: %w", err)
		}
		memos = append(memos, *memo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate memos: %w", err)
	}
	return memos, nil
}

// UpdateMemo applies a partial update. Nil fields keep the stored values.
func (s *Store) UpdateMemo(ctx context.Context, id int64, u storage.MemoUpdate) (*types.Memo, error) {
	existing, err := s.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if u.Title != nil {
		title = *u.Title
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: memo title is required", storage.ErrInvalidInput)
	}

	content := existing.Content
	if u.Content != nil {
		content = *u.Content
	}

	newTags := existing.Tags
	if u.Tags != nil {
		newTags = u.Tags
	}

	result, err := s.db.ExecContext(ctx,
		rebind("UPDATE memos SET title = ?, content = ?, tags = ?, updated_at = ? WHERE id = ?"),
		title, content, tags(newTags), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to update memo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to check rows affected: %w", err)
	}
	// The memo can disappear between the read and the write.
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetMemo(ctx, id)
}

// DeleteMemo removes a memo by ID.
func (s *Store) DeleteMemo(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, rebind("DELETE FROM memos WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete memo: %w", err)
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

// CountMemos returns the total number of memos.
func (s *Store) CountMemos(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memos").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count memos: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemo(row scanner) (*types.Memo, error) {
	var memo types.Memo
	var memoTags pq.StringArray

	err := row.Scan(&memo.ID, &memo.Title, &memo.Content, &memoTags, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	memo.Tags = []string(memoTags)
	if memo.Tags == nil {
		memo.Tags = []string{}
	}
	return &memo, nil
}
