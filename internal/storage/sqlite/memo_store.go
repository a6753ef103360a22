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

// CreateMemo inserts a new memo.
func (s *Store) CreateMemo(ctx context.Context, in storage.MemoCreate) (*types.Memo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: memo title is required", storage.ErrInvalidInput)
	}

	tagsJSON, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO memos (title, content, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		in.Title, in.Content, tagsJSON, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get memo id: %w", err)
	}

	return s.GetMemo(ctx, id)
}

// GetMemo retrieves a memo by ID.
func (s *Store) GetMemo(ctx context.Context, id int64) (*types.Memo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, tags, created_at, updated_at FROM memos WHERE id = ?", id)

	memo, err := scanMemo(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	return memo, nil
}

// ListMemos retrieves memos matching the filter, newest updated first.
func (s *Store) ListMemos(ctx context.Context, f storage.MemoFilter, limit int) ([]types.Memo, error) {
	var conditions []string
	var args []interface{}

	if f.Query != nil && *f.Query != "" {
		conditions = append(conditions, "(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)")
		pattern := likePattern(*f.Query)
		args = append(args, pattern, pattern)
	}

	// A present tag always filters, even when empty: an empty tag is a
	// never-matching membership test, not a no-op.
	if f.Tag != nil {
		conditions = append(conditions, tagCondition("memos"))
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

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	memos := []types.Memo{}
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, *memo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memos: %w", err)
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

	tags := existing.Tags
	if u.Tags != nil {
		tags = u.Tags
	}
	tagsJSON, err := marshalTags(tags)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE memos SET title = ?, content = ?, tags = ?, updated_at = ? WHERE id = ?",
		title, content, tagsJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update memo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	// The memo can disappear between the read and the write.
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetMemo(ctx, id)
}

// DeleteMemo removes a memo by ID.
func (s *Store) DeleteMemo(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM memos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
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

// CountMemos returns the total number of memos.
func (s *Store) CountMemos(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memos").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count memos: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemo(row scanner) (*types.Memo, error) {
	var memo types.Memo
	var tagsJSON string

	err := row.Scan(&memo.ID, &memo.Title, &memo.Content, &tagsJSON, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	memo.Tags, err = scanTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	return &memo, nil
}
