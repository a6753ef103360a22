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

const bookmarkColumns = "id, url, title, description, tags, created_at"

// CreateBookmark inserts a new bookmark.
func (s *Store) CreateBookmark(ctx context.Context, in storage.BookmarkCreate) (*types.Bookmark, error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, fmt.Errorf("%w: bookmark URL is required", storage.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: bookmark title is required", storage.ErrInvalidInput)
	}

	tagsJSON, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO bookmarks (url, title, description, tags, created_at) VALUES (?, ?, ?, ?, ?)",
		in.URL, in.Title, in.Description, tagsJSON, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark id: %w", err)
	}

	return s.GetBookmark(ctx, id)
}

// GetBookmark retrieves a bookmark by ID.
func (s *Store) GetBookmark(ctx context.Context, id int64) (*types.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?", id)

	bookmark, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return bookmark, nil
}

// ListBookmarks retrieves bookmarks matching the filter, newest first.
// Query matches title, description, and URL case-insensitively.
func (s *Store) ListBookmarks(ctx context.Context, f storage.BookmarkFilter, limit int) ([]types.Bookmark, error) {
	var conditions []string
	var args []interface{}

	if f.Query != nil && *f.Query != "" {
		conditions = append(conditions,
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(url) LIKE ?)")
		pattern := likePattern(*f.Query)
		args = append(args, pattern, pattern, pattern)
	}

	if f.Tag != nil {
		conditions = append(conditions, tagCondition("bookmarks"))
		args = append(args, *f.Tag)
	}

	query := "SELECT " + bookmarkColumns + " FROM bookmarks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []types.Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}
	return bookmarks, nil
}

// UpdateBookmark applies a partial update. Nil fields keep the stored values.
func (s *Store) UpdateBookmark(ctx context.Context, id int64, u storage.BookmarkUpdate) (*types.Bookmark, error) {
	existing, err := s.GetBookmark(ctx, id)
	if err != nil {
		return nil, err
	}

	url := existing.URL
	if u.URL != nil {
		url = *u.URL
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: bookmark URL is required", storage.ErrInvalidInput)
	}

	title := existing.Title
	if u.Title != nil {
		title = *u.Title
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: bookmark title is required", storage.ErrInvalidInput)
	}

	description := existing.Description
	if u.Description != nil {
		description = *u.Description
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
		"UPDATE bookmarks SET url = ?, title = ?, description = ?, tags = ? WHERE id = ?",
		url, title, description, tagsJSON, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetBookmark(ctx, id)
}

// DeleteBookmark removes a bookmark by ID.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
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

// CountBookmarks returns the total number of bookmarks.
func (s *Store) CountBookmarks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return count, nil
}

func scanBookmark(row scanner) (*types.Bookmark, error) {
	var bookmark types.Bookmark
	var tagsJSON string

	err := row.Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title,
		&bookmark.Description, &tagsJSON, &bookmark.CreatedAt)
	if err != nil {
		return nil, err
	}

	bookmark.Tags, err = scanTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}
