package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

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

	var id int64
	err := s.db.QueryRowContext(ctx,
		rebind("INSERT INTO bookmarks (url, title, description, tags) VALUES (?, ?, ?, ?) RETURNING id"),
		in.URL, in.Title, in.Description, tags(in.Tags),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create bookmark: %w", err)
	}

	return s.GetBookmark(ctx, id)
}

// GetBookmark retrieves a bookmark by ID.
func (s *Store) GetBookmark(ctx context.Context, id int64) (*types.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		rebind("SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?"), id)

	bookmark, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get bookmark: %w", err)
	}
	return bookmark, nil
}

// ListBookmarks retrieves bookmarks matching the filter, newest first.
// Query matches title, description, and URL case-insensitively.
func (s *Store) ListBookmarks(ctx context.Context, f storage.BookmarkFilter, limit int) ([]types.Bookmark, error) {
	var conditions []string
	var args []interface{}

	if f.Query != nil && *f.Query != "" {
		conditions = append(conditions, "(title ILIKE ? OR description ILIKE ? OR url ILIKE ?)")
		pattern := "%" + *f.Query + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if f.Tag != nil {
		conditions = append(conditions, "? = ANY(tags)")
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

	rows, err := s.db.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []types.Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate bookmarks: %w", err)
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

	newTags := existing.Tags
	if u.Tags != nil {
		newTags = u.Tags
	}

	result, err := s.db.ExecContext(ctx,
		rebind("UPDATE bookmarks SET url = ?, title = ?, description = ?, tags = ? WHERE id = ?"),
		url, title, description, tags(newTags), id,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to update bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetBookmark(ctx, id)
}

// DeleteBookmark removes a bookmark by ID.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, rebind("DELETE FROM bookmarks WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete bookmark: %w", err)
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

// CountBookmarks returns the total number of bookmarks.
func (s *Store) CountBookmarks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count bookmarks: %w", err)
	}
	return count, nil
}

func scanBookmark(row scanner) (*types.Bookmark, error) {
	var bookmark types.Bookmark
	var bookmarkTags pq.StringArray

	err := row.Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title,
		&bookmark.Description, &bookmarkTags, &bookmark.CreatedAt)
	if err != nil {
		return nil, err
	}

	bookmark.Tags = []string(bookmarkTags)
	if bookmark.Tags == nil {
		bookmark.Tags = []string{}
	}
	return &bookmark, nil
}
