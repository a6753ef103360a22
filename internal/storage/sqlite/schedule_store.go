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

const scheduleColumns = "id, title, description, start_time, end_time, location, tags, created_at, updated_at"

// validateDate checks a calendar date used in schedule filters.
func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", storage.ErrInvalidInput, date)
	}
	return nil
}

// CreateSchedule inserts a new schedule.
func (s *Store) CreateSchedule(ctx context.Context, in storage.ScheduleCreate) (*types.Schedule, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: schedule title is required", storage.ErrInvalidInput)
	}
	if in.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: schedule start time is required", storage.ErrInvalidInput)
	}
	if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
		return nil, fmt.Errorf("%w: schedule end time precedes start time", storage.ErrInvalidInput)
	}

	tagsJSON, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO schedules (title, description, start_time, end_time, location, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		in.Title, in.Description, formatTimestamp(in.StartTime), nullableTimestamp(in.EndTime), in.Location, tagsJSON, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule id: %w", err)
	}

	return s.GetSchedule(ctx, id)
}

// GetSchedule retrieves a schedule by ID.
func (s *Store) GetSchedule(ctx context.Context, id int64) (*types.Schedule, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id)

	schedule, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

// ListSchedules retrieves schedules matching the filter in start order.
// Date filters compare against the calendar date of start_time.
func (s *Store) ListSchedules(ctx context.Context, f storage.ScheduleFilter, limit int) ([]types.Schedule, error) {
	var conditions []string
	var args []interface{}

	if f.Date != nil {
		if err := validateDate(*f.Date); err != nil {
			return nil, err
		}
		conditions = append(conditions, "DATE(start_time) = ?")
		args = append(args, *f.Date)
	}

	if f.From != nil {
		if err := validateDate(*f.From); err != nil {
			return nil, err
		}
		conditions = append(conditions, "DATE(start_time) >= ?")
		args = append(args, *f.From)
	}

	if f.To != nil {
		if err := validateDate(*f.To); err != nil {
			return nil, err
		}
		conditions = append(conditions, "DATE(start_time) <= ?")
		args = append(args, *f.To)
	}

	if f.Tag != nil {
		conditions = append(conditions, tagCondition("schedules"))
		args = append(args, *f.Tag)
	}

	query := "SELECT " + scheduleColumns + " FROM schedules"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []types.Schedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

// UpdateSchedule applies a partial update. EndTime is only touched when
// SetEndTime is true; a nil EndTime then clears it.
func (s *Store) UpdateSchedule(ctx context.Context, id int64, u storage.ScheduleUpdate) (*types.Schedule, error) {
	existing, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if u.Title != nil {
		title = *u.Title
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: schedule title is required", storage.ErrInvalidInput)
	}

	description := existing.Description
	if u.Description != nil {
		description = *u.Description
	}

	startTime := existing.StartTime
	if u.StartTime != nil {
		startTime = *u.StartTime
	}
	if startTime.IsZero() {
		return nil, fmt.Errorf("%w: schedule start time is required", storage.ErrInvalidInput)
	}

	endTime := existing.EndTime
	if u.SetEndTime {
		endTime = u.EndTime
	}
	if endTime != nil && endTime.Before(startTime) {
		return nil, fmt.Errorf("%w: schedule end time precedes start time", storage.ErrInvalidInput)
	}

	location := existing.Location
	if u.Location != nil {
		location = *u.Location
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
		"UPDATE schedules SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?, tags = ?, updated_at = ? WHERE id = ?",
		title, description, formatTimestamp(startTime), nullableTimestamp(endTime), location, tagsJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetSchedule(ctx, id)
}

// DeleteSchedule removes a schedule by ID.
func (s *Store) DeleteSchedule(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
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

func scanSchedule(row scanner) (*types.Schedule, error) {
	var schedule types.Schedule
	var tagsJSON string
	var startTime string
	var endTime sql.NullString

	err := row.Scan(&schedule.ID, &schedule.Title, &schedule.Description,
		&startTime, &endTime, &schedule.Location, &tagsJSON,
		&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, err
	}

	schedule.StartTime, err = parseTimestamp(startTime)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		t, err := parseTimestamp(endTime.String)
		if err != nil {
			return nil, err
		}
		schedule.EndTime = &t
	}

	schedule.Tags, err = scanTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}
