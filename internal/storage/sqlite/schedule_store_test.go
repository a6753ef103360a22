package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jwkim/assistant/internal/storage"
)

func mustCreateSchedule(t *testing.T, store *Store, in storage.ScheduleCreate) {
	t.Helper()
	if _, err := store.CreateSchedule(context.Background(), in); err != nil {
		t.Fatalf("CreateSchedule(%q) failed: %v", in.Title, err)
	}
}

func TestScheduleCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	schedule, err := store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "Design review",
		StartTime: start,
		EndTime:   &end,
		Location:  "Room 4",
		Tags:      []string{"work"},
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	if !schedule.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", schedule.StartTime, start)
	}
	if schedule.EndTime == nil || !schedule.EndTime.Equal(end) {
		t.Errorf("EndTime: got %v, want %v", schedule.EndTime, end)
	}

	updated, err := store.UpdateSchedule(ctx, schedule.ID, storage.ScheduleUpdate{
		Location: strPtr("Room 7"),
	})
	if err != nil {
		t.Fatalf("UpdateSchedule() failed: %v", err)
	}
	if updated.Location != "Room 7" {
		t.Errorf("Location: got %q, want Room 7", updated.Location)
	}
	if updated.EndTime == nil {
		t.Error("EndTime cleared by unrelated update")
	}

	if err := store.DeleteSchedule(ctx, schedule.ID); err != nil {
		t.Fatalf("DeleteSchedule() failed: %v", err)
	}
	if _, err := store.GetSchedule(ctx, schedule.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSchedule() after delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)

	if _, err := store.CreateSchedule(ctx, storage.ScheduleCreate{StartTime: start}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateSchedule() without title: got %v, want ErrInvalidInput", err)
	}
	if _, err := store.CreateSchedule(ctx, storage.ScheduleCreate{Title: "no start"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateSchedule() without start: got %v, want ErrInvalidInput", err)
	}

	before := start.Add(-time.Hour)
	_, err := store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "backwards",
		StartTime: start,
		EndTime:   &before,
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateSchedule() with end before start: got %v, want ErrInvalidInput", err)
	}
}

func TestListSchedulesDateWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := func(d, hour int) time.Time {
		return time.Date(2026, 9, d, hour, 0, 0, 0, time.UTC)
	}

	mustCreateSchedule(t, store, storage.ScheduleCreate{Title: "monday standup", StartTime: day(7, 9)})
	mustCreateSchedule(t, store, storage.ScheduleCreate{Title: "monday lunch", StartTime: day(7, 12)})
	mustCreateSchedule(t, store, storage.ScheduleCreate{Title: "wednesday demo", StartTime: day(9, 15)})
	mustCreateSchedule(t, store, storage.ScheduleCreate{Title: "next week", StartTime: day(14, 10)})

	// Exact-date filter.
	schedules, err := store.ListSchedules(ctx, storage.ScheduleFilter{Date: strPtr("2026-09-07")}, 0)
	if err != nil {
		t.Fatalf("ListSchedules(date) failed: %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("ListSchedules(date): got %d, want 2", len(schedules))
	}
	if schedules[0].Title != "monday standup" || schedules[1].Title != "monday lunch" {
		t.Errorf("ListSchedules(date) order: got %q then %q", schedules[0].Title, schedules[1].Title)
	}

	// Inclusive range.
	schedules, err = store.ListSchedules(ctx, storage.ScheduleFilter{
		From: strPtr("2026-09-07"),
		To:   strPtr("2026-09-13"),
	}, 0)
	if err != nil {
		t.Fatalf("ListSchedules(range) failed: %v", err)
	}
	if len(schedules) != 3 {
		t.Errorf("ListSchedules(range): got %d, want 3", len(schedules))
	}

	// Malformed date is rejected.
	if _, err := store.ListSchedules(ctx, storage.ScheduleFilter{Date: strPtr("09/07/2026")}, 0); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("ListSchedules(bad date): got %v, want ErrInvalidInput", err)
	}
}

func TestUpdateScheduleEndTimeTriState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	schedule, err := store.CreateSchedule(ctx, storage.ScheduleCreate{
		Title:     "open ended",
		StartTime: start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}

	// Clearing the end time makes the event open-ended.
	updated, err := store.UpdateSchedule(ctx, schedule.ID, storage.ScheduleUpdate{SetEndTime: true})
	if err != nil {
		t.Fatalf("UpdateSchedule() failed: %v", err)
	}
	if updated.EndTime != nil {
		t.Errorf("EndTime after clear: got %v, want nil", updated.EndTime)
	}

	newEnd := start.Add(2 * time.Hour)
	updated, err = store.UpdateSchedule(ctx, schedule.ID, storage.ScheduleUpdate{
		SetEndTime: true,
		EndTime:    &newEnd,
	})
	if err != nil {
		t.Fatalf("UpdateSchedule() failed: %v", err)
	}
	if updated.EndTime == nil || !updated.EndTime.Equal(newEnd) {
		t.Errorf("EndTime after re-set: got %v, want %v", updated.EndTime, newEnd)
	}
}
