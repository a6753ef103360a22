package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/jwkim/assistant/internal/storage"
)

func TestMemoCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memo, err := store.CreateMemo(ctx, storage.MemoCreate{
		Title:   "Meeting notes",
		Content: "Discussed the Q3 roadmap",
		Tags:    []string{"work", "meetings"},
	})
	if err != nil {
		t.Fatalf("CreateMemo() failed: %v", err)
	}
	if memo.ID == 0 {
		t.Error("CreateMemo() did not assign an ID")
	}
	if memo.CreatedAt.IsZero() || memo.UpdatedAt.IsZero() {
		t.Error("CreateMemo() did not set timestamps")
	}

	got, err := store.GetMemo(ctx, memo.ID)
	if err != nil {
		t.Fatalf("GetMemo() failed: %v", err)
	}
	if got.Title != "Meeting notes" {
		t.Errorf("Title: got %q, want %q", got.Title, "Meeting notes")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Errorf("Tags: got %v, want [work meetings]", got.Tags)
	}

	updated, err := store.UpdateMemo(ctx, memo.ID, storage.MemoUpdate{
		Content: strPtr("Revised roadmap notes"),
	})
	if err != nil {
		t.Fatalf("UpdateMemo() failed: %v", err)
	}
	if updated.Content != "Revised roadmap notes" {
		t.Errorf("Content: got %q, want the updated value", updated.Content)
	}
	if updated.Title != "Meeting notes" {
		t.Errorf("Title changed unexpectedly: got %q", updated.Title)
	}

	if err := store.DeleteMemo(ctx, memo.ID); err != nil {
		t.Fatalf("DeleteMemo() failed: %v", err)
	}
	if _, err := store.GetMemo(ctx, memo.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetMemo() after delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateMemoRequiresTitle(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateMemo(context.Background(), storage.MemoCreate{Content: "body only"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateMemo() without title: got %v, want ErrInvalidInput", err)
	}
}

func TestListMemosFiltering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []storage.MemoCreate{
		{Title: "Grocery list", Content: "milk, eggs", Tags: []string{"home"}},
		{Title: "Project kickoff", Content: "agenda for Monday", Tags: []string{"work"}},
		{Title: "Workout plan", Content: "monday squats", Tags: []string{"health", "home"}},
	}
	for _, in := range seed {
		if _, err := store.CreateMemo(ctx, in); err != nil {
			t.Fatalf("seed CreateMemo() failed: %v", err)
		}
	}

	// Substring search is case-insensitive across title and content.
	memos, err := store.ListMemos(ctx, storage.MemoFilter{Query: strPtr("MONDAY")}, 0)
	if err != nil {
		t.Fatalf("ListMemos(query) failed: %v", err)
	}
	if len(memos) != 2 {
		t.Fatalf("ListMemos(query): got %d memos, want 2", len(memos))
	}

	// Tag match is exact membership, not substring.
	memos, err = store.ListMemos(ctx, storage.MemoFilter{Tag: strPtr("home")}, 0)
	if err != nil {
		t.Fatalf("ListMemos(tag) failed: %v", err)
	}
	if len(memos) != 2 {
		t.Fatalf("ListMemos(tag): got %d memos, want 2", len(memos))
	}
	memos, err = store.ListMemos(ctx, storage.MemoFilter{Tag: strPtr("hom")}, 0)
	if err != nil {
		t.Fatalf("ListMemos(partial tag) failed: %v", err)
	}
	if len(memos) != 0 {
		t.Errorf("ListMemos(partial tag): got %d memos, want 0", len(memos))
	}

	// Combined filters narrow with AND semantics.
	memos, err = store.ListMemos(ctx, storage.MemoFilter{
		Query: strPtr("monday"),
		Tag:   strPtr("work"),
	}, 0)
	if err != nil {
		t.Fatalf("ListMemos(combined) failed: %v", err)
	}
	if len(memos) != 1 || memos[0].Title != "Project kickoff" {
		t.Errorf("ListMemos(combined): got %v, want just the kickoff memo", memos)
	}
}

func TestListMemosOrderedByUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateMemo(ctx, storage.MemoCreate{Title: "first"})
	if err != nil {
		t.Fatalf("CreateMemo() failed: %v", err)
	}
	if _, err := store.CreateMemo(ctx, storage.MemoCreate{Title: "second"}); err != nil {
		t.Fatalf("CreateMemo() failed: %v", err)
	}

	// Touching the older memo moves it to the front.
	if _, err := store.UpdateMemo(ctx, first.ID, storage.MemoUpdate{Content: strPtr("touched")}); err != nil {
		t.Fatalf("UpdateMemo() failed: %v", err)
	}

	memos, err := store.ListMemos(ctx, storage.MemoFilter{}, 0)
	if err != nil {
		t.Fatalf("ListMemos() failed: %v", err)
	}
	if len(memos) != 2 {
		t.Fatalf("ListMemos(): got %d memos, want 2", len(memos))
	}
	if memos[0].Title != "first" {
		t.Errorf("ListMemos() order: got %q first, want the recently updated memo", memos[0].Title)
	}
}

func TestUpdateMemoNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpdateMemo(context.Background(), 9999, storage.MemoUpdate{Title: strPtr("x")})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateMemo(missing): got %v, want ErrNotFound", err)
	}

	if err := store.DeleteMemo(context.Background(), 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteMemo(missing): got %v, want ErrNotFound", err)
	}
}

func TestCountMemos(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.CreateMemo(ctx, storage.MemoCreate{Title: "memo"}); err != nil {
			t.Fatalf("CreateMemo() failed: %v", err)
		}
	}

	count, err := store.CountMemos(ctx)
	if err != nil {
		t.Fatalf("CountMemos() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("CountMemos(): got %d, want 3", count)
	}
}
