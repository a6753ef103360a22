package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/internal/storage/sqlite"
)

// newSeededDB creates a sqlite database with one memo and returns its path.
func newSeededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.db")
	store, err := sqlite.New(path)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	_, err = store.CreateMemo(context.Background(), storage.MemoCreate{Title: "keep me"})
	if err != nil {
		t.Fatalf("CreateMemo: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestNewService_Validation(t *testing.T) {
	if _, err := NewService(Options{Dir: t.TempDir()}); err == nil {
		t.Error("expected error for missing DBPath")
	}
	if _, err := NewService(Options{DBPath: "x.db"}); err == nil {
		t.Error("expected error for missing Dir")
	}
}

func TestBackupNow_VerifiedSnapshot(t *testing.T) {
	dbPath := newSeededDB(t)
	dir := t.TempDir()

	svc, err := NewService(Options{DBPath: dbPath, Dir: dir, Verify: true})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.BackupNow(context.Background())
	if err != nil {
		t.Fatalf("BackupNow: %v", err)
	}
	if !result.Verified {
		t.Error("snapshot not verified")
	}
	if result.Size == 0 {
		t.Error("snapshot is empty")
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("snapshot missing: %v", err)
	}
	if svc.LastBackup().IsZero() {
		t.Error("LastBackup not recorded")
	}
}

func TestBackupNow_MissingDatabase(t *testing.T) {
	svc, err := NewService(Options{DBPath: filepath.Join(t.TempDir(), "nope.db"), Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.BackupNow(context.Background()); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestRetention_PrunesOldest(t *testing.T) {
	dbPath := newSeededDB(t)
	dir := t.TempDir()

	svc, err := NewService(Options{DBPath: dbPath, Dir: dir, Retention: 2})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.BackupNow(context.Background()); err != nil {
			t.Fatalf("BackupNow %d: %v", i, err)
		}
		// Snapshot names are timestamped to the microsecond; a small sleep
		// keeps them strictly ordered.
		time.Sleep(5 * time.Millisecond)
	}

	paths, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("kept %d snapshots, want 2", len(paths))
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	dbPath := newSeededDB(t)
	dir := t.TempDir()

	svc, err := NewService(Options{DBPath: dbPath, Dir: dir, Verify: true})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	result, err := svc.BackupNow(context.Background())
	if err != nil {
		t.Fatalf("BackupNow: %v", err)
	}

	// Wreck the live database, then restore the snapshot over it.
	if err := os.WriteFile(dbPath, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Restore(result.Path); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("reopen restored database: %v", err)
	}
	defer store.Close()

	memos, err := store.ListMemos(context.Background(), storage.MemoFilter{}, 0)
	if err != nil {
		t.Fatalf("ListMemos: %v", err)
	}
	if len(memos) != 1 || memos[0].Title != "keep me" {
		t.Errorf("restored memos = %+v, want the seeded memo", memos)
	}
}
