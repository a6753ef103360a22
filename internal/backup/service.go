package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// filePrefix is the common prefix of snapshot filenames in the backup
// directory. Anything else in the directory is left alone.
const filePrefix = "assistant-backup-"

// Options configures a Service.
type Options struct {
	DBPath    string        // Path to the live sqlite database (required)
	Dir       string        // Directory snapshots are written to (required)
	Interval  time.Duration // Time between snapshots (default 24h)
	Retention int           // Snapshots to keep, oldest pruned first (default 14)
	Verify    bool          // Run integrity_check after each snapshot
}

// Result describes the outcome of a single snapshot.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"duration"`
	Verified bool          `json:"verified"`
}

// Service takes periodic snapshots of the sqlite database.
type Service struct {
	opts Options

	mu         sync.Mutex
	lastBackup time.Time
}

// NewService validates options and prepares the backup directory.
func NewService(opts Options) (*Service, error) {
	if opts.DBPath == "" {
		return nil, fmt.Errorf("backup: database path is required")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("backup: directory is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.Retention <= 0 {
		opts.Retention = 14
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create directory: %w", err)
	}
	return &Service{opts: opts}, nil
}

// Run takes a snapshot every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	log.Printf("backup: running every %v into %s", s.opts.Interval, s.opts.Dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			result, err := s.BackupNow(ctx)
			if err != nil {
				log.Printf("backup: scheduled snapshot failed: %v", err)
				continue
			}
			log.Printf("backup: wrote %s (%d bytes in %v)", result.Path, result.Size, result.Duration)
		}
	}
}

// BackupNow takes a snapshot immediately, verifies it when configured, and
// prunes old snapshots past the retention count.
func (s *Service) BackupNow(_ context.Context) (*Result, error) {
	start := time.Now()

	if _, err := os.Stat(s.opts.DBPath); err != nil {
		return nil, fmt.Errorf("backup: database not found: %w", err)
	}

	name := filePrefix + start.Format("20060102-150405.000000") + ".db"
	path := filepath.Join(s.opts.Dir, name)

	if err := snapshotSQLite(s.opts.DBPath, path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("backup: stat snapshot: %w", err)
	}

	result := &Result{
		Path:     path,
		Size:     info.Size(),
		Duration: time.Since(start),
	}

	if s.opts.Verify {
		if err := verifySnapshot(path); err != nil {
			return nil, err
		}
		result.Verified = true
	}

	s.mu.Lock()
	s.lastBackup = time.Now()
	s.mu.Unlock()

	if err := s.prune(); err != nil {
		// A failed prune never fails the snapshot itself.
		log.Printf("backup: prune failed: %v", err)
	}
	return result, nil
}

// Restore replaces the live database with a snapshot. The store must be
// closed before calling this.
func (s *Service) Restore(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); err != nil {
		return fmt.Errorf("backup: snapshot not found: %w", err)
	}
	return restoreSnapshot(snapshotPath, s.opts.DBPath)
}

// List returns snapshot paths, newest first.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("backup: read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		paths = append(paths, filepath.Join(s.opts.Dir, entry.Name()))
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// LastBackup reports when the most recent snapshot finished, zero if none
// has run yet.
func (s *Service) LastBackup() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBackup
}

// prune removes the oldest snapshots beyond the retention count.
func (s *Service) prune() error {
	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, path := range paths[min(len(paths), s.opts.Retention):] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
