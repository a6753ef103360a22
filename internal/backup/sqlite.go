// Package backup provides periodic snapshots of the sqlite database with
// verification and count-based retention. It is a no-op concern for the
// postgres backend, which is expected to be backed up by its own tooling.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// snapshotSQLite creates a consistent point-in-time copy of a sqlite
// database using VACUUM INTO, which is safe under WAL mode.
func snapshotSQLite(sourcePath, destPath string) error {
	src, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", sourcePath))
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer func() { _ = src.Close() }()

	if err := src.Ping(); err != nil {
		return fmt.Errorf("ping source database: %w", err)
	}

	if _, err := src.Exec(fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return fmt.Errorf("vacuum into %s: %w", destPath, err)
	}
	return nil
}

// verifySnapshot opens the snapshot read-only and runs integrity_check.
func verifySnapshot(path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// restoreSnapshot copies a verified snapshot over the target database file.
// The target must not be in use.
func restoreSnapshot(snapshotPath, targetPath string) error {
	if err := verifySnapshot(snapshotPath); err != nil {
		return fmt.Errorf("snapshot verification failed: %w", err)
	}

	src, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("sync target: %w", err)
	}

	return verifySnapshot(targetPath)
}
