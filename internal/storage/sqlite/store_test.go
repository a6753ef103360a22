package sqlite

import (
	"testing"
)

// newTestStore creates an in-memory SQLite store for testing. New initialises
// the full Schema, so no additional DDL is required in tests.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func strPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool       { return &b }
