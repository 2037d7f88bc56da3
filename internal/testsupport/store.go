package testsupport

import (
	"context"
	"testing"

	"autocast/internal/uploads"
)

// MustOpenStore opens an uploads.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB) *uploads.Store {
	t.Helper()

	store, err := uploads.Open()
	if err != nil {
		t.Fatalf("uploads.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecord creates a new upload record for tests using the provided store.
func NewRecord(t testing.TB, store *uploads.Store, format uploads.Format) *uploads.Record {
	t.Helper()

	record, err := store.NewRecord(context.Background(), format)
	if err != nil {
		t.Fatalf("store.NewRecord: %v", err)
	}
	return record
}
