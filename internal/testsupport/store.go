package testsupport

import (
	"context"
	"testing"

	"twang/internal/config"
	"twang/internal/history"
	"twang/internal/pipeline"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordOutcome persists an analysis outcome for tests using the provided store.
func RecordOutcome(t testing.TB, store *history.Store, outcome pipeline.Outcome) {
	t.Helper()

	if err := store.Record(context.Background(), outcome); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
}
