// Package testutil provides shared helpers for tests that need a database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/card-insights/internal/fixtures"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/storage"
)

// SetupTestDB creates a migrated in-memory database that is closed when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedFixtureTransactions imports the detail lines of every fixture record
// and returns how many distinct lines were stored.
func SeedFixtureTransactions(t *testing.T, store *storage.SQLiteStorage) int {
	t.Helper()

	keys, err := fixtures.Keys()
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}

	var total int
	for _, key := range keys {
		if key == fixtures.NegativePie {
			continue
		}
		record, err := fixtures.Record(model.ModuleType(key))
		if err != nil {
			t.Fatalf("failed to load fixture %q: %v", key, err)
		}
		if len(record.Details) == 0 {
			continue
		}
		n, err := store.SaveCardTransactions(context.Background(), "fixture:"+key, record.Details)
		if err != nil {
			t.Fatalf("failed to seed fixture %q: %v", key, err)
		}
		total += n
	}
	return total
}
