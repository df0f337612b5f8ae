package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage opens a migrated database in a temp dir.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "insights.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.Equal(t, dbPath, store.Path())
		assert.FileExists(t, dbPath)
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"records", "record_details", "dialog_items", "card_transactions"} {
		var count int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStorage(t)
	//nolint:staticcheck // exercising nil context validation
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}
