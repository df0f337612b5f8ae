package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", strings.TrimSpace(query), err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Consumption records and their details",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS records (
					id TEXT PRIMARY KEY,
					module_type TEXT NOT NULL,
					period TEXT NOT NULL DEFAULT '',
					store_name TEXT NOT NULL DEFAULT '',
					special_store TEXT NOT NULL DEFAULT '',
					highest_date TEXT NOT NULL DEFAULT '',
					times INTEGER NOT NULL DEFAULT 0,
					amount INTEGER NOT NULL DEFAULT 0,
					highest_amount INTEGER NOT NULL DEFAULT 0,
					flags TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_records_module_type ON records(module_type)`,

				`CREATE TABLE IF NOT EXISTS record_details (
					record_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					date TEXT NOT NULL,
					amount INTEGER NOT NULL,
					store TEXT NOT NULL,
					card_last_four TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT '',
					hash TEXT NOT NULL,
					PRIMARY KEY (record_id, position),
					FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
				)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Conversation history",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS dialog_items (
					id TEXT PRIMARY KEY,
					session_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					type TEXT NOT NULL CHECK(type IN ('user', 'system')),
					text TEXT NOT NULL DEFAULT '',
					question_id TEXT NOT NULL DEFAULT '',
					request_id TEXT NOT NULL DEFAULT '',
					module_type TEXT NOT NULL DEFAULT '',
					record_id TEXT,
					flags TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME NOT NULL,
					UNIQUE (session_id, position),
					FOREIGN KEY (record_id) REFERENCES records(id)
				)`,
				`CREATE INDEX idx_dialog_items_session ON dialog_items(session_id, position)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Imported card transactions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS card_transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					hash TEXT UNIQUE NOT NULL,
					date TEXT NOT NULL,
					amount INTEGER NOT NULL,
					store TEXT NOT NULL,
					card_last_four TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT '',
					source TEXT NOT NULL DEFAULT '',
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_card_transactions_date ON card_transactions(date)`,
				`CREATE INDEX idx_card_transactions_category ON card_transactions(category)`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
