package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/card-insights/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the local database schema to the latest version.

Other commands migrate on their own; this is useful to check the schema
after an upgrade.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "show the current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	status, _ := cmd.Flags().GetBool("status")

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\nSchema version: %d (latest %d)\n",
			cfg.DatabasePath, current, storage.ExpectedSchemaVersion)
		return nil
	}

	slog.Info("Running database migrations", "database", cfg.DatabasePath)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("Database migrations completed")
	return nil
}
