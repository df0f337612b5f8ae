package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/card-insights/internal/cli"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import card transactions from OFX/QFX files",
		Long: `Import card transactions from OFX or QFX files exported from your bank.
Imported transactions feed 'insights records'. Re-importing a file is safe;
transactions already stored are skipped.

Examples:
  # Import a single statement
  insights import-ofx ~/Downloads/visa_jan_2025.qfx

  # Import every statement in a directory
  insights import-ofx ~/Downloads/statements/*.qfx

  # Preview without saving
  insights import-ofx --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

// importResult counts what one import run did.
type importResult struct {
	Files    int
	Failed   int
	Parsed   int
	Inserted int
}

// detailSaver stores parsed transactions.
type detailSaver interface {
	SaveCardTransactions(ctx context.Context, source string, details []model.DetailRecord) (int, error)
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx := cli.NewInterruptHandler(cmd.OutOrStdout()).
		HandleInterrupts(cmd.Context(), "Import", "Files finished before the interrupt are saved.")

	var saver detailSaver
	if !dryRun {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		store, storeErr := openStorage(ctx, cfg)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = store.Close() }()
		saver = store
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Importing statements...")
	result, err := importFiles(ctx, ofx.NewParser(), saver, files, func() {
		if addErr := bar.Add(1); addErr != nil {
			slog.Warn("Failed to update progress bar", "error", addErr)
		}
	})
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Files: %d (%d failed)\nTransactions parsed: %d", result.Files, result.Failed, result.Parsed)
	if dryRun {
		summary += "\nDry run: nothing was saved"
	} else {
		summary += fmt.Sprintf("\nNew transactions saved: %d", result.Inserted)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Import Complete", summary))
	return nil
}

// expandFiles resolves glob patterns; a pattern matching nothing is kept
// when it names an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, common.NewUserError("No files found to import.", common.ErrNoTransactions)
	}
	return files, nil
}

// importFiles parses and stores each file. A file that fails to parse is
// logged and skipped. A nil saver parses only. step runs after every file.
func importFiles(ctx context.Context, parser *ofx.Parser, saver detailSaver, files []string, step func()) (importResult, error) {
	var result importResult
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Files++

		details, err := parseFile(ctx, parser, path)
		if step != nil {
			step()
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return result, err
			}
			result.Failed++
			common.LogError(ctx, err, "Failed to parse OFX file", common.Fields{"file": path})
			continue
		}
		result.Parsed += len(details)

		if saver == nil || len(details) == 0 {
			continue
		}
		inserted, err := saver.SaveCardTransactions(ctx, filepath.Base(path), details)
		if err != nil {
			return result, fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
		}
		result.Inserted += inserted
		common.LogInfo(ctx, "Processed file", common.Fields{
			"file":               filepath.Base(path),
			"transactions_found": len(details),
			"added":              inserted,
			"duplicates":         len(details) - inserted,
		})
	}
	return result, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.DetailRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(ctx, f)
}
