package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/card-insights/internal/cli"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/storage"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/spf13/cobra"
)

// dateLayouts are the accepted --from/--to formats.
var dateLayouts = []string{"2006-01-02", "2006/01/02"}

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Build a spending card from imported transactions",
		Long: `Aggregate imported transactions into a spending card and print one page.

The card kind follows the filter: several categories give a category
breakdown, a single store gives a store card, anything else an overview.

Examples:
  insights records --from 2025-01-01 --to 2025-01-31
  insights records --store starbucks --page 2
  insights records --category Dining --min-amount 500 --save`,
		Args: cobra.NoArgs,
		RunE: runRecords,
	}

	cmd.Flags().String("from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().String("store", "", "only stores whose name contains this text")
	cmd.Flags().String("category", "", "only this category")
	cmd.Flags().Int64("min-amount", 0, "only purchases of at least this amount")
	cmd.Flags().Int("page", 1, "detail page to show")
	cmd.Flags().Bool("save", false, "store the built card")

	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsShowCmd())

	return cmd
}

func recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openConfiguredStorage(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListRecords(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout(), cli.DefaultWidth, themes.Default).PrintRecordList(records)
		},
	}
}

func recordsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStorage(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stored, err := store.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("No stored card with ID %s.", args[0]), err)
			}
			page, _ := cmd.Flags().GetInt("page")
			return cli.NewPrinter(cmd.OutOrStdout(), cli.DefaultWidth, themes.Default).PrintRecord(stored.Record, page)
		},
	}
	cmd.Flags().Int("page", 1, "detail page to show")
	return cmd
}

func runRecords(cmd *cobra.Command, _ []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openConfiguredStorage(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	moduleType, record, err := store.BuildRecord(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to build card: %w", err)
	}

	page, _ := cmd.Flags().GetInt("page")
	if err := cli.NewPrinter(cmd.OutOrStdout(), cli.DefaultWidth, themes.Default).PrintRecord(record, page); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		id, err := store.SaveRecord(ctx, "", moduleType, record)
		if err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved card "+id))
	}
	return nil
}

func openConfiguredStorage(cmd *cobra.Command) (*storage.SQLiteStorage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStorage(cmd.Context(), cfg)
}

func filterFromFlags(cmd *cobra.Command) (storage.TransactionFilter, error) {
	var filter storage.TransactionFilter
	var err error

	from, _ := cmd.Flags().GetString("from")
	if filter.From, err = parseDate(from); err != nil {
		return filter, err
	}
	to, _ := cmd.Flags().GetString("to")
	if filter.To, err = parseDate(to); err != nil {
		return filter, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, common.NewUserError("--to must not be before --from.", storage.ErrInvalidDateRange)
	}

	filter.Store, _ = cmd.Flags().GetString("store")
	filter.Category, _ = cmd.Flags().GetString("category")
	if cmd.Flags().Changed("min-amount") {
		minAmount, _ := cmd.Flags().GetInt64("min-amount")
		filter.MinAmount = &minAmount
	}
	return filter, nil
}

// parseDate accepts an empty string as "no bound".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewUserError(
		fmt.Sprintf("Cannot read date %q, use YYYY-MM-DD.", s),
		fmt.Errorf("%w: date %q", common.ErrInvalidConfig, s))
}
