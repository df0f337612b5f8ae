package main

import (
	"fmt"

	"github.com/Veraticus/card-insights/internal/cli"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [session]",
		Short: "List stored conversations or print one",
		Long: `Without arguments, list stored conversations, newest first.
With a session ID, print that conversation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStorage(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	printer := cli.NewPrinter(cmd.OutOrStdout(), cli.DefaultWidth, themes.Default)

	if len(args) == 0 {
		sessions, err := store.ListSessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		return printer.PrintSessions(sessions)
	}

	items, err := store.GetDialogHistory(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if len(items) == 0 {
		return common.NewUserError(fmt.Sprintf("No conversation with ID %s.", args[0]), common.ErrNotFound)
	}
	return printer.PrintItems(items)
}
