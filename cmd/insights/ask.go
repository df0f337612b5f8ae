package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/cli"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Long: `Open a session, ask one question and print the answer.
Cards are printed at their first page.

Examples:
  insights ask "How much did I spend at Starbucks in January?"
  insights ask --mock "highest spend last month"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	addBackendFlags(cmd)
	cmd.Flags().Bool("no-save", false, "do not store the conversation")
	cmd.Flags().Int("width", cli.DefaultWidth, "output width")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var opts []chat.SessionOption
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, storeErr := openStorage(ctx, cfg)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, chat.WithHistoryStore(store))
	}

	session := chat.NewSession(newBackend(cmd, cfg), opts...)
	device, appVersion := deviceInfo()
	if _, err := session.Start(ctx, device, appVersion); err != nil {
		return common.NewUserError(chat.FrontendErrorMessage, err)
	}

	items, askErr := session.Ask(ctx, strings.Join(args, " "))
	width, _ := cmd.Flags().GetInt("width")
	if err := cli.NewPrinter(cmd.OutOrStdout(), width, themes.Default).PrintItems(items); err != nil {
		return err
	}
	if askErr != nil {
		return fmt.Errorf("failed to ask: %w", askErr)
	}
	return nil
}
