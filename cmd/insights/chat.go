package main

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/config"
	"github.com/Veraticus/card-insights/internal/tui"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Long: `Open a full-screen conversation with the spending assistant.

Answers that carry spending data are shown as cards you can page through.
Every conversation is saved locally; list them with 'insights history'.

Examples:
  # Chat with the configured backend
  insights chat

  # Chat offline against canned answers
  insights chat --mock --mock-delay 500ms`,
		RunE: runChat,
	}

	addBackendFlags(cmd)
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("mouse", false, "enable mouse scrolling")
	cmd.Flags().Bool("no-save", false, "do not store the conversation")

	return cmd
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("mock", false, "answer from the built-in mock backend")
	cmd.Flags().Duration("mock-delay", config.DefaultMockDelay, "how long the mock backend takes to answer")
}

// newBackend picks the remote client or the mock, letting command flags
// override the configuration.
func newBackend(cmd *cobra.Command, cfg *config.Config) api.Chatter {
	mock := cfg.Mock.Enabled
	if cmd.Flags().Changed("mock") {
		mock, _ = cmd.Flags().GetBool("mock")
	}
	delay := cfg.Mock.Delay
	if cmd.Flags().Changed("mock-delay") {
		delay, _ = cmd.Flags().GetDuration("mock-delay")
	}

	if mock {
		slog.Info("Using mock backend", "delay", delay)
		return api.NewMockClient(delay)
	}
	slog.Info("Using chat backend", "base_url", cfg.API.BaseURL)
	return api.NewClient(cfg.API)
}

func deviceInfo() (api.DeviceInfo, api.DeviceInfo) {
	return api.DeviceInfo{"terminal", runtime.GOOS}, api.DeviceInfo{"insights", version}
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	if cfg.Logging.File != "" {
		closer, logErr := common.SetupFileLogger(cfg.Logging.File, common.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
		if logErr != nil {
			return logErr
		}
		defer func() { _ = closer.Close() }()
	} else if err := common.SetupLoggerTo(io.Discard, common.ParseLevel(cfg.Logging.Level), cfg.Logging.Format); err != nil {
		return err
	}

	// The context logger was built before logging moved off stderr.
	ctx := commandContext(cmd.Context(), cmd.Name())
	var opts []chat.SessionOption
	noSave, _ := cmd.Flags().GetBool("no-save")
	if !noSave {
		store, storeErr := openStorage(ctx, cfg)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, chat.WithHistoryStore(store))
	}

	session := chat.NewSession(newBackend(cmd, cfg), opts...)
	common.LogInfo(ctx, "Starting chat", common.Fields{"session_id": session.ID()})

	themeName, _ := cmd.Flags().GetString("theme")
	mouse, _ := cmd.Flags().GetBool("mouse")
	device, appVersion := deviceInfo()

	if err := tui.Run(ctx, tui.NewConfig(session,
		tui.WithTheme(themes.GetTheme(themeName)),
		tui.WithDevice(device, appVersion),
		tui.WithMouse(mouse),
	)); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if !noSave {
		fmt.Fprintf(cmd.OutOrStdout(), "Conversation saved as %s\n", session.ID())
	}
	return nil
}
