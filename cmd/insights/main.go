package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/config"
	"github.com/Veraticus/card-insights/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "insights",
		Short: "💳 Ask questions about your card spending",
		Long: `insights is a terminal client for the card spending assistant.

Chat with the assistant, import OFX statements and browse spending
cards built from your own transactions.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/insights/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: ~/.local/share/insights/insights.db)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(recordsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, common.UserMessage(err))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/insights", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("INSIGHTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	cmd.SetContext(commandContext(cmd.Context(), cmd.Name()))
	return nil
}

// commandContext carries a logger tagged with the running command.
func commandContext(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return common.WithLogger(ctx, slog.Default().With("command", name))
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", common.ErrInvalidConfig, level)
	}
	return common.SetupLogger(common.ParseLevel(level), viper.GetString("logging.format"))
}

// loadConfig resolves the typed configuration from the global viper instance.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("The configuration is invalid: "+err.Error(), err)
	}
	return cfg, nil
}

// openStorage opens and migrates the local database.
func openStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	common.LogDebug(ctx, "Opened database", common.Fields{"path": store.Path()})
	return store, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "insights %s\n", version)
		},
	}
}
