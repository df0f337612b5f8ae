package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoSession is returned by Run when the configuration carries no chat session.
var ErrNoSession = errors.New("tui: chat session is required")

// Run shows the chat until the user quits or ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Session == nil {
		return ErrNoSession
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore the terminal even if the program dies mid-frame.
	defer func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
		if cfg.MouseSupport {
			_, _ = os.Stdout.Write([]byte("\033[?1000l")) // Disable mouse
		}
	}()

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	if cfg.MouseSupport {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	program := tea.NewProgram(New(ctx, cfg), opts...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
