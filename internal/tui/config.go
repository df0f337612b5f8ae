package tui

import (
	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Session      *chat.Session
	Device       api.DeviceInfo
	Version      api.DeviceInfo
	Width        int
	Height       int
	MouseSupport bool
	ShowHelp     bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Device:       api.DeviceInfo{"terminal", "insights"},
		Version:      api.DeviceInfo{"insights", "dev"},
		Width:        80,
		Height:       24,
		MouseSupport: true,
	}
}

// NewConfig builds a configuration around a chat session.
func NewConfig(session *chat.Session, opts ...Option) Config {
	cfg := defaultConfig()
	cfg.Session = session
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithDevice sets the device and app version reported when the session opens.
func WithDevice(device, version api.DeviceInfo) Option {
	return func(c *Config) {
		c.Device = device
		c.Version = version
	}
}

// WithMouse enables or disables wheel scrolling of the thread.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}

// WithHelp starts with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
