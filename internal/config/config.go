package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultBaseURL      = "http://localhost:3000/api"
	DefaultTimeout      = 30 * time.Second
	DefaultRetryMax     = 3
	DefaultDatabasePath = "~/.local/share/insights/insights.db"
	DefaultMockDelay    = 3 * time.Second
)

// APIConfig describes the remote chat backend.
type APIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
}

// MockConfig controls the offline keyword-routed backend.
type MockConfig struct {
	Delay   time.Duration
	Enabled bool
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Config is the resolved application configuration.
type Config struct {
	Logging      LoggingConfig
	API          APIConfig
	DatabasePath string
	Mock         MockConfig
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.retry_max", DefaultRetryMax)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("mock.enabled", false)
	v.SetDefault("mock.delay", DefaultMockDelay)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load builds a Config from v. Paths are expanded and values validated.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		API: APIConfig{
			BaseURL:  v.GetString("api.base_url"),
			Timeout:  v.GetDuration("api.timeout"),
			RetryMax: v.GetInt("api.retry_max"),
		},
		DatabasePath: ExpandPath(v.GetString("database.path")),
		Mock: MockConfig{
			Enabled: v.GetBool("mock.enabled"),
			Delay:   v.GetDuration("mock.delay"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.Mock.Enabled {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: api.base_url %q is not an absolute URL", common.ErrInvalidConfig, c.API.BaseURL)
		}
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("%w: api.retry_max must not be negative", common.ErrInvalidConfig)
	}
	if c.Mock.Delay < 0 {
		return fmt.Errorf("%w: mock.delay must not be negative", common.ErrInvalidConfig)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	return nil
}
