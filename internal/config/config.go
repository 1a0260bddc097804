package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RenderText = "text"
	RenderHTML = "html"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	Env                   string        `mapstructure:"app_env"`
	LogLevel              string        `mapstructure:"log_level"`
	ITunesBaseURL         string        `mapstructure:"itunes_base_url"`
	AppID                 string        `mapstructure:"app_id"`
	InitialIndex          int           `mapstructure:"initial_index"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	UserAgent             string        `mapstructure:"user_agent"`
	RenderFormat          string        `mapstructure:"render_format"`
	HTMLOutput            string        `mapstructure:"html_output"`
	FixtureFile           string        `mapstructure:"fixture_file"`
	PublishersFile        string        `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "itunes-screenshots")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("itunes_base_url", "http://itunes.apple.com/")
	v.SetDefault("app_id", "")
	v.SetDefault("initial_index", 0)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("user_agent", "itunes-screenshots/1.0")
	v.SetDefault("render_format", RenderText)
	v.SetDefault("html_output", "./screenshots.html")
	v.SetDefault("fixture_file", "")
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize trims values, derives durations and validates the result.
// It is re-run after command-line overrides are applied.
func (c *Config) Normalize() error {
	c.AppID = strings.TrimSpace(c.AppID)
	c.ITunesBaseURL = strings.TrimSpace(c.ITunesBaseURL)
	c.RenderFormat = strings.ToLower(strings.TrimSpace(c.RenderFormat))
	c.PublishersFile = strings.TrimSpace(c.PublishersFile)
	c.FixtureFile = strings.TrimSpace(c.FixtureFile)

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	switch c.RenderFormat {
	case RenderText:
	case RenderHTML:
		if strings.TrimSpace(c.HTMLOutput) == "" {
			return fmt.Errorf("html_output is required when render_format is html")
		}
	default:
		return fmt.Errorf("invalid render_format %q (expected text or html)", c.RenderFormat)
	}

	if c.InitialIndex < 0 {
		return fmt.Errorf("invalid initial_index (must not be negative)")
	}
	return nil
}
