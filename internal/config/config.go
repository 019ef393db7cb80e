// File: internal/config/config.go

// Package config defines the runtime configuration tree. Values are loaded
// by the command layer through viper; every field carries a mapstructure tag
// and a default so a missing config file still yields a working setup.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Config is the root of the configuration tree.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	API     APIConfig     `mapstructure:"api"`
	Browser BrowserConfig `mapstructure:"browser"`
	Filler  FillerConfig  `mapstructure:"filler"`
	Store   StoreConfig   `mapstructure:"store"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
}

// LoggerConfig controls the zap logger construction.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format"`
	// FilePath, when set, adds a rotating file sink alongside stderr.
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// APIConfig points at the profile backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RequestsPerSecond throttles outbound calls to the backend.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	// Headless defaults to false: the supervised flow needs a visible window
	// for the reviewer to inspect highlights.
	Headless bool   `mapstructure:"headless"`
	ExecPath string `mapstructure:"exec_path"`
	// PostLoadWait is the settle pause after navigation before scanning.
	PostLoadWait time.Duration `mapstructure:"post_load_wait"`
	NavTimeout   time.Duration `mapstructure:"nav_timeout"`
}

// FillerConfig tunes the fill and review behavior.
type FillerConfig struct {
	// ClickDelay is the pause between scrolling the chosen action into view
	// and clicking it.
	ClickDelay time.Duration `mapstructure:"click_delay"`
}

// StoreConfig locates the local credential store.
type StoreConfig struct {
	// Path of the sqlite database file. Empty means ~/.autoapply/state.db.
	Path string `mapstructure:"path"`
}

// BridgeConfig controls the local HTTP bridge started by `serve`.
type BridgeConfig struct {
	Addr            string        `mapstructure:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.MaxSizeMB == 0 {
		c.Logger.MaxSizeMB = 50
	}
	if c.Logger.MaxBackups == 0 {
		c.Logger.MaxBackups = 3
	}
	if c.Logger.MaxAgeDays == 0 {
		c.Logger.MaxAgeDays = 14
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = 5
	}
	if c.API.Burst == 0 {
		c.API.Burst = 5
	}

	if c.Browser.PostLoadWait == 0 {
		c.Browser.PostLoadWait = 1500 * time.Millisecond
	}
	if c.Browser.NavTimeout == 0 {
		c.Browser.NavTimeout = 45 * time.Second
	}

	if c.Filler.ClickDelay == 0 {
		c.Filler.ClickDelay = 600 * time.Millisecond
	}

	if c.Bridge.Addr == "" {
		c.Bridge.Addr = "127.0.0.1:8787"
	}
	if c.Bridge.RequestTimeout == 0 {
		c.Bridge.RequestTimeout = 5 * time.Minute
	}
	if c.Bridge.ShutdownTimeout == 0 {
		c.Bridge.ShutdownTimeout = 10 * time.Second
	}
}

// StorePath resolves the credential store location, expanding the default
// under the user's home directory when unset.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".autoapply", "state.db"), nil
}
