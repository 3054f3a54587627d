// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// the mirror TUI.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.mirror/config.toml
//   - ~/.mirror/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mirror configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API configuration for the remote generation capability
	API APIConfig `toml:"api" json:"api"`

	// Model selection
	Models ModelsConfig `toml:"models" json:"models"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains remote generation API settings.
type APIConfig struct {
	// Key is the Generative Language API key. Overridden by MIRROR_API_KEY
	// or GEMINI_API_KEY.
	Key string `toml:"key" json:"key"`
	// BaseURL is the API base URL.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerMinute paces outgoing calls.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// ModelsConfig selects the models for the two call shapes.
type ModelsConfig struct {
	// Extract is the style-extraction model; it needs vision support.
	Extract string `toml:"extract" json:"extract"`
	// Reply is the reply-generation model.
	Reply string `toml:"reply" json:"reply"`
}

// StorageConfig contains local persistence settings.
type StorageConfig struct {
	// DataDir holds the persona collection, usage database, and log file.
	// Overridden by MIRROR_DATA_DIR.
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// AltScreen runs the TUI on the terminal's alternate screen.
	AltScreen bool `toml:"alt_screen" json:"alt_screen"`
	// DefaultTheme is the chat theme assigned to new personas.
	DefaultTheme string `toml:"default_theme" json:"default_theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSecs:       60,
			RequestsPerMinute: 15,
		},
		Models: ModelsConfig{
			Extract: "gemini-3-pro-preview",
			Reply:   "gemini-3-flash-preview",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		UI: UIConfig{
			AltScreen:    true,
			DefaultTheme: string(model.ThemeDefault),
		},
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mirror"
	}
	return filepath.Join(homeDir, ".mirror")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default locations, applies
// environment overrides, and validates. A missing file yields defaults;
// a malformed file is an error.
func Load() (*Config, error) {
	return LoadFromDir(defaultDataDir())
}

// LoadFromDir reads configuration from a specific directory.
func LoadFromDir(dir string) (*Config, error) {
	cfg := DefaultConfig()

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
	case fileExists(jsonPath):
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MIRROR_API_KEY"); v != "" {
		c.API.Key = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.API.Key == "" {
		c.API.Key = v
	}
	if v := os.Getenv("MIRROR_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks field values, reporting the first offending field path.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url: must not be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url: %q is not a valid http(s) URL", c.API.BaseURL)
	}
	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs: must be positive, got %d", c.API.TimeoutSecs)
	}
	if c.API.RequestsPerMinute <= 0 {
		return fmt.Errorf("api.requests_per_minute: must be positive, got %d", c.API.RequestsPerMinute)
	}
	if c.Models.Extract == "" || c.Models.Reply == "" {
		return fmt.Errorf("models: extract and reply must both be set")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir: must not be empty")
	}
	if _, ok := model.Themes[model.ThemeID(c.UI.DefaultTheme)]; !ok {
		return fmt.Errorf("ui.default_theme: unknown theme %q", c.UI.DefaultTheme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration as TOML into its data directory.
func (c *Config) Save() error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(c.Storage.DataDir, "config.toml")
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// DERIVED PATHS AND VALUES
// =============================================================================

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// PersonasPath is the persona collection file.
func (c *Config) PersonasPath() string {
	return filepath.Join(c.Storage.DataDir, "personas.json")
}

// UsageDBPath is the telemetry database file.
func (c *Config) UsageDBPath() string {
	return filepath.Join(c.Storage.DataDir, "usage.db")
}

// LogPath is the process log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.DataDir, "mirror.log")
}

// ConfigPath is the TOML config file location for this data directory.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Storage.DataDir, "config.toml")
}

// DefaultThemeID returns the configured default theme.
func (c *Config) DefaultThemeID() model.ThemeID {
	return model.ThemeID(c.UI.DefaultTheme)
}
