// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromDir_Defaults(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}

	if cfg.API.BaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Models.Extract != "gemini-3-pro-preview" {
		t.Errorf("Models.Extract = %q, want %q", cfg.Models.Extract, "gemini-3-pro-preview")
	}
	if cfg.Models.Reply != "gemini-3-flash-preview" {
		t.Errorf("Models.Reply = %q, want %q", cfg.Models.Reply, "gemini-3-flash-preview")
	}
	if cfg.API.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want 60", cfg.API.TimeoutSecs)
	}
	if !cfg.UI.AltScreen {
		t.Error("AltScreen = false, want true by default")
	}
}

func TestLoadFromDir_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `
[api]
key = "test-key"
timeout_secs = 30

[models]
extract = "gemini-3-pro-preview"
reply = "custom-reply-model"

[ui]
default_theme = "cyberpunk"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}

	if cfg.API.Key != "test-key" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "test-key")
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if cfg.Models.Reply != "custom-reply-model" {
		t.Errorf("Models.Reply = %q, want %q", cfg.Models.Reply, "custom-reply-model")
	}
	if cfg.UI.DefaultTheme != "cyberpunk" {
		t.Errorf("DefaultTheme = %q, want %q", cfg.UI.DefaultTheme, "cyberpunk")
	}
	// Unset fields keep defaults.
	if cfg.API.BaseURL == "" {
		t.Error("BaseURL lost its default")
	}
}

func TestLoadFromDir_JSONFallback(t *testing.T) {
	dir := t.TempDir()
	content := `{"api": {"key": "json-key", "timeout_secs": 45}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.API.Key != "json-key" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "json-key")
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("TimeoutSecs = %d, want 45", cfg.API.TimeoutSecs)
	}
}

func TestLoadFromDir_TOMLWinsOverJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api]\nkey = \"from-toml\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"api":{"key":"from-json"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.API.Key != "from-toml" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "from-toml")
	}
}

func TestLoadFromDir_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromDir(dir); err == nil {
		t.Error("LoadFromDir() error = nil, want parse error")
	}
}

func TestLoadFromDir_EnvOverride(t *testing.T) {
	t.Setenv("MIRROR_API_KEY", "env-key")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api]\nkey = \"file-key\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "env-key")
	}
}

func TestLoadFromDir_GeminiKeyFallback(t *testing.T) {
	t.Setenv("MIRROR_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-env-key")

	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.API.Key != "gemini-env-key" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "gemini-env-key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad base URL scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, true},
		{"negative rate", func(c *Config) { c.API.RequestsPerMinute = -1 }, true},
		{"empty extract model", func(c *Config) { c.Models.Extract = "" }, true},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"unknown theme", func(c *Config) { c.UI.DefaultTheme = "neon-dreams" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.DataDir = dir
	cfg.API.Key = "round-trip-key"
	cfg.UI.DefaultTheme = "love"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if loaded.API.Key != "round-trip-key" {
		t.Errorf("API.Key = %q, want %q", loaded.API.Key, "round-trip-key")
	}
	if loaded.UI.DefaultTheme != "love" {
		t.Errorf("DefaultTheme = %q, want %q", loaded.UI.DefaultTheme, "love")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.DataDir = "/data/mirror"

	if got := cfg.PersonasPath(); got != filepath.Join("/data/mirror", "personas.json") {
		t.Errorf("PersonasPath() = %q", got)
	}
	if got := cfg.UsageDBPath(); got != filepath.Join("/data/mirror", "usage.db") {
		t.Errorf("UsageDBPath() = %q", got)
	}
	if got := cfg.LogPath(); got != filepath.Join("/data/mirror", "mirror.log") {
		t.Errorf("LogPath() = %q", got)
	}
}
