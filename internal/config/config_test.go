// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-2.0-flash")
	}
	if cfg.Archive.FileName != ".termute.log" {
		t.Errorf("Archive.FileName = %q, want %q", cfg.Archive.FileName, ".termute.log")
	}
	if !cfg.Archive.Enabled {
		t.Error("Archive.Enabled = false, want true")
	}
	if cfg.UI.RuleWidth != 75 {
		t.Errorf("UI.RuleWidth = %d, want 75", cfg.UI.RuleWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
version = "1.0"

[gemini]
model = "gemini-2.5-pro"
timeout_secs = 30

[archive]
enabled = false

[ui]
rule_width = 100
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-2.5-pro")
	}
	if cfg.Gemini.TimeoutSecs != 30 {
		t.Errorf("Gemini.TimeoutSecs = %d, want 30", cfg.Gemini.TimeoutSecs)
	}
	if cfg.Archive.Enabled {
		t.Error("Archive.Enabled = true, want false")
	}
	// Unset fields fall back to defaults.
	if cfg.Gemini.BaseURL == "" {
		t.Error("Gemini.BaseURL not defaulted")
	}
	if cfg.UI.RuleWidth != 100 {
		t.Errorf("UI.RuleWidth = %d, want 100", cfg.UI.RuleWidth)
	}
}

func TestLoadFromPathInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("= broken"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath() succeeded on malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty model", func(c *Config) { c.Gemini.Model = "" }, true},
		{"relative base url", func(c *Config) { c.Gemini.BaseURL = "not-a-url" }, true},
		{"negative timeout", func(c *Config) { c.Gemini.TimeoutSecs = -1 }, true},
		{"archive enabled without file", func(c *Config) { c.Archive.FileName = "" }, true},
		{"narrow rule", func(c *Config) { c.UI.RuleWidth = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TERMUTE_MODEL", "gemini-override")
	t.Setenv("TERMUTE_DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Gemini.Model != "gemini-override" {
		t.Errorf("Gemini.Model = %q, want env override", cfg.Gemini.Model)
	}
	if !cfg.Log.Debug {
		t.Error("Log.Debug = false, want true from env")
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}
