// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for termute.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig: Model and endpoint configuration
//   - ArchiveConfig: Conversation archive configuration
//   - LogConfig: Diagnostic log configuration
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TERMUTE_*)
//   - ~/.termute/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	model := cfg.Gemini.Model
//	archive := cfg.Archive.FileName
package config
