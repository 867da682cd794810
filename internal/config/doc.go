// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
//
// Supports both TOML and JSON configuration formats, with defaults, .env
// files, environment variable overrides, validation and hot reload.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGCHAT_*), including ones set by a .env file
//   - ~/.rigchat/config.toml
//   - ~/.rigchat/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("config")
//	}
//	client := transport.NewClient(cfg.Endpoint.URL)
package config
