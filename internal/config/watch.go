// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// HOT RELOAD
// =============================================================================

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Watch reloads path whenever it changes and calls fn with each config that
// loads and validates. Invalid edits are logged and skipped. Watch blocks
// until ctx is done.
//
// The parent directory is watched rather than the file so that editors
// which save by rename keep working.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	return WatchWithDebounce(ctx, path, DefaultDebounce, fn)
}

// WatchWithDebounce is Watch with an explicit debounce interval.
func WatchWithDebounce(ctx context.Context, path string, debounce time.Duration, fn func(*Config)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "failed to resolve config path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(absPath))
	}

	logger := log.With().Str("component", "config").Str("path", absPath).Logger()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	reload := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("panic", fmt.Sprint(r)).Msg("config reload callback panicked")
			}
		}()
		cfg, err := LoadFromPath(absPath)
		if err != nil {
			logger.Warn().Err(err).Msg("config change ignored")
			return
		}
		logger.Info().Msg("config reloaded")
		fn(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}
