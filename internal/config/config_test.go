// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("RIGCHAT_ENDPOINT", "")
	t.Setenv("RIGCHAT_LOG_LEVEL", "")
	t.Setenv("RIGCHAT_THEME", "")
	return home
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint.URL)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.Render.Markdown)
	assert.True(t, cfg.Render.Sanitize)
	assert.NotEmpty(t, cfg.UI.Examples)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default config", func(*Config) {}, ""},
		{"empty endpoint", func(c *Config) { c.Endpoint.URL = " " }, "endpoint.url"},
		{"bad scheme", func(c *Config) { c.Endpoint.URL = "ftp://host/" }, "endpoint.url"},
		{"no host", func(c *Config) { c.Endpoint.URL = "http:///path" }, "endpoint.url"},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"negative wrap", func(c *Config) { c.UI.WordWrap = -1 }, "ui.word_wrap"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"uppercase level ok", func(c *Config) { c.Log.Level = "DEBUG" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.wantErr, verrs[0].Field)
		})
	}
}

func TestConfig_LoadFromPathTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[endpoint]
url = "https://chat.example.com/api"

[ui]
theme = "light"
examples = ["one", "two"]

[render]
sanitize = false
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com/api", cfg.Endpoint.URL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, []string{"one", "two"}, cfg.UI.Examples)
	assert.False(t, cfg.Render.Sanitize)
	assert.True(t, cfg.Render.Markdown, "unset keys keep defaults")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfig_LoadFromPathJSON(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint":{"url":"http://10.0.0.1:9000/"},"log":{"level":"debug"}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:9000/", cfg.Endpoint.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_LoadFromPathInvalid(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[endpoint\nurl="), 0600))
	_, err := LoadFromPath(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[ui]\ntheme = \"neon\"\n"), 0600))
	_, err = LoadFromPath(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestConfig_LoadPrefersTOMLOverJSON(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".rigchat")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[endpoint]\nurl = \"http://toml.local/\"\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"endpoint":{"url":"http://json.local/"}}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://toml.local/", cfg.Endpoint.URL)
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RIGCHAT_ENDPOINT", "https://override.example.com/")
	t.Setenv("RIGCHAT_LOG_LEVEL", "warn")
	t.Setenv("RIGCHAT_THEME", "plain")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com/", cfg.Endpoint.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "plain", cfg.UI.Theme)
}

func TestConfig_DotEnv(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".rigchat")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RIGCHAT_THEME=dark\n"), 0600))
	os.Unsetenv("RIGCHAT_THEME")
	t.Cleanup(func() { os.Unsetenv("RIGCHAT_THEME") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Endpoint.URL = "https://saved.example.com/"
	cfg.UI.WordWrap = 72
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("endpoint.url", "https://x.example/"))
	require.NoError(t, cfg.Set("ui.word-wrap", "80"))
	require.NoError(t, cfg.Set("render.markdown", "false"))
	require.NoError(t, cfg.Set("ui.examples", "a, b ,,c"))

	v, err := cfg.Get("endpoint.url")
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/", v)
	assert.Equal(t, 80, cfg.UI.WordWrap)
	assert.False(t, cfg.Render.Markdown)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.UI.Examples)

	_, err = cfg.Get("nope.key")
	assert.Error(t, err)
	_, err = cfg.Get("endpoint.url.deeper")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("ui.word_wrap", "wide"))
	assert.Error(t, cfg.Set("render.sanitize", "maybe"))

	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchWithDebounce(ctx, path, 20*time.Millisecond, func(c *Config) { got <- c })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	updated := Default()
	updated.UI.Theme = "light"
	require.NoError(t, SaveTOML(updated, path))

	select {
	case c := <-got:
		assert.Equal(t, "light", c.UI.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
