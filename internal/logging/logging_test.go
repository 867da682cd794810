// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNew_ConsoleNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Mode: ModeConsole, Level: "debug", Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Str("k", "v").Msg("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "k=v")
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Out: &buf})
	require.NoError(t, err)

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rigchat.log")
	logger, closer, err := New(Options{Mode: ModeFile, File: path})
	require.NoError(t, err)

	logger.Info().Str("component", "test").Msg("written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNew_FileModeRequiresPath(t *testing.T) {
	_, _, err := New(Options{Mode: ModeFile})
	assert.Error(t, err)
}

func TestSetup_InstallsGlobal(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	closer, err := Setup(Options{Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("global")
	assert.Contains(t, buf.String(), "global")
}
