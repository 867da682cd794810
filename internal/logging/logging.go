// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Mode selects where logs are written.
type Mode int

const (
	// ModeConsole writes human readable lines to stderr.
	ModeConsole Mode = iota
	// ModeFile writes JSON lines to a rotating log file.
	ModeFile
)

// Options configures Setup.
type Options struct {
	Mode  Mode
	Level string
	File  string    // required for ModeFile
	Out   io.Writer // console destination, defaults to os.Stderr
}

// Rotation limits for ModeFile.
const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 14
)

// ParseLevel converts a config level name to a zerolog level, defaulting to info.
func ParseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New builds a logger for opts. The returned closer releases the log file
// in ModeFile and is a no-op otherwise.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch opts.Mode {
	case ModeFile:
		if opts.File == "" {
			return zerolog.Nop(), closer, errors.New("log file path required")
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		out, closer = lj, lj
	default:
		dest := opts.Out
		if dest == nil {
			dest = os.Stderr
		}
		out = zerolog.ConsoleWriter{
			Out:        dest,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(dest),
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// Setup builds a logger for opts and installs it as the global logger.
func Setup(opts Options) (io.Closer, error) {
	logger, closer, err := New(opts)
	if err != nil {
		return closer, err
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return closer, nil
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
