// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/engine"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/render"
	"github.com/jeranaias/rigchat/internal/transport"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command annotations read by the root pre-run hook.
const (
	annLog    = "log"    // logToFile routes logs to the rotating log file
	annConfig = "config" // noConfig runs without loading config
	logToFile = "file"
	noConfig  = "none"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	endpoint   string
	configPath string
	logLevel   string
	noMarkdown bool
	noSanitize bool
}

// app is what every command runs against once config is loaded.
type app struct {
	flags      globalFlags
	cfg        *config.Config
	configPath string // file the config came from, empty for defaults
	logCloser  io.Closer
}

// applyFlags overrides cfg with explicitly set flags.
func (a *app) applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("endpoint") {
		a.cfg.Endpoint.URL = a.flags.endpoint
	}
	if f.Changed("log-level") {
		a.cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.noMarkdown {
		a.cfg.Render.Markdown = false
	}
	if a.flags.noSanitize {
		a.cfg.Render.Sanitize = false
	}
}

// loadConfig reads --config or the default locations.
func (a *app) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		config.LoadDotEnv()
		cfg, err = config.LoadFromPath(a.flags.configPath)
		a.configPath = a.flags.configPath
	} else {
		cfg, err = config.Load()
		a.configPath = existingConfigPath()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// setupLogging installs the global logger for cmd.
func (a *app) setupLogging(cmd *cobra.Command) error {
	opts := logging.Options{
		Mode:  logging.ModeConsole,
		Level: a.cfg.Log.Level,
		Out:   cmd.ErrOrStderr(),
	}
	if cmd.Annotations[annLog] == logToFile {
		opts.Mode = logging.ModeFile
		opts.File = a.cfg.Log.File
		if opts.File == "" {
			path, err := config.DefaultLogFile()
			if err != nil {
				return err
			}
			opts.File = path
		}
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		return errors.Wrap(err, "failed to set up logging")
	}
	a.logCloser = closer
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// newEngine builds a conversation engine for the configured endpoint.
func (a *app) newEngine() *engine.Engine {
	client := transport.NewClient(a.cfg.Endpoint.URL)
	return engine.New(client)
}

// renderOptions maps config to pipeline options.
func (a *app) renderOptions() render.Options {
	return render.Options{
		Markdown:  a.cfg.Render.Markdown,
		Sanitize:  a.cfg.Render.Sanitize,
		CodeStyle: a.cfg.Render.CodeStyle,
	}
}

// existingConfigPath returns the default config file if one exists.
func existingConfigPath() string {
	for _, pathFn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the rigchat command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rigchat",
		Short: "A terminal client for a conversational HTTP endpoint",
		Long: `rigchat talks to a single conversational endpoint: every message you send
is POSTed as {"session", "message"} and whatever comes back is shown as the reply.

Run without a subcommand to start the full-screen chat.`,
		Annotations:   map[string]string{annLog: logToFile},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			transport.UserAgent = "rigchat/" + Version
			if cmd.Annotations[annConfig] == noConfig {
				return nil
			}
			if err := a.loadConfig(); err != nil {
				return err
			}
			a.applyFlags(cmd)
			if err := a.cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid settings")
			}
			if err := a.setupLogging(cmd); err != nil {
				return err
			}
			log.Debug().
				Str("endpoint", a.cfg.Endpoint.URL).
				Str("config", a.configPath).
				Str("command", cmd.Name()).
				Msg("starting")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.endpoint, "endpoint", "", "conversational endpoint URL (overrides config)")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.rigchat/config.toml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.BoolVar(&a.flags.noMarkdown, "no-markdown", false, "show replies as plain text")
	pf.BoolVar(&a.flags.noSanitize, "no-sanitize", false, "skip HTML sanitizing (raw HTML in replies is then dropped)")

	root.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newRenderCommand(a),
		newConfigCommand(a),
		newMockServerCommand(a),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with os.Args and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}
