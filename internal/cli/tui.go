// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/render"
	"github.com/jeranaias/rigchat/internal/ui/chat"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// runTUI starts the full-screen chat.
func runTUI(cmd *cobra.Command, a *app) error {
	if err := RequiresTTY("start the chat view"); err != nil {
		return errors.Wrap(err, "use `rigchat ask` or `rigchat chat` when piping")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	themeName := a.cfg.UI.Theme
	if !ColorsEnabled() {
		themeName = styles.ThemePlain
	}
	theme := styles.NewTheme(themeName)

	pipeline := render.NewPipeline()
	pipeline.Load(ctx, a.renderOptions())

	exportOpts := export.DefaultOptions()
	exportOpts.CodeStyle = a.cfg.Render.CodeStyle
	if theme.IsDark {
		exportOpts.Theme = "dark"
	} else {
		exportOpts.Theme = "light"
	}

	eng := a.newEngine()
	m := chat.New(chat.Options{
		Engine:   eng,
		Theme:    theme,
		Terminal: render.NewTerminal(theme.GlamourStyle(), a.cfg.Render.Markdown),
		Pipeline: pipeline,
		Endpoint: a.cfg.Endpoint.URL,
		Examples: a.cfg.UI.Examples,
		WordWrap: a.cfg.UI.WordWrap,
		Export:   exportOpts,
		Context:  ctx,
	})
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if a.configPath != "" {
		go watchSettings(ctx, a.configPath, p)
	}

	log.Info().
		Str("session", eng.Session().String()).
		Str("endpoint", a.cfg.Endpoint.URL).
		Msg("chat view started")

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	return err
}

// watchSettings forwards UI settings from config file edits to the program.
func watchSettings(ctx context.Context, path string, p *tea.Program) {
	err := config.Watch(ctx, path, func(cfg *config.Config) {
		log.Info().Str("path", path).Msg("config reloaded")
		p.Send(chat.SettingsMsg{
			WordWrap: cfg.UI.WordWrap,
			Examples: cfg.UI.Examples,
		})
	})
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("config watch stopped")
	}
}
