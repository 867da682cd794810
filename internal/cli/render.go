// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/render"
)

// maxRenderInput caps the markdown read by `rigchat render`.
const maxRenderInput = 10 << 20

func newRenderCommand(a *app) *cobra.Command {
	var (
		terminal bool
		width    int
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown through the display pipeline",
		Long: `Render markdown the way replies are rendered.

By default the output is the sanitized HTML fragment used by exports. With
--terminal it is the text shown in the chat view. Reads stdin when no file
is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readRenderInput(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if terminal {
				style := render.StylePlain
				if isTerminalWriter(out) && ColorsEnabled() {
					style = render.StyleAuto
				}
				if width <= 0 {
					width = GetTerminalWidth()
				}
				fmt.Fprintln(out, render.NewTerminal(style, a.cfg.Render.Markdown).Render(src, width))
				return nil
			}

			p := render.NewPipeline()
			select {
			case <-p.Load(cmd.Context(), a.renderOptions()):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			opts := a.renderOptions()
			if opts.Markdown && !p.FormatterReady() {
				log.Warn().Msg("markdown formatter unavailable, printing preformatted text")
			}
			if opts.Sanitize && !p.SanitizerReady() {
				log.Warn().Msg("sanitizer unavailable, raw HTML will be dropped")
			}
			fmt.Fprintln(out, p.Render(src).String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&terminal, "terminal", false, "render for the terminal instead of HTML")
	cmd.Flags().IntVar(&width, "width", 0, "wrap width for --terminal (default: terminal width)")
	return cmd
}

func readRenderInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", errors.Wrap(err, "failed to open input")
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxRenderInput))
	if err != nil {
		return "", errors.Wrap(err, "failed to read input")
	}
	return string(data), nil
}
