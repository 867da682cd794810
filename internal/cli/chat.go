// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/engine"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/render"
	"github.com/jeranaias/rigchat/internal/util"
)

const historyFileName = "chat_history"

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	line.SetCompleter(completeSlash)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

var replCommands = []string{"/copy", "/export", "/help", "/quit", "/exit"}

func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// REPL
// =============================================================================

// repl is the state of one interactive session.
type repl struct {
	ctx      context.Context
	app      *app
	eng      *engine.Engine
	out      io.Writer
	terminal *render.Terminal
	pipeline *render.Pipeline
}

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-editing chat in the current terminal",
		Long: `Line-editing chat in the current terminal.

Commands: /copy, /export md|json|html [path], /help, /quit.
Other text starting with "/" is sent as a message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("chat"); err != nil {
				return errors.Wrap(err, "use `rigchat ask` when piping")
			}

			style := render.StyleAuto
			if !ColorsEnabled() {
				style = render.StylePlain
			}

			pipeline := render.NewPipeline()
			pipeline.Load(cmd.Context(), a.renderOptions())

			r := &repl{
				ctx:      cmd.Context(),
				app:      a,
				eng:      a.newEngine(),
				out:      cmd.OutOrStdout(),
				terminal: render.NewTerminal(style, a.cfg.Render.Markdown),
				pipeline: pipeline,
			}
			return r.run()
		},
	}
}

func (r *repl) run() error {
	input := NewChatCLI()
	defer input.Close()

	fmt.Fprintln(r.out, TitleStyle.Render("rigchat")+DimStyle.Render(" session "+r.eng.Session().Short()+", /help for commands"))

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if err != liner.ErrPromptAborted && err != io.EOF {
				log.Debug().Err(err).Msg("prompt failed")
			}
			fmt.Fprintln(r.out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, args, ok := util.ParseCommand(line); ok {
			switch name {
			case "quit", "exit", "q":
				return nil
			case "help", "h", "?":
				r.printHelp()
				continue
			case "export", "e":
				r.export(args)
				continue
			case "copy", "y":
				r.copyLast()
				continue
			}
		}

		r.send(line)
	}
}

// send submits one message and prints the reply.
func (r *repl) send(text string) {
	if !r.eng.SubmitText(r.ctx, text) {
		return
	}
	fmt.Fprint(r.out, DimStyle.Render("..."))
	r.eng.Wait()
	fmt.Fprint(r.out, "\r   \r")

	reply, ok := r.eng.State().LastReply()
	if !ok {
		return
	}
	label := AssistantStyle.Render("assistant")
	if reply.Failed {
		label = ErrorStyle.Render("error")
	}
	fmt.Fprintln(r.out, label)
	fmt.Fprintln(r.out, r.terminal.Render(reply.Content, GetTerminalWidth()))
	fmt.Fprintln(r.out)
}

func (r *repl) export(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, ErrorStyle.Render("usage: /export md|json|html [path]"))
		return
	}
	opts := export.DefaultOptions()
	opts.CodeStyle = r.app.cfg.Render.CodeStyle

	exporter, err := export.ForFormat(args[0], opts, r.pipeline)
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render(err.Error()))
		return
	}
	path := strings.Join(args[1:], " ")
	t := export.NewTranscript(r.eng.Session().String(), r.app.cfg.Endpoint.URL, r.eng.State().Log)
	written, err := export.ExportToFile(t, exporter, path, opts)
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("[OK]")+" exported to "+written)
}

func (r *repl) copyLast() {
	reply, ok := r.eng.State().LastReply()
	if !ok {
		fmt.Fprintln(r.out, DimStyle.Render("nothing to copy yet"))
		return
	}
	if err := clipboard.WriteAll(reply.Content); err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("copy failed: "+err.Error()))
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("[OK]")+" copied last reply")
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, DimStyle.Render(`/copy                        copy the last reply to the clipboard
/export md|json|html [path]  write the conversation to a file
/help                        this help
/quit                        leave (Ctrl+D works too)`))
}

