// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/engine"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/render"
)

// maxStdinQuestion caps a question read from stdin.
const maxStdinQuestion = 1 << 20

// askResult is the --json output of ask.
type askResult struct {
	Session string `json:"session"`
	Message string `json:"message"`
	Reply   string `json:"reply"`
	Error   string `json:"error,omitempty"`
}

func newAskCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Send one message and print the reply",
		Long: `Send one message and print the reply.

The question is taken from the arguments, or from stdin when there are none
or the only argument is "-".`,
		Example: `  rigchat ask "What's your experience with Go?"
  echo "Tell me about a project" | rigchat ask
  rigchat ask --json "hi" | jq .reply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(cmd, args)
			if err != nil {
				return err
			}

			eng := a.newEngine()
			if !eng.SubmitText(cmd.Context(), question) {
				return errors.New("nothing to send")
			}
			eng.Wait()

			state := eng.State()
			reply, _ := state.LastReply()

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeAskJSON(out, eng, question, reply, state); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, displayReply(out, a, reply.Content))
			}

			if state.HasError() {
				return errors.New(strings.TrimPrefix(state.LastError, engine.ApologyPrefix))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print {session, message, reply, error} as JSON")
	return cmd
}

// readQuestion joins args, or reads stdin for none or "-".
func readQuestion(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinQuestion))
	if err != nil {
		return "", errors.Wrap(err, "failed to read question from stdin")
	}
	question := strings.TrimSpace(string(data))
	if question == "" {
		return "", errors.New("no question given")
	}
	return question, nil
}

func writeAskJSON(out io.Writer, eng *engine.Engine, question string, reply model.Message, state model.State) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(askResult{
		Session: eng.Session().String(),
		Message: question,
		Reply:   reply.Content,
		Error:   strings.TrimPrefix(state.LastError, engine.ApologyPrefix),
	})
}

// displayReply renders markdown only when writing to a terminal so piped
// output stays the raw reply text.
func displayReply(out io.Writer, a *app, content string) string {
	if !isTerminalWriter(out) {
		return render.Clean(content)
	}
	style := render.StyleAuto
	if !ColorsEnabled() {
		style = render.StylePlain
	}
	return render.NewTerminal(style, a.cfg.Render.Markdown).Render(content, GetTerminalWidth())
}
