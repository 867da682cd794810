// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit configuration",
		Long: `Show and edit configuration.

Keys use dot notation: ` + strings.Join(config.GetAllKeys(), ", ") + `.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(a),
		newConfigPathCommand(a),
		newConfigInitCommand(a),
		newConfigGetCommand(a),
		newConfigSetCommand(a),
	)
	return cmd
}

// targetPath is the file config edits are written to.
func (a *app) targetPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPathTOML()
}

func newConfigShowCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a.cfg)
			}
			fmt.Fprint(out, a.cfg.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newConfigPathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintln(out, path, DimStyle.Render("(not created yet, run `rigchat config init`)"))
				return nil
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}
}

func newConfigInitCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := saveConfig(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("[OK]")+" wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
}

func newConfigSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value in the config file",
		Long: `Set one configuration value in the config file.

List values (ui.examples) are comma separated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				if cfg, err = config.LoadFromPath(path); err != nil {
					return err
				}
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := saveConfig(cfg, path); err != nil {
				return err
			}

			value, _ := cfg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), args[0], formatValue(value))
			return nil
		},
	}
}

// saveConfig writes JSON for .json paths and TOML otherwise.
func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}
