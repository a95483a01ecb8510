// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/config"
)

// newConfigCommand creates the `avocado config` command tree.
func newConfigCommand(inv *invocation) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage avocado configuration",
		Long: `Manage avocado configuration.

Configuration is read from the first of:
  - the file given with --config
  - Linux: ~/.config/avocado/config.cue
    macOS: ~/Library/Application Support/avocado/config.cue
    Windows: %APPDATA%\avocado\config.cue
  - ./config.cue

Every key can be overridden with an AVOCADO_ environment variable, for
example AVOCADO_HASH_JOBS=4 or AVOCADO_OUTPUT_FORMAT=yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := inv.config(cmd)
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: inv.cfgFile})
			if err != nil {
				return err
			}
			showConfig(cmd.OutOrStdout(), path, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPath, err := config.DefaultPath("")
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: inv.cfgFile})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Default file: %s\n", defaultPath)
			if path == "" {
				fmt.Fprintf(w, "Active file: %s\n", SubtitleStyle.Render("(using defaults)"))
			} else {
				fmt.Fprintf(w, "Active file: %s\n", path)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inv.cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(""); err != nil {
					return err
				}
			}

			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s already exists\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := inv.config(cmd)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, path string, cfg *config.Config) {
	value := SuccessStyle.Render

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("registry_file"), value(cfg.RegistryFile))

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("vcs"))
	fmt.Fprintf(w, "  backend: %s\n", value(string(cfg.VCS.Backend)))
	fmt.Fprintf(w, "  object_format: %s\n", value(string(cfg.VCS.ObjectFormat)))

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("hash"))
	fmt.Fprintf(w, "  jobs: %s\n", value(strconv.Itoa(cfg.Hash.Jobs)))
	fmt.Fprintf(w, "  remove_dependencies: %s\n", value(strconv.FormatBool(cfg.Hash.RemoveDependencies)))
	fmt.Fprintf(w, "  builtins: %s\n", value(strconv.FormatBool(cfg.Hash.Builtins)))

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("output"))
	fmt.Fprintf(w, "  pretty: %s\n", value(strconv.FormatBool(cfg.Output.Pretty)))
	fmt.Fprintf(w, "  format: %s\n", value(string(cfg.Output.Format)))

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("properties"))
	if len(cfg.Properties) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, p := range cfg.Properties {
		kind := "command"
		if p.Shell {
			kind = "shell"
		}
		fmt.Fprintf(w, "  - %s (%s): %s\n", value(p.Name), kind, p.Command)
	}

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", value(strconv.FormatBool(cfg.UI.Verbose)))
}
