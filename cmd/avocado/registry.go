// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/config"
	"github.com/avocado-build/avocado/internal/logging"
	"github.com/avocado-build/avocado/pkg/component"
)

// outputFlags are shared by every command that prints components.
type outputFlags struct {
	pretty bool
	format string
	ids    bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.pretty, "pretty", "p", false, "indent JSON output")
	cmd.Flags().StringVarP(&o.format, "output", "o", string(component.FormatJSON), "output format (json, yaml)")
	cmd.Flags().BoolVar(&o.ids, "ids", false, "print component ids only, one per line")
	cmd.PreRunE = func(*cobra.Command, []string) error {
		if ok, errs := component.Format(o.format).IsValid(); !ok {
			return errs[0]
		}
		return nil
	}
}

// write prints components. Flags the user did not set fall back to the
// output section of the config.
func (o *outputFlags) write(cmd *cobra.Command, cfg *config.Config, components []*component.Component) error {
	w := cmd.OutOrStdout()
	if o.ids {
		return writeIDs(w, components)
	}

	pretty := cfg.Output.Pretty
	if cmd.Flags().Changed("pretty") {
		pretty = o.pretty
	}
	format := cfg.Output.Format
	if cmd.Flags().Changed("output") {
		format = component.Format(o.format)
	}
	return component.Encode(w, components, format, pretty)
}

func writeIDs(w io.Writer, components []*component.Component) error {
	for _, c := range components {
		if _, err := fmt.Fprintln(w, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// loadRegistry resolves the registry root and loads its components.
func (inv *invocation) loadRegistry(cmd *cobra.Command, dir string) (string, []*component.Component, error) {
	cfg, err := inv.config(cmd)
	if err != nil {
		return "", nil, err
	}
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	path := component.Path(root, cfg.RegistryFile)
	components, err := component.Load(root, cfg.RegistryFile)
	if err != nil {
		return "", nil, describeError("load registry", path, err)
	}
	logging.FromContext(cmd.Context()).Debug("loaded registry", "path", path, "components", len(components))
	return root, components, nil
}

// dirArg returns the optional directory argument.
func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
