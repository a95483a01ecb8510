// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/core"
)

func newDepsCommand(inv *invocation) *cobra.Command {
	var (
		output       outputFlags
		dir          string
		includeRoots bool
		reverse      bool
	)

	depsCmd := &cobra.Command{
		Use:   "deps <id>...",
		Short: "Print the transitive dependencies of components",
		Long: `Print every component the given components depend on, directly or
transitively, in dependency-first order. With --reverse, consumers come first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, components, err := inv.loadRegistry(cmd, dir)
			if err != nil {
				return err
			}
			deps, err := core.Dependencies(components, args, includeRoots, reverse)
			if err != nil {
				return describeError("resolve dependencies", root, err)
			}
			return output.write(cmd, inv.cfg, deps)
		},
	}

	output.register(depsCmd)
	depsCmd.Flags().StringVar(&dir, "dir", ".", "registry root")
	depsCmd.Flags().BoolVar(&includeRoots, "include-roots", false, "include the given components in the output")
	depsCmd.Flags().BoolVar(&reverse, "reverse", false, "print consumers before their dependencies")
	return depsCmd
}

func newDependentsCommand(inv *invocation) *cobra.Command {
	var (
		output       outputFlags
		dir          string
		includeRoots bool
	)

	dependentsCmd := &cobra.Command{
		Use:   "dependents <id>...",
		Short: "Print the components affected by changes to components",
		Long: `Print every component that depends on one of the given components, directly
or transitively, in dependency-first order. A given component that depends on
another given component is always printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, components, err := inv.loadRegistry(cmd, dir)
			if err != nil {
				return err
			}
			dependents, err := core.Dependents(components, args, includeRoots)
			if err != nil {
				return describeError("resolve dependents", root, err)
			}
			return output.write(cmd, inv.cfg, dependents)
		},
	}

	output.register(dependentsCmd)
	dependentsCmd.Flags().StringVar(&dir, "dir", ".", "registry root")
	dependentsCmd.Flags().BoolVar(&includeRoots, "include-roots", false, "include the given components in the output")
	return dependentsCmd
}
