// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/core"
)

func newSortCommand(inv *invocation) *cobra.Command {
	var output outputFlags

	sortCmd := &cobra.Command{
		Use:   "sort [dir]",
		Short: "Print components in dependency-first order",
		Long: `Print the components of the registry in dir so that every component comes
after all of its dependencies. A dependency cycle is reported with every
component that could not be placed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, components, err := inv.loadRegistry(cmd, dirArg(args))
			if err != nil {
				return err
			}
			sorted, err := core.Sort(components)
			if err != nil {
				return describeError("sort components", root, err)
			}
			return output.write(cmd, inv.cfg, sorted)
		},
	}

	output.register(sortCmd)
	return sortCmd
}
