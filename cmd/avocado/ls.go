// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/issue"
	"github.com/avocado-build/avocado/pkg/component"
)

func newListCommand(inv *invocation) *cobra.Command {
	var match string

	lsCmd := &cobra.Command{
		Use:     "ls [dir]",
		Aliases: []string{"list"},
		Short:   "List the component ids of the registry",
		Long: `List the component ids of the registry in dir in declaration order.

--match filters ids with a glob pattern where ** crosses directories:

  avocado ls --match 'services/**'
  avocado ls --match '{libs,tools}/*'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" && !doublestar.ValidatePattern(match) {
				return issue.NewErrorContext().
					WithOperation("match components").
					WithResource(match).
					WithIssue(issue.InvalidPatternId).
					WithSuggestion("Quote the pattern so the shell does not expand it").
					Wrap(fmt.Errorf("invalid pattern %q: %w", match, doublestar.ErrBadPattern)).
					BuildError()
			}

			_, components, err := inv.loadRegistry(cmd, dirArg(args))
			if err != nil {
				return err
			}
			return writeIDs(cmd.OutOrStdout(), matching(components, match))
		},
	}

	lsCmd.Flags().StringVar(&match, "match", "", "only list ids matching a glob pattern")
	return lsCmd
}

// matching returns the components whose id matches pattern. An empty pattern
// matches everything. The pattern must already be valid.
func matching(components []*component.Component, pattern string) []*component.Component {
	if pattern == "" {
		return components
	}
	var out []*component.Component
	for _, c := range components {
		if doublestar.MatchUnvalidated(pattern, c.ID) {
			out = append(out, c)
		}
	}
	return out
}
