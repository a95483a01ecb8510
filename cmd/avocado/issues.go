// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/issue"
)

func newIssuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "issues [number]",
		Short: "Browse the error help catalog",
		Long: `List the entries of the error help catalog, or show one in full.

Every error that avocado recognizes links one of these entries. The full text
is the same help that --verbose prints below the error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listIssues(cmd.OutOrStdout())
			}
			n, err := strconv.Atoi(args[0])
			entry := issue.Get(issue.Id(n))
			if err != nil || entry == nil {
				return fmt.Errorf("unknown issue %q, run 'avocado issues' for the list", args[0])
			}
			rendered, err := entry.Render("auto")
			if err != nil {
				return fmt.Errorf("render issue %d: %w", n, err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func listIssues(w io.Writer) error {
	for _, entry := range issue.Values() {
		if _, err := fmt.Fprintf(w, "%3d  %s\n", entry.Id(), entry.Title()); err != nil {
			return err
		}
		for _, link := range append(entry.DocLinks(), entry.ExtLinks()...) {
			if _, err := fmt.Fprintf(w, "     %s\n", SubtitleStyle.Render(string(link))); err != nil {
				return err
			}
		}
	}
	return nil
}
