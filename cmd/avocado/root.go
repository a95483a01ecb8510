// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for avocado.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the avocado command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	inv := &invocation{app: app}

	rootCmd := &cobra.Command{
		Use:   "avocado",
		Short: "Dependency graph and content hashes for monorepo components",
		Long: TitleStyle.Render("avocado") + SubtitleStyle.Render(" - dependency graph and content hashes for monorepo components") + `

avocado reads the component registry (components.json) at the root of a
repository, orders components so dependencies come first, and computes a
tree hash for every component that changes whenever the component or anything
it depends on changes.

` + SubtitleStyle.Render("Examples:") + `
  avocado hash -p                   Hash every component
  avocado sort --ids                Print component ids in build order
  avocado deps svc/api              What svc/api needs
  avocado dependents lib/core       What is affected by lib/core
  avocado dockerignore svc/api      Scope a Docker build context`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&inv.verbose, "verbose", "v", false, "enable debug logging and detailed error help")
	rootCmd.PersistentFlags().StringVar(&inv.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/avocado/config.cue)")

	rootCmd.AddCommand(
		newHashCommand(inv),
		newSortCommand(inv),
		newDepsCommand(inv),
		newDependentsCommand(inv),
		newListCommand(inv),
		newDockerignoreCommand(inv),
		newConfigCommand(inv),
		newIssuesCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command line. It is called
// by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, verboseFlag(rootCmd))
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// verboseFlag reads --verbose after parsing. ui.verbose from the config file
// does not apply to error rendering.
func verboseFlag(cmd *cobra.Command) bool {
	v, err := cmd.PersistentFlags().GetBool("verbose")
	return err == nil && v
}

// renderError prints an error for the user. Actionable errors list their
// suggestions; in verbose mode the full chain and the catalog help follow.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	entry := ae.CatalogEntry()
	if entry == nil {
		return
	}
	if !verbose {
		fmt.Fprintln(w, SubtitleStyle.Render("Run again with --verbose for detailed help."))
		return
	}
	if rendered, renderErr := entry.Render("auto"); renderErr == nil {
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
