// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/core"
	"github.com/avocado-build/avocado/internal/dag"
	"github.com/avocado-build/avocado/internal/ignorefile"
	"github.com/avocado-build/avocado/internal/logging"
	"github.com/avocado-build/avocado/pkg/component"
)

type dockerignoreFlags struct {
	dir        string
	write      bool
	noInclude  bool
	transitive bool
	check      bool
}

func newDockerignoreCommand(inv *invocation) *cobra.Command {
	var flags dockerignoreFlags

	dockerignoreCmd := &cobra.Command{
		Use:   "dockerignore <id>",
		Short: "Generate a .dockerignore scoped to one component",
		Long: `Generate a .dockerignore for the registry root that excludes everything except
the component and its dependencies, so a Docker build from the root only sees
the files it needs.

The existing .dockerignore is appended after the generated block unless
--no-include is set. Running --write again replaces the generated block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDockerignore(cmd, inv, &flags, args[0])
		},
	}

	dockerignoreCmd.Flags().StringVar(&flags.dir, "dir", ".", "registry root")
	dockerignoreCmd.Flags().BoolVar(&flags.write, "write", false, "write the file instead of printing it")
	dockerignoreCmd.Flags().BoolVar(&flags.noInclude, "no-include", false, "do not append the existing .dockerignore")
	dockerignoreCmd.Flags().BoolVar(&flags.transitive, "transitive", false, "allow every transitive dependency, not only direct ones")
	dockerignoreCmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 1 if the file on disk is out of date")
	dockerignoreCmd.MarkFlagsMutuallyExclusive("write", "check")

	return dockerignoreCmd
}

func runDockerignore(cmd *cobra.Command, inv *invocation, flags *dockerignoreFlags, id string) error {
	root, components, err := inv.loadRegistry(cmd, flags.dir)
	if err != nil {
		return err
	}

	deps, err := allowedDependencies(components, id, flags.transitive)
	if err != nil {
		return describeError("generate "+ignorefile.FileName, root, err)
	}

	existing, err := ignorefile.ReadExisting(root)
	if err != nil {
		return describeError("read "+ignorefile.FileName, root, err)
	}
	included := existing
	if flags.noInclude {
		included = ""
	}
	content := ignorefile.Render(id, deps, included)
	path := filepath.Join(root, ignorefile.FileName)

	switch {
	case flags.check:
		if existing != content {
			fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render(path+" is out of date for "+id))
			return &ExitError{Code: 1}
		}
		logging.FromContext(cmd.Context()).Debug("ignore file up to date", "path", path)
		return nil
	case flags.write:
		if err := ignorefile.Write(root, content); err != nil {
			return describeError("write "+ignorefile.FileName, root, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("Wrote "+path))
		return nil
	default:
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
}

// allowedDependencies returns the dependency ids kept in the build context
// of id: its direct dependencies in declaration order, or its whole
// dependency closure in dependency-first order.
func allowedDependencies(components []*component.Component, id string, transitive bool) ([]string, error) {
	if transitive {
		deps, err := core.Dependencies(components, []string{id}, false, false)
		if err != nil {
			return nil, err
		}
		return component.IDs(deps), nil
	}

	c, ok := component.Find(components, id)
	if !ok {
		return nil, &dag.MissingComponentError{IDs: []string{id}}
	}
	return c.Dependencies, nil
}
