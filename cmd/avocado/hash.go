// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/annotate"
	"github.com/avocado-build/avocado/internal/builtins"
	"github.com/avocado-build/avocado/internal/config"
	"github.com/avocado-build/avocado/internal/core"
	"github.com/avocado-build/avocado/internal/logging"
	"github.com/avocado-build/avocado/pkg/component"
)

type hashFlags struct {
	output             outputFlags
	removeDependencies bool
	properties         []string
	shellProperties    []string
	jobs               int
	builtins           bool
	trace              bool
}

func newHashCommand(inv *invocation) *cobra.Command {
	var flags hashFlags

	hashCmd := &cobra.Command{
		Use:   "hash [dir]",
		Short: "Compute commit and tree hashes for every component",
		Long: `Compute commit and tree hashes for every component of the registry in dir.

The commit hash is the last commit that touched the component's directory. The
tree hash also covers the tree hashes of every dependency, so it changes when
the component or anything it depends on changes. Components are printed in
dependency-first order.

Properties add fields computed by commands. The command is a Go template
rendered against the component, run after its hashes are known:

  avocado hash --property image='echo registry.local/{{.dir}}:{{.tree_sha_short}}'
  avocado hash --shell-property files='find . -type f | wc -l'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd, inv, &flags, dirArg(args))
		},
	}

	flags.output.register(hashCmd)
	hashCmd.Flags().BoolVar(&flags.removeDependencies, "remove-dependencies", false, "omit dependency lists from the output")
	hashCmd.Flags().StringArrayVar(&flags.properties, "property", nil, "add a property computed by a command (name=template)")
	hashCmd.Flags().StringArrayVar(&flags.shellProperties, "shell-property", nil, "add a property computed by a shell script (name=template)")
	hashCmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 1, "concurrent history lookups")
	hashCmd.Flags().BoolVar(&flags.builtins, "builtins", false, "run "+strings.Join(builtins.Names(), ", ")+" in-process for shell properties")
	hashCmd.Flags().BoolVar(&flags.trace, "trace", false, "print shell property commands as they run")

	return hashCmd
}

func runHash(cmd *cobra.Command, inv *invocation, flags *hashFlags, dir string) error {
	root, components, err := inv.loadRegistry(cmd, dir)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := inv.cfg

	provider, err := inv.app.VCS(cfg.VCS.Backend)
	if err != nil {
		return describeError("open version control", root, err)
	}

	opts := core.HashOptions{
		Provider:           provider,
		Root:               root,
		RemoveDependencies: cfg.Hash.RemoveDependencies,
		Jobs:               cfg.Hash.Jobs,
		IDWidth:            cfg.VCS.ObjectFormat.IDWidth(),
	}
	if cmd.Flags().Changed("remove-dependencies") {
		opts.RemoveDependencies = flags.removeDependencies
	}
	if cmd.Flags().Changed("jobs") {
		if flags.jobs < 1 || flags.jobs > config.MaxJobs {
			return &config.InvalidJobsError{Value: flags.jobs}
		}
		opts.Jobs = flags.jobs
	}

	useBuiltins := cfg.Hash.Builtins
	if cmd.Flags().Changed("builtins") {
		useBuiltins = flags.builtins
	}
	registry := annotate.NewRegistry(
		annotate.WithDir(root),
		annotate.WithStderr(cmd.ErrOrStderr()),
		annotate.WithBuiltins(useBuiltins),
		annotate.WithTrace(flags.trace),
		annotate.WithLogger(logging.FromContext(ctx)),
	)
	defs, err := propertyDefinitions(cfg, flags)
	if err != nil {
		return err
	}
	if err := registry.AddAll(defs); err != nil {
		return describeError("configure properties", "", err)
	}
	if registry.Len() > 0 {
		opts.Annotator = registry
	}

	hashed, err := core.Hash(ctx, components, opts)
	if err != nil {
		return describeError("hash components", root, err)
	}
	return flags.output.write(cmd, cfg, hashed)
}

// propertyDefinitions returns the configured properties followed by the
// ones given on the command line.
func propertyDefinitions(cfg *config.Config, flags *hashFlags) ([]annotate.Definition, error) {
	defs := cfg.Definitions()
	for _, group := range []struct {
		values []string
		shell  bool
	}{
		{flags.properties, false},
		{flags.shellProperties, true},
	} {
		for _, value := range group.values {
			name, tmpl, err := parsePropertyFlag(value)
			if err != nil {
				return nil, err
			}
			defs = append(defs, annotate.Definition{Name: name, Template: tmpl, Shell: group.shell})
		}
	}
	return defs, nil
}

// parsePropertyFlag splits name=template at the first '='.
func parsePropertyFlag(value string) (string, string, error) {
	name, tmpl, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	switch {
	case !ok:
		return "", "", fmt.Errorf("property %q: expected name=template", value)
	case name == "":
		return "", "", errors.New("property name must not be empty")
	case component.IsKnownKey(name):
		return "", "", fmt.Errorf("property %q: name is reserved", name)
	case strings.TrimSpace(tmpl) == "":
		return "", "", fmt.Errorf("property %q: template must not be empty", name)
	}
	return name, tmpl, nil
}
