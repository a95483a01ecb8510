// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/avocado-build/avocado/internal/config"
	"github.com/avocado-build/avocado/internal/logging"
	"github.com/avocado-build/avocado/internal/vcs"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler reaches configuration, version control
	// and output streams through it.
	App struct {
		Config ConfigProvider
		VCS    VCSFactory
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		VCS    VCSFactory
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// VCSFactory returns the content identifier provider for a backend.
	VCSFactory func(backend vcs.Backend) (vcs.Provider, error)

	// invocation is the state of one command line run: global flags and the
	// configuration loaded for them.
	invocation struct {
		app     *App
		verbose bool
		cfgFile string

		cfg *config.Config
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.VCS == nil {
		deps.VCS = vcs.New
	}

	return &App{
		Config: deps.Config,
		VCS:    deps.VCS,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// config loads configuration once per invocation and stores the logger it
// selects in the command context. The --verbose flag and ui.verbose both
// enable debug logging.
func (inv *invocation) config(cmd *cobra.Command) (*config.Config, error) {
	if inv.cfg != nil {
		return inv.cfg, nil
	}

	cfg, err := inv.app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: inv.cfgFile})
	if err != nil {
		return nil, err
	}
	inv.cfg = cfg
	inv.verbose = inv.verbose || cfg.UI.Verbose
	cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(inv.app.stderr, inv.verbose)))
	return cfg, nil
}
