// SPDX-License-Identifier: MPL-2.0

package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"

	"github.com/avocado-build/avocado/internal/builtins"
)

// runDirect splits command into words, expanding $VARS from env, and runs
// the resulting argv without a shell.
func (r *Registry) runDirect(ctx context.Context, env []string, command string) (string, error) {
	argv, err := shell.Fields(command, lookup(env))
	if err != nil {
		return "", &CommandFailedError{Command: command, ExitCode: -1, Err: fmt.Errorf("split command: %w", err)}
	}
	if len(argv) == 0 {
		return "", &CommandFailedError{Command: command, ExitCode: -1, Err: errors.New("empty command")}
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	cmd.Env = env
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandFailedError{Command: command, ExitCode: exitErr.ExitCode()}
		}
		return "", &CommandFailedError{Command: command, ExitCode: -1, Err: err}
	}
	return stdout.String(), nil
}

// runShell runs script in the mvdan/sh interpreter.
func (r *Registry) runShell(ctx context.Context, env []string, script string) (string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "property")
	if err != nil {
		return "", &TemplateError{Err: fmt.Errorf("parse script: %w", err)}
	}

	var stdout bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, r.stderr),
	}
	if r.dir != "" {
		opts = append(opts, interp.Dir(r.dir))
	}
	if r.builtins {
		opts = append(opts, interp.ExecHandlers(builtins.ExecHandler))
	}
	if r.trace {
		opts = append(opts, interp.Params("-x"))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", &CommandFailedError{Command: script, ExitCode: -1, Err: fmt.Errorf("create interpreter: %w", err)}
	}
	if err := runner.Run(ctx, prog); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return "", &CommandFailedError{Command: script, ExitCode: int(status)}
		}
		return "", &CommandFailedError{Command: script, ExitCode: -1, Err: err}
	}
	return stdout.String(), nil
}

// withNames fills in the property and component of errors from the runners.
func withNames(err error, property, id string) error {
	var cmdErr *CommandFailedError
	if errors.As(err, &cmdErr) {
		cmdErr.Property, cmdErr.Component = property, id
		return err
	}
	var tmplErr *TemplateError
	if errors.As(err, &tmplErr) {
		tmplErr.Property, tmplErr.Component = property, id
	}
	return err
}
