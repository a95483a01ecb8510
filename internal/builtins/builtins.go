// SPDX-License-Identifier: MPL-2.0

// Package builtins provides portable implementations of a few read-only core
// utilities for scripts run by the mvdan/sh interpreter. They come from the
// u-root project, so property scripts can hash or list files the same way on
// hosts without coreutils.
package builtins

import (
	"context"
	"fmt"
	"slices"

	"github.com/u-root/u-root/pkg/core"
	"github.com/u-root/u-root/pkg/core/base64"
	"github.com/u-root/u-root/pkg/core/cat"
	"github.com/u-root/u-root/pkg/core/find"
	"github.com/u-root/u-root/pkg/core/ls"
	"github.com/u-root/u-root/pkg/core/shasum"
	"mvdan.cc/sh/v3/interp"
)

var commands = map[string]func() core.Command{
	"base64": func() core.Command { return base64.New() },
	"cat":    func() core.Command { return cat.New() },
	"find":   func() core.Command { return find.New() },
	"ls":     func() core.Command { return ls.New() },
	"shasum": func() core.Command { return shasum.New() },
}

// Names returns the names of the built-in commands in sorted order.
func Names() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ExecHandler is an interp exec middleware that runs built-in commands
// in-process and passes everything else to next.
//
// A failing built-in writes its error to the script's stderr and exits with
// status 1, so the script decides whether to continue.
func ExecHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		newCommand, ok := commands[args[0]]
		if !ok {
			return next(ctx, args)
		}

		hc := interp.HandlerCtx(ctx)
		cmd := newCommand()
		cmd.SetIO(hc.Stdin, hc.Stdout, hc.Stderr)
		cmd.SetWorkingDir(hc.Dir)
		cmd.SetLookupEnv(func(name string) (string, bool) {
			v := hc.Env.Get(name)
			return v.Str, v.Set
		})

		if err := cmd.RunContext(ctx, args[1:]...); err != nil {
			fmt.Fprintf(hc.Stderr, "%s: %v\n", args[0], err)
			return interp.ExitStatus(1)
		}
		return nil
	}
}
