// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecProvider runs `git log` for every lookup.
type ExecProvider struct {
	// Git is the git binary; empty means "git" from PATH.
	Git string
}

// ContentID implements Provider.
func (p *ExecProvider) ContentID(ctx context.Context, root, path string) (string, error) {
	bin := p.Git
	if bin == "" {
		bin = "git"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-C", root, "log", "-1", "--pretty=format:%H", "--", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if strings.Contains(msg, "not a git repository") {
				return "", &NotRepositoryError{Root: root, Err: errors.New(msg)}
			}
			return "", fmt.Errorf("git log exited with code %d: %s", exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("run git: %w", err)
	}

	id := strings.TrimSpace(stdout.String())
	if id == "" {
		return "", &NotFoundError{Root: root, Path: path}
	}
	return id, nil
}
