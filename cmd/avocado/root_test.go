// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/avocado-build/avocado/internal/annotate"
	"github.com/avocado-build/avocado/internal/dag"
	"github.com/avocado-build/avocado/internal/issue"
	"github.com/avocado-build/avocado/internal/treehash"
	"github.com/avocado-build/avocado/internal/vcs"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestDescribeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"cycle", &dag.CycleError{Nodes: []dag.Unresolved{{ID: "a", Dependencies: []string{"a"}}}}, issue.DependencyCycleId},
		{"missing dependency", &dag.MissingDependencyError{IDs: []string{"x"}}, issue.MissingDependencyId},
		{"unknown root", &dag.MissingComponentError{IDs: []string{"x"}}, issue.ComponentNotFoundId},
		{"not a repository", &vcs.NotRepositoryError{Root: "/tmp"}, issue.NotARepositoryId},
		{"no history", &treehash.ContentLookupError{ID: "a", Err: &vcs.NotFoundError{Path: "a"}}, issue.ContentLookupFailedId},
		{"command failed", &annotate.CommandFailedError{Property: "p", Command: "false", ExitCode: 1}, issue.PropertyCommandFailedId},
		{"missing file", fmt.Errorf("read registry: %w", fs.ErrNotExist), issue.RegistryNotFoundId},
		{"unknown", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := describeError("do thing", "/repo", tt.err)
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("describeError() = %T, want *issue.ActionableError", err)
			}
			if ae.Issue != tt.want {
				t.Errorf("Issue = %d, want %d", ae.Issue, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Error("describeError() should wrap the cause")
			}
			if tt.want != 0 && len(ae.Suggestions) == 0 {
				t.Error("known errors should carry a suggestion")
			}
		})
	}
}

func TestDescribeError_KeepsActionable(t *testing.T) {
	t.Parallel()

	inner := issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("bad")).BuildError()
	if got := describeError("load registry", "", inner); got != inner {
		t.Errorf("describeError() rewrapped an actionable error: %v", got)
	}
	if describeError("x", "", nil) != nil {
		t.Error("describeError(nil) should be nil")
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	err := describeError("sort components", "/repo", &dag.CycleError{Nodes: []dag.Unresolved{{ID: "a", Dependencies: []string{"b"}}}})

	var buf bytes.Buffer
	renderError(&buf, err, false)
	out := buf.String()
	for _, want := range []string{
		"failed to sort components: /repo: dependency cycle detected: a -> [b]",
		"Remove one dependency edge from each listed cycle",
		"Run again with --verbose for detailed help.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("renderError() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Error chain:") {
		t.Error("non-verbose output should not include the error chain")
	}
}

func TestRenderError_SilentExit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderError(&buf, &ExitError{Code: 1}, true)
	if buf.Len() != 0 {
		t.Errorf("renderError() printed %q for a silent exit", buf.String())
	}

	renderError(&buf, errors.New("plain failure"), false)
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("renderError() output = %q", buf.String())
	}
}

func TestParsePropertyFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		wantName string
		wantTmpl string
		wantErr  string
	}{
		{value: "image=echo {{.dir}}", wantName: "image", wantTmpl: "echo {{.dir}}"},
		{value: " tag =echo a=b", wantName: "tag", wantTmpl: "echo a=b"},
		{value: "image", wantErr: "expected name=template"},
		{value: "=echo", wantErr: "must not be empty"},
		{value: "tree_sha=echo", wantErr: "reserved"},
		{value: "image=  ", wantErr: "template must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			name, tmpl, err := parsePropertyFlag(tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parsePropertyFlag(%q) error = %v, want %q", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePropertyFlag(%q) error: %v", tt.value, err)
			}
			if name != tt.wantName || tmpl != tt.wantTmpl {
				t.Errorf("parsePropertyFlag(%q) = (%q, %q), want (%q, %q)", tt.value, name, tmpl, tt.wantName, tt.wantTmpl)
			}
		})
	}
}
