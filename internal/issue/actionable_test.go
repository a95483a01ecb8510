// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load registry"},
			expected: "failed to load registry",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load registry",
				Resource:  "./components.json",
			},
			expected: "failed to load registry: ./components.json",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "hash components",
				Cause:     errors.New("dependency cycle detected"),
			},
			expected: "failed to hash components: dependency cycle detected",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load registry",
				Resource:  "./components.json",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load registry: ./components.json: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	errNoCause := &ActionableError{Operation: "test"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load configuration"},
			contains: []string{"failed to load configuration"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "load registry",
				Resource:    "./components.json",
				Suggestions: []string{"Run avocado from the repository root", "Check file permissions"},
			},
			contains: []string{
				"failed to load registry",
				"./components.json",
				"• Run avocado from the repository root",
				"• Check file permissions",
			},
		},
		{
			name: "error chain in verbose mode",
			err: &ActionableError{
				Operation: "parse registry",
				Cause:     errors.New("syntax error"),
			},
			verbose:  true,
			contains: []string{"failed to parse registry", "Error chain:", "1. syntax error"},
		},
		{
			name: "no error chain in non-verbose",
			err: &ActionableError{
				Operation: "parse registry",
				Cause:     errors.New("syntax error"),
			},
			contains: []string{"failed to parse registry: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "hash components",
				Cause: &ActionableError{
					Operation: "look up history",
					Cause:     errors.New("reference not found"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to look up history: reference not found",
				"2. reference not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestActionableError_CatalogEntry(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("sort components").
		WithIssue(DependencyCycleId).
		Build()
	entry := err.CatalogEntry()
	if entry == nil {
		t.Fatal("CatalogEntry() = nil, want the dependency cycle entry")
	}
	if entry.Id() != DependencyCycleId {
		t.Errorf("CatalogEntry().Id() = %d, want %d", entry.Id(), DependencyCycleId)
	}

	if got := (&ActionableError{Operation: "test"}).CatalogEntry(); got != nil {
		t.Errorf("CatalogEntry() without issue = %v, want nil", got)
	}
	if got := (&ActionableError{Operation: "test", Issue: Id(999)}).CatalogEntry(); got != nil {
		t.Errorf("CatalogEntry() with unknown issue = %v, want nil", got)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func() *ErrorContext
		wantNil    bool
		checkError func(t *testing.T, err *ActionableError)
	}{
		{
			name: "minimal with operation",
			setup: func() *ErrorContext {
				return NewErrorContext().WithOperation("test operation")
			},
			checkError: func(t *testing.T, err *ActionableError) {
				t.Helper()
				if err.Operation != "test operation" {
					t.Errorf("Operation = %q, want %q", err.Operation, "test operation")
				}
			},
		},
		{
			name: "missing operation returns nil",
			setup: func() *ErrorContext {
				return NewErrorContext().WithResource("some/path")
			},
			wantNil: true,
		},
		{
			name: "full context",
			setup: func() *ErrorContext {
				return NewErrorContext().
					WithOperation("load configuration").
					WithResource("/home/u/.config/avocado/config.cue").
					WithIssue(ConfigLoadFailedId).
					WithSuggestion("Check syntax").
					WithSuggestion("Verify permissions").
					Wrap(errors.New("parse error"))
			},
			checkError: func(t *testing.T, err *ActionableError) {
				t.Helper()
				if err.Operation != "load configuration" {
					t.Errorf("Operation = %q", err.Operation)
				}
				if err.Resource != "/home/u/.config/avocado/config.cue" {
					t.Errorf("Resource = %q", err.Resource)
				}
				if err.Issue != ConfigLoadFailedId {
					t.Errorf("Issue = %d, want %d", err.Issue, ConfigLoadFailedId)
				}
				if len(err.Suggestions) != 2 {
					t.Errorf("Suggestions count = %d, want 2", len(err.Suggestions))
				}
				if err.Cause == nil || err.Cause.Error() != "parse error" {
					t.Errorf("Cause = %v", err.Cause)
				}
			},
		},
		{
			name: "with multiple suggestions",
			setup: func() *ErrorContext {
				return NewErrorContext().
					WithOperation("annotate").
					WithSuggestion("Suggestion 1").
					WithSuggestion("Suggestion 2").
					WithSuggestion("Suggestion 3")
			},
			checkError: func(t *testing.T, err *ActionableError) {
				t.Helper()
				if len(err.Suggestions) != 3 {
					t.Errorf("Suggestions count = %d, want 3", len(err.Suggestions))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.setup().Build()
			if tt.wantNil {
				if err != nil {
					t.Errorf("Build() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Build() returned nil, want error")
			}
			if tt.checkError != nil {
				tt.checkError(t, err)
			}
		})
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("test").BuildError()
	if err == nil {
		t.Fatal("BuildError() returned nil")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Error("BuildError() should return *ActionableError")
	}

	if errNil := NewErrorContext().BuildError(); errNil != nil {
		t.Error("BuildError() should return nil when operation missing")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().
		WithOperation("hash components").
		WithResource("/repo").
		WithSuggestion("Commit the component directory")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("Reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("Reused context should preserve operation")
	}

	err3 := ctx.WithSuggestion("Fetch the full history").Build()
	if len(err1.Suggestions) != 1 || len(err3.Suggestions) != 2 {
		t.Errorf("built errors share suggestions: %q then %q", err1.Suggestions, err3.Suggestions)
	}
}
