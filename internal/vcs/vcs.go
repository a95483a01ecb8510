// SPDX-License-Identifier: MPL-2.0

// Package vcs provides content identifiers for component directories: the
// hash of the most recent commit reachable from HEAD that touched a path.
package vcs

import (
	"context"
	"errors"
	"fmt"
)

const (
	// BackendGoGit reads history in-process with go-git.
	BackendGoGit Backend = "go-git"
	// BackendGit shells out to the git binary.
	BackendGit Backend = "git"
)

// ErrNotFound is returned when a path has no commit history.
var ErrNotFound = errors.New("no commit history")

// ErrNotRepository is returned when no repository contains the registry root.
var ErrNotRepository = errors.New("not a git repository")

// ErrInvalidBackend is the sentinel error wrapped by InvalidBackendError.
var ErrInvalidBackend = errors.New("invalid vcs backend")

type (
	// Provider returns the content identifier of path, relative to the
	// registry root, as lowercase hex.
	Provider interface {
		ContentID(ctx context.Context, root, path string) (string, error)
	}

	// Backend selects a Provider implementation.
	Backend string

	// NotFoundError is returned when path has no history in the repository at Root.
	NotFoundError struct {
		Root string
		Path string
	}

	// NotRepositoryError is returned when Root is not inside a git worktree.
	NotRepositoryError struct {
		Root string
		Err  error
	}

	// InvalidBackendError is returned when a Backend value is not recognized.
	InvalidBackendError struct {
		Value Backend
	}
)

// IsValid returns whether the Backend is one of the defined backends.
// The zero value is valid and means BackendGoGit.
func (b Backend) IsValid() (bool, []error) {
	switch b {
	case "", BackendGoGit, BackendGit:
		return true, nil
	}
	return false, []error{&InvalidBackendError{Value: b}}
}

// New returns the provider for a backend.
func New(b Backend) (Provider, error) {
	switch b {
	case "", BackendGoGit:
		return NewGoGitProvider(), nil
	case BackendGit:
		return &ExecProvider{}, nil
	}
	return nil, &InvalidBackendError{Value: b}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no commit touches %q in %s", e.Path, e.Root)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *NotRepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Root, ErrNotRepository)
}

// Unwrap returns ErrNotRepository and the backend's own error.
func (e *NotRepositoryError) Unwrap() []error { return []error{ErrNotRepository, e.Err} }

func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid vcs backend %q (valid: go-git, git)", e.Value)
}

// Unwrap returns ErrInvalidBackend for errors.Is() compatibility.
func (e *InvalidBackendError) Unwrap() error { return ErrInvalidBackend }
