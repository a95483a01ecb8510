// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is the sentinel error wrapped by CycleError.
	ErrCycle = errors.New("dependency cycle")
	// ErrMissingDependency is the sentinel error wrapped by MissingDependencyError.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrMissingComponent is the sentinel error wrapped by MissingComponentError.
	ErrMissingComponent = errors.New("missing component")
	// ErrDuplicateNode is the sentinel error wrapped by DuplicateNodeError.
	ErrDuplicateNode = errors.New("duplicate component")
)

type (
	// Unresolved is a node that could not be placed and the dependencies that
	// were still unplaced when sorting stopped.
	Unresolved struct {
		ID           string
		Dependencies []string
	}

	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	// It lists every node left unplaced, in input order, not only the cycle members.
	CycleError struct {
		Nodes []Unresolved
	}

	// MissingDependencyError lists ids that are referenced but not present.
	MissingDependencyError struct {
		IDs []string
	}

	// MissingComponentError lists requested root ids that are not present.
	MissingComponentError struct {
		IDs []string
	}

	// DuplicateNodeError is returned when two nodes share an id.
	DuplicateNodeError struct {
		ID string
	}
)

func newCycleError(rest []Node, placed map[string]bool) *CycleError {
	e := &CycleError{Nodes: make([]Unresolved, 0, len(rest))}
	for _, n := range rest {
		var unresolved []string
		for _, dep := range n.Dependencies {
			if !placed[dep] {
				unresolved = append(unresolved, dep)
			}
		}
		e.Nodes = append(e.Nodes, Unresolved{ID: n.ID, Dependencies: unresolved})
	}
	return e
}

// IDs returns the ids of the unplaced nodes.
func (e *CycleError) IDs() []string {
	ids := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		parts[i] = fmt.Sprintf("%s -> [%s]", n.ID, strings.Join(n.Dependencies, ", "))
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, "; "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %s", strings.Join(e.IDs, ", "))
}

// Unwrap returns ErrMissingDependency for errors.Is() compatibility.
func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("components not found: %s", strings.Join(e.IDs, ", "))
}

// Unwrap returns ErrMissingComponent for errors.Is() compatibility.
func (e *MissingComponentError) Unwrap() error { return ErrMissingComponent }

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate component id %q", e.ID)
}

// Unwrap returns ErrDuplicateNode for errors.Is() compatibility.
func (e *DuplicateNodeError) Unwrap() error { return ErrDuplicateNode }
