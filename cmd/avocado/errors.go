// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io/fs"

	"github.com/avocado-build/avocado/internal/annotate"
	"github.com/avocado-build/avocado/internal/dag"
	"github.com/avocado-build/avocado/internal/issue"
	"github.com/avocado-build/avocado/internal/treehash"
	"github.com/avocado-build/avocado/internal/vcs"
	"github.com/avocado-build/avocado/pkg/component"
)

// errorKind maps a sentinel to its catalog entry and a one-line hint.
// Order matters: the first match wins, so specific causes come before the
// errors that wrap them.
type errorKind struct {
	sentinel   error
	issue      issue.Id
	suggestion string
}

var errorKinds = []errorKind{
	{dag.ErrCycle, issue.DependencyCycleId, "Remove one dependency edge from each listed cycle"},
	{dag.ErrMissingDependency, issue.MissingDependencyId, "Declare the missing components or fix the dependency ids"},
	{dag.ErrMissingComponent, issue.ComponentNotFoundId, "Run 'avocado ls' to list the declared component ids"},
	{dag.ErrDuplicateNode, issue.DuplicateComponentId, "Give every registry entry a unique dir"},
	{component.ErrMalformedRegistry, issue.RegistryParseErrorId, "Fix the registry entry at the reported path"},
	{vcs.ErrNotRepository, issue.NotARepositoryId, "Run avocado inside a git checkout"},
	{vcs.ErrNotFound, issue.ContentLookupFailedId, "Commit the component directory before hashing"},
	{treehash.ErrContentLookup, issue.ContentLookupFailedId, "Check that the repository history is available"},
	{treehash.ErrDecode, issue.ContentLookupFailedId, "Check vcs.object_format matches the repository"},
	{annotate.ErrCommandFailed, issue.PropertyCommandFailedId, "Run the property command by hand from the registry root"},
	{annotate.ErrTemplate, issue.PropertyTemplateErrorId, "Check the property template against the component fields"},
	{annotate.ErrDuplicateProperty, issue.PropertyTemplateErrorId, "Give every property a unique name"},
	{fs.ErrNotExist, issue.RegistryNotFoundId, "Pass the repository root as the directory argument"},
}

// describeError wraps err as an ActionableError for operation on resource,
// linking the catalog entry of the first known cause. Errors that are already
// actionable are returned unchanged.
func describeError(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource)
	for _, kind := range errorKinds {
		if errors.Is(err, kind.sentinel) {
			ctx = ctx.WithIssue(kind.issue).WithSuggestion(kind.suggestion)
			break
		}
	}
	return ctx.Wrap(err).BuildError()
}
