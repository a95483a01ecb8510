// SPDX-License-Identifier: MPL-2.0

package core

import (
	"context"

	"github.com/avocado-build/avocado/internal/dag"
	"github.com/avocado-build/avocado/internal/logging"
	"github.com/avocado-build/avocado/internal/treehash"
	"github.com/avocado-build/avocado/internal/vcs"
	"github.com/avocado-build/avocado/pkg/component"
)

type (
	// Annotator computes extra properties for a component whose hash fields
	// are already set.
	Annotator interface {
		Annotate(ctx context.Context, c *component.Component) ([]component.Property, error)
	}

	// HashOptions configures Hash.
	HashOptions struct {
		// Provider supplies content identifiers. Required.
		Provider vcs.Provider
		// Root is the registry root that component ids are relative to.
		Root string
		// Annotator, if set, runs for each component right after it is hashed.
		Annotator Annotator
		// RemoveDependencies empties each component's dependency list on output.
		RemoveDependencies bool
		// Jobs bounds concurrent content identifier lookups.
		Jobs int
		// IDWidth is the content identifier width in bytes; zero means SHA-1.
		IDWidth int
	}

	// vcsSource binds a provider to a registry root.
	vcsSource struct {
		provider vcs.Provider
		root     string
	}
)

func (s vcsSource) ContentID(ctx context.Context, id string) (string, error) {
	return s.provider.ContentID(ctx, s.root, id)
}

// NewGraph builds the dependency graph of components.
func NewGraph(components []*component.Component) (*dag.Graph, error) {
	nodes := make([]dag.Node, len(components))
	for i, c := range components {
		nodes[i] = dag.Node{ID: c.ID, Dependencies: c.Dependencies}
	}
	return dag.New(nodes)
}

// Sort returns copies of components in dependency-first order.
func Sort(components []*component.Component) ([]*component.Component, error) {
	g, err := NewGraph(components)
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	return pick(components, order), nil
}

// Hash returns copies of components in dependency-first order with their
// commit and tree hash fields set.
func Hash(ctx context.Context, components []*component.Component, opts HashOptions) ([]*component.Component, error) {
	g, err := NewGraph(components)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	hopts := []treehash.Option{treehash.WithJobs(opts.Jobs), treehash.WithLogger(logger)}
	if opts.IDWidth != 0 {
		hopts = append(hopts, treehash.WithIDWidth(opts.IDWidth))
	}
	hasher := treehash.NewHasher(vcsSource{provider: opts.Provider, root: opts.Root}, hopts...)

	byID := index(components)
	out := make([]*component.Component, 0, len(components))
	_, err = hasher.Hash(ctx, g, func(r treehash.Result) error {
		c := byID[r.ID].Clone()
		c.SetHashes(r.ContentID, r.Digest.String())
		if opts.RemoveDependencies {
			c.Dependencies = nil
		}
		logger.Info("hashed component", "component", c.ID, "commit", c.CommitSHAShort, "tree", c.TreeSHAShort, "depth", r.Depth)

		if opts.Annotator != nil {
			props, err := opts.Annotator.Annotate(ctx, c)
			if err != nil {
				return err
			}
			c.Extra.Merge(props)
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dependencies returns copies of the transitive dependencies of roots, in
// dependency-first order, or consumer-first with orderReversed.
func Dependencies(components []*component.Component, roots []string, includeRoots, orderReversed bool) ([]*component.Component, error) {
	g, err := NewGraph(components)
	if err != nil {
		return nil, err
	}
	ids, err := g.DependenciesOf(roots, includeRoots, orderReversed)
	if err != nil {
		return nil, err
	}
	return pick(components, ids), nil
}

// Dependents returns copies of every component that transitively depends on
// one of roots, in dependency-first order.
func Dependents(components []*component.Component, roots []string, includeRoots bool) ([]*component.Component, error) {
	g, err := NewGraph(components)
	if err != nil {
		return nil, err
	}
	ids, err := g.DependentsOf(roots, includeRoots)
	if err != nil {
		return nil, err
	}
	return pick(components, ids), nil
}

func index(components []*component.Component) map[string]*component.Component {
	m := make(map[string]*component.Component, len(components))
	for _, c := range components {
		m[c.ID] = c
	}
	return m
}

func pick(components []*component.Component, ids []string) []*component.Component {
	byID := index(components)
	out := make([]*component.Component, len(ids))
	for i, id := range ids {
		out[i] = byID[id].Clone()
	}
	return out
}
