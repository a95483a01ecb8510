// SPDX-License-Identifier: MPL-2.0

// Package dag holds the component dependency graph: dependency-first ordering
// with cycle diagnosis and the forward and reverse transitive-closure queries.
// A Graph is built once per invocation and never mutated afterwards.
package dag

import (
	"slices"
)

type (
	// Node is one vertex of the graph with the ids it depends on.
	// Duplicate dependency ids are collapsed.
	Node struct {
		ID           string
		Dependencies []string
	}

	// Graph is an immutable dependency graph. Edges point from a node to the
	// nodes it requires, so dependency-first order places the pointee first.
	Graph struct {
		// nodes keeps input order; deps of each node are sorted and unique.
		nodes []Node
		// index maps an id to its position in nodes.
		index map[string]int
	}
)

// New validates nodes and builds a Graph. Ids must be unique and every
// referenced dependency must be one of the nodes.
func New(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			return nil, &DuplicateNodeError{ID: n.ID}
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, Node{ID: n.ID, Dependencies: sortedSet(n.Dependencies)})
	}

	var missing []string
	for _, n := range g.nodes {
		for _, dep := range n.Dependencies {
			if _, ok := g.index[dep]; !ok {
				missing = append(missing, dep)
			}
		}
	}
	if len(missing) > 0 {
		return nil, &MissingDependencyError{IDs: sortedSet(missing)}
	}
	return g, nil
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Dependencies returns the direct dependencies of id, sorted by id.
// It returns nil for an unknown id.
func (g *Graph) Dependencies(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(g.nodes[i].Dependencies)
}

// TopologicalSort returns every id in dependency-first order.
//
// Nodes are placed in passes over the not-yet-placed nodes in input order. A
// node is placed once all of its dependencies are, which includes nodes placed
// earlier in the same pass. A pass that places nothing means the remaining
// nodes are on or behind a cycle, and a CycleError reports every one of them.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	placed := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	pending := slices.Clone(g.nodes)

	for len(pending) > 0 {
		rest := pending[:0]
		for _, n := range pending {
			if allPlaced(n.Dependencies, placed) {
				order = append(order, n.ID)
				placed[n.ID] = true
				continue
			}
			rest = append(rest, n)
		}
		if len(rest) == len(pending) {
			return nil, newCycleError(rest, placed)
		}
		pending = rest
	}
	return order, nil
}

// DependenciesOf returns the transitive dependencies of roots.
//
// The result is in dependency-first order, or consumer-first when
// orderReversed is set. Roots are part of the result only with includeRoots.
// A root that is not in the graph yields a MissingDependencyError.
func (g *Graph) DependenciesOf(roots []string, includeRoots, orderReversed bool) ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	isRoot := toSet(roots)
	needed := toSet(roots)
	var result []string
	for i := len(order) - 1; i >= 0 && len(needed) > 0; i-- {
		id := order[i]
		if !needed[id] {
			continue
		}
		delete(needed, id)
		for _, dep := range g.nodes[g.index[id]].Dependencies {
			needed[dep] = true
		}
		if includeRoots || !isRoot[id] {
			result = append(result, id)
		}
	}

	if len(needed) > 0 {
		return nil, &MissingDependencyError{IDs: sortedKeys(needed)}
	}
	if !orderReversed {
		slices.Reverse(result)
	}
	return result, nil
}

// DependentsOf returns every node that transitively depends on one of roots,
// in dependency-first order.
//
// With includeRoots, a root is also emitted at its own position. A root that
// depends on another root is emitted either way because it is a dependent.
// Roots that are not in the graph yield a MissingComponentError.
func (g *Graph) DependentsOf(roots []string, includeRoots bool) ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	isRoot := toSet(roots)
	var missing []string
	for id := range isRoot {
		if !g.Has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &MissingComponentError{IDs: missing}
	}

	seen := toSet(roots)
	var result []string
	for _, id := range order {
		if slices.ContainsFunc(g.nodes[g.index[id]].Dependencies, func(dep string) bool { return seen[dep] }) {
			seen[id] = true
			result = append(result, id)
		} else if includeRoots && isRoot[id] {
			result = append(result, id)
		}
	}
	return result, nil
}

func allPlaced(deps []string, placed map[string]bool) bool {
	for _, dep := range deps {
		if !placed[dep] {
			return false
		}
	}
	return true
}

func sortedSet(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
