package depgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Edge is a directed dependency between two workspace package identities:
// From's source imports something resolvable to To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is an adjacency representation over package identities. It is built
// once from the merged scan results and is immutable afterwards.
type Graph struct {
	nodes []string
	deps  map[string][]string
}

// New builds a graph over the given identities. Duplicate edges collapse into
// one; self-edges are dropped silently. Identities with no edges remain in
// the graph as isolated nodes.
func New(identities []string, edges []Edge) *Graph {
	g := &Graph{
		nodes: make([]string, 0, len(identities)),
		deps:  make(map[string][]string, len(identities)),
	}
	known := make(map[string]bool, len(identities))
	for _, id := range identities {
		if known[id] {
			continue
		}
		known[id] = true
		g.nodes = append(g.nodes, id)
	}
	sort.Strings(g.nodes)

	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		if e.From == e.To || !known[e.From] || !known[e.To] || seen[e] {
			continue
		}
		seen[e] = true
		g.deps[e.From] = append(g.deps[e.From], e.To)
	}
	for _, ds := range g.deps {
		sort.Strings(ds)
	}
	return g
}

// Nodes returns all identities in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Deps returns the identities the given package depends on, sorted.
func (g *Graph) Deps(id string) []string {
	ds := g.deps[id]
	out := make([]string, len(ds))
	copy(out, ds)
	return out
}

// Edges returns every edge in (From, To) sorted order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, from := range g.nodes {
		for _, to := range g.deps[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// HasEdges reports whether the identity participates in any edge, in either
// direction.
func (g *Graph) HasEdges(id string) bool {
	if len(g.deps[id]) > 0 {
		return true
	}
	for _, ds := range g.deps {
		for _, to := range ds {
			if to == id {
				return true
			}
		}
	}
	return false
}

// CycleError reports a dependency cycle. Cycle lists the identities in
// traversal order, with the entry point repeated at the end.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}

// Validate runs a depth-first traversal and returns a *CycleError naming the
// full cycle if one exists. A cyclic graph must not be used downstream.
func (g *Graph) Validate() error {
	permanent := make(map[string]bool, len(g.nodes))
	temporary := make(map[string]bool, len(g.nodes))
	var stack []string

	var visit func(id string) *CycleError
	visit = func(id string) *CycleError {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			// Back-edge: slice the recursion stack from the first occurrence
			// of id to capture the cycle in order.
			for i, s := range stack {
				if s == id {
					cycle := append(append([]string{}, stack[i:]...), id)
					return &CycleError{Cycle: cycle}
				}
			}
			return &CycleError{Cycle: []string{id, id}}
		}
		temporary[id] = true
		stack = append(stack, id)
		for _, dep := range g.deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.nodes {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
