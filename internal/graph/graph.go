// Package graph owns the node and edge sets produced by one scan and runs
// the read-only analytics over them: reachability, unused/orphan/incomplete
// classification, cycle enumeration and health scoring. A graph is built
// fresh per scan and never mutated after publication; consumers get copies.
package graph

import (
	"sort"

	"github.com/vk/tfkit/internal/model"
)

// Graph is the published dependency graph. All methods are pure reads;
// running any of them twice yields identical results.
type Graph struct {
	byAddr map[model.Address]*model.Node
	nodes  []*model.Node
	edges  []model.Edge

	out map[model.Address][]model.Edge
	in  map[model.Address][]model.Edge

	failures    map[model.Address][]*model.ResolutionFailure
	buildErrors []error
}

// New publishes a graph from the builder's node set and the resolver's
// edges and failures. Duplicate (from, to) pairs collapse; the first edge
// between a pair wins, so depends_on tags survive when the same dependency is
// also implied by an expression.
func New(nodes []*model.Node, edges []model.Edge, failures map[model.Address][]*model.ResolutionFailure, buildErrors []error) *Graph {
	g := &Graph{
		byAddr:      make(map[model.Address]*model.Node, len(nodes)),
		nodes:       append([]*model.Node(nil), nodes...),
		out:         make(map[model.Address][]model.Edge),
		in:          make(map[model.Address][]model.Edge),
		failures:    failures,
		buildErrors: buildErrors,
	}
	if g.failures == nil {
		g.failures = map[model.Address][]*model.ResolutionFailure{}
	}

	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i].Addr.Less(g.nodes[j].Addr) })
	for _, n := range g.nodes {
		g.byAddr[n.Addr] = n
	}

	seen := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		key := [2]string{e.From.String(), e.To.String()}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.edges = append(g.edges, e)
		g.out[e.From] = append(g.out[e.From], e)
		g.in[e.To] = append(g.in[e.To], e)
	}
	return g
}

// Node looks up one node by identity.
func (g *Graph) Node(addr model.Address) (*model.Node, bool) {
	n, ok := g.byAddr[addr]
	return n, ok
}

// Nodes returns all nodes in stable address order.
func (g *Graph) Nodes() []*model.Node {
	return append([]*model.Node(nil), g.nodes...)
}

// NodesOfKind returns all nodes of one kind in stable address order.
func (g *Graph) NodesOfKind(kind model.Kind) []*model.Node {
	var out []*model.Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the collapsed edge set.
func (g *Graph) Edges() []model.Edge {
	return append([]model.Edge(nil), g.edges...)
}

// Outbound returns the edges leaving a node, in discovery order.
func (g *Graph) Outbound(addr model.Address) []model.Edge {
	return append([]model.Edge(nil), g.out[addr]...)
}

// Inbound returns the edges arriving at a node, in discovery order.
func (g *Graph) Inbound(addr model.Address) []model.Edge {
	return append([]model.Edge(nil), g.in[addr]...)
}

// Failures returns the resolution failures recorded against one node.
func (g *Graph) Failures(addr model.Address) []*model.ResolutionFailure {
	return append([]*model.ResolutionFailure(nil), g.failures[addr]...)
}

// AllFailures returns every resolution failure, ordered by owner then
// location.
func (g *Graph) AllFailures() []*model.ResolutionFailure {
	var out []*model.ResolutionFailure
	for _, fs := range g.failures {
		out = append(out, fs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner.Less(out[j].Owner)
		}
		if out[i].Location.Line != out[j].Location.Line {
			return out[i].Location.Line < out[j].Location.Line
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// BuildErrors returns the non-fatal defects the builder recorded
// (duplicates, malformed blocks).
func (g *Graph) BuildErrors() []error {
	return append([]error(nil), g.buildErrors...)
}
