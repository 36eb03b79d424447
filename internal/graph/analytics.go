package graph

import (
	"github.com/vk/tfkit/internal/model"
)

// rootKinds are the kinds with external effect: they can never be unused by
// definition and seed reachability.
var rootKinds = map[model.Kind]bool{
	model.KindOutput:     true,
	model.KindResource:   true,
	model.KindDataSource: true,
	model.KindModule:     true,
	model.KindProvider:   true,
}

// DefaultRoots returns every node of a root kind, in stable order.
func (g *Graph) DefaultRoots() []model.Address {
	var roots []model.Address
	for _, n := range g.nodes {
		if rootKinds[n.Kind] {
			roots = append(roots, n.Addr)
		}
	}
	return roots
}

// ReachableFrom walks outbound edges from the given roots and returns the
// set of addresses visited, roots included.
func (g *Graph) ReachableFrom(roots []model.Address) map[model.Address]bool {
	visited := make(map[model.Address]bool)
	stack := append([]model.Address(nil), roots...)
	for len(stack) > 0 {
		addr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[addr] {
			continue
		}
		if _, ok := g.byAddr[addr]; !ok {
			continue
		}
		visited[addr] = true
		for _, e := range g.out[addr] {
			if !visited[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	return visited
}

// unusedKinds are the kinds that exist only to be referenced.
var unusedKinds = map[model.Kind]bool{
	model.KindVariable:   true,
	model.KindLocal:      true,
	model.KindDataSource: true,
}

// Unused returns variables, locals and data sources with zero inbound edges.
// Sensitive-flagged objects are exempted only when asked; by default
// sensitivity does not make an object used.
func (g *Graph) Unused(exemptSensitive bool) []*model.Node {
	var out []*model.Node
	for _, n := range g.nodes {
		if !unusedKinds[n.Kind] || n.IsPlaceholder() {
			continue
		}
		if exemptSensitive && n.Meta.Sensitive {
			continue
		}
		if len(g.in[n.Addr]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// OrphanedOutputs returns outputs whose own expression references nothing:
// dead outputs carrying only literals.
func (g *Graph) OrphanedOutputs() []*model.Node {
	var out []*model.Node
	for _, n := range g.nodes {
		if n.Kind != model.KindOutput || n.IsPlaceholder() {
			continue
		}
		if len(g.out[n.Addr]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Incomplete returns nodes with at least one resolution failure of their
// own, or with a required attribute absent per the configured table.
// Placeholders are excluded: they are syntax defects, not incomplete objects.
// Resources additionally need at least one non-meta attribute; that floor is
// part of the conservative built-in table rather than provider knowledge.
func (g *Graph) Incomplete(required map[model.Kind][]string) []*model.Node {
	var out []*model.Node
	for _, n := range g.nodes {
		if n.IsPlaceholder() {
			continue
		}
		if g.isIncomplete(n, required) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) isIncomplete(n *model.Node, required map[model.Kind][]string) bool {
	if len(g.failures[n.Addr]) > 0 {
		return true
	}
	for _, name := range required[n.Kind] {
		if _, ok := n.Attr(name); !ok {
			return true
		}
	}
	if n.Kind == model.KindResource && n.NonMetaAttrCount() == 0 && len(n.Blocks) == 0 {
		return true
	}
	return false
}
