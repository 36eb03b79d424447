package graph

import (
	"sort"
	"strings"

	"github.com/vk/tfkit/internal/model"
)

// Cycles enumerates the distinct dependency cycles in the graph. Each cycle
// is reported once as its minimal node set, normalized to start at its
// smallest address; a self-referential node is a one-node cycle. Detection
// is a depth-first search with an explicit recursion stack: every back-edge
// identifies a cycle, and the search continues so multiple distinct cycles
// are all found.
func (g *Graph) Cycles() [][]model.Address {
	visited := make(map[model.Address]bool)
	onStack := make(map[model.Address]bool)
	var path []model.Address

	var cycles [][]model.Address
	seen := make(map[string]bool)

	record := func(cycle []model.Address) {
		normalized := normalizeCycle(cycle)
		key := cycleKey(normalized)
		if seen[key] {
			return
		}
		seen[key] = true
		cycles = append(cycles, normalized)
	}

	var visit func(addr model.Address)
	visit = func(addr model.Address) {
		visited[addr] = true
		onStack[addr] = true
		path = append(path, addr)

		for _, e := range g.out[addr] {
			if e.To == addr {
				record([]model.Address{addr})
				continue
			}
			if onStack[e.To] {
				// Back-edge: the cycle is the path suffix starting at the
				// target.
				for i, p := range path {
					if p == e.To {
						record(append([]model.Address(nil), path[i:]...))
						break
					}
				}
				continue
			}
			if !visited[e.To] {
				visit(e.To)
			}
		}

		path = path[:len(path)-1]
		delete(onStack, addr)
	}

	for _, n := range g.nodes {
		if !visited[n.Addr] {
			visit(n.Addr)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycleKey(cycles[i]) < cycleKey(cycles[j])
	})
	return cycles
}

// normalizeCycle rotates the cycle so it starts at its smallest address,
// keeping edge order intact.
func normalizeCycle(cycle []model.Address) []model.Address {
	if len(cycle) <= 1 {
		return cycle
	}
	minIdx := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i].Less(cycle[minIdx]) {
			minIdx = i
		}
	}
	out := make([]model.Address, 0, len(cycle))
	out = append(out, cycle[minIdx:]...)
	out = append(out, cycle[:minIdx]...)
	return out
}

func cycleKey(cycle []model.Address) string {
	parts := make([]string, len(cycle))
	for i, a := range cycle {
		parts[i] = a.String()
	}
	return strings.Join(parts, " -> ")
}
