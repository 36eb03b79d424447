package report

import (
	"fmt"
	"strings"

	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

// Dot renders the dependency graph in Graphviz DOT form. Explicit
// depends_on edges are drawn dashed so they read differently from edges
// discovered in expressions.
func Dot(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	for _, n := range g.Nodes() {
		attrs := ""
		if n.IsPlaceholder() {
			attrs = ", color=red"
		}
		fmt.Fprintf(&b, "  %q [label=%q%s];\n", n.Addr.String(), n.Addr.String(), attrs)
	}
	for _, e := range g.Edges() {
		style := ""
		switch e.Via {
		case model.ViaDependsOn:
			style = " [style=dashed]"
		case model.ViaMeta:
			style = " [style=dotted]"
		}
		fmt.Fprintf(&b, "  %q -> %q%s;\n", e.From.String(), e.To.String(), style)
	}
	b.WriteString("}\n")
	return b.String()
}
