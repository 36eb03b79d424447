package loader

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// formatTraversal renders an hcl.Traversal in the textual form the resolver's
// symbol grammar understands, e.g. `aws_instance.web[0].id` or `var.region`.
func formatTraversal(t hcl.Traversal) string {
	var sb strings.Builder
	for _, part := range t {
		switch p := part.(type) {
		case hcl.TraverseRoot:
			sb.WriteString(p.Name)
		case hcl.TraverseAttr:
			sb.WriteRune('.')
			sb.WriteString(p.Name)
		case hcl.TraverseIndex:
			sb.WriteRune('[')
			switch {
			case p.Key.Type() == cty.String:
				sb.WriteString(fmt.Sprintf("%q", p.Key.AsString()))
			case p.Key.Type() == cty.Number:
				bf := p.Key.AsBigFloat()
				sb.WriteString(bf.Text('f', -1))
			default:
				sb.WriteString("...")
			}
			sb.WriteRune(']')
		}
	}
	return sb.String()
}

// dependsOnEntries renders each element of a depends_on list. Elements that
// are not simple traversals keep their variable references instead, so a
// malformed entry still yields something the resolver can report on.
func dependsOnEntries(expr hcl.Expression) []string {
	var entries []string

	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		for _, traversal := range expr.Variables() {
			entries = append(entries, formatTraversal(traversal))
		}
		return entries
	}

	for _, item := range items {
		if traversal, diags := hcl.AbsTraversalForExpr(item); !diags.HasErrors() {
			entries = append(entries, formatTraversal(traversal))
			continue
		}
		for _, traversal := range item.Variables() {
			entries = append(entries, formatTraversal(traversal))
		}
	}
	return entries
}
