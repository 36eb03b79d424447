package validator

import (
	"fmt"
	"strings"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

func checkUnresolved(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, f := range g.AllFailures() {
		suggestion := ""
		if f.Suggestion != "" {
			suggestion = fmt.Sprintf("did you mean %q?", f.Suggestion)
		}
		issues = append(issues, model.Issue{
			File:       f.Location.File,
			Line:       f.Location.Line,
			Resource:   f.Owner.String(),
			Message:    fmt.Sprintf("reference to undeclared object %q", f.Symbol),
			Suggestion: suggestion,
		})
	}
	return issues
}

func checkOrphanedOutputs(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.OrphanedOutputs() {
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       n.Location.Line,
			Resource:   n.Addr.String(),
			Message:    "output does not reference any declared object",
			Suggestion: "reference a resource, data source, variable or local",
		})
	}
	return issues
}

// checkCycles reports one issue per cycle member so every participating
// declaration is flagged at its own location.
func checkCycles(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, cycle := range g.Cycles() {
		names := make([]string, len(cycle))
		for i, addr := range cycle {
			names[i] = addr.String()
		}
		rendered := strings.Join(names, " -> ")
		for _, addr := range cycle {
			n, ok := g.Node(addr)
			if !ok {
				continue
			}
			issues = append(issues, model.Issue{
				File:     n.Location.File,
				Line:     n.Location.Line,
				Resource: n.Addr.String(),
				Message:  fmt.Sprintf("dependency cycle: %s", rendered),
			})
		}
	}
	return issues
}

func checkUnused(g *graph.Graph, opts config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Unused(opts.ExemptSensitiveFromUnused) {
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       n.Location.Line,
			Resource:   n.Addr.String(),
			Message:    fmt.Sprintf("%s is declared but never referenced", n.Addr),
			Suggestion: "remove the declaration or reference it",
		})
	}
	return issues
}

func checkIncomplete(g *graph.Graph, opts config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Incomplete(opts.RequiredAttributes) {
		issues = append(issues, model.Issue{
			File:     n.Location.File,
			Line:     n.Location.Line,
			Resource: n.Addr.String(),
			Message:  incompleteReason(g, n, opts.RequiredAttributes),
		})
	}
	return issues
}

func incompleteReason(g *graph.Graph, n *model.Node, required map[model.Kind][]string) string {
	var missing []string
	for _, name := range required[n.Kind] {
		if _, ok := n.Attr(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Sprintf("missing required attribute %s", strings.Join(missing, ", "))
	}
	if len(g.Failures(n.Addr)) > 0 {
		return "configuration contains unresolved references"
	}
	return "declaration has no configuration"
}
