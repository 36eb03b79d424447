package validator

import (
	"errors"
	"fmt"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

func checkMalformedBlocks(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Nodes() {
		if !n.IsPlaceholder() {
			continue
		}
		issues = append(issues, model.Issue{
			File:     n.Location.File,
			Line:     n.Location.Line,
			Resource: n.Addr.String(),
			Message:  fmt.Sprintf("block could not be parsed: %s", n.Malformed),
		})
	}
	return issues
}

func checkModuleSource(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindModule) {
		if n.IsPlaceholder() {
			continue
		}
		if _, ok := n.Attr("source"); !ok {
			issues = append(issues, model.Issue{
				File:       n.Location.File,
				Line:       n.Location.Line,
				Resource:   n.Addr.String(),
				Message:    "module has no source attribute",
				Suggestion: "set source to a registry address or local path",
			})
		}
	}
	return issues
}

func checkEmptyResources(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() {
			continue
		}
		if n.NonMetaAttrCount() == 0 && len(n.Blocks) == 0 {
			issues = append(issues, model.Issue{
				File:     n.Location.File,
				Line:     n.Location.Line,
				Resource: n.Addr.String(),
				Message:  "resource has no configuration attributes",
			})
		}
	}
	return issues
}

func checkDuplicates(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, err := range g.BuildErrors() {
		var dup *model.DuplicateDeclarationError
		if !errors.As(err, &dup) {
			continue
		}
		issues = append(issues, model.Issue{
			File:     dup.Shadowed.File,
			Line:     dup.Shadowed.Line,
			Resource: dup.Addr.String(),
			Message: fmt.Sprintf("duplicate declaration of %s, first declared at %s:%d",
				dup.Addr, dup.First.File, dup.First.Line),
			Suggestion: "remove or rename one of the declarations",
		})
	}
	return issues
}
