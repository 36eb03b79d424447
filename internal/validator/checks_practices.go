package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

// taggableTypes are resource types where a missing tags map is a real
// operational gap, not just style.
var taggableTypes = map[string]bool{
	"aws_instance":            true,
	"aws_vpc":                 true,
	"aws_subnet":              true,
	"aws_security_group":      true,
	"aws_s3_bucket":           true,
	"aws_db_instance":         true,
	"aws_lambda_function":     true,
	"aws_ebs_volume":          true,
	"aws_eks_cluster":         true,
	"azurerm_virtual_machine": true,
	"google_compute_instance": true,
}

func checkMissingTags(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() || !taggableTypes[n.Addr.Type] {
			continue
		}
		if _, ok := n.Attr("tags"); ok {
			continue
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       n.Location.Line,
			Resource:   n.Addr.String(),
			Message:    fmt.Sprintf("%s has no tags", n.Addr),
			Suggestion: "add a tags map for cost allocation and ownership",
		})
	}
	return issues
}

func checkVariableDescription(g *graph.Graph, _ config.Options) []model.Issue {
	return checkMissingAttr(g, model.KindVariable, "description",
		"variable has no description", "document what the variable controls")
}

func checkVariableType(g *graph.Graph, _ config.Options) []model.Issue {
	return checkMissingAttr(g, model.KindVariable, "type",
		"variable has no type constraint", "declare an explicit type")
}

func checkOutputDescription(g *graph.Graph, _ config.Options) []model.Issue {
	return checkMissingAttr(g, model.KindOutput, "description",
		"output has no description", "document what the output exposes")
}

func checkMissingAttr(g *graph.Graph, kind model.Kind, attr, message, suggestion string) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(kind) {
		if n.IsPlaceholder() {
			continue
		}
		if _, ok := n.Attr(attr); ok {
			continue
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       n.Location.Line,
			Resource:   n.Addr.String(),
			Message:    message,
			Suggestion: suggestion,
		})
	}
	return issues
}

// environmentAttrs are attribute names whose values customarily come from
// variables rather than literals baked into resource blocks.
var environmentAttrs = map[string]bool{
	"region":            true,
	"availability_zone": true,
	"zone":              true,
	"ami":               true,
	"account_id":        true,
}

func checkHardcodedValues(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Nodes() {
		if n.IsPlaceholder() {
			continue
		}
		if n.Kind != model.KindResource && n.Kind != model.KindProvider {
			continue
		}
		for _, a := range n.Attrs {
			if !environmentAttrs[a.Name] {
				continue
			}
			if _, ok := literalString(a); !ok {
				continue
			}
			issues = append(issues, model.Issue{
				File:       n.Location.File,
				Line:       a.Line,
				Resource:   n.Addr.String(),
				Message:    fmt.Sprintf("%s is hardcoded", a.Name),
				Suggestion: fmt.Sprintf("read %s from a variable", a.Name),
			})
		}
	}
	return issues
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// namedKinds are kinds whose user-chosen name participates in addresses and
// so benefits from a consistent convention.
var namedKinds = map[model.Kind]bool{
	model.KindResource:   true,
	model.KindDataSource: true,
	model.KindVariable:   true,
	model.KindOutput:     true,
	model.KindLocal:      true,
	model.KindModule:     true,
}

func checkNaming(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Nodes() {
		if n.IsPlaceholder() || !namedKinds[n.Kind] {
			continue
		}
		if snakeCase.MatchString(n.Addr.Name) {
			continue
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       n.Location.Line,
			Resource:   n.Addr.String(),
			Message:    fmt.Sprintf("name %q is not snake_case", n.Addr.Name),
			Suggestion: "use lowercase letters, digits and underscores",
		})
	}
	return issues
}

// literalString extracts the unquoted value of an attribute whose expression
// is a plain quoted literal with no interpolation and no references.
func literalString(a model.RawAttr) (string, bool) {
	if len(a.Symbols) > 0 {
		return "", false
	}
	expr := strings.TrimSpace(a.Expr)
	if len(expr) < 2 || expr[0] != '"' || expr[len(expr)-1] != '"' {
		return "", false
	}
	if strings.Contains(expr, "${") {
		return "", false
	}
	return expr[1 : len(expr)-1], true
}

// literalBool reads an attribute whose expression is a bare true/false.
func literalBool(a model.RawAttr) (bool, bool) {
	switch strings.TrimSpace(a.Expr) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
