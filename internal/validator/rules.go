// Package validator runs the pluggable rule engine over a published graph.
// Rules are stateless descriptors: an id, a category, a default severity and
// a predicate that reads the graph and emits issues. The engine owns
// scheduling, strict-mode escalation, ignore filtering and ordering.
package validator

import (
	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

// Rule is one validation check. Check must be a pure read of the graph; it
// runs concurrently with other rules.
type Rule struct {
	ID       string
	Category model.Category
	Severity model.Severity
	// Ignorable rules can be filtered via the ignore list. Syntax rules are
	// not: a block the parser rejected cannot be waived away.
	Ignorable   bool
	Description string
	Check       func(g *graph.Graph, opts config.Options) []model.Issue
}

// Registry is an ordered, registrable set of rules. Order is part of the
// engine's determinism contract, so registration order is preserved.
type Registry struct {
	rules []Rule
	ids   map[string]bool
}

// NewRegistry returns a registry preloaded with the built-in rule set.
func NewRegistry() *Registry {
	r := &Registry{ids: make(map[string]bool)}
	for _, rule := range builtinRules() {
		r.Register(rule)
	}
	return r
}

// Register appends a rule. A rule id already present is replaced in place so
// callers can override a built-in check.
func (r *Registry) Register(rule Rule) {
	if r.ids[rule.ID] {
		for i := range r.rules {
			if r.rules[i].ID == rule.ID {
				r.rules[i] = rule
				return
			}
		}
	}
	r.ids[rule.ID] = true
	r.rules = append(r.rules, rule)
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

func builtinRules() []Rule {
	return []Rule{
		// syntax
		{ID: "TF001", Category: model.CategorySyntax, Severity: model.SeverityError,
			Description: "block could not be parsed", Check: checkMalformedBlocks},
		{ID: "TF002", Category: model.CategorySyntax, Severity: model.SeverityError,
			Description: "module missing source", Check: checkModuleSource},
		{ID: "TF004", Category: model.CategorySyntax, Severity: model.SeverityError,
			Description: "resource has no configuration attributes", Check: checkEmptyResources},
		{ID: "TF005", Category: model.CategorySyntax, Severity: model.SeverityError,
			Description: "duplicate declaration", Check: checkDuplicates},

		// references
		{ID: "TF010", Category: model.CategoryReferences, Severity: model.SeverityError, Ignorable: true,
			Description: "reference to undeclared object", Check: checkUnresolved},
		{ID: "TF011", Category: model.CategoryReferences, Severity: model.SeverityWarning, Ignorable: true,
			Description: "output references nothing", Check: checkOrphanedOutputs},
		{ID: "TF012", Category: model.CategoryReferences, Severity: model.SeverityError, Ignorable: true,
			Description: "dependency cycle", Check: checkCycles},
		{ID: "TF013", Category: model.CategoryReferences, Severity: model.SeverityWarning, Ignorable: true,
			Description: "declared but never referenced", Check: checkUnused},
		{ID: "TF014", Category: model.CategoryReferences, Severity: model.SeverityWarning, Ignorable: true,
			Description: "object is incomplete", Check: checkIncomplete},

		// best practices
		{ID: "TF020", Category: model.CategoryBestPractice, Severity: model.SeverityWarning, Ignorable: true,
			Description: "taggable resource missing tags", Check: checkMissingTags},
		{ID: "TF021", Category: model.CategoryBestPractice, Severity: model.SeverityInfo, Ignorable: true,
			Description: "variable missing description", Check: checkVariableDescription},
		{ID: "TF022", Category: model.CategoryBestPractice, Severity: model.SeverityWarning, Ignorable: true,
			Description: "variable missing type constraint", Check: checkVariableType},
		{ID: "TF023", Category: model.CategoryBestPractice, Severity: model.SeverityInfo, Ignorable: true,
			Description: "output missing description", Check: checkOutputDescription},
		{ID: "TF024", Category: model.CategoryBestPractice, Severity: model.SeverityInfo, Ignorable: true,
			Description: "hardcoded value where a variable is idiomatic", Check: checkHardcodedValues},
		{ID: "TF040", Category: model.CategoryBestPractice, Severity: model.SeverityInfo, Ignorable: true,
			Description: "name is not snake_case", Check: checkNaming},

		// security
		{ID: "TF030", Category: model.CategorySecurity, Severity: model.SeverityWarning, Ignorable: true,
			Description: "unrestricted ingress on a sensitive port", Check: checkOpenIngress},
		{ID: "TF031", Category: model.CategorySecurity, Severity: model.SeverityError, Ignorable: true,
			Description: "storage is publicly accessible", Check: checkPublicStorage},
		{ID: "TF036", Category: model.CategorySecurity, Severity: model.SeverityError, Ignorable: true,
			Description: "database is publicly accessible", Check: checkPublicDatabase},
		{ID: "TF037", Category: model.CategorySecurity, Severity: model.SeverityWarning, Ignorable: true,
			Description: "encryption at rest not configured", Check: checkEncryption},
		{ID: "TF038", Category: model.CategorySecurity, Severity: model.SeverityError, Ignorable: true,
			Description: "hardcoded credential-looking value", Check: checkHardcodedSecrets},
	}
}
