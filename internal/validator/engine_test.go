package validator

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfkit/internal/builder"
	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/loader"
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/resolver"
)

func graphFromSource(t *testing.T, src string) *graph.Graph {
	t.Helper()
	ctx := context.Background()
	raw := loader.ParseSource(ctx, "main.tf", []byte(src))
	built, err := builder.Build(ctx, []model.RawFile{raw})
	require.NoError(t, err)
	resolved := resolver.Resolve(ctx, built.Nodes)
	return graph.New(built.Nodes, resolved.Edges, resolved.FailuresByOwner(), built.Errors)
}

func defaultOptions(t *testing.T) config.Options {
	t.Helper()
	opts, err := config.New(config.Options{})
	require.NoError(t, err)
	return opts
}

func ruleIDs(issues []model.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.RuleID
	}
	return out
}

// TestEngine_StampsRuleMetadata validates that issues leave the engine
// carrying their rule's id, category and default severity.
func TestEngine_StampsRuleMetadata(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
resource "aws_instance" "web" {
  ami = var.missing
}
`)

	outcome := New(NewRegistry(), defaultOptions(t)).Evaluate(context.Background(), g)

	require.NotEmpty(t, outcome.Issues)
	var unresolved *model.Issue
	for i := range outcome.Issues {
		if outcome.Issues[i].RuleID == "TF010" {
			unresolved = &outcome.Issues[i]
		}
	}
	require.NotNil(t, unresolved)
	assert.Equal(t, model.CategoryReferences, unresolved.Category)
	assert.Equal(t, model.SeverityError, unresolved.Severity)
	assert.Equal(t, "aws_instance.web", unresolved.Resource)
}

// TestEngine_IgnoreFiltersAndCounts validates that ignored findings leave
// the visible list but remain counted.
func TestEngine_IgnoreFiltersAndCounts(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
variable "never_used" {
  type        = string
  description = "unused on purpose"
}
`)

	opts := defaultOptions(t)
	base := New(NewRegistry(), opts).Evaluate(context.Background(), g)
	require.Contains(t, ruleIDs(base.Issues), "TF013")

	opts.IgnoreRules = map[string]bool{"TF013": true}
	filtered := New(NewRegistry(), opts).Evaluate(context.Background(), g)
	assert.NotContains(t, ruleIDs(filtered.Issues), "TF013")
	assert.Equal(t, 1, filtered.IgnoredCount)
	assert.Len(t, filtered.Issues, len(base.Issues)-1)
}

// TestEngine_SyntaxRulesNotIgnorable validates that the ignore list cannot
// waive syntax errors.
func TestEngine_SyntaxRulesNotIgnorable(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
module "vpc" {
  version = "1.0"
}
`)

	opts := defaultOptions(t)
	opts.IgnoreRules = map[string]bool{"TF002": true}
	outcome := New(NewRegistry(), opts).Evaluate(context.Background(), g)

	assert.Contains(t, ruleIDs(outcome.Issues), "TF002")
	assert.Zero(t, outcome.IgnoredCount)
}

// TestEngine_StrictEscalatesSelectedWarnings validates that strict mode
// promotes the configured warnings to errors and leaves INFO alone.
func TestEngine_StrictEscalatesSelectedWarnings(t *testing.T) {
	t.Parallel()

	src := `
variable "region" {
  description = "deployment region"
}

output "region" {
  value       = var.region
  description = "echoed region"
}
`
	g := graphFromSource(t, src)

	relaxed := New(NewRegistry(), defaultOptions(t)).Evaluate(context.Background(), g)
	var typeIssue *model.Issue
	for i := range relaxed.Issues {
		if relaxed.Issues[i].RuleID == "TF022" {
			typeIssue = &relaxed.Issues[i]
		}
	}
	require.NotNil(t, typeIssue)
	assert.Equal(t, model.SeverityWarning, typeIssue.Severity)

	opts := defaultOptions(t)
	opts.Strict = true
	strict := New(NewRegistry(), opts).Evaluate(context.Background(), g)
	for _, issue := range strict.Issues {
		if issue.RuleID == "TF022" {
			assert.Equal(t, model.SeverityError, issue.Severity)
		}
	}
	assert.Greater(t, strict.Errors, relaxed.Errors)
}

// TestEngine_SuppressesCascades validates that an object with a syntax
// error yields no best-practices or security findings, while references
// findings survive.
func TestEngine_SuppressesCascades(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
resource "aws_instance" "web" {
}
`)

	outcome := New(NewRegistry(), defaultOptions(t)).Evaluate(context.Background(), g)

	for _, issue := range outcome.Issues {
		if issue.Resource != "aws_instance.web" {
			continue
		}
		assert.NotEqual(t, model.CategoryBestPractice, issue.Category,
			"best-practices finding should be suppressed on %s: %s", issue.RuleID, issue.Message)
		assert.NotEqual(t, model.CategorySecurity, issue.Category)
	}
	assert.Contains(t, ruleIDs(outcome.Issues), "TF004")
	assert.Contains(t, ruleIDs(outcome.Issues), "TF014")
}

// TestEngine_PanickingRuleDegradesToDiagnostic validates fault isolation:
// one broken rule becomes a single diagnostic and every other rule still
// reports.
func TestEngine_PanickingRuleDegradesToDiagnostic(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
variable "never_used" {
  type        = string
  description = "unused on purpose"
}
`)

	registry := NewRegistry()
	registry.Register(Rule{
		ID:       "TST1",
		Category: model.CategoryReferences,
		Severity: model.SeverityError,
		Check: func(*graph.Graph, config.Options) []model.Issue {
			panic("boom")
		},
	})

	outcome := New(registry, defaultOptions(t)).Evaluate(context.Background(), g)

	ids := ruleIDs(outcome.Issues)
	assert.Contains(t, ids, RuleFaultID)
	assert.NotContains(t, ids, "TST1")
	assert.Contains(t, ids, "TF013", "healthy rules still report")
}

// TestEngine_CategoryFiltering validates that disabled categories never run.
func TestEngine_CategoryFiltering(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
variable "never_used" {}
`)

	opts := defaultOptions(t)
	opts.EnabledCategories = map[model.Category]bool{model.CategoryReferences: true}
	outcome := New(NewRegistry(), opts).Evaluate(context.Background(), g)

	require.NotEmpty(t, outcome.Issues)
	for _, issue := range outcome.Issues {
		assert.Equal(t, model.CategoryReferences, issue.Category)
	}
}

// TestEngine_Deterministic validates that repeated evaluation of the same
// graph yields byte-identical issue lists despite concurrent rule
// execution.
func TestEngine_Deterministic(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
variable "ami" {}
variable "never_used" {}

resource "aws_instance" "web" {
  ami           = var.ami
  instance_type = "t3.micro"
}

resource "aws_db_instance" "db" {
  engine              = "postgres"
  publicly_accessible = true
  password            = "hunter2"
}

output "dead" {
  value = "42"
}
`)

	engine := New(NewRegistry(), defaultOptions(t))
	first := engine.Evaluate(context.Background(), g)
	for i := 0; i < 20; i++ {
		again := engine.Evaluate(context.Background(), g)
		assert.Empty(t, cmp.Diff(first.Issues, again.Issues))
	}
}

// TestEngine_SortedOutput validates the canonical ordering of the visible
// list.
func TestEngine_SortedOutput(t *testing.T) {
	t.Parallel()

	g := graphFromSource(t, `
variable "never_used" {}

resource "aws_instance" "web" {
  ami = var.missing
}
`)

	outcome := New(NewRegistry(), defaultOptions(t)).Evaluate(context.Background(), g)
	for i := 1; i < len(outcome.Issues); i++ {
		assert.False(t, model.SortIssuesLess(outcome.Issues[i], outcome.Issues[i-1]),
			"issues out of order at %d", i)
	}
}
