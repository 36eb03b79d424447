package validator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

// RuleFaultID marks a diagnostic issue emitted when a rule panicked instead
// of completing. The faulting rule's other findings are discarded; every
// other rule's findings stand.
const RuleFaultID = "TF900"

// Outcome is the result of one engine run. Issues is the visible list after
// ignore filtering; IgnoredCount preserves how many findings the ignore list
// removed so they never vanish from metrics.
type Outcome struct {
	Issues       []model.Issue
	IgnoredCount int

	Errors   int
	Warnings int
	Infos    int
}

// Engine evaluates a rule registry against a graph. The engine holds no
// per-run state; one engine may serve many scans.
type Engine struct {
	registry *Registry
	opts     config.Options
}

func New(registry *Registry, opts config.Options) *Engine {
	return &Engine{registry: registry, opts: opts}
}

// Evaluate runs every enabled rule and returns the merged, filtered, sorted
// issue list. Rules run concurrently on a bounded pool; results are merged in
// registration order so the outcome does not depend on scheduling.
func (e *Engine) Evaluate(ctx context.Context, g *graph.Graph) Outcome {
	log := ctxlog.FromContext(ctx)

	var active []Rule
	for _, rule := range e.registry.Rules() {
		if e.opts.CategoryEnabled(rule.Category) {
			active = append(active, rule)
		}
	}

	results := make([][]model.Issue, len(active))
	indices := make(chan int)
	var wg sync.WaitGroup

	workers := e.opts.RuleWorkers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = runRule(g, e.opts, active[i])
			}
		}()
	}
	for i := range active {
		select {
		case indices <- i:
		case <-ctx.Done():
		}
	}
	close(indices)
	wg.Wait()

	var merged []model.Issue
	for i, rule := range active {
		for _, issue := range results[i] {
			stamp(&issue, rule)
			merged = append(merged, issue)
		}
	}

	merged = suppressCascades(merged)
	if e.opts.Strict {
		merged = escalate(merged, e.opts.StrictEscalations)
	}
	visible, ignored := e.filterIgnored(merged)

	sort.SliceStable(visible, func(i, j int) bool {
		return model.SortIssuesLess(visible[i], visible[j])
	})

	out := Outcome{Issues: visible, IgnoredCount: ignored}
	for _, issue := range visible {
		switch issue.Severity {
		case model.SeverityError:
			out.Errors++
		case model.SeverityWarning:
			out.Warnings++
		default:
			out.Infos++
		}
	}

	log.Debug("rule evaluation complete",
		"rules", len(active),
		"issues", len(visible),
		"ignored", ignored)
	return out
}

// runRule isolates a rule behind a recover so a panicking check degrades to a
// single diagnostic instead of killing the scan.
func runRule(g *graph.Graph, opts config.Options, rule Rule) (issues []model.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []model.Issue{{
				Severity: model.SeverityWarning,
				Category: rule.Category,
				RuleID:   RuleFaultID,
				File:     "<engine>",
				Line:     0,
				Message:  fmt.Sprintf("rule %s failed to evaluate: %v", rule.ID, r),
			}}
		}
	}()
	return rule.Check(g, opts)
}

// stamp fills rule metadata on an issue the check left blank. A fault issue
// already carries its own id and severity and is left alone.
func stamp(issue *model.Issue, rule Rule) {
	if issue.RuleID == "" {
		issue.RuleID = rule.ID
	}
	if issue.Category == "" {
		issue.Category = rule.Category
	}
	if issue.Severity == "" {
		issue.Severity = rule.Severity
	}
}

// suppressCascades drops best-practices and security findings on objects
// that already carry a syntax error. A block the parser rejected yields one
// actionable issue, not a pile of follow-on noise. References findings
// survive: dangling edges into a broken block are still real.
func suppressCascades(issues []model.Issue) []model.Issue {
	tainted := make(map[string]bool)
	for _, issue := range issues {
		if issue.Category == model.CategorySyntax && issue.Resource != "" {
			tainted[issue.Resource] = true
		}
	}
	if len(tainted) == 0 {
		return issues
	}
	kept := issues[:0]
	for _, issue := range issues {
		if tainted[issue.Resource] &&
			(issue.Category == model.CategoryBestPractice || issue.Category == model.CategorySecurity) {
			continue
		}
		kept = append(kept, issue)
	}
	return kept
}

// escalate promotes WARNING findings of the configured rule ids to ERROR.
// INFO findings are never escalated.
func escalate(issues []model.Issue, ids map[string]bool) []model.Issue {
	for i := range issues {
		if issues[i].Severity == model.SeverityWarning && ids[issues[i].RuleID] {
			issues[i].Severity = model.SeverityError
		}
	}
	return issues
}

func (e *Engine) filterIgnored(issues []model.Issue) ([]model.Issue, int) {
	if len(e.opts.IgnoreRules) == 0 {
		return issues, 0
	}
	ignorable := make(map[string]bool, len(e.registry.rules))
	for _, rule := range e.registry.rules {
		ignorable[rule.ID] = rule.Ignorable
	}
	ignorable[RuleFaultID] = true

	ignored := 0
	kept := issues[:0]
	for _, issue := range issues {
		if e.opts.IgnoreRules[issue.RuleID] && ignorable[issue.RuleID] {
			ignored++
			continue
		}
		kept = append(kept, issue)
	}
	return kept, ignored
}
