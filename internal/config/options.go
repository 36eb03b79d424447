// Package config holds the options surface consumed by a scan. Options are
// plain data validated on construction; nothing here reads files or flags.
package config

import (
	"fmt"

	"github.com/vk/tfkit/internal/model"
)

// Weights are the health score penalties. They are configuration, not
// structural constants; Default carries the stock values.
type Weights struct {
	Unused     int
	Orphaned   int
	Incomplete int
	Error      int
	Warning    int
}

// Options configures one scan invocation.
type Options struct {
	// Strict escalates the rules listed in StrictEscalations from WARNING to
	// ERROR before sorting. It never changes which rules fire.
	Strict bool

	// IgnoreRules filters rule ids out of the visible issue list after
	// evaluation and escalation. Filtered issues are still counted.
	IgnoreRules map[string]bool

	// FailOnWarning makes remaining WARNING issues fail the scan's CI
	// verdict.
	FailOnWarning bool

	// EnabledCategories limits which rule categories run. Empty means all.
	EnabledCategories map[model.Category]bool

	// ExemptSensitiveFromUnused excludes sensitive-flagged objects from the
	// unused check. Off by default: sensitivity does not make an object used.
	ExemptSensitiveFromUnused bool

	// ScoreWeights are the health score penalties.
	ScoreWeights Weights

	// RequiredAttributes is the conservative per-kind table driving the
	// incompleteness check. It is heuristic and provider-agnostic, never
	// derived from provider schemas.
	RequiredAttributes map[model.Kind][]string

	// StrictEscalations lists the default-WARNING rule ids that strict mode
	// escalates to ERROR.
	StrictEscalations map[string]bool

	// RuleWorkers bounds the rule evaluation pool. Values below 1 mean
	// sequential evaluation.
	RuleWorkers int
}

// Default returns the stock options: all categories enabled, spec-default
// score weights, conservative required-attribute table.
func Default() Options {
	return Options{
		IgnoreRules:       map[string]bool{},
		EnabledCategories: map[model.Category]bool{},
		ScoreWeights: Weights{
			Unused:     2,
			Orphaned:   3,
			Incomplete: 5,
			Error:      10,
			Warning:    3,
		},
		RequiredAttributes: map[model.Kind][]string{
			model.KindModule: {"source"},
		},
		StrictEscalations: map[string]bool{
			"TF013": true, // unused object
			"TF022": true, // variable missing type
			"TF030": true, // unrestricted ingress
		},
		RuleWorkers: 4,
	}
}

// New validates and normalizes the given options.
func New(opts Options) (Options, error) {
	def := Default()
	if opts.IgnoreRules == nil {
		opts.IgnoreRules = map[string]bool{}
	}
	if opts.EnabledCategories == nil {
		opts.EnabledCategories = map[model.Category]bool{}
	}
	if opts.ScoreWeights == (Weights{}) {
		opts.ScoreWeights = def.ScoreWeights
	}
	if opts.RequiredAttributes == nil {
		opts.RequiredAttributes = def.RequiredAttributes
	}
	if opts.StrictEscalations == nil {
		opts.StrictEscalations = def.StrictEscalations
	}
	if opts.RuleWorkers == 0 {
		opts.RuleWorkers = def.RuleWorkers
	}
	for c := range opts.EnabledCategories {
		switch c {
		case model.CategorySyntax, model.CategoryReferences, model.CategoryBestPractice, model.CategorySecurity:
		default:
			return Options{}, fmt.Errorf("unknown rule category %q", c)
		}
	}
	return opts, nil
}

// CategoryEnabled reports whether rules of the given category should run.
func (o Options) CategoryEnabled(c model.Category) bool {
	if len(o.EnabledCategories) == 0 {
		return true
	}
	return o.EnabledCategories[c]
}
