// Package report renders scan results into their external shapes: the health
// summary, a SARIF log for code-scanning upload, and a plain graph snapshot.
// Everything here is a pure projection of the graph and the engine outcome.
package report

import (
	"sort"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/validator"
)

// VariableStats counts declared variables and how many are referenced.
type VariableStats struct {
	Used  int `json:"used"`
	Total int `json:"total"`
}

// OutputStats counts declared outputs and how many reference nothing.
type OutputStats struct {
	Orphaned int `json:"orphaned"`
	Total    int `json:"total"`
}

// Health is the summary a scan reports about a configuration's structural
// state. Counts cover declared objects only; placeholder nodes for broken
// blocks surface through issues, not inventory.
type Health struct {
	TotalObjects int `json:"total_objects"`
	Resources    int `json:"resources"`
	DataSources  int `json:"data_sources"`
	Modules      int `json:"modules"`

	Variables VariableStats `json:"variables"`
	Outputs   OutputStats   `json:"outputs"`
	Providers []string      `json:"providers"`

	UnusedCount     int        `json:"unused_count"`
	OrphanedCount   int        `json:"orphaned_count"`
	IncompleteCount int        `json:"incomplete_count"`
	Cycles          [][]string `json:"cycles"`

	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Infos        int `json:"infos"`
	IgnoredCount int `json:"ignored_count"`

	Score int `json:"score"`
}

// BuildHealth computes the health summary from a published graph and a
// completed rule evaluation.
func BuildHealth(g *graph.Graph, opts config.Options, outcome validator.Outcome) Health {
	h := Health{
		Cycles:       renderCycles(g.Cycles()),
		Errors:       outcome.Errors,
		Warnings:     outcome.Warnings,
		Infos:        outcome.Infos,
		IgnoredCount: outcome.IgnoredCount,
	}

	unusedVariables := 0
	for _, n := range g.Unused(opts.ExemptSensitiveFromUnused) {
		h.UnusedCount++
		if n.Kind == model.KindVariable {
			unusedVariables++
		}
	}
	h.OrphanedCount = len(g.OrphanedOutputs())
	h.IncompleteCount = len(g.Incomplete(opts.RequiredAttributes))

	var providers []string
	for _, n := range g.Nodes() {
		if n.IsPlaceholder() {
			continue
		}
		h.TotalObjects++
		switch n.Kind {
		case model.KindResource:
			h.Resources++
		case model.KindDataSource:
			h.DataSources++
		case model.KindModule:
			h.Modules++
		case model.KindVariable:
			h.Variables.Total++
		case model.KindOutput:
			h.Outputs.Total++
		case model.KindProvider:
			providers = append(providers, n.Addr.String())
		}
	}
	sort.Strings(providers)
	h.Providers = providers
	h.Variables.Used = h.Variables.Total - unusedVariables
	h.Outputs.Orphaned = h.OrphanedCount

	h.Score = graph.Score(opts.ScoreWeights,
		h.UnusedCount, h.OrphanedCount, h.IncompleteCount,
		outcome.Errors, outcome.Warnings)
	return h
}

func renderCycles(cycles [][]model.Address) [][]string {
	out := make([][]string, len(cycles))
	for i, cycle := range cycles {
		names := make([]string, len(cycle))
		for j, addr := range cycle {
			names[j] = addr.String()
		}
		out[i] = names
	}
	return out
}
