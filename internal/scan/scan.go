// Package scan runs the full pipeline: discover and parse configuration
// files, build the node set, resolve references, publish the graph, evaluate
// rules and project the reports. Each Scan call is independent; nothing is
// shared between runs.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vk/tfkit/internal/builder"
	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/loader"
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/report"
	"github.com/vk/tfkit/internal/resolver"
	"github.com/vk/tfkit/internal/validator"
)

// Result is everything one scan produced. The graph is retained so callers
// can run further queries without re-scanning.
type Result struct {
	ScanID   string
	Duration time.Duration

	Graph    *graph.Graph
	Issues   []model.Issue
	Ignored  int
	Errors   int
	Warnings int
	Infos    int

	Health   report.Health
	Snapshot report.Snapshot
}

// Failed reports whether the scan should fail a CI gate under the given
// options: any remaining ERROR, or any remaining WARNING with fail-on-warning
// set.
func (r *Result) Failed(opts config.Options) bool {
	if r.Errors > 0 {
		return true
	}
	return opts.FailOnWarning && r.Warnings > 0
}

// Scanner binds a rule registry to an options set.
type Scanner struct {
	registry *Registry
	opts     config.Options
}

// Registry aliases the validator registry so callers registering custom
// rules only import this package.
type Registry = validator.Registry

// New validates the options and returns a ready scanner with the built-in
// rule set.
func New(opts config.Options) (*Scanner, error) {
	normalized, err := config.New(opts)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		registry: validator.NewRegistry(),
		opts:     normalized,
	}, nil
}

// Registry exposes the scanner's rule registry for custom rule registration.
func (s *Scanner) Registry() *Registry { return s.registry }

// Scan runs the pipeline over the given files and directories. The only
// fatal errors are I/O failures and an empty input set; every structural
// defect in the configuration surfaces as issues in the result.
func (s *Scanner) Scan(ctx context.Context, paths ...string) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	started := time.Now()
	scanID := uuid.NewString()
	log.Info("scan started", "scan_id", scanID, "paths", paths)

	files, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}

	built, err := builder.Build(ctx, files)
	if err != nil {
		return nil, err
	}

	resolved := resolver.Resolve(ctx, built.Nodes)
	g := graph.New(built.Nodes, resolved.Edges, resolved.FailuresByOwner(), built.Errors)

	outcome := validator.New(s.registry, s.opts).Evaluate(ctx, g)

	res := &Result{
		ScanID:   scanID,
		Duration: time.Since(started),
		Graph:    g,
		Issues:   outcome.Issues,
		Ignored:  outcome.IgnoredCount,
		Errors:   outcome.Errors,
		Warnings: outcome.Warnings,
		Infos:    outcome.Infos,
		Health:   report.BuildHealth(g, s.opts, outcome),
		Snapshot: report.BuildSnapshot(g),
	}

	log.Info("scan finished",
		"scan_id", scanID,
		"duration", res.Duration,
		"objects", res.Health.TotalObjects,
		"issues", len(res.Issues),
		"score", res.Health.Score)
	return res, nil
}
