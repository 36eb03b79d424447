// Package resolver scans each node's raw expressions for symbolic references
// to other nodes and turns them into directed edges. It recognizes a fixed
// symbol grammar, one matcher per reference kind, rather than evaluating
// expressions; anything well-formed that matches no declared object becomes a
// recorded resolution failure, never an abort.
package resolver

import (
	"context"

	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/model"
)

// Result carries the discovered edges plus every reference that could not be
// resolved, in deterministic source order.
type Result struct {
	Edges    []model.Edge
	Failures []*model.ResolutionFailure
}

// FailuresByOwner groups resolution failures by the node that holds the
// broken reference.
func (r *Result) FailuresByOwner() map[model.Address][]*model.ResolutionFailure {
	out := make(map[model.Address][]*model.ResolutionFailure)
	for _, f := range r.Failures {
		out[f.Owner] = append(out[f.Owner], f)
	}
	return out
}

// Resolve walks every node's depends_on list and attribute expressions and
// emits edges against the node set. Duplicate (from, to) pairs within one
// node collapse before insertion; depends_on is processed first so its tag
// wins when the same dependency is also implied by an expression.
func Resolve(ctx context.Context, nodes []*model.Node) *Result {
	logger := ctxlog.FromContext(ctx)

	idx := newIndex(nodes)
	res := &Result{}

	for _, node := range nodes {
		if node.IsPlaceholder() {
			continue
		}
		nr := &nodeResolver{index: idx, node: node, seen: make(map[model.Address]bool), result: res}

		for _, entry := range node.DependsOn {
			nr.resolveSymbol(entry, node.Location, model.ViaDependsOn, true)
		}
		for _, attr := range node.Attrs {
			via := model.ViaImplicit
			if attr.Name == "count" || attr.Name == "for_each" {
				via = model.ViaMeta
			}
			loc := model.Location{File: node.Location.File, Line: attr.Line}
			for _, sym := range attr.Symbols {
				nr.resolveSymbol(sym, loc, via, false)
			}
		}
		for _, nested := range node.Blocks {
			nr.resolveNested(nested, model.ViaImplicit)
		}
	}

	logger.Debug("reference resolution complete",
		"edges", len(res.Edges), "failures", len(res.Failures))
	return res
}

type nodeResolver struct {
	index  *index
	node   *model.Node
	seen   map[model.Address]bool
	result *Result
}

func (nr *nodeResolver) resolveNested(nested model.RawNested, via model.EdgeVia) {
	for _, attr := range nested.Attrs {
		loc := model.Location{File: nr.node.Location.File, Line: attr.Line}
		for _, sym := range attr.Symbols {
			nr.resolveSymbol(sym, loc, via, false)
		}
	}
	for _, inner := range nested.Blocks {
		nr.resolveNested(inner, via)
	}
}

// resolveSymbol classifies one rendered symbol and either links an edge,
// records a failure, or drops it as a scan false positive. Explicit symbols
// (depends_on entries) always fail loudly when unmatched; implicit bare
// identifiers only fail for the var/local/module/data grammars, since an
// undeclared leading segment is usually a function call or type keyword.
func (nr *nodeResolver) resolveSymbol(symbol string, loc model.Location, via model.EdgeVia, explicit bool) {
	m := classify(symbol)
	switch m.class {
	case classIntraNode:
		return
	case classUnrecognized:
		if explicit {
			nr.fail(symbol, loc)
		}
		return
	}

	target, found := nr.index.lookup(m.key)
	if !found {
		if m.class == classDeclared && !explicit {
			// Bare identifier that names no declared resource: a false
			// positive from the scan, not a broken reference.
			return
		}
		nr.fail(symbol, loc)
		return
	}

	if nr.seen[target.Addr] {
		return
	}
	nr.seen[target.Addr] = true
	nr.result.Edges = append(nr.result.Edges, model.Edge{
		From: nr.node.Addr,
		To:   target.Addr,
		Via:  via,
	})
}

func (nr *nodeResolver) fail(symbol string, loc model.Location) {
	nr.result.Failures = append(nr.result.Failures, &model.ResolutionFailure{
		Owner:      nr.node.Addr,
		Symbol:     symbol,
		Location:   loc,
		Suggestion: nr.index.suggest(symbol),
	})
}
