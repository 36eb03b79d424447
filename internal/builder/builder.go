// Package builder turns raw block trees into the graph's node set. It merges
// same-kind declarations across files, rejects duplicate identities (first
// declaration wins), and degrades malformed blocks into placeholder nodes so
// every downstream stage still runs.
package builder

import (
	"context"
	"sort"
	"strings"

	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/model"
)

// Result is the outcome of one build pass: the immutable node set plus every
// non-fatal defect recorded along the way.
type Result struct {
	Nodes []*model.Node

	// Errors holds *model.DuplicateDeclarationError and
	// *model.MalformedBlockError values. They are recorded, never thrown.
	Errors []error
}

// Build merges all raw files into one node set. The only fatal condition is
// an empty input; every per-block defect is recorded in the result instead.
func Build(ctx context.Context, files []model.RawFile) (*Result, error) {
	if len(files) == 0 {
		return nil, model.ErrNoInput
	}
	logger := ctxlog.FromContext(ctx)

	b := &merge{
		byAddr: make(map[model.Address]*model.Node),
	}
	for _, file := range files {
		for i := range file.Blocks {
			b.add(&file.Blocks[i])
		}
	}

	res := &Result{Nodes: b.nodes, Errors: b.errors}
	// Publish in a stable order regardless of file discovery order.
	sort.Slice(res.Nodes, func(i, j int) bool {
		return res.Nodes[i].Addr.Less(res.Nodes[j].Addr)
	})
	logger.Debug("semantic model built", "nodes", len(res.Nodes), "build_errors", len(res.Errors))
	return res, nil
}

// merge is the explicit accumulator threaded through the build: no shared
// state survives between scans.
type merge struct {
	byAddr map[model.Address]*model.Node
	nodes  []*model.Node
	errors []error
}

func (m *merge) add(raw *model.RawBlock) {
	if raw.Malformed != "" || raw.Kind == model.KindInvalid {
		m.addPlaceholder(raw)
		return
	}

	addr, ok := addressOf(raw)
	if !ok {
		m.addPlaceholder(raw)
		return
	}

	// The terraform settings block is a singleton that merges across files
	// rather than colliding with itself.
	if raw.Kind == model.KindTerraformSettings {
		if existing, found := m.byAddr[addr]; found {
			existing.Attrs = append(existing.Attrs, raw.Attrs...)
			existing.Blocks = append(existing.Blocks, raw.Blocks...)
			return
		}
	}

	if existing, found := m.byAddr[addr]; found {
		m.errors = append(m.errors, &model.DuplicateDeclarationError{
			Addr:     addr,
			First:    existing.Location,
			Shadowed: model.Location{File: raw.File, Line: raw.Line},
		})
		return
	}

	node := &model.Node{
		Kind:      raw.Kind,
		Addr:      addr,
		Location:  model.Location{File: raw.File, Line: raw.Line},
		Attrs:     raw.Attrs,
		Blocks:    raw.Blocks,
		DependsOn: raw.DependsOn,
		Meta:      metaFlags(raw),
	}
	m.byAddr[addr] = node
	m.nodes = append(m.nodes, node)
}

func (m *merge) addPlaceholder(raw *model.RawBlock) {
	detail := raw.Malformed
	if detail == "" {
		detail = "block could not be classified"
	}
	name := "block"
	if len(raw.Labels) > 0 {
		name = raw.Labels[0]
	}
	addr := model.Address{Kind: model.KindInvalid, Name: name}
	// Placeholders never collide with real declarations; suffix until unique.
	for _, taken := m.byAddr[addr]; taken; _, taken = m.byAddr[addr] {
		addr.Name += "_"
	}

	node := &model.Node{
		Kind:      model.KindInvalid,
		Addr:      addr,
		Location:  model.Location{File: raw.File, Line: raw.Line},
		Malformed: detail,
	}
	m.byAddr[addr] = node
	m.nodes = append(m.nodes, node)
	m.errors = append(m.errors, &model.MalformedBlockError{
		Location: node.Location,
		Detail:   detail,
	})
}

// addressOf derives the composite identity for a well-formed raw block.
func addressOf(raw *model.RawBlock) (model.Address, bool) {
	switch raw.Kind {
	case model.KindResource:
		if len(raw.Labels) != 2 {
			return model.Address{}, false
		}
		return model.ResourceAddress(raw.Labels[0], raw.Labels[1]), true
	case model.KindDataSource:
		if len(raw.Labels) != 2 {
			return model.Address{}, false
		}
		return model.DataAddress(raw.Labels[0], raw.Labels[1]), true
	case model.KindVariable:
		return oneLabel(raw, model.VariableAddress)
	case model.KindOutput:
		return oneLabel(raw, model.OutputAddress)
	case model.KindLocal:
		return oneLabel(raw, model.LocalAddress)
	case model.KindModule:
		return oneLabel(raw, model.ModuleAddress)
	case model.KindProvider:
		if len(raw.Labels) != 1 {
			return model.Address{}, false
		}
		return model.ProviderAddress(raw.Labels[0], providerAlias(raw)), true
	case model.KindTerraformSettings:
		return model.TerraformSettingsAddress(), true
	}
	return model.Address{}, false
}

func oneLabel(raw *model.RawBlock, mk func(string) model.Address) (model.Address, bool) {
	if len(raw.Labels) != 1 {
		return model.Address{}, false
	}
	return mk(raw.Labels[0]), true
}

// providerAlias reads the alias attribute as a bare string literal. Anything
// more exotic keeps the default (empty) alias: alias expressions are not
// evaluated, only recognized.
func providerAlias(raw *model.RawBlock) string {
	attr, ok := raw.Attr("alias")
	if !ok {
		return ""
	}
	text := strings.TrimSpace(attr.Expr)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' && !strings.ContainsAny(text[1:len(text)-1], "\"${") {
		return text[1 : len(text)-1]
	}
	return ""
}

func metaFlags(raw *model.RawBlock) model.MetaFlags {
	flags := model.MetaFlags{DependsOn: len(raw.DependsOn) > 0}
	for _, a := range raw.Attrs {
		switch a.Name {
		case "count":
			flags.Count = true
		case "for_each":
			flags.ForEach = true
		case "sensitive":
			flags.Sensitive = true
		case "default":
			flags.Default = true
		}
	}
	for _, b := range raw.Blocks {
		if b.Type == "validation" {
			flags.Validation = true
		}
	}
	return flags
}
