package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/tfkit/internal/model"
)

// labelArity is how many labels each top-level block type carries.
var labelArity = map[string]int{
	"resource":  2,
	"data":      2,
	"variable":  1,
	"output":    1,
	"provider":  1,
	"module":    1,
	"terraform": 0,
	"locals":    0,
}

var blockKind = map[string]model.Kind{
	"resource":  model.KindResource,
	"data":      model.KindDataSource,
	"variable":  model.KindVariable,
	"output":    model.KindOutput,
	"provider":  model.KindProvider,
	"module":    model.KindModule,
	"terraform": model.KindTerraformSettings,
}

type converter struct {
	src  []byte
	file string
}

// topLevel converts one top-level HCL block into raw blocks. A locals block
// fans out into one raw block per local value; every other block maps 1:1.
// Blocks with the wrong label arity become malformed placeholders; block
// types this analyzer does not model (moved, import, check) are skipped.
func (c *converter) topLevel(block *hclsyntax.Block) []model.RawBlock {
	line := block.TypeRange.Start.Line

	arity, known := labelArity[block.Type]
	if !known {
		return nil
	}
	if len(block.Labels) != arity {
		pb := placeholderBlock(c.file, line, fmt.Sprintf("%s block expects %d label(s), got %d", block.Type, arity, len(block.Labels)))
		return []model.RawBlock{pb}
	}

	if block.Type == "locals" {
		return c.locals(block)
	}

	raw := model.RawBlock{
		Kind:   blockKind[block.Type],
		Labels: append([]string(nil), block.Labels...),
		File:   c.file,
		Line:   line,
	}
	c.fillBody(&raw, block.Body)
	return []model.RawBlock{raw}
}

// locals splits a locals block into one raw block per definition so each
// local value is its own graph node.
func (c *converter) locals(block *hclsyntax.Block) []model.RawBlock {
	var out []model.RawBlock
	for _, attr := range sortedAttrs(block.Body) {
		out = append(out, model.RawBlock{
			Kind:   model.KindLocal,
			Labels: []string{attr.Name},
			File:   c.file,
			Line:   attr.SrcRange.Start.Line,
			Attrs:  []model.RawAttr{c.attr(attr)},
		})
	}
	return out
}

// fillBody copies a block body into the raw block: ordered attributes,
// nested blocks, and the independently parsed depends_on list.
func (c *converter) fillBody(raw *model.RawBlock, body *hclsyntax.Body) {
	for _, attr := range sortedAttrs(body) {
		if attr.Name == "depends_on" {
			raw.DependsOn = dependsOnEntries(attr.Expr)
			continue
		}
		raw.Attrs = append(raw.Attrs, c.attr(attr))
	}
	for _, nested := range body.Blocks {
		raw.Blocks = append(raw.Blocks, c.nested(nested))
	}
}

func (c *converter) nested(block *hclsyntax.Block) model.RawNested {
	n := model.RawNested{
		Type:   block.Type,
		Labels: append([]string(nil), block.Labels...),
		Line:   block.TypeRange.Start.Line,
	}
	for _, attr := range sortedAttrs(block.Body) {
		n.Attrs = append(n.Attrs, c.attr(attr))
	}
	for _, inner := range block.Body.Blocks {
		n.Blocks = append(n.Blocks, c.nested(inner))
	}
	return n
}

// attr captures an attribute's raw expression text and the symbol candidates
// inside it, in source order.
func (c *converter) attr(attr *hclsyntax.Attribute) model.RawAttr {
	rng := attr.Expr.Range()
	text := ""
	if rng.Start.Byte >= 0 && rng.End.Byte <= len(c.src) && rng.Start.Byte <= rng.End.Byte {
		text = string(c.src[rng.Start.Byte:rng.End.Byte])
	}

	var symbols []string
	for _, traversal := range attr.Expr.Variables() {
		symbols = append(symbols, formatTraversal(traversal))
	}

	return model.RawAttr{
		Name:    attr.Name,
		Expr:    text,
		Line:    attr.SrcRange.Start.Line,
		Symbols: symbols,
	}
}

// sortedAttrs returns a body's attributes in source order. hclsyntax stores
// them in a map, so order has to be recovered from byte offsets.
func sortedAttrs(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
