package model

// RawFile is the parsed form of one configuration file: the boundary contract
// between the external HCL parser and the semantic model builder.
type RawFile struct {
	Path   string
	Blocks []RawBlock
}

// RawBlock is one top-level block as the parser saw it. Attribute values are
// unevaluated expression source text plus the symbol candidates the loader
// pre-extracted from them; nothing in a RawBlock is ever evaluated.
type RawBlock struct {
	Kind   Kind
	Labels []string
	File   string
	Line   int

	// Attrs preserves source order.
	Attrs  []RawAttr
	Blocks []RawNested

	// DependsOn holds the rendered entries of a depends_on list, parsed
	// independently of free-text symbol scanning.
	DependsOn []string

	// Malformed is a non-empty reason when the parser could not fully trust
	// this block. Malformed blocks still flow through the builder so that
	// downstream stages can run; they surface as syntax issues.
	Malformed string
}

// RawAttr is a single attribute: its raw expression text and the symbol
// candidates found inside it, in source order.
type RawAttr struct {
	Name    string
	Expr    string
	Line    int
	Symbols []string
}

// RawNested is a nested block stored as a nested raw attribute map.
type RawNested struct {
	Type   string
	Labels []string
	Line   int
	Attrs  []RawAttr
	Blocks []RawNested
}

// Attr returns the first attribute with the given name, if present.
func (b *RawBlock) Attr(name string) (RawAttr, bool) {
	for _, a := range b.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return RawAttr{}, false
}

// NestedBlocks returns every nested block with the given type.
func (b *RawBlock) NestedBlocks(blockType string) []RawNested {
	var out []RawNested
	for _, n := range b.Blocks {
		if n.Type == blockType {
			out = append(out, n)
		}
	}
	return out
}
