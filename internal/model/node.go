package model

// Location points at where an object was declared.
type Location struct {
	File string
	Line int
}

// MetaFlags records the presence of meta-arguments and marker sub-blocks on a
// node. These are presence markers only; the expressions behind them are never
// evaluated.
type MetaFlags struct {
	Count      bool
	ForEach    bool
	DependsOn  bool
	Sensitive  bool
	Default    bool
	Validation bool
}

// metaAttrNames are attribute names that configure the object's lifecycle
// rather than the object itself.
var metaAttrNames = map[string]bool{
	"count":      true,
	"for_each":   true,
	"depends_on": true,
	"provider":   true,
	"lifecycle":  true,
}

// Node is one declared configuration object: a vertex of the dependency
// graph. Nodes are constructed once by the builder and treated as immutable
// afterwards; a re-scan builds a fresh node set.
type Node struct {
	Kind     Kind
	Addr     Address
	Location Location

	// Attrs and Blocks retain the declaration's raw attribute expressions in
	// source order.
	Attrs  []RawAttr
	Blocks []RawNested

	DependsOn []string
	Meta      MetaFlags

	// Malformed carries the parser's reason when this node is a placeholder
	// standing in for a block that could not be fully parsed.
	Malformed string
}

// IsPlaceholder reports whether this node stands in for a malformed block.
func (n *Node) IsPlaceholder() bool { return n.Malformed != "" }

// Attr returns the first top-level attribute with the given name.
func (n *Node) Attr(name string) (RawAttr, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return RawAttr{}, false
}

// NestedBlocks returns every nested block with the given type.
func (n *Node) NestedBlocks(blockType string) []RawNested {
	var out []RawNested
	for _, b := range n.Blocks {
		if b.Type == blockType {
			out = append(out, b)
		}
	}
	return out
}

// NonMetaAttrCount counts attributes that configure the object itself rather
// than its lifecycle (count, for_each, depends_on, provider, lifecycle).
func (n *Node) NonMetaAttrCount() int {
	count := 0
	for _, a := range n.Attrs {
		if !metaAttrNames[a.Name] {
			count++
		}
	}
	return count
}

// IsMetaAttr reports whether the named attribute is a lifecycle
// meta-argument.
func IsMetaAttr(name string) bool { return metaAttrNames[name] }
