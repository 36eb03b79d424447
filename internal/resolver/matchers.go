package resolver

import (
	"strings"

	"github.com/vk/tfkit/internal/model"
)

// symbolClass partitions the symbol grammar.
type symbolClass int

const (
	// classAddressed symbols carry an explicit namespace prefix
	// (var/local/module/data) and must resolve or fail.
	classAddressed symbolClass = iota
	// classDeclared symbols are bare `type.name` pairs that only count as
	// references when the pair names a declared resource.
	classDeclared
	// classIntraNode symbols (each.*, count.index, self.*, path.*,
	// terraform.*) never leave their node.
	classIntraNode
	// classUnrecognized symbols don't fit the grammar at all.
	classUnrecognized
)

type match struct {
	class symbolClass
	key   string
}

// intraNodeRoots are reference roots that stay inside the declaring node or
// name the runtime environment rather than another declared object.
var intraNodeRoots = map[string]bool{
	"each":      true,
	"count":     true,
	"self":      true,
	"path":      true,
	"terraform": true,
}

// classify applies the per-kind matchers in order. Index and attribute
// suffixes are stripped first so `aws_instance.web[0].id` and
// `aws_instance.web` resolve to the same base node.
func classify(symbol string) match {
	cleaned := model.BaseName(symbol)
	parts := strings.Split(cleaned, ".")
	if len(parts) == 0 || parts[0] == "" {
		return match{class: classUnrecognized}
	}

	if intraNodeRoots[parts[0]] {
		return match{class: classIntraNode}
	}

	switch parts[0] {
	case "var", "local", "module":
		if len(parts) < 2 || parts[1] == "" {
			return match{class: classUnrecognized}
		}
		return match{class: classAddressed, key: parts[0] + "." + parts[1]}
	case "data":
		if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
			return match{class: classUnrecognized}
		}
		return match{class: classAddressed, key: "data." + parts[1] + "." + parts[2]}
	}

	// Resource reference: the leading pair must name a declared resource,
	// otherwise the symbol is a false positive (function name, keyword).
	if len(parts) >= 2 && parts[1] != "" {
		return match{class: classDeclared, key: parts[0] + "." + parts[1]}
	}
	return match{class: classUnrecognized}
}

// index maps rendered base addresses to their nodes.
type index struct {
	nodes map[string]*model.Node
}

func newIndex(nodes []*model.Node) *index {
	idx := &index{nodes: make(map[string]*model.Node, len(nodes))}
	for _, n := range nodes {
		switch n.Kind {
		case model.KindResource, model.KindDataSource, model.KindVariable,
			model.KindOutput, model.KindLocal, model.KindModule:
			idx.nodes[n.Addr.String()] = n
		}
	}
	return idx
}

func (idx *index) lookup(key string) (*model.Node, bool) {
	n, ok := idx.nodes[key]
	return n, ok
}
