package report

import (
	"github.com/vk/tfkit/internal/graph"
)

// SnapshotNode is one graph vertex in export form.
type SnapshotNode struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

// SnapshotEdge is one directed dependency in export form.
type SnapshotEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Via  string `json:"via"`
}

// Snapshot is a serializable view of the dependency graph, ordered the same
// way the graph orders its accessors.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// BuildSnapshot projects the graph into its export shape. Placeholder nodes
// are included; a broken block is still a vertex neighbors may point at.
func BuildSnapshot(g *graph.Graph) Snapshot {
	var snap Snapshot
	for _, n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			Address: n.Addr.String(),
			Kind:    string(n.Kind),
			File:    n.Location.File,
			Line:    n.Location.Line,
		})
	}
	for _, e := range g.Edges() {
		snap.Edges = append(snap.Edges, SnapshotEdge{
			From: e.From.String(),
			To:   e.To.String(),
			Via:  string(e.Via),
		})
	}
	return snap
}
