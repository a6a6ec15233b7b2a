package graphalgo

import "github.com/freneticmonkey/graphc/ir"

// ConnectionsFromGraph derives the connection list used for adjacency and
// topological sort from an IR graph: edges are canonical when present;
// otherwise each node's positional Inputs array stands in for them (spec.md
// §4.2).
func ConnectionsFromGraph(nodes []ir.Node, edges []ir.Edge) []Connection {
	if len(edges) > 0 {
		conns := make([]Connection, len(edges))
		for i, e := range edges {
			conns[i] = Connection{From: e.From, To: e.To}
		}
		return conns
	}

	var conns []Connection
	for _, n := range nodes {
		for _, src := range n.Inputs {
			conns = append(conns, Connection{From: src, To: n.ID})
		}
	}
	return conns
}

// NodeIDs extracts node ids in insertion order.
func NodeIDs(nodes []ir.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
