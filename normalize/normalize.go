// Package normalize reconciles the IR's two equivalent edge
// representations — an explicit edge list, or each node's positional Inputs
// array — into one canonical form: both edges and per-node Inputs/Outputs
// populated and mutually consistent (spec.md §4.3).
package normalize

import (
	"github.com/freneticmonkey/graphc/ir"
)

// Graph normalizes a single scope's graph (the top-level graph, or one
// function's subgraph). It never mutates the input; it returns a new Graph
// with Edges canonical and every node's Inputs/Outputs rebuilt from them.
//
// If Edges is already populated it is taken as canonical; Inputs/Outputs
// are rebuilt to match. Otherwise edges are synthesized from each node's
// positional Inputs, one edge per listed source, de-duplicated by
// (from, to) pair, and Outputs are derived from those synthesized edges.
//
// An edge whose endpoint is not a node in this graph is silently dropped, so
// validation of the normalized graph never sees it; validate.Graph reports
// UnknownEndpoint only for edges it is handed directly. The core-reference
// behavior is drop-then-validate (spec.md §4.3, §7).
func Graph(g ir.Graph) ir.Graph {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}

	var edges []ir.Edge
	if len(g.Edges) > 0 {
		edges = keepKnown(g.Edges, known)
	} else {
		edges = synthesizeFromInputs(g.Nodes, known)
	}

	nodes := rebuildPorts(g.Nodes, edges)

	return ir.Graph{Nodes: nodes, Edges: edges, Return: g.Return}
}

// Document normalizes the top-level graph and every function's subgraph of
// an IR document, returning a new IR. Imports are carried through
// unchanged.
func Document(doc ir.IR) ir.IR {
	top := Graph(ir.Graph{Nodes: doc.Nodes, Edges: doc.Edges})

	funcs := make([]ir.Function, len(doc.Functions))
	for i, f := range doc.Functions {
		f.Graph = Graph(f.Graph)
		funcs[i] = f
	}

	return ir.IR{
		Imports:   doc.Imports,
		Nodes:     top.Nodes,
		Edges:     top.Edges,
		Functions: funcs,
	}
}

func keepKnown(edges []ir.Edge, known map[string]bool) []ir.Edge {
	kept := make([]ir.Edge, 0, len(edges))
	for _, e := range edges {
		if known[e.From] && known[e.To] {
			kept = append(kept, e)
		}
	}
	return kept
}

// synthesizeFromInputs builds one positional edge per entry in each node's
// Inputs array, in node order then input order, dropping unknown sources
// and de-duplicating (from, to) pairs.
func synthesizeFromInputs(nodes []ir.Node, known map[string]bool) []ir.Edge {
	seen := make(map[[2]string]bool)
	var edges []ir.Edge
	for _, n := range nodes {
		for _, src := range n.Inputs {
			if !known[src] {
				continue
			}
			key := [2]string{src, n.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, ir.Edge{From: src, To: n.ID})
		}
	}
	return edges
}

// rebuildPorts recomputes each node's Inputs (ordered, de-duplicated
// sources across its incoming edges) and Outputs (ordered, de-duplicated
// destinations across its outgoing edges) from the canonical edge list.
func rebuildPorts(nodes []ir.Node, edges []ir.Edge) []ir.Node {
	inputsOf := make(map[string][]string, len(nodes))
	inputSeen := make(map[string]map[string]bool, len(nodes))
	outputsOf := make(map[string][]string, len(nodes))
	outputSeen := make(map[string]map[string]bool, len(nodes))

	for _, e := range edges {
		if inputSeen[e.To] == nil {
			inputSeen[e.To] = map[string]bool{}
		}
		if !inputSeen[e.To][e.From] {
			inputSeen[e.To][e.From] = true
			inputsOf[e.To] = append(inputsOf[e.To], e.From)
		}

		if outputSeen[e.From] == nil {
			outputSeen[e.From] = map[string]bool{}
		}
		if !outputSeen[e.From][e.To] {
			outputSeen[e.From][e.To] = true
			outputsOf[e.From] = append(outputsOf[e.From], e.To)
		}
	}

	out := make([]ir.Node, len(nodes))
	for i, n := range nodes {
		n.Inputs = inputsOf[n.ID]
		n.Outputs = outputsOf[n.ID]
		out[i] = n
	}
	return out
}
