// Package validate checks a normalized graph's structural and type
// correctness: every node type must be known, every connection must
// reference declared ports (or fall back to positional binding), and every
// connection's source type must be assignable to its destination's
// expected type under the type lattice (spec.md §4.4).
//
// Validation is total: the first failure aborts and is returned; no partial
// diagnostics are batched (spec.md §4.4, §7).
package validate

import (
	"fmt"

	"github.com/freneticmonkey/graphc/catalog"
	"github.com/freneticmonkey/graphc/graphalgo"
	"github.com/freneticmonkey/graphc/ir"
	"github.com/freneticmonkey/graphc/types"
)

// ErrorKind tags the reason validation failed. The tag name is the
// contract, not the Go type (spec.md §7).
type ErrorKind string

const (
	UnknownNodeType   ErrorKind = "UnknownNodeType"
	UnknownEndpoint   ErrorKind = "UnknownEndpoint"
	MissingInputPort  ErrorKind = "MissingInputPort"
	MissingOutputPort ErrorKind = "MissingOutputPort"
	TypeMismatch      ErrorKind = "TypeMismatch"
)

// Error is the tagged error Graph and Document return, carrying whatever structured
// detail spec.md §7 lists for its Kind. A UI can inspect SuggestedCast to
// offer a one-click "insert Cast" remedy for a TypeMismatch.
type Error struct {
	Kind ErrorKind

	NodeID   string // UnknownNodeType
	NodeType string // UnknownNodeType

	Node string // UnknownEndpoint

	MissingPort string   // MissingInputPort / MissingOutputPort
	OnNode      string   // MissingInputPort / MissingOutputPort
	ValidPorts  []string // MissingInputPort / MissingOutputPort

	From          string // TypeMismatch
	To            string // TypeMismatch
	ToPort        string // TypeMismatch
	Expected      string // TypeMismatch
	Actual        string // TypeMismatch
	SuggestedCast string // TypeMismatch
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownNodeType:
		return fmt.Sprintf("validate: node %q has unknown type %q", e.NodeID, e.NodeType)
	case UnknownEndpoint:
		return fmt.Sprintf("validate: connection references unknown node %q", e.Node)
	case MissingInputPort:
		return fmt.Sprintf("validate: node %q has no input port named %q (valid: %v)", e.OnNode, e.MissingPort, e.ValidPorts)
	case MissingOutputPort:
		return fmt.Sprintf("validate: node %q has no output port named %q (valid: %v)", e.OnNode, e.MissingPort, e.ValidPorts)
	case TypeMismatch:
		return fmt.Sprintf("validate: type mismatch on connection %s->%s (toPort=%s): expected %s, got %s", e.From, e.To, e.ToPort, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("validate: %s", e.Kind)
	}
}

// connection is the resolved (from, to, toPort, fromPort) tuple validation
// works from, whether it came from an explicit edge or a synthesized
// positional one.
type connection struct {
	from, to         string
	toPort, fromPort string // empty when positional/unspecified
}

// Graph validates a single scope's node list against the catalog, using
// edges when present and falling back to each node's positional Inputs
// otherwise (spec.md §4.4 step 3).
func Graph(nodes []ir.Node, cat catalog.Catalog, edges []ir.Edge) error {
	byID := make(map[string]ir.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	// Step 1: type existence.
	for _, n := range nodes {
		if _, ok := cat[n.Type]; !ok {
			return &Error{Kind: UnknownNodeType, NodeID: n.ID, NodeType: n.Type}
		}
	}

	// Step 2: output type table.
	outType := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.Type == "Literal" {
			outType[n.ID] = types.InferLiteral(n.Properties["value"])
			continue
		}
		if outs := cat[n.Type].Outputs; len(outs) > 0 {
			outType[n.ID] = outs[0].Type
		} else {
			outType[n.ID] = types.Any
		}
	}

	// Step 3: connection list.
	conns := buildConnections(nodes, edges)

	// Step 4: endpoint check.
	for _, c := range conns {
		if _, ok := byID[c.from]; !ok {
			return &Error{Kind: UnknownEndpoint, Node: c.from}
		}
		if _, ok := byID[c.to]; !ok {
			return &Error{Kind: UnknownEndpoint, Node: c.to}
		}
	}

	// Topological order: every endpoint is known here, so graphalgo can only
	// fail with a cycle.
	gconns := make([]graphalgo.Connection, len(conns))
	for i, c := range conns {
		gconns[i] = graphalgo.Connection{From: c.from, To: c.to}
	}
	if _, err := graphalgo.TopoSort(graphalgo.NodeIDs(nodes), gconns); err != nil {
		return &Error{Kind: ErrorKind(graphalgo.Cycle)}
	}

	// Step 5/6: per-destination port binding + assignability, grouped by
	// destination in first-seen order (order only affects which error
	// surfaces first when several are wrong, not correctness).
	incoming := groupByDestination(conns)
	for _, dest := range incoming.order {
		destNode := byID[dest]
		destDef := cat[destNode.Type]
		validInputNames := portNames(destDef.Inputs)

		for idx, c := range incoming.byDest[dest] {
			expected, err := expectedType(destNode, destDef, validInputNames, c, idx)
			if err != nil {
				return err
			}

			srcNode := byID[c.from]
			srcDef := cat[srcNode.Type]
			actual, err := actualType(srcNode, srcDef, outType, c, cat)
			if err != nil {
				return err
			}

			if !types.Assignable(expected, actual) {
				return &Error{
					Kind:          TypeMismatch,
					From:          c.from,
					To:            c.to,
					ToPort:        c.toPort,
					Expected:      expected,
					Actual:        actual,
					SuggestedCast: expected,
				}
			}
		}
	}

	return nil
}

// Document validates the top-level graph and every function's subgraph.
func Document(doc ir.IR, cat catalog.Catalog) error {
	if err := Graph(doc.Nodes, cat, doc.Edges); err != nil {
		return err
	}
	for _, f := range doc.Functions {
		if err := Graph(f.Graph.Nodes, cat, f.Graph.Edges); err != nil {
			return err
		}
	}
	return nil
}

func buildConnections(nodes []ir.Node, edges []ir.Edge) []connection {
	if len(edges) > 0 {
		conns := make([]connection, len(edges))
		for i, e := range edges {
			conns[i] = connection{from: e.From, to: e.To, toPort: e.ToPort, fromPort: e.FromPort}
		}
		return conns
	}

	var conns []connection
	for _, n := range nodes {
		for _, src := range n.Inputs {
			conns = append(conns, connection{from: src, to: n.ID})
		}
	}
	return conns
}

type destinationGroups struct {
	order  []string
	byDest map[string][]connection
}

func groupByDestination(conns []connection) destinationGroups {
	g := destinationGroups{byDest: make(map[string][]connection)}
	for _, c := range conns {
		if _, ok := g.byDest[c.to]; !ok {
			g.order = append(g.order, c.to)
		}
		g.byDest[c.to] = append(g.byDest[c.to], c)
	}
	return g
}

func portNames(ports []ir.Port) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

// expectedType resolves the expected type of an incoming connection's
// destination port: named when ToPort is given, positional by index
// otherwise (permissive — "any" — once the index exceeds declared arity,
// since an unknown/external node's extra args are allowed through). idx is
// this connection's position within its destination's full incoming list,
// computed by the caller while iterating — not stored on connection,
// since the same connection slice is reused regardless of whether it came
// from explicit edges or synthesized node.Inputs.
func expectedType(destNode ir.Node, destDef catalog.Def, validInputNames []string, c connection, idx int) (string, error) {
	if c.toPort != "" {
		for _, p := range destDef.Inputs {
			if p.Name == c.toPort {
				return p.Type, nil
			}
		}
		return "", &Error{
			Kind:        MissingInputPort,
			OnNode:      destNode.ID,
			MissingPort: c.toPort,
			ValidPorts:  validInputNames,
		}
	}
	if idx < len(destDef.Inputs) {
		return destDef.Inputs[idx].Type, nil
	}
	return types.Any, nil
}

// actualType resolves the actual type of an incoming connection's source:
// named output port when FromPort is given, else the output-type table
// built in Graph's step 2.
func actualType(srcNode ir.Node, srcDef catalog.Def, outType map[string]string, c connection, cat catalog.Catalog) (string, error) {
	if c.fromPort != "" {
		if p, ok := cat.OutputPort(srcNode.Type, c.fromPort); ok {
			return p.Type, nil
		}
		names := make([]string, len(srcDef.Outputs))
		for i, p := range srcDef.Outputs {
			names[i] = p.Name
		}
		return "", &Error{
			Kind:        MissingOutputPort,
			OnNode:      srcNode.ID,
			MissingPort: c.fromPort,
			ValidPorts:  names,
		}
	}
	return outType[srcNode.ID], nil
}
