package emit

import (
	"strconv"

	"github.com/freneticmonkey/graphc/ir"
)

// scope is the per-emission-session state for one function body or the
// top-level main(): its own variable-name table and used-name counter,
// destroyed with it (spec.md §3, "Lifecycles"). The include set lives on
// the shared *emitter instead.
//
// Both top-level and function-scope emission of the same node kinds are
// driven from this single type (spec.md §9's "consolidate into a single
// polymorphic emit routine parameterized by scope state" — resolving the
// duplication the source repo had between the two).
type scope struct {
	e        *emitter
	function string // "" for the top-level scope (main)
	indent   int

	varNames  map[string]string
	usedNames map[string]int

	// incoming edge maps for this scope only, built once per emitGraph
	// call from the scope's own edge list — never the deduplicated
	// Node.Inputs array, so a node referencing the same upstream value
	// twice (e.g. Add(L, L)) keeps two distinct positional entries.
	incomingByPort map[string]map[string]string
	incomingPos    map[string][]string
}

func newScope(e *emitter, function string) *scope {
	return &scope{
		e:         e,
		function:  function,
		varNames:  map[string]string{},
		usedNames: map[string]int{},
	}
}

func (s *scope) indentStr() string {
	out := ""
	for i := 0; i < s.indent; i++ {
		out += "    "
	}
	return out
}

// makeVar allocates a fresh C++ variable name for nodeID: the sanitized,
// v_-prefixed base on first use, base_N (N starting at 1) on every
// subsequent collision with that same base (spec.md §4.5, "Variable
// naming").
func (s *scope) makeVar(nodeID string) string {
	base := "v_" + sanitize(nodeID)
	count := s.usedNames[base]
	s.usedNames[base] = count + 1
	if count == 0 {
		return base
	}
	return suffixed(base, count)
}

func suffixed(base string, n int) string {
	return base + "_" + strconv.Itoa(n)
}

// varOrRaw returns the variable bound to nodeID if one was emitted in this
// scope, else the raw id itself — matching the source repo's behavior of
// falling back to the literal identifier when a referenced source never
// produced a binding (spec.md never mandates this path be reachable after
// validation, but emission is intentionally permissive).
func (s *scope) varOrRaw(nodeID string) string {
	if v, ok := s.varNames[nodeID]; ok {
		return v
	}
	if nodeID == "" {
		return "0"
	}
	return nodeID
}

// resolveInput finds the source node id feeding nodeID's port: by name
// first (when portName is non-empty and an edge named it), then
// positionally by idx among this node's positional incoming edges (spec.md
// §4.5, "Operand resolution is by named port ... else positional by
// incoming-edge order").
func (s *scope) resolveInput(nodeID, portName string, idx int) (string, bool) {
	if portName != "" {
		if m, ok := s.incomingByPort[nodeID]; ok {
			if src, ok := m[portName]; ok {
				return src, true
			}
		}
	}
	if lst, ok := s.incomingPos[nodeID]; ok && idx < len(lst) {
		return lst[idx], true
	}
	return "", false
}

// bindParams maps each function parameter to the Param node that provides
// it: matched first by properties.name, then positionally among any
// unmatched Param nodes (spec.md §4.5, "Variable naming").
func (s *scope) bindParams(f ir.Function) {
	var paramNodes []ir.Node
	for _, n := range f.Graph.Nodes {
		if n.Type == "Param" {
			paramNodes = append(paramNodes, n)
		}
	}

	assigned := make(map[string]bool, len(paramNodes))
	for _, p := range f.Params {
		for _, pn := range paramNodes {
			if assigned[pn.ID] {
				continue
			}
			if name, _ := pn.Properties["name"].(string); name == p.Name {
				s.varNames[pn.ID] = p.Name
				assigned[pn.ID] = true
				break
			}
		}
	}

	pi := 0
	for _, pn := range paramNodes {
		if assigned[pn.ID] {
			continue
		}
		if pi < len(f.Params) {
			s.varNames[pn.ID] = f.Params[pi].Name
			pi++
		} else {
			s.varNames[pn.ID] = s.makeVar(pn.ID)
		}
	}
}

// emitGraph builds this scope's incoming-edge maps, determines emission
// order, and emits every node in order. It returns the order used so
// emitReturn can fall back to "last non-Param node" when a function
// doesn't name an explicit return node.
func (s *scope) emitGraph(g ir.Graph) []ir.Node {
	s.incomingByPort = map[string]map[string]string{}
	s.incomingPos = map[string][]string{}
	for _, e := range g.Edges {
		if e.ToPort != "" {
			if s.incomingByPort[e.To] == nil {
				s.incomingByPort[e.To] = map[string]string{}
			}
			s.incomingByPort[e.To][e.ToPort] = e.From
		} else {
			s.incomingPos[e.To] = append(s.incomingPos[e.To], e.From)
		}
	}

	order, ok := topoOrder(g)
	if !ok {
		s.e.sm.appendRaw(s.indentStr() + "// Warning: topological sort failed, using graph order")
	}

	for _, n := range order {
		s.emitNode(n)
	}
	return order
}
