// Package emit walks a topologically ordered graph and emits deterministic
// C++ source, recording a source map that ties every emitted span back to
// its originating (node_id, port) (spec.md §4.5, §4.6).
package emit

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/freneticmonkey/graphc/catalog"
	"github.com/freneticmonkey/graphc/graphalgo"
	"github.com/freneticmonkey/graphc/ir"
	"github.com/freneticmonkey/graphc/types"
)

// Result is the emitter's output: the translation unit's source text plus
// its source map.
type Result struct {
	Source  string
	Mapping []MappingEntry
}

// emitter holds the state shared across every scope of one compile: the
// include set (process-wide, per spec.md's "Include set as global-ish
// state" design note — owned by this session, not a package singleton) and
// the growing line buffer / mapping list.
type emitter struct {
	doc      ir.IR
	cat      catalog.Catalog
	includes map[string]bool
	sm       sourceMap
}

// Emit compiles a normalized IR document and catalog into a single C++
// translation unit: sorted includes, one function per IR function (in IR
// order), then int main() emitting the top-level graph (spec.md §6,
// "Emitted C++ contract"). The caller is expected to have already run
// normalize.Document and validate.Document; Emit does not re-validate.
func Emit(doc ir.IR, cat catalog.Catalog) (*Result, error) {
	e := &emitter{
		doc:      doc,
		cat:      cat,
		includes: map[string]bool{},
	}
	for _, inc := range doc.Imports {
		e.includes[inc] = true
	}

	for _, f := range doc.Functions {
		for _, n := range f.Graph.Nodes {
			e.addLibInclude(n.Type)
			e.addStringInclude(n)
		}
	}
	for _, n := range doc.Nodes {
		e.addLibInclude(n.Type)
		e.addStringInclude(n)
	}
	if !e.hasIostream() {
		e.includes["<iostream>"] = true
	}

	e.emitIncludes()

	for _, f := range doc.Functions {
		e.emitFunction(f)
	}

	e.emitMain()

	e.sm.finalize()

	return &Result{
		Source:  strings.Join(e.sm.lines, "\n"),
		Mapping: e.sm.entries,
	}, nil
}

func (e *emitter) hasIostream() bool {
	for inc := range e.includes {
		if strings.Contains(inc, "iostream") {
			return true
		}
	}
	return false
}

func (e *emitter) addLibInclude(nodeType string) {
	if lib := e.cat[nodeType].Lib; lib != nil && lib.Include != "" {
		e.includes[lib.Include] = true
	}
}

// addStringInclude pre-scans a node for std::string usage that emitLiteral
// / emitCast would otherwise only discover mid-emission, after the include
// block has already been printed: a Literal holding a string value, or a
// Cast whose target type canonicalizes to string.
func (e *emitter) addStringInclude(n ir.Node) {
	switch n.Type {
	case "Literal":
		if _, ok := n.Properties["value"].(string); ok {
			e.includes["<string>"] = true
		}
	case "Cast":
		if target, _ := n.Properties["targetType"].(string); types.Canonicalize(target) == types.String {
			e.includes["<string>"] = true
		}
	}
}

func (e *emitter) emitIncludes() {
	sorted := make([]string, 0, len(e.includes))
	for inc := range e.includes {
		sorted = append(sorted, inc)
	}
	sort.Strings(sorted)
	for _, inc := range sorted {
		e.sm.appendRaw("#include " + inc)
	}
	e.sm.appendRaw("")
}

func (e *emitter) emitMain() {
	e.sm.appendRaw("int main() {")
	s := newScope(e, "")
	s.indent = 1
	s.emitGraph(ir.Graph{Nodes: e.doc.Nodes, Edges: e.doc.Edges})
	e.sm.appendRaw(s.indentStr() + "return 0;")
	e.sm.appendRaw("}")
}

func (e *emitter) emitFunction(f ir.Function) {
	cppReturn := "void"
	if f.ReturnType != "" {
		cppReturn = cppType(f.ReturnType)
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", cppType(p.Type), p.Name)
	}
	sig := fmt.Sprintf("%s %s(%s) {", cppReturn, f.Name, strings.Join(params, ", "))
	e.sm.appendRaw(sig)

	s := newScope(e, f.Name)
	s.indent = 1
	s.bindParams(f)
	order := s.emitGraph(f.Graph)
	s.emitReturn(f, order)

	e.sm.appendRaw("}")
	e.sm.appendRaw("")
}

// sanitize turns a node id into a valid C++ identifier fragment: invalid
// characters become '_', and a leading digit is prefixed with '_'.
var nonWord = regexp.MustCompile(`[^0-9a-zA-Z_]`)
var leadingDigit = regexp.MustCompile(`^[0-9]`)

func sanitize(nodeID string) string {
	s := nonWord.ReplaceAllString(nodeID, "_")
	if leadingDigit.MatchString(s) {
		s = "_" + s
	}
	return s
}

// cppType maps a canonical (or verbatim, for unknown types) lattice type
// to its C++ spelling.
func cppType(t string) string {
	switch types.Canonicalize(t) {
	case types.Double:
		return "double"
	case types.Int:
		return "int"
	case types.String:
		return "std::string"
	case types.Bool:
		return "bool"
	case types.Any:
		return "auto"
	default:
		return t
	}
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return r.Replace(s)
}

// topoOrder runs graphalgo.TopoSort over a graph's nodes; on failure it
// returns the graph's insertion order and ok=false so the caller can emit a
// warning comment and proceed (spec.md §4.5, "emission ... intentionally
// permissive" — validation already ran before emission reaches this point).
func topoOrder(g ir.Graph) (order []ir.Node, ok bool) {
	ids := graphalgo.NodeIDs(g.Nodes)
	conns := graphalgo.ConnectionsFromGraph(g.Nodes, g.Edges)
	sorted, err := graphalgo.TopoSort(ids, conns)
	if err != nil {
		return g.Nodes, false
	}
	byID := make(map[string]ir.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	ordered := make([]ir.Node, len(sorted))
	for i, id := range sorted {
		ordered[i] = byID[id]
	}
	return ordered, true
}
