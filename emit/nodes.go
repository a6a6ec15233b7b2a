package emit

import (
	"encoding/json"
	"fmt"

	"github.com/freneticmonkey/graphc/ir"
)

// numberText renders a numeric literal's original textual form. IR
// documents are decoded with json.Number preserved (see ir.Load), so this
// also accepts the bare int/float64 a value might carry when constructed
// directly in Go (e.g. in tests) rather than decoded from JSON.
func numberText(val any) (string, bool) {
	switch v := val.(type) {
	case json.Number:
		return v.String(), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	case float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

var binaryOps = map[string]string{
	"Add": "+",
	"Sub": "-",
	"Mul": "*",
	"Div": "/",
}

// emitNode emits one node's binding (or statement) in this scope, then
// records a coarse mapping entry spanning every line it produced — in
// addition to whatever precise, marker-based entries its fragments
// recorded. Param nodes emit nothing and record no mapping entry (spec.md
// §8: "for every node ... except Param, there exists at least one mapping
// entry").
func (s *scope) emitNode(n ir.Node) {
	if n.Type == "Param" {
		if _, ok := s.varNames[n.ID]; !ok {
			s.varNames[n.ID] = s.makeVar(n.ID)
		}
		return
	}

	start := len(s.e.sm.lines) + 1

	switch n.Type {
	case "Literal":
		s.emitLiteral(n)
	case "Cast":
		s.emitCast(n)
	case "Add", "Sub", "Mul", "Div":
		s.emitBinary(n)
	case "Print":
		s.emitPrint(n)
	case "Call":
		s.emitCall(n)
	default:
		s.emitExternOrUnknown(n)
	}

	end := len(s.e.sm.lines)
	s.e.sm.record(n.ID, start, end, s.function, "")
}

func (s *scope) emitLiteral(n ir.Node) {
	val := n.Properties["value"]
	ctype, lit := literalRender(val)
	v := s.makeVar(n.ID)
	s.varNames[n.ID] = v
	s.e.sm.appendLine([]fragment{
		{text: s.indentStr() + ctype + " " + v + " = "},
		{text: lit, marker: &marker{nodeID: n.ID, port: "out"}},
		{text: ";"},
	}, s.function)
}

// literalRender renders a Literal's declared C++ type and literal text.
// Per spec.md §3, the emitted type widens both integer and floating
// literals to double, even though validate.Graph's output-type table
// distinguishes them (the "documented quirk" in spec.md §9).
func literalRender(val any) (ctype, lit string) {
	switch v := val.(type) {
	case bool:
		if v {
			return "bool", "true"
		}
		return "bool", "false"
	case string:
		return "std::string", `"` + escapeString(v) + `"`
	default:
		if s, ok := numberText(val); ok {
			return "double", s
		}
		return "auto", fmt.Sprintf("%v", val)
	}
}

func (s *scope) emitCast(n ir.Node) {
	target, _ := n.Properties["targetType"].(string)
	if target == "" {
		target = "double"
	}
	src, _ := s.resolveInput(n.ID, "in", 0)
	inExpr := s.varOrRaw(src)

	tgt := cppType(target)
	var expr string
	if tgt == "std::string" {
		expr = "std::to_string(" + inExpr + ")"
	} else {
		expr = "static_cast<" + tgt + ">(" + inExpr + ")"
	}

	v := s.makeVar(n.ID)
	s.varNames[n.ID] = v
	s.e.sm.appendLine([]fragment{
		{text: s.indentStr() + tgt + " " + v + " = "},
		{text: expr, marker: &marker{nodeID: n.ID, port: "in"}},
		{text: ";"},
	}, s.function)
}

func (s *scope) emitBinary(n ir.Node) {
	def := s.e.cat[n.Type]
	var aPort, bPort string
	var aSrc, bSrc string
	if len(def.Inputs) >= 2 {
		aPort, bPort = def.Inputs[0].Name, def.Inputs[1].Name
		aSrc, _ = s.resolveInput(n.ID, aPort, 0)
		bSrc, _ = s.resolveInput(n.ID, bPort, 1)
	}
	if aSrc == "" {
		aSrc, _ = s.resolveInput(n.ID, "", 0)
	}
	if bSrc == "" {
		bSrc, _ = s.resolveInput(n.ID, "", 1)
	}
	if aPort == "" {
		aPort = "a"
	}
	if bPort == "" {
		bPort = "b"
	}

	v := s.makeVar(n.ID)
	s.varNames[n.ID] = v
	s.e.sm.appendLine([]fragment{
		{text: s.indentStr() + "double " + v + " = "},
		{text: s.varOrRaw(aSrc), marker: &marker{nodeID: n.ID, port: aPort}},
		{text: " " + binaryOps[n.Type] + " "},
		{text: s.varOrRaw(bSrc), marker: &marker{nodeID: n.ID, port: bPort}},
		{text: ";"},
	}, s.function)
}

func (s *scope) emitPrint(n ir.Node) {
	def := s.e.cat["Print"]
	var srcPort string
	var src string
	if len(def.Inputs) >= 1 {
		srcPort = def.Inputs[0].Name
		src, _ = s.resolveInput(n.ID, srcPort, 0)
	}
	if src == "" {
		src, _ = s.resolveInput(n.ID, "", 0)
	}
	if src == "" {
		s.e.sm.appendRaw(s.indentStr() + "// Print node " + n.ID + " has no input")
		return
	}
	if srcPort == "" {
		srcPort = "value"
	}
	s.e.sm.appendLine([]fragment{
		{text: s.indentStr() + "std::cout << "},
		{text: s.varOrRaw(src), marker: &marker{nodeID: n.ID, port: srcPort}},
		{text: " << std::endl;"},
	}, s.function)
}

func (s *scope) emitCall(n ir.Node) {
	fname, _ := n.Properties["name"].(string)
	fdef, found := findFunction(s.e.doc.Functions, fname)

	var args []fragment
	if found {
		for idx, p := range fdef.Params {
			src, ok := s.resolveInput(n.ID, p.Name, idx)
			if !ok {
				src, _ = s.resolveInput(n.ID, "", idx)
			}
			if idx > 0 {
				args = append(args, fragment{text: ", "})
			}
			args = append(args, fragment{text: s.varOrRaw(src), marker: &marker{nodeID: n.ID, port: p.Name}})
		}
	} else {
		for idx, src := range s.incomingPos[n.ID] {
			if idx > 0 {
				args = append(args, fragment{text: ", "})
			}
			args = append(args, fragment{text: s.varOrRaw(src), marker: &marker{nodeID: n.ID, port: fmt.Sprintf("arg%d", idx)}})
		}
	}

	retType := "auto"
	if found {
		retType = cppType(fdef.ReturnType)
	}

	v := s.makeVar(n.ID)
	s.varNames[n.ID] = v
	frags := append([]fragment{{text: s.indentStr() + retType + " " + v + " = " + fname + "("}}, args...)
	frags = append(frags, fragment{text: ");"})
	s.e.sm.appendLine(frags, s.function)
}

func findFunction(funcs []ir.Function, name string) (ir.Function, bool) {
	for _, f := range funcs {
		if f.Name == name {
			return f, true
		}
	}
	return ir.Function{}, false
}

// emitExternOrUnknown handles any node type the compiler doesn't recognize
// natively: if the catalog provides a lib binding, emit a call to it;
// otherwise emit a comment marker (spec.md §3, "Any unrecognized type").
func (s *scope) emitExternOrUnknown(n ir.Node) {
	def := s.e.cat[n.Type]
	if def.Lib == nil {
		s.e.sm.appendLine([]fragment{
			{text: s.indentStr() + fmt.Sprintf("// Unhandled node %s of type %s", n.ID, n.Type), marker: &marker{nodeID: n.ID, port: ""}},
		}, s.function)
		return
	}

	var args []fragment
	if len(def.Inputs) > 0 {
		for idx, p := range def.Inputs {
			src, ok := s.resolveInput(n.ID, p.Name, idx)
			if !ok {
				src, _ = s.resolveInput(n.ID, "", idx)
			}
			if idx > 0 {
				args = append(args, fragment{text: ", "})
			}
			args = append(args, fragment{text: s.varOrRaw(src), marker: &marker{nodeID: n.ID, port: p.Name}})
		}
	} else {
		for idx, src := range s.incomingPos[n.ID] {
			if idx > 0 {
				args = append(args, fragment{text: ", "})
			}
			args = append(args, fragment{text: s.varOrRaw(src), marker: &marker{nodeID: n.ID, port: fmt.Sprintf("arg%d", idx)}})
		}
	}

	outType := "double"
	if len(def.Outputs) > 0 {
		outType = cppType(def.Outputs[0].Type)
	}

	v := s.makeVar(n.ID)
	s.varNames[n.ID] = v
	frags := append([]fragment{{text: s.indentStr() + outType + " " + v + " = " + def.Lib.Name + "("}}, args...)
	frags = append(frags, fragment{text: ");"})
	s.e.sm.appendLine(frags, s.function)
}

// emitReturn emits a function's trailing return statement, resolving the
// return node from the graph's explicit Return, or else the last non-Param
// node in the order actually emitted (spec.md §4.5, "Return emission").
func (s *scope) emitReturn(f ir.Function, order []ir.Node) {
	if f.ReturnType == "" || f.ReturnType == "void" {
		return
	}

	retID := f.Graph.Return
	if retID == "" {
		for i := len(order) - 1; i >= 0; i-- {
			if order[i].Type != "Param" {
				retID = order[i].ID
				break
			}
		}
	}

	expr := s.varOrRaw(retID)
	retNodeID := f.Name + "::return"
	s.e.sm.appendLine([]fragment{
		{text: s.indentStr() + "return "},
		{text: expr, marker: &marker{nodeID: retNodeID, port: "value"}},
		{text: ";"},
	}, s.function)
	line := len(s.e.sm.lines)
	s.e.sm.record(retNodeID, line, line, s.function, "")
}
