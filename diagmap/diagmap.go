// Package diagmap parses C++ compiler diagnostics and resolves each one to
// the smallest mapping entry in a source map whose span encloses the
// diagnostic's (line, column), so a downstream tool can attribute a raw
// compiler error back to the graph node and port that produced it (spec.md
// §4.7).
package diagmap

import (
	"regexp"
	"strconv"

	"github.com/freneticmonkey/graphc/emit"
)

// diagnosticPattern matches "file:line[:col]: (warning|error): message".
var diagnosticPattern = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(warning|error):\s*(.*)$`)

// Diagnostic is one parsed line of compiler output.
type Diagnostic struct {
	File     string
	Line     int
	Col      int
	HasCol   bool
	Severity string
	Message  string
	Raw      string
}

// Mapped is a diagnostic resolved against a source map.
type Mapped struct {
	Error    string `json:"error"`
	NodeID   string `json:"node_id,omitempty"`
	Function string `json:"function,omitempty"`
	Port     string `json:"port,omitempty"`
}

// Parse splits raw compiler stderr into one Diagnostic per matching line.
// Lines that don't match the expected pattern (e.g. a linker banner) are
// skipped.
func Parse(stderr string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range splitLines(stderr) {
		m := diagnosticPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := Diagnostic{
			File:     m[1],
			Severity: m[4],
			Message:  m[5],
			Raw:      line,
		}
		d.Line, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			d.Col, _ = strconv.Atoi(m[3])
			d.HasCol = true
		}
		diags = append(diags, d)
	}
	return diags
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// Resolve maps each diagnostic against mapping: the column-enclosing entry
// with the smallest (line-span, col-span) wins when the diagnostic carries
// a column; otherwise (or if no column match exists) the smallest
// line-enclosing entry wins. A diagnostic that matches nothing resolves
// with NodeID left empty (spec.md §4.7, §7 — "degrade gracefully").
func Resolve(diags []Diagnostic, mapping []emit.MappingEntry) []Mapped {
	out := make([]Mapped, len(diags))
	for i, d := range diags {
		out[i] = resolveOne(d, mapping)
	}
	return out
}

func resolveOne(d Diagnostic, mapping []emit.MappingEntry) Mapped {
	result := Mapped{Error: d.Raw}

	if d.HasCol {
		if e, ok := bestColumnMatch(d, mapping); ok {
			result.NodeID = e.NodeID
			result.Function = e.Function
			result.Port = e.Port
			return result
		}
	}

	if e, ok := bestLineMatch(d, mapping); ok {
		result.NodeID = e.NodeID
		result.Function = e.Function
		result.Port = e.Port
	}
	return result
}

func bestColumnMatch(d Diagnostic, mapping []emit.MappingEntry) (emit.MappingEntry, bool) {
	var best emit.MappingEntry
	bestLineSpan, bestColSpan := -1, -1
	found := false

	for _, e := range mapping {
		if d.Line < e.StartLine || d.Line > e.EndLine {
			continue
		}
		if d.Col < e.StartCol || d.Col > e.EndCol {
			continue
		}
		lineSpan := e.EndLine - e.StartLine
		colSpan := e.EndCol - e.StartCol
		if !found || lineSpan < bestLineSpan || (lineSpan == bestLineSpan && colSpan < bestColSpan) {
			best, bestLineSpan, bestColSpan, found = e, lineSpan, colSpan, true
		}
	}
	return best, found
}

func bestLineMatch(d Diagnostic, mapping []emit.MappingEntry) (emit.MappingEntry, bool) {
	var best emit.MappingEntry
	bestSpan := -1
	found := false

	for _, e := range mapping {
		if d.Line < e.StartLine || d.Line > e.EndLine {
			continue
		}
		span := e.EndLine - e.StartLine
		if !found || span < bestSpan {
			best, bestSpan, found = e, span, true
		}
	}
	return best, found
}
