package emit

// MappingEntry links a (line, column) range of the emitted C++ back to a
// (node_id, port) pair in the IR (spec.md §3, "Mapping entry"). Lines and
// columns are 1-based. Port is empty when an entry attributes a whole line
// to a node generically rather than to one specific operand.
type MappingEntry struct {
	NodeID    string `json:"node_id"`
	Function  string `json:"function,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartCol  int    `json:"start_col"`
	EndCol    int    `json:"end_col"`
	Port      string `json:"port,omitempty"`
}

// marker tags a fragment's character range with the (node_id, port) it
// should be mapped to.
type marker struct {
	nodeID string
	port   string
}

// fragment is one piece of an emitted line: literal text, optionally
// tagged with a marker. Reifying a line as an ordered fragment list lets
// the emitter build the final string and the span table in the same pass,
// without in-source comment markers or a post-hoc parser (spec.md §9).
type fragment struct {
	text   string
	marker *marker
}

// sourceMap accumulates mapping entries during emission and refines the
// coarse ones (no column bounds yet) once all lines are known.
type sourceMap struct {
	lines   []string
	entries []MappingEntry
}

// appendLine concatenates fragments into one line of output, appends it,
// and records a precise mapping entry for every marked fragment — tracking
// column bookkeeping as offset+1 .. offset+len(text). Returns the 1-based
// line number of the line just appended.
func (sm *sourceMap) appendLine(fragments []fragment, function string) int {
	var text string
	for _, f := range fragments {
		text += f.text
	}
	sm.lines = append(sm.lines, text)
	lineNo := len(sm.lines)

	offset := 0
	for _, f := range fragments {
		if f.marker != nil {
			sm.entries = append(sm.entries, MappingEntry{
				NodeID:    f.marker.nodeID,
				Function:  function,
				StartLine: lineNo,
				EndLine:   lineNo,
				StartCol:  offset + 1,
				EndCol:    offset + len(f.text),
				Port:      f.marker.port,
			})
		}
		offset += len(f.text)
	}
	return lineNo
}

// appendRaw appends a plain line (e.g. a function signature, a brace, an
// unmarked comment) with no mapping entry of its own.
func (sm *sourceMap) appendRaw(line string) int {
	sm.lines = append(sm.lines, line)
	return len(sm.lines)
}

// record appends a coarse (node_id, start_line, end_line) entry whose
// columns are filled in by finalize: start_col becomes the first non-space
// character of the start line, end_col the length of the end line.
func (sm *sourceMap) record(nodeID string, startLine, endLine int, function, port string) {
	sm.entries = append(sm.entries, MappingEntry{
		NodeID:    nodeID,
		Function:  function,
		StartLine: startLine,
		EndLine:   endLine,
		Port:      port,
	})
}

// finalize fills in the column bounds of every coarse entry (StartCol/EndCol
// left at zero) based on the now-complete line buffer.
func (sm *sourceMap) finalize() {
	for i := range sm.entries {
		e := &sm.entries[i]
		if e.StartCol != 0 || e.EndCol != 0 {
			continue
		}
		if e.StartLine >= 1 && e.StartLine <= len(sm.lines) {
			line := sm.lines[e.StartLine-1]
			e.StartCol = firstNonSpace(line)
		}
		if e.EndLine >= 1 && e.EndLine <= len(sm.lines) {
			e.EndCol = len(sm.lines[e.EndLine-1])
		}
	}
}

func firstNonSpace(line string) int {
	for i, r := range line {
		if r != ' ' {
			return i + 1
		}
	}
	return len(line) + 1
}
