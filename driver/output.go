package driver

import (
	"fmt"
	"os"

	"github.com/freneticmonkey/graphc/diagmap"
	"github.com/freneticmonkey/graphc/emit"
)

// WriteSource writes the emitted C++ translation unit to path.
func WriteSource(path string, source string) error {
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		return fmt.Errorf("writing source file %s: %w", path, err)
	}
	return nil
}

// WriteMapping writes mapping as the source-map file (spec.md §6,
// "Source-map file format").
func WriteMapping(path string, mapping []emit.MappingEntry) error {
	file := mappingFile{Mappings: make([]mappingEntryJSON, len(mapping))}
	for i, e := range mapping {
		file.Mappings[i] = mappingEntryJSON{
			NodeID:    e.NodeID,
			Function:  e.Function,
			StartLine: e.StartLine,
			EndLine:   e.EndLine,
			StartCol:  e.StartCol,
			EndCol:    e.EndCol,
			Port:      e.Port,
		}
	}
	return writeJSON(path, file)
}

// WriteDiagnosticMapping writes a compiler diagnostic mapping result to
// path (spec.md §6, "Diagnostic-mapping file format").
func WriteDiagnosticMapping(path string, mapped []diagmap.Mapped, rawStderr string) error {
	return writeJSON(path, diagnosticMappingFile{MappedErrors: mapped, RawStderr: rawStderr})
}

// MapDiagnostics parses rawStderr and resolves each diagnostic against
// mapping, ready for WriteDiagnosticMapping.
func MapDiagnostics(rawStderr string, mapping []emit.MappingEntry) []diagmap.Mapped {
	return diagmap.Resolve(diagmap.Parse(rawStderr), mapping)
}
