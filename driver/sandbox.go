package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/freneticmonkey/graphc/catalog"
	"github.com/freneticmonkey/graphc/diagmap"
	"github.com/freneticmonkey/graphc/ir"
)

const defaultExecTimeoutSeconds = 5

// SandboxRequest is the file-protocol request the driver hands to the
// (out-of-scope) sandbox runtime: the IR and catalog to compile and run,
// plus a wall-clock timeout (spec.md §5).
type SandboxRequest struct {
	RequestID string          `json:"request_id"`
	IR        ir.IR           `json:"ir"`
	Catalog   catalog.Catalog `json:"catalog"`
	TimeoutS  int             `json:"timeout_seconds"`
}

// SandboxResponse is the file-protocol response the sandbox runtime writes
// back. Success is false with Error "timeout" when the wall-clock bound in
// the request was exceeded (spec.md §5).
type SandboxResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Stdout  string   `json:"stdout,omitempty"`
	Stderr  string   `json:"stderr,omitempty"`
	Output  []string `json:"output,omitempty"`
}

// ExecTimeoutSeconds reads EXEC_TIMEOUT (seconds), defaulting to 5 when
// unset or not a valid positive integer (spec.md §6, "Environment").
func ExecTimeoutSeconds() int {
	v := os.Getenv("EXEC_TIMEOUT")
	if v == "" {
		return defaultExecTimeoutSeconds
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultExecTimeoutSeconds
	}
	return n
}

// WriteSandboxRequest writes req as formatted JSON to request.json in dir,
// the shared directory the sandbox runtime polls.
func WriteSandboxRequest(dir string, req SandboxRequest) error {
	return writeJSON(filepath.Join(dir, "request.json"), req)
}

// ReadSandboxResponse reads response.json from dir once the sandbox runtime
// has written it.
func ReadSandboxResponse(dir string) (*SandboxResponse, error) {
	data, err := os.ReadFile(filepath.Join(dir, "response.json")) // #nosec G304 -- dir is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("reading sandbox response: %w", err)
	}
	var resp SandboxResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding sandbox response: %w", err)
	}
	return &resp, nil
}

// mappingFile is the on-disk shape of the source-map file (spec.md §6,
// "Source-map file format").
type mappingFile struct {
	Mappings []mappingEntryJSON `json:"mappings"`
}

type mappingEntryJSON struct {
	NodeID    string `json:"node_id"`
	Function  string `json:"function"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartCol  int    `json:"start_col"`
	EndCol    int    `json:"end_col"`
	Port      string `json:"port"`
}

// diagnosticMappingFile is the on-disk shape of the diagnostic-mapping
// output (spec.md §6, "Diagnostic-mapping file format").
type diagnosticMappingFile struct {
	MappedErrors []diagmap.Mapped `json:"mapped_errors"`
	RawStderr    string           `json:"raw_stderr"`
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
