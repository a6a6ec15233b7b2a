// Package catalog defines the node-definitions catalog: the read-only,
// out-of-band dictionary mapping a node type name to its port signature and
// optional library-function binding (spec.md §3, "Node definitions
// catalog").
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/freneticmonkey/graphc/ir"
)

// Lib names the C++ header to include and the function symbol to call when
// emitting a node whose type the catalog describes this way.
type Lib struct {
	Include string `json:"include"`
	Name    string `json:"name"`
}

// Def is a single node type's descriptor: its ordered input and output
// ports, and an optional library binding for unrecognized/external node
// kinds (spec.md §3).
type Def struct {
	Inputs  []ir.Port `json:"inputs,omitempty"`
	Outputs []ir.Port `json:"outputs,omitempty"`
	Lib     *Lib      `json:"lib,omitempty"`
}

// Catalog maps a node-type name to its descriptor.
type Catalog map[string]Def

// InputPort looks up a named input port on a type's declaration.
func (c Catalog) InputPort(nodeType, name string) (ir.Port, bool) {
	def, ok := c[nodeType]
	if !ok {
		return ir.Port{}, false
	}
	for _, p := range def.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return ir.Port{}, false
}

// OutputPort looks up a named output port on a type's declaration.
func (c Catalog) OutputPort(nodeType, name string) (ir.Port, bool) {
	def, ok := c[nodeType]
	if !ok {
		return ir.Port{}, false
	}
	for _, p := range def.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return ir.Port{}, false
}

// InputPortNames returns the declared input port names for a node type, in
// catalog order — the same list a MissingInputPort validate.Error carries
// in ValidPorts.
func (c Catalog) InputPortNames(nodeType string) []string {
	def := c[nodeType]
	names := make([]string, len(def.Inputs))
	for i, p := range def.Inputs {
		names[i] = p.Name
	}
	return names
}

// Load reads a node-definitions catalog from path, accepting the same
// JSON/YAML duality as ir.Load.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	jsonData, err := toJSON(data, path)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	var cat Catalog
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decoding catalog file %s: %w", path, err)
	}
	return cat, nil
}

func toJSON(data []byte, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return json.Marshal(raw)
	default:
		return data, nil
	}
}
