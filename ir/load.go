package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads an IR document from path. Files with a .yaml or .yml extension
// are parsed as YAML and re-encoded to JSON before being unmarshalled into
// the same struct the JSON path uses, so there is exactly one decode
// routine regardless of source format (grounded on the pack's
// yamlToJSONIfNeeded front-end convention).
//
// Numeric properties are decoded with json.Number preserved rather than
// collapsed to float64, so types.InferLiteral can still distinguish an
// integer literal ("3") from a floating one ("3.0") the way the source
// representation this lattice was distilled from does.
func Load(path string) (*IR, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading IR file: %w", err)
	}

	jsonData, err := toJSON(data, path)
	if err != nil {
		return nil, fmt.Errorf("parsing IR file %s: %w", path, err)
	}

	var doc IR
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding IR file %s: %w", path, err)
	}
	return &doc, nil
}

// toJSON converts YAML source to JSON when path's extension indicates YAML;
// JSON source is returned unchanged.
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
