// Package types implements the type lattice used by the validator and the
// emitter: canonicalizing the handful of type-name spellings the IR and the
// node-definitions catalog may use, deciding assignability between a
// destination's expected type and a source's actual type, and inferring the
// type of a Literal node from its property value.
package types

import (
	"encoding/json"
	"strings"
)

// Canonical type families. Anything outside this set is kept verbatim by
// Canonicalize (identity mapping) so that catalog authors can name external
// C++ types (e.g. "MyStruct*") without the lattice rejecting them.
const (
	Double = "double"
	Int    = "int"
	String = "string"
	Bool   = "bool"
	Any    = "any"
)

// Canonicalize normalizes a raw type name from the IR or catalog into one of
// the lattice's canonical families:
//
//	number | double | float -> double
//	int                     -> int
//	string                  -> string
//	bool                    -> bool
//	any | auto              -> any
//
// Anything else is returned unchanged, so a domain-specific type name flows
// through the lattice as an opaque, self-compatible family.
func Canonicalize(t string) string {
	switch t {
	case "":
		return Any
	case "number", "double", "float":
		return Double
	case "int":
		return Int
	case "string":
		return String
	case "bool":
		return Bool
	case "any", "auto":
		return Any
	default:
		return t
	}
}

// Assignable reports whether a value of the actual type can be assigned to a
// destination expecting the expected type, after canonicalization:
//
//   - any on either side is always compatible.
//   - identical canonical families are compatible.
//   - int widens to double.
//
// Every other pairing is incompatible.
func Assignable(expected, actual string) bool {
	e := Canonicalize(expected)
	a := Canonicalize(actual)
	if e == Any || a == Any {
		return true
	}
	if e == a {
		return true
	}
	if e == Double && a == Int {
		return true
	}
	return false
}

// InferLiteral determines the canonical type of a Literal node's property
// value. Booleans are checked before integers, mirroring the
// dynamically-typed source languages this lattice was distilled from, where
// a bool is also an int and would otherwise be read as a numeric type; in
// this Go type switch a bool never matches the integer cases.
//
// IR documents are decoded with json.Number preserved (see ir.Load), so a
// numeric property keeps the distinction between "3" (int) and "3.0"
// (double) that a plain float64 decode would erase — the same distinction
// the lattice's source representation draws between int and double
// literals.
func InferLiteral(value any) string {
	switch v := value.(type) {
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Double
	case json.Number:
		if isIntegerLiteral(v.String()) {
			return Int
		}
		return Double
	case string:
		return String
	default:
		_ = v
		return Any
	}
}

func isIntegerLiteral(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}
