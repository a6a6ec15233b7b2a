package diagmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freneticmonkey/graphc/emit"
)

func TestParse(t *testing.T) {
	stderr := "prog.cpp:3:12: error: use of undeclared identifier 'x'\n" +
		"prog.cpp:5: warning: unused variable 'y'\n" +
		"1 error generated.\n"

	diags := Parse(stderr)
	require.Len(t, diags, 2)

	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 12, diags[0].Col)
	assert.True(t, diags[0].HasCol)
	assert.Equal(t, "error", diags[0].Severity)

	assert.Equal(t, 5, diags[1].Line)
	assert.False(t, diags[1].HasCol)
	assert.Equal(t, "warning", diags[1].Severity)
}

func TestResolvePrefersSmallestColumnEnclosingSpan(t *testing.T) {
	mapping := []emit.MappingEntry{
		{NodeID: "outer", StartLine: 3, EndLine: 3, StartCol: 1, EndCol: 40, Port: ""},
		{NodeID: "inner", StartLine: 3, EndLine: 3, StartCol: 10, EndCol: 15, Port: "a"},
	}
	diags := []Diagnostic{{Line: 3, Col: 12, HasCol: true, Raw: "prog.cpp:3:12: error: x"}}

	mapped := Resolve(diags, mapping)
	require.Len(t, mapped, 1)
	assert.Equal(t, "inner", mapped[0].NodeID)
	assert.Equal(t, "a", mapped[0].Port)
}

func TestResolveFallsBackToLineEnclosing(t *testing.T) {
	mapping := []emit.MappingEntry{
		{NodeID: "line-node", StartLine: 5, EndLine: 5, StartCol: 1, EndCol: 20},
	}
	diags := []Diagnostic{{Line: 5, HasCol: false, Raw: "prog.cpp:5: warning: y"}}

	mapped := Resolve(diags, mapping)
	require.Len(t, mapped, 1)
	assert.Equal(t, "line-node", mapped[0].NodeID)
}

func TestResolveUnmappedWhenNothingMatches(t *testing.T) {
	mapping := []emit.MappingEntry{{NodeID: "n", StartLine: 1, EndLine: 1, StartCol: 1, EndCol: 5}}
	diags := []Diagnostic{{Line: 99, HasCol: false, Raw: "prog.cpp:99: error: z"}}

	mapped := Resolve(diags, mapping)
	require.Len(t, mapped, 1)
	assert.Empty(t, mapped[0].NodeID)
}
