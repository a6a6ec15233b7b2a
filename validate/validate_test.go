package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freneticmonkey/graphc/catalog"
	"github.com/freneticmonkey/graphc/ir"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		"Literal": catalog.Def{Outputs: []ir.Port{{Name: "out", Type: "any"}}},
		"Print":   catalog.Def{Inputs: []ir.Port{{Name: "value", Type: "any"}}},
		"Cast":    catalog.Def{Inputs: []ir.Port{{Name: "in", Type: "any"}}, Outputs: []ir.Port{{Name: "out", Type: "any"}}},
		"Add": catalog.Def{
			Inputs:  []ir.Port{{Name: "a", Type: "double"}, {Name: "b", Type: "double"}},
			Outputs: []ir.Port{{Name: "out", Type: "double"}},
		},
	}
}

func TestGraphAcceptsIntLiteralIntoDoubleInput(t *testing.T) {
	nodes := []ir.Node{
		{ID: "L1", Type: "Literal", Properties: map[string]any{"value": 3}},
		{ID: "L2", Type: "Literal", Properties: map[string]any{"value": 4}},
		{ID: "sum", Type: "Add"},
	}
	edges := []ir.Edge{
		{From: "L1", To: "sum", ToPort: "a"},
		{From: "L2", To: "sum", ToPort: "b"},
	}

	err := Graph(nodes, testCatalog(), edges)
	assert.NoError(t, err)
}

func TestGraphRejectsUnknownNodeType(t *testing.T) {
	nodes := []ir.Node{{ID: "n1", Type: "Mystery"}}

	err := Graph(nodes, testCatalog(), nil)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnknownNodeType, verr.Kind)
	assert.Equal(t, "n1", verr.NodeID)
}

func TestGraphRejectsUnknownEndpoint(t *testing.T) {
	nodes := []ir.Node{{ID: "a", Type: "Literal", Properties: map[string]any{"value": 1}}}
	edges := []ir.Edge{{From: "a", To: "ghost"}}

	err := Graph(nodes, testCatalog(), edges)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnknownEndpoint, verr.Kind)
	assert.Equal(t, "ghost", verr.Node)
}

func TestGraphReportsMissingInputPortWithValidPorts(t *testing.T) {
	nodes := []ir.Node{
		{ID: "L", Type: "Literal", Properties: map[string]any{"value": 1}},
		{ID: "sum", Type: "Add"},
	}
	edges := []ir.Edge{{From: "L", To: "sum", ToPort: "c"}}

	err := Graph(nodes, testCatalog(), edges)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MissingInputPort, verr.Kind)
	assert.Equal(t, "c", verr.MissingPort)
	assert.ElementsMatch(t, []string{"a", "b"}, verr.ValidPorts)
}

func TestGraphReportsTypeMismatchWithSuggestedCast(t *testing.T) {
	nodes := []ir.Node{
		{ID: "S", Type: "Literal", Properties: map[string]any{"value": "hi"}},
		{ID: "sum", Type: "Add"},
	}
	edges := []ir.Edge{{From: "S", To: "sum", ToPort: "a"}}

	err := Graph(nodes, testCatalog(), edges)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TypeMismatch, verr.Kind)
	assert.Equal(t, "double", verr.Expected)
	assert.Equal(t, "string", verr.Actual)
	assert.Equal(t, "double", verr.SuggestedCast)
}

func TestGraphValidatesPositionalInputsWhenNoEdges(t *testing.T) {
	nodes := []ir.Node{
		{ID: "L1", Type: "Literal", Properties: map[string]any{"value": 3}},
		{ID: "L2", Type: "Literal", Properties: map[string]any{"value": 4}},
		{ID: "sum", Type: "Add", Inputs: []string{"L1", "L2"}},
	}

	err := Graph(nodes, testCatalog(), nil)
	assert.NoError(t, err)
}

func TestGraphPositionalIndexInExplicitEdgesMatchesPerDestinationOrder(t *testing.T) {
	cat := testCatalog()
	cat["Mix"] = catalog.Def{
		Inputs: []ir.Port{{Name: "a", Type: "double"}, {Name: "b", Type: "string"}},
	}
	nodes := []ir.Node{
		{ID: "L1", Type: "Literal", Properties: map[string]any{"value": 1}},
		{ID: "L2", Type: "Literal", Properties: map[string]any{"value": 2}},
		{ID: "m", Type: "Mix"},
	}
	// Two untagged (positional) edges into the same destination within an
	// explicit edges list: the second must resolve against input port b
	// (index 1), not fall back to index 0 for every untagged edge.
	edges := []ir.Edge{
		{From: "L1", To: "m"},
		{From: "L2", To: "m"},
	}

	err := Graph(nodes, cat, edges)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, TypeMismatch, verr.Kind)
	assert.Equal(t, "string", verr.Expected)
	assert.Equal(t, "int", verr.Actual)
}

func TestDocumentValidatesEveryFunction(t *testing.T) {
	doc := ir.IR{
		Functions: []ir.Function{
			{
				Name: "broken",
				Graph: ir.Graph{
					Nodes: []ir.Node{{ID: "n1", Type: "Mystery"}},
				},
			},
		},
	}

	err := Document(doc, testCatalog())
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnknownNodeType, verr.Kind)
}
