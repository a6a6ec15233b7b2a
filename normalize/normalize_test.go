package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freneticmonkey/graphc/ir"
)

func TestGraphSynthesizesEdgesFromInputs(t *testing.T) {
	g := ir.Graph{
		Nodes: []ir.Node{
			{ID: "lit", Type: "Literal"},
			{ID: "print", Type: "Print", Inputs: []string{"lit"}},
		},
	}

	got := Graph(g)
	require.Len(t, got.Edges, 1)
	assert.Equal(t, ir.Edge{From: "lit", To: "print"}, got.Edges[0])

	byID := map[string]ir.Node{}
	for _, n := range got.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, []string{"print"}, byID["lit"].Outputs)
	assert.Equal(t, []string{"lit"}, byID["print"].Inputs)
}

func TestGraphKeepsExplicitEdgesAsCanonical(t *testing.T) {
	g := ir.Graph{
		Nodes: []ir.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []ir.Edge{{From: "a", To: "c"}, {From: "b", To: "c"}},
	}

	got := Graph(g)
	assert.Equal(t, g.Edges, got.Edges)
}

func TestGraphDropsEdgesToUnknownNodes(t *testing.T) {
	g := ir.Graph{
		Nodes: []ir.Node{{ID: "a"}},
		Edges: []ir.Edge{{From: "a", To: "ghost"}},
	}

	got := Graph(g)
	assert.Empty(t, got.Edges)
}

func TestGraphPreservesDuplicateOperandEdges(t *testing.T) {
	// Add(L, L): two edges from the same source to the same destination
	// must survive normalization distinctly, since the emitter relies on
	// them to produce two separately-mapped operand spans.
	g := ir.Graph{
		Nodes: []ir.Node{{ID: "L"}, {ID: "add"}},
		Edges: []ir.Edge{{From: "L", To: "add"}, {From: "L", To: "add"}},
	}

	got := Graph(g)
	assert.Len(t, got.Edges, 2)
}

func TestGraphIsIdempotent(t *testing.T) {
	g := ir.Graph{
		Nodes: []ir.Node{
			{ID: "lit", Type: "Literal"},
			{ID: "print", Type: "Print", Inputs: []string{"lit"}},
		},
	}

	once := Graph(g)
	twice := Graph(once)
	assert.Equal(t, once, twice)
}

func TestDocumentNormalizesFunctionsToo(t *testing.T) {
	doc := ir.IR{
		Functions: []ir.Function{
			{
				Name: "addOne",
				Graph: ir.Graph{
					Nodes: []ir.Node{
						{ID: "p", Type: "Param"},
						{ID: "ret", Type: "Cast", Inputs: []string{"p"}},
					},
				},
			},
		},
	}

	got := Document(doc)
	require.Len(t, got.Functions, 1)
	assert.Len(t, got.Functions[0].Graph.Edges, 1)
}
