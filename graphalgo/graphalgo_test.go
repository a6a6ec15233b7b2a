package graphalgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSortOrdersDependenciesFirst(t *testing.T) {
	ids := []string{"c", "a", "b"}
	conns := []Connection{{From: "a", To: "c"}, {From: "b", To: "c"}}

	order, err := TopoSort(ids, conns)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTopoSortIsDeterministicAcrossRuns(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	conns := []Connection{{From: "a", To: "d"}, {From: "b", To: "d"}, {From: "c", To: "d"}}

	first, err := TopoSort(ids, conns)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := TopoSort(ids, conns)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopoSortRejectsTwoNodeCycle(t *testing.T) {
	ids := []string{"a", "b"}
	conns := []Connection{{From: "a", To: "b"}, {From: "b", To: "a"}}

	_, err := TopoSort(ids, conns)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, Cycle, gerr.Kind)
}

func TestTopoSortRejectsUnknownEndpoint(t *testing.T) {
	ids := []string{"a", "b"}
	conns := []Connection{{From: "a", To: "ghost"}}

	_, err := TopoSort(ids, conns)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, UnknownNode, gerr.Kind)
	assert.Equal(t, "ghost", gerr.Node)
}

func TestTopoSortNoDependenciesKeepsInsertionOrder(t *testing.T) {
	ids := []string{"x", "y", "z"}
	order, err := TopoSort(ids, nil)
	require.NoError(t, err)
	assert.Equal(t, ids, order)
}
