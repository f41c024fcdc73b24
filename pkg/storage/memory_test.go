package storage

import (
	"testing"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateRejectsDuplicate(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("g"))
	assert.ErrorIs(t, m.Create("g"), ErrGraphExists)
}

func TestMemoryStoreGetReturnsIndependentClone(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("g"))
	n, err := m.AddNode("g", "Person", map[string]string{"name": "ada"})
	require.NoError(t, err)

	clone, ok := m.Get("g")
	require.True(t, ok)
	clone.Nodes[n.ID].Properties["name"] = "mutated"

	again, ok := m.Get("g")
	require.True(t, ok)
	assert.Equal(t, "ada", again.Nodes[n.ID].Properties["name"])
}

func TestMemoryStoreAddNodeUnknownGraph(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.AddNode("missing", "X", nil)
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestMemoryStoreUpdateNodeNotFound(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("g"))
	err := m.UpdateNode("g", 99, "X", nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryStoreDeleteNodeDoesNotCascadeToEdges(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("g"))
	a, _ := m.AddNode("g", "A", nil)
	b, _ := m.AddNode("g", "B", nil)
	e, err := m.AddEdge("g", "x", a.ID, b.ID, nil)
	require.NoError(t, err)

	require.NoError(t, m.DeleteNode("g", a.ID))

	g, ok := m.Get("g")
	require.True(t, ok)
	_, hasA := g.Nodes[a.ID]
	assert.False(t, hasA)
	_, hasEdge := g.Edges[e.ID]
	assert.True(t, hasEdge, "edges are not cascade-deleted when an endpoint is removed")
}

func TestMemoryStoreListGraphNamesAndDelete(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("a"))
	require.NoError(t, m.Create("b"))
	assert.ElementsMatch(t, []string{"a", "b"}, m.ListGraphNames())

	m.DeleteGraph("a")
	assert.Equal(t, []string{"b"}, m.ListGraphNames())
}

func TestMemoryStoreAddFullNodeAdvancesAllocator(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Create("g"))
	require.NoError(t, m.AddFullNode("g", graph.Node{ID: 41, Label: "X"}))

	g, ok := m.Get("g")
	require.True(t, ok)
	next := g.Allocator.GenerateNodeID()
	assert.Equal(t, graph.NodeID(42), next)
}
