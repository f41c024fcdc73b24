package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeAllocatesMonotonicIDs(t *testing.T) {
	g := New("g")
	a := g.AddNode("A", nil)
	b := g.AddNode("B", map[string]string{"k": "v"})

	assert.Less(t, a.ID, b.ID)
	assert.Equal(t, "v", b.Properties["k"])
}

func TestAddEdgeAndAdjacency(t *testing.T) {
	g := New("g")
	n1 := g.AddNode("A", nil)
	n2 := g.AddNode("B", nil)
	n3 := g.AddNode("C", nil)
	g.AddEdge("x", n1.ID, n2.ID, nil)
	g.AddEdge("x", n2.ID, n3.ID, nil)

	adj := g.AdjacencyList()
	assert.Equal(t, []NodeID{n2.ID}, adj[n1.ID])
	assert.Equal(t, []NodeID{n3.ID}, adj[n2.ID])
}

func TestRelationsList(t *testing.T) {
	g := New("g")
	n1 := g.AddNode("A", nil)
	n2 := g.AddNode("B", nil)
	g.AddEdge("knows", n1.ID, n2.ID, nil)

	rel := g.RelationsList()
	require.Len(t, rel, 1)
	assert.Equal(t, n1.ID, rel[0].FromNodeID)
	assert.Equal(t, "A", rel[0].FromNodeLabel)
	assert.Equal(t, "knows", rel[0].EdgeLabel)
	assert.Equal(t, n2.ID, rel[0].ToNodeID)
	assert.Equal(t, "B", rel[0].ToNodeLabel)
}

func TestRelationsListSkipsDanglingEdges(t *testing.T) {
	g := New("g")
	n1 := g.AddNode("A", nil)
	n2 := g.AddNode("B", nil)
	g.AddEdge("knows", n1.ID, n2.ID, nil)
	g.DeleteNode(n2.ID)

	assert.Empty(t, g.RelationsList())
	assert.Empty(t, g.AdjacencyList()[n1.ID])
}

func TestCloneIsIndependent(t *testing.T) {
	g := New("g")
	n := g.AddNode("A", map[string]string{"k": "v"})

	clone := g.Clone()
	clone.UpdateNode(n.ID, "Changed", map[string]string{"k": "changed"})

	orig, _ := g.GetNode(n.ID)
	assert.Equal(t, "A", orig.Label)
	assert.Equal(t, "v", orig.Properties["k"])
}

func TestAllocatorNeverReusesIDs(t *testing.T) {
	g := New("g")
	n := g.AddNode("A", nil)
	g.DeleteNode(n.ID)
	n2 := g.AddNode("B", nil)

	assert.NotEqual(t, n.ID, n2.ID)
	assert.Greater(t, uint64(n2.ID), uint64(n.ID))
}

func TestAddFullNodeAdvancesAllocator(t *testing.T) {
	g := New("g")
	g.AddFullNode(Node{ID: 41, Label: "X"})

	n := g.AddNode("Y", nil)
	assert.Greater(t, uint64(n.ID), uint64(41))
}

func TestMaxNodeIDInvariant(t *testing.T) {
	g := New("g")
	g.AddNode("A", nil)
	g.AddNode("B", nil)

	max, found := g.MaxNodeID()
	require.True(t, found)
	assert.Greater(t, g.Allocator.NextNodeID(), uint64(max))
}
