package storage

import (
	"testing"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreCreateGraphRejectsDuplicate(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))
	assert.ErrorIs(t, d.CreateGraph("g"), ErrGraphExists)
}

func TestDiskStoreAppendAndGetGraphRoundTrips(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))

	n1 := graph.Node{ID: 1, Label: "Person", Properties: map[string]string{"name": "ada"}}
	n2 := graph.Node{ID: 2, Label: "Person", Properties: map[string]string{"name": "bob"}}
	require.NoError(t, d.AppendNode("g", n1))
	require.NoError(t, d.AppendNode("g", n2))

	e1 := graph.Edge{ID: 1, Label: "knows", From: 1, To: 2, Properties: map[string]string{"since": "2020"}}
	require.NoError(t, d.AppendEdge("g", e1))

	got, ok, err := d.GetGraph("g")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "g", got.Name)
	require.Len(t, got.Nodes, 2)
	require.Len(t, got.Edges, 1)
	assert.Equal(t, "ada", got.Nodes[1].Properties["name"])
	assert.Equal(t, n1, got.Nodes[1])
	assert.Equal(t, e1, got.Edges[1])
	assert.Equal(t, uint64(3), got.Allocator.NextNodeID())
	assert.Equal(t, uint64(2), got.Allocator.NextEdgeID())
}

func TestDiskStoreMarkNodeDeletedIsIdempotentAndExcludesFromReload(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))
	require.NoError(t, d.AppendNode("g", graph.Node{ID: 1, Label: "A"}))
	require.NoError(t, d.AppendNode("g", graph.Node{ID: 2, Label: "B"}))

	require.NoError(t, d.MarkNodeDeleted("g", 1))
	require.NoError(t, d.MarkNodeDeleted("g", 1)) // idempotent

	got, ok, err := d.GetGraph("g")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Nodes, 1)
	_, stillThere := got.Nodes[1]
	assert.False(t, stillThere)
}

func TestDiskStoreUpdateNodeNotFound(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))
	err = d.UpdateNode("g", graph.Node{ID: 99, Label: "X"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDiskStoreOversizedNodeRejected(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 64)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))
	big := graph.Node{ID: 1, Label: "X", Properties: map[string]string{"blob": string(make([]byte, 500))}}
	err = d.AppendNode("g", big)
	assert.ErrorIs(t, err, ErrOversizedNode)

	// Graph must be left unmutated: header's node count still zero.
	got, ok, err := d.GetGraph("g")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got.Nodes)
}

func TestDiskStoreNodeRegionSlidesPastEdgeRegion(t *testing.T) {
	// Small block size keeps the test fast; the node region overruns
	// the edge region as soon as a node is appended after an edge
	// already occupies slot 0.
	d, err := NewDiskStore(t.TempDir(), 256)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("g"))

	require.NoError(t, d.AppendNode("g", graph.Node{ID: 1, Label: "A"}))
	require.NoError(t, d.AppendNode("g", graph.Node{ID: 2, Label: "B"}))
	require.NoError(t, d.AppendEdge("g", graph.Edge{ID: 1, Label: "x", From: 1, To: 2}))

	// This node append collides with the edge region's current start,
	// triggering the slide.
	require.NoError(t, d.AppendNode("g", graph.Node{ID: 3, Label: "C"}))
	require.NoError(t, d.AppendEdge("g", graph.Edge{ID: 2, Label: "y", From: 2, To: 3}))

	got, ok, err := d.GetGraph("g")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Nodes, 3)
	assert.Len(t, got.Edges, 2)
	assert.Equal(t, graph.NodeID(1), got.Edges[1].From)
	assert.Equal(t, graph.NodeID(2), got.Edges[2].From)
}

func TestDiskStoreListAndDeleteGraph(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskStore(dir, 1024)
	require.NoError(t, err)
	require.NoError(t, d.CreateGraph("a"))
	require.NoError(t, d.CreateGraph("b"))

	names, err := d.ListGraphNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, d.DeleteGraph("a"))
	names, err = d.ListGraphNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	// Deleting again is not an error.
	assert.NoError(t, d.DeleteGraph("a"))
}

func TestDiskStoreGetGraphMissingReturnsFalse(t *testing.T) {
	d, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	_, ok, err := d.GetGraph("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
