package service

import (
	"testing"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/logging"
	"github.com/dreamware/graphd/pkg/storage"
	"github.com/dreamware/graphd/pkg/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mem := storage.NewMemoryStore()
	disk, err := storage.NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	mgr := storage.NewManager(mem, disk, 16, logging.New("test"))
	t.Cleanup(mgr.Close)
	return New(mgr, traversal.New(traversal.DefaultThreshold))
}

func TestCreateGraphRejectsDuplicate(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	assert.ErrorIs(t, s.CreateGraph("g"), ErrGraphAlreadyExists)
}

func TestAddNodeUnknownGraph(t *testing.T) {
	s := newTestService(t)
	_, err := s.AddNode("missing", 0, "X", nil)
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestAddNodeExplicitIDDuplicateRejected(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	_, err := s.AddNode("g", 1, "A", nil)
	require.NoError(t, err)

	_, err = s.AddNode("g", 1, "B", nil)
	assert.ErrorIs(t, err, ErrNodeAlreadyExists)
}

func TestAddNodeAutoAllocatesWhenIDOmitted(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, err := s.AddNode("g", 0, "A", nil)
	require.NoError(t, err)
	b, err := s.AddNode("g", 0, "B", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddEdgeMissingEndpointIsNodeNotFound(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, err := s.AddNode("g", 0, "A", nil)
	require.NoError(t, err)

	_, err = s.AddEdge("g", 0, "knows", a.ID, 999, nil)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAddEdgeExplicitIDDuplicateRejected(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, _ := s.AddNode("g", 0, "A", nil)
	b, _ := s.AddNode("g", 0, "B", nil)
	_, err := s.AddEdge("g", 1, "knows", a.ID, b.ID, nil)
	require.NoError(t, err)

	_, err = s.AddEdge("g", 1, "knows", a.ID, b.ID, nil)
	assert.ErrorIs(t, err, ErrEdgeAlreadyExists)
}

func TestSearchPathUnknownMethod(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, _ := s.AddNode("g", 0, "A", nil)
	b, _ := s.AddNode("g", 0, "B", nil)

	_, err := s.SearchPath("g", "astar", a.ID, b.ID, "")
	assert.ErrorIs(t, err, ErrMethodNotSupported)
}

func TestSearchPathBFSFindsPath(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, _ := s.AddNode("g", 0, "A", nil)
	b, _ := s.AddNode("g", 0, "B", nil)
	c, _ := s.AddNode("g", 0, "C", nil)
	_, err := s.AddEdge("g", 0, "x", a.ID, b.ID, nil)
	require.NoError(t, err)
	_, err = s.AddEdge("g", 0, "x", b.ID, c.ID, nil)
	require.NoError(t, err)

	path, err := s.SearchPath("g", "bfs", a.ID, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{a.ID, b.ID, c.ID}, path)
}

func TestSearchPathUnreachableIsEmpty(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, _ := s.AddNode("g", 0, "A", nil)
	b, _ := s.AddNode("g", 0, "B", nil)

	path, err := s.SearchPath("g", "dfs", a.ID, b.ID, "")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestGetAdjacencyAndRelations(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.CreateGraph("g"))
	a, _ := s.AddNode("g", 0, "A", nil)
	b, _ := s.AddNode("g", 0, "B", nil)
	_, err := s.AddEdge("g", 0, "knows", a.ID, b.ID, nil)
	require.NoError(t, err)

	adj, err := s.GetAdjacency("g")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b.ID}, adj[a.ID])

	rels, err := s.GetRelations("g")
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "knows", rels[0].EdgeLabel)
}
