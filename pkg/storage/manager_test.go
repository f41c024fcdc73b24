package storage

import (
	"testing"

	"github.com/dreamware/graphd/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mem := NewMemoryStore()
	disk, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	mgr := NewManager(mem, disk, 16, logging.New("test"))
	t.Cleanup(mgr.Close)
	return mgr
}

func TestManagerCreateGraphVisibleImmediately(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.CreateGraph("g"))

	g, err := mgr.GetGraph("g")
	require.NoError(t, err)
	assert.Equal(t, "g", g.Name)
}

func TestManagerGetGraphUnknownIsNotFound(t *testing.T) {
	mgr := newTestManager(t)
	_, err := mgr.GetGraph("nope")
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestManagerAddNodeAndEdgeVisibleInMemoryImmediately(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.CreateGraph("g"))

	a, err := mgr.AddNode("g", "A", nil)
	require.NoError(t, err)
	b, err := mgr.AddNode("g", "B", nil)
	require.NoError(t, err)
	_, err = mgr.AddEdge("g", "knows", a.ID, b.ID, nil)
	require.NoError(t, err)

	g, err := mgr.GetGraph("g")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
}

// TestManagerDiskTierEventuallyConsistent exercises spec.md's eventual
// consistency guarantee: after the disk queue drains, a fresh manager
// reading straight from disk (cold memory tier) sees everything the first
// manager wrote.
func TestManagerDiskTierEventuallyConsistent(t *testing.T) {
	dir := t.TempDir()
	mem := NewMemoryStore()
	disk, err := NewDiskStore(dir, 1024)
	require.NoError(t, err)
	mgr := NewManager(mem, disk, 16, logging.New("test"))

	require.NoError(t, mgr.CreateGraph("g"))
	a, err := mgr.AddNode("g", "A", nil)
	require.NoError(t, err)
	b, err := mgr.AddNode("g", "B", nil)
	require.NoError(t, err)
	_, err = mgr.AddEdge("g", "knows", a.ID, b.ID, nil)
	require.NoError(t, err)

	mgr.Close() // waits for the disk queue to fully drain

	freshMem := NewMemoryStore()
	freshDisk, err := NewDiskStore(dir, 1024)
	require.NoError(t, err)
	fresh := NewManager(freshMem, freshDisk, 16, logging.New("test"))
	defer fresh.Close()

	g, err := fresh.GetGraph("g")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
}

func TestManagerListGraphNamesFallsBackToDisk(t *testing.T) {
	dir := t.TempDir()
	mem := NewMemoryStore()
	disk, err := NewDiskStore(dir, 1024)
	require.NoError(t, err)
	mgr := NewManager(mem, disk, 16, logging.New("test"))
	require.NoError(t, mgr.CreateGraph("g"))
	mgr.Close()

	freshMem := NewMemoryStore()
	freshDisk, err := NewDiskStore(dir, 1024)
	require.NoError(t, err)
	fresh := NewManager(freshMem, freshDisk, 16, logging.New("test"))
	defer fresh.Close()

	names, err := fresh.ListGraphNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, names)
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	mgr := newTestManager(t)
	mgr.Close()
	assert.NotPanics(t, mgr.Close)
}
