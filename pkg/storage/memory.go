package storage

import (
	"sync"

	"github.com/dreamware/graphd/pkg/graph"
)

// MemoryStore is the in-memory half of the dual-tier engine: a name-keyed
// map of live graphs guarded by a single RWMutex. Reads clone before
// returning so callers never observe concurrent mutation.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]*graph.Graph)}
}

// Create registers name with an empty graph. Fails if name is already live.
func (m *MemoryStore) Create(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.graphs[name]; ok {
		return ErrGraphExists
	}
	m.graphs[name] = graph.New(name)
	return nil
}

// Hydrate installs g as the live graph for its name, overwriting whatever
// was there. Used when the manager loads a graph up from disk on a cache
// miss.
func (m *MemoryStore) Hydrate(g *graph.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graphs[g.Name] = g
}

// Get returns a clone of the named graph, or false if it isn't loaded.
func (m *MemoryStore) Get(name string) (*graph.Graph, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.graphs[name]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// ListGraphNames returns the names of every graph currently loaded.
func (m *MemoryStore) ListGraphNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.graphs))
	for name := range m.graphs {
		names = append(names, name)
	}
	return names
}

// DeleteGraph drops the named graph from memory. Not an error if absent.
func (m *MemoryStore) DeleteGraph(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.graphs, name)
}

// AddNode adds a node to the named graph and returns it. ErrGraphNotFound
// if the graph isn't loaded.
func (m *MemoryStore) AddNode(name, label string, properties map[string]string) (graph.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return graph.Node{}, ErrGraphNotFound
	}
	return g.AddNode(label, properties), nil
}

// AddFullNode inserts n verbatim, advancing the allocator if needed. Used
// when replaying a node that already has its ID assigned elsewhere.
func (m *MemoryStore) AddFullNode(name string, n graph.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	g.AddFullNode(n)
	return nil
}

// AddEdge adds an edge to the named graph and returns it.
func (m *MemoryStore) AddEdge(name, label string, from, to graph.NodeID, properties map[string]string) (graph.Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return graph.Edge{}, ErrGraphNotFound
	}
	return g.AddEdge(label, from, to, properties), nil
}

// AddFullEdge inserts e verbatim, advancing the allocator if needed.
func (m *MemoryStore) AddFullEdge(name string, e graph.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	g.AddFullEdge(e)
	return nil
}

// UpdateNode updates a node's label and properties in place.
func (m *MemoryStore) UpdateNode(name string, id graph.NodeID, label string, properties map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	if !g.HasNode(id) {
		return ErrRecordNotFound
	}
	g.UpdateNode(id, label, properties)
	return nil
}

// UpdateEdge updates an edge's label and properties in place.
func (m *MemoryStore) UpdateEdge(name string, id graph.EdgeID, label string, properties map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	if _, ok := g.GetEdge(id); !ok {
		return ErrRecordNotFound
	}
	g.UpdateEdge(id, label, properties)
	return nil
}

// DeleteNode removes a node from the named graph. Does not cascade to
// incident edges; see graph.Graph.DeleteNode.
func (m *MemoryStore) DeleteNode(name string, id graph.NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	g.DeleteNode(id)
	return nil
}

// DeleteEdge removes an edge from the named graph.
func (m *MemoryStore) DeleteEdge(name string, id graph.EdgeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.graphs[name]
	if !ok {
		return ErrGraphNotFound
	}
	g.DeleteEdge(id)
	return nil
}
