package storage

import (
	"sync"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/logging"
)

// opKind tags a queued write so the matching worker can replay it against
// its tier without needing a type switch over concrete payload structs.
type opKind int

const (
	opCreateGraph opKind = iota
	opDeleteGraph
	opAddNode
	opUpdateNode
	opDeleteNode
	opAddEdge
	opUpdateEdge
	opDeleteEdge
)

// writeOp is one entry in a tier's write queue. Only the fields relevant to
// Kind are populated.
type writeOp struct {
	Kind       opKind
	GraphName  string
	Node       graph.Node
	Edge       graph.Edge
	Label      string
	Properties map[string]string
	NodeID     graph.NodeID
	EdgeID     graph.EdgeID
	From, To   graph.NodeID
}

// Manager composes MemoryStore (C4) and DiskStore (C5). Memory-tier writes
// apply synchronously, so a mutator's return value always reflects the
// caller's own write and reads are immediately consistent with it. Each
// write also enqueues onto a single bounded FIFO queue that replays it
// against the disk tier in the background, so callers never block on disk
// I/O; the disk tier may lag behind memory, so the two tiers can
// transiently disagree (eventual consistency, no write acknowledgement).
type Manager struct {
	mem  *MemoryStore
	disk *DiskStore
	log  *logging.Logger

	diskQueue chan writeOp

	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}
}

// NewManager starts the disk worker goroutine and returns a ready Manager.
// queueCapacity bounds the disk queue; mutators block on the enqueue once
// it's full, applying natural backpressure. Memory-tier writes apply synchronously
// (see Manager's doc comment), so there's no matching memory queue.
func NewManager(mem *MemoryStore, disk *DiskStore, queueCapacity int, log *logging.Logger) *Manager {
	m := &Manager{
		mem:       mem,
		disk:      disk,
		log:       log,
		diskQueue: make(chan writeOp, queueCapacity),
		stop:      make(chan struct{}),
	}
	m.wg.Add(1)
	go m.drainDisk()
	return m
}

// Close stops accepting new work and waits for the disk queue to drain.
// Idempotent.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.diskQueue)
	})
	m.wg.Wait()
}

func (m *Manager) drainDisk() {
	defer m.wg.Done()
	for op := range m.diskQueue {
		if err := m.applyDisk(op); err != nil {
			m.log.Warn("disk tier write failed: op=%d graph=%s err=%v", op.Kind, op.GraphName, err)
		}
	}
}

func (m *Manager) applyDisk(op writeOp) error {
	switch op.Kind {
	case opCreateGraph:
		return m.disk.CreateGraph(op.GraphName)
	case opDeleteGraph:
		return m.disk.DeleteGraph(op.GraphName)
	case opAddNode:
		return m.disk.AppendNode(op.GraphName, op.Node)
	case opUpdateNode:
		return m.disk.UpdateNode(op.GraphName, graph.Node{ID: op.NodeID, Label: op.Label, Properties: op.Properties})
	case opDeleteNode:
		return m.disk.MarkNodeDeleted(op.GraphName, op.NodeID)
	case opAddEdge:
		return m.disk.AppendEdge(op.GraphName, op.Edge)
	case opUpdateEdge:
		return m.disk.UpdateEdge(op.GraphName, graph.Edge{ID: op.EdgeID, Label: op.Label, From: op.From, To: op.To, Properties: op.Properties})
	case opDeleteEdge:
		return m.disk.MarkEdgeDeleted(op.GraphName, op.EdgeID)
	}
	return nil
}

// CreateGraph creates the graph in memory synchronously (so the caller can
// immediately act on it) and queues the matching disk write.
func (m *Manager) CreateGraph(name string) error {
	if err := m.mem.Create(name); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opCreateGraph, GraphName: name}
	return nil
}

// DeleteGraph removes the graph from memory synchronously and queues the
// disk removal.
func (m *Manager) DeleteGraph(name string) {
	m.mem.DeleteGraph(name)
	m.diskQueue <- writeOp{Kind: opDeleteGraph, GraphName: name}
}

// AddNode adds a node to the named graph's in-memory copy synchronously,
// returning the assigned node, and queues the replay of that exact node
// onto the disk tier.
func (m *Manager) AddNode(name, label string, properties map[string]string) (graph.Node, error) {
	n, err := m.mem.AddNode(name, label, properties)
	if err != nil {
		return graph.Node{}, err
	}
	m.diskQueue <- writeOp{Kind: opAddNode, GraphName: name, Node: n}
	return n, nil
}

// AddEdge adds an edge to the named graph's in-memory copy synchronously
// and queues the disk replay.
func (m *Manager) AddEdge(name, label string, from, to graph.NodeID, properties map[string]string) (graph.Edge, error) {
	e, err := m.mem.AddEdge(name, label, from, to, properties)
	if err != nil {
		return graph.Edge{}, err
	}
	m.diskQueue <- writeOp{Kind: opAddEdge, GraphName: name, Edge: e}
	return e, nil
}

// AddFullNode inserts n verbatim (caller-supplied id) into the in-memory
// copy synchronously and queues the disk replay. The caller is responsible
// for checking n.ID isn't already in use.
func (m *Manager) AddFullNode(name string, n graph.Node) error {
	if err := m.mem.AddFullNode(name, n); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opAddNode, GraphName: name, Node: n}
	return nil
}

// AddFullEdge inserts e verbatim (caller-supplied id) into the in-memory
// copy synchronously and queues the disk replay.
func (m *Manager) AddFullEdge(name string, e graph.Edge) error {
	if err := m.mem.AddFullEdge(name, e); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opAddEdge, GraphName: name, Edge: e}
	return nil
}

// UpdateNode updates a node in memory synchronously and queues the disk
// replay.
func (m *Manager) UpdateNode(name string, id graph.NodeID, label string, properties map[string]string) error {
	if err := m.mem.UpdateNode(name, id, label, properties); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opUpdateNode, GraphName: name, NodeID: id, Label: label, Properties: properties}
	return nil
}

// UpdateEdge updates an edge in memory synchronously and queues the disk
// replay.
func (m *Manager) UpdateEdge(name string, id graph.EdgeID, label string, properties map[string]string) error {
	if err := m.mem.UpdateEdge(name, id, label, properties); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opUpdateEdge, GraphName: name, EdgeID: id, Label: label, Properties: properties}
	return nil
}

// DeleteNode removes a node from memory synchronously and queues the disk
// tombstone.
func (m *Manager) DeleteNode(name string, id graph.NodeID) error {
	if err := m.mem.DeleteNode(name, id); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opDeleteNode, GraphName: name, NodeID: id}
	return nil
}

// DeleteEdge removes an edge from memory synchronously and queues the disk
// tombstone.
func (m *Manager) DeleteEdge(name string, id graph.EdgeID) error {
	if err := m.mem.DeleteEdge(name, id); err != nil {
		return err
	}
	m.diskQueue <- writeOp{Kind: opDeleteEdge, GraphName: name, EdgeID: id}
	return nil
}

// GetGraph returns the named graph, checking the memory tier first. On a
// miss it falls back to disk and hydrates memory with what it finds so
// subsequent reads are fast.
func (m *Manager) GetGraph(name string) (*graph.Graph, error) {
	if g, ok := m.mem.Get(name); ok {
		return g, nil
	}
	g, ok, err := m.disk.GetGraph(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGraphNotFound
	}
	m.mem.Hydrate(g)
	return g.Clone(), nil
}

// ListGraphNames returns the memory tier's view if it has anything loaded,
// else falls back to the disk tier's directory listing.
func (m *Manager) ListGraphNames() ([]string, error) {
	if names := m.mem.ListGraphNames(); len(names) > 0 {
		return names, nil
	}
	return m.disk.ListGraphNames()
}
