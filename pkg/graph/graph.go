package graph

import "sort"

// Graph is a named, in-memory property graph: a set of nodes, a set of
// edges between them, and an embedded ID allocator. Graph values are
// exclusively owned by whichever store holds them; callers read them by
// taking a Clone.
type Graph struct {
	Name      string
	Nodes     map[NodeID]Node
	Edges     map[EdgeID]Edge
	Allocator *IDAllocator
}

// New creates an empty graph with a fresh allocator.
func New(name string) *Graph {
	return &Graph{
		Name:      name,
		Nodes:     make(map[NodeID]Node),
		Edges:     make(map[EdgeID]Edge),
		Allocator: NewIDAllocator(),
	}
}

// Clone returns a deep copy, safe to hand to a reader while the original
// continues to mutate under a writer's lock.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Name:      g.Name,
		Nodes:     make(map[NodeID]Node, len(g.Nodes)),
		Edges:     make(map[EdgeID]Edge, len(g.Edges)),
		Allocator: g.Allocator.Clone(),
	}
	for id, n := range g.Nodes {
		clone.Nodes[id] = n.Clone()
	}
	for id, e := range g.Edges {
		clone.Edges[id] = e.Clone()
	}
	return clone
}

// AddNode allocates a fresh ID and inserts a node with the given label and
// properties. It never fails.
func (g *Graph) AddNode(label string, properties map[string]string) Node {
	n := Node{ID: g.Allocator.GenerateNodeID(), Label: label, Properties: cloneProperties(properties)}
	g.Nodes[n.ID] = n
	return n
}

// AddFullNode inserts a node with a caller-supplied ID, overwriting any
// existing entry with the same ID. Used when reconstructing a graph from
// disk. The allocator is advanced so future generated IDs don't collide.
func (g *Graph) AddFullNode(n Node) {
	n = n.Clone()
	g.Nodes[n.ID] = n
	g.Allocator.ObserveNodeID(n.ID)
}

// GetNode returns the node with the given ID, if any.
func (g *Graph) GetNode(id NodeID) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.Nodes[id]
	return ok
}

// UpdateNode replaces the label and properties of an existing node. It is a
// no-op if the node doesn't exist.
func (g *Graph) UpdateNode(id NodeID, label string, properties map[string]string) {
	n, ok := g.Nodes[id]
	if !ok {
		return
	}
	n.Label = label
	n.Properties = cloneProperties(properties)
	g.Nodes[id] = n
}

// DeleteNode removes a node. It does not cascade to incident edges — per
// the graph's invariants, dangling edges are the caller's responsibility to
// avoid by deleting edges first; this store never auto-deletes them.
func (g *Graph) DeleteNode(id NodeID) {
	delete(g.Nodes, id)
}

// AddEdge allocates a fresh ID and inserts an edge. The caller must have
// already validated that both endpoints exist; Graph itself never fails.
func (g *Graph) AddEdge(label string, from, to NodeID, properties map[string]string) Edge {
	e := Edge{ID: g.Allocator.GenerateEdgeID(), Label: label, From: from, To: to, Properties: cloneProperties(properties)}
	g.Edges[e.ID] = e
	return e
}

// AddFullEdge inserts an edge with a caller-supplied ID, overwriting any
// existing entry with the same ID. Used when reconstructing from disk.
func (g *Graph) AddFullEdge(e Edge) {
	e = e.Clone()
	g.Edges[e.ID] = e
	g.Allocator.ObserveEdgeID(e.ID)
}

// GetEdge returns the edge with the given ID, if any.
func (g *Graph) GetEdge(id EdgeID) (Edge, bool) {
	e, ok := g.Edges[id]
	return e, ok
}

// UpdateEdge replaces the label and properties of an existing edge. Does
// not allow moving its endpoints.
func (g *Graph) UpdateEdge(id EdgeID, label string, properties map[string]string) {
	e, ok := g.Edges[id]
	if !ok {
		return
	}
	e.Label = label
	e.Properties = cloneProperties(properties)
	g.Edges[id] = e
}

// DeleteEdge removes an edge.
func (g *Graph) DeleteEdge(id EdgeID) {
	delete(g.Edges, id)
}

// sortedEdgeIDs returns edge IDs in ascending order, giving every derived
// view a deterministic iteration order over the edge set.
func (g *Graph) sortedEdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AdjacencyList returns, for every node that has at least one outgoing
// edge, the ordered sequence of neighbor node IDs. Parallel edges to the
// same neighbor produce duplicate entries. The result is a pure function of
// (Nodes, Edges): iterating edges in ID order makes neighbor sequences
// deterministic. As in RelationsList, edges whose endpoints have since been
// deleted are skipped.
func (g *Graph) AdjacencyList() map[NodeID][]NodeID {
	adjacency := make(map[NodeID][]NodeID)
	for _, id := range g.sortedEdgeIDs() {
		e := g.Edges[id]
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			continue
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	return adjacency
}

// RelationsList returns the flattened (from, fromLabel, edgeLabel, to,
// toLabel) view of every edge, in edge-ID order. Edges whose endpoints have
// since been deleted are skipped rather than panicking — cascade-free
// deletion means this can legitimately happen.
func (g *Graph) RelationsList() []Relation {
	relations := make([]Relation, 0, len(g.Edges))
	for _, id := range g.sortedEdgeIDs() {
		e := g.Edges[id]
		from, fromOK := g.Nodes[e.From]
		to, toOK := g.Nodes[e.To]
		if !fromOK || !toOK {
			continue
		}
		relations = append(relations, Relation{
			FromNodeID:    e.From,
			FromNodeLabel: from.Label,
			EdgeLabel:     e.Label,
			ToNodeID:      e.To,
			ToNodeLabel:   to.Label,
		})
	}
	return relations
}

// MaxNodeID returns the highest node ID present, and whether any nodes
// exist at all. Used by tests asserting the allocator invariant.
func (g *Graph) MaxNodeID() (NodeID, bool) {
	var max NodeID
	found := false
	for id := range g.Nodes {
		if !found || id > max {
			max = id
			found = true
		}
	}
	return max, found
}

// MaxEdgeID returns the highest edge ID present, and whether any edges
// exist at all.
func (g *Graph) MaxEdgeID() (EdgeID, bool) {
	var max EdgeID
	found := false
	for id := range g.Edges {
		if !found || id > max {
			max = id
			found = true
		}
	}
	return max, found
}
