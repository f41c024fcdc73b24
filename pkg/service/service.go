// Package service implements the graph service (C7): the single
// validating, orchestrating front door used by both the HTTP API and the
// CLI shell. It owns no storage itself — every operation routes through a
// *storage.Manager — and translates storage-level errors into the service's
// own error taxonomy.
package service

import (
	"fmt"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/storage"
	"github.com/dreamware/graphd/pkg/traversal"
)

// Service is the graph service. It is safe for concurrent use; all
// synchronization happens inside the Manager and MemoryStore it wraps.
type Service struct {
	manager   *storage.Manager
	traversal *traversal.Engine
}

// New builds a Service around an already-running Manager.
func New(manager *storage.Manager, traversalEngine *traversal.Engine) *Service {
	return &Service{manager: manager, traversal: traversalEngine}
}

// CreateGraph creates a new empty graph. ErrGraphAlreadyExists if name is
// already in use.
func (s *Service) CreateGraph(name string) error {
	if err := s.manager.CreateGraph(name); err != nil {
		if err == storage.ErrGraphExists {
			return ErrGraphAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// ListGraphs returns the names of every known graph.
func (s *Service) ListGraphs() ([]string, error) {
	names, err := s.manager.ListGraphNames()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return names, nil
}

func (s *Service) getGraph(name string) (*graph.Graph, error) {
	g, err := s.manager.GetGraph(name)
	if err != nil {
		if err == storage.ErrGraphNotFound {
			return nil, ErrGraphNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return g, nil
}

// AddNode adds a node to an existing graph. If id is non-zero the caller
// is supplying the id explicitly (the HTTP API's `node_id` field) and
// ErrNodeAlreadyExists is returned if it's already taken; otherwise a
// fresh id is allocated through the graph's own allocator.
func (s *Service) AddNode(graphName string, id graph.NodeID, label string, properties map[string]string) (graph.Node, error) {
	g, err := s.getGraph(graphName)
	if err != nil {
		return graph.Node{}, err
	}

	if id != 0 {
		if g.HasNode(id) {
			return graph.Node{}, ErrNodeAlreadyExists
		}
		n := graph.Node{ID: id, Label: label, Properties: properties}
		if err := s.manager.AddFullNode(graphName, n); err != nil {
			return graph.Node{}, mapStorageErr(err)
		}
		return n, nil
	}

	n, err := s.manager.AddNode(graphName, label, properties)
	if err != nil {
		return graph.Node{}, mapStorageErr(err)
	}
	return n, nil
}

// AddEdge adds an edge between two existing nodes in an existing graph.
// ErrNodeNotFound if either endpoint is missing. If id is non-zero the
// caller is supplying it explicitly; ErrEdgeAlreadyExists if already taken.
func (s *Service) AddEdge(graphName string, id graph.EdgeID, label string, from, to graph.NodeID, properties map[string]string) (graph.Edge, error) {
	g, err := s.getGraph(graphName)
	if err != nil {
		return graph.Edge{}, err
	}
	if !g.HasNode(from) || !g.HasNode(to) {
		return graph.Edge{}, ErrNodeNotFound
	}

	if id != 0 {
		if _, exists := g.GetEdge(id); exists {
			return graph.Edge{}, ErrEdgeAlreadyExists
		}
		e := graph.Edge{ID: id, Label: label, From: from, To: to, Properties: properties}
		if err := s.manager.AddFullEdge(graphName, e); err != nil {
			return graph.Edge{}, mapStorageErr(err)
		}
		return e, nil
	}

	e, err := s.manager.AddEdge(graphName, label, from, to, properties)
	if err != nil {
		return graph.Edge{}, mapStorageErr(err)
	}
	return e, nil
}

func mapStorageErr(err error) error {
	if err == storage.ErrGraphNotFound {
		return ErrGraphNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// UpdateNode updates an existing node's label and properties.
func (s *Service) UpdateNode(graphName string, id graph.NodeID, label string, properties map[string]string) error {
	g, err := s.getGraph(graphName)
	if err != nil {
		return err
	}
	if !g.HasNode(id) {
		return ErrNodeNotFound
	}
	if err := s.manager.UpdateNode(graphName, id, label, properties); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// UpdateEdge updates an existing edge's label and properties.
func (s *Service) UpdateEdge(graphName string, id graph.EdgeID, label string, properties map[string]string) error {
	g, err := s.getGraph(graphName)
	if err != nil {
		return err
	}
	if _, ok := g.GetEdge(id); !ok {
		return ErrEdgeNotFound
	}
	if err := s.manager.UpdateEdge(graphName, id, label, properties); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// DeleteNode removes a node. Does not cascade to incident edges.
func (s *Service) DeleteNode(graphName string, id graph.NodeID) error {
	g, err := s.getGraph(graphName)
	if err != nil {
		return err
	}
	if !g.HasNode(id) {
		return ErrNodeNotFound
	}
	if err := s.manager.DeleteNode(graphName, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// DeleteEdge removes an edge.
func (s *Service) DeleteEdge(graphName string, id graph.EdgeID) error {
	g, err := s.getGraph(graphName)
	if err != nil {
		return err
	}
	if _, ok := g.GetEdge(id); !ok {
		return ErrEdgeNotFound
	}
	if err := s.manager.DeleteEdge(graphName, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// GetAdjacency returns the graph's adjacency projection (C2).
func (s *Service) GetAdjacency(graphName string) (map[graph.NodeID][]graph.NodeID, error) {
	g, err := s.getGraph(graphName)
	if err != nil {
		return nil, err
	}
	return g.AdjacencyList(), nil
}

// GetRelations returns the graph's flattened relations projection (C2).
func (s *Service) GetRelations(graphName string) ([]graph.Relation, error) {
	g, err := s.getGraph(graphName)
	if err != nil {
		return nil, err
	}
	return g.RelationsList(), nil
}

// SearchPath dispatches a path query onto the traversal engine (C3).
// method must be one of "bfs", "dfs", "dijkstra"; any other value returns
// ErrMethodNotSupported. propertyName is only used by "dijkstra".
func (s *Service) SearchPath(graphName, method string, origin, goal graph.NodeID, propertyName string) ([]graph.NodeID, error) {
	g, err := s.getGraph(graphName)
	if err != nil {
		return nil, err
	}

	var path []graph.NodeID
	switch method {
	case "bfs":
		path = s.traversal.BFS(g.AdjacencyList(), origin, goal)
	case "dfs":
		path = s.traversal.DFS(g.AdjacencyList(), origin, goal)
	case "dijkstra":
		path = s.traversal.Dijkstra(g, origin, goal, propertyName)
	default:
		return nil, ErrMethodNotSupported
	}
	if path == nil {
		path = []graph.NodeID{}
	}
	return path, nil
}
