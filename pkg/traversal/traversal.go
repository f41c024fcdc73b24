// Package traversal implements graphd's path-finding algorithms: BFS, DFS,
// and Dijkstra's weighted shortest path. BFS and DFS each have a
// single-threaded and a multi-threaded implementation; Engine picks between
// them based on the size of the adjacency map being searched, following the
// mode-selection rule in the specification (large graphs get the
// worker-pool variant, small graphs stay single-threaded to avoid
// goroutine/channel overhead).
//
// All three algorithms share one contract: given (start, goal), return the
// sequence of node IDs from start to goal inclusive, or an empty sequence
// if no path exists. They never return an error, so an empty result
// carries no reason for why no path was found.
package traversal

import "github.com/dreamware/graphd/pkg/graph"

// DefaultThreshold is the adjacency-map size at or above which BFS/DFS
// switch to their multi-threaded implementation, per the specification's
// constant.
const DefaultThreshold = 10

// DefaultBFSWorkers is the default worker-pool size for multi-threaded BFS.
const DefaultBFSWorkers = 4

// Engine runs path queries against an adjacency map or weighted edge set.
// It holds no graph state of its own — callers pass in a snapshot adjacency
// map (or graph) for each call, so an Engine is safe to share across
// goroutines and across graphs.
type Engine struct {
	// Threshold is the |adjacency| cutoff for switching BFS/DFS to their
	// multi-threaded variant.
	Threshold int

	// BFSWorkers is the worker-pool size used by multi-threaded BFS.
	// Defaults to DefaultBFSWorkers when zero.
	BFSWorkers int

	// DFSWorkers is the worker-pool size used by multi-threaded DFS.
	// Defaults to runtime.NumCPU() when zero (see dfs.go).
	DFSWorkers int
}

// New returns an Engine configured with the given threshold and the
// package defaults for worker-pool sizes.
func New(threshold int) *Engine {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Engine{Threshold: threshold, BFSWorkers: DefaultBFSWorkers}
}

// reconstructPath walks parent pointers from goal back to start and
// reverses the result, shared by every single-threaded and multi-threaded
// BFS/DFS implementation.
func reconstructPath(parent map[graph.NodeID]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	path := []graph.NodeID{goal}
	cur := goal
	for cur != start {
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	reverse(path)
	return path
}

func reverse(ids []graph.NodeID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
