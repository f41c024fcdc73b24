package traversal

import (
	"container/heap"
	"sort"
	"strconv"

	"github.com/dreamware/graphd/pkg/graph"
)

// weightedEdge is one outgoing arc used by Dijkstra: a neighbor and the
// cost of reaching it.
type weightedEdge struct {
	to     graph.NodeID
	weight int64
}

// WeightedAdjacency builds, for every node with outgoing edges, the list of
// (neighbor, weight) pairs, where weight is the integer value of
// weightProperty on that edge, or 1 if the property is missing or
// unparseable. Iterates edges in ID order so that ties between
// equal-length candidate paths resolve deterministically downstream.
func WeightedAdjacency(g *graph.Graph, weightProperty string) map[graph.NodeID][]weightedEdge {
	ids := make([]graph.EdgeID, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(map[graph.NodeID][]weightedEdge)
	for _, id := range ids {
		e := g.Edges[id]
		out[e.From] = append(out[e.From], weightedEdge{to: e.To, weight: edgeWeight(e, weightProperty)})
	}
	return out
}

// edgeWeight returns the integer value of property on e, or 1 if the
// property is absent or not a valid integer. Negative weights are passed
// through unchanged; Dijkstra's behavior on them is undefined, per spec.
func edgeWeight(e graph.Edge, property string) int64 {
	raw, ok := e.Properties[property]
	if !ok {
		return 1
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 1
	}
	return v
}

// dijkstraItem is one entry in Dijkstra's priority queue: a candidate node
// keyed on cumulative cost, with node ID breaking ties.
type dijkstraItem struct {
	id   graph.NodeID
	cost int64
}

type dijkstraPQ []*dijkstraItem

func (pq dijkstraPQ) Len() int { return len(pq) }
func (pq dijkstraPQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].id < pq[j].id
}
func (pq dijkstraPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *dijkstraPQ) Push(x any)   { *pq = append(*pq, x.(*dijkstraItem)) }
func (pq *dijkstraPQ) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

// Dijkstra returns the minimum-cost path from start to goal using the
// edge property weightProperty as cost (falling back to 1 per edge), or nil
// if goal is unreachable. start == goal yields [start]. Unlike BFS/DFS,
// Dijkstra always runs single-threaded — the specification does not call
// for a parallel variant, and a priority queue doesn't parallelize as
// cleanly as frontier exploration does.
func (e *Engine) Dijkstra(g *graph.Graph, start, goal graph.NodeID, weightProperty string) []graph.NodeID {
	if start == goal {
		return []graph.NodeID{start}
	}

	adjacency := WeightedAdjacency(g, weightProperty)

	dist := map[graph.NodeID]int64{start: 0}
	parent := map[graph.NodeID]graph.NodeID{}
	visited := map[graph.NodeID]bool{}

	pq := &dijkstraPQ{{id: start, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*dijkstraItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		if cur.id == goal {
			return reconstructPath(parent, start, goal)
		}

		for _, edge := range adjacency[cur.id] {
			if visited[edge.to] {
				continue
			}
			next := cur.cost + edge.weight
			best, known := dist[edge.to]
			if !known || next < best {
				dist[edge.to] = next
				parent[edge.to] = cur.id
				heap.Push(pq, &dijkstraItem{id: edge.to, cost: next})
			}
		}
	}

	return nil
}
