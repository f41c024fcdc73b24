package traversal

import (
	"sync"
	"time"

	"github.com/dreamware/graphd/pkg/graph"
)

// BFS returns a path from start to goal, or nil if none exists. start ==
// goal yields [start]. Switches to the multi-threaded implementation when
// len(adjacency) >= e.Threshold. The single-threaded implementation returns
// a shortest-hop path; the multi-threaded one returns a valid path that is
// not guaranteed to be shortest.
func (e *Engine) BFS(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	if start == goal {
		return []graph.NodeID{start}
	}
	if len(adjacency) >= e.Threshold {
		return e.bfsParallel(adjacency, start, goal)
	}
	return bfsSequential(adjacency, start, goal)
}

// bfsSequential is the textbook single-threaded BFS: a FIFO queue, a
// visited set, and a parent map reconstructed by walking back from goal.
func bfsSequential(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	visited := map[graph.NodeID]bool{start: true}
	parent := map[graph.NodeID]graph.NodeID{}
	queue := []graph.NodeID{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == goal {
			return reconstructPath(parent, start, goal)
		}

		for _, next := range adjacency[cur] {
			if !visited[next] {
				visited[next] = true
				parent[next] = cur
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// bfsFrontier is the shared mutable state a multi-threaded BFS worker pool
// operates on. Each of the three locks is held on its own and never while
// another is held, so workers cannot deadlock on them.
type bfsFrontier struct {
	mu    sync.Mutex
	queue []graph.NodeID

	visitedMu sync.Mutex
	visited   map[graph.NodeID]bool

	parentMu sync.Mutex
	parent   map[graph.NodeID]graph.NodeID
}

func (f *bfsFrontier) pop() (graph.NodeID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return 0, false
	}
	v := f.queue[0]
	f.queue = f.queue[1:]
	return v, true
}

func (f *bfsFrontier) push(v graph.NodeID) {
	f.mu.Lock()
	f.queue = append(f.queue, v)
	f.mu.Unlock()
}

func (f *bfsFrontier) tryVisit(v graph.NodeID) bool {
	f.visitedMu.Lock()
	defer f.visitedMu.Unlock()
	if f.visited[v] {
		return false
	}
	f.visited[v] = true
	return true
}

func (f *bfsFrontier) setParent(child, par graph.NodeID) {
	f.parentMu.Lock()
	f.parent[child] = par
	f.parentMu.Unlock()
}

// bfsParallel runs BFS with a fixed pool of workers sharing the frontier.
// Each worker pops one node, checks whether it's the goal (signaling a
// rendezvous channel on a match), then pushes unvisited neighbors under the
// frontier lock. Workers exit once the frontier is empty and every peer has
// also reported empty. A 5s deadline on the completion channel bounds
// worst-case latency per spec.md's suggested guard; on expiry the search
// returns no path.
func (e *Engine) bfsParallel(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	workers := e.BFSWorkers
	if workers <= 0 {
		workers = DefaultBFSWorkers
	}

	frontier := &bfsFrontier{
		queue:   []graph.NodeID{start},
		visited: map[graph.NodeID]bool{start: true},
		parent:  map[graph.NodeID]graph.NodeID{},
	}

	found := make(chan graph.NodeID, 1)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }
	var idleCount int
	var idleMu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				v, ok := frontier.pop()
				if !ok {
					idleMu.Lock()
					idleCount++
					allIdle := idleCount >= workers
					idleMu.Unlock()
					if allIdle {
						return
					}
					time.Sleep(time.Millisecond)
					idleMu.Lock()
					idleCount--
					idleMu.Unlock()
					continue
				}

				if v == goal {
					select {
					case found <- v:
					default:
					}
					return
				}

				for _, next := range adjacency[v] {
					if frontier.tryVisit(next) {
						frontier.setParent(next, v)
						frontier.push(next)
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		closeDone()
	}()

	select {
	case <-found:
		closeDone()
		wg.Wait()
		return reconstructPath(frontier.parent, start, goal)
	case <-done:
		select {
		case <-found:
			return reconstructPath(frontier.parent, start, goal)
		default:
		}
		return nil
	case <-time.After(5 * time.Second):
		closeDone()
		return nil
	}
}
