package traversal

import (
	"runtime"
	"sync"
	"time"

	"github.com/dreamware/graphd/pkg/graph"
)

// DFS returns a depth-first path from start to goal, or nil if none exists.
// start == goal yields [start]. Switches to the multi-threaded
// implementation when len(adjacency) >= e.Threshold.
func (e *Engine) DFS(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	if start == goal {
		return []graph.NodeID{start}
	}
	if len(adjacency) >= e.Threshold {
		return e.dfsParallel(adjacency, start, goal)
	}
	return dfsSequential(adjacency, start, goal)
}

// dfsSequential is the textbook single-threaded DFS: a LIFO stack, a
// visited set, and a parent map reconstructed by walking back from goal.
func dfsSequential(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	visited := map[graph.NodeID]bool{start: true}
	parent := map[graph.NodeID]graph.NodeID{}
	stack := []graph.NodeID{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur == goal {
			return reconstructPath(parent, start, goal)
		}

		for _, next := range adjacency[cur] {
			if !visited[next] {
				visited[next] = true
				parent[next] = cur
				stack = append(stack, next)
			}
		}
	}
	return nil
}

// dfsFrontier mirrors bfsFrontier but pops from the tail (LIFO) instead of
// the head.
type dfsFrontier struct {
	mu    sync.Mutex
	stack []graph.NodeID

	visitedMu sync.Mutex
	visited   map[graph.NodeID]bool

	parentMu sync.Mutex
	parent   map[graph.NodeID]graph.NodeID
}

func (f *dfsFrontier) pop() (graph.NodeID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.stack)
	if n == 0 {
		return 0, false
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v, true
}

func (f *dfsFrontier) push(v graph.NodeID) {
	f.mu.Lock()
	f.stack = append(f.stack, v)
	f.mu.Unlock()
}

func (f *dfsFrontier) tryVisit(v graph.NodeID) bool {
	f.visitedMu.Lock()
	defer f.visitedMu.Unlock()
	if f.visited[v] {
		return false
	}
	f.visited[v] = true
	return true
}

func (f *dfsFrontier) setParent(child, par graph.NodeID) {
	f.parentMu.Lock()
	f.parent[child] = par
	f.parentMu.Unlock()
}

// dfsParallel runs DFS with a fixed worker pool sharing a stack frontier,
// defaulting pool size to the number of logical CPUs (DFS benefits more
// from exploring distinct subtrees in parallel than BFS's layer-by-layer
// expansion does). As in bfsParallel, the frontier, visited and parent
// locks are never held at the same time.
func (e *Engine) dfsParallel(adjacency map[graph.NodeID][]graph.NodeID, start, goal graph.NodeID) []graph.NodeID {
	workers := e.DFSWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	frontier := &dfsFrontier{
		stack:   []graph.NodeID{start},
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
