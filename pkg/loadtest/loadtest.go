// Package loadtest implements graphd's synthetic load generator (C13): a
// worker pool of HTTP clients issuing a mixed read/write request pattern
// against a running server, reporting throughput and latency percentiles.
//
// The worker-pool shape (bounded goroutines pulling from a shared job
// counter, atomic result accounting) is grounded on
// _examples/wllclngn-Tests's concurrent-DFS worker patterns; percentile
// math is grounded on straga-Mimir_lite/nornicdb/apoc/stats's Percentile.
package loadtest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dreamware/graphd/pkg/cli"
)

// Operation identifies one kind of request the generator can issue.
type Operation string

const (
	OpAddNode   Operation = "add_node"
	OpAddEdge   Operation = "add_edge"
	OpAdjacency Operation = "adjacency"
	OpRelations Operation = "relations"
)

// Options configures a Run.
type Options struct {
	BaseURL    string
	Username   string
	Password   string
	GraphName string
	Workers   int    // concurrent goroutines issuing requests; 0 defaults to 8
	Requests  int    // total requests to issue across all workers
	NodeLabel string // label used for generated nodes; defaults to "Bench"
	EdgeLabel string // label used for generated edges; defaults to "links"
}

// sample is one completed request's outcome, recorded under a mutex-free
// atomic append into a pre-sized slice.
type sample struct {
	op       Operation
	duration time.Duration
	err      error
}

// Report summarizes a completed Run.
type Report struct {
	Total       int
	Succeeded   int
	Failed      int
	Elapsed     time.Duration
	ByOperation map[Operation]*OperationStats
}

// OperationStats summarizes latency for one Operation across a Run.
type OperationStats struct {
	Count  int
	Failed int
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// Run drives Options.Workers goroutines, each repeatedly picking a random
// operation and issuing it against the target server, until Requests total
// attempts have been made or ctx is cancelled. The target graph
// (Options.GraphName) must already exist — Run does not create it.
func Run(ctx context.Context, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}
	nodeLabel := opts.NodeLabel
	if nodeLabel == "" {
		nodeLabel = "Bench"
	}
	edgeLabel := opts.EdgeLabel
	if edgeLabel == "" {
		edgeLabel = "links"
	}
	if opts.Requests <= 0 {
		return nil, fmt.Errorf("loadtest: Requests must be positive")
	}

	client := cli.NewClient(opts.BaseURL, opts.Username, opts.Password)

	var nextID uint64
	var remaining int64 = int64(opts.Requests)
	samples := make([]sample, opts.Requests)
	var filled int64

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(w)))
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if atomic.AddInt64(&remaining, -1) < 0 {
					return
				}

				op := pickOperation(rng)
				reqStart := time.Now()
				err := issue(client, opts.GraphName, op, nodeLabel, edgeLabel, &nextID, rng)
				idx := atomic.AddInt64(&filled, 1) - 1
				samples[idx] = sample{op: op, duration: time.Since(reqStart), err: err}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	return summarize(samples[:filled], elapsed), nil
}

func pickOperation(rng *rand.Rand) Operation {
	switch rng.Intn(4) {
	case 0:
		return OpAddNode
	case 1:
		return OpAddEdge
	case 2:
		return OpAdjacency
	default:
		return OpRelations
	}
}

func issue(client *cli.Client, graphName string, op Operation, nodeLabel, edgeLabel string, nextID *uint64, rng *rand.Rand) error {
	switch op {
	case OpAddNode:
		id := atomic.AddUint64(nextID, 1)
		return client.AddNode(graphName, id, nodeLabel, map[string]string{"seq": fmt.Sprintf("%d", id)})
	case OpAddEdge:
		id := atomic.AddUint64(nextID, 1)
		from := rng.Uint64()%id + 1
		to := rng.Uint64()%id + 1
		return client.AddEdge(graphName, id, from, to, edgeLabel, nil)
	case OpAdjacency:
		_, err := client.Adjacency(graphName)
		return err
	default:
		_, err := client.Relations(graphName)
		return err
	}
}

func summarize(samples []sample, elapsed time.Duration) *Report {
	byOp := make(map[Operation][]sample)
	for _, s := range samples {
		byOp[s.op] = append(byOp[s.op], s)
	}

	report := &Report{
		Total:       len(samples),
		Elapsed:     elapsed,
		ByOperation: make(map[Operation]*OperationStats, len(byOp)),
	}
	for _, s := range samples {
		if s.err == nil {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	for op, group := range byOp {
		durations := make([]time.Duration, 0, len(group))
		failed := 0
		for _, s := range group {
			durations = append(durations, s.duration)
			if s.err != nil {
				failed++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		report.ByOperation[op] = &OperationStats{
			Count:  len(group),
			Failed: failed,
			P50:    percentile(durations, 0.50),
			P95:    percentile(durations, 0.95),
			P99:    percentile(durations, 0.99),
			Max:    maxDuration(durations),
		}
	}
	return report
}

// percentile interpolates between the two nearest ranks, matching the
// fractional-index scheme used for request-latency percentiles elsewhere
// in the ecosystem. durations must already be sorted ascending.
func percentile(durations []time.Duration, p float64) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	index := p * float64(len(durations)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(durations) {
		return durations[len(durations)-1]
	}
	weight := index - float64(lower)
	return durations[lower] + time.Duration(weight*float64(durations[upper]-durations[lower]))
}

func maxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	return durations[len(durations)-1]
}
