package network

import (
	"sort"
	"sync"
)

// ProjectionEdge is one weighted person-person edge with its shared-service
// evidence. Person1 < Person2, weight equals len(Shared), Shared is sorted.
type ProjectionEdge struct {
	Person1 string
	Person2 string
	Weight  int
	Shared  []string
}

// Projection is the weighted person-person graph plus the parallel evidence
// edge table. After Project returns, the engine never mutates it again.
type Projection struct {
	Graph *Graph
	Edges []ProjectionEdge
}

// Algorithm selects how the projection is computed. All algorithms produce
// identical output.
type Algorithm int

const (
	// AlgorithmIndex enumerates co-occurring person pairs per service and
	// accumulates counters, avoiding the quadratic all-pairs scan when
	// services have low degree. This is the production algorithm.
	AlgorithmIndex Algorithm = iota
	// AlgorithmPairwise intersects every unordered person pair's service
	// sets. The reference semantics; quadratic in person count.
	AlgorithmPairwise
	// AlgorithmParallel shards the pairwise scan over a worker pool.
	AlgorithmParallel
)

// Options configures Project.
type Options struct {
	Algorithm Algorithm
	Workers   int // parallel algorithm only; <= 0 means 1
}

// Project derives the weighted person-person graph from the bipartite graph.
// Two persons are connected iff they share at least one service; the weight
// is the number of shared services. Every person appears in the node set,
// including persons whose services are disjoint from everyone else's.
// Edge enumeration is deterministic: pairs are ordered by sorted person key.
func Project(bg *BipartiteGraph, opts Options) *Projection {
	var edges []ProjectionEdge
	switch opts.Algorithm {
	case AlgorithmPairwise:
		edges = projectPairwise(bg)
	case AlgorithmParallel:
		edges = projectParallel(bg, opts.Workers)
	default:
		edges = projectIndex(bg)
	}

	graph := NewGraph()
	for _, p := range bg.Persons() {
		graph.AddNode(p)
	}
	for _, e := range edges {
		graph.AddEdge(e.Person1, e.Person2, float64(e.Weight))
	}
	return &Projection{Graph: graph, Edges: edges}
}

// projectPairwise is the reference algorithm: for each unordered person pair
// (i < j in sorted order), intersect service sets and emit an edge when the
// intersection is non-empty.
func projectPairwise(bg *BipartiteGraph) []ProjectionEdge {
	persons := bg.Persons()
	var edges []ProjectionEdge
	for i, p1 := range persons {
		for _, p2 := range persons[i+1:] {
			if e, ok := intersect(bg, p1, p2); ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// projectParallel shards the outer loop of the pairwise scan across a worker
// pool. Each shard appends to its own slice; shards are merged in order, so
// output is identical to the sequential scan.
func projectParallel(bg *BipartiteGraph, workers int) []ProjectionEdge {
	persons := bg.Persons()
	if len(persons) < 2 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}

	shards := make([][]ProjectionEdge, len(persons))
	pool := newWorkerPool(workers)
	var wg sync.WaitGroup
	for i := range persons {
		i := i
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			p1 := persons[i]
			var shard []ProjectionEdge
			for _, p2 := range persons[i+1:] {
				if e, ok := intersect(bg, p1, p2); ok {
					shard = append(shard, e)
				}
			}
			shards[i] = shard
		})
	}
	wg.Wait()
	pool.close()

	var edges []ProjectionEdge
	for _, shard := range shards {
		edges = append(edges, shard...)
	}
	return edges
}

// projectIndex is the inverted-index algorithm: for each service, every
// unordered pair of its persons shares that service, so walk services and
// accumulate per-pair evidence. Equivalent to the pairwise scan but never
// touches pairs with an empty intersection.
func projectIndex(bg *BipartiteGraph) []ProjectionEdge {
	type pairKey struct{ a, b string }
	shared := make(map[pairKey][]string)

	for _, service := range bg.Services() {
		persons := bg.PersonsOf(service)
		for i, p1 := range persons {
			for _, p2 := range persons[i+1:] {
				k := pairKey{a: p1, b: p2}
				shared[k] = append(shared[k], service)
			}
		}
	}

	edges := make([]ProjectionEdge, 0, len(shared))
	for k, services := range shared {
		sort.Strings(services)
		edges = append(edges, ProjectionEdge{
			Person1: k.a,
			Person2: k.b,
			Weight:  len(services),
			Shared:  services,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Person1 != edges[j].Person1 {
			return edges[i].Person1 < edges[j].Person1
		}
		return edges[i].Person2 < edges[j].Person2
	})
	return edges
}

// intersect computes one pair's shared services. The smaller service set is
// walked, so each pair costs O(min(|S1|, |S2|)).
func intersect(bg *BipartiteGraph, p1, p2 string) (ProjectionEdge, bool) {
	s1 := bg.ServicesOf(p1)
	s2 := bg.ServicesOf(p2)
	if len(s2) < len(s1) {
		s1, s2 = s2, s1
	}

	var shared []string
	for s := range s1 {
		if _, ok := s2[s]; ok {
			shared = append(shared, s)
		}
	}
	if len(shared) == 0 {
		return ProjectionEdge{}, false
	}
	sort.Strings(shared)
	return ProjectionEdge{Person1: p1, Person2: p2, Weight: len(shared), Shared: shared}, true
}
