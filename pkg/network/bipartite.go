package network

import (
	"sort"
)

// Partition tags a bipartite node as belonging to the person or service side.
type Partition uint8

const (
	PartitionPerson Partition = iota
	PartitionService
)

// String returns the partition name.
func (p Partition) String() string {
	if p == PartitionPerson {
		return "person"
	}
	return "service"
}

// BipartiteGraph is the typed person-service graph. The two partitions are
// held in separate adjacency maps keyed by raw identifier, so a value that
// appears both as a person and as a service yields two distinct nodes rather
// than one conflated node. Every edge carries the sorted set of years it was
// observed in; repeated (person, service) pairs across years collapse into a
// single edge accumulating all years rather than keeping only the last one.
type BipartiteGraph struct {
	persons  map[string]map[string][]int // person -> service -> sorted years
	services map[string]map[string]bool  // service -> person set
	edges    int
}

// NewBipartiteGraph builds the bipartite graph from a distinct-triple edge
// list. An empty list is a SchemaError: a degenerate graph would make every
// downstream metric a meaningless zero, so it is reported, not tolerated.
func NewBipartiteGraph(triples []Triple) (*BipartiteGraph, error) {
	if len(triples) == 0 {
		return nil, schemaErr("bipartite build", "", ErrEmptyEdgeList)
	}

	g := &BipartiteGraph{
		persons:  make(map[string]map[string][]int),
		services: make(map[string]map[string]bool),
	}
	for _, t := range triples {
		g.addObservation(t.Person, t.Service, t.Year)
	}

	// Unreachable with a non-empty triple list, kept as a guard for the
	// invariant the error taxonomy promises.
	if len(g.persons) == 0 {
		return nil, schemaErr("bipartite build", "", ErrNoPersons)
	}
	if len(g.services) == 0 {
		return nil, schemaErr("bipartite build", "", ErrNoServices)
	}
	return g, nil
}

func (g *BipartiteGraph) addObservation(person, service string, year int) {
	if g.persons[person] == nil {
		g.persons[person] = make(map[string][]int)
	}
	if g.services[service] == nil {
		g.services[service] = make(map[string]bool)
	}

	years, existed := g.persons[person][service]
	if !existed {
		g.edges++
	}
	for _, y := range years {
		if y == year {
			g.persons[person][service] = years
			g.services[service][person] = true
			return
		}
	}
	years = append(years, year)
	sort.Ints(years)
	g.persons[person][service] = years
	g.services[service][person] = true
}

// PersonCount returns the size of the person partition.
func (g *BipartiteGraph) PersonCount() int {
	return len(g.persons)
}

// ServiceCount returns the size of the service partition.
func (g *BipartiteGraph) ServiceCount() int {
	return len(g.services)
}

// EdgeCount returns the number of distinct (person, service) edges.
func (g *BipartiteGraph) EdgeCount() int {
	return g.edges
}

// Persons returns the person partition in sorted order. This is the fixed
// enumeration order the projection uses, so pair evaluation is deterministic.
func (g *BipartiteGraph) Persons() []string {
	out := make([]string, 0, len(g.persons))
	for p := range g.persons {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Services returns the service partition in sorted order.
func (g *BipartiteGraph) Services() []string {
	out := make([]string, 0, len(g.services))
	for s := range g.services {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ServicesOf returns the service set of a person as a map view. The caller
// must not mutate it.
func (g *BipartiteGraph) ServicesOf(person string) map[string][]int {
	return g.persons[person]
}

// PersonsOf returns the sorted persons connected to a service.
func (g *BipartiteGraph) PersonsOf(service string) []string {
	out := make([]string, 0, len(g.services[service]))
	for p := range g.services[service] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether a person-service edge exists.
func (g *BipartiteGraph) HasEdge(person, service string) bool {
	_, ok := g.persons[person][service]
	return ok
}

// Years returns the sorted years a person-service edge was observed in, or
// nil when no such edge exists.
func (g *BipartiteGraph) Years(person, service string) []int {
	return g.persons[person][service]
}

// EdgeList re-derives the distinct-triple rows from the graph, sorted by
// (person, service, year). One row per observed year per edge, matching the
// builder's input form, so the bipartite export is stable either way.
func (g *BipartiteGraph) EdgeList() []Triple {
	var out []Triple
	for _, p := range g.Persons() {
		services := make([]string, 0, len(g.persons[p]))
		for s := range g.persons[p] {
			services = append(services, s)
		}
		sort.Strings(services)
		for _, s := range services {
			for _, y := range g.persons[p][s] {
				out = append(out, Triple{Person: p, Service: s, Year: y})
			}
		}
	}
	return out
}

// Simple flattens the bipartite graph into an untyped simple graph with
// partition-prefixed node keys, suitable for the metrics engine. The prefix
// preserves partition disjointness even when a raw identifier appears on
// both sides.
func (g *BipartiteGraph) Simple() *Graph {
	out := NewGraph()
	for p, services := range g.persons {
		pk := "person:" + p
		out.AddNode(pk)
		for s := range services {
			out.AddEdge(pk, "service:"+s, 1)
		}
	}
	for s := range g.services {
		out.AddNode("service:" + s)
	}
	return out
}
