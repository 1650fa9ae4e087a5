package network

import "sort"

// Graph is an undirected weighted simple graph over string node keys,
// represented as an adjacency map. Self-loops are rejected at insertion.
// It is the shape both the projection result and the metrics engine consume.
type Graph struct {
	adj   map[string]map[string]float64
	edges int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]float64)}
}

// AddNode ensures a node exists, with or without edges.
func (g *Graph) AddNode(key string) {
	if _, ok := g.adj[key]; !ok {
		g.adj[key] = make(map[string]float64)
	}
}

// AddEdge inserts an undirected edge with the given weight, creating the
// endpoints if needed. Self-loops are ignored. Re-adding an edge overwrites
// its weight without changing the edge count.
func (g *Graph) AddEdge(u, v string, weight float64) {
	if u == v {
		return
	}
	g.AddNode(u)
	g.AddNode(v)
	if _, exists := g.adj[u][v]; !exists {
		g.edges++
	}
	g.adj[u][v] = weight
	g.adj[v][u] = weight
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.adj[key]
	return ok
}

// HasEdge reports whether an edge exists between u and v.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Weight returns the edge weight, or 0 when no edge exists.
func (g *Graph) Weight(u, v string) float64 {
	return g.adj[u][v]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns all node keys in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.adj))
	for k := range g.adj {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Neighbors returns the neighbor keys of a node in sorted order.
func (g *Graph) Neighbors(key string) []string {
	out := make([]string, 0, len(g.adj[key]))
	for n := range g.adj[key] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(key string) int {
	return len(g.adj[key])
}

// Strength returns the sum of incident edge weights at a node, the weighted
// analogue of degree.
func (g *Graph) Strength(key string) float64 {
	var total float64
	for _, w := range g.adj[key] {
		total += w
	}
	return total
}

// EdgeWeight is one undirected edge with its weight, U < V.
type EdgeWeight struct {
	U, V   string
	Weight float64
}

// Edges returns every undirected edge exactly once, sorted by (U, V).
func (g *Graph) Edges() []EdgeWeight {
	out := make([]EdgeWeight, 0, g.edges)
	for u, neighbors := range g.adj {
		for v, w := range neighbors {
			if u < v {
				out = append(out, EdgeWeight{U: u, V: v, Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].U != out[j].U {
			return out[i].U < out[j].U
		}
		return out[i].V < out[j].V
	})
	return out
}
