// Package analysis computes descriptive network metrics over simple and
// weighted graphs. The engine is stateless: every call reads only the graph
// it is handed and returns a fresh record.
package analysis

import (
	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/network"
	"gonum.org/v1/gonum/stat"
)

// MetricsRecord is a flat metric-name to value mapping, one per graph
// snapshot. It has no identity beyond the call that created it.
type MetricsRecord map[string]float64

// BasicFields is the export order for the structural metric set.
var BasicFields = []string{
	"n_nodes", "n_edges", "density",
	"avg_degree", "max_degree", "min_degree",
	"isolated_nodes", "pct_isolated",
	"n_components", "lcc_size", "lcc_pct",
	"clustering_global",
}

// WeightedFields is the export order for the strength-based metric set.
var WeightedFields = []string{
	"avg_strength", "max_strength", "min_strength", "std_strength",
	"total_weight", "avg_edge_weight",
}

// ComputeBasic computes the structural metric set. Graphs too small for a
// metric degrade that metric to zero; degeneracy is logged, never raised.
func ComputeBasic(g *network.Graph, logger logging.Logger) MetricsRecord {
	m := MetricsRecord{}
	n := g.NodeCount()
	e := g.EdgeCount()
	m["n_nodes"] = float64(n)
	m["n_edges"] = float64(e)

	if n > 1 {
		m["density"] = 2 * float64(e) / (float64(n) * float64(n-1))
	} else {
		m["density"] = 0
	}

	degrees := make([]float64, 0, n)
	isolated := 0
	for _, node := range g.Nodes() {
		d := g.Degree(node)
		degrees = append(degrees, float64(d))
		if d == 0 {
			isolated++
		}
	}
	if len(degrees) > 0 {
		m["avg_degree"] = stat.Mean(degrees, nil)
		m["max_degree"], m["min_degree"] = maxMin(degrees)
	} else {
		m["avg_degree"], m["max_degree"], m["min_degree"] = 0, 0, 0
	}

	m["isolated_nodes"] = float64(isolated)
	if n > 0 {
		m["pct_isolated"] = float64(isolated) / float64(n) * 100
	} else {
		m["pct_isolated"] = 0
	}

	components := connectedComponents(g)
	m["n_components"] = float64(len(components))
	lcc := 0
	for _, c := range components {
		if c > lcc {
			lcc = c
		}
	}
	m["lcc_size"] = float64(lcc)
	if n > 0 {
		m["lcc_pct"] = float64(lcc) / float64(n) * 100
	} else {
		m["lcc_pct"] = 0
	}

	if n > 2 {
		m["clustering_global"] = transitivity(g)
	} else {
		m["clustering_global"] = 0
		logger.Warn("graph too small for clustering, degrading to 0",
			logging.Int("n_nodes", n))
	}

	return m
}

// ComputeWeighted computes the strength-based metric set. Edges without an
// explicit weight count as 1 by construction of the graph type.
// std_strength is the population standard deviation.
func ComputeWeighted(g *network.Graph) MetricsRecord {
	m := MetricsRecord{}

	strengths := make([]float64, 0, g.NodeCount())
	for _, node := range g.Nodes() {
		strengths = append(strengths, g.Strength(node))
	}
	if len(strengths) > 0 {
		m["avg_strength"] = stat.Mean(strengths, nil)
		m["max_strength"], m["min_strength"] = maxMin(strengths)
		m["std_strength"] = stat.PopStdDev(strengths, nil)
	} else {
		m["avg_strength"], m["max_strength"], m["min_strength"], m["std_strength"] = 0, 0, 0, 0
	}

	var total float64
	edges := g.Edges()
	for _, e := range edges {
		total += e.Weight
	}
	m["total_weight"] = total
	if len(edges) > 0 {
		m["avg_edge_weight"] = total / float64(len(edges))
	} else {
		m["avg_edge_weight"] = 0
	}

	return m
}

func maxMin(values []float64) (maxV, minV float64) {
	maxV, minV = values[0], values[0]
	for _, v := range values[1:] {
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
	}
	return maxV, minV
}

// connectedComponents returns the size of each connected component, found
// by BFS from every unvisited node.
func connectedComponents(g *network.Graph) []int {
	visited := make(map[string]bool, g.NodeCount())
	var sizes []int

	for _, start := range g.Nodes() {
		if visited[start] {
			continue
		}
		size := 0
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			size++
			for _, next := range g.Neighbors(current) {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// transitivity computes the global clustering coefficient: the ratio of
// closed triplets to all triplets. Per node, triangles through it are the
// adjacent pairs among its neighbors; summed over nodes that counts each
// triangle three times, and the triplet total is sum over nodes of
// C(degree, 2), so the ratio needs no further scaling.
func transitivity(g *network.Graph) float64 {
	closed := 0
	triplets := 0
	for _, u := range g.Nodes() {
		neighbors := g.Neighbors(u)
		k := len(neighbors)
		triplets += k * (k - 1) / 2
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					closed++
				}
			}
		}
	}
	if triplets == 0 {
		return 0
	}
	return float64(closed) / float64(triplets)
}

// DegreeDistribution returns per-node degrees in node-sorted order, for the
// distribution export.
func DegreeDistribution(g *network.Graph) []float64 {
	nodes := g.Nodes()
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = float64(g.Degree(n))
	}
	return out
}

// StrengthDistribution returns per-node strengths in node-sorted order.
func StrengthDistribution(g *network.Graph) []float64 {
	nodes := g.Nodes()
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = g.Strength(n)
	}
	return out
}
