package centrality

import "math"

// PageRank computes PageRank scores over a directed graph using power
// iteration with damping factor alpha. Out-edge weights are
// normalized per node into a stochastic transition matrix; dangling
// nodes redistribute their mass uniformly. Returns an error when the
// iteration does not converge within the iteration budget.
func PageRank(g Graph, alpha float64, useWeights bool) (map[string]float64, error) {
	nodes := g.NodeIDs()
	n := len(nodes)
	if n == 0 {
		return map[string]float64{}, nil
	}

	succ, outWeight := adjacency(g, useWeights)

	x := make(map[string]float64, n)
	for _, id := range nodes {
		x[id] = 1.0 / float64(n)
	}
	uniform := 1.0 / float64(n)

	for iter := 0; iter < defaultMaxIter; iter++ {
		xlast := x
		x = make(map[string]float64, n)
		for _, id := range nodes {
			x[id] = 0
		}

		danglesum := 0.0
		for _, id := range nodes {
			if outWeight[id] == 0 {
				danglesum += xlast[id]
			}
		}
		danglesum *= alpha

		for _, id := range nodes {
			share := xlast[id]
			for _, e := range succ[id] {
				x[e.Target] += alpha * share * e.Weight / outWeight[id]
			}
		}
		for _, id := range nodes {
			x[id] += danglesum*uniform + (1-alpha)*uniform
		}

		err := 0.0
		for _, id := range nodes {
			err += math.Abs(x[id] - xlast[id])
		}
		if err < float64(n)*defaultTol {
			return x, nil
		}
	}
	return nil, convergenceError(defaultMaxIter)
}

// adjacency collects successor edges and total out-weight per node.
// With useWeights off every edge counts as 1.
func adjacency(g Graph, useWeights bool) (map[string][]WeightedEdge, map[string]float64) {
	succ := make(map[string][]WeightedEdge)
	outWeight := make(map[string]float64)
	for _, e := range g.WeightedEdges() {
		w := e.Weight
		if !useWeights {
			w = 1.0
		}
		succ[e.Source] = append(succ[e.Source], WeightedEdge{Source: e.Source, Target: e.Target, Weight: w})
		outWeight[e.Source] += w
	}
	return succ, outWeight
}
