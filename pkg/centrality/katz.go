package centrality

import "math"

// Katz computes unnormalized Katz centrality with attenuation factor
// alpha and a uniform exogenous contribution of 1.0 per node:
//
//	x_i = alpha * sum_j w_ji * x_j + 1
//
// solved by power iteration. Returns an error when the iteration does
// not converge, which happens whenever alpha exceeds the reciprocal
// of the graph's largest eigenvalue.
func Katz(g Graph, alpha float64, useWeights bool) (map[string]float64, error) {
	nodes := g.NodeIDs()
	n := len(nodes)
	if n == 0 {
		return map[string]float64{}, nil
	}

	succ, _ := adjacency(g, useWeights)

	x := make(map[string]float64, n)
	for _, id := range nodes {
		x[id] = 0
	}

	for iter := 0; iter < defaultMaxIter; iter++ {
		xlast := x
		x = make(map[string]float64, n)
		for _, id := range nodes {
			x[id] = 0
		}

		for _, id := range nodes {
			for _, e := range succ[id] {
				x[e.Target] += xlast[id] * e.Weight
			}
		}
		for _, id := range nodes {
			x[id] = alpha*x[id] + 1.0
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
