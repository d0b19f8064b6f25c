package depgraph

import "sort"

// RankedDependency is one distribution with its accumulated
// importance score.
type RankedDependency struct {
	Package string  `json:"package"`
	Score   float64 `json:"score"`
}

// TopDependencies aggregates node scores up to distribution names and
// returns them ordered by importance. Component scores fold into
// their owning distribution. Distributions named in selfNames (the
// analyzed repository's own package identities) are excluded, as are
// zero scores. Ties order lexicographically.
func (g *Graph) TopDependencies(scores map[string]float64, selfNames map[string]struct{}) []RankedDependency {
	if len(scores) == 0 {
		return nil
	}

	byDist := make(map[string]float64)
	for nodeID, score := range scores {
		n, ok := g.Node(nodeID)
		if !ok {
			continue
		}
		if n.Type != NodePackage && n.Type != NodeComponent {
			continue
		}
		dist := n.DistributionName
		if dist == "" {
			dist = n.Package
		}
		if dist == "" {
			dist = nodeID
		}
		byDist[dist] += score
	}

	ranked := make([]RankedDependency, 0, len(byDist))
	for dist, score := range byDist {
		if score <= 0 {
			continue
		}
		if _, self := selfNames[dist]; self {
			continue
		}
		ranked = append(ranked, RankedDependency{Package: dist, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Package < ranked[j].Package
	})
	return ranked
}
