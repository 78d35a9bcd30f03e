package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// ClusteringCoefficient computes local clustering coefficient for all nodes.
// Measures how close a node's neighbors are to being a complete graph.
// Edge weights and self-loops are ignored.
func ClusteringCoefficient(g *graph.Graph) (map[graph.NodeID]float64, error) {
	if g == nil {
		return nil, invalidGraph("clustering coefficient", "graph is nil")
	}

	n := g.NodeCount()
	coefficients := make(map[graph.NodeID]float64, n)
	mark := make([]bool, n)

	for node := 0; node < n; node++ {
		neighbors := make([]int, 0, len(g.NeighborsAt(node)))
		for _, nb := range g.NeighborsAt(node) {
			if nb.Index != node {
				neighbors = append(neighbors, nb.Index)
			}
		}

		k := len(neighbors)
		if k < 2 {
			coefficients[g.IDAt(node)] = 0.0
			continue
		}

		for _, m := range neighbors {
			mark[m] = true
		}

		// Each triangle through node is seen from both of its other corners
		links := 0
		for _, m := range neighbors {
			for _, nb := range g.NeighborsAt(m) {
				if nb.Index != m && mark[nb.Index] {
					links++
				}
			}
		}

		for _, m := range neighbors {
			mark[m] = false
		}

		// Clustering coefficient = actual triangles / possible triangles
		triangles := links / 2
		possibleTriangles := k * (k - 1) / 2
		coefficients[g.IDAt(node)] = float64(triangles) / float64(possibleTriangles)
	}

	return coefficients, nil
}

// AverageClusteringCoefficient computes the average clustering coefficient
func AverageClusteringCoefficient(g *graph.Graph) (float64, error) {
	coefficients, err := ClusteringCoefficient(g)
	if err != nil {
		return 0.0, err
	}

	if len(coefficients) == 0 {
		return 0.0, nil
	}

	sum := 0.0
	for _, id := range g.Nodes() {
		sum += coefficients[id]
	}

	return sum / float64(len(coefficients)), nil
}
