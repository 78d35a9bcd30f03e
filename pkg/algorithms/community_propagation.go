package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Fast, scalable algorithm for large graphs.
//
// Nodes are visited in ascending id order and adopt the label with the
// largest edge weight among their neighbours. A node keeps its label when it
// is among the heaviest; otherwise the lowest heaviest label wins.
func LabelPropagation(g *graph.Graph, maxIterations int) (*CommunityDetectionResult, error) {
	if g == nil {
		return nil, invalidGraph("label propagation", "graph is nil")
	}
	if maxIterations < 1 {
		return nil, invalidParameter("label propagation", "iterations", "must be at least 1, got %d", maxIterations)
	}

	labels := propagateLabels(g, maxIterations)
	dense, _ := renumber(labels)
	partition := fromAssignment(g, dense)

	result := &CommunityDetectionResult{
		Objective:     "label_propagation",
		Communities:   listCommunities(g, dense),
		NodeCommunity: partition,
	}
	if g.TotalWeight() > 0 {
		q, err := PartitionModularity(g, partition)
		if err != nil {
			return nil, err
		}
		result.Modularity = q
		result.Score = q
	}
	return result, nil
}

// propagateLabels returns arena-indexed labels in [0, n)
func propagateLabels(g *graph.Graph, maxIterations int) []int {
	n := g.NodeCount()

	// Initialize: each node in its own community
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	nw := newNeighborWeights(n)

	// Iterate until convergence or max iterations
	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for node := 0; node < n; node++ {
			nw.collect(g, labels, node)
			if len(nw.touched) == 0 {
				continue
			}

			current := labels[node]
			best := current
			bestWeight := nw.weight[current]
			for _, label := range nw.touched {
				if nw.weight[label] > bestWeight {
					best = label
					bestWeight = nw.weight[label]
				}
			}

			if best != current {
				labels[node] = best
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	return labels
}
