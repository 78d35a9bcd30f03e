package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// buildGraph creates a unit-size graph from (u, v, w) triples
func buildGraph(t *testing.T, edges [][3]float64, isolated ...graph.NodeID) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	for _, id := range isolated {
		if err := b.AddNode(id, 1); err != nil {
			t.Fatalf("AddNode(%d) failed: %v", id, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(graph.NodeID(e[0]), graph.NodeID(e[1]), e[2]); err != nil {
			t.Fatalf("AddEdge(%v) failed: %v", e, err)
		}
	}
	return b.Build()
}

// twoTriangles builds {0,1,2} and {3,4,5} with no edge between them
func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	return buildGraph(t, [][3]float64{
		{0, 1, 1}, {0, 2, 1}, {1, 2, 1},
		{3, 4, 1}, {3, 5, 1}, {4, 5, 1},
	})
}

// sameCommunity reports whether all ids share one community in p
func sameCommunity(p Partition, ids ...graph.NodeID) bool {
	for _, id := range ids[1:] {
		if p[id] != p[ids[0]] {
			return false
		}
	}
	return true
}
