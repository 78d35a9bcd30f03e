package graph

import "math/rand"

// Path builds the unit-weight path 0-1-...-(n-1)
func Path(n int) *Graph {
	b := NewBuilder()
	for i := 0; i < n; i++ {
		_ = b.AddNode(NodeID(i), 1)
	}
	for i := 0; i+1 < n; i++ {
		_ = b.AddEdge(NodeID(i), NodeID(i+1), 1)
	}
	return b.Build()
}

// RingOfCliques builds `cliques` complete graphs of `size` nodes each, joined
// in a ring by one unit edge between consecutive cliques. Node IDs are
// assigned clique by clique starting at 0.
func RingOfCliques(cliques, size int) *Graph {
	b := NewBuilder()
	for c := 0; c < cliques; c++ {
		base := c * size
		for i := 0; i < size; i++ {
			_ = b.AddNode(NodeID(base+i), 1)
			for j := i + 1; j < size; j++ {
				_ = b.AddEdge(NodeID(base+i), NodeID(base+j), 1)
			}
		}
	}
	if cliques > 1 && size > 0 {
		for c := 0; c < cliques; c++ {
			next := (c + 1) % cliques
			if cliques == 2 && c == 1 {
				break // avoid doubling the single bridge
			}
			_ = b.AddEdge(NodeID(c*size+size-1), NodeID(next*size), 1)
		}
	}
	return b.Build()
}

// PlantedPartition builds a random graph of `groups` blocks of `size` nodes.
// Pairs inside a block are joined with probability pIn, pairs across blocks
// with probability pOut. The same seed always yields the same graph.
func PlantedPartition(groups, size int, pIn, pOut float64, seed int64) *Graph {
	rng := rand.New(rand.NewSource(seed))
	n := groups * size
	b := NewBuilder()
	for i := 0; i < n; i++ {
		_ = b.AddNode(NodeID(i), 1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := pOut
			if i/size == j/size {
				p = pIn
			}
			if rng.Float64() < p {
				_ = b.AddEdge(NodeID(i), NodeID(j), 1)
			}
		}
	}
	return b.Build()
}
