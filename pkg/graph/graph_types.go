package graph

import "errors"

// Common sentinel errors
var (
	ErrInvalidWeight = errors.New("edge weight must be positive and finite")
	ErrInvalidSize   = errors.New("node size must be at least 1")
	ErrNodeNotFound  = errors.New("node not found")
)

// NodeID identifies a node. IDs are opaque but ordered; every traversal in this
// module visits nodes in ascending ID order.
type NodeID uint64

// Neighbor is one adjacency entry, addressed by arena index.
type Neighbor struct {
	Index  int
	Weight float64
}

// Edge is an undirected edge reported with U <= V.
type Edge struct {
	U      NodeID
	V      NodeID
	Weight float64
}

// Graph is an immutable weighted undirected graph.
//
// Nodes live in an arena sorted by ID, so arena index order and ID order agree.
// Parallel edges are merged at build time. Self-loops are kept and count twice
// towards the degree of their node.
type Graph struct {
	ids         []NodeID
	index       map[NodeID]int
	sizes       []int
	adjacency   [][]Neighbor // sorted by Neighbor.Index
	degrees     []float64
	loops       []float64
	totalWeight float64
	edgeCount   int
}
