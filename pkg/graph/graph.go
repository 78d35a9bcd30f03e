package graph

import "fmt"

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of distinct edges, self-loops included
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns the sum of all edge weights, each self-loop counted once
func (g *Graph) TotalWeight() float64 {
	return g.totalWeight
}

// Nodes returns all node IDs in ascending order
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, len(g.ids))
	copy(out, g.ids)
	return out
}

// HasNode reports whether id is part of the graph
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Index returns the arena index of id
func (g *Graph) Index(id NodeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// IDAt returns the node ID stored at arena index i
func (g *Graph) IDAt(i int) NodeID {
	return g.ids[i]
}

// SizeAt returns the size of the node at arena index i
func (g *Graph) SizeAt(i int) int {
	return g.sizes[i]
}

// DegreeAt returns the weighted degree of the node at arena index i
func (g *Graph) DegreeAt(i int) float64 {
	return g.degrees[i]
}

// LoopAt returns the self-loop weight of the node at arena index i
func (g *Graph) LoopAt(i int) float64 {
	return g.loops[i]
}

// NeighborsAt returns the adjacency of the node at arena index i, sorted by
// neighbour index. A self-loop appears once with the node's own index.
// The returned slice must not be modified.
func (g *Graph) NeighborsAt(i int) []Neighbor {
	return g.adjacency[i]
}

// Size returns the size of node id
func (g *Graph) Size(id NodeID) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("size of %d: %w", id, ErrNodeNotFound)
	}
	return g.sizes[i], nil
}

// Degree returns the weighted degree of node id
func (g *Graph) Degree(id NodeID) (float64, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("degree of %d: %w", id, ErrNodeNotFound)
	}
	return g.degrees[i], nil
}

// Neighbors returns the neighbour IDs of id in ascending order, excluding id
// itself even when a self-loop exists.
func (g *Graph) Neighbors(id NodeID) ([]NodeID, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("neighbors of %d: %w", id, ErrNodeNotFound)
	}
	out := make([]NodeID, 0, len(g.adjacency[i]))
	for _, nb := range g.adjacency[i] {
		if nb.Index != i {
			out = append(out, g.ids[nb.Index])
		}
	}
	return out, nil
}

// Weight returns the weight of the edge between u and v, or 0 when there is
// no such edge.
func (g *Graph) Weight(u, v NodeID) float64 {
	ui, ok := g.index[u]
	if !ok {
		return 0
	}
	vi, ok := g.index[v]
	if !ok {
		return 0
	}
	adj := g.adjacency[ui]
	lo, hi := 0, len(adj)
	for lo < hi {
		mid := (lo + hi) / 2
		if adj[mid].Index < vi {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(adj) && adj[lo].Index == vi {
		return adj[lo].Weight
	}
	return 0
}

// Edges returns every edge once, ordered by (U, V)
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edgeCount)
	for i, adj := range g.adjacency {
		for _, nb := range adj {
			if nb.Index < i {
				continue
			}
			out = append(out, Edge{U: g.ids[i], V: g.ids[nb.Index], Weight: nb.Weight})
		}
	}
	return out
}
