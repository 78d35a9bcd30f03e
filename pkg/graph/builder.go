package graph

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type edgeKey struct {
	u, v NodeID
}

func newEdgeKey(u, v NodeID) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u: u, v: v}
}

// Builder accumulates nodes and edges and produces an immutable Graph.
type Builder struct {
	sizes   map[NodeID]int
	weights map[edgeKey]float64
}

// NewBuilder creates an empty graph builder
func NewBuilder() *Builder {
	return &Builder{
		sizes:   make(map[NodeID]int),
		weights: make(map[edgeKey]float64),
	}
}

// AddNode adds a node with the given size, or resets the size of an
// existing node.
func (b *Builder) AddNode(id NodeID, size int) error {
	if size < 1 {
		return fmt.Errorf("node %d: %w (got %d)", id, ErrInvalidSize, size)
	}
	b.sizes[id] = size
	return nil
}

// AddEdge adds weight w between u and v. Missing endpoints are created with
// size 1. Repeated edges accumulate weight.
func (b *Builder) AddEdge(u, v NodeID, w float64) error {
	if !(w > 0) || math.IsInf(w, 0) {
		return fmt.Errorf("edge (%d, %d): %w (got %v)", u, v, ErrInvalidWeight, w)
	}
	if _, ok := b.sizes[u]; !ok {
		b.sizes[u] = 1
	}
	if _, ok := b.sizes[v]; !ok {
		b.sizes[v] = 1
	}
	b.weights[newEdgeKey(u, v)] += w
	return nil
}

// NodeCount returns the number of nodes added so far
func (b *Builder) NodeCount() int {
	return len(b.sizes)
}

// Build freezes the builder contents into a Graph. The builder may keep being
// used afterwards; the returned graph does not share storage with it.
func (b *Builder) Build() *Graph {
	ids := maps.Keys(b.sizes)
	slices.Sort(ids)

	n := len(ids)
	g := &Graph{
		ids:       ids,
		index:     make(map[NodeID]int, n),
		sizes:     make([]int, n),
		adjacency: make([][]Neighbor, n),
		degrees:   make([]float64, n),
		loops:     make([]float64, n),
	}
	for i, id := range ids {
		g.index[id] = i
		g.sizes[i] = b.sizes[id]
	}

	for key, w := range b.weights {
		u := g.index[key.u]
		v := g.index[key.v]
		g.totalWeight += w
		g.edgeCount++
		if u == v {
			g.adjacency[u] = append(g.adjacency[u], Neighbor{Index: u, Weight: w})
			g.loops[u] += w
			g.degrees[u] += 2 * w
			continue
		}
		g.adjacency[u] = append(g.adjacency[u], Neighbor{Index: v, Weight: w})
		g.adjacency[v] = append(g.adjacency[v], Neighbor{Index: u, Weight: w})
		g.degrees[u] += w
		g.degrees[v] += w
	}

	// Map iteration above is unordered; sort adjacency so that every
	// downstream traversal is reproducible.
	for i := range g.adjacency {
		adj := g.adjacency[i]
		sort.Slice(adj, func(a, b int) bool { return adj[a].Index < adj[b].Index })
	}

	// Float sums over unordered edges can differ in the last bit between
	// runs, so recompute totals in index order.
	g.recomputeTotals()

	return g
}

func (g *Graph) recomputeTotals() {
	g.totalWeight = 0
	for i, adj := range g.adjacency {
		deg := 0.0
		for _, nb := range adj {
			if nb.Index == i {
				deg += 2 * nb.Weight
				g.totalWeight += nb.Weight
				continue
			}
			deg += nb.Weight
			if nb.Index > i {
				g.totalWeight += nb.Weight
			}
		}
		g.degrees[i] = deg
	}
}
