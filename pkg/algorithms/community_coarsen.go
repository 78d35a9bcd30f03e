package algorithms

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// renumber maps community ids to dense ids 0..k-1 in order of first
// encounter along arena order.
func renumber(assignment []int) ([]int, int) {
	dense := make(map[int]int)
	out := make([]int, len(assignment))
	for i, c := range assignment {
		id, ok := dense[c]
		if !ok {
			id = len(dense)
			dense[c] = id
		}
		out[i] = id
	}
	return out, len(dense)
}

// Renumber returns p with community ids replaced by dense ids 0..k-1,
// assigned in order of first encounter along ascending node id.
func Renumber(p Partition) Partition {
	ids := maps.Keys(p)
	slices.Sort(ids)

	assignment := make([]int, len(ids))
	for i, id := range ids {
		assignment[i] = p[id]
	}
	dense, _ := renumber(assignment)

	out := make(Partition, len(ids))
	for i, id := range ids {
		out[id] = dense[i]
	}
	return out
}

// toAssignment converts a partition of g into an arena-indexed slice. The
// partition must cover every node of g and nothing else.
func toAssignment(op string, g *graph.Graph, p Partition) ([]int, error) {
	n := g.NodeCount()
	if len(p) != n {
		for id := range p {
			if !g.HasNode(id) {
				return nil, invalidParameter(op, "partition", "unknown node %d", id)
			}
		}
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		c, ok := p[g.IDAt(i)]
		if !ok {
			return nil, invalidParameter(op, "partition", "node %d has no community", g.IDAt(i))
		}
		out[i] = c
	}
	return out, nil
}

// fromAssignment keys an arena-indexed assignment on the node ids of g
func fromAssignment(g *graph.Graph, assignment []int) Partition {
	p := make(Partition, len(assignment))
	for i, c := range assignment {
		p[g.IDAt(i)] = c
	}
	return p
}

// coarsen collapses every community of a dense assignment into one node.
// Intra-community edges become self-loops on the community node.
func coarsen(g *graph.Graph, assignment []int, k int) *graph.Graph {
	sizes := make([]int, k)
	for i, c := range assignment {
		sizes[c] += g.SizeAt(i)
	}

	b := graph.NewBuilder()
	for c, s := range sizes {
		_ = b.AddNode(graph.NodeID(c), s)
	}
	for i := 0; i < g.NodeCount(); i++ {
		for _, nb := range g.NeighborsAt(i) {
			if nb.Index < i {
				continue
			}
			// Weights are positive and finite by construction.
			_ = b.AddEdge(graph.NodeID(assignment[i]), graph.NodeID(assignment[nb.Index]), nb.Weight)
		}
	}
	return b.Build()
}

// Coarsen builds the community graph of p: one node per community, sized by
// the sum of member sizes, with edge weights summed between communities. It
// returns the renumbered partition whose ids are the new node ids.
func Coarsen(g *graph.Graph, p Partition) (*graph.Graph, Partition, error) {
	if g == nil {
		return nil, nil, invalidGraph("coarsen", "graph is nil")
	}
	assignment, err := toAssignment("coarsen", g, p)
	if err != nil {
		return nil, nil, err
	}
	dense, k := renumber(assignment)
	return coarsen(g, dense, k), fromAssignment(g, dense), nil
}
