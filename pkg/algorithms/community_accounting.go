package algorithms

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// noCommunity marks a node that has been removed and not yet re-inserted
const noCommunity = -1

// Accounting is the per-level bookkeeping used by the objectives. Communities
// are addressed by ids in [0, n) where n is the number of nodes, so a
// community id never needs to be allocated during local search.
//
// Remove and Insert update every sum in O(1); nothing is recomputed from
// scratch after construction.
type Accounting struct {
	g *graph.Graph

	community []int // per node, noCommunity while detached

	degreeSum []float64 // per community
	internal  []float64 // per community, self-loops counted once
	size      []int     // per community, sum of member node sizes

	idealSum    float64 // Σ s(s-1)
	existsSum   float64 // Σ 2·internal over communities with s > 1
	internalSum float64 // Σ internal
	nonEmpty    int
}

// NewAccounting builds the accounting structure for g. A nil initial
// partition puts every node in its own community; otherwise initial[i] is the
// community of the node at arena index i and must lie in [0, n).
func NewAccounting(g *graph.Graph, initial []int) (*Accounting, error) {
	if g == nil {
		return nil, invalidGraph("accounting", "graph is nil")
	}
	n := g.NodeCount()
	if initial != nil && len(initial) != n {
		return nil, invalidParameter("accounting", "initial", "covers %d of %d nodes", len(initial), n)
	}

	acc := &Accounting{
		g:         g,
		community: make([]int, n),
		degreeSum: make([]float64, n),
		internal:  make([]float64, n),
		size:      make([]int, n),
	}
	for i := 0; i < n; i++ {
		c := i
		if initial != nil {
			c = initial[i]
			if c < 0 || c >= n {
				return nil, invalidParameter("accounting", "initial", "node %d has community %d outside [0, %d)", g.IDAt(i), c, n)
			}
		}
		acc.community[i] = c
	}

	for i := 0; i < n; i++ {
		c := acc.community[i]
		acc.degreeSum[c] += g.DegreeAt(i)
		acc.size[c] += g.SizeAt(i)
		for _, nb := range g.NeighborsAt(i) {
			if nb.Index == i {
				acc.internal[c] += nb.Weight
				continue
			}
			if nb.Index > i && acc.community[nb.Index] == c {
				acc.internal[c] += nb.Weight
			}
		}
	}

	for c := 0; c < n; c++ {
		acc.internalSum += acc.internal[c]
		acc.admit(c)
	}

	return acc, nil
}

func (a *Accounting) ideal(c int) float64 {
	s := float64(a.size[c])
	return s * (s - 1)
}

func (a *Accounting) exists(c int) float64 {
	if a.size[c] > 1 {
		return 2 * a.internal[c]
	}
	return 0
}

// retire removes community c's contribution from the global aggregates
func (a *Accounting) retire(c int) {
	a.idealSum -= a.ideal(c)
	a.existsSum -= a.exists(c)
	if a.size[c] > 0 {
		a.nonEmpty--
	}
}

// admit adds community c's contribution to the global aggregates
func (a *Accounting) admit(c int) {
	a.idealSum += a.ideal(c)
	a.existsSum += a.exists(c)
	if a.size[c] > 0 {
		a.nonEmpty++
	}
}

// Remove detaches node from community. weightInto is the weight of the edges
// between node and the other members of community, self-loop excluded.
func (a *Accounting) Remove(node, community int, weightInto float64) {
	loop := a.g.LoopAt(node)

	a.retire(community)
	a.degreeSum[community] -= a.g.DegreeAt(node)
	a.internal[community] -= weightInto + loop
	a.size[community] -= a.g.SizeAt(node)
	a.internalSum -= weightInto + loop
	if a.size[community] == 0 {
		// Clear float residue so an emptied community is exactly empty.
		a.degreeSum[community] = 0
		a.internal[community] = 0
	}
	a.admit(community)

	a.community[node] = noCommunity
}

// Insert attaches node to community. weightInto is the weight of the edges
// between node and the current members of community, self-loop excluded.
func (a *Accounting) Insert(node, community int, weightInto float64) {
	loop := a.g.LoopAt(node)

	a.retire(community)
	a.degreeSum[community] += a.g.DegreeAt(node)
	a.internal[community] += weightInto + loop
	a.size[community] += a.g.SizeAt(node)
	a.internalSum += weightInto + loop
	a.admit(community)

	a.community[node] = community
}

// Graph returns the graph this accounting describes
func (a *Accounting) Graph() *graph.Graph { return a.g }

// Community returns the community of the node at arena index node
func (a *Accounting) Community(node int) int { return a.community[node] }

// DegreeSum returns the summed degree of the members of community c
func (a *Accounting) DegreeSum(c int) float64 { return a.degreeSum[c] }

// Internal returns the weight of edges with both ends in community c
func (a *Accounting) Internal(c int) float64 { return a.internal[c] }

// Size returns the summed node size of community c
func (a *Accounting) Size(c int) int { return a.size[c] }

// IdealSum returns Σ s(s-1) over all communities
func (a *Accounting) IdealSum() float64 { return a.idealSum }

// ExistsSum returns Σ 2·internal over communities of size > 1
func (a *Accounting) ExistsSum() float64 { return a.existsSum }

// InternalSum returns the total internal weight over all communities
func (a *Accounting) InternalSum() float64 { return a.internalSum }

// NonEmpty returns the number of non-empty communities
func (a *Accounting) NonEmpty() int { return a.nonEmpty }

// Assignment returns a copy of the node -> community slice
func (a *Accounting) Assignment() []int {
	out := make([]int, len(a.community))
	copy(out, a.community)
	return out
}
