package algorithms

import (
	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// CommunityScore is the linearity breakdown of a single community
type CommunityScore struct {
	I float64 // internal density
	E float64 // external density
	M float64 // a·I − b·E
}

// CoverScore is the linearity breakdown of a set of communities
type CoverScore struct {
	I float64
	E float64
	S int
	M float64 // a·I − b·E − c·S
}

// communityStats holds the raw sums needed by the per-community measures
type communityStats struct {
	mass     int     // Σ member sizes
	internal float64 // weight with both ends inside, self-loops once
	cut      float64 // weight with exactly one end inside
}

func measure(op string, g *graph.Graph, members []graph.NodeID) (communityStats, error) {
	var st communityStats
	inside := make(map[int]bool, len(members))
	order := make([]int, 0, len(members))
	for _, id := range members {
		i, ok := g.Index(id)
		if !ok {
			return st, invalidParameter(op, "members", "unknown node %d", id)
		}
		if inside[i] {
			continue
		}
		inside[i] = true
		order = append(order, i)
		st.mass += g.SizeAt(i)
	}
	slices.Sort(order)
	for _, i := range order {
		for _, nb := range g.NeighborsAt(i) {
			switch {
			case nb.Index == i:
				st.internal += nb.Weight
			case inside[nb.Index]:
				// counted from both ends
				st.internal += nb.Weight / 2
			default:
				st.cut += nb.Weight
			}
		}
	}
	return st, nil
}

func graphMass(g *graph.Graph) int {
	total := 0
	for i := 0; i < g.NodeCount(); i++ {
		total += g.SizeAt(i)
	}
	return total
}

func internalDensity(st communityStats) float64 {
	if st.mass < 2 {
		return 1
	}
	s := float64(st.mass)
	return 2 * st.internal / (s * (s - 1))
}

func externalDensity(st communityStats, total int) float64 {
	if st.mass == 0 || st.mass == total {
		return 0
	}
	s := float64(st.mass)
	return st.cut / (s * float64(total-st.mass))
}

// InternalDensity returns the fraction of possible internal pairs realised
// by edge weight. Communities with fewer than two members have density 1.
func InternalDensity(g *graph.Graph, members []graph.NodeID) (float64, error) {
	st, err := measure("internal density", g, members)
	if err != nil {
		return 0, err
	}
	return internalDensity(st), nil
}

// ExternalDensity returns the cut weight over the number of possible
// boundary pairs. The empty community and the whole graph have density 0.
func ExternalDensity(g *graph.Graph, members []graph.NodeID) (float64, error) {
	st, err := measure("external density", g, members)
	if err != nil {
		return 0, err
	}
	return externalDensity(st, graphMass(g)), nil
}

// Conductance returns 2·internal / (2·internal + 2·cut), or 0 when the
// community touches no edge.
func Conductance(g *graph.Graph, members []graph.NodeID) (float64, error) {
	st, err := measure("conductance", g, members)
	if err != nil {
		return 0, err
	}
	denom := 2*st.internal + 2*st.cut
	if denom == 0 {
		return 0, nil
	}
	return 2 * st.internal / denom, nil
}

// CommunityLinearity scores a single community. params.C is ignored.
func CommunityLinearity(g *graph.Graph, members []graph.NodeID, params LinearityParams) (CommunityScore, error) {
	if err := params.Validate(); err != nil {
		return CommunityScore{}, err
	}
	st, err := measure("community linearity", g, members)
	if err != nil {
		return CommunityScore{}, err
	}
	I := internalDensity(st)
	E := externalDensity(st, graphMass(g))
	return CommunityScore{I: I, E: E, M: params.A*I - params.B*E}, nil
}

// CoverLinearity scores a set of communities. I is measured over the whole
// set, E is the share of total weight on edges that lie inside no community.
func CoverLinearity(g *graph.Graph, cover *Cover, params LinearityParams) (CoverScore, error) {
	if err := params.Validate(); err != nil {
		return CoverScore{}, err
	}
	if cover == nil {
		cover = &Cover{}
	}

	covered := make(map[[2]int]bool)
	exists, ideal := 0.0, 0.0
	for _, members := range cover.Communities {
		st, err := measure("cover linearity", g, members)
		if err != nil {
			return CoverScore{}, err
		}
		s := float64(st.mass)
		ideal += s * (s - 1)
		if st.mass > 1 {
			exists += 2 * st.internal
		}

		inside := make(map[int]bool, len(members))
		for _, id := range members {
			i, _ := g.Index(id)
			inside[i] = true
		}
		for i := range inside {
			for _, nb := range g.NeighborsAt(i) {
				if nb.Index >= i && inside[nb.Index] {
					covered[[2]int{i, nb.Index}] = true
				}
			}
		}
	}

	uncovered := 0.0
	for i := 0; i < g.NodeCount(); i++ {
		for _, nb := range g.NeighborsAt(i) {
			if nb.Index >= i && !covered[[2]int{i, nb.Index}] {
				uncovered += nb.Weight
			}
		}
	}

	score := CoverScore{I: 1, S: cover.Len()}
	if ideal != 0 {
		score.I = exists / ideal
	}
	if L := g.TotalWeight(); L != 0 {
		score.E = uncovered / L
	}
	score.M = params.A*score.I - params.B*score.E - params.C*float64(score.S)
	return score, nil
}

// PartitionModularity computes the modularity of p on g
func PartitionModularity(g *graph.Graph, p Partition) (float64, error) {
	if g == nil {
		return 0, invalidGraph("modularity", "graph is nil")
	}
	assignment, err := toAssignment("modularity", g, p)
	if err != nil {
		return 0, err
	}
	dense, _ := renumber(assignment)

	obj, err := ModularityObjective().bind(g)
	if err != nil {
		return 0, err
	}
	acc, err := NewAccounting(g, dense)
	if err != nil {
		return 0, err
	}
	return obj.Score(acc), nil
}
