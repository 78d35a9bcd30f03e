package algorithms

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// DefaultOverlap is the share of a community that must already be covered by
// a kept community for DeduplicateCover to drop it.
const DefaultOverlap = 0.9

// CoverFromPartition lists the communities of p in id order. Community ids
// need not be dense; empty ids are skipped.
func CoverFromPartition(p Partition) *Cover {
	byID := make(map[int][]graph.NodeID)
	for id, c := range p {
		byID[c] = append(byID[c], id)
	}
	ids := make([]int, 0, len(byID))
	for c := range byID {
		ids = append(ids, c)
	}
	slices.Sort(ids)

	cover := &Cover{Communities: make([][]graph.NodeID, 0, len(ids))}
	for _, c := range ids {
		members := byID[c]
		slices.Sort(members)
		cover.Communities = append(cover.Communities, members)
	}
	return cover
}

type candidate struct {
	index  int
	weight float64
}

// expansion carries the cover-wide state shared by every community
type expansion struct {
	g       *graph.Graph
	params  LinearityParams
	total   float64
	ideal   float64
	exists  float64
	covered map[[2]int]bool
}

func edgeSlot(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

func (x *expansion) density() float64 {
	if x.ideal == 0 {
		return 1
	}
	return x.exists / x.ideal
}

// ExpandCommunities grows every community of cover independently by
// admitting outside neighbours while a·ΔI + b·(newly covered weight / L) is
// positive. I is measured over the whole cover and edges covered by an
// earlier admission are not counted again, so the result may overlap.
func ExpandCommunities(g *graph.Graph, cover *Cover, params LinearityParams) (*Cover, error) {
	out, _, err := expandCover(g, cover, params)
	return out, err
}

func expandCover(g *graph.Graph, cover *Cover, params LinearityParams) (*Cover, int, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, 0, invalidGraph("expand", "graph is empty")
	}
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	if cover == nil {
		return &Cover{}, 0, nil
	}

	x := &expansion{
		g:       g,
		params:  params,
		total:   g.TotalWeight(),
		covered: make(map[[2]int]bool),
	}

	// Arena-indexed member sets, plus the initial cover-wide I
	sets := make([][]bool, len(cover.Communities))
	sizes := make([]int, len(cover.Communities))
	internals := make([]float64, len(cover.Communities))
	for ci, members := range cover.Communities {
		set := make([]bool, g.NodeCount())
		for _, id := range members {
			i, ok := g.Index(id)
			if !ok {
				return nil, 0, invalidParameter("expand", "cover", "unknown node %d in community %d", id, ci)
			}
			if !set[i] {
				set[i] = true
				sizes[ci] += g.SizeAt(i)
			}
		}
		for i := 0; i < g.NodeCount(); i++ {
			if !set[i] {
				continue
			}
			for _, nb := range g.NeighborsAt(i) {
				if nb.Index >= i && set[nb.Index] {
					internals[ci] += nb.Weight
					x.covered[edgeSlot(i, nb.Index)] = true
				}
			}
		}
		s := float64(sizes[ci])
		x.ideal += s * (s - 1)
		if sizes[ci] > 1 {
			x.exists += 2 * internals[ci]
		}
		sets[ci] = set
	}

	admitted := 0
	for ci := range sets {
		for {
			node, ok := x.admit(sets[ci], &sizes[ci], &internals[ci])
			if !ok {
				break
			}
			sets[ci][node] = true
			admitted++
		}
	}

	out := &Cover{Communities: make([][]graph.NodeID, len(sets))}
	for ci, set := range sets {
		members := make([]graph.NodeID, 0, sizes[ci])
		for i, in := range set {
			if in {
				members = append(members, g.IDAt(i))
			}
		}
		out.Communities[ci] = members
	}
	return out, admitted, nil
}

// candidates lists the outside neighbours of set by (weight desc, id asc)
func (x *expansion) candidates(set []bool) []candidate {
	weights := make(map[int]float64)
	for i, in := range set {
		if !in {
			continue
		}
		for _, nb := range x.g.NeighborsAt(i) {
			if !set[nb.Index] {
				weights[nb.Index] += nb.Weight
			}
		}
	}

	out := make([]candidate, 0, len(weights))
	for i, w := range weights {
		out = append(out, candidate{index: i, weight: w})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].weight != out[b].weight {
			return out[a].weight > out[b].weight
		}
		return out[a].index < out[b].index
	})
	return out
}

// admit finds the first candidate with positive gain and applies it to the
// shared state. It reports false when no candidate qualifies.
func (x *expansion) admit(set []bool, size *int, internal *float64) (int, bool) {
	current := x.density()

	for _, cand := range x.candidates(set) {
		node := cand.index
		added := cand.weight + x.g.LoopAt(node)

		s := float64(*size)
		ns := s + float64(x.g.SizeAt(node))
		ideal := x.ideal - s*(s-1) + ns*(ns-1)

		exists := x.exists
		if *size > 1 {
			exists -= 2 * *internal
		}
		if ns > 1 {
			exists += 2 * (*internal + added)
		}

		newly := 0.0
		for _, nb := range x.g.NeighborsAt(node) {
			if nb.Index != node && set[nb.Index] && !x.covered[edgeSlot(node, nb.Index)] {
				newly += nb.Weight
			}
		}

		I := 1.0
		if ideal != 0 {
			I = exists / ideal
		}
		gain := x.params.A * (I - current)
		if x.total != 0 {
			gain += x.params.B * newly / x.total
		}
		if !(gain > 0) {
			continue
		}

		x.ideal = ideal
		x.exists = exists
		*size += x.g.SizeAt(node)
		*internal += added
		for _, nb := range x.g.NeighborsAt(node) {
			if nb.Index != node && set[nb.Index] {
				x.covered[edgeSlot(node, nb.Index)] = true
			}
		}
		return node, true
	}
	return 0, false
}

// DeduplicateCover drops communities that are mostly contained in a larger
// kept community. Communities are compared largest first, then the survivors
// are checked again smallest first. A community is dropped when at least
// overlap of its members appear in one kept community.
func DeduplicateCover(cover *Cover, overlap float64) *Cover {
	if cover.Len() == 0 {
		return &Cover{}
	}

	order := make([][]graph.NodeID, len(cover.Communities))
	copy(order, cover.Communities)
	sort.SliceStable(order, func(a, b int) bool { return len(order[a]) > len(order[b]) })

	forward := keepDistinct(order, overlap)
	slices.Reverse(forward)
	backward := keepDistinct(forward, overlap)

	return &Cover{Communities: backward}
}

func keepDistinct(communities [][]graph.NodeID, overlap float64) [][]graph.NodeID {
	kept := [][]graph.NodeID{communities[0]}
	for _, c := range communities[1:] {
		if len(c) == 0 {
			continue
		}
		seen := 0.0
		for _, k := range kept {
			if share := float64(intersectSorted(k, c)) / float64(len(c)); share > seen {
				seen = share
			}
		}
		if seen < overlap {
			kept = append(kept, c)
		}
	}
	return kept
}

// intersectSorted counts the common members of two ascending id lists
func intersectSorted(a, b []graph.NodeID) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}
