package algorithms

import (
	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// passStats summarises one local search pass
type passStats struct {
	sweeps int
	moves  int
	score  float64
}

// neighborWeights is reusable scratch space holding the edge weight from the
// current node into each neighbouring community.
type neighborWeights struct {
	weight  []float64
	seen    []bool
	touched []int
}

func newNeighborWeights(n int) *neighborWeights {
	return &neighborWeights{
		weight: make([]float64, n),
		seen:   make([]bool, n),
	}
}

// collect fills the scratch space for node of g, where community maps every
// node to its community. Self-loops are skipped.
func (nw *neighborWeights) collect(g *graph.Graph, community []int, node int) {
	for _, c := range nw.touched {
		nw.weight[c] = 0
		nw.seen[c] = false
	}
	nw.touched = nw.touched[:0]

	for _, nb := range g.NeighborsAt(node) {
		if nb.Index == node {
			continue
		}
		c := community[nb.Index]
		if !nw.seen[c] {
			nw.seen[c] = true
			nw.touched = append(nw.touched, c)
		}
		nw.weight[c] += nb.Weight
	}
	slices.Sort(nw.touched)
}

// localSearch moves single nodes between communities until a sweep moves
// nothing or improves the score by less than epsilon.
func localSearch(acc *Accounting, obj Objective, epsilon float64) passStats {
	n := acc.g.NodeCount()
	nw := newNeighborWeights(n)

	stats := passStats{score: obj.Score(acc)}
	for {
		moved := 0
		for node := 0; node < n; node++ {
			nw.collect(acc.g, acc.community, node)

			current := acc.community[node]
			acc.Remove(node, current, nw.weight[current])

			best := current
			bestGain := obj.Gain(acc, node, current, nw.weight[current])
			for _, c := range nw.touched {
				if c == current {
					continue
				}
				// Strictly greater: ties keep the node where it is, and
				// ascending order makes the lowest id win among the rest.
				if gain := obj.Gain(acc, node, c, nw.weight[c]); gain > bestGain {
					best = c
					bestGain = gain
				}
			}

			acc.Insert(node, best, nw.weight[best])
			if best != current {
				moved++
			}
		}

		stats.sweeps++
		stats.moves += moved

		score := obj.Score(acc)
		improvement := score - stats.score
		stats.score = score
		if moved == 0 || improvement < epsilon {
			return stats
		}
	}
}
