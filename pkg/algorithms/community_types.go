package algorithms

import (
	"time"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// Partition maps every node of a graph to a community id
type Partition map[graph.NodeID]int

// Dendrogram is the ordered list of partitions produced by the multilevel
// loop. Level 0 is keyed on the original node ids; level k is keyed on
// graph.NodeID(c) for every community id c of level k-1.
type Dendrogram []Partition

// Community represents a detected community
type Community struct {
	ID      int
	Nodes   []graph.NodeID // ascending
	Size    int            // sum of member node sizes
	Density float64        // internal density, 1 for fewer than two members
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	RunID         string
	Objective     string
	Communities   []*Community
	Score         float64   // objective score of the final level
	Modularity    float64   // quality of the flattened partition, 0 on a zero-weight graph
	NodeCommunity Partition // node ID -> community ID
	Dendrogram    Dendrogram
	Levels        []LevelStats
	Cover         *Cover // expanded, possibly overlapping communities
}

// LevelStats summarises one dendrogram level
type LevelStats struct {
	Level       int
	Nodes       int // nodes of the graph optimised at this level
	Communities int
	Sweeps      int
	Moves       int
	Score       float64
	Duration    time.Duration
}

// DendrogramResult is the outcome of the multilevel loop
type DendrogramResult struct {
	Objective    string
	Dendrogram   Dendrogram
	Levels       []LevelStats
	InitialScore float64
	Score        float64
}

// Cover is a set of possibly overlapping communities. Each member list is
// sorted by node id.
type Cover struct {
	Communities [][]graph.NodeID
}

// Len returns the number of communities in the cover
func (c *Cover) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Communities)
}

// Memberships returns the indices of every community containing id
func (c *Cover) Memberships(id graph.NodeID) []int {
	var out []int
	for i, members := range c.Communities {
		for _, m := range members {
			if m == id {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
