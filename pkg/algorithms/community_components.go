package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph.
// Component ids follow the smallest node id of each component.
func ConnectedComponents(g *graph.Graph) (*CommunityDetectionResult, error) {
	if g == nil {
		return nil, invalidGraph("connected components", "graph is nil")
	}

	n := g.NodeCount()
	visited := make([]bool, n)
	assignment := make([]int, n)
	componentID := 0

	// BFS to find each component
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			node, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			assignment[node] = componentID

			for _, nb := range g.NeighborsAt(node) {
				if !visited[nb.Index] {
					visited[nb.Index] = true
					queue.PushBack(nb.Index)
				}
			}
		}

		componentID++
	}

	return &CommunityDetectionResult{
		Objective:     "connected_components",
		Communities:   listCommunities(g, assignment),
		NodeCommunity: fromAssignment(g, assignment),
	}, nil
}

// listCommunities groups nodes of a dense arena-indexed assignment into
// communities ordered by id.
func listCommunities(g *graph.Graph, assignment []int) []*Community {
	k := 0
	for _, c := range assignment {
		if c+1 > k {
			k = c + 1
		}
	}

	communities := make([]*Community, k)
	for c := range communities {
		communities[c] = &Community{ID: c}
	}
	for i, c := range assignment {
		communities[c].Nodes = append(communities[c].Nodes, g.IDAt(i))
		communities[c].Size += g.SizeAt(i)
	}

	for _, community := range communities {
		density, _ := InternalDensity(g, community.Nodes)
		community.Density = density
	}
	return communities
}
