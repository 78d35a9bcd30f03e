package algorithms

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

func linearityOptions(p LinearityParams) LouvainOptions {
	opts := DefaultLouvainOptions()
	opts.Objective = LinearityObjective(p)
	return opts
}

func TestGenerateDendrogram_TwoTrianglesModularity(t *testing.T) {
	g := twoTriangles(t)

	result, err := GenerateDendrogram(g, DefaultLouvainOptions())
	require.NoError(t, err)

	require.Len(t, result.Dendrogram, 2)
	assert.Equal(t, Partition{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1}, result.Dendrogram[0])
	// The terminal level is appended even though it changes nothing
	assert.Equal(t, Partition{0: 0, 1: 1}, result.Dendrogram[1])
	assert.Equal(t, 0, result.Levels[1].Moves)

	assert.InDelta(t, -1.0/6.0, result.InitialScore, 1e-12)
	assert.InDelta(t, 0.5, result.Score, 1e-12)
}

func TestDetectCommunities_TwoTrianglesModularity(t *testing.T) {
	result, err := DetectCommunities(twoTriangles(t), DefaultLouvainOptions())
	require.NoError(t, err)

	require.Len(t, result.Communities, 2)
	assert.Equal(t, []graph.NodeID{0, 1, 2}, result.Communities[0].Nodes)
	assert.Equal(t, []graph.NodeID{3, 4, 5}, result.Communities[1].Nodes)
	assert.Equal(t, 1.0, result.Communities[0].Density)
	assert.InDelta(t, 0.5, result.Modularity, 1e-12)
	assert.InDelta(t, 0.5, result.Score, 1e-12)
	assert.Nil(t, result.Cover)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err, "run id %q", result.RunID)
}

func TestDetectCommunities_LinearityCliques(t *testing.T) {
	result, err := DetectCommunities(twoTriangles(t), linearityOptions(LinearityParams{A: 1, C: 0.01}))
	require.NoError(t, err)

	assert.Len(t, result.Communities, 2)
	assert.True(t, sameCommunity(result.NodeCommunity, 0, 1, 2))
	assert.True(t, sameCommunity(result.NodeCommunity, 3, 4, 5))
	assert.InDelta(t, 0.98, result.Score, 1e-12)
}

func TestDetectCommunities_LinearityCountOnly(t *testing.T) {
	g := graph.RingOfCliques(3, 3)

	result, err := DetectCommunities(g, linearityOptions(LinearityParams{C: 0.1}))
	require.NoError(t, err)

	require.Len(t, result.Communities, 1)
	assert.Len(t, result.Communities[0].Nodes, g.NodeCount())
	assert.InDelta(t, -0.1, result.Score, 1e-12)
}

func TestDetectCommunities_RingOfCliques(t *testing.T) {
	g := graph.RingOfCliques(4, 5)

	result, err := DetectCommunities(g, DefaultLouvainOptions())
	require.NoError(t, err)

	require.Len(t, result.Communities, 4)
	for c := 0; c < 4; c++ {
		ids := make([]graph.NodeID, 5)
		for i := range ids {
			ids[i] = graph.NodeID(c*5 + i)
		}
		assert.True(t, sameCommunity(result.NodeCommunity, ids...), "clique %d split", c)
	}
}

func TestGenerateDendrogram_Errors(t *testing.T) {
	triangles := twoTriangles(t)

	tests := []struct {
		name    string
		g       *graph.Graph
		opts    func() LouvainOptions
		isGraph bool
	}{
		{"nil graph", nil, DefaultLouvainOptions, true},
		{"empty graph", graph.NewBuilder().Build(), DefaultLouvainOptions, true},
		{"zero weight modularity", buildGraph(t, nil, 1, 2), DefaultLouvainOptions, true},
		{"negative weight", triangles, func() LouvainOptions {
			return linearityOptions(LinearityParams{A: 1, B: -0.5})
		}, false},
		{"negative epsilon", triangles, func() LouvainOptions {
			o := DefaultLouvainOptions()
			o.Epsilon = -1
			return o
		}, false},
		{"negative max levels", triangles, func() LouvainOptions {
			o := DefaultLouvainOptions()
			o.MaxLevels = -1
			return o
		}, false},
		{"partition missing node", triangles, func() LouvainOptions {
			o := DefaultLouvainOptions()
			o.InitialPartition = Partition{0: 0, 1: 0}
			return o
		}, false},
		{"partition unknown node", triangles, func() LouvainOptions {
			o := DefaultLouvainOptions()
			o.InitialPartition = Partition{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1, 6: 1}
			return o
		}, false},
		{"seed with partition", triangles, func() LouvainOptions {
			o := DefaultLouvainOptions()
			o.Seed = SeedLabelPropagation
			o.InitialPartition = Partition{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1}
			return o
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateDendrogram(tt.g, tt.opts())
			require.Error(t, err)
			if tt.isGraph {
				assert.True(t, IsInvalidGraph(err), "err = %v", err)
			} else {
				assert.True(t, IsInvalidParameter(err), "err = %v", err)
			}
		})
	}
}

func TestGenerateDendrogram_ZeroWeightLinearity(t *testing.T) {
	result, err := GenerateDendrogram(buildGraph(t, nil, 1, 2, 3), linearityOptions(LinearityParams{A: 1, B: 1, C: 0.1}))
	require.NoError(t, err)

	require.Len(t, result.Dendrogram, 1)
	assert.Equal(t, 3, result.Levels[0].Communities)
}

func TestGenerateDendrogram_InitialPartition(t *testing.T) {
	opts := DefaultLouvainOptions()
	opts.InitialPartition = Partition{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1}

	result, err := GenerateDendrogram(twoTriangles(t), opts)
	require.NoError(t, err)

	// Already optimal: one level, no moves
	require.Len(t, result.Levels, 1)
	assert.Equal(t, 0, result.Levels[0].Moves)
	assert.InDelta(t, 0.5, result.InitialScore, 1e-12)
}

func TestGenerateDendrogram_SparseInitialPartition(t *testing.T) {
	opts := DefaultLouvainOptions()
	opts.InitialPartition = Partition{0: 10, 1: 10, 2: 10, 3: 42, 4: 42, 5: 42}

	result, err := GenerateDendrogram(twoTriangles(t), opts)
	require.NoError(t, err)

	require.Len(t, result.Levels, 1)
	assert.Equal(t, 0, result.Levels[0].Moves)
	assert.InDelta(t, 0.5, result.InitialScore, 1e-12)
	assert.Equal(t, Partition{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 1}, result.Dendrogram[0])
}

func TestGenerateDendrogram_LabelPropagationSeed(t *testing.T) {
	opts := DefaultLouvainOptions()
	opts.Seed = SeedLabelPropagation

	result, err := GenerateDendrogram(twoTriangles(t), opts)
	require.NoError(t, err)

	require.Len(t, result.Levels, 1)
	assert.Equal(t, 2, result.Levels[0].Communities)
	assert.InDelta(t, 0.5, result.Score, 1e-12)
}

func TestGenerateDendrogram_MaxLevels(t *testing.T) {
	opts := DefaultLouvainOptions()
	opts.MaxLevels = 1

	result, err := GenerateDendrogram(graph.RingOfCliques(8, 4), opts)
	require.NoError(t, err)
	assert.Len(t, result.Dendrogram, 1)
}

func TestDendrogram_PartitionAtLevel(t *testing.T) {
	d := Dendrogram{
		{10: 0, 11: 0, 12: 1, 13: 2},
		{0: 0, 1: 1, 2: 1},
		{0: 0, 1: 0},
	}

	level1, err := d.PartitionAtLevel(1)
	require.NoError(t, err)
	assert.Equal(t, Partition{10: 0, 11: 0, 12: 1, 13: 1}, level1)

	flat, err := d.Flatten()
	require.NoError(t, err)
	assert.Equal(t, Partition{10: 0, 11: 0, 12: 0, 13: 0}, flat)

	_, err = d.PartitionAtLevel(3)
	assert.True(t, IsInvalidParameter(err), "err = %v", err)

	broken := Dendrogram{{10: 0, 11: 5}, {0: 0}}
	_, err = broken.Flatten()
	assert.True(t, IsInvalidParameter(err), "err = %v", err)

	empty, err := Dendrogram{}.Flatten()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDetectCommunities_Expand(t *testing.T) {
	opts := DefaultLouvainOptions()
	opts.Expand = true

	result, err := DetectCommunities(triangleWithTail(t), opts)
	require.NoError(t, err)
	require.NotNil(t, result.Cover)
	assert.GreaterOrEqual(t, result.Cover.Len(), 1)

	// Every detected community survives in some cover member
	for _, c := range result.Communities {
		assert.NotEmpty(t, result.Cover.Memberships(c.Nodes[0]))
	}
}

func TestDetectCommunities_LogsAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	registry := metrics.NewRegistry()

	opts := DefaultLouvainOptions()
	opts.Logger = logging.NewJSONLogger(&buf, logging.DebugLevel)
	opts.Metrics = registry

	result, err := DetectCommunities(twoTriangles(t), opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "community detection finished")
	assert.Contains(t, out, "level converged")
	assert.Contains(t, out, result.RunID)

	counter, err := registry.RunsTotal.GetMetricWithLabelValues("modularity", metrics.StatusSuccess)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	assert.Equal(t, 1.0, m.Counter.GetValue())

	levels, err := registry.LevelsTotal.GetMetricWithLabelValues("modularity")
	require.NoError(t, err)
	require.NoError(t, levels.Write(&m))
	assert.Equal(t, float64(len(result.Levels)), m.Counter.GetValue())

	// A failing run is counted and logged as an error
	buf.Reset()
	_, err = DetectCommunities(graph.NewBuilder().Build(), opts)
	require.Error(t, err)
	assert.True(t, strings.Contains(buf.String(), `"level":"ERROR"`), buf.String())

	failed, err := registry.RunsTotal.GetMetricWithLabelValues("modularity", metrics.StatusError)
	require.NoError(t, err)
	require.NoError(t, failed.Write(&m))
	assert.Equal(t, 1.0, m.Counter.GetValue())
}

func TestParseSeedStrategy(t *testing.T) {
	s, err := ParseSeedStrategy("label_propagation")
	require.NoError(t, err)
	assert.Equal(t, SeedLabelPropagation, s)
	assert.Equal(t, "label_propagation", s.String())

	s, err = ParseSeedStrategy("")
	require.NoError(t, err)
	assert.Equal(t, SeedNone, s)

	_, err = ParseSeedStrategy("balls")
	assert.True(t, IsInvalidParameter(err))
}
