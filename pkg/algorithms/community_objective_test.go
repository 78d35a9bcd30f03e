package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearityParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  LinearityParams
		wantErr bool
	}{
		{"zero", LinearityParams{}, false},
		{"typical", LinearityParams{A: 0.2, B: 0.15, C: 0.001}, false},
		{"negative a", LinearityParams{A: -1}, true},
		{"negative c", LinearityParams{C: -0.01}, true},
		{"nan b", LinearityParams{B: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.True(t, IsInvalidParameter(err), "err = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestObjectiveSpec_Names(t *testing.T) {
	assert.Equal(t, "modularity", ModularityObjective().Name())
	assert.Equal(t, "linearity", LinearityObjective(LinearityParams{A: 1}).Name())
	assert.Error(t, ObjectiveSpec{Kind: ObjectiveKind(9)}.Validate())
}

func TestModularity_ZeroWeightGraph(t *testing.T) {
	g := buildGraph(t, nil, 1, 2, 3)

	_, err := ModularityObjective().bind(g)
	assert.True(t, IsInvalidGraph(err), "err = %v", err)

	_, err = LinearityObjective(LinearityParams{A: 1}).bind(g)
	assert.NoError(t, err)
}

func TestModularity_ScoreTwoTriangles(t *testing.T) {
	g := twoTriangles(t)
	obj, err := ModularityObjective().bind(g)
	require.NoError(t, err)

	acc, err := NewAccounting(g, []int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, obj.Score(acc), 1e-12)

	singletons, err := NewAccounting(g, nil)
	require.NoError(t, err)
	assert.InDelta(t, -1.0/6.0, obj.Score(singletons), 1e-12)
}

func TestModularity_Gain(t *testing.T) {
	g := twoTriangles(t)
	obj, err := ModularityObjective().bind(g)
	require.NoError(t, err)
	acc, err := NewAccounting(g, nil)
	require.NoError(t, err)

	acc.Remove(0, 0, 0)
	// weightInto − degreeSum·k/(2L) = 1 − 2·2/12
	assert.InDelta(t, 2.0/3.0, obj.Gain(acc, 0, 1, 1), 1e-12)
	assert.InDelta(t, 0.0, obj.Gain(acc, 0, 0, 0), 1e-12)
}

func TestLinearity_ScoreConventions(t *testing.T) {
	g := twoTriangles(t)
	obj, err := LinearityObjective(LinearityParams{A: 1, B: 1, C: 0.01}).bind(g)
	require.NoError(t, err)

	// Singletons: I = 1 by convention, E = 1, S = 6
	singletons, err := NewAccounting(g, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1-1-0.06, obj.Score(singletons), 1e-12)

	// Cliques: I = 1, E = 0, S = 2
	cliques, err := NewAccounting(g, []int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1-0.02, obj.Score(cliques), 1e-12)
}

// TestLinearity_GainMatchesRecompute checks that the gain of every move equals
// the score difference of two fresh accountings.
func TestLinearity_GainMatchesRecompute(t *testing.T) {
	g := twoTriangles(t)
	obj, err := LinearityObjective(LinearityParams{A: 0.7, B: 0.4, C: 0.05}).bind(g)
	require.NoError(t, err)

	start := []int{0, 0, 2, 3, 3, 5}
	for node := 0; node < g.NodeCount(); node++ {
		for target := 0; target < g.NodeCount(); target++ {
			before, err := NewAccounting(g, start)
			require.NoError(t, err)

			nw := newNeighborWeights(g.NodeCount())
			nw.collect(before.g, before.community, node)
			source := before.Community(node)
			before.Remove(node, source, nw.weight[source])
			stay := obj.Gain(before, node, source, nw.weight[source])
			move := obj.Gain(before, node, target, nw.weight[target])

			after := append([]int(nil), start...)
			after[node] = target
			moved, err := NewAccounting(g, after)
			require.NoError(t, err)
			original, err := NewAccounting(g, start)
			require.NoError(t, err)

			assert.InDelta(t, obj.Score(moved)-obj.Score(original), move-stay, 1e-12,
				"node %d to community %d", node, target)
		}
	}
}
