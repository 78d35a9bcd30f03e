package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/graph"
)

func exploreFixture(t *testing.T) explorer {
	t.Helper()
	g := graph.RingOfCliques(4, 4)
	result, err := algorithms.DetectCommunities(g, algorithms.DefaultLouvainOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Dendrogram), 2)

	m := newExplorer(g, result)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(explorer)
}

func TestExplorer_StartsAtLastLevel(t *testing.T) {
	m := exploreFixture(t)

	assert.Equal(t, len(m.result.Dendrogram)-1, m.level)
	assert.Len(t, m.table.Rows(), len(m.result.Communities))
	assert.False(t, m.messageErr)
	assert.Contains(t, m.View(), "Summary")
}

func TestExplorer_LevelNavigation(t *testing.T) {
	m := exploreFixture(t)
	last := m.level

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(explorer)
	assert.Equal(t, last-1, m.level)
	distinct := make(map[int]bool)
	for _, c := range m.result.Dendrogram[0] {
		distinct[c] = true
	}
	if last == 1 {
		assert.Len(t, m.table.Rows(), len(distinct))
	}

	// already at the coarsest level after moving back
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(explorer)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(explorer)
	assert.Equal(t, last, m.level)
}

func TestExplorer_TabsAndQuit(t *testing.T) {
	m := exploreFixture(t)

	for _, want := range []view{levelsView, communitiesView, summaryView} {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(explorer)
		assert.Equal(t, want, m.current)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(explorer)
	assert.Equal(t, communitiesView, m.current)
	assert.Contains(t, m.View(), "Level")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 0, barWidth(3, 0))
	assert.Equal(t, 30, barWidth(10, 10))
	assert.Equal(t, 3, barWidth(1, 10))
}
