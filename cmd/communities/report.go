package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(14)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// maxListed bounds the communities printed per result
const maxListed = 10

func line(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func renderGraphStats(g *graph.Graph) string {
	lines := []string{
		line("nodes", g.NodeCount()),
		line("edges", g.EdgeCount()),
		line("weight", fmt.Sprintf("%.1f", g.TotalWeight())),
	}
	if comps, err := algorithms.ConnectedComponents(g); err == nil {
		lines = append(lines, line("components", len(comps.Communities)))
	}
	if cc, err := algorithms.AverageClusteringCoefficient(g); err == nil {
		lines = append(lines, line("clustering", fmt.Sprintf("%.4f", cc)))
	}
	return statsBoxStyle.Render(strings.Join(lines, "\n"))
}

func renderResult(r *algorithms.CommunityDetectionResult) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  run %s", r.Objective, r.RunID)))
	b.WriteString("\n")

	b.WriteString(renderSummary(r))
	b.WriteString("\n")

	for _, l := range r.Levels {
		fmt.Fprintf(&b, "  level %d: %d nodes -> %d communities, %d sweeps, %d moves, score %.6f (%v)\n",
			l.Level, l.Nodes, l.Communities, l.Sweeps, l.Moves, l.Score, l.Duration)
	}

	for i, c := range r.Communities {
		if i == maxListed {
			fmt.Fprintf(&b, "  ... %d more\n", len(r.Communities)-maxListed)
			break
		}
		fmt.Fprintf(&b, "  #%-3d size %-4d density %.3f  %s\n", c.ID, c.Size, c.Density, formatMembers(c.Nodes))
	}
	return b.String()
}

func formatMembers(ids []graph.NodeID) string {
	const shown = 12
	parts := make([]string, 0, shown+1)
	for i, id := range ids {
		if i == shown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprint(id))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func renderRecovery(precision, recall float64) string {
	style := successStyle
	if precision < 0.9 || recall < 0.9 {
		style = errorStyle
	}
	return statsBoxStyle.Render(strings.Join([]string{
		line("purity", style.Render(fmt.Sprintf("%.3f", precision))),
		line("coverage", style.Render(fmt.Sprintf("%.3f", recall))),
	}, "\n"))
}

// purity is the share of nodes whose community in found agrees with the
// majority reference community of that found community.
func purity(found, reference algorithms.Partition) float64 {
	if len(found) == 0 {
		return 0
	}
	counts := make(map[int]map[int]int)
	for id, c := range found {
		if counts[c] == nil {
			counts[c] = make(map[int]int)
		}
		counts[c][reference[id]]++
	}

	agree := 0
	for _, byRef := range counts {
		best := 0
		for _, n := range byRef {
			if n > best {
				best = n
			}
		}
		agree += best
	}
	return float64(agree) / float64(len(found))
}

type scoreRow struct {
	name        string
	communities int
	modularity  float64
	linearity   algorithms.CoverScore
	conductance float64 // mean over communities
}

func scorePartition(g *graph.Graph, name string, p algorithms.Partition, params algorithms.LinearityParams) (scoreRow, error) {
	row := scoreRow{name: name}

	mod, err := algorithms.PartitionModularity(g, p)
	if err != nil {
		return row, err
	}
	row.modularity = mod

	cover := algorithms.CoverFromPartition(p)
	row.communities = cover.Len()
	if row.linearity, err = algorithms.CoverLinearity(g, cover, params); err != nil {
		return row, err
	}

	for _, members := range cover.Communities {
		c, err := algorithms.Conductance(g, members)
		if err != nil {
			return row, err
		}
		row.conductance += c
	}
	if row.communities > 0 {
		row.conductance /= float64(row.communities)
	}
	return row, nil
}

func renderScores(rows []scoreRow) string {
	header := fmt.Sprintf("%-10s %6s %10s %8s %8s %10s %10s", "partition", "k", "modularity", "I", "E", "linearity", "conduct.")
	lines := []string{headerStyle.Render(header)}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %6d %10.4f %8.4f %8.4f %10.4f %10.4f",
			r.name, r.communities, r.modularity, r.linearity.I, r.linearity.E, r.linearity.M, r.conductance))
	}
	return strings.Join(lines, "\n")
}
