package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

type view int

const (
	summaryView view = iota
	levelsView
	communitiesView
	viewCount
)

var viewNames = []string{"Summary", "Levels", "Communities"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "finer level"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "coarser level"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Left, k.Right, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Quit},
	}
}

// explorer browses the dendrogram of one detection run
type explorer struct {
	g          *graph.Graph
	result     *algorithms.CommunityDetectionResult
	current    view
	level      int
	table      table.Model
	help       help.Model
	keys       keyMap
	width      int
	height     int
	message    string
	messageErr bool
}

func newExplorer(g *graph.Graph, result *algorithms.CommunityDetectionResult) explorer {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Size", Width: 6},
			{Title: "Density", Width: 9},
			{Title: "Conduct.", Width: 9},
			{Title: "Members", Width: 48},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := explorer{
		g:      g,
		result: result,
		table:  t,
		help:   help.New(),
		keys:   keys,
		level:  len(result.Dendrogram) - 1,
	}
	m.loadLevel()
	return m
}

func (m explorer) Init() tea.Cmd {
	return nil
}

func (m explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.current = (m.current + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			m.current = (m.current + viewCount - 1) % viewCount

		case key.Matches(msg, m.keys.Left):
			if m.level > 0 {
				m.level--
				m.loadLevel()
			}

		case key.Matches(msg, m.keys.Right):
			if m.level < len(m.result.Dendrogram)-1 {
				m.level++
				m.loadLevel()
			}
		}
	}

	if m.current == communitiesView {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// loadLevel fills the table with the communities at the selected level
func (m *explorer) loadLevel() {
	p, err := m.result.Dendrogram.PartitionAtLevel(m.level)
	if err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}

	members := make(map[int][]graph.NodeID)
	for id, c := range p {
		members[c] = append(members[c], id)
	}
	ids := maps.Keys(members)
	slices.Sort(ids)

	rows := make([]table.Row, 0, len(ids))
	for _, c := range ids {
		nodes := members[c]
		slices.Sort(nodes)
		density, err := algorithms.InternalDensity(m.g, nodes)
		if err != nil {
			m.message = err.Error()
			m.messageErr = true
			return
		}
		conductance, err := algorithms.Conductance(m.g, nodes)
		if err != nil {
			m.message = err.Error()
			m.messageErr = true
			return
		}
		rows = append(rows, table.Row{
			fmt.Sprint(c),
			fmt.Sprint(len(nodes)),
			fmt.Sprintf("%.4f", density),
			fmt.Sprintf("%.4f", conductance),
			formatMembers(nodes),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
	m.message = fmt.Sprintf("Level %d of %d: %d communities", m.level, len(m.result.Dendrogram)-1, len(rows))
	m.messageErr = false
}

func (m explorer) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("Communities: %s run %s", m.result.Objective, m.result.RunID)))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	switch m.current {
	case summaryView:
		s.WriteString(contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			renderGraphStats(m.g),
			renderSummary(m.result),
		)))
	case levelsView:
		s.WriteString(contentStyle.Render(m.renderLevels()))
	case communitiesView:
		s.WriteString(contentStyle.Render(headerStyle.Render(fmt.Sprintf("Level %d", m.level)) + "\n\n" + m.table.View()))
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m explorer) renderTabs() string {
	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.current {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m explorer) renderLevels() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Dendrogram"))
	s.WriteString("\n\n")
	for _, l := range m.result.Levels {
		marker := "  "
		if l.Level == m.level {
			marker = "▸ "
		}
		bar := strings.Repeat("█", barWidth(l.Communities, l.Nodes))
		fmt.Fprintf(&s, "%slevel %-2d %5d → %-5d score %.6f %s\n", marker, l.Level, l.Nodes, l.Communities, l.Score, bar)
	}
	return s.String()
}

// barWidth scales the community count of a level against its node count
func barWidth(communities, nodes int) int {
	const width = 30
	if nodes == 0 {
		return 0
	}
	return communities * width / nodes
}

func renderSummary(r *algorithms.CommunityDetectionResult) string {
	lines := []string{
		line("score", fmt.Sprintf("%.6f", r.Score)),
		line("modularity", fmt.Sprintf("%.6f", r.Modularity)),
		line("communities", len(r.Communities)),
		line("levels", len(r.Levels)),
	}
	if r.Cover != nil {
		lines = append(lines, line("cover", r.Cover.Len()))
	}
	return statsBoxStyle.Render(strings.Join(lines, "\n"))
}

func runExplore(cmd *cobra.Command, flags runFlags, generator string, p plantedFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	var g *graph.Graph
	switch generator {
	case "ring":
		if p.groups < 1 || p.size < 1 {
			return fmt.Errorf("groups and size must be positive, got %d and %d", p.groups, p.size)
		}
		g = graph.RingOfCliques(p.groups, p.size)
	case "planted":
		if g, _, err = plantedGraph(p); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown generator %q (want ring or planted)", generator)
	}

	result, err := detect(cfg, metrics.NewRegistry(), g)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newExplorer(g, result), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
