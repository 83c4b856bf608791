// Command relgraph-tui is an interactive terminal explorer for a
// relationship snapshot: a dashboard, a node browser, a warm-introduction
// search console and a live ASCII preview of the force layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/signalvc/relgraph/pkg/config"
	"github.com/signalvc/relgraph/pkg/dataset"
	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/intro"
	"github.com/signalvc/relgraph/pkg/layout"
	"github.com/signalvc/relgraph/pkg/logging"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

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

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	canvasBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	nodesView
	searchView
	layoutView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Space    key.Binding
	Reheat   key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
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
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume layout"),
	),
	Reheat: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reheat layout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Space, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Space, k.Reheat},
		{k.Up, k.Down, k.Quit},
	}
}

type model struct {
	g      *graph.Graph
	sim    *layout.Simulation
	finder *intro.Finder
	snapID string

	currentView view
	searchInput textinput.Model
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	paths       []intro.Path
	startTime   time.Time
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(g *graph.Graph, sim *layout.Simulation, finder *intro.Finder, snapID string) model {
	ti := textinput.New()
	ti.Placeholder = "source-id -> target-id"
	ti.CharLimit = 120
	ti.Width = 60

	columns := []table.Column{
		{Title: "ID", Width: 20},
		{Title: "Name", Width: 24},
		{Title: "Type", Width: 10},
		{Title: "Tier", Width: 5},
		{Title: "Connections", Width: 12},
	}

	rows := make([]table.Row, 0, g.NodeCount())
	nodes := g.Nodes()
	sort.Slice(nodes, func(a, b int) bool {
		return g.Degree(nodes[a].ID) > g.Degree(nodes[b].ID)
	})
	for _, n := range nodes {
		rows = append(rows, table.Row{
			n.ID,
			n.Name,
			n.Type.String(),
			fmt.Sprintf("%d", n.Tier),
			fmt.Sprintf("%d", g.Degree(n.ID)),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
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

	sim.Start()

	return model{
		g:           g,
		sim:         sim,
		finder:      finder,
		snapID:      snapID,
		currentView: dashboardView,
		searchInput: ti,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.sim.Tick()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			m.syncFocus()

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
			m.syncFocus()

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == searchView && m.searchInput.Focused() {
				m.runSearch()
			}

		case key.Matches(msg, m.keys.Space):
			if m.currentView == layoutView {
				m.toggleLayout()
			}

		case key.Matches(msg, m.keys.Reheat):
			if m.currentView == layoutView {
				m.sim.Reheat(0.5)
				m.message = "Layout reheated"
				m.messageErr = false
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case searchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	case nodesView:
		m.nodeTable, cmd = m.nodeTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) syncFocus() {
	if m.currentView == searchView {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m *model) toggleLayout() {
	switch m.sim.State() {
	case layout.StateRunning:
		m.sim.Pause()
		m.message = "Layout paused"
	case layout.StatePaused:
		m.sim.Resume()
		m.message = "Layout resumed"
	case layout.StateDone:
		m.sim.Reheat(0.3)
		m.message = "Layout reheated"
	}
	m.messageErr = false
}

func (m *model) runSearch() {
	parts := strings.Split(m.searchInput.Value(), "->")
	if len(parts) != 2 {
		m.message = "Use the form: source-id -> target-id"
		m.messageErr = true
		return
	}
	source := strings.TrimSpace(parts[0])
	target := strings.TrimSpace(parts[1])

	start := time.Now()
	paths, err := m.finder.Find(m.g, source, target, intro.Options{MaxHops: 3, MaxPaths: 3})
	if err != nil {
		m.message = fmt.Sprintf("Search error: %v", err)
		m.messageErr = true
		return
	}
	elapsed := time.Since(start)

	m.paths = paths
	if len(paths) == 0 {
		m.message = fmt.Sprintf("No introduction path within 3 hops (%s)", elapsed)
		m.messageErr = true
		return
	}
	m.message = fmt.Sprintf("Found %d path(s) in %s", len(paths), elapsed)
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Relationship Graph Explorer"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case nodesView:
		s.WriteString(m.renderNodes())
	case searchView:
		s.WriteString(m.renderSearch())
	case layoutView:
		s.WriteString(m.renderLayout())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Nodes", "Warm Intro", "Layout"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`Snapshot
━━━━━━━━━━━━━━━
ID:        %s
Nodes:     %d
Links:     %d
Uptime:    %s

Layout
━━━━━━━━━━━━━━━
State:     %s
Tick:      %d
Alpha:     %.4f`,
		shortID(m.snapID),
		m.g.NodeCount(),
		m.g.LinkCount(),
		uptime,
		m.sim.State(),
		m.sim.Ticks(),
		m.sim.Alpha(),
	)

	quickActions := `Quick Actions
━━━━━━━━━━━━━━━
[Tab]       Navigate views
[Enter]     Run intro search
[Space]     Pause/resume layout
[r]         Reheat layout
[q]         Quit

Views
━━━━━━━━━━━━━━━
• Node browser
• Warm-intro search
• Live layout preview`

	statsBox := statsBoxStyle.Render(statsContent)
	actionsBox := statsBoxStyle.Render(quickActions)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, actionsBox),
	)
}

func (m model) renderNodes() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Node Browser"))
	s.WriteString("\n\n")

	s.WriteString(m.nodeTable.View())

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Sorted by connection count • Navigate with j/k"))

	return contentStyle.Render(s.String())
}

func (m model) renderSearch() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Warm Introduction Search"))
	s.WriteString("\n\n")

	s.WriteString("Who can introduce you?\n\n")
	s.WriteString(m.searchInput.View())
	s.WriteString("\n")

	for i, p := range m.paths {
		s.WriteString(fmt.Sprintf("\n%d. cost %.2f, %d hop(s)\n", i+1, p.TotalCost, p.HopCount))
		s.WriteString("   " + renderPath(p) + "\n")
	}

	if len(m.paths) == 0 {
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("Example: seq-cap -> meridian-partners"))
	}

	return contentStyle.Render(s.String())
}

// renderPath interleaves node ids with the relationship that connects them.
func renderPath(p intro.Path) string {
	var s strings.Builder
	for i, id := range p.Nodes {
		if i > 0 {
			s.WriteString(fmt.Sprintf(" ─[%s]→ ", p.Narrative[i-1]))
		}
		s.WriteString(id)
	}
	return s.String()
}

func (m model) renderLayout() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf(
		"Layout Preview: %s, tick %d, alpha %.4f",
		m.sim.State(), m.sim.Ticks(), m.sim.Alpha())))
	s.WriteString("\n\n")

	s.WriteString(canvasBoxStyle.Render(m.renderCanvas(72, 20)))

	return contentStyle.Render(s.String())
}

// renderCanvas projects node positions onto a character grid. Tier-1 nodes
// render as ◉, tier-2 as ●, tier-3 as ·.
func (m model) renderCanvas(cols, lines int) string {
	positions := m.sim.Positions()
	if len(positions) == 0 {
		return "No nodes to visualize"
	}

	minX, minY := positions[m.g.NodeIDs()[0]].X, positions[m.g.NodeIDs()[0]].Y
	maxX, maxY := minX, minY
	for _, p := range positions {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]rune, lines)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	marks := map[int]rune{1: '◉', 2: '●', 3: '·'}
	for _, id := range m.g.NodeIDs() {
		p := positions[id]
		col := int((p.X - minX) / spanX * float64(cols-1))
		line := int((p.Y - minY) / spanY * float64(lines-1))
		grid[line][col] = marks[m.g.Node(id).Tier]
	}

	rows := make([]string, lines)
	for i, row := range grid {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func main() {
	snapshotPath := flag.String("snapshot", "snapshot.json", "Snapshot file to explore")
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	logger := logging.NewNopLogger() // the alt screen owns the terminal

	snap, err := dataset.NewFileSource(*snapshotPath, logger).Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	g, err := graph.Build(snap.Nodes, snap.Links)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	sim, err := layout.New(g, cfg.Layout)
	if err != nil {
		log.Fatalf("Failed to configure layout: %v", err)
	}

	mult, err := cfg.Intro.MultiplierTable()
	if err != nil {
		log.Fatalf("Failed to resolve multipliers: %v", err)
	}
	finder, err := intro.NewFinder(intro.WithMultipliers(mult))
	if err != nil {
		log.Fatalf("Failed to configure finder: %v", err)
	}

	p := tea.NewProgram(initialModel(g, sim, finder, snap.ID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
