// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Dashboard, funnel, and forecast tracker tabs over live state
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsdcomms/salesdesk/state"
	"github.com/vsdcomms/salesdesk/tracker"
)

// Tab represents the active TUI tab
type Tab int

const (
	TabDashboard Tab = iota
	TabFunnel
	TabTracker
)

var tabNames = []string{"Dashboard", "Funnel", "Tracker"}

// Model is the main bubbletea model
type Model struct {
	app *state.App
	tab Tab

	// Tracker view state
	selectedRow int
	pending     *tracker.Pending
	statusLine  string

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(app *state.App) Model {
	return Model{
		app:     app,
		tab:     TabDashboard,
		pending: tracker.NewPending(),
		width:   80,
		height:  24,
	}
}

// Run starts the TUI event loop.
func Run(app *state.App) error {
	return RunTab(app, TabDashboard)
}

// RunTab starts the TUI on a specific tab.
func RunTab(app *state.App, tab Tab) error {
	m := NewModel(app)
	m.tab = tab
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.tab {
	case TabDashboard:
		return m.renderDashboardView()
	case TabFunnel:
		return m.renderFunnelView()
	case TabTracker:
		return m.renderTrackerView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % 3
		m.statusLine = ""
		return m, nil
	}

	if m.tab == TabTracker {
		return m.handleTrackerKeys(msg)
	}
	return m, nil
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	stagedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))
)
