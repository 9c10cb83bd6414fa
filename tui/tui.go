// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive browser for engagements, details, and task buckets
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewTasks
)

// Model is the main bubbletea model
type Model struct {
	store *store.Store
	cfg   *config.Config

	viewMode ViewMode

	// List view state
	records     []pipeline.Engagement
	selectedRow int

	// Detail view state
	selectedID int

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(s *store.Store, cfg *config.Config) Model {
	return Model{
		store:    s,
		cfg:      cfg,
		viewMode: ViewList,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.reload
}

// recordsMsg carries a freshly derived record set into the model.
type recordsMsg struct {
	records []pipeline.Engagement
	err     error
}

func (m Model) reload() tea.Msg {
	records, _, err := m.store.Load()
	if err != nil {
		return recordsMsg{err: err}
	}
	derived := pipeline.Derive(records, time.Now(), pipeline.DeriveConfig{
		UrgentDays: m.cfg.UrgentDays,
		Complete:   m.cfg.CompleteMilestones,
	})
	return recordsMsg{records: derived}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case recordsMsg:
		m.records = msg.records
		m.err = msg.err
		if m.selectedRow >= len(m.records) {
			m.selectedRow = 0
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewTasks:
		return m.renderTasksView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.reload
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewTasks:
		return m.handleTasksKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("35")).
			MarginBottom(1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("35"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("35"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
