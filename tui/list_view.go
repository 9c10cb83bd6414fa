package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/engage/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ENGAGEMENTS"))
	s.WriteString("\n\n")
	s.WriteString(m.renderEngagementsTable())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("↑/↓ move · enter detail · t tasks · r reload · q quit"))

	return s.String()
}

func (m Model) renderEngagementsTable() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}

	columns := []table.Column{
		{Title: "Company", Width: 28},
		{Title: "Sector", Width: 18},
		{Title: "Region", Width: 14},
		{Title: "Milestone", Width: 18},
		{Title: "Status", Width: 8},
		{Title: "Next", Width: 12},
	}

	var rows []table.Row
	for _, rec := range m.records {
		next := "-"
		if rec.NextActionDate != nil {
			next = rec.NextActionDate.Format(models.DateFormat)
		}
		marker := ""
		if rec.Overdue {
			marker = "! "
		} else if rec.Urgent {
			marker = "* "
		}
		rows = append(rows, table.Row{
			marker + rec.CompanyName,
			rec.Sector,
			rec.Region,
			rec.Milestone,
			rec.MilestoneStatus,
			next,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-8),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.records)-1 {
			m.selectedRow++
		}
	case "enter":
		if m.selectedRow < len(m.records) {
			m.selectedID = m.records[m.selectedRow].ID
			m.viewMode = ViewDetail
		}
	case "t":
		m.viewMode = ViewTasks
	}
	return m, nil
}
