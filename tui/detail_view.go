package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/engage/models"
	"github.com/harperreed/engage/pipeline"
)

func (m Model) renderDetailView() string {
	rec := m.findSelected()
	if rec == nil {
		return "Engagement not found.\n\n" + helpStyle.Render("esc back · q quit")
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(rec.CompanyName))
	s.WriteString("\n\n")

	writeField := func(label, value string) {
		if value == "" {
			value = "-"
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", label)))
		s.WriteString(value)
		s.WriteString("\n")
	}

	writeField("Sector", rec.Sector)
	writeField("Region", rec.Region)
	writeField("Country", rec.Country)
	writeField("Program", rec.Program)
	writeField("Theme", rec.Theme)
	writeField("Objective", rec.Objective)
	writeField("Themes", rec.ThemeSummary())
	writeField("Milestone", rec.Milestone)

	status := rec.MilestoneStatus
	if rec.IsComplete {
		status = doneStyle.Render(status)
	} else if rec.Overdue {
		status = urgentStyle.Render(status + " (overdue)")
	} else if rec.Urgent {
		status = warnStyle.Render(status + " (urgent)")
	}
	writeField("Status", status)
	writeField("Escalation", rec.EscalationLevel)
	writeField("Outcome", rec.OutcomeStatus)
	writeField("Started", dateCell(rec.StartDate))
	writeField("Target", dateCell(rec.TargetDate))
	writeField("Next action", dateCell(rec.NextActionDate))

	history := rec.SortedInteractions()
	s.WriteString("\n")
	s.WriteString(headingStyle.Render(fmt.Sprintf("Interactions (%d)", len(history))))
	s.WriteString("\n")
	for _, entry := range history {
		date := entry.Date
		if date == "" {
			date = "unknown"
		}
		s.WriteString(fmt.Sprintf("  [%s] %s: %s\n", date, entry.Type, entry.Summary))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc back · r reload · q quit"))

	return s.String()
}

func (m Model) findSelected() *pipeline.Engagement {
	for i := range m.records {
		if m.records[i].ID == m.selectedID {
			return &m.records[i]
		}
	}
	return nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewList
	}
	return m, nil
}

func dateCell(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(models.DateFormat)
}
