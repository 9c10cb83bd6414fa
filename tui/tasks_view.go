package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/engage/pipeline"
)

func (m Model) renderTasksView() string {
	tasks := pipeline.UpcomingTasks(m.records, time.Now(), pipeline.TaskConfig{
		UrgentDays:   m.cfg.UrgentDays,
		WarningDays:  m.cfg.WarningDays,
		UpcomingDays: m.cfg.UpcomingDays,
	})

	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("UPCOMING ACTIONS (%d DAYS)", m.cfg.UpcomingDays)))
	s.WriteString("\n\n")

	writeBucket(&s, urgentStyle, "Urgent", tasks.Urgent)
	writeBucket(&s, warnStyle, "Warning", tasks.Warning)
	writeBucket(&s, doneStyle, "Upcoming", tasks.Upcoming)

	s.WriteString(helpStyle.Render("esc back · r reload · q quit"))

	return s.String()
}

func writeBucket(s *strings.Builder, style lipgloss.Style, label string, records []pipeline.Engagement) {
	s.WriteString(headingStyle.Render(label))
	s.WriteString("\n")
	if len(records) == 0 {
		s.WriteString(labelStyle.Render("  none"))
		s.WriteString("\n\n")
		return
	}
	for _, rec := range records {
		due := "-"
		if rec.DaysToNextAction != nil {
			due = fmt.Sprintf("%dd", *rec.DaysToNextAction)
		}
		s.WriteString(style.Render(fmt.Sprintf("  %-4s", due)))
		s.WriteString(fmt.Sprintf("%s (%s, %s)\n", rec.CompanyName, rec.Milestone, rec.MilestoneStatus))
	}
	s.WriteString("\n")
}

func (m Model) handleTasksKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "t":
		m.viewMode = ViewList
	}
	return m, nil
}
