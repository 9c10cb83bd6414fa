// ABOUTME: Task list CLI command
// ABOUTME: Shows upcoming next actions bucketed by urgency
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

// TasksCommand lists engagements with a next action due soon
func TasksCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ExitOnError)
	days := fs.Int("days", cfg.UpcomingDays, "Window in days for upcoming actions")
	_ = fs.Parse(args)

	records, _, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load engagements: %w", err)
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, deriveConfig(cfg))
	tasks := pipeline.UpcomingTasks(derived, now, pipeline.TaskConfig{
		UrgentDays:   cfg.UrgentDays,
		WarningDays:  cfg.WarningDays,
		UpcomingDays: *days,
	})

	total := len(tasks.Urgent) + len(tasks.Warning) + len(tasks.Upcoming)
	if total == 0 {
		fmt.Printf("No actions due in the next %d days.\n", *days)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tCOMPANY\tMILESTONE\tSTATUS\tNEXT ACTION")
	_, _ = fmt.Fprintln(w, "---\t-------\t---------\t------\t-----------")

	printBucket(w, "🔴", tasks.Urgent)
	printBucket(w, "🟡", tasks.Warning)
	printBucket(w, "🟢", tasks.Upcoming)

	_ = w.Flush()
	fmt.Printf("\n%d action(s) due in the next %d days\n", total, *days)
	return nil
}

func printBucket(w *tabwriter.Writer, indicator string, records []pipeline.Engagement) {
	for _, rec := range records {
		due := "-"
		if rec.DaysToNextAction != nil {
			due = fmt.Sprintf("%dd", *rec.DaysToNextAction)
		}
		_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\n",
			indicator, due, rec.CompanyName, rec.Milestone,
			rec.MilestoneStatus, formatDateCell(rec.NextActionDate))
	}
}
