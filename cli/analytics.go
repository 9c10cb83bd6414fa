// ABOUTME: Analytics CLI command
// ABOUTME: Prints portfolio KPIs, sector rates, and theme distribution
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

// AnalyticsCommand prints portfolio analytics
func AnalyticsCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analytics", flag.ExitOnError)
	region := fs.String("region", "", "Restrict to a region")
	program := fs.String("program", "", "Restrict to a program")
	_ = fs.Parse(args)

	records, _, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load engagements: %w", err)
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, deriveConfig(cfg))
	filtered := pipeline.Filter(derived, pipeline.FilterSpec{
		Regions:  splitFlag(*region),
		Programs: splitFlag(*program),
	}, now)

	stats := pipeline.Analyze(filtered, pipeline.AnalyticsConfig{
		Success:      cfg.SuccessMilestones,
		Complete:     cfg.CompleteMilestones,
		Failed:       cfg.FailedMilestones,
		Inactive:     cfg.InactiveMilestones,
		DensifyTrend: cfg.DensifyTrend,
	})

	fmt.Println("ENGAGEMENT PORTFOLIO")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Total:          %d\n", stats.Total)
	fmt.Printf("  Active:         %d\n", stats.Active)
	fmt.Printf("  Not started:    %d\n", stats.NotStarted)
	fmt.Printf("  Completed:      %d\n", stats.Completed)
	fmt.Printf("  Failed:         %d\n", stats.Failed)
	fmt.Printf("  Success rate:   %d%%\n", stats.SuccessRate)
	fmt.Printf("  Completion:     %d%%\n", stats.CompletionRate)
	fmt.Printf("  Fail rate:      %d%%\n", stats.FailRate)
	fmt.Printf("  ESG focus:      E=%d S=%d G=%d\n",
		stats.ESG.Environmental, stats.ESG.Social, stats.ESG.Governance)

	if len(stats.Sectors) > 0 {
		fmt.Println("\nBY SECTOR")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "  SECTOR\tTOTAL\tCOMPLETED\tSUCCESS")
		for _, sec := range stats.Sectors {
			_, _ = fmt.Fprintf(w, "  %s\t%d\t%d\t%.1f%%\n",
				sec.Sector, sec.Total, sec.Completed, sec.SuccessRate)
		}
		_ = w.Flush()
	}

	if len(stats.Themes) > 0 {
		fmt.Println("\nBY THEME")
		for _, theme := range stats.Themes {
			fmt.Printf("  %-15s %d (%d%%)\n", theme.Theme, theme.Count, theme.Share)
		}
	}

	if len(stats.Trend) > 0 {
		fmt.Println("\nNEW ENGAGEMENTS BY MONTH")
		for _, m := range stats.Trend {
			fmt.Printf("  %s  %d\n", m.Month.Format("2006-01"), m.NewEngagements)
		}
	}

	return nil
}
