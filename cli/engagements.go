// ABOUTME: Engagement CLI commands
// ABOUTME: Commands for adding, listing, showing, and updating engagements
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

// AddCommand creates a new engagement
func AddCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	company := fs.String("company", "", "Company name (required)")
	sector := fs.String("sector", "", "GICS sector (required)")
	region := fs.String("region", "", "Region (required)")
	country := fs.String("country", "", "Country (required)")
	program := fs.String("program", "", "Engagement program (required)")
	theme := fs.String("theme", "", "Engagement theme")
	objective := fs.String("objective", "", "Engagement objective")
	isin := fs.String("isin", "", "Company ISIN")
	esg := fs.String("esg", "", "ESG focus flags, e.g. e,s or esg")
	start := fs.String("start", "", "Start date (YYYY-MM-DD, default today)")
	target := fs.String("target", "", "Target date (YYYY-MM-DD)")
	createdBy := fs.String("by", "", "Creating user")
	_ = fs.Parse(args)

	rec := &models.Engagement{
		CompanyName: *company,
		Sector:      *sector,
		Region:      *region,
		Country:     *country,
		Program:     *program,
		Theme:       *theme,
		Objective:   *objective,
		ISIN:        *isin,
		CreatedBy:   *createdBy,
	}
	for _, letter := range strings.ToLower(strings.ReplaceAll(*esg, ",", "")) {
		switch letter {
		case 'e':
			rec.Environmental = true
		case 's':
			rec.Social = true
		case 'g':
			rec.Governance = true
		}
	}

	rec.StartDate = parseDateFlag(*start)
	if rec.StartDate == nil {
		now := time.Now()
		rec.StartDate = &now
	}
	rec.TargetDate = parseDateFlag(*target)

	if err := s.CreateEngagement(rec); err != nil {
		return err
	}

	fmt.Printf("Created engagement #%d for %s\n", rec.ID, rec.CompanyName)
	return nil
}

// ListCommand lists engagements, optionally filtered
func ListCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	region := fs.String("region", "", "Filter by region")
	sector := fs.String("sector", "", "Filter by GICS sector")
	program := fs.String("program", "", "Filter by program")
	milestone := fs.String("milestone", "", "Filter by milestone")
	status := fs.String("status", "", "Filter by milestone status")
	urgentOnly := fs.Bool("urgent", false, "Show only urgent engagements")
	upcoming := fs.Bool("upcoming", false, "Show only engagements with an action due soon")
	_ = fs.Parse(args)

	records, _, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load engagements: %w", err)
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, deriveConfig(cfg))
	filtered := pipeline.Filter(derived, pipeline.FilterSpec{
		Regions:      splitFlag(*region),
		Sectors:      splitFlag(*sector),
		Programs:     splitFlag(*program),
		Milestones:   splitFlag(*milestone),
		Statuses:     splitFlag(*status),
		Urgent:       *urgentOnly,
		Upcoming:     *upcoming,
		UpcomingDays: cfg.UpcomingDays,
	}, now)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCOMPANY\tSECTOR\tREGION\tMILESTONE\tSTATUS\tNEXT ACTION")
	_, _ = fmt.Fprintln(w, "--\t-------\t------\t------\t---------\t------\t-----------")

	for _, rec := range filtered {
		indicator := "🟢"
		if rec.Overdue {
			indicator = "🔴"
		} else if rec.Urgent {
			indicator = "🟡"
		}
		if rec.IsComplete {
			indicator = "✅"
		}

		_, _ = fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, indicator, rec.CompanyName, rec.Sector, rec.Region,
			rec.Milestone, rec.MilestoneStatus, formatDateCell(rec.NextActionDate))
	}

	_ = w.Flush()
	fmt.Printf("\n%d engagement(s)\n", len(filtered))
	return nil
}

// ShowCommand shows one engagement with its interaction history
func ShowCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int("id", 0, "Engagement ID")
	company := fs.String("company", "", "Company name (used when -id is omitted)")
	_ = fs.Parse(args)

	rec, err := lookupEngagement(s, *id, *company)
	if err != nil {
		return err
	}

	fmt.Printf("Engagement #%d: %s\n", rec.ID, rec.CompanyName)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Sector:      %s\n", rec.Sector)
	fmt.Printf("  Region:      %s (%s)\n", rec.Region, rec.Country)
	fmt.Printf("  Program:     %s\n", rec.Program)
	if rec.Theme != "" {
		fmt.Printf("  Theme:       %s\n", rec.Theme)
	}
	if rec.Objective != "" {
		fmt.Printf("  Objective:   %s\n", rec.Objective)
	}
	fmt.Printf("  ESG:         %s\n", esgFlags(rec))
	fmt.Printf("  Themes:      %s\n", rec.ThemeSummary())
	fmt.Printf("  Milestone:   %s (%s)\n", rec.Milestone, rec.MilestoneStatus)
	fmt.Printf("  Escalation:  %s\n", rec.EscalationLevel)
	fmt.Printf("  Outcome:     %s\n", rec.OutcomeStatus)
	fmt.Printf("  Started:     %s\n", formatDateCell(rec.StartDate))
	fmt.Printf("  Target:      %s\n", formatDateCell(rec.TargetDate))
	fmt.Printf("  Next action: %s\n", formatDateCell(rec.NextActionDate))

	history := rec.SortedInteractions()
	if len(history) == 0 {
		fmt.Println("\nNo interactions logged.")
		return nil
	}

	fmt.Printf("\nInteractions (%d):\n", len(history))
	for _, entry := range history {
		date := entry.Date
		if date == "" {
			date = "unknown"
		}
		fmt.Printf("  [%s] %s: %s\n", date, entry.Type, entry.Summary)
		if entry.OutcomeStatus != "" {
			fmt.Printf("           outcome: %s\n", entry.OutcomeStatus)
		}
	}
	return nil
}

// LogCommand logs an interaction against an engagement
func LogCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	id := fs.Int("id", 0, "Engagement ID")
	company := fs.String("company", "", "Company name (used when -id is omitted)")
	kind := fs.String("type", "", "Interaction type (required)")
	summary := fs.String("summary", "", "Interaction summary (required)")
	outcome := fs.String("outcome", "", "Outcome label (required)")
	date := fs.String("date", "", "Interaction date (YYYY-MM-DD, default today)")
	milestone := fs.String("milestone", "", "New milestone (blank keeps current)")
	status := fs.String("status", "", "New milestone status (blank keeps current)")
	escalation := fs.String("escalation", "", "New escalation level")
	next := fs.String("next", "", "Next action date (YYYY-MM-DD)")
	loggedBy := fs.String("by", "", "Logging user")
	_ = fs.Parse(args)

	rec, err := lookupEngagement(s, *id, *company)
	if err != nil {
		return err
	}

	var when time.Time
	if d := parseDateFlag(*date); d != nil {
		when = *d
	}

	entry, err := s.LogInteraction(store.InteractionInput{
		EngagementID:    rec.ID,
		Type:            *kind,
		Summary:         *summary,
		Date:            when,
		OutcomeStatus:   *outcome,
		Milestone:       *milestone,
		MilestoneStatus: *status,
		EscalationLevel: *escalation,
		NextActionDate:  parseDateFlag(*next),
		LoggedBy:        *loggedBy,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged interaction %s for %s\n", entry.ID, rec.CompanyName)
	return nil
}

// StatusCommand updates an engagement's milestone status
func StatusCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	id := fs.Int("id", 0, "Engagement ID")
	company := fs.String("company", "", "Company name (used when -id is omitted)")
	status := fs.String("status", "", "New milestone status (required)")
	user := fs.String("by", "", "User making the change")
	_ = fs.Parse(args)

	if *status == "" {
		return fmt.Errorf("-status is required")
	}

	rec, err := lookupEngagement(s, *id, *company)
	if err != nil {
		return err
	}

	if err := s.UpdateMilestoneStatus(rec.ID, *status, *user); err != nil {
		return err
	}

	fmt.Printf("Updated %s to %s\n", rec.CompanyName, *status)
	return nil
}

func lookupEngagement(s *store.Store, id int, company string) (*models.Engagement, error) {
	if id != 0 {
		return s.GetByID(id)
	}
	if company != "" {
		return s.FindByName(company)
	}
	return nil, fmt.Errorf("-id or -company is required")
}

func deriveConfig(cfg *config.Config) pipeline.DeriveConfig {
	return pipeline.DeriveConfig{
		UrgentDays: cfg.UrgentDays,
		Complete:   cfg.CompleteMilestones,
	}
}

func splitFlag(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseDateFlag(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(models.DateFormat, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDateCell(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(models.DateFormat)
}

func esgFlags(rec *models.Engagement) string {
	var parts []string
	if rec.Environmental {
		parts = append(parts, "Environmental")
	}
	if rec.Social {
		parts = append(parts, "Social")
	}
	if rec.Governance {
		parts = append(parts, "Governance")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}
