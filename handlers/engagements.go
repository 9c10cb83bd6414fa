// ABOUTME: Engagement MCP tool handlers
// ABOUTME: Implements create, find, and status update tools
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

type EngagementHandlers struct {
	store *store.Store
	cfg   *config.Config
}

func NewEngagementHandlers(s *store.Store, cfg *config.Config) *EngagementHandlers {
	return &EngagementHandlers{store: s, cfg: cfg}
}

type CreateEngagementInput struct {
	CompanyName   string `json:"company_name" jsonschema:"Company name (required, unique)"`
	Sector        string `json:"gics_sector" jsonschema:"GICS sector (required)"`
	Region        string `json:"region" jsonschema:"Region (required)"`
	Country       string `json:"country" jsonschema:"Country (required)"`
	Program       string `json:"program" jsonschema:"Engagement program (required)"`
	Theme         string `json:"theme,omitempty" jsonschema:"Engagement theme"`
	Objective     string `json:"objective,omitempty" jsonschema:"Engagement objective"`
	ISIN          string `json:"isin,omitempty" jsonschema:"Company ISIN"`
	AQRID         string `json:"aqr_id,omitempty" jsonschema:"Internal AQR identifier"`
	Environmental bool   `json:"environmental,omitempty" jsonschema:"Environmental focus flag"`
	Social        bool   `json:"social,omitempty" jsonschema:"Social focus flag"`
	Governance    bool   `json:"governance,omitempty" jsonschema:"Governance focus flag"`
	StartDate     string `json:"start_date,omitempty" jsonschema:"Start date (YYYY-MM-DD, default today)"`
	TargetDate    string `json:"target_date,omitempty" jsonschema:"Target date (YYYY-MM-DD)"`
	CreatedBy     string `json:"created_by,omitempty" jsonschema:"Actor creating the engagement"`
}

type EngagementOutput struct {
	ID                  int    `json:"engagement_id"`
	CompanyName         string `json:"company_name"`
	Sector              string `json:"gics_sector,omitempty"`
	Region              string `json:"region,omitempty"`
	Country             string `json:"country,omitempty"`
	Program             string `json:"program,omitempty"`
	Theme               string `json:"theme,omitempty"`
	Objective           string `json:"objective,omitempty"`
	Milestone           string `json:"milestone,omitempty"`
	MilestoneStatus     string `json:"milestone_status,omitempty"`
	EscalationLevel     string `json:"escalation_level,omitempty"`
	OutcomeStatus       string `json:"outcome_status,omitempty"`
	Themes              string `json:"themes,omitempty"`
	ESG                 string `json:"esg,omitempty"`
	StartDate           string `json:"start_date,omitempty"`
	TargetDate          string `json:"target_date,omitempty"`
	LastInteractionDate string `json:"last_interaction_date,omitempty"`
	NextActionDate      string `json:"next_action_date,omitempty"`
	DaysToNextAction    *int   `json:"days_to_next_action,omitempty"`
	Urgent              bool   `json:"urgent,omitempty"`
	Overdue             bool   `json:"overdue,omitempty"`
	IsComplete          bool   `json:"is_complete,omitempty"`
	Interactions        int    `json:"interaction_count"`
}

func (h *EngagementHandlers) CreateEngagement(_ context.Context, request *mcp.CallToolRequest, input CreateEngagementInput) (*mcp.CallToolResult, EngagementOutput, error) {
	rec := &models.Engagement{
		CompanyName:   input.CompanyName,
		Sector:        input.Sector,
		Region:        input.Region,
		Country:       input.Country,
		Program:       input.Program,
		Theme:         input.Theme,
		Objective:     input.Objective,
		ISIN:          input.ISIN,
		AQRID:         input.AQRID,
		Environmental: input.Environmental,
		Social:        input.Social,
		Governance:    input.Governance,
		CreatedBy:     input.CreatedBy,
	}

	start, err := parseInputDate("start_date", input.StartDate)
	if err != nil {
		return nil, EngagementOutput{}, err
	}
	if start == nil {
		now := time.Now()
		start = &now
	}
	rec.StartDate = start

	rec.TargetDate, err = parseInputDate("target_date", input.TargetDate)
	if err != nil {
		return nil, EngagementOutput{}, err
	}

	if err := h.store.CreateEngagement(rec); err != nil {
		return nil, EngagementOutput{}, err
	}
	return nil, engagementToOutput(rec, nil), nil
}

type FindEngagementsInput struct {
	Companies  []string `json:"companies,omitempty" jsonschema:"Filter to these company names"`
	Regions    []string `json:"regions,omitempty" jsonschema:"Filter to these regions"`
	Countries  []string `json:"countries,omitempty" jsonschema:"Filter to these countries"`
	Sectors    []string `json:"sectors,omitempty" jsonschema:"Filter to these GICS sectors"`
	Programs   []string `json:"programs,omitempty" jsonschema:"Filter to these programs"`
	Milestones []string `json:"milestones,omitempty" jsonschema:"Filter to these milestones"`
	Statuses   []string `json:"statuses,omitempty" jsonschema:"Filter to these milestone statuses"`
	ESG        []string `json:"esg,omitempty" jsonschema:"ESG focus subset of e, s, g (OR semantics)"`
	Urgent     bool     `json:"urgent,omitempty" jsonschema:"Only urgent engagements"`
	Upcoming   bool     `json:"upcoming,omitempty" jsonschema:"Only engagements with a next action in the upcoming window"`
}

type FindEngagementsOutput struct {
	Engagements []EngagementOutput `json:"engagements"`
}

func (h *EngagementHandlers) FindEngagements(_ context.Context, request *mcp.CallToolRequest, input FindEngagementsInput) (*mcp.CallToolResult, FindEngagementsOutput, error) {
	records, _, err := h.store.Load()
	if err != nil {
		return nil, FindEngagementsOutput{}, fmt.Errorf("failed to load engagements: %w", err)
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, pipeline.DeriveConfig{
		UrgentDays: h.cfg.UrgentDays,
		Complete:   h.cfg.CompleteMilestones,
	})
	filtered := pipeline.Filter(derived, pipeline.FilterSpec{
		Companies:    input.Companies,
		Regions:      input.Regions,
		Countries:    input.Countries,
		Sectors:      input.Sectors,
		Programs:     input.Programs,
		Milestones:   input.Milestones,
		Statuses:     input.Statuses,
		ESG:          input.ESG,
		Urgent:       input.Urgent,
		Upcoming:     input.Upcoming,
		UpcomingDays: h.cfg.UpcomingDays,
	}, now)

	out := make([]EngagementOutput, len(filtered))
	for i := range filtered {
		out[i] = engagementToOutput(&filtered[i].Engagement, &filtered[i])
	}
	return nil, FindEngagementsOutput{Engagements: out}, nil
}

type LogInteractionInput struct {
	EngagementID    int    `json:"engagement_id,omitempty" jsonschema:"Engagement identifier"`
	CompanyName     string `json:"company_name,omitempty" jsonschema:"Company name, used when engagement_id is omitted"`
	Type            string `json:"interaction_type" jsonschema:"Interaction type (required)"`
	Summary         string `json:"summary" jsonschema:"Interaction summary (required)"`
	Date            string `json:"date,omitempty" jsonschema:"Interaction date (YYYY-MM-DD, default today)"`
	OutcomeStatus   string `json:"outcome_status" jsonschema:"Outcome label (required)"`
	Milestone       string `json:"milestone,omitempty" jsonschema:"New milestone, blank keeps the current one"`
	MilestoneStatus string `json:"milestone_status,omitempty" jsonschema:"New status, blank keeps the current one"`
	EscalationLevel string `json:"escalation_level,omitempty" jsonschema:"New escalation level"`
	NextActionDate  string `json:"next_action_date,omitempty" jsonschema:"Next action date (YYYY-MM-DD)"`
	LoggedBy        string `json:"logged_by,omitempty" jsonschema:"Actor logging the interaction"`
}

type LogInteractionOutput struct {
	InteractionID string `json:"interaction_id"`
	EngagementID  int    `json:"engagement_id"`
	Date          string `json:"date"`
}

func (h *EngagementHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, LogInteractionOutput, error) {
	id := input.EngagementID
	if id == 0 && input.CompanyName != "" {
		rec, err := h.store.FindByName(input.CompanyName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, LogInteractionOutput{}, fmt.Errorf("no engagement named %q", input.CompanyName)
			}
			return nil, LogInteractionOutput{}, err
		}
		id = rec.ID
	}

	var when time.Time
	d, err := parseInputDate("date", input.Date)
	if err != nil {
		return nil, LogInteractionOutput{}, err
	}
	if d != nil {
		when = *d
	}
	next, err := parseInputDate("next_action_date", input.NextActionDate)
	if err != nil {
		return nil, LogInteractionOutput{}, err
	}

	entry, err := h.store.LogInteraction(store.InteractionInput{
		EngagementID:    id,
		Type:            input.Type,
		Summary:         input.Summary,
		Date:            when,
		OutcomeStatus:   input.OutcomeStatus,
		Milestone:       input.Milestone,
		MilestoneStatus: input.MilestoneStatus,
		EscalationLevel: input.EscalationLevel,
		NextActionDate:  next,
		LoggedBy:        input.LoggedBy,
	})
	if err != nil {
		return nil, LogInteractionOutput{}, err
	}

	return nil, LogInteractionOutput{
		InteractionID: entry.ID,
		EngagementID:  id,
		Date:          entry.Date,
	}, nil
}

type UpdateStatusInput struct {
	EngagementID int    `json:"engagement_id" jsonschema:"Engagement identifier"`
	Status       string `json:"status" jsonschema:"New milestone status label"`
	User         string `json:"user,omitempty" jsonschema:"Actor making the change"`
}

type UpdateStatusOutput struct {
	EngagementID int    `json:"engagement_id"`
	Status       string `json:"status"`
}

func (h *EngagementHandlers) UpdateStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateStatusInput) (*mcp.CallToolResult, UpdateStatusOutput, error) {
	if input.Status == "" {
		return nil, UpdateStatusOutput{}, fmt.Errorf("status is required")
	}
	if err := h.store.UpdateMilestoneStatus(input.EngagementID, input.Status, input.User); err != nil {
		return nil, UpdateStatusOutput{}, err
	}
	return nil, UpdateStatusOutput{EngagementID: input.EngagementID, Status: input.Status}, nil
}

type GetHistoryInput struct {
	EngagementID int    `json:"engagement_id,omitempty" jsonschema:"Engagement identifier"`
	CompanyName  string `json:"company_name,omitempty" jsonschema:"Company name, used when engagement_id is omitted"`
}

type InteractionOutput struct {
	ID              string `json:"interaction_id"`
	Type            string `json:"interaction_type"`
	Summary         string `json:"summary"`
	Date            string `json:"date"`
	OutcomeStatus   string `json:"outcome_status,omitempty"`
	Milestone       string `json:"milestone,omitempty"`
	MilestoneStatus string `json:"milestone_status,omitempty"`
	EscalationLevel string `json:"escalation_level,omitempty"`
	LoggedBy        string `json:"logged_by,omitempty"`
}

type GetHistoryOutput struct {
	EngagementID int                 `json:"engagement_id"`
	CompanyName  string              `json:"company_name"`
	Interactions []InteractionOutput `json:"interactions"`
}

// GetHistory returns an engagement's interaction history in display
// order, newest first.
func (h *EngagementHandlers) GetHistory(_ context.Context, request *mcp.CallToolRequest, input GetHistoryInput) (*mcp.CallToolResult, GetHistoryOutput, error) {
	var rec *models.Engagement
	var err error
	if input.EngagementID != 0 {
		rec, err = h.store.GetByID(input.EngagementID)
	} else if input.CompanyName != "" {
		rec, err = h.store.FindByName(input.CompanyName)
	} else {
		return nil, GetHistoryOutput{}, fmt.Errorf("engagement_id or company_name is required")
	}
	if err != nil {
		return nil, GetHistoryOutput{}, err
	}

	sorted := rec.SortedInteractions()
	out := make([]InteractionOutput, len(sorted))
	for i, entry := range sorted {
		out[i] = InteractionOutput{
			ID:              entry.ID,
			Type:            entry.Type,
			Summary:         entry.Summary,
			Date:            entry.Date,
			OutcomeStatus:   entry.OutcomeStatus,
			Milestone:       entry.Milestone,
			MilestoneStatus: entry.MilestoneStatus,
			EscalationLevel: entry.EscalationLevel,
			LoggedBy:        entry.LoggedBy,
		}
	}
	return nil, GetHistoryOutput{
		EngagementID: rec.ID,
		CompanyName:  rec.CompanyName,
		Interactions: out,
	}, nil
}

type ImportEngagementsInput struct {
	Path string `json:"path" jsonschema:"Path to the CSV file to import"`
}

type ImportEngagementsOutput struct {
	Imported    int    `json:"imported"`
	IDsAssigned int    `json:"ids_assigned"`
	ArchivePath string `json:"archive_path,omitempty"`
}

// ImportEngagements replaces the record set from a CSV file, archiving
// the prior one.
func (h *EngagementHandlers) ImportEngagements(_ context.Context, request *mcp.CallToolRequest, input ImportEngagementsInput) (*mcp.CallToolResult, ImportEngagementsOutput, error) {
	if input.Path == "" {
		return nil, ImportEngagementsOutput{}, fmt.Errorf("path is required")
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return nil, ImportEngagementsOutput{}, fmt.Errorf("failed to open %s: %w", input.Path, err)
	}
	defer func() { _ = f.Close() }()

	result, err := h.store.Import(f)
	if err != nil {
		return nil, ImportEngagementsOutput{}, err
	}
	return nil, ImportEngagementsOutput{
		Imported:    result.Imported,
		IDsAssigned: result.IDsAssigned,
		ArchivePath: result.ArchivePath,
	}, nil
}

func engagementToOutput(rec *models.Engagement, derived *pipeline.Engagement) EngagementOutput {
	out := EngagementOutput{
		ID:                  rec.ID,
		CompanyName:         rec.CompanyName,
		Sector:              rec.Sector,
		Region:              rec.Region,
		Country:             rec.Country,
		Program:             rec.Program,
		Theme:               rec.Theme,
		Objective:           rec.Objective,
		Milestone:           rec.Milestone,
		MilestoneStatus:     rec.MilestoneStatus,
		EscalationLevel:     rec.EscalationLevel,
		OutcomeStatus:       rec.OutcomeStatus,
		Themes:              rec.ThemeSummary(),
		ESG:                 esgSummary(rec),
		StartDate:           formatOutputDate(rec.StartDate),
		TargetDate:          formatOutputDate(rec.TargetDate),
		LastInteractionDate: formatOutputDate(rec.LastInteractionDate),
		NextActionDate:      formatOutputDate(rec.NextActionDate),
		Interactions:        len(rec.Interactions),
	}
	if derived != nil {
		out.DaysToNextAction = derived.DaysToNextAction
		out.Urgent = derived.Urgent
		out.Overdue = derived.Overdue
		out.IsComplete = derived.IsComplete
	}
	return out
}

func esgSummary(rec *models.Engagement) string {
	summary := ""
	if rec.Environmental {
		summary += "E"
	}
	if rec.Social {
		summary += "S"
	}
	if rec.Governance {
		summary += "G"
	}
	return summary
}

// parseInputDate treats a blank string as absent. A non-blank string
// that does not parse is an error rather than a silent fallback.
func parseInputDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateFormat, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", field, s)
	}
	return &t, nil
}

func formatOutputDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateFormat)
}
