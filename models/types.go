// ABOUTME: Data models for engagement tracking entities
// ABOUTME: Defines Engagement, Interaction, and lookup field names
package models

import (
	"strings"
	"time"
)

// Engagement is one tracked company in an ESG outreach campaign.
// Date and classification fields are optional: records imported from
// spreadsheets routinely arrive with gaps, and every consumer must
// tolerate the missing values.
type Engagement struct {
	ID          int    `json:"engagement_id"`
	CompanyName string `json:"company_name"`
	ISIN        string `json:"isin,omitempty"`
	AQRID       string `json:"aqr_id,omitempty"`
	Sector      string `json:"gics_sector,omitempty"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	Program     string `json:"program,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Objective   string `json:"objective,omitempty"`

	// ESG focus flags. At least one must be set at creation time.
	Environmental bool `json:"e"`
	Social        bool `json:"s"`
	Governance    bool `json:"g"`

	// Thematic classification, stored as Y/N columns in the CSV.
	ClimateChange bool `json:"climate_change"`
	Water         bool `json:"water"`
	Forests       bool `json:"forests"`
	OtherTheme    bool `json:"other_theme"`

	StartDate           *time.Time `json:"start_date,omitempty"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
	CreatedDate         *time.Time `json:"created_date,omitempty"`
	LastInteractionDate *time.Time `json:"last_interaction_date,omitempty"`
	NextActionDate      *time.Time `json:"next_action_date,omitempty"`
	OutcomeDate         *time.Time `json:"outcome_date,omitempty"`

	CreatedBy          string `json:"created_by,omitempty"`
	Milestone          string `json:"milestone,omitempty"`
	MilestoneStatus    string `json:"milestone_status,omitempty"`
	EscalationLevel    string `json:"escalation_level,omitempty"`
	OutcomeStatus      string `json:"outcome_status,omitempty"`
	InteractionType    string `json:"interaction_type,omitempty"`
	InteractionSummary string `json:"interaction_summary,omitempty"`
	LessonsLearned     string `json:"lessons_learned,omitempty"`

	// Interactions is the embedded append-only contact history,
	// persisted as a JSON array in a single CSV cell.
	Interactions []Interaction `json:"interactions"`
}

// Interaction is one immutable logged contact event. Dates are kept in
// their persisted YYYY-MM-DD form so that a malformed value degrades to
// "unknown" instead of poisoning the whole history cell.
type Interaction struct {
	ID              string `json:"interaction_id"`
	Type            string `json:"interaction_type"`
	Summary         string `json:"interaction_summary"`
	Date            string `json:"interaction_date"`
	OutcomeStatus   string `json:"outcome_status,omitempty"`
	Milestone       string `json:"milestone,omitempty"`
	MilestoneStatus string `json:"milestone_status,omitempty"`
	EscalationLevel string `json:"escalation_level,omitempty"`
	LoggedBy        string `json:"logged_by"`
	LoggedDate      string `json:"logged_date"`
}

// DateFormat is the calendar-day format used everywhere an engagement
// or interaction date crosses the persistence boundary.
const DateFormat = "2006-01-02"

// When parses the interaction date, reporting ok=false for blank or
// malformed values.
func (i *Interaction) When() (time.Time, bool) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(i.Date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Defaults seeded onto a freshly created engagement.
const (
	DefaultMilestone       = "Initiated"
	DefaultMilestoneStatus = "Amber"
	DefaultEscalationLevel = "None Required"
	DefaultOutcomeStatus   = "N/A"
)

// InteractionTypeStatusChange marks interactions synthesized by a
// milestone status update rather than a logged contact.
const InteractionTypeStatusChange = "Status Change"

// Theme display labels, in dashboard order.
const (
	ThemeClimateChange = "Climate Change"
	ThemeWater         = "Water"
	ThemeForests       = "Forests"
	ThemeOther         = "Other"
)

// ThemeLabels lists every theme category in display order.
var ThemeLabels = []string{ThemeClimateChange, ThemeWater, ThemeForests, ThemeOther}

// Lookup field names understood by the choices source and the
// validation rules.
const (
	FieldSector          = "gics_sector"
	FieldRegion          = "region"
	FieldCountry         = "country"
	FieldProgram         = "program"
	FieldTheme           = "theme"
	FieldObjective       = "objective"
	FieldMilestone       = "milestone"
	FieldMilestoneStatus = "milestone_status"
	FieldEscalationLevel = "escalation_level"
	FieldOutcomeStatus   = "outcome_status"
	FieldInteractionType = "interaction_type"
)

// ESGFlags reports the three focus flags keyed by the single-letter
// names the filter dimensions and CSV columns use.
func (e *Engagement) ESGFlags() map[string]bool {
	return map[string]bool{
		"e": e.Environmental,
		"s": e.Social,
		"g": e.Governance,
	}
}

// HasAnyESGFlag reports whether at least one ESG focus flag is set.
func (e *Engagement) HasAnyESGFlag() bool {
	return e.Environmental || e.Social || e.Governance
}

// ThemeFlag returns the boolean theme flag for a display label.
// Unknown labels are false.
func (e *Engagement) ThemeFlag(label string) bool {
	switch label {
	case ThemeClimateChange:
		return e.ClimateChange
	case ThemeWater:
		return e.Water
	case ThemeForests:
		return e.Forests
	case ThemeOther:
		return e.OtherTheme
	}
	return false
}

// Themes returns the display labels of every theme flagged on the
// engagement, in dashboard order.
func (e *Engagement) Themes() []string {
	var labels []string
	for _, label := range ThemeLabels {
		if e.ThemeFlag(label) {
			labels = append(labels, label)
		}
	}
	return labels
}

// ThemeSummary renders the flagged themes as a comma-separated string
// for table display, or "None".
func (e *Engagement) ThemeSummary() string {
	labels := e.Themes()
	if len(labels) == 0 {
		return "None"
	}
	return strings.Join(labels, ", ")
}

// SortedInteractions returns the interaction history ordered by
// interaction date descending, the display order. Entries without a
// parsable date sort last. Stored append order is left untouched.
func (e *Engagement) SortedInteractions() []Interaction {
	out := make([]Interaction, len(e.Interactions))
	copy(out, e.Interactions)
	sortInteractionsDesc(out)
	return out
}

func sortInteractionsDesc(list []Interaction) {
	// Insertion sort keeps ties in append order; histories are short.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && interactionAfter(&list[j], &list[j-1]); j-- {
			list[j-1], list[j] = list[j], list[j-1]
		}
	}
}

// interactionAfter reports whether a should display before b
// (strictly newer date; undated entries always sort last).
func interactionAfter(a, b *Interaction) bool {
	at, aok := a.When()
	bt, bok := b.When()
	if !aok {
		return false
	}
	if !bok {
		return true
	}
	return at.After(bt)
}
