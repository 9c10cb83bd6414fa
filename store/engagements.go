// ABOUTME: Engagement write operations: create, log, status update
// ABOUTME: Interaction merges are all-or-nothing from the caller's view
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/engage/models"
)

// GetByID returns the engagement with the given identifier, or
// ErrNotFound.
func (s *Store) GetByID(id int) (*models.Engagement, error) {
	records, _, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// FindByName returns the engagement whose company name matches,
// case-insensitively, or ErrNotFound.
func (s *Store) FindByName(name string) (*models.Engagement, error) {
	records, _, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if strings.EqualFold(records[i].CompanyName, name) {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// CreateEngagement validates and appends a new engagement, assigning
// the next sequential identifier and seeding lifecycle defaults. A
// company name that duplicates an existing record (case-insensitive)
// is rejected and nothing is written.
func (s *Store) CreateEngagement(rec *models.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, choices, err := s.loadLocked()
	if err != nil {
		return err
	}

	if verr := NewValidator(choices).validateCreate(rec); verr != nil {
		return verr
	}
	for i := range records {
		if strings.EqualFold(records[i].CompanyName, rec.CompanyName) {
			verr := &ValidationError{}
			verr.add("company_name", fmt.Sprintf("Engagement with %q already exists.", rec.CompanyName))
			return verr
		}
	}

	nextID := 1
	for i := range records {
		if records[i].ID >= nextID {
			nextID = records[i].ID + 1
		}
	}

	now := time.Now()
	rec.ID = nextID
	rec.CompanyName = strings.TrimSpace(rec.CompanyName)
	rec.CreatedDate = &now
	if rec.CreatedBy == "" {
		rec.CreatedBy = "System"
	}
	if rec.NextActionDate == nil {
		rec.NextActionDate = rec.StartDate
	}
	rec.Milestone = models.DefaultMilestone
	rec.MilestoneStatus = models.DefaultMilestoneStatus
	rec.EscalationLevel = models.DefaultEscalationLevel
	rec.OutcomeStatus = models.DefaultOutcomeStatus

	// Theme flags are seeded from the ESG selection; environmental
	// engagements start flagged on the environmental themes.
	rec.ClimateChange = rec.Environmental
	rec.Water = rec.Environmental
	rec.Forests = rec.Environmental
	rec.OtherTheme = rec.Governance

	if rec.Interactions == nil {
		rec.Interactions = []models.Interaction{}
	}

	return s.saveLocked(append(records, *rec))
}

// InteractionInput is the payload for logging a contact event against
// an engagement. Blank optional fields leave the corresponding
// denormalized engagement field unchanged.
type InteractionInput struct {
	EngagementID int

	Type    string
	Summary string
	Date    time.Time

	OutcomeStatus   string
	EscalationLevel string
	Milestone       string
	MilestoneStatus string
	NextActionDate  *time.Time
	LoggedBy        string
}

// LogInteraction appends an interaction to its engagement's history
// and refreshes the denormalized status fields, as one logical unit:
// a validation failure or unknown identifier changes nothing, and a
// persistence failure leaves the cached record set untouched.
func (s *Store) LogInteraction(input InteractionInput) (*models.Interaction, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Type) == "" {
		verr.add("interaction_type", "Interaction type is required.")
	}
	if strings.TrimSpace(input.Summary) == "" {
		verr.add("interaction_summary", "Summary is required.")
	}
	if strings.TrimSpace(input.OutcomeStatus) == "" {
		verr.add("outcome_status", "Outcome is required.")
	}
	if !verr.ok() {
		return nil, verr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	target := -1
	for i := range records {
		if records[i].ID == input.EngagementID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, ErrNotFound
	}

	when := input.Date
	if when.IsZero() {
		when = time.Now()
	}
	loggedBy := input.LoggedBy
	if loggedBy == "" {
		loggedBy = "System"
	}

	entry := models.Interaction{
		ID:              uuid.NewString(),
		Type:            input.Type,
		Summary:         strings.TrimSpace(input.Summary),
		Date:            when.Format(models.DateFormat),
		OutcomeStatus:   input.OutcomeStatus,
		Milestone:       input.Milestone,
		MilestoneStatus: input.MilestoneStatus,
		EscalationLevel: input.EscalationLevel,
		LoggedBy:        loggedBy,
		LoggedDate:      time.Now().Format(models.DateFormat),
	}

	// Work on a copy so a failed save leaves the cached set intact.
	rec := records[target]
	rec.Interactions = append(append([]models.Interaction(nil), rec.Interactions...), entry)
	rec.LastInteractionDate = &when
	rec.InteractionType = input.Type
	rec.InteractionSummary = entry.Summary
	if input.NextActionDate != nil {
		rec.NextActionDate = input.NextActionDate
	}
	if input.Milestone != "" {
		rec.Milestone = input.Milestone
	}
	if input.MilestoneStatus != "" {
		rec.MilestoneStatus = input.MilestoneStatus
	}
	if input.EscalationLevel != "" {
		rec.EscalationLevel = input.EscalationLevel
	}
	if input.OutcomeStatus != "" {
		rec.OutcomeStatus = input.OutcomeStatus
	}
	records[target] = rec

	if err := s.saveLocked(records); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateMilestoneStatus records a status change as a formal
// interaction, so the history stays the single source of truth for
// status transitions. Any status label may follow any other.
func (s *Store) UpdateMilestoneStatus(id int, status, user string) error {
	if user == "" {
		user = "System"
	}
	_, err := s.LogInteraction(InteractionInput{
		EngagementID:    id,
		Type:            models.InteractionTypeStatusChange,
		Summary:         fmt.Sprintf("Status changed to %q by %s.", status, user),
		Date:            time.Now(),
		OutcomeStatus:   "Updated",
		MilestoneStatus: status,
		LoggedBy:        user,
	})
	return err
}
