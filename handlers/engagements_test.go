// ABOUTME: Tests for engagement MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/store"
)

func setupTestHandlers(t *testing.T) (*EngagementHandlers, *QueryHandlers, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	choices := `{
		"gics_sector": ["Energy", "Utilities"],
		"region": ["Europe", "North America"],
		"country": ["Germany", "United States"],
		"program": ["Climate Action"]
	}`
	if err := os.WriteFile(filepath.Join(dir, "configchoice.json"), []byte(choices), 0o644); err != nil {
		t.Fatalf("failed to write choices: %v", err)
	}

	s, err := store.Open(dir, time.Minute)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	cfg := config.Default()
	cfg.DataDir = dir
	return NewEngagementHandlers(s, cfg), NewQueryHandlers(s, cfg), s
}

func createTestEngagement(t *testing.T, h *EngagementHandlers, name string) EngagementOutput {
	t.Helper()
	_, out, err := h.CreateEngagement(context.Background(), nil, CreateEngagementInput{
		CompanyName:   name,
		Sector:        "Energy",
		Region:        "Europe",
		Country:       "Germany",
		Program:       "Climate Action",
		Environmental: true,
	})
	if err != nil {
		t.Fatalf("CreateEngagement failed: %v", err)
	}
	return out
}

func TestCreateEngagementHandler(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	out := createTestEngagement(t, h, "Acme Corp")

	if out.ID != 1 {
		t.Errorf("Expected ID 1, got %d", out.ID)
	}
	if out.CompanyName != "Acme Corp" {
		t.Errorf("Expected company 'Acme Corp', got %q", out.CompanyName)
	}
	if out.Milestone != "Initiated" {
		t.Errorf("Expected milestone 'Initiated', got %q", out.Milestone)
	}
	if out.MilestoneStatus != "Amber" {
		t.Errorf("Expected status 'Amber', got %q", out.MilestoneStatus)
	}
	if out.ESG != "E" {
		t.Errorf("Expected ESG 'E', got %q", out.ESG)
	}
	if out.StartDate == "" {
		t.Error("Start date was not defaulted")
	}
}

func TestCreateEngagementHandlerValidation(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	_, _, err := h.CreateEngagement(context.Background(), nil, CreateEngagementInput{
		CompanyName: "No Flags Inc",
		Sector:      "Energy",
		Region:      "Europe",
		Country:     "Germany",
		Program:     "Climate Action",
	})
	if err == nil {
		t.Fatal("Expected validation error for missing ESG flags")
	}
}

func TestCreateEngagementHandlerRejectsMalformedDate(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	_, _, err := h.CreateEngagement(context.Background(), nil, CreateEngagementInput{
		CompanyName:   "Bad Date Inc",
		Sector:        "Energy",
		Region:        "Europe",
		Country:       "Germany",
		Program:       "Climate Action",
		Environmental: true,
		StartDate:     "02/15/2025",
	})
	if err == nil {
		t.Fatal("Expected error for malformed start_date")
	}
	if !strings.Contains(err.Error(), "start_date") {
		t.Errorf("Error should name the offending field, got %q", err.Error())
	}
}

func TestLogInteractionHandlerRejectsMalformedDate(t *testing.T) {
	h, _, _ := setupTestHandlers(t)
	created := createTestEngagement(t, h, "Acme Corp")

	_, _, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{
		EngagementID:  created.ID,
		Type:          "Call",
		Summary:       "Hello",
		OutcomeStatus: "Positive",
		Date:          "not-a-date",
	})
	if err == nil {
		t.Fatal("Expected error for malformed date")
	}
}

func TestFindEngagementsHandler(t *testing.T) {
	h, _, _ := setupTestHandlers(t)
	createTestEngagement(t, h, "Acme Corp")

	_, out, err := h.CreateEngagement(context.Background(), nil, CreateEngagementInput{
		CompanyName: "Beta Industries",
		Sector:      "Utilities",
		Region:      "North America",
		Country:     "United States",
		Program:     "Climate Action",
		Social:      true,
	})
	if err != nil {
		t.Fatalf("CreateEngagement failed: %v", err)
	}
	if out.ID != 2 {
		t.Errorf("Expected ID 2, got %d", out.ID)
	}

	_, found, err := h.FindEngagements(context.Background(), nil, FindEngagementsInput{
		Regions: []string{"Europe"},
	})
	if err != nil {
		t.Fatalf("FindEngagements failed: %v", err)
	}
	if len(found.Engagements) != 1 {
		t.Fatalf("Expected 1 engagement, got %d", len(found.Engagements))
	}
	if found.Engagements[0].CompanyName != "Acme Corp" {
		t.Errorf("Expected 'Acme Corp', got %q", found.Engagements[0].CompanyName)
	}
}

func TestFindEngagementsHandlerESGFilter(t *testing.T) {
	h, _, _ := setupTestHandlers(t)
	createTestEngagement(t, h, "Acme Corp")

	_, found, err := h.FindEngagements(context.Background(), nil, FindEngagementsInput{
		ESG: []string{"s", "g"},
	})
	if err != nil {
		t.Fatalf("FindEngagements failed: %v", err)
	}
	if len(found.Engagements) != 0 {
		t.Errorf("Expected no matches for S/G filter, got %d", len(found.Engagements))
	}
}

func TestLogInteractionHandler(t *testing.T) {
	h, _, s := setupTestHandlers(t)
	created := createTestEngagement(t, h, "Acme Corp")

	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{
		EngagementID:    created.ID,
		Type:            "Meeting",
		Summary:         "Discussed emissions targets",
		OutcomeStatus:   "Positive",
		MilestoneStatus: "Green",
		Date:            "2026-08-15",
		NextActionDate:  "2026-09-15",
		LoggedBy:        "analyst",
	})
	if err != nil {
		t.Fatalf("LogInteraction failed: %v", err)
	}
	if out.InteractionID == "" {
		t.Error("Interaction ID was not set")
	}
	if out.Date != "2026-08-15" {
		t.Errorf("Expected date 2026-08-15, got %q", out.Date)
	}

	rec, err := s.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(rec.Interactions) != 1 {
		t.Fatalf("Expected 1 interaction, got %d", len(rec.Interactions))
	}
	if rec.MilestoneStatus != "Green" {
		t.Errorf("Expected status 'Green', got %q", rec.MilestoneStatus)
	}
}

func TestLogInteractionHandlerByCompanyName(t *testing.T) {
	h, _, _ := setupTestHandlers(t)
	createTestEngagement(t, h, "Acme Corp")

	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{
		CompanyName:   "acme corp",
		Type:          "Email",
		Summary:       "Follow up on disclosure request",
		OutcomeStatus: "Neutral",
	})
	if err != nil {
		t.Fatalf("LogInteraction failed: %v", err)
	}
	if out.EngagementID != 1 {
		t.Errorf("Expected engagement 1, got %d", out.EngagementID)
	}
}

func TestLogInteractionHandlerUnknownCompany(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	_, _, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{
		CompanyName:   "Nobody Inc",
		Type:          "Email",
		Summary:       "x",
		OutcomeStatus: "Neutral",
	})
	if err == nil {
		t.Fatal("Expected error for unknown company")
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	h, _, s := setupTestHandlers(t)
	created := createTestEngagement(t, h, "Acme Corp")

	_, out, err := h.UpdateStatus(context.Background(), nil, UpdateStatusInput{
		EngagementID: created.ID,
		Status:       "Red",
		User:         "analyst",
	})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if out.Status != "Red" {
		t.Errorf("Expected status 'Red', got %q", out.Status)
	}

	rec, err := s.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rec.MilestoneStatus != "Red" {
		t.Errorf("Expected persisted status 'Red', got %q", rec.MilestoneStatus)
	}
	if len(rec.Interactions) != 1 {
		t.Errorf("Expected status change to be recorded, got %d interactions", len(rec.Interactions))
	}
}

func TestImportEngagementsHandler(t *testing.T) {
	h, _, s := setupTestHandlers(t)

	csv := "company_name,gics_sector,region,country,program\n" +
		"Acme Corp,Energy,Europe,Germany,Climate Action\n" +
		"Beta Industries,Utilities,North America,United States,Climate Action\n"
	path := filepath.Join(t.TempDir(), "import.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	_, out, err := h.ImportEngagements(context.Background(), nil, ImportEngagementsInput{Path: path})
	if err != nil {
		t.Fatalf("ImportEngagements failed: %v", err)
	}
	if out.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", out.Imported)
	}
	if out.IDsAssigned != 2 {
		t.Errorf("Expected 2 IDs assigned, got %d", out.IDsAssigned)
	}

	records, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records after import, got %d", len(records))
	}
}

func TestGetHistoryHandler(t *testing.T) {
	h, _, _ := setupTestHandlers(t)
	created := createTestEngagement(t, h, "Acme Corp")

	for _, date := range []string{"2026-08-01", "2026-08-20", "2026-08-10"} {
		_, _, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{
			EngagementID:  created.ID,
			Type:          "Call",
			Summary:       "Check-in " + date,
			OutcomeStatus: "Neutral",
			Date:          date,
		})
		if err != nil {
			t.Fatalf("LogInteraction failed: %v", err)
		}
	}

	_, out, err := h.GetHistory(context.Background(), nil, GetHistoryInput{EngagementID: created.ID})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(out.Interactions) != 3 {
		t.Fatalf("Expected 3 interactions, got %d", len(out.Interactions))
	}
	if out.Interactions[0].Date != "2026-08-20" {
		t.Errorf("Expected newest first, got %q", out.Interactions[0].Date)
	}
	if out.Interactions[2].Date != "2026-08-01" {
		t.Errorf("Expected oldest last, got %q", out.Interactions[2].Date)
	}
}
