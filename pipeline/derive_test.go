// ABOUTME: Tests for the derivation stage
// ABOUTME: Covers urgency, completion, overdue, and absent-date handling
package pipeline

import (
	"testing"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
)

var testDeriveConfig = DeriveConfig{
	UrgentDays: 3,
	Complete:   config.Vocabulary{"Complete", "Success", "Full Disclosure", "Partial Disclosure", "Verified"},
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestDeriveDaysToNextAction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := models.Engagement{
		CompanyName:    "Acme Corp",
		NextActionDate: datePtr(now.Add(48 * time.Hour)),
	}

	derived := Derive([]models.Engagement{rec}, now, testDeriveConfig)
	if len(derived) != 1 {
		t.Fatalf("expected 1 record, got %d", len(derived))
	}
	if derived[0].DaysToNextAction == nil {
		t.Fatal("DaysToNextAction should be set")
	}
	if *derived[0].DaysToNextAction != 2 {
		t.Errorf("expected 2 days, got %d", *derived[0].DaysToNextAction)
	}
	if !derived[0].Urgent {
		t.Error("2 days out should be urgent at threshold 3")
	}
}

func TestDeriveDaysFloorsPartialDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 12 hours ahead floors to 0 days; 12 hours behind floors to -1.
	ahead := models.Engagement{NextActionDate: datePtr(now.Add(12 * time.Hour))}
	behind := models.Engagement{NextActionDate: datePtr(now.Add(-12 * time.Hour))}

	derived := Derive([]models.Engagement{ahead, behind}, now, testDeriveConfig)
	if got := *derived[0].DaysToNextAction; got != 0 {
		t.Errorf("expected 0 days for +12h, got %d", got)
	}
	if got := *derived[1].DaysToNextAction; got != -1 {
		t.Errorf("expected -1 days for -12h, got %d", got)
	}
}

func TestDeriveAbsentNextActionDate(t *testing.T) {
	now := time.Now()
	rec := models.Engagement{CompanyName: "Gamma Inc"}

	derived := Derive([]models.Engagement{rec}, now, testDeriveConfig)
	d := derived[0]

	if d.DaysToNextAction != nil {
		t.Errorf("expected nil DaysToNextAction, got %d", *d.DaysToNextAction)
	}
	if d.Urgent {
		t.Error("record without a next action date must never be urgent")
	}
	if d.Overdue {
		t.Error("record without a next action date must not be overdue")
	}
}

func TestDeriveCompletionVocabulary(t *testing.T) {
	now := time.Now()

	tests := []struct {
		milestone string
		status    string
		complete  bool
	}{
		{"Success", "", true},
		{"success", "", true}, // case-insensitive
		{"Partial Disclosure", "", true},
		{"", "complete", true}, // completion via status field
		{"Not Started", "Amber", false},
		{"", "", false},
	}

	for _, tt := range tests {
		rec := models.Engagement{Milestone: tt.milestone, MilestoneStatus: tt.status}
		derived := Derive([]models.Engagement{rec}, now, testDeriveConfig)
		if derived[0].IsComplete != tt.complete {
			t.Errorf("milestone=%q status=%q: expected IsComplete=%v", tt.milestone, tt.status, tt.complete)
		}
	}
}

func TestDeriveOnTimeAndLate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	onTime := models.Engagement{Milestone: "Success", TargetDate: datePtr(now.AddDate(0, 0, 30))}
	late := models.Engagement{Milestone: "Success", TargetDate: datePtr(now.AddDate(0, 0, -30))}
	incomplete := models.Engagement{Milestone: "Not Started", TargetDate: datePtr(now.AddDate(0, 0, -30))}
	noTarget := models.Engagement{Milestone: "Success"}

	derived := Derive([]models.Engagement{onTime, late, incomplete, noTarget}, now, testDeriveConfig)

	if !derived[0].OnTime || derived[0].Late {
		t.Error("complete record with future target should be on time")
	}
	if derived[1].OnTime || !derived[1].Late {
		t.Error("complete record with past target should be late")
	}
	if derived[2].OnTime || derived[2].Late {
		t.Error("incomplete record should be neither on time nor late")
	}
	if derived[3].OnTime || derived[3].Late {
		t.Error("record without a target date should be neither on time nor late")
	}
}

func TestDeriveOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	pending := models.Engagement{Milestone: "Initiated", NextActionDate: datePtr(now.AddDate(0, 0, -5))}
	done := models.Engagement{Milestone: "Success", NextActionDate: datePtr(now.AddDate(0, 0, -5))}

	derived := Derive([]models.Engagement{pending, done}, now, testDeriveConfig)
	if !derived[0].Overdue {
		t.Error("incomplete record with past next action should be overdue")
	}
	if derived[1].Overdue {
		t.Error("complete record is never overdue")
	}
}

func TestDeriveIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	records := []models.Engagement{
		{CompanyName: "Acme Corp", Milestone: "Success", NextActionDate: datePtr(now.AddDate(0, 0, 2))},
		{CompanyName: "Beta Ltd", Milestone: "Not Started", NextActionDate: datePtr(now.AddDate(0, 0, 40))},
		{CompanyName: "Gamma Inc", Milestone: "Cancelled"},
	}

	once := Derive(records, now, testDeriveConfig)
	twice := Derive(Raw(once), now, testDeriveConfig)

	for i := range once {
		if once[i].IsComplete != twice[i].IsComplete ||
			once[i].Urgent != twice[i].Urgent ||
			once[i].Overdue != twice[i].Overdue ||
			once[i].OnTime != twice[i].OnTime ||
			once[i].Late != twice[i].Late {
			t.Errorf("record %d: derived flags changed on second pass", i)
		}
		a, b := once[i].DaysToNextAction, twice[i].DaysToNextAction
		if (a == nil) != (b == nil) || (a != nil && *a != *b) {
			t.Errorf("record %d: DaysToNextAction changed on second pass", i)
		}
	}
}

func TestDeriveEmptyInput(t *testing.T) {
	derived := Derive(nil, time.Now(), testDeriveConfig)
	if len(derived) != 0 {
		t.Errorf("expected empty output, got %d records", len(derived))
	}
}
