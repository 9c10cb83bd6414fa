// ABOUTME: Tests for the filter stage
// ABOUTME: Covers vacuity, subset guarantee, ESG OR semantics, windows
package pipeline

import (
	"testing"
	"time"

	"github.com/harperreed/engage/models"
)

func testRecords(now time.Time) []Engagement {
	raw := []models.Engagement{
		{
			ID: 1, CompanyName: "Acme Corp", Region: "Americas", Country: "USA",
			Sector: "Energy", Program: "Climate Action 100+", Milestone: "Success",
			Environmental: true,
			NextActionDate: datePtr(now.AddDate(0, 0, 2)),
		},
		{
			ID: 2, CompanyName: "Beta Ltd", Region: "Europe", Country: "Germany",
			Sector: "Utilities", Program: "Water Stewardship", Milestone: "Not Started",
			Social:         true,
			NextActionDate: datePtr(now.AddDate(0, 0, 40)),
		},
		{
			ID: 3, CompanyName: "Gamma Inc", Region: "Europe", Country: "France",
			Sector: "Financials", Program: "Governance Reform", Milestone: "Cancelled",
			Governance: true,
		},
	}
	return Derive(raw, now, testDeriveConfig)
}

func TestFilterEmptySpecIsVacuous(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	got := Filter(records, FilterSpec{}, now)
	if len(got) != len(records) {
		t.Fatalf("empty spec should return all %d records, got %d", len(records), len(got))
	}
	for i := range got {
		if got[i].ID != records[i].ID {
			t.Errorf("record %d reordered by vacuous filter", i)
		}
	}
}

func TestFilterResultIsSubset(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	spec := FilterSpec{Regions: []string{"Europe"}, Milestones: []string{"Not Started", "Cancelled"}}
	got := Filter(records, spec, now)

	ids := make(map[int]bool)
	for i := range records {
		ids[records[i].ID] = true
	}
	for i := range got {
		if !ids[got[i].ID] {
			t.Errorf("filter invented record %d", got[i].ID)
		}
	}
	if len(got) != 2 {
		t.Errorf("expected 2 European non-success records, got %d", len(got))
	}
}

func TestFilterESGIsORAcrossSelectedFlags(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	// Acme is environmental-only: it must NOT pass a {social,
	// governance} selection, and must pass any selection with "e".
	got := Filter(records, FilterSpec{ESG: []string{"s", "g"}}, now)
	for i := range got {
		if got[i].CompanyName == "Acme Corp" {
			t.Error("environmental-only record passed a social/governance ESG filter")
		}
	}
	if len(got) != 2 {
		t.Errorf("expected Beta and Gamma, got %d records", len(got))
	}

	got = Filter(records, FilterSpec{ESG: []string{"e", "s", "g"}}, now)
	if len(got) != 3 {
		t.Errorf("selecting all three flags should match everything, got %d", len(got))
	}
}

func TestFilterConjunctionAcrossDimensions(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	spec := FilterSpec{
		Regions:  []string{"Europe"},
		Sectors:  []string{"Utilities"},
		Programs: []string{"Water Stewardship"},
	}
	got := Filter(records, spec, now)
	if len(got) != 1 || got[0].CompanyName != "Beta Ltd" {
		t.Fatalf("expected only Beta Ltd, got %d records", len(got))
	}
}

func TestFilterUrgent(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	got := Filter(records, FilterSpec{Urgent: true}, now)
	if len(got) != 1 || got[0].CompanyName != "Acme Corp" {
		t.Fatalf("expected only the urgent Acme record, got %d records", len(got))
	}
}

func TestFilterUpcomingWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	raw := []models.Engagement{
		{ID: 1, CompanyName: "Today", NextActionDate: datePtr(now)},
		{ID: 2, CompanyName: "Edge", NextActionDate: datePtr(now.AddDate(0, 0, 30))},
		{ID: 3, CompanyName: "Beyond", NextActionDate: datePtr(now.AddDate(0, 0, 31))},
		{ID: 4, CompanyName: "Past", NextActionDate: datePtr(now.AddDate(0, 0, -1))},
		{ID: 5, CompanyName: "Unscheduled"},
	}
	records := Derive(raw, now, testDeriveConfig)

	got := Filter(records, FilterSpec{Upcoming: true}, now)
	if len(got) != 2 {
		t.Fatalf("expected Today and Edge in the 30-day window, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("unexpected records in window: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestFilterMilestoneScenario(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	got := Filter(records, FilterSpec{Milestones: []string{"Success", "Cancelled"}}, now)
	if len(got) != 2 {
		t.Fatalf("expected Acme and Gamma, got %d records", len(got))
	}
	names := map[string]bool{got[0].CompanyName: true, got[1].CompanyName: true}
	if !names["Acme Corp"] || !names["Gamma Inc"] {
		t.Errorf("unexpected companies: %v", names)
	}
}

func TestFilterThemeFlags(t *testing.T) {
	now := time.Now()
	raw := []models.Engagement{
		{ID: 1, CompanyName: "Climate Co", ClimateChange: true},
		{ID: 2, CompanyName: "Water Co", Water: true},
		{ID: 3, CompanyName: "Plain Co"},
	}
	records := Derive(raw, now, testDeriveConfig)

	got := Filter(records, FilterSpec{ThemeFlags: []string{models.ThemeClimateChange, models.ThemeWater}}, now)
	if len(got) != 2 {
		t.Fatalf("expected the two flagged records, got %d", len(got))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	now := time.Now()
	got := Filter(nil, FilterSpec{Regions: []string{"Europe"}}, now)
	if len(got) != 0 {
		t.Errorf("empty input must filter to empty output, got %d", len(got))
	}
}

func TestFilterExactCategoricalMatch(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	// Categorical matching is exact, not case-normalized.
	got := Filter(records, FilterSpec{Sectors: []string{"energy"}}, now)
	if len(got) != 0 {
		t.Errorf("lowercase sector value should not match stored %q", "Energy")
	}
}

func TestFilterUpcomingWindowAcrossTimezones(t *testing.T) {
	// Operator west of UTC; stored dates parse as UTC midnight. The
	// window is counted on calendar days, so a date 31 days out stays
	// excluded regardless of the operator's offset.
	local := time.FixedZone("UTC-7", -7*60*60)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, local)

	raw := []models.Engagement{
		{ID: 1, CompanyName: "Edge", NextActionDate: datePtr(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))},
		{ID: 2, CompanyName: "Beyond", NextActionDate: datePtr(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))},
	}
	records := Derive(raw, now, testDeriveConfig)

	got := Filter(records, FilterSpec{Upcoming: true}, now)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the day-30 record, got %d records", len(got))
	}
}

func TestFilterCompanyNameIgnoresCase(t *testing.T) {
	now := time.Now()
	records := testRecords(now)

	// Company names follow the store's case-insensitive identity.
	got := Filter(records, FilterSpec{Companies: []string{"ACME CORP"}}, now)
	if len(got) != 1 || got[0].CompanyName != "Acme Corp" {
		t.Fatalf("expected Acme Corp for a case-folded name, got %d records", len(got))
	}
}
