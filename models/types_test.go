// ABOUTME: Tests for engagement model helpers
// ABOUTME: Covers theme labels and interaction date ordering
package models

import (
	"testing"
)

func TestThemeSummary(t *testing.T) {
	e := Engagement{ClimateChange: true, Forests: true}
	if got := e.ThemeSummary(); got != "Climate Change, Forests" {
		t.Errorf("expected ordered theme list, got %q", got)
	}

	empty := Engagement{}
	if got := empty.ThemeSummary(); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
}

func TestHasAnyESGFlag(t *testing.T) {
	if (&Engagement{}).HasAnyESGFlag() {
		t.Error("no flags set should report false")
	}
	if !(&Engagement{Social: true}).HasAnyESGFlag() {
		t.Error("social flag should report true")
	}
}

func TestInteractionWhen(t *testing.T) {
	good := Interaction{Date: "2025-03-12"}
	when, ok := good.When()
	if !ok || when.Format(DateFormat) != "2025-03-12" {
		t.Errorf("expected parsed date, got %v ok=%v", when, ok)
	}

	for _, bad := range []string{"", "nan", "12/03/2025 oops"} {
		if _, ok := (&Interaction{Date: bad}).When(); ok {
			t.Errorf("date %q should not parse", bad)
		}
	}
}

func TestSortedInteractionsDescending(t *testing.T) {
	e := Engagement{Interactions: []Interaction{
		{ID: "a", Date: "2025-01-01"},
		{ID: "b", Date: "2025-03-01"},
		{ID: "c", Date: ""},
		{ID: "d", Date: "2025-02-01"},
	}}

	sorted := e.SortedInteractions()
	want := []string{"b", "d", "a", "c"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, sorted[i].ID)
		}
	}

	// Stored order is untouched.
	if e.Interactions[0].ID != "a" {
		t.Error("SortedInteractions must not mutate stored order")
	}
}
