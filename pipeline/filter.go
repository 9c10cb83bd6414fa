// ABOUTME: Filter stage applying multi-dimension filter specs
// ABOUTME: Empty dimensions are vacuous; results are always a subset
package pipeline

import (
	"strings"
	"time"
)

// DefaultUpcomingDays bounds the upcoming-window dimension when the
// spec does not override it.
const DefaultUpcomingDays = 30

// FilterSpec names every filter dimension the dashboard exposes. A nil
// or empty dimension imposes no constraint; supplied dimensions are
// ANDed together. Dimensions referencing a value the record set never
// carries simply match nothing for the records missing it, never error.
type FilterSpec struct {
	// Categorical multi-selects, matched by exact string equality on
	// the stored value. Companies follows the store's case-insensitive
	// name identity instead.
	Companies  []string
	Regions    []string
	Countries  []string
	Sectors    []string
	Programs   []string
	Themes     []string
	Objectives []string
	Milestones []string
	Statuses   []string

	// ESG selects a subset of {"e","s","g"}; a record passes when any
	// selected flag is set. Selecting none means all three.
	ESG []string

	// ThemeFlags selects theme display labels; a record passes when
	// any selected theme column is flagged.
	ThemeFlags []string

	// Urgent restricts to records whose derived urgent field is true.
	Urgent bool

	// Upcoming restricts to records whose next action date falls in
	// [today, today+UpcomingDays], calendar-day inclusive.
	Upcoming     bool
	UpcomingDays int
}

// IsZero reports whether no dimension is supplied, in which case
// Filter returns its input unchanged.
func (f *FilterSpec) IsZero() bool {
	return len(f.Companies) == 0 && len(f.Regions) == 0 && len(f.Countries) == 0 &&
		len(f.Sectors) == 0 && len(f.Programs) == 0 && len(f.Themes) == 0 &&
		len(f.Objectives) == 0 && len(f.Milestones) == 0 && len(f.Statuses) == 0 &&
		len(f.ESG) == 0 && len(f.ThemeFlags) == 0 && !f.Urgent && !f.Upcoming
}

// Filter returns the subset of records satisfying every supplied
// dimension of spec. now anchors the upcoming window.
func Filter(records []Engagement, spec FilterSpec, now time.Time) []Engagement {
	if spec.IsZero() {
		return records
	}

	out := make([]Engagement, 0, len(records))
	for i := range records {
		if matches(&records[i], &spec, now) {
			out = append(out, records[i])
		}
	}
	return out
}

func matches(rec *Engagement, spec *FilterSpec, now time.Time) bool {
	if len(spec.Companies) > 0 && !containsFold(spec.Companies, rec.CompanyName) {
		return false
	}

	categorical := []struct {
		selected []string
		value    string
	}{
		{spec.Regions, rec.Region},
		{spec.Countries, rec.Country},
		{spec.Sectors, rec.Sector},
		{spec.Programs, rec.Program},
		{spec.Themes, rec.Theme},
		{spec.Objectives, rec.Objective},
		{spec.Milestones, rec.Milestone},
		{spec.Statuses, rec.MilestoneStatus},
	}
	for _, dim := range categorical {
		if len(dim.selected) > 0 && !contains(dim.selected, dim.value) {
			return false
		}
	}

	if len(spec.ESG) > 0 && !matchesESG(rec, spec.ESG) {
		return false
	}

	if len(spec.ThemeFlags) > 0 && !matchesThemeFlags(rec, spec.ThemeFlags) {
		return false
	}

	if spec.Urgent && !rec.Urgent {
		return false
	}

	if spec.Upcoming && !inUpcomingWindow(rec, spec, now) {
		return false
	}

	return true
}

// matchesESG is an OR across the selected flags: a record with only
// the environmental flag set does not pass a {social, governance}
// selection, but passes any selection including "e".
func matchesESG(rec *Engagement, selected []string) bool {
	flags := rec.ESGFlags()
	for _, key := range selected {
		if flags[key] {
			return true
		}
	}
	return false
}

func matchesThemeFlags(rec *Engagement, selected []string) bool {
	for _, label := range selected {
		if rec.ThemeFlag(label) {
			return true
		}
	}
	return false
}

func inUpcomingWindow(rec *Engagement, spec *FilterSpec, now time.Time) bool {
	if rec.NextActionDate == nil {
		return false
	}
	window := spec.UpcomingDays
	if window <= 0 {
		window = DefaultUpcomingDays
	}
	days := daysUntil(now, *rec.NextActionDate)
	return days >= 0 && days <= window
}

// daysUntil counts whole calendar days from now's local date to the
// target's date, so "today" is 0 regardless of time of day. Each side
// keeps its own wall-clock calendar day, compared in one location;
// subtracting midnights in mixed locations would skew the window by up
// to a day.
func daysUntil(now, target time.Time) int {
	ny, nm, nd := now.Date()
	ty, tm, td := target.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today).Hours() / 24)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
