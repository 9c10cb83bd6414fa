// ABOUTME: Derivation stage computing per-record view fields
// ABOUTME: Pure functions over engagements plus a caller-supplied now
package pipeline

import (
	"math"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
)

// DeriveConfig tunes the derivation stage. The complete vocabulary is
// injected because the label set differs per deployment.
type DeriveConfig struct {
	UrgentDays int
	Complete   config.Vocabulary
}

// Engagement is an engagement augmented with its derived view fields.
// Derived fields are recomputed on every derivation pass and never
// persisted.
type Engagement struct {
	models.Engagement

	// DaysToNextAction is nil when no next action date is set.
	DaysToNextAction *int

	IsComplete bool
	OnTime     bool
	Late       bool
	Overdue    bool
	Urgent     bool
}

// Derive computes the view fields for every record against now.
// Absent dates degrade to nil/false; in particular a record with no
// next action date is never urgent or overdue. The result has the same
// length and order as the input.
func Derive(records []models.Engagement, now time.Time, cfg DeriveConfig) []Engagement {
	out := make([]Engagement, len(records))
	for i := range records {
		out[i] = deriveOne(records[i], now, cfg)
	}
	return out
}

func deriveOne(rec models.Engagement, now time.Time, cfg DeriveConfig) Engagement {
	d := Engagement{Engagement: rec}

	if rec.NextActionDate != nil {
		days := daysBetween(now, *rec.NextActionDate)
		d.DaysToNextAction = &days
		d.Urgent = days <= cfg.UrgentDays
	}

	d.IsComplete = cfg.Complete.Contains(rec.Milestone) ||
		cfg.Complete.Contains(rec.MilestoneStatus)

	if rec.TargetDate != nil && d.IsComplete {
		d.OnTime = !rec.TargetDate.Before(now)
		d.Late = rec.TargetDate.Before(now)
	}

	if rec.NextActionDate != nil {
		d.Overdue = rec.NextActionDate.Before(now) && !d.IsComplete
	}

	return d
}

// daysBetween is the floor of (to - from) in days, so a next action
// 12 hours away is 0 days out and one 12 hours past is -1.
func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// Raw strips the derived fields, returning the underlying records in
// order. Deriving Raw(Derive(r)) again with the same now reproduces the
// same derived fields.
func Raw(records []Engagement) []models.Engagement {
	out := make([]models.Engagement, len(records))
	for i := range records {
		out[i] = records[i].Engagement
	}
	return out
}
