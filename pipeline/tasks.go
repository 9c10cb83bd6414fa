// ABOUTME: Upcoming-task buckets for the calendar and task views
// ABOUTME: Splits pending next actions into urgent/warning/upcoming
package pipeline

import (
	"sort"
	"time"
)

// TaskConfig bounds the three task buckets in days out from today.
type TaskConfig struct {
	UrgentDays   int
	WarningDays  int
	UpcomingDays int
}

// Tasks holds the bucketed pending actions. The buckets are disjoint:
// every task in the window lands in exactly one of them. Upcoming is
// therefore only the tail of the window, not a cumulative listing that
// repeats the urgent and warning entries.
type Tasks struct {
	Urgent   []Engagement
	Warning  []Engagement
	Upcoming []Engagement
}

// UpcomingTasks buckets records whose next action date falls within
// [today, today+UpcomingDays] and which are not complete, each bucket
// sorted by next action date ascending. Records without a next action
// date are skipped.
func UpcomingTasks(records []Engagement, now time.Time, cfg TaskConfig) Tasks {
	var tasks Tasks
	for i := range records {
		rec := &records[i]
		if rec.NextActionDate == nil || rec.IsComplete {
			continue
		}
		days := daysUntil(now, *rec.NextActionDate)
		if days < 0 || days > cfg.UpcomingDays {
			continue
		}
		switch {
		case days <= cfg.UrgentDays:
			tasks.Urgent = append(tasks.Urgent, *rec)
		case days <= cfg.WarningDays:
			tasks.Warning = append(tasks.Warning, *rec)
		default:
			tasks.Upcoming = append(tasks.Upcoming, *rec)
		}
	}

	for _, bucket := range [][]Engagement{tasks.Urgent, tasks.Warning, tasks.Upcoming} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].NextActionDate.Before(*bucket[j].NextActionDate)
		})
	}
	return tasks
}
