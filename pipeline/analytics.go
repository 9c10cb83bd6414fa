// ABOUTME: Analytics stage aggregating derived record sets
// ABOUTME: Produces KPI rates, breakdowns, trends, and theme shares
package pipeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
)

// AnalyticsConfig injects the deployment vocabularies the KPI counts
// are measured against.
type AnalyticsConfig struct {
	Success  config.Vocabulary
	Complete config.Vocabulary
	Failed   config.Vocabulary
	Inactive config.Vocabulary

	// DensifyTrend synthesizes zero-count months between the first and
	// last observed month of the trend series.
	DensifyTrend bool
}

// Analytics is the full suite of dashboard aggregates for one record
// set. An empty input yields zeroed counts and empty slices, never an
// error.
type Analytics struct {
	Total      int
	Active     int
	NotStarted int
	Completed  int
	Failed     int

	// Rates are percentages rounded to the nearest integer; zero when
	// the record set is empty.
	SuccessRate    int
	CompletionRate int
	FailRate       int

	ESG        ESGCounts
	Milestones []LabelCount
	Sectors    []SectorStats
	Trend      []MonthCount
	Themes     []ThemeCount
}

// ESGCounts totals each focus flag independently.
type ESGCounts struct {
	Environmental int
	Social        int
	Governance    int
}

// LabelCount is a milestone label with its record count, sorted by
// count descending for charting.
type LabelCount struct {
	Label string
	Count int
}

// SectorStats is the per-sector success breakdown.
type SectorStats struct {
	Sector    string
	Total     int
	Completed int

	// SuccessRate is completed/total as a percentage, one decimal.
	SuccessRate float64
}

// MonthCount is one point of the monthly new-engagement trend.
type MonthCount struct {
	Month          time.Time
	NewEngagements int
}

// ThemeCount is a theme category with its flagged-record count and its
// share of the sum of all theme counts. A record flagged with two
// themes contributes to both numerators and twice to the denominator;
// the double counting is intentional and matches the dashboard gauges.
type ThemeCount struct {
	Theme string
	Count int
	Share int
}

// Analyze aggregates a derived, possibly filtered record set.
func Analyze(records []Engagement, cfg AnalyticsConfig) *Analytics {
	a := &Analytics{Total: len(records)}

	var success int
	milestones := make(map[string]int)
	for i := range records {
		rec := &records[i]

		if rec.Milestone != "" {
			milestones[rec.Milestone]++
		}
		if cfg.Success.Contains(rec.Milestone) {
			success++
		}
		if cfg.Complete.Contains(rec.Milestone) {
			a.Completed++
		}
		if cfg.Failed.Contains(rec.Milestone) {
			a.Failed++
		}
		if rec.Milestone != "" && !cfg.Inactive.Contains(rec.Milestone) {
			a.Active++
		}
		if strings.EqualFold(rec.Milestone, "Not Started") {
			a.NotStarted++
		}

		if rec.Environmental {
			a.ESG.Environmental++
		}
		if rec.Social {
			a.ESG.Social++
		}
		if rec.Governance {
			a.ESG.Governance++
		}
	}

	a.SuccessRate = percent(success, a.Total)
	a.CompletionRate = percent(a.Completed, a.Total)
	a.FailRate = percent(a.Failed, a.Total)

	a.Milestones = sortedCounts(milestones)
	a.Sectors = sectorStats(records)
	a.Trend = monthlyTrend(records, cfg.DensifyTrend)
	a.Themes = themeDistribution(records)

	return a
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func sortedCounts(counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sectorStats(records []Engagement) []SectorStats {
	bySector := make(map[string]*SectorStats)
	for i := range records {
		sector := records[i].Sector
		if sector == "" {
			continue
		}
		stats, ok := bySector[sector]
		if !ok {
			stats = &SectorStats{Sector: sector}
			bySector[sector] = stats
		}
		stats.Total++
		if records[i].IsComplete {
			stats.Completed++
		}
	}

	out := make([]SectorStats, 0, len(bySector))
	for _, stats := range bySector {
		stats.SuccessRate = math.Round(float64(stats.Completed)/float64(stats.Total)*1000) / 10
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })
	return out
}

func monthlyTrend(records []Engagement, densify bool) []MonthCount {
	byMonth := make(map[time.Time]int)
	for i := range records {
		start := records[i].StartDate
		if start == nil {
			continue
		}
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month]++
	}
	if len(byMonth) == 0 {
		return nil
	}

	months := make([]time.Time, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	if densify {
		last := months[len(months)-1]
		var gaps []time.Time
		for m := months[0]; m.Before(last); m = m.AddDate(0, 1, 0) {
			if _, ok := byMonth[m]; !ok {
				gaps = append(gaps, m)
			}
		}
		months = append(months, gaps...)
		sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	}

	out := make([]MonthCount, len(months))
	for i, month := range months {
		out[i] = MonthCount{Month: month, NewEngagements: byMonth[month]}
	}
	return out
}

func themeDistribution(records []Engagement) []ThemeCount {
	counts := make(map[string]int, len(models.ThemeLabels))
	total := 0
	for i := range records {
		for _, label := range models.ThemeLabels {
			if records[i].ThemeFlag(label) {
				counts[label]++
				total++
			}
		}
	}

	out := make([]ThemeCount, len(models.ThemeLabels))
	for i, label := range models.ThemeLabels {
		tc := ThemeCount{Theme: label, Count: counts[label]}
		if total > 0 {
			tc.Share = percent(counts[label], total)
		}
		out[i] = tc
	}
	return out
}
