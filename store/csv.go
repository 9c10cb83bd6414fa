// ABOUTME: CSV row codec for the engagements file
// ABOUTME: Tolerant decoding of booleans, dates, and embedded history
package store

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/engage/models"
)

// csvHeader is the canonical column order of the engagements file.
// Decoding is header-driven so reordered or partial files still load.
var csvHeader = []string{
	"engagement_id", "company_name", "isin", "aqr_id", "gics_sector",
	"country", "region", "program", "theme", "objective",
	"start_date", "target_date", "e", "s", "g",
	"Climate Change", "Water", "Forests", "Other",
	"created_date", "created_by", "last_interaction_date",
	"next_action_date", "milestone", "milestone_status",
	"escalation_level", "outcome_status", "interaction_type",
	"interaction_summary", "outcome_date", "lessons_learned",
	"interactions",
}

// dateLayouts covers the formats observed in exported files. Day-first
// is tried after ISO because ISO is what this store writes.
var dateLayouts = []string{
	models.DateFormat,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeColumn repairs header cells mangled by BOMs or spreadsheet
// round-trips ("ï»¿company_name", "Company Name") into the canonical
// snake_case names.
func normalizeColumn(col string) string {
	col = strings.TrimPrefix(col, "\uFEFF")
	norm := nonAlnum.ReplaceAllString(strings.ToLower(col), "_")
	norm = strings.Trim(norm, "_")

	for _, canonical := range csvHeader {
		want := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(canonical), "_"), "_")
		if norm == want {
			return canonical
		}
	}
	return col
}

// headerIndex maps canonical column names to their position in the
// file's header row.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[normalizeColumn(col)] = i
	}
	return idx
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func decodeRow(row []string, idx map[string]int) models.Engagement {
	rec := models.Engagement{
		ID:                 parseID(cell(row, idx, "engagement_id")),
		CompanyName:        cell(row, idx, "company_name"),
		ISIN:               cell(row, idx, "isin"),
		AQRID:              cell(row, idx, "aqr_id"),
		Sector:             cell(row, idx, "gics_sector"),
		Country:            cell(row, idx, "country"),
		Region:             cell(row, idx, "region"),
		Program:            cell(row, idx, "program"),
		Theme:              cell(row, idx, "theme"),
		Objective:          cell(row, idx, "objective"),
		Environmental:      parseTruthy(cell(row, idx, "e")),
		Social:             parseTruthy(cell(row, idx, "s")),
		Governance:         parseTruthy(cell(row, idx, "g")),
		ClimateChange:      parseYes(cell(row, idx, "Climate Change")),
		Water:              parseYes(cell(row, idx, "Water")),
		Forests:            parseYes(cell(row, idx, "Forests")),
		OtherTheme:         parseYes(cell(row, idx, "Other")),
		CreatedBy:          cell(row, idx, "created_by"),
		Milestone:          cell(row, idx, "milestone"),
		MilestoneStatus:    cell(row, idx, "milestone_status"),
		EscalationLevel:    cell(row, idx, "escalation_level"),
		OutcomeStatus:      cell(row, idx, "outcome_status"),
		InteractionType:    cell(row, idx, "interaction_type"),
		InteractionSummary: cell(row, idx, "interaction_summary"),
		LessonsLearned:     cell(row, idx, "lessons_learned"),
	}

	rec.StartDate = parseDate(cell(row, idx, "start_date"))
	rec.TargetDate = parseDate(cell(row, idx, "target_date"))
	rec.CreatedDate = parseDate(cell(row, idx, "created_date"))
	rec.LastInteractionDate = parseDate(cell(row, idx, "last_interaction_date"))
	rec.NextActionDate = parseDate(cell(row, idx, "next_action_date"))
	rec.OutcomeDate = parseDate(cell(row, idx, "outcome_date"))
	rec.Interactions = parseInteractions(cell(row, idx, "interactions"))

	return rec
}

func encodeRow(rec *models.Engagement) []string {
	return []string{
		strconv.Itoa(rec.ID),
		rec.CompanyName,
		rec.ISIN,
		rec.AQRID,
		rec.Sector,
		rec.Country,
		rec.Region,
		rec.Program,
		rec.Theme,
		rec.Objective,
		formatDate(rec.StartDate),
		formatDate(rec.TargetDate),
		formatBool(rec.Environmental),
		formatBool(rec.Social),
		formatBool(rec.Governance),
		formatYes(rec.ClimateChange),
		formatYes(rec.Water),
		formatYes(rec.Forests),
		formatYes(rec.OtherTheme),
		formatDate(rec.CreatedDate),
		rec.CreatedBy,
		formatDate(rec.LastInteractionDate),
		formatDate(rec.NextActionDate),
		rec.Milestone,
		rec.MilestoneStatus,
		rec.EscalationLevel,
		rec.OutcomeStatus,
		rec.InteractionType,
		rec.InteractionSummary,
		formatDate(rec.OutcomeDate),
		rec.LessonsLearned,
		formatInteractions(rec.Interactions),
	}
}

// parseID tolerates float-formatted IDs ("3.0") left behind by
// spreadsheet round-trips. Unparsable IDs become 0.
func parseID(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseTruthy accepts the case-insensitive truthy tokens the original
// exports used for the ESG flags.
func parseTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

func parseYes(s string) bool {
	return strings.EqualFold(s, "y") || parseTruthy(s)
}

// parseDate returns nil for blank or unparsable values; an invalid
// date is data to tolerate, not an error.
func parseDate(s string) *time.Time {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseInteractions decodes the embedded history cell. Missing, empty,
// or malformed JSON degrades to an empty history.
func parseInteractions(s string) []models.Interaction {
	if s == "" || s == "[]" || strings.EqualFold(s, "nan") {
		return []models.Interaction{}
	}
	var list []models.Interaction
	if err := json.Unmarshal([]byte(s), &list); err != nil || list == nil {
		return []models.Interaction{}
	}
	return list
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateFormat)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatYes(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func formatInteractions(list []models.Interaction) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}
