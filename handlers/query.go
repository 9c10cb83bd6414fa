// ABOUTME: Read-only MCP tool handlers for analytics and tasks
// ABOUTME: Exposes portfolio analytics, upcoming tasks, and field vocabularies
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

type QueryHandlers struct {
	store *store.Store
	cfg   *config.Config
}

func NewQueryHandlers(s *store.Store, cfg *config.Config) *QueryHandlers {
	return &QueryHandlers{store: s, cfg: cfg}
}

type GetAnalyticsInput struct {
	Regions  []string `json:"regions,omitempty" jsonschema:"Restrict analytics to these regions"`
	Sectors  []string `json:"sectors,omitempty" jsonschema:"Restrict analytics to these GICS sectors"`
	Programs []string `json:"programs,omitempty" jsonschema:"Restrict analytics to these programs"`
}

type GetAnalyticsOutput struct {
	Total          int                   `json:"total"`
	Active         int                   `json:"active"`
	NotStarted     int                   `json:"not_started"`
	Completed      int                   `json:"completed"`
	Failed         int                   `json:"failed"`
	SuccessRate    int                   `json:"success_rate"`
	CompletionRate int                   `json:"completion_rate"`
	FailRate       int                   `json:"fail_rate"`
	Environmental  int                   `json:"environmental"`
	Social         int                   `json:"social"`
	Governance     int                   `json:"governance"`
	Milestones     []pipeline.LabelCount `json:"milestones"`
	Sectors        []SectorOutput        `json:"sectors"`
	Trend          []TrendOutput         `json:"trend"`
	Themes         []ThemeOutput         `json:"themes"`
}

type SectorOutput struct {
	Sector      string  `json:"gics_sector"`
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	SuccessRate float64 `json:"success_rate"`
}

type TrendOutput struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type ThemeOutput struct {
	Theme   string `json:"theme"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

func (h *QueryHandlers) GetAnalytics(_ context.Context, request *mcp.CallToolRequest, input GetAnalyticsInput) (*mcp.CallToolResult, GetAnalyticsOutput, error) {
	records, _, err := h.store.Load()
	if err != nil {
		return nil, GetAnalyticsOutput{}, fmt.Errorf("failed to load engagements: %w", err)
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, pipeline.DeriveConfig{
		UrgentDays: h.cfg.UrgentDays,
		Complete:   h.cfg.CompleteMilestones,
	})
	filtered := pipeline.Filter(derived, pipeline.FilterSpec{
		Regions:  input.Regions,
		Sectors:  input.Sectors,
		Programs: input.Programs,
	}, now)

	stats := pipeline.Analyze(filtered, pipeline.AnalyticsConfig{
		Success:      h.cfg.SuccessMilestones,
		Complete:     h.cfg.CompleteMilestones,
		Failed:       h.cfg.FailedMilestones,
		Inactive:     h.cfg.InactiveMilestones,
		DensifyTrend: h.cfg.DensifyTrend,
	})

	out := GetAnalyticsOutput{
		Total:          stats.Total,
		Active:         stats.Active,
		NotStarted:     stats.NotStarted,
		Completed:      stats.Completed,
		Failed:         stats.Failed,
		SuccessRate:    stats.SuccessRate,
		CompletionRate: stats.CompletionRate,
		FailRate:       stats.FailRate,
		Environmental:  stats.ESG.Environmental,
		Social:         stats.ESG.Social,
		Governance:     stats.ESG.Governance,
		Milestones:     stats.Milestones,
	}
	for _, s := range stats.Sectors {
		out.Sectors = append(out.Sectors, SectorOutput{
			Sector:      s.Sector,
			Total:       s.Total,
			Completed:   s.Completed,
			SuccessRate: s.SuccessRate,
		})
	}
	for _, m := range stats.Trend {
		out.Trend = append(out.Trend, TrendOutput{Month: m.Month.Format("2006-01"), Count: m.NewEngagements})
	}
	for _, t := range stats.Themes {
		out.Themes = append(out.Themes, ThemeOutput{Theme: t.Theme, Count: t.Count, Percent: t.Share})
	}
	return nil, out, nil
}

type UpcomingTasksInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window in days for upcoming actions, default 30"`
}

type UpcomingTasksOutput struct {
	Urgent   []EngagementOutput `json:"urgent"`
	Warning  []EngagementOutput `json:"warning"`
	Upcoming []EngagementOutput `json:"upcoming"`
}

func (h *QueryHandlers) UpcomingTasks(_ context.Context, request *mcp.CallToolRequest, input UpcomingTasksInput) (*mcp.CallToolResult, UpcomingTasksOutput, error) {
	records, _, err := h.store.Load()
	if err != nil {
		return nil, UpcomingTasksOutput{}, fmt.Errorf("failed to load engagements: %w", err)
	}

	days := input.Days
	if days <= 0 {
		days = h.cfg.UpcomingDays
	}

	now := time.Now()
	derived := pipeline.Derive(records, now, pipeline.DeriveConfig{
		UrgentDays: h.cfg.UrgentDays,
		Complete:   h.cfg.CompleteMilestones,
	})
	tasks := pipeline.UpcomingTasks(derived, now, pipeline.TaskConfig{
		UrgentDays:   h.cfg.UrgentDays,
		WarningDays:  h.cfg.WarningDays,
		UpcomingDays: days,
	})

	return nil, UpcomingTasksOutput{
		Urgent:   toOutputs(tasks.Urgent),
		Warning:  toOutputs(tasks.Warning),
		Upcoming: toOutputs(tasks.Upcoming),
	}, nil
}

type ListChoicesInput struct {
	Field string `json:"field,omitempty" jsonschema:"Return choices for this field only"`
}

type ListChoicesOutput struct {
	Choices map[string][]string `json:"choices"`
}

func (h *QueryHandlers) ListChoices(_ context.Context, request *mcp.CallToolRequest, input ListChoicesInput) (*mcp.CallToolResult, ListChoicesOutput, error) {
	_, choices, err := h.store.Load()
	if err != nil {
		return nil, ListChoicesOutput{}, fmt.Errorf("failed to load choices: %w", err)
	}

	if input.Field != "" {
		return nil, ListChoicesOutput{
			Choices: map[string][]string{input.Field: choices.Get(input.Field)},
		}, nil
	}

	out := make(map[string][]string, len(choices))
	for _, field := range choices.Fields() {
		out[field] = choices.Get(field)
	}
	return nil, ListChoicesOutput{Choices: out}, nil
}

func toOutputs(records []pipeline.Engagement) []EngagementOutput {
	out := make([]EngagementOutput, len(records))
	for i := range records {
		out[i] = engagementToOutput(&records[i].Engagement, &records[i])
	}
	return out
}
