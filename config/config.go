// ABOUTME: Application configuration and deployment vocabularies
// ABOUTME: Loads JSON config from the XDG data dir with env overrides
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name for the XDG data directory.
	AppName = "engage"

	// ConfigFileName is where deployment overrides live.
	ConfigFileName = "config.json"

	// EngagementsFileName is the canonical record store CSV.
	EngagementsFileName = "engagements.csv"

	// ChoicesFileName is the lookup-choices JSON.
	ChoicesFileName = "configchoice.json"
)

// Vocabulary is an injected set of milestone/outcome labels. Membership
// checks are case-insensitive because the label sets drift between
// deployments ("Complete" vs "complete" vs "Engagement Complete").
type Vocabulary []string

// Contains reports whether label is in the vocabulary, ignoring case.
func (v Vocabulary) Contains(label string) bool {
	for _, item := range v {
		if strings.EqualFold(item, label) {
			return true
		}
	}
	return false
}

// Config holds tunable thresholds and the deployment vocabularies that
// drive derived fields and analytics.
type Config struct {
	// DataDir holds the engagements CSV and choices JSON.
	DataDir string `json:"data_dir,omitempty"`

	// UrgentDays is the days-to-next-action threshold for the urgent flag.
	UrgentDays int `json:"urgent_days,omitempty"`

	// WarningDays bounds the "this week" task bucket.
	WarningDays int `json:"warning_days,omitempty"`

	// UpcomingDays bounds the upcoming-window filter and task list.
	UpcomingDays int `json:"upcoming_days,omitempty"`

	// CacheTTL is the record store read-cache staleness window.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// CompleteMilestones marks an engagement as complete for derivation.
	CompleteMilestones Vocabulary `json:"complete_milestones,omitempty"`

	// SuccessMilestones counts toward the dashboard success rate.
	SuccessMilestones Vocabulary `json:"success_milestones,omitempty"`

	// FailedMilestones counts toward the fail rate.
	FailedMilestones Vocabulary `json:"failed_milestones,omitempty"`

	// InactiveMilestones are excluded from the active-engagement count.
	InactiveMilestones Vocabulary `json:"inactive_milestones,omitempty"`

	// DensifyTrend synthesizes zero-count months in the monthly trend.
	DensifyTrend bool `json:"densify_trend,omitempty"`
}

// Default returns the configuration matching the production deployment.
func Default() *Config {
	return &Config{
		DataDir:      filepath.Join(xdg.DataHome, AppName),
		UrgentDays:   3,
		WarningDays:  7,
		UpcomingDays: 30,
		CacheTTL:     5 * time.Minute,
		CompleteMilestones: Vocabulary{
			"Complete", "Success", "Full Disclosure", "Partial Disclosure", "Verified",
		},
		SuccessMilestones: Vocabulary{
			"Success", "Full Disclosure", "Partial Disclosure", "Verified",
		},
		FailedMilestones: Vocabulary{"Cancelled"},
		InactiveMilestones: Vocabulary{
			"Not Started", "Verified", "Success", "Cancelled",
		},
	}
}

// Load reads config.json from the data dir if present, then applies
// ENGAGE_* environment overrides. A missing file yields defaults.
func Load() (*Config, error) {
	cfg := Default()

	if dir := os.Getenv("ENGAGE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, ConfigFileName))
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("ENGAGE_URGENT_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.UrgentDays = n
		}
	}
	if v := os.Getenv("ENGAGE_UPCOMING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UpcomingDays = n
		}
	}

	return cfg, nil
}

// EngagementsPath is the full path to the record store CSV.
func (c *Config) EngagementsPath() string {
	return filepath.Join(c.DataDir, EngagementsFileName)
}

// ChoicesPath is the full path to the lookup-choices JSON.
func (c *Config) ChoicesPath() string {
	return filepath.Join(c.DataDir, ChoicesFileName)
}
