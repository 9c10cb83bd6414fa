// ABOUTME: Choice-driven field validation for engagement records
// ABOUTME: Produces per-field message maps, never panics on bad input
package store

import (
	"fmt"
	"strings"

	"github.com/harperreed/engage/models"
)

// requiredChoiceFields must be present and non-blank on every new
// engagement, matching the bulk-import minimum column set.
var requiredChoiceFields = []string{
	models.FieldSector,
	models.FieldRegion,
	models.FieldProgram,
	models.FieldCountry,
}

// Validator checks engagement fields against the configured lookup
// choices.
type Validator struct {
	choices Choices
}

// NewValidator builds a validator over pre-loaded choices.
func NewValidator(choices Choices) *Validator {
	return &Validator{choices: choices}
}

// ValidateField checks one field value against its rule. Fields with
// no configured choices always pass.
func (v *Validator) ValidateField(field, value string) (bool, string) {
	value = strings.TrimSpace(value)

	if isRequiredField(field) && value == "" {
		return false, fmt.Sprintf("%s is required.", fieldTitle(field))
	}
	if value == "" {
		return true, ""
	}

	options := v.choices.Get(field)
	if len(options) > 0 && !containsString(options, value) {
		return false, fmt.Sprintf("Invalid value %q for %s.", value, field)
	}
	return true, ""
}

// validateCreate checks a new engagement record, returning nil when it
// is acceptable.
func (v *Validator) validateCreate(rec *models.Engagement) *ValidationError {
	verr := &ValidationError{}

	if strings.TrimSpace(rec.CompanyName) == "" {
		verr.add("company_name", "Company name is required.")
	}
	if !rec.HasAnyESGFlag() {
		verr.add("esg_flags", "At least one ESG flag (E, S, or G) must be selected.")
	}

	checks := map[string]string{
		models.FieldSector:    rec.Sector,
		models.FieldRegion:    rec.Region,
		models.FieldProgram:   rec.Program,
		models.FieldCountry:   rec.Country,
		models.FieldTheme:     rec.Theme,
		models.FieldObjective: rec.Objective,
	}
	for field, value := range checks {
		if ok, msg := v.ValidateField(field, value); !ok {
			verr.add(field, msg)
		}
	}

	if verr.ok() {
		return nil
	}
	return verr
}

func isRequiredField(field string) bool {
	return containsString(requiredChoiceFields, field)
}

// fieldTitle renders a field name for human display: "gics_sector"
// becomes "Gics Sector".
func fieldTitle(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
