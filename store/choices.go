// ABOUTME: Lookup-choices source backed by a JSON file
// ABOUTME: Maps field names to ordered lists of permitted values
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Choices maps a field name to its ordered list of permitted display
// values. It is read-only from the pipeline's perspective.
type Choices map[string][]string

// loadChoices reads the lookup JSON. A missing file yields an empty
// map; values are filtered to non-empty strings.
func loadChoices(path string) (Choices, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Choices{}, nil
		}
		return nil, err
	}

	var raw map[string][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	choices := make(Choices, len(raw))
	for field, values := range raw {
		var list []string
		for _, v := range values {
			if v == nil {
				continue
			}
			// Lookup files edited by hand sometimes carry numbers.
			if s := fmt.Sprint(v); s != "" {
				list = append(list, s)
			}
		}
		choices[field] = list
	}
	return choices, nil
}

// Get returns the permitted values for a field, preserving configured
// order. Unknown fields yield an empty list, never an error.
func (c Choices) Get(field string) []string {
	return c[field]
}

// Fields lists every configured field name, sorted.
func (c Choices) Fields() []string {
	fields := make([]string, 0, len(c))
	for field := range c {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
