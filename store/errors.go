// ABOUTME: Error taxonomy for the record store
// ABOUTME: Distinguishes validation, not-found, and persistence failures
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound reports a referenced engagement ID that does not exist.
var ErrNotFound = errors.New("engagement not found")

// ValidationError carries per-field messages for user-correctable
// input problems. No write happens when one is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}

// PersistError reports a failed write to the underlying CSV. The
// in-memory record set is unchanged when one is returned.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to write %s (check the file is not open elsewhere and the directory is writable): %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
