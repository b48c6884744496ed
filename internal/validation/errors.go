package validation

import (
	"sort"
	"strings"
)

// NonFieldErrorsKey groups errors that do not belong to a single field
const NonFieldErrorsKey = "non_field_errors"

// Errors maps a request field to its validation messages. It is written to
// the client as is, e.g. {"weight": ["weight must be between 1 and 899"]}.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Err returns nil when no errors were added, so callers can do
// `return verr.Err()` at the end of a validation func.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Single is a shorthand for one field with one message
func Single(field, message string) Errors {
	return Errors{field: {message}}
}
