package billing

import (
	"fmt"
	"sort"
	"strings"
)

// Errors is a field-keyed collection of validation messages. All rule
// violations for a payload are collected into one map so the client can fix
// everything in a single round trip.
type Errors map[string]string

// Add records a message for a field. The first message per field wins.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Addf records a formatted message for a field.
func (e Errors) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Merge copies all entries from other; existing fields keep their message.
func (e Errors) Merge(other Errors) {
	for field, msg := range other {
		e.Add(field, msg)
	}
}

// Empty reports whether no violations were recorded.
func (e Errors) Empty() bool { return len(e) == 0 }

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}
