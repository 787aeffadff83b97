// Package export writes dashboard data out as CSV, JSON, a PDF report, or a
// batch of files driven by a YAML plan.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"time"
)

// Format selects the output encoding for tabular exports.
type Format string

// Supported tabular formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Valid reports whether the format is one this package can write.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatJSON
}

var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds "prefix_group_YYYY-MM-DD" with the group name sanitized to
// [a-zA-Z0-9_] and capped at 30 characters. An empty group name becomes "all".
func Filename(prefix, groupName string, now time.Time) string {
	group := filenameSafe.ReplaceAllString(groupName, "_")
	if len(group) > 30 {
		group = group[:30]
	}
	if group == "" {
		group = "all"
	}
	return fmt.Sprintf("%s_%s_%s", prefix, group, now.UTC().Format("2006-01-02"))
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
