package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
)

// DateRange bounds incident dates inclusively. Bounds are YYYY-MM-DD; an
// empty or invalid bound leaves that side open.
type DateRange struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// Filter is the set of user-chosen predicates. The zero value matches all.
type Filter struct {
	// Site matches as a case-insensitive substring of the location.
	Site string `json:"site,omitempty" yaml:"site,omitempty"`
	// Type matches the incident type exactly.
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty" yaml:"dateRange,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Site == "" && f.Type == "" && (f.DateRange == nil || (validDate(f.DateRange.Start) == "" && validDate(f.DateRange.End) == ""))
}

// Match reports whether one incident passes every predicate.
func (f Filter) Match(inc incident.Incident) bool {
	if f.Site != "" && !strings.Contains(strings.ToLower(inc.Location), strings.ToLower(f.Site)) {
		return false
	}
	if f.Type != "" && inc.Type != f.Type {
		return false
	}
	if f.DateRange != nil {
		// ISO dates compare correctly as strings.
		if start := validDate(f.DateRange.Start); start != "" && inc.Date < start {
			return false
		}
		if end := validDate(f.DateRange.End); end != "" && inc.Date > end {
			return false
		}
	}
	return true
}

// Apply returns the incidents that match f, in their original order.
func Apply(incidents []incident.Incident, f Filter) []incident.Incident {
	if f.IsZero() {
		return append([]incident.Incident(nil), incidents...)
	}
	return lo.Filter(incidents, func(inc incident.Incident, _ int) bool {
		return f.Match(inc)
	})
}

// Describe renders the active predicates for report headers.
func (f Filter) Describe() string {
	if f.IsZero() {
		return "none"
	}
	var parts []string
	if f.Site != "" {
		parts = append(parts, fmt.Sprintf("site~%q", f.Site))
	}
	if f.Type != "" {
		parts = append(parts, fmt.Sprintf("type=%q", f.Type))
	}
	if f.DateRange != nil {
		start, end := validDate(f.DateRange.Start), validDate(f.DateRange.End)
		if start != "" || end != "" {
			parts = append(parts, fmt.Sprintf("date=%s..%s", lo.Ternary(start == "", "*", start), lo.Ternary(end == "", "*", end)))
		}
	}
	return strings.Join(parts, ", ")
}

func validDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
