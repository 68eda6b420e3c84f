package incident

import (
	"time"

	"github.com/KaramelBytes/safetylens-cli/internal/parser"
	"github.com/KaramelBytes/safetylens-cli/internal/schema"
)

// ReportRow is the lenient view of a raw row used for report statistics.
// It does not require a timestamp.
type ReportRow struct {
	Index int    `json:"index" yaml:"index"`
	ID    string `json:"id" yaml:"id"`
	// Area and Site are "" when the row has no such column value.
	Area string `json:"area,omitempty" yaml:"area,omitempty"`
	Site string `json:"site,omitempty" yaml:"site,omitempty"`
	// Camera is "Unknown" when missing; HasCamera tells the two apart.
	Camera    string `json:"camera" yaml:"camera"`
	HasCamera bool   `json:"hasCamera" yaml:"hasCamera"`
	Scenario  string `json:"scenario" yaml:"scenario"`
	Severity  string `json:"severity,omitempty" yaml:"severity,omitempty"`
	// Detected is zero unless HasDetected.
	Detected    time.Time `json:"detected" yaml:"detected,omitempty"`
	HasDetected bool      `json:"hasDetected" yaml:"hasDetected"`
}

// Date returns the calendar date of the detection, or "" when undated.
func (r ReportRow) Date() string {
	if !r.HasDetected {
		return ""
	}
	return DateKey(r.Detected)
}

// ReportRows maps every row of tbl through flexible header lookup.
func ReportRows(tbl *parser.Table, loc *time.Location) []ReportRow {
	if tbl.Len() == 0 {
		return nil
	}
	ids := AssignIDs(tbl)
	out := make([]ReportRow, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out[i] = FromRow(row, ids[i], loc)
	}
	return out
}

// FromRow maps one raw row to a ReportRow.
func FromRow(row parser.Row, id string, loc *time.Location) ReportRow {
	if loc == nil {
		loc = time.UTC
	}
	rr := ReportRow{Index: row.Index, ID: id}
	rr.Area, _ = schema.LookupField(row, schema.FieldArea)
	if site, ok := schema.LookupField(row, schema.FieldSite); ok {
		rr.Site = site
	} else {
		rr.Site = rr.Area
	}
	if cam, ok := schema.LookupField(row, schema.FieldCamera); ok {
		rr.Camera, rr.HasCamera = cam, true
	} else {
		rr.Camera = Unknown
	}
	scenario, _ := schema.LookupField(row, schema.FieldCategory)
	rr.Scenario = orUnknown(scenario)
	rr.Severity, _ = schema.LookupField(row, schema.FieldSeverity)
	if raw, ok := schema.LookupField(row, schema.FieldTimestamp); ok {
		rr.Detected, rr.HasDetected = ParseTimestamp(raw, loc)
	}
	return rr
}
