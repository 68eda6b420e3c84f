package incident

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/safetylens-cli/internal/parser"
	"github.com/KaramelBytes/safetylens-cli/internal/schema"
)

// Unknown is the display fallback for a missing type or location.
const Unknown = "Unknown"

// Incident is a canonical detection record. Only rows with a parseable
// timestamp become incidents.
type Incident struct {
	ID       string    `json:"id" yaml:"id"`
	Date     string    `json:"date" yaml:"date"`
	Detected time.Time `json:"detected" yaml:"detected"`
	Type     string    `json:"type" yaml:"type"`
	Location string    `json:"location" yaml:"location"`
	// Description is synthesized from type, location and camera.
	Description string `json:"description" yaml:"description"`
	// ReportedBy is the camera, or "" when the row has none. It is never
	// "Unknown" so camera-less rows stay distinguishable.
	ReportedBy       string `json:"reportedBy,omitempty" yaml:"reportedBy,omitempty"`
	Severity         string `json:"severity,omitempty" yaml:"severity,omitempty"`
	AssignedTo       string `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
	CorrectiveAction string `json:"correctiveAction,omitempty" yaml:"correctiveAction,omitempty"`
	// Row is the 0-based data row the incident came from.
	Row int `json:"row" yaml:"row"`
}

// HasCamera reports whether the source row named a camera.
func (i Incident) HasCamera() bool { return i.ReportedBy != "" }

// Result is the outcome of normalizing one table.
type Result struct {
	Incidents []Incident
	// Dropped lists the row indexes whose timestamp could not be parsed.
	Dropped []int
}

// Normalize builds incidents from every row of tbl using strict alias
// resolution. Rows without a usable timestamp are skipped and recorded in
// Dropped; they never fail the batch.
func Normalize(tbl *parser.Table, loc *time.Location) Result {
	var res Result
	if tbl.Len() == 0 {
		return res
	}
	ids := AssignIDs(tbl)
	for i, row := range tbl.Rows {
		inc, ok := FromRecord(schema.Resolve(row), ids[i], loc)
		if !ok {
			res.Dropped = append(res.Dropped, row.Index)
			continue
		}
		res.Incidents = append(res.Incidents, inc)
	}
	return res
}

// FromRecord maps a resolved record to an Incident. It reports false when
// the timestamp is missing or unparseable.
func FromRecord(rec schema.Record, id string, loc *time.Location) (Incident, bool) {
	if loc == nil {
		loc = time.UTC
	}
	ts, ok := ParseTimestamp(rec.Text(schema.FieldTimestamp), loc)
	if !ok {
		return Incident{}, false
	}
	inc := Incident{
		ID:         id,
		Date:       DateKey(ts),
		Detected:   ts,
		Type:       orUnknown(rec.Text(schema.FieldCategory)),
		Location:   orUnknown(rec.Text(schema.FieldArea)),
		ReportedBy: rec.Text(schema.FieldCamera),
		Severity:   rec.Text(schema.FieldSeverity),
		Row:        rec.Index,
	}
	inc.Description = describe(inc.Type, inc.Location, inc.ReportedBy)
	return inc, true
}

func describe(typ, location, camera string) string {
	s := fmt.Sprintf("%s detected at %s", typ, location)
	if camera != "" {
		s += fmt.Sprintf(" (Camera: %s)", camera)
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// AssignIDs returns one unique id per row of tbl, in row order. A row keeps
// its own id column value when present and not already taken; otherwise it
// gets incident-<rowIndex>.
func AssignIDs(tbl *parser.Table) []string {
	if tbl.Len() == 0 {
		return nil
	}
	ids := make([]string, len(tbl.Rows))
	taken := make(map[string]bool, len(tbl.Rows))
	for i, row := range tbl.Rows {
		id := rawID(row)
		if id == "" || taken[id] {
			id = syntheticID(row.Index, taken)
		}
		taken[id] = true
		ids[i] = id
	}
	return ids
}

func rawID(row parser.Row) string {
	aliases := schema.StrictAliases(schema.FieldID)
	for _, c := range row.Cells {
		key := schema.NormalizeKey(c.Header)
		for _, a := range aliases {
			if key == a {
				if s := c.Value.Text(); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func syntheticID(index int, taken map[string]bool) string {
	id := fmt.Sprintf("incident-%d", index)
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("incident-%d-%d", index, n)
	}
	return id
}
