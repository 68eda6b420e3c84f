package schema

// Field is a canonical semantic column.
type Field int

const (
	FieldID Field = iota
	FieldTimestamp
	FieldArea
	FieldSite
	FieldCamera
	FieldCategory
	FieldSeverity
)

// Fields lists every canonical field in resolution order.
var Fields = []Field{FieldID, FieldTimestamp, FieldArea, FieldSite, FieldCamera, FieldCategory, FieldSeverity}

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldTimestamp:
		return "timestamp"
	case FieldArea:
		return "area"
	case FieldSite:
		return "site"
	case FieldCamera:
		return "camera"
	case FieldCategory:
		return "category"
	case FieldSeverity:
		return "severity"
	default:
		return "unknown"
	}
}

// Alias is one known spelling of a field's header.
type Alias struct {
	// Header is the human spelling, used as a flexible-lookup candidate.
	Header string
	// Strict marks the alias as part of the snake_case alias set as well.
	Strict bool
}

// AliasTable maps each field to its aliases in preference order.
type AliasTable map[Field][]Alias

// DefaultAliases is the alias table shared by flexible lookup and strict
// resolution.
var DefaultAliases = AliasTable{
	FieldID: {
		{Header: "ID", Strict: true},
		{Header: "Incident ID", Strict: true},
	},
	FieldTimestamp: {
		{Header: "First Detection", Strict: true},
		{Header: "Created At"},
		{Header: "Timestamp", Strict: true},
		{Header: "Detected At"},
		{Header: "Time", Strict: true},
		{Header: "Datetime", Strict: true},
		{Header: "Date", Strict: true},
	},
	FieldArea: {
		{Header: "Area", Strict: true},
		{Header: "Area Name"},
		{Header: "Site/Location"},
		{Header: "Location", Strict: true},
		{Header: "Site"},
		{Header: "Zone", Strict: true},
		{Header: "Subarea"},
		{Header: "Section"},
	},
	FieldSite: {
		{Header: "Site"},
		{Header: "Project"},
		{Header: "Project Name"},
		{Header: "Site Name"},
		{Header: "Location"},
	},
	FieldCamera: {
		{Header: "Camera Name", Strict: true},
		{Header: "Camera", Strict: true},
		{Header: "Cam"},
		{Header: "Device", Strict: true},
		{Header: "Device Name"},
	},
	FieldCategory: {
		{Header: "Scenario", Strict: true},
		{Header: "Type", Strict: true},
		{Header: "Category", Strict: true},
		{Header: "Incident Type"},
		{Header: "Event Type"},
		{Header: "Event", Strict: true},
		{Header: "Hazard", Strict: true},
		{Header: "Violation Type", Strict: true},
	},
	FieldSeverity: {
		{Header: "Severity", Strict: true},
		{Header: "Level", Strict: true},
	},
}

// Candidates returns the flexible-lookup header candidates for f.
func (t AliasTable) Candidates(f Field) []string {
	out := make([]string, 0, len(t[f]))
	for _, a := range t[f] {
		out = append(out, a.Header)
	}
	return out
}

// StrictAliases returns the normalized alias keys for f, deduplicated, in
// table order.
func (t AliasTable) StrictAliases(f Field) []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range t[f] {
		if !a.Strict {
			continue
		}
		k := NormalizeKey(a.Header)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
