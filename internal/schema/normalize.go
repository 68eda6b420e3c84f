package schema

import (
	"regexp"
	"strings"

	"github.com/KaramelBytes/safetylens-cli/internal/parser"
)

var keySeparators = regexp.MustCompile(`[\s-]+`)

// NormalizeKey lowercases and trims a header and replaces runs of
// whitespace or hyphens with a single underscore.
func NormalizeKey(h string) string {
	return keySeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// StrictAliases returns the normalized alias set for f from DefaultAliases.
func StrictAliases(f Field) []string {
	return DefaultAliases.StrictAliases(f)
}

// FindKey returns the position of the first normalized key, in column order,
// that equals or contains one of f's aliases. IDs match by equality only.
func FindKey(keys []string, f Field) (int, bool) {
	aliases := StrictAliases(f)
	for i, k := range keys {
		for _, a := range aliases {
			if k == a || (f != FieldID && strings.Contains(k, a)) {
				return i, true
			}
		}
	}
	return -1, false
}

// Record is a row resolved onto canonical fields.
type Record struct {
	Index int
	// Fields holds the value of every field whose column was found, even
	// when that value is empty.
	Fields map[Field]parser.Value
	// Keys holds the normalized header each field resolved to.
	Keys map[Field]string
	// Extra is the untouched source row, for columns with no canonical field.
	Extra parser.Row
}

// Resolve runs the strict alias pass over a row.
func Resolve(row parser.Row) Record {
	keys := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		keys[i] = NormalizeKey(c.Header)
	}
	rec := Record{
		Index:  row.Index,
		Fields: make(map[Field]parser.Value, len(Fields)),
		Keys:   make(map[Field]string, len(Fields)),
		Extra:  row,
	}
	for _, f := range Fields {
		// Site is a report-only field and has no strict aliases.
		i, ok := FindKey(keys, f)
		if !ok {
			continue
		}
		rec.Fields[f] = row.Cells[i].Value
		rec.Keys[f] = keys[i]
	}
	return rec
}

// Has reports whether f resolved to a column.
func (r Record) Has(f Field) bool {
	_, ok := r.Fields[f]
	return ok
}

// Get returns the value for f, or a null value.
func (r Record) Get(f Field) parser.Value {
	return r.Fields[f]
}

// Text returns the trimmed string for f, or "".
func (r Record) Text(f Field) string {
	return r.Fields[f].Text()
}
