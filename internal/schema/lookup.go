package schema

import (
	"strings"
	"unicode"

	"github.com/KaramelBytes/safetylens-cli/internal/parser"
)

// Lookup returns the first non-empty value among candidates, most preferred
// first. Each candidate is tried as an exact header, then against every
// header with case and whitespace ignored.
func Lookup(row parser.Row, candidates ...string) (string, bool) {
	for _, cand := range candidates {
		if v, ok := row.Get(cand); ok {
			if s := v.Text(); s != "" {
				return s, true
			}
		}
		want := foldHeader(cand)
		for _, c := range row.Cells {
			if c.Header == cand || foldHeader(c.Header) != want {
				continue
			}
			if s := c.Value.Text(); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// LookupField runs Lookup over the default candidates for f.
func LookupField(row parser.Row, f Field) (string, bool) {
	return Lookup(row, DefaultAliases.Candidates(f)...)
}

func foldHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}
