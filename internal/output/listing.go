package output

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
)

// Page is one window of a row-ordered list.
type Page[T any] struct {
	Offset int `json:"offset" yaml:"offset"`
	Limit  int `json:"limit" yaml:"limit"`
	Total  int `json:"total" yaml:"total"`
	Items  []T `json:"items" yaml:"items"`
	// NextOffset is 0 when this is the last page.
	NextOffset int `json:"nextOffset,omitempty" yaml:"nextOffset,omitempty"`
}

// Paginate returns items[offset:offset+limit]. A limit <= 0 means the rest.
// Offsets past the end yield an empty page.
func Paginate[T any](items []T, offset, limit int) Page[T] {
	if offset < 0 {
		offset = 0
	}
	p := Page[T]{Offset: offset, Limit: limit, Total: len(items), Items: []T{}}
	if offset >= len(items) {
		return p
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
		p.NextOffset = end
	}
	p.Items = append(p.Items, items[offset:end]...)
	return p
}

// Listing is a page of incidents with its context.
type Listing struct {
	Name     string                  `json:"name" yaml:"name"`
	Filter   string                  `json:"filter" yaml:"filter"`
	Selected []string                `json:"selected,omitempty" yaml:"selected,omitempty"`
	Page     Page[incident.Incident] `json:"page" yaml:"page"`
}

// Markdown renders the listing, one incident per line.
func (l *Listing) Markdown() string {
	var b strings.Builder
	b.WriteString("[INCIDENTS]\n")
	if l.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", l.Name))
	}
	b.WriteString(fmt.Sprintf("Filter: %s\n", l.Filter))
	shown := len(l.Page.Items)
	if shown == 0 {
		b.WriteString(fmt.Sprintf("Showing 0 of %d\n", l.Page.Total))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Showing %d-%d of %d\n", l.Page.Offset+1, l.Page.Offset+shown, l.Page.Total))
	sel := make(map[string]bool, len(l.Selected))
	for _, id := range l.Selected {
		sel[id] = true
	}
	for _, inc := range l.Page.Items {
		mark := " "
		if sel[inc.ID] {
			mark = "x"
		}
		cam := inc.ReportedBy
		if cam == "" {
			cam = "-"
		}
		b.WriteString(fmt.Sprintf("- [%s] %s | %s | %s | %s | %s\n", mark, inc.ID, inc.Detected.Format("2006-01-02 15:04"),
			flat(inc.Type), flat(inc.Location), flat(cam)))
	}
	if l.Page.NextOffset > 0 {
		b.WriteString(fmt.Sprintf("More: --offset %d\n", l.Page.NextOffset))
	}
	return b.String()
}

func flat(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
