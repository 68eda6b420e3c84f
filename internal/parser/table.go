package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options controls tokenizing of delimited text.
type Options struct {
	// Delimiter for delimited text. If 0, tries ',', then ';', then '\t'.
	Delimiter rune
	// SheetName and SheetIndex select an XLSX worksheet; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns auto-detection defaults.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Cell is one header/value pair of a row.
type Cell struct {
	Header string
	Value  Value
}

// Row is one data record in header order. Index is the 0-based position of
// the row among data rows after blank lines are skipped.
type Row struct {
	Index int
	Cells []Cell
	// Extra holds fields beyond the header width.
	Extra []string
}

// Get returns the first cell with exactly the given header.
func (r Row) Get(header string) (Value, bool) {
	for _, c := range r.Cells {
		if c.Header == header {
			return c.Value, true
		}
	}
	return Value{}, false
}

// Headers returns the row's headers in column order.
func (r Row) Headers() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Header
	}
	return out
}

// Map flattens the row to header -> re-stringified value.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.Cells))
	for _, c := range r.Cells {
		if _, dup := m[c.Header]; dup {
			continue
		}
		m[c.Header] = c.Value.String()
	}
	return m
}

// Table is the parsed content of one file.
type Table struct {
	Name      string
	Delimiter rune
	Headers   []string
	Rows      []Row
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

var fallbackDelimiters = []rune{',', ';', '\t'}

var wsRun = regexp.MustCompile(`\s+`)

// CleanHeader strips a leading byte-order mark, trims, and collapses inner
// whitespace runs to a single space.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return wsRun.ReplaceAllString(strings.TrimSpace(h), " ")
}

// Parse reads delimited text from r. A result with zero rows is not an error;
// callers check Len.
func Parse(r io.Reader, opt Options) (*Table, error) {
	// BOMOverride drops a UTF-8 BOM and switches to UTF-16 when one is present.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return parseText(data, opt)
}

// ParseBytes is Parse over an in-memory buffer.
func ParseBytes(name string, data []byte, opt Options) (*Table, error) {
	t, err := Parse(bytes.NewReader(data), opt)
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

func parseText(data []byte, opt Options) (*Table, error) {
	if opt.Delimiter != 0 {
		records, err := tokenize(data, opt.Delimiter)
		if err != nil {
			return nil, err
		}
		return buildTable(records, opt.Delimiter), nil
	}
	var first *Table
	for _, d := range fallbackDelimiters {
		records, err := tokenize(data, d)
		if err != nil {
			return nil, err
		}
		t := buildTable(records, d)
		if first == nil {
			first = t
		}
		// A header without the delimiter means nothing was split on it.
		if t.Len() > 0 && len(t.Headers) > 1 {
			return t, nil
		}
	}
	// Single-column file, or no data rows at all.
	return first, nil
}

func tokenize(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var out [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenize with %q: %w", delim, err)
		}
		if blankRecord(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func buildTable(records [][]string, delim rune) *Table {
	values := make([][]Value, len(records))
	for i, rec := range records {
		values[i] = make([]Value, len(rec))
		for j, f := range rec {
			values[i][j] = Infer(f)
		}
	}
	if len(records) > 0 {
		// Headers are names, never coerced.
		for j, h := range records[0] {
			values[0][j] = StringValue(h)
		}
	}
	return buildValueTable(values, delim)
}

// buildValueTable treats the first record as the header row.
func buildValueTable(records [][]Value, delim rune) *Table {
	t := &Table{Delimiter: delim}
	if len(records) == 0 {
		return t
	}
	t.Headers = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Headers[i] = CleanHeader(h.String())
	}
	for i, rec := range records[1:] {
		t.Rows = append(t.Rows, buildRow(i, t.Headers, rec))
	}
	return t
}

func buildRow(idx int, headers []string, rec []Value) Row {
	row := Row{Index: idx, Cells: make([]Cell, len(headers))}
	for j, h := range headers {
		var v Value
		if j < len(rec) {
			v = rec[j]
		}
		row.Cells[j] = Cell{Header: h, Value: v}
	}
	for _, v := range rec[min(len(rec), len(headers)):] {
		row.Extra = append(row.Extra, v.Raw())
	}
	return row
}
