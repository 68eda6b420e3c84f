package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// Workbook parts, decoded by local element name so any namespace prefix works.
type (
	xlWorkbook struct {
		Sheets []xlSheetRef `xml:"sheets>sheet"`
	}
	xlSheetRef struct {
		Name    string `xml:"name,attr"`
		SheetID string `xml:"sheetId,attr"`
		RID     string `xml:"id,attr"`
	}
	xlRelationships struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	xlSharedStrings struct {
		Items []xlText `xml:"si"`
	}
	// xlText is plain <t> text or a sequence of rich-text runs.
	xlText struct {
		T    string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	}
	xlWorksheet struct {
		Rows []struct {
			Cells []xlCell `xml:"c"`
		} `xml:"sheetData>row"`
	}
	xlCell struct {
		Ref    string `xml:"r,attr"`
		Type   string `xml:"t,attr"`
		V      string `xml:"v"`
		Inline xlText `xml:"is"`
	}
)

func (t xlText) String() string {
	if len(t.Runs) == 0 {
		return t.T
	}
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

// workbook is an opened .xlsx package.
type workbook struct {
	zr     *zip.Reader
	sheets []xlSheetRef
	rels   map[string]string
	shared []string
}

// ParseXLSX extracts the selected worksheet of an .xlsx workbook into a Table.
// If sheetName is empty and sheetIndex <= 0, it defaults to the first sheet.
// sheetIndex is 1-based (Sheet1 == 1). Text cells stay text, numeric and
// boolean cells keep their stored type, and blank rows are skipped.
func ParseXLSX(data []byte, sheetName string, sheetIndex int) (*Table, error) {
	wb, err := openWorkbook(data)
	if err != nil {
		return nil, err
	}
	target, err := wb.sheetPath(sheetName, sheetIndex)
	if err != nil {
		return nil, err
	}
	var ws xlWorksheet
	if err := wb.decode(target, &ws); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: worksheet %s not found", ErrUnsupported, target)
		}
		return nil, err
	}

	var records [][]Value
	for _, row := range ws.Rows {
		rec := wb.rowValues(row.Cells)
		if blankValues(rec) {
			continue
		}
		records = append(records, rec)
	}
	return buildValueTable(records, 0), nil
}

func openWorkbook(data []byte) (*workbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	wb := &workbook{zr: zr, rels: map[string]string{}}

	var book xlWorkbook
	if err := wb.decode("xl/workbook.xml", &book); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing xl/workbook.xml", ErrUnsupported)
		}
		return nil, err
	}
	wb.sheets = book.Sheets

	var rels xlRelationships
	if err := wb.decode("xl/_rels/workbook.xml.rels", &rels); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, r := range rels.Items {
		if r.ID != "" && r.Target != "" {
			wb.rels[r.ID] = r.Target
		}
	}

	var sst xlSharedStrings
	if err := wb.decode("xl/sharedStrings.xml", &sst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, si := range sst.Items {
		wb.shared = append(wb.shared, si.String())
	}
	return wb, nil
}

// decode unmarshals one package part. A missing part wraps fs.ErrNotExist.
func (wb *workbook) decode(name string, v any) error {
	f, err := wb.zr.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := xml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// sheetPath picks the worksheet part by name (case-insensitive) or by
// sheetId, falling back to workbook position and then to sheetN.xml.
func (wb *workbook) sheetPath(name string, index int) (string, error) {
	if name != "" {
		for _, s := range wb.sheets {
			if strings.EqualFold(s.Name, name) {
				if rel, ok := wb.rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
				break
			}
		}
		names := make([]string, len(wb.sheets))
		for i, s := range wb.sheets {
			names[i] = s.Name
		}
		return "", fmt.Errorf("sheet '%s' not found. Available sheets: %s", name, strings.Join(names, ", "))
	}
	if index <= 0 {
		index = 1
	}
	id := strconv.Itoa(index)
	for _, s := range wb.sheets {
		if s.SheetID == id {
			if rel, ok := wb.rels[s.RID]; ok {
				return normalizeRelPath(rel), nil
			}
		}
	}
	if index <= len(wb.sheets) {
		if rel, ok := wb.rels[wb.sheets[index-1].RID]; ok {
			return normalizeRelPath(rel), nil
		}
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", index), nil
}

// rowValues places cells by their A1 column; cells without a reference
// follow the previous one.
func (wb *workbook) rowValues(cells []xlCell) []Value {
	var rec []Value
	next := 0
	for _, c := range cells {
		col := colIndexFromRef(c.Ref)
		if col < 0 {
			col = next
		}
		next = col + 1
		for len(rec) <= col {
			rec = append(rec, Value{})
		}
		rec[col] = wb.cellValue(c)
	}
	return rec
}

func (wb *workbook) cellValue(c xlCell) Value {
	switch c.Type {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || i < 0 || i >= len(wb.shared) {
			return Value{}
		}
		return StringValue(wb.shared[i])
	case "inlineStr":
		return StringValue(c.Inline.String())
	case "str", "e":
		return StringValue(c.V)
	case "b":
		on := strings.TrimSpace(c.V) == "1"
		return Value{kind: KindBool, raw: strings.ToUpper(strconv.FormatBool(on)), b: on}
	}
	if c.V == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(c.V, 64); err == nil {
		return Value{kind: KindNumber, raw: c.V, num: f}
	}
	return Infer(c.V)
}

func blankValues(rec []Value) bool {
	for _, v := range rec {
		if v.Text() != "" {
			return false
		}
	}
	return true
}

// colIndexFromRef maps refs like "C12" to a 0-based column, or -1 when absent.
func colIndexFromRef(ref string) int {
	col := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A') + 1
	}
	return col - 1
}

// normalizeRelPath turns a relationship target into a ZIP entry name. Targets
// are relative to xl/ or absolute with a leading slash.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
