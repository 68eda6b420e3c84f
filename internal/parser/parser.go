package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader turns file contents into a Table.
type Reader interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ParseFile selects a reader based on the filename and parses the file.
// Unknown extensions are read as delimited text.
func ParseFile(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	var t *Table
	for _, r := range registry {
		if r.CanParse(path) {
			t, err = r.Parse(data, opt)
			break
		}
	}
	if t == nil && err == nil {
		t, err = delimitedReader{}.Parse(data, opt)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

type delimitedReader struct{}

func (delimitedReader) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedReader) Parse(content []byte, opt Options) (*Table, error) {
	return ParseBytes("", content, opt)
}

type xlsxReader struct{}

func (xlsxReader) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxReader) Parse(content []byte, opt Options) (*Table, error) {
	return ParseXLSX(content, opt.SheetName, opt.SheetIndex)
}

func init() {
	Register(delimitedReader{})
	Register(xlsxReader{})
}

// ErrUnsupported indicates a workbook layout this reader cannot handle.
var ErrUnsupported = errors.New("unsupported workbook format")
