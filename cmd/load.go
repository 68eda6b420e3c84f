package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/filter"
	"github.com/KaramelBytes/safetylens-cli/internal/output"
	"github.com/KaramelBytes/safetylens-cli/internal/parser"
	"github.com/KaramelBytes/safetylens-cli/internal/report"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
	"github.com/KaramelBytes/safetylens-cli/internal/utils"
	"github.com/KaramelBytes/safetylens-cli/internal/weekcmp"
)

// sheetFlags pick the worksheet of an XLSX input.
type sheetFlags struct {
	name  string
	index int
}

func (f *sheetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "sheet-name", "", "XLSX: sheet name to read (overrides --sheet-index)")
	cmd.Flags().IntVar(&f.index, "sheet-index", 1, "XLSX: 1-based sheet index")
}

// viewFlags are the filter, selection and output flags shared by the
// dashboard, incidents and report commands.
type viewFlags struct {
	sheet            sheetFlags
	site             string
	typ              string
	from             string
	to               string
	selectIDs        []string
	selectAllVisible bool
	format           string
	output           string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	f.sheet.register(cmd)
	cmd.Flags().StringVar(&f.site, "site", "", "filter: case-insensitive substring of the location")
	cmd.Flags().StringVar(&f.typ, "type", "", "filter: exact incident type")
	cmd.Flags().StringVar(&f.from, "from", "", "filter: first date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "filter: last date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringSliceVar(&f.selectIDs, "select", nil, "select incidents by id (comma-separated)")
	cmd.Flags().BoolVar(&f.selectAllVisible, "select-all-visible", false, "select every incident that passes the filter")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: markdown|json|yaml (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
}

func (f *viewFlags) filter() (filter.Filter, error) {
	flt := filter.Filter{Site: f.site, Type: f.typ}
	for _, d := range []string{f.from, f.to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return flt, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", d)
		}
	}
	if f.from != "" || f.to != "" {
		flt.DateRange = &filter.DateRange{Start: f.from, End: f.to}
	}
	return flt, nil
}

// apply sets the filter and then the selection on s.
func (f *viewFlags) apply(s *session.State) error {
	flt, err := f.filter()
	if err != nil {
		return err
	}
	s.SetFilter(flt)
	// select-all-visible replaces the selection, so explicit ids go on top.
	if f.selectAllVisible {
		if _, err := s.SelectAllVisible(); err != nil {
			return err
		}
	}
	if len(f.selectIDs) > 0 {
		if err := s.Select(f.selectIDs...); err != nil {
			return err
		}
	}
	return nil
}

// openSession parses path and loads it into a fresh session. An empty file
// yields session.ErrEmptyDataset.
func openSession(path string, sheet sheetFlags) (*session.State, error) {
	c := settings()
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	s := session.New(loc, log)
	if err := reload(s, path, sheet); err != nil {
		return nil, err
	}
	return s, nil
}

// reload parses path into s, resetting filter and selection.
func reload(s *session.State, path string, sheet sheetFlags) error {
	delim, err := settings().DelimiterRune()
	if err != nil {
		return err
	}
	opt := parser.DefaultOptions()
	opt.Delimiter = delim
	opt.SheetName = sheet.name
	if sheet.index > 0 {
		opt.SheetIndex = sheet.index
	}
	tbl, err := parser.ParseFile(path, opt)
	if err != nil {
		return err
	}
	ds, err := s.Load(tbl)
	if err != nil {
		return err
	}
	if ds.Dropped > 0 {
		log.Warn("session.dropped", "name", ds.Name, "rows", ds.Dropped)
	}
	return nil
}

// isEmpty prints the empty-file warning when err says the file had no rows.
func isEmpty(err error, path string) bool {
	if !errors.Is(err, session.ErrEmptyDataset) {
		return false
	}
	fmt.Printf("⚠ Parsed 0 rows from %s\n", path)
	return true
}

func reportOptions(now time.Time) report.Options {
	c := settings()
	loc, _ := c.Location()
	return report.Options{
		Now:        now,
		Location:   loc,
		TopN:       c.TopN,
		CameraBars: c.CameraBars,
		Sections:   c.ReportSections,
		Gate:       weekcmp.Gate{MinCount: c.WeekMinCount, MinPercent: c.WeekMinPercent},
	}
}

// parseNow reads --now as RFC3339 or YYYY-MM-DD in the configured timezone.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	loc, err := settings().Location()
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

// emit renders v in format to outPath, or stdout when outPath is empty.
func emit(format, outPath string, v any, what string) error {
	if format == "" {
		format = settings().DefaultFormat
	}
	if outPath == "" {
		return output.Encode(os.Stdout, format, v)
	}
	var buf bytes.Buffer
	if err := output.Encode(&buf, format, v); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Wrote %s to %s\n", what, outPath)
	return nil
}

func reportScope(snap session.Snapshot) string {
	if snap.HasSelection() {
		return fmt.Sprintf("%d selected incidents of %d rows", len(snap.SelectedRows), snap.Rows)
	}
	return fmt.Sprintf("all %d rows", snap.Rows)
}
