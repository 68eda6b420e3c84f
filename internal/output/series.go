package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/safetylens-cli/internal/analysis"
	"github.com/KaramelBytes/safetylens-cli/internal/report"
	"github.com/KaramelBytes/safetylens-cli/internal/utils"
)

// Written first so spreadsheet tools pick UTF-8.
const utf8BOM = "\ufeff"

// WriteSeriesCSV writes one CSV per chart series of r into dir and returns
// the paths written, in order.
func WriteSeriesCSV(dir string, r *report.Report) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("mkdir csv dir: %w", err)
	}
	var written []string
	write := func(name string, header []string, records [][]string) error {
		p := filepath.Join(dir, name)
		if err := writeCSV(p, header, records); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	}

	if err := write("overall_per_day.csv", []string{"date", "label", "observations"}, pointRecords(r.Overall.ByDay)); err != nil {
		return written, err
	}
	for _, s := range r.Sections {
		slug := fmt.Sprintf("section_%d_%s", s.Number, slugify(s.Scenario))
		if err := write(slug+"_per_day.csv", []string{"date", "label", "observations"}, pointRecords(s.ByDay)); err != nil {
			return written, err
		}
		cams := make([][]string, len(s.Cameras))
		for i, c := range s.Cameras {
			cams[i] = []string{c.Label, strconv.Itoa(c.Count)}
		}
		if err := write(slug+"_per_camera.csv", []string{"camera", "observations"}, cams); err != nil {
			return written, err
		}
	}
	return written, nil
}

func pointRecords(points []analysis.Point) [][]string {
	out := make([][]string, len(points))
	for i, p := range points {
		out[i] = []string{p.Key, p.Label, strconv.Itoa(p.Count)}
	}
	return out
}

func writeCSV(path string, header []string, records [][]string) error {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "scenario"
	}
	return out
}
