package output_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/safetylens-cli/internal/analysis"
	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/output"
	"github.com/KaramelBytes/safetylens-cli/internal/report"
)

type doc struct {
	Title string `json:"title" yaml:"title"`
}

func (d doc) Markdown() string { return "[DOC]\n" + d.Title + "\n" }

func TestEncodeFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, "md", doc{Title: "x"}))
	assert.Equal(t, "[DOC]\nx\n", buf.String())

	buf.Reset()
	require.NoError(t, output.Encode(&buf, "json", doc{Title: "x"}))
	assert.JSONEq(t, `{"title":"x"}`, buf.String())

	buf.Reset()
	require.NoError(t, output.Encode(&buf, "yml", doc{Title: "x"}))
	var back doc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "x", back.Title)
}

func TestEncodeRejects(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, output.Encode(&buf, "xml", doc{}))
	require.Error(t, output.Encode(&buf, "markdown", struct{}{}))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".md", output.Extension("markdown"))
	assert.Equal(t, ".json", output.Extension("json"))
	assert.Equal(t, ".yaml", output.Extension("yml"))
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	p := output.Paginate(items, 1, 2)
	assert.Equal(t, []int{1, 2}, p.Items)
	assert.Equal(t, 3, p.NextOffset)
	assert.Equal(t, 5, p.Total)

	p = output.Paginate(items, 3, 5)
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Zero(t, p.NextOffset)

	p = output.Paginate(items, 9, 2)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)

	assert.Len(t, output.Paginate(items, 0, 0).Items, 5)
}

func TestListingMarkdown(t *testing.T) {
	incs := []incident.Incident{
		{ID: "a", Type: "PPE", Location: "Dock", ReportedBy: "Cam-1", Detected: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{ID: "b", Type: "Fall", Location: "Yard|North", Detected: time.Date(2024, 3, 6, 11, 0, 0, 0, time.UTC)},
		{ID: "c", Type: "Fall", Location: "Yard"},
	}
	l := output.Listing{Name: "x.csv", Filter: "none", Selected: []string{"b"}, Page: output.Paginate(incs, 0, 2)}
	md := l.Markdown()
	assert.Contains(t, md, "Showing 1-2 of 3")
	assert.Contains(t, md, "- [ ] a | 2024-03-05 10:00 | PPE | Dock | Cam-1")
	assert.Contains(t, md, "- [x] b | 2024-03-06 11:00 | Fall | Yard/North | -")
	assert.Contains(t, md, "More: --offset 2")
}

func TestWriteSeriesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv")
	r := &report.Report{
		Sections: []report.Section{{
			Number:   1,
			Scenario: "Blocked Walkway!",
			ByDay:    []analysis.Point{{Key: "2024-03-12", Label: "Mar 12", Count: 5}},
			Cameras:  []report.Bar{{Label: "Dock, East", Count: 5}},
		}},
		Overall: report.Overall{ByDay: []analysis.Point{{Key: "2024-03-12", Label: "Mar 12", Count: 5}}},
	}
	paths, err := output.WriteSeriesCSV(dir, r)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "section_1_blocked_walkway_per_camera.csv", filepath.Base(paths[2]))

	b, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "\ufeff"), "BOM first")
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(b), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"camera", "observations"}, {"Dock, East", "5"}}, records)
}
