package report

import (
	"github.com/samber/lo"

	"github.com/KaramelBytes/safetylens-cli/internal/analysis"
	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/weekcmp"
)

const reportLabelLen = 12

// Header is the report headline over every row.
type Header struct {
	Generated         string           `json:"generated" yaml:"generated"`
	TotalObservations int              `json:"totalObservations" yaml:"totalObservations"`
	TotalDays         int              `json:"totalDays" yaml:"totalDays"`
	TopCamera         *analysis.Bucket `json:"topCamera,omitempty" yaml:"topCamera,omitempty"`
	MostCommon        *analysis.Bucket `json:"mostCommon,omitempty" yaml:"mostCommon,omitempty"`
	TopArea           *analysis.Bucket `json:"topArea,omitempty" yaml:"topArea,omitempty"`
}

// Insights are the top driver lists. Missing values and "Unknown" are left out.
type Insights struct {
	Areas     []analysis.Bucket `json:"areas" yaml:"areas"`
	Cameras   []analysis.Bucket `json:"cameras" yaml:"cameras"`
	Scenarios []analysis.Bucket `json:"scenarios" yaml:"scenarios"`
}

// Section is the breakdown of one top scenario.
type Section struct {
	Number    int               `json:"number" yaml:"number"`
	Scenario  string            `json:"scenario" yaml:"scenario"`
	Total     int               `json:"total" yaml:"total"`
	AvgPerDay float64           `json:"avgPerDay" yaml:"avgPerDay"`
	ByDay     []analysis.Point  `json:"byDay" yaml:"byDay"`
	Areas     []analysis.Bucket `json:"areas" yaml:"areas"`
	TopArea   *analysis.Bucket  `json:"topArea,omitempty" yaml:"topArea,omitempty"`
	TopCamera *analysis.Bucket  `json:"topCamera,omitempty" yaml:"topCamera,omitempty"`
	Cameras   []Bar             `json:"cameras" yaml:"cameras"`
	// WeekOverWeek is set only when the comparison passes the gate.
	WeekOverWeek *weekcmp.Result `json:"weekOverWeek,omitempty" yaml:"weekOverWeek,omitempty"`
}

// Obstruction summarizes rows whose scenario reads as an obstruction.
type Obstruction struct {
	Total     int               `json:"total" yaml:"total"`
	Scenarios []analysis.Bucket `json:"scenarios" yaml:"scenarios"`
	TopArea   *analysis.Bucket  `json:"topArea,omitempty" yaml:"topArea,omitempty"`
	TopCamera *analysis.Bucket  `json:"topCamera,omitempty" yaml:"topCamera,omitempty"`
}

// Overall is the closing summary over every dated row.
type Overall struct {
	Total       int              `json:"total" yaml:"total"`
	DaysCovered int              `json:"daysCovered" yaml:"daysCovered"`
	AvgPerDay   float64          `json:"avgPerDay" yaml:"avgPerDay"`
	ByDay       []analysis.Point `json:"byDay" yaml:"byDay"`
}

// Report is the weekly safety report.
type Report struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	// Scope says which rows the report covers.
	Scope       string      `json:"scope,omitempty" yaml:"scope,omitempty"`
	Header      Header      `json:"header" yaml:"header"`
	Insights    Insights    `json:"insights" yaml:"insights"`
	Sections    []Section   `json:"sections" yaml:"sections"`
	Obstruction Obstruction `json:"obstruction" yaml:"obstruction"`
	Overall     Overall     `json:"overall" yaml:"overall"`
}

// BuildReport composes the report from report rows, which need not carry a
// timestamp. Pass the selected rows, or every row when nothing is selected.
func BuildReport(rows []incident.ReportRow, opts Options) Report {
	opts = opts.normalized()

	areas := analysis.Count(rows, rowArea)
	cameras := analysis.CountFolded(rows, rowCamera).Without(incident.Unknown)
	scenarios := analysis.Count(rows, rowScenario).Without(incident.Unknown)
	perDay := analysis.DailySeries(rows, incident.ReportRow.Date)

	r := Report{
		Header: Header{
			Generated:         opts.Now.Format("Jan 2, 2006"),
			TotalObservations: len(rows),
			TotalDays:         len(perDay),
			TopCamera:         leader(cameras),
			MostCommon:        leader(scenarios),
			TopArea:           leader(areas),
		},
		Insights: Insights{
			Areas:     areas.Top(opts.TopN),
			Cameras:   cameras.Top(opts.TopN),
			Scenarios: scenarios.Top(opts.TopN),
		},
	}

	for i, b := range scenarios.Top(opts.Sections) {
		r.Sections = append(r.Sections, buildSection(i+1, b.Key, rows, len(perDay), opts))
	}
	r.Obstruction = buildObstruction(rows)

	r.Overall = Overall{Total: len(rows), DaysCovered: len(perDay), ByDay: perDay}
	if len(perDay) > 0 {
		r.Overall.AvgPerDay = float64(len(rows)) / float64(len(perDay))
	}
	return r
}

func buildSection(n int, scenario string, rows []incident.ReportRow, reportDays int, opts Options) Section {
	subset := lo.Filter(rows, func(r incident.ReportRow, _ int) bool { return r.Scenario == scenario })
	byDay := analysis.DailySeries(subset, incident.ReportRow.Date)
	areas := analysis.Count(subset, rowArea)
	cameras := analysis.CountFolded(subset, rowCamera)

	s := Section{
		Number:    n,
		Scenario:  scenario,
		Total:     len(subset),
		AvgPerDay: analysis.AvgPerDay(len(subset), len(byDay), reportDays),
		ByDay:     byDay,
		Areas:     areas.Sorted(),
		TopArea:   leader(areas),
		TopCamera: leader(cameras),
	}
	for _, b := range cameras.Top(opts.CameraBars) {
		s.Cameras = append(s.Cameras, Bar{Label: analysis.Truncate(b.Label, reportLabelLen), Count: b.Count})
	}

	// Week-over-week looks at every row, not only this section's subset.
	wow := weekcmp.Compare(rows, scenario, opts.Now, opts.Gate, rowScenario, incident.ReportRow.Date)
	if wow.ShouldShow {
		s.WeekOverWeek = &wow
	}
	return s
}

func buildObstruction(rows []incident.ReportRow) Obstruction {
	subset := lo.Filter(rows, func(r incident.ReportRow, _ int) bool { return analysis.IsObstruction(r.Scenario) })
	return Obstruction{
		Total:     len(subset),
		Scenarios: analysis.Count(subset, rowScenario).Sorted(),
		TopArea:   leader(analysis.Count(subset, rowArea)),
		TopCamera: leader(analysis.CountFolded(subset, rowCamera)),
	}
}

func leader(h analysis.Histogram) *analysis.Bucket {
	b, ok := h.Leader()
	if !ok {
		return nil
	}
	return &b
}

func rowArea(r incident.ReportRow) string { return r.Area }

func rowScenario(r incident.ReportRow) string { return r.Scenario }

// rowCamera yields "" for camera-less rows so they are not counted.
func rowCamera(r incident.ReportRow) string {
	return lo.Ternary(r.HasCamera, r.Camera, "")
}
