package report

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/KaramelBytes/safetylens-cli/internal/analysis"
	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
)

// Dashboard camera labels are clipped shorter than report labels.
const dashboardLabelLen = 10

// Bar is one bar of a bar chart.
type Bar struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Slice is one slice of the per-type chart.
type Slice struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
	Color string `json:"color" yaml:"color"`
}

// Counts are the dataset, filter and selection sizes.
type Counts struct {
	Rows     int `json:"rows" yaml:"rows"`
	Dropped  int `json:"dropped" yaml:"dropped"`
	Total    int `json:"total" yaml:"total"`
	Visible  int `json:"visible" yaml:"visible"`
	Selected int `json:"selected" yaml:"selected"`
}

// Summary is computed over the selection, or the visible incidents when
// nothing is selected.
type Summary struct {
	Total      int               `json:"total" yaml:"total"`
	Sites      int               `json:"sites" yaml:"sites"`
	Cameras    int               `json:"cameras" yaml:"cameras"`
	Types      []analysis.Bucket `json:"types" yaml:"types"`
	MostCommon *analysis.Bucket  `json:"mostCommon,omitempty" yaml:"mostCommon,omitempty"`
	Text       string            `json:"text" yaml:"text"`
}

// KPI is one headline tile.
type KPI struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Charts are the dashboard chart series over the visible incidents.
type Charts struct {
	PerDay    []analysis.Point `json:"perDay" yaml:"perDay"`
	PerCamera []Bar            `json:"perCamera" yaml:"perCamera"`
	PerType   []Slice          `json:"perType" yaml:"perType"`
}

// Dashboard is the interactive overview of one session snapshot.
type Dashboard struct {
	DatasetID string  `json:"datasetId" yaml:"datasetId"`
	Name      string  `json:"name" yaml:"name"`
	Filter    string  `json:"filter" yaml:"filter"`
	Counts    Counts  `json:"counts" yaml:"counts"`
	Summary   Summary `json:"summary" yaml:"summary"`
	KPIs      []KPI   `json:"kpis" yaml:"kpis"`
	Charts    Charts  `json:"charts" yaml:"charts"`
}

// BuildDashboard derives the dashboard from a snapshot. KPI tiles and charts
// follow the filter; the summary prefers the selection.
func BuildDashboard(snap session.Snapshot, opts Options) Dashboard {
	opts = opts.normalized()
	d := Dashboard{
		DatasetID: snap.DatasetID,
		Name:      snap.Name,
		Filter:    snap.Filter.Describe(),
		Counts: Counts{
			Rows:     snap.Rows,
			Dropped:  snap.Dropped,
			Total:    len(snap.Incidents),
			Visible:  len(snap.Visible),
			Selected: len(snap.Selected),
		},
	}
	d.Summary = buildSummary(snap)

	visible := analysis.Process(snap.Visible)
	d.KPIs = []KPI{
		{Label: "Total Observations", Value: fmt.Sprint(visible.Totals.AllObservations), Count: visible.Totals.AllObservations},
		{Label: "Top Camera", Value: visible.Totals.TopCamera, Count: visible.Totals.TopCameraCount},
		{Label: "Top Type", Value: visible.Totals.TopType, Count: visible.Totals.TopTypeCount},
	}

	d.Charts.PerDay = visible.PerDay
	for _, b := range visible.PerCamera.Top(opts.CameraBars) {
		d.Charts.PerCamera = append(d.Charts.PerCamera, Bar{Label: analysis.Truncate(b.Label, dashboardLabelLen), Count: b.Count})
	}
	for _, b := range visible.PerType.Sorted() {
		d.Charts.PerType = append(d.Charts.PerType, Slice{Label: b.Label, Count: b.Count, Color: analysis.HazardColor(b.Label)})
	}
	return d
}

func buildSummary(snap session.Snapshot) Summary {
	basis := lo.Ternary(snap.HasSelection(), snap.Selected, snap.Visible)
	types := analysis.Count(basis, func(i incident.Incident) string { return i.Type })
	s := Summary{
		Total:   len(basis),
		Sites:   distinctSites(basis),
		Cameras: analysis.CountFolded(basis, func(i incident.Incident) string { return i.ReportedBy }).Len(),
		Types:   types.Sorted(),
	}
	if b, ok := types.Leader(); ok {
		s.MostCommon = &b
	}

	switch {
	case snap.HasSelection():
		totals := analysis.Process(snap.Selected).Totals
		s.Text = fmt.Sprintf("%d incidents across %d sites. Top camera: %s. Top type: %s.",
			len(snap.Selected), distinctSites(snap.Selected), totals.TopCamera, totals.TopType)
	case len(snap.Visible) > 0:
		s.Text = fmt.Sprintf("%d incidents visible across %d sites. Use --select-all-visible to include them in the report.",
			len(snap.Visible), distinctSites(snap.Visible))
	default:
		s.Text = "No incidents selected."
	}
	return s
}

func distinctSites(incidents []incident.Incident) int {
	return len(lo.UniqBy(incidents, func(i incident.Incident) string { return i.Location }))
}
