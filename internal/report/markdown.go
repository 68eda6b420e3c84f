package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/safetylens-cli/internal/analysis"
)

// Markdown renders the dashboard as bracketed plain-text sections.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Name))
	}
	if d.DatasetID != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", d.DatasetID))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (incidents %d, dropped %d)\n", d.Counts.Rows, d.Counts.Total, d.Counts.Dropped))
	b.WriteString(fmt.Sprintf("Filter: %s\n", d.Filter))
	b.WriteString(fmt.Sprintf("Visible: %d, Selected: %d\n\n", d.Counts.Visible, d.Counts.Selected))

	b.WriteString("[SUMMARY]\n")
	b.WriteString(safeVal(d.Summary.Text) + "\n")
	b.WriteString(fmt.Sprintf("- Total observations: %d\n", d.Summary.Total))
	b.WriteString(fmt.Sprintf("- Sites: %d\n", d.Summary.Sites))
	b.WriteString(fmt.Sprintf("- Cameras: %d\n", d.Summary.Cameras))
	if d.Summary.MostCommon != nil {
		b.WriteString(fmt.Sprintf("- Most common type: %s (%d)\n", safeVal(d.Summary.MostCommon.Label), d.Summary.MostCommon.Count))
	}
	if len(d.Summary.Types) > 0 {
		b.WriteString("- Types: " + bucketList(d.Summary.Types) + "\n")
	}

	b.WriteString("\n[KPI]\n")
	for _, k := range d.KPIs {
		if k.Label == "Total Observations" {
			b.WriteString(fmt.Sprintf("- %s: %s\n", k.Label, k.Value))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (%d): %s\n", k.Label, k.Count, safeVal(k.Value)))
	}

	b.WriteString("\n[EVENTS PER DAY]\n")
	writePoints(&b, d.Charts.PerDay, "No dated incidents")
	b.WriteString("\n[EVENTS PER CAMERA]\n")
	writeBars(&b, d.Charts.PerCamera, "No camera data")
	b.WriteString("\n[EVENTS PER TYPE]\n")
	if len(d.Charts.PerType) == 0 {
		b.WriteString("No type data\n")
	}
	for _, s := range d.Charts.PerType {
		b.WriteString(fmt.Sprintf("- %s: %d (%s)\n", safeVal(s.Label), s.Count, s.Color))
	}
	return b.String()
}

// Markdown renders the report as bracketed plain-text sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	h := r.Header
	b.WriteString("[SAFETY REPORT]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Generated: %s\n", h.Generated))
	if r.Scope != "" {
		b.WriteString(fmt.Sprintf("Scope: %s\n", r.Scope))
	}
	b.WriteString(fmt.Sprintf("%d total observations across %d days.", h.TotalObservations, h.TotalDays))
	if h.TopCamera != nil {
		b.WriteString(fmt.Sprintf(" Top camera: %s.", bucket(*h.TopCamera)))
	}
	if h.MostCommon != nil {
		b.WriteString(fmt.Sprintf(" Most common: %s.", bucket(*h.MostCommon)))
	}
	if h.TopArea != nil {
		b.WriteString(fmt.Sprintf(" Top area: %s.", bucket(*h.TopArea)))
	}
	b.WriteString("\n\n")

	b.WriteString("[INSIGHTS]\n")
	b.WriteString(fmt.Sprintf("- Top Areas: %s\n", orNone(r.Insights.Areas, "No area data")))
	b.WriteString(fmt.Sprintf("- Top Cameras: %s\n", orNone(r.Insights.Cameras, "No camera data")))
	b.WriteString(fmt.Sprintf("- Top Scenarios: %s\n", orNone(r.Insights.Scenarios, "No scenario data")))

	for _, s := range r.Sections {
		b.WriteString(fmt.Sprintf("\n[SECTION %d: %s]\n", s.Number, strings.ToUpper(safeVal(s.Scenario))))
		if w := s.WeekOverWeek; w != nil {
			arrow := "↑"
			if w.PercentChange < 0 {
				arrow = "↓"
			}
			b.WriteString(fmt.Sprintf("- %s %d%% vs last week (this week %d, last week %d)\n",
				arrow, roundPercent(w.PercentChange), w.CurrentCount, w.PreviousCount))
		}
		b.WriteString(fmt.Sprintf("- Total observations: %d\n", s.Total))
		b.WriteString(fmt.Sprintf("- Average per day: %.1f\n", s.AvgPerDay))
		b.WriteString(fmt.Sprintf("- Top area: %s\n", bucketOr(s.TopArea, "No data")))
		b.WriteString(fmt.Sprintf("- Top camera: %s\n", bucketOr(s.TopCamera, "No data")))
		b.WriteString(fmt.Sprintf("- Areas: %s\n", orNone(s.Areas, "No area data")))
		b.WriteString("Events per day:\n")
		writePoints(&b, s.ByDay, "No daily breakdown available (missing timestamps)")
		b.WriteString("Events per camera:\n")
		writeBars(&b, s.Cameras, "No camera data available")
	}

	b.WriteString("\n[OBSTRUCTION SUMMARY]\n")
	if r.Obstruction.Total == 0 {
		b.WriteString("No obstruction observations\n")
	} else {
		o := r.Obstruction
		b.WriteString(fmt.Sprintf("- Total observations: %d\n", o.Total))
		b.WriteString(fmt.Sprintf("- Scenarios: %s\n", bucketList(o.Scenarios)))
		b.WriteString(fmt.Sprintf("- Top area: %s\n", bucketOr(o.TopArea, "No data")))
		b.WriteString(fmt.Sprintf("- Top camera: %s\n", bucketOr(o.TopCamera, "No data")))
	}

	b.WriteString("\n[OVERALL SUMMARY]\n")
	if r.Overall.DaysCovered == 0 {
		b.WriteString(fmt.Sprintf("- Total observations: %d\n", r.Overall.Total))
		b.WriteString("No daily breakdown available (missing timestamps)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("- Total observations: %d\n", r.Overall.Total))
	b.WriteString(fmt.Sprintf("- Days covered: %d\n", r.Overall.DaysCovered))
	b.WriteString(fmt.Sprintf("- Average per day: %.1f\n", r.Overall.AvgPerDay))
	b.WriteString("All observations per day:\n")
	writePoints(&b, r.Overall.ByDay, "")
	return b.String()
}

func writePoints(b *strings.Builder, points []analysis.Point, empty string) {
	if len(points) == 0 && empty != "" {
		b.WriteString(empty + "\n")
	}
	for _, p := range points {
		b.WriteString(fmt.Sprintf("  • %s: %d\n", p.Label, p.Count))
	}
}

func writeBars(b *strings.Builder, bars []Bar, empty string) {
	if len(bars) == 0 {
		b.WriteString(empty + "\n")
	}
	for _, bar := range bars {
		b.WriteString(fmt.Sprintf("  • %s: %d\n", safeVal(bar.Label), bar.Count))
	}
}

func bucket(b analysis.Bucket) string {
	return fmt.Sprintf("%s (%d)", safeVal(b.Label), b.Count)
}

func bucketOr(b *analysis.Bucket, fallback string) string {
	if b == nil {
		return fallback
	}
	return bucket(*b)
}

func bucketList(bs []analysis.Bucket) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("%s(%d)", safeVal(b.Label), b.Count)
	}
	return strings.Join(parts, ", ")
}

func orNone(bs []analysis.Bucket, empty string) string {
	if len(bs) == 0 {
		return empty
	}
	return bucketList(bs)
}

// roundPercent rounds half up before dropping the sign.
func roundPercent(p float64) int {
	return int(math.Abs(math.Floor(p + 0.5)))
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
