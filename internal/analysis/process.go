package analysis

import (
	"github.com/samber/lo"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
)

// NotAvailable marks an empty leader in totals.
const NotAvailable = "N/A"

// Scenario is the breakdown of one scenario family.
type Scenario struct {
	ByDay     []Point   `json:"byDay" yaml:"byDay"`
	PerCamera Histogram `json:"perCamera" yaml:"perCamera"`
	Total     int       `json:"total" yaml:"total"`
}

// Totals are the headline figures of a set of incidents.
type Totals struct {
	AllObservations int    `json:"allObservations" yaml:"allObservations"`
	TotalDays       int    `json:"totalDays" yaml:"totalDays"`
	TopCamera       string `json:"topCamera" yaml:"topCamera"`
	TopCameraCount  int    `json:"topCameraCount" yaml:"topCameraCount"`
	TopType         string `json:"topType" yaml:"topType"`
	TopTypeCount    int    `json:"topTypeCount" yaml:"topTypeCount"`
}

// Processed holds the dashboard aggregates of a set of incidents.
type Processed struct {
	PerDay        []Point   `json:"perDay" yaml:"perDay"`
	PerCamera     Histogram `json:"perCamera" yaml:"perCamera"`
	PerType       Histogram `json:"perType" yaml:"perType"`
	PPEOverall    Scenario  `json:"ppeOverall" yaml:"ppeOverall"`
	PersonNearHit Scenario  `json:"personNearHit" yaml:"personNearHit"`
	Totals        Totals    `json:"totals" yaml:"totals"`
}

// Process aggregates incidents for the dashboard. Cameras are grouped
// ignoring case and surrounding space; camera-less incidents are counted
// under "Unknown".
func Process(incidents []incident.Incident) Processed {
	p := Processed{
		PerDay:    DailySeries(incidents, incidentDate),
		PerCamera: CountFolded(incidents, cameraOrUnknown),
		PerType:   Count(incidents, typeOrUnknown),
		Totals: Totals{
			AllObservations: len(incidents),
			TopCamera:       NotAvailable,
			TopType:         NotAvailable,
		},
	}
	p.Totals.TotalDays = len(p.PerDay)
	if b, ok := p.PerCamera.Leader(); ok {
		p.Totals.TopCamera, p.Totals.TopCameraCount = b.Label, b.Count
	}
	if b, ok := p.PerType.Leader(); ok {
		p.Totals.TopType, p.Totals.TopTypeCount = b.Label, b.Count
	}
	p.PPEOverall = scenario(incidents, IsPPE)
	p.PersonNearHit = scenario(incidents, IsPersonNearHit)
	return p
}

func scenario(incidents []incident.Incident, match func(string) bool) Scenario {
	subset := lo.Filter(incidents, func(inc incident.Incident, _ int) bool { return match(inc.Type) })
	return Scenario{
		ByDay:     DailySeries(subset, incidentDate),
		PerCamera: CountFolded(subset, cameraOrUnknown),
		Total:     len(subset),
	}
}

func incidentDate(inc incident.Incident) string { return inc.Date }

func cameraOrUnknown(inc incident.Incident) string {
	return lo.Ternary(inc.ReportedBy == "", incident.Unknown, inc.ReportedBy)
}

func typeOrUnknown(inc incident.Incident) string {
	return lo.Ternary(inc.Type == "", incident.Unknown, inc.Type)
}
