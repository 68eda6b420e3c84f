package report

import (
	"time"

	"github.com/KaramelBytes/safetylens-cli/internal/weekcmp"
)

// Options control the layout of dashboards and reports.
type Options struct {
	// Now anchors the week-over-week windows and the generated date.
	Now time.Time
	// Location is where calendar weeks are evaluated; nil means Now's.
	Location *time.Location
	// TopN is the size of the insight panels.
	TopN int
	// CameraBars caps the per-camera bar charts.
	CameraBars int
	// Sections is how many top scenarios get their own section.
	Sections int
	Gate     weekcmp.Gate
}

// DefaultOptions returns the stock layout anchored at the current time.
func DefaultOptions() Options {
	return Options{
		Now:        time.Now(),
		TopN:       5,
		CameraBars: 12,
		Sections:   3,
		Gate:       weekcmp.DefaultGate,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Now.IsZero() {
		o.Now = def.Now
	}
	if o.Location != nil {
		o.Now = o.Now.In(o.Location)
	}
	if o.TopN <= 0 {
		o.TopN = def.TopN
	}
	if o.CameraBars <= 0 {
		o.CameraBars = def.CameraBars
	}
	if o.Sections <= 0 {
		o.Sections = def.Sections
	}
	if o.Gate == (weekcmp.Gate{}) {
		o.Gate = def.Gate
	}
	return o
}
