package weekcmp

import (
	"math"
	"time"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
)

// Result compares the last complete ISO week against the week before it.
type Result struct {
	CurrentCount  int     `json:"currentCount" yaml:"currentCount"`
	PreviousCount int     `json:"previousCount" yaml:"previousCount"`
	PercentChange float64 `json:"percentChange" yaml:"percentChange"`
	ShouldShow    bool    `json:"shouldShow" yaml:"shouldShow"`
}

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether t lies within w, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Gate decides when a comparison is significant enough to display.
type Gate struct {
	MinCount   int     `json:"minCount" yaml:"minCount"`
	MinPercent float64 `json:"minPercent" yaml:"minPercent"`
}

// DefaultGate shows a comparison when either week has at least 10 records
// and the change is at least 10%.
var DefaultGate = Gate{MinCount: 10, MinPercent: 10}

// StartOfISOWeek returns Monday 00:00 of t's ISO week, in t's location.
func StartOfISOWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday == 0
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Windows returns the last complete ISO week before now and the week before
// that. Both end at the last instant of their Sunday.
func Windows(now time.Time) (last, previous Window) {
	return weekOf(now, 1), weekOf(now, 2)
}

func weekOf(now time.Time, weeksBack int) Window {
	y, m, d := now.Date()
	shifted := time.Date(y, m, d-7*weeksBack, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	start := StartOfISOWeek(shifted)
	sy, sm, sd := start.Date()
	end := time.Date(sy, sm, sd+7, 0, 0, 0, 0, start.Location()).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// Compare counts items of one scenario in each window. typeOf and dateOf
// read an item's scenario and ISO date; items with no date are ignored.
// Dates are read as midnight in now's location.
func Compare[T any](items []T, scenario string, now time.Time, gate Gate, typeOf, dateOf func(T) string) Result {
	last, previous := Windows(now)
	var res Result
	for _, it := range items {
		if typeOf(it) != scenario {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", dateOf(it), now.Location())
		if err != nil {
			continue
		}
		if last.Contains(day) {
			res.CurrentCount++
		}
		if previous.Contains(day) {
			res.PreviousCount++
		}
	}
	res.PercentChange = PercentChange(res.CurrentCount, res.PreviousCount)
	res.ShouldShow = gate.Show(res.CurrentCount, res.PreviousCount, res.PercentChange)
	return res
}

// CompareIncidents runs Compare over incidents with the default gate.
func CompareIncidents(incidents []incident.Incident, scenario string, now time.Time) Result {
	return Compare(incidents, scenario, now, DefaultGate,
		func(i incident.Incident) string { return i.Type },
		func(i incident.Incident) string { return i.Date })
}

// PercentChange is (current-previous)/previous*100. A rise from zero counts
// as exactly 100; zero to zero is 0.
func PercentChange(current, previous int) float64 {
	switch {
	case previous > 0:
		return float64(current-previous) / float64(previous) * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}

// Show applies the gate.
func (g Gate) Show(current, previous int, pct float64) bool {
	return max(current, previous) >= g.MinCount && math.Abs(pct) >= g.MinPercent
}
