package analysis

import (
	"sort"
	"time"
)

// Point is one day of a daily series. Key is YYYY-MM-DD; Label is the short
// chart form ("Jan 2").
type Point struct {
	Key   string `json:"date" yaml:"date"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// DailySeries counts items per calendar day, ascending by date. Items whose
// day is "" are excluded.
func DailySeries[T any](items []T, day func(T) string) []Point {
	h := Count(items, day)
	out := make([]Point, 0, h.Len())
	for _, b := range h.buckets {
		out = append(out, Point{Key: b.Key, Label: ShortLabel(b.Key), Count: b.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ShortLabel formats an ISO date as "Jan 2"; other input is returned as is.
func ShortLabel(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2")
}

// AvgPerDay divides total by the number of days observed. When no day was
// observed, fallbackDays is used instead; the divisor is never below 1.
func AvgPerDay(total, distinctDays, fallbackDays int) float64 {
	days := distinctDays
	if days == 0 {
		days = fallbackDays
	}
	if days < 1 {
		days = 1
	}
	return float64(total) / float64(days)
}

// SeriesTotal sums the counts of a series.
func SeriesTotal(points []Point) int {
	n := 0
	for _, p := range points {
		n += p.Count
	}
	return n
}
