package weekcmp_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/weekcmp"
)

// Wednesday.
var now = time.Date(2024, 3, 20, 15, 4, 5, 0, time.UTC)

func TestWindows(t *testing.T) {
	last, prev := weekcmp.Windows(now)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), last.Start)
	assert.Equal(t, time.Date(2024, 3, 17, 23, 59, 59, 999999999, time.UTC), last.End)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC), prev.End)
}

func TestWindowsFromMondayAndSunday(t *testing.T) {
	monday := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	last, _ := weekcmp.Windows(monday)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), last.Start)

	sunday := time.Date(2024, 3, 24, 23, 0, 0, 0, time.UTC)
	last, _ = weekcmp.Windows(sunday)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), last.Start)
}

func TestStartOfISOWeek(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := weekcmp.StartOfISOWeek(time.Date(2024, 1, 7, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), got)
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 20.0, weekcmp.PercentChange(12, 10), 1e-9)
	assert.InDelta(t, 50.0, weekcmp.PercentChange(3, 2), 1e-9)
	assert.InDelta(t, -50.0, weekcmp.PercentChange(5, 10), 1e-9)
	assert.Equal(t, 100.0, weekcmp.PercentChange(4, 0))
	assert.Equal(t, 0.0, weekcmp.PercentChange(0, 0))
}

func TestGate(t *testing.T) {
	g := weekcmp.DefaultGate
	assert.True(t, g.Show(12, 10, 20))
	assert.False(t, g.Show(3, 2, 50), "below the count floor")
	assert.False(t, g.Show(10, 10, 0), "no change")
	assert.True(t, g.Show(0, 10, -100))
	assert.True(t, weekcmp.Gate{MinCount: 2, MinPercent: 10}.Show(3, 2, 50))
}

func build(typ string, perDay map[string]int) []incident.Incident {
	var out []incident.Incident
	n := 0
	for day, c := range perDay {
		for i := 0; i < c; i++ {
			out = append(out, incident.Incident{ID: fmt.Sprint(n), Type: typ, Date: day})
			n++
		}
	}
	return out
}

func TestCompareIncidents(t *testing.T) {
	var in []incident.Incident
	in = append(in, build("PPE", map[string]int{"2024-03-11": 6, "2024-03-17": 6})...) // last week
	in = append(in, build("PPE", map[string]int{"2024-03-04": 4, "2024-03-10": 6})...) // previous week
	in = append(in, build("PPE", map[string]int{"2024-03-18": 9, "2024-03-03": 9})...) // outside
	in = append(in, build("ppe", map[string]int{"2024-03-12": 9})...)                  // other type
	in = append(in, incident.Incident{Type: "PPE", Date: ""})

	res := weekcmp.CompareIncidents(in, "PPE", now)
	require.Equal(t, 12, res.CurrentCount)
	require.Equal(t, 10, res.PreviousCount)
	assert.InDelta(t, 20.0, res.PercentChange, 1e-9)
	assert.True(t, res.ShouldShow)

	small := append(build("Fire", map[string]int{"2024-03-12": 3}), build("Fire", map[string]int{"2024-03-05": 2})...)
	res = weekcmp.CompareIncidents(small, "Fire", now)
	assert.Equal(t, weekcmp.Result{CurrentCount: 3, PreviousCount: 2, PercentChange: 50, ShouldShow: false}, res)
}
