package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/safetylens-cli/internal/filter"
	"github.com/KaramelBytes/safetylens-cli/internal/incident"
)

var sample = []incident.Incident{
	{ID: "a", Date: "2024-03-01", Type: "PPE", Location: "North Dock"},
	{ID: "b", Date: "2024-03-02", Type: "Obstruction", Location: "south dock"},
	{ID: "c", Date: "2024-03-03", Type: "PPE", Location: "Yard"},
	{ID: "d", Date: "2024-03-04", Type: "ppe", Location: "NORTH gate"},
}

func ids(in []incident.Incident) []string {
	out := make([]string, len(in))
	for i, inc := range in {
		out[i] = inc.ID
	}
	return out
}

func TestApplyZeroFilterKeepsAll(t *testing.T) {
	got := filter.Apply(sample, filter.Filter{})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
	assert.True(t, filter.Filter{DateRange: &filter.DateRange{Start: "bad"}}.IsZero())
}

func TestApplySiteIsCaseInsensitiveSubstring(t *testing.T) {
	got := filter.Apply(sample, filter.Filter{Site: "north"})
	assert.Equal(t, []string{"a", "d"}, ids(got))
	got = filter.Apply(sample, filter.Filter{Site: "DOCK"})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApplyTypeIsExact(t *testing.T) {
	got := filter.Apply(sample, filter.Filter{Type: "PPE"})
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestApplyDateRangeInclusive(t *testing.T) {
	got := filter.Apply(sample, filter.Filter{DateRange: &filter.DateRange{Start: "2024-03-02", End: "2024-03-03"}})
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got = filter.Apply(sample, filter.Filter{DateRange: &filter.DateRange{Start: "2024-03-03"}})
	assert.Equal(t, []string{"c", "d"}, ids(got))

	got = filter.Apply(sample, filter.Filter{DateRange: &filter.DateRange{End: "2024-03-01", Start: "03/01/2024"}})
	assert.Equal(t, []string{"a"}, ids(got), "invalid start is open")
}

func TestApplyCombined(t *testing.T) {
	f := filter.Filter{Site: "north", Type: "PPE", DateRange: &filter.DateRange{End: "2024-03-31"}}
	assert.Equal(t, []string{"a"}, ids(filter.Apply(sample, f)))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "none", filter.Filter{}.Describe())
	f := filter.Filter{Site: "north", Type: "PPE", DateRange: &filter.DateRange{Start: "2024-03-01"}}
	assert.Equal(t, `site~"north", type="PPE", date=2024-03-01..*`, f.Describe())
}
