package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/safetylens-cli/internal/parser"
	"github.com/KaramelBytes/safetylens-cli/internal/schema"
)

func row(pairs ...string) parser.Row {
	r := parser.Row{}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Cells = append(r.Cells, parser.Cell{Header: pairs[i], Value: parser.Infer(pairs[i+1])})
	}
	return r
}

func TestLookupHeaderTolerance(t *testing.T) {
	for _, h := range []string{"area ", "AREA", "Area Name", "area  name", "AreaName"} {
		got, ok := schema.LookupField(row(h, "Dock 4"), schema.FieldArea)
		require.True(t, ok, "header %q", h)
		assert.Equal(t, "Dock 4", got, "header %q", h)
	}
}

func TestLookupPrefersEarlierCandidate(t *testing.T) {
	r := row("Zone", "Z1", "Area", "A1")
	got, ok := schema.LookupField(r, schema.FieldArea)
	require.True(t, ok)
	assert.Equal(t, "A1", got)
}

func TestLookupSkipsEmptyValues(t *testing.T) {
	r := row("Area", "  ", "Location", "Gate 2")
	got, ok := schema.LookupField(r, schema.FieldArea)
	require.True(t, ok)
	assert.Equal(t, "Gate 2", got)

	_, ok = schema.LookupField(row("Area", ""), schema.FieldArea)
	assert.False(t, ok)
	_, ok = schema.LookupField(row("Other", "x"), schema.FieldArea)
	assert.False(t, ok)
}

func TestLookupRestringifiesNumbers(t *testing.T) {
	got, ok := schema.LookupField(row("Camera", "007"), schema.FieldCamera)
	require.True(t, ok)
	assert.Equal(t, "7", got)
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"First Detection":  "first_detection",
		"  Camera-Name ":   "camera_name",
		"Violation - Type": "violation_type",
		"AREA":             "area",
		"Site/Location":    "site/location",
	}
	for in, want := range cases {
		assert.Equal(t, want, schema.NormalizeKey(in), "input %q", in)
	}
}

func TestStrictAliases(t *testing.T) {
	assert.Equal(t, []string{"first_detection", "timestamp", "time", "datetime", "date"}, schema.StrictAliases(schema.FieldTimestamp))
	assert.Equal(t, []string{"area", "location", "zone"}, schema.StrictAliases(schema.FieldArea))
	assert.Equal(t, []string{"camera_name", "camera", "device"}, schema.StrictAliases(schema.FieldCamera))
	assert.Equal(t, []string{"scenario", "type", "category", "event", "hazard", "violation_type"}, schema.StrictAliases(schema.FieldCategory))
	assert.Equal(t, []string{"severity", "level"}, schema.StrictAliases(schema.FieldSeverity))
	assert.Empty(t, schema.StrictAliases(schema.FieldSite))
}

func TestFindKeyColumnOrderAndContainment(t *testing.T) {
	keys := []string{"camera_id", "detection_datetime", "time"}
	i, ok := schema.FindKey(keys, schema.FieldTimestamp)
	require.True(t, ok)
	assert.Equal(t, 1, i, "first column containing an alias wins")

	i, ok = schema.FindKey(keys, schema.FieldCamera)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = schema.FindKey([]string{"incident_identifier"}, schema.FieldID)
	assert.False(t, ok, "ids match by equality only")
}

func TestResolve(t *testing.T) {
	r := row("Incident ID", "A-1", "First Detection", "2024-03-05 10:00:00", "Zone", "North", "Device", "Cam 3", "Hazard", "PPE", "Notes", "x")
	r.Index = 4
	rec := schema.Resolve(r)
	assert.Equal(t, 4, rec.Index)
	assert.Equal(t, "A-1", rec.Text(schema.FieldID))
	assert.Equal(t, "2024-03-05 10:00:00", rec.Text(schema.FieldTimestamp))
	assert.Equal(t, "North", rec.Text(schema.FieldArea))
	assert.Equal(t, "Cam 3", rec.Text(schema.FieldCamera))
	assert.Equal(t, "PPE", rec.Text(schema.FieldCategory))
	assert.Equal(t, "first_detection", rec.Keys[schema.FieldTimestamp])
	assert.False(t, rec.Has(schema.FieldSeverity))
	assert.False(t, rec.Has(schema.FieldSite))
	v, ok := rec.Extra.Get("Notes")
	require.True(t, ok)
	assert.Equal(t, "x", v.String())
}

func TestResolveKeepsEmptyMatches(t *testing.T) {
	rec := schema.Resolve(row("Area", "", "Camera", "C1"))
	assert.True(t, rec.Has(schema.FieldArea))
	assert.Equal(t, "", rec.Text(schema.FieldArea))
}
