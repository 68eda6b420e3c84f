package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/safetylens-cli/internal/filter"
	"github.com/KaramelBytes/safetylens-cli/internal/parser"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
)

const datasetA = `Timestamp,Area,Camera,Type
2024-03-05 10:00:00,North Dock,Cam-1,PPE
2024-03-06 11:00:00,South Dock,Cam-2,Obstruction
bad-date,North Dock,Cam-1,PPE
2024-03-07 09:30:00,Yard,,PPE
`

const datasetB = `Timestamp,Area,Camera,Type
2024-04-01,Gate,Cam-9,Fire
`

func load(t *testing.T, s *session.State, name, text string) *session.Dataset {
	t.Helper()
	tbl, err := parser.ParseBytes(name, []byte(text), parser.DefaultOptions())
	require.NoError(t, err)
	ds, err := s.Load(tbl)
	require.NoError(t, err)
	return ds
}

func TestLoadBuildsSnapshot(t *testing.T) {
	s := session.New(time.UTC, nil)
	ds := load(t, s, "a.csv", datasetA)
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, 4, ds.Rows)
	assert.Equal(t, 1, ds.Dropped)

	snap := s.Snapshot()
	assert.True(t, snap.Loaded())
	assert.Equal(t, "a.csv", snap.Name)
	assert.Len(t, snap.Incidents, 3)
	assert.Len(t, snap.Visible, 3)
	assert.False(t, snap.HasSelection())
	assert.Len(t, snap.ReportRows, 4, "report rows include undated rows")
}

func TestEmptyLoadLeavesStateUntouched(t *testing.T) {
	s := session.New(time.UTC, nil)
	ds := load(t, s, "a.csv", datasetA)
	require.NoError(t, s.Select("incident-0"))

	_, err := s.Load(&parser.Table{Name: "empty.csv"})
	require.ErrorIs(t, err, session.ErrEmptyDataset)

	snap := s.Snapshot()
	assert.Equal(t, ds.ID, snap.DatasetID)
	assert.Len(t, snap.Selected, 1)
}

func TestFilterAndSelectAllVisible(t *testing.T) {
	s := session.New(time.UTC, nil)
	load(t, s, "a.csv", datasetA)
	s.SetFilter(filter.Filter{Site: "dock"})

	snap := s.Snapshot()
	require.Len(t, snap.Visible, 2)

	n, err := s.SelectAllVisible()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s.ClearFilters()
	snap = s.Snapshot()
	assert.Len(t, snap.Visible, 3)
	assert.Len(t, snap.Selected, 2, "selection survives a filter change")
	require.Len(t, snap.ReportRows, 2)
	assert.Equal(t, "North Dock", snap.ReportRows[0].Area)
	assert.Equal(t, "South Dock", snap.ReportRows[1].Area)
}

func TestSelectAllVisibleReplacesSelection(t *testing.T) {
	s := session.New(time.UTC, nil)
	load(t, s, "a.csv", datasetA)
	require.NoError(t, s.Select("incident-3"))
	s.SetFilter(filter.Filter{Site: "dock"})

	n, err := s.SelectAllVisible()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := s.Snapshot()
	require.Len(t, snap.Selected, 2)
	ids := []string{snap.Selected[0].ID, snap.Selected[1].ID}
	assert.Equal(t, []string{"incident-0", "incident-1"}, ids, "the Yard incident is no longer selected")
}

func TestToggleAndClear(t *testing.T) {
	s := session.New(time.UTC, nil)
	load(t, s, "a.csv", datasetA)

	require.NoError(t, s.Toggle("incident-1"))
	require.NoError(t, s.Toggle("incident-3"))
	require.NoError(t, s.Toggle("incident-1"))
	snap := s.Snapshot()
	require.Len(t, snap.Selected, 1)
	assert.Equal(t, "incident-3", snap.Selected[0].ID)

	s.ClearSelection()
	assert.False(t, s.Snapshot().HasSelection())
}

func TestSelectRejectsUnknownIDs(t *testing.T) {
	s := session.New(time.UTC, nil)
	require.ErrorIs(t, s.Select("incident-0"), session.ErrNoDataset)

	load(t, s, "a.csv", datasetA)
	err := s.Select("incident-0", "incident-2")
	require.ErrorIs(t, err, session.ErrUnknownIncident, "dropped rows are not selectable")
	assert.False(t, s.Snapshot().HasSelection(), "nothing applied on error")
}

func TestReloadResetsSelectionAndFilter(t *testing.T) {
	s := session.New(time.UTC, nil)
	a := load(t, s, "a.csv", datasetA)
	require.NoError(t, s.Select("incident-0", "incident-1"))
	s.SetFilter(filter.Filter{Type: "PPE"})

	b := load(t, s, "b.csv", datasetB)
	assert.NotEqual(t, a.ID, b.ID)

	snap := s.Snapshot()
	assert.Equal(t, b.ID, snap.DatasetID)
	assert.Empty(t, snap.Selected)
	assert.Empty(t, snap.SelectedRows)
	assert.True(t, snap.Filter.IsZero())
	require.Len(t, snap.ReportRows, 1)
	assert.Equal(t, "Gate", snap.ReportRows[0].Area)
}

func TestConcurrentReadersSeeWholeStates(t *testing.T) {
	s := session.New(time.UTC, nil)
	load(t, s, "a.csv", datasetA)
	tblB, err := parser.ParseBytes("b.csv", []byte(datasetB), parser.DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := s.Snapshot()
				assert.Equal(t, snap.Rows, len(snap.AllRows))
			}
		}()
	}
	for j := 0; j < 20; j++ {
		_, err := s.Load(tblB)
		require.NoError(t, err)
	}
	wg.Wait()
}
