package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/KaramelBytes/safetylens-cli/internal/filter"
	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/parser"
)

var (
	// ErrEmptyDataset is returned by Load for a table with no data rows.
	ErrEmptyDataset = errors.New("no rows parsed")
	// ErrNoDataset is returned by operations that need a loaded dataset.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrUnknownIncident is returned when selecting an id not in the dataset.
	ErrUnknownIncident = errors.New("unknown incident id")
)

// State is the application state of one session: the loaded dataset, the
// active filter and the selection. Each is replaced wholesale under a single
// writer lock, so readers never see a partial update.
type State struct {
	mu       sync.RWMutex
	loc      *time.Location
	log      *slog.Logger
	dataset  *Dataset
	filter   filter.Filter
	selected map[string]bool
}

// New creates an empty state. Timestamps are read in loc (UTC when nil).
func New(loc *time.Location, log *slog.Logger) *State {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &State{loc: loc, log: log, selected: map[string]bool{}}
}

// Load replaces the dataset and resets filters and selection. An empty
// table returns ErrEmptyDataset and leaves the current state untouched.
func (s *State) Load(tbl *parser.Table) (*Dataset, error) {
	if tbl.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	res := incident.Normalize(tbl, s.loc)
	rows := incident.ReportRows(tbl, s.loc)
	ds := &Dataset{
		ID:         uuid.NewString(),
		Name:       tbl.Name,
		Rows:       tbl.Len(),
		Dropped:    len(res.Dropped),
		LoadedAt:   time.Now(),
		table:      tbl,
		incidents:  res.Incidents,
		reportRows: rows,
		byID:       make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		ds.byID[r.ID] = i
	}

	s.mu.Lock()
	s.dataset = ds
	s.filter = filter.Filter{}
	s.selected = map[string]bool{}
	s.mu.Unlock()

	s.log.Info("session.load", "dataset", ds.ID, "name", ds.Name, "rows", ds.Rows, "incidents", len(ds.incidents), "dropped", ds.Dropped)
	return ds, nil
}

// SetFilter replaces the active filter.
func (s *State) SetFilter(f filter.Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.log.Debug("session.filter", "filter", f.Describe())
}

// ClearFilters resets the filter to match everything.
func (s *State) ClearFilters() { s.SetFilter(filter.Filter{}) }

// Toggle flips the selection of one incident.
func (s *State) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIDs(id); err != nil {
		return err
	}
	next := lo.Assign(s.selected)
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	s.selected = next
	return nil
}

// Select adds incidents to the selection. Nothing changes if any id is
// unknown.
func (s *State) Select(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIDs(ids...); err != nil {
		return err
	}
	next := lo.Assign(s.selected)
	for _, id := range ids {
		next[id] = true
	}
	s.selected = next
	return nil
}

// SelectAllVisible replaces the selection with every incident that passes
// the current filter and returns how many are selected.
func (s *State) SelectAllVisible() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return 0, ErrNoDataset
	}
	next := map[string]bool{}
	for _, inc := range filter.Apply(s.dataset.incidents, s.filter) {
		next[inc.ID] = true
	}
	s.selected = next
	return len(next), nil
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selected = map[string]bool{}
	s.mu.Unlock()
}

func (s *State) checkIDs(ids ...string) error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	for _, id := range ids {
		if !lo.ContainsBy(s.dataset.incidents, func(inc incident.Incident) bool { return inc.ID == id }) {
			return fmt.Errorf("%w: %s", ErrUnknownIncident, id)
		}
	}
	return nil
}

// Snapshot is a consistent, read-only view of the state.
type Snapshot struct {
	DatasetID string
	Name      string
	Rows      int
	Dropped   int
	Filter    filter.Filter
	// Incidents is every canonical incident; Visible is the filtered subset.
	Incidents []incident.Incident
	Visible   []incident.Incident
	// Selected holds the selected incidents in row order.
	Selected []incident.Incident
	// SelectedRows are the report rows behind Selected.
	SelectedRows []incident.ReportRow
	// ReportRows is SelectedRows when a selection exists, otherwise every
	// row of the dataset including rows without a usable timestamp.
	ReportRows []incident.ReportRow
	AllRows    []incident.ReportRow
}

// Loaded reports whether the snapshot has a dataset.
func (s Snapshot) Loaded() bool { return s.DatasetID != "" }

// HasSelection reports whether any incident is selected.
func (s Snapshot) HasSelection() bool { return len(s.Selected) > 0 }

// Snapshot derives the current view. Derived slices are fresh copies.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	ds, f, sel := s.dataset, s.filter, s.selected
	s.mu.RUnlock()

	snap := Snapshot{Filter: f}
	if ds == nil {
		return snap
	}
	snap.DatasetID = ds.ID
	snap.Name = ds.Name
	snap.Rows = ds.Rows
	snap.Dropped = ds.Dropped
	snap.Incidents = append([]incident.Incident(nil), ds.incidents...)
	snap.Visible = filter.Apply(ds.incidents, f)
	snap.AllRows = append([]incident.ReportRow(nil), ds.reportRows...)
	for _, inc := range ds.incidents {
		if !sel[inc.ID] {
			continue
		}
		snap.Selected = append(snap.Selected, inc)
		if i, ok := ds.byID[inc.ID]; ok {
			snap.SelectedRows = append(snap.SelectedRows, ds.reportRows[i])
		}
	}
	snap.ReportRows = lo.Ternary(len(snap.SelectedRows) > 0, snap.SelectedRows, snap.AllRows)
	return snap
}

// Dataset returns the loaded dataset, or nil.
func (s *State) Dataset() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}
