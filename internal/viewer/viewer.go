package viewer

import (
	"fmt"
	"sync"

	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/faults"
	"github.com/anmol3478/podverification/internal/record"
	"github.com/anmol3478/podverification/internal/scoring"
)

const component = "viewer"

// Mode selects what a session displays.
type Mode string

const (
	// ModePerSample shows one row at a time.
	ModePerSample Mode = "per-sample"
	// ModeOverall shows aggregate statistics across the dataset.
	ModeOverall Mode = "overall"
)

// Session tracks the review cursor over a dataset. The zero row is selected
// initially and every movement clamps into the valid row range, so the cursor
// can never leave the dataset.
type Session struct {
	mu        sync.Mutex
	table     *dataset.Table
	index     int
	mode      Mode
	threshold int
}

// NewSession starts a per-sample session at row zero.
func NewSession(table *dataset.Table, threshold int) *Session {
	return &Session{table: table, mode: ModePerSample, threshold: threshold}
}

// Index returns the current row.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Mode returns the current display mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Threshold returns the session's similarity threshold.
func (s *Session) Threshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// SetThreshold updates the similarity threshold, rejecting values outside
// 0-100.
func (s *Session) SetThreshold(v int) error {
	if v < 0 || v > 100 {
		detail := fmt.Sprintf("threshold %d out of range 0-100", v)
		return faults.Wrap(faults.ErrValidation, component, "threshold", detail, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = v
	return nil
}

// SetMode switches between per-sample and overall display.
func (s *Session) SetMode(m Mode) error {
	if m != ModePerSample && m != ModeOverall {
		detail := fmt.Sprintf("unknown mode %q", m)
		return faults.Wrap(faults.ErrValidation, component, "mode", detail, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	return nil
}

// Next advances the cursor and returns the resulting row.
func (s *Session) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.clamp(s.index + 1)
	return s.index
}

// Previous moves the cursor back and returns the resulting row.
func (s *Session) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.clamp(s.index - 1)
	return s.index
}

// Select jumps to a row, clamped into range, and returns the resulting row.
func (s *Session) Select(row int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.clamp(row)
	return s.index
}

func (s *Session) clamp(row int) int {
	last := s.table.RowCount() - 1
	if last < 0 {
		return 0
	}
	if row < 0 {
		return 0
	}
	if row > last {
		return last
	}
	return row
}

// LocatorSource reports where a view's image locator came from.
type LocatorSource string

const (
	// LocatorFromJSON means the record payload carried an image_url.
	LocatorFromJSON LocatorSource = "json"
	// LocatorFromColumn means the fallback dataset column supplied it.
	LocatorFromColumn LocatorSource = "column"
)

// View is everything the per-sample screen needs for one row.
type View struct {
	Row           int              `json:"row"`
	Rows          int              `json:"rows"`
	Threshold     int              `json:"threshold"`
	Record        *record.Record   `json:"record"`
	Results       []scoring.Result `json:"results"`
	Locator       string           `json:"locator,omitempty"`
	LocatorSource LocatorSource    `json:"locator_source,omitempty"`
}

// Build assembles the view for one dataset row: the parsed record, its scored
// fields, and the resolved image locator. A row whose payload is empty or
// unparseable fails with a parse error naming the row; it never affects other
// rows.
func Build(table *dataset.Table, row, threshold int) (*View, error) {
	cell, err := table.JSONCell(row)
	if err != nil {
		return nil, err
	}
	if cell == "" {
		detail := fmt.Sprintf("row %d has no JSON payload", row)
		return nil, faults.Wrap(faults.ErrParse, component, "build", detail, nil)
	}
	rec, err := record.Parse([]byte(cell))
	if err != nil {
		return nil, faults.Wrap(faults.ErrParse, component, "build", fmt.Sprintf("row %d", row), err)
	}

	view := &View{
		Row:       row,
		Rows:      table.RowCount(),
		Threshold: threshold,
		Record:    rec,
		Results:   scoring.EvaluateRecord(rec, threshold),
	}
	switch {
	case rec.ImageURL != "":
		view.Locator = rec.ImageURL
		view.LocatorSource = LocatorFromJSON
	case table.ImageCell(row) != "":
		view.Locator = table.ImageCell(row)
		view.LocatorSource = LocatorFromColumn
	}
	return view, nil
}

// RequireLocator returns the view's image locator or a configuration error
// when the row has none. Views without a locator still render their tables;
// only image operations need this.
func (v *View) RequireLocator() (string, error) {
	if v.Locator == "" {
		detail := fmt.Sprintf("row %d has no image locator in the record JSON or the dataset", v.Row)
		return "", faults.Wrap(faults.ErrConfiguration, component, "locator", detail, nil)
	}
	return v.Locator, nil
}
