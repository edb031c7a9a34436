// Package view keeps the state behind one displayed grid: which columns are
// shown, the query filtering rows, the sort cycled by header clicks and the
// display options.
package view

import (
	"fmt"
	"sync"

	"dgb/datatable"
	"dgb/internal/filter"
)

// View renders a fixed set of rows under changing presentation settings.
// It is safe for concurrent use.
type View struct {
	mu sync.RWMutex

	rows      []datatable.Row
	available []datatable.Column
	columns   []datatable.Column
	opts      datatable.Options
	query     string
}

// New creates a view over rows showing every available column.
func New(rows []datatable.Row, available []datatable.Column, opts datatable.Options) *View {
	cols := make([]datatable.Column, len(available))
	copy(cols, available)
	opts.Sort = datatable.Unsorted
	opts.Filter = nil
	return &View{
		rows:      rows,
		available: cols,
		columns:   append([]datatable.Column(nil), cols...),
		opts:      opts,
	}
}

// RowCount is the number of rows before filtering.
func (v *View) RowCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rows)
}

// Available returns every column the rows can be shown through.
func (v *View) Available() []datatable.Column {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]datatable.Column(nil), v.available...)
}

// Columns returns the displayed columns in order.
func (v *View) Columns() []datatable.Column {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]datatable.Column(nil), v.columns...)
}

// ColumnKeys returns the accessor keys of the displayed columns.
func (v *View) ColumnKeys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]string, len(v.columns))
	for i, c := range v.columns {
		keys[i] = c.AccessorKey
	}
	return keys
}

// SetColumns shows the available columns named by keys, in that order. An
// empty list shows every column. The sort is cleared.
func (v *View) SetColumns(keys []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(keys) == 0 {
		v.columns = append([]datatable.Column(nil), v.available...)
	} else {
		cols, err := datatable.SelectColumns(v.available, keys)
		if err != nil {
			return err
		}
		v.columns = cols
	}
	v.opts.Sort = datatable.Unsorted
	return nil
}

// Configure overlays titles and renderers from configured columns onto the
// available columns with the same accessor key, then shows the configured
// columns in their configured order. Configured keys the rows do not have
// are an error and leave the view unchanged.
func (v *View) Configure(configured []datatable.Column) error {
	if len(configured) == 0 {
		return nil
	}
	if err := datatable.ValidateColumns(configured); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	index := make(map[string]int, len(v.available))
	for i, c := range v.available {
		index[c.AccessorKey] = i
	}
	for _, c := range configured {
		if _, ok := index[c.AccessorKey]; !ok {
			return fmt.Errorf("%w: %s", datatable.ErrColumnNotFound, c.AccessorKey)
		}
	}

	shown := make([]datatable.Column, len(configured))
	for i, c := range configured {
		pos := index[c.AccessorKey]
		if c.Title != "" {
			v.available[pos].Title = c.Title
		}
		if c.Render != nil {
			v.available[pos].Render = c.Render
		}
		shown[i] = v.available[pos]
	}
	v.columns = shown
	v.opts.Sort = datatable.Unsorted
	return nil
}

// SetRenderer replaces the renderer of the column with the given accessor
// key. A nil renderer restores default formatting.
func (v *View) SetRenderer(key string, render datatable.CellRenderer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	found := false
	for _, cols := range [][]datatable.Column{v.available, v.columns} {
		for i := range cols {
			if cols[i].AccessorKey == key {
				cols[i].Render = render
				found = true
			}
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", datatable.ErrColumnNotFound, key)
	}
	return nil
}

// Query returns the current filter query text.
func (v *View) Query() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.query
}

// SetQuery parses query against the available columns and filters rows by
// it. A blank query removes the filter.
func (v *View) SetQuery(query string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	keys := make([]string, len(v.available))
	for i, c := range v.available {
		keys[i] = c.AccessorKey
	}
	q, err := filter.Parse(query, keys)
	if err != nil {
		return err
	}

	v.query = query
	if q == nil {
		v.opts.Filter = nil
	} else {
		v.opts.Filter = q
	}
	return nil
}

// Options returns the display options, including the active filter and sort.
func (v *View) Options() datatable.Options {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opts
}

// SetOptions replaces the display flags and empty text. The filter and sort
// are kept.
func (v *View) SetOptions(opts datatable.Options) {
	v.mu.Lock()
	defer v.mu.Unlock()
	opts.Filter = v.opts.Filter
	opts.Sort = v.opts.Sort
	v.opts = opts
}

// Sort returns the current sort state.
func (v *View) Sort() datatable.SortState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opts.Sort
}

// SetSort sorts by a displayed column index.
func (v *View) SetSort(s datatable.SortState) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s.IsSorted() && s.Column >= len(v.columns) {
		return fmt.Errorf("%w: %d", datatable.ErrInvalidSortColumn, s.Column)
	}
	if !s.IsSorted() {
		s = datatable.Unsorted
	}
	v.opts.Sort = s
	return nil
}

// CycleSort advances the sort of a displayed column the way a header click
// does. Clicking a different column starts it ascending.
func (v *View) CycleSort(col int) (datatable.SortState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cur := v.opts.Sort
	if col < 0 || col >= len(v.columns) {
		return cur, fmt.Errorf("%w: %d", datatable.ErrInvalidSortColumn, col)
	}
	next := datatable.SortState{Column: col, Direction: datatable.SortAscending}
	if cur.Column == col {
		next.Direction = cur.Direction.Next()
	}
	if !next.IsSorted() {
		next = datatable.Unsorted
	}
	v.opts.Sort = next
	return next, nil
}

// Render renders the rows under the current settings.
func (v *View) Render() (*datatable.Rendering, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return datatable.Render(v.rows, v.columns, v.opts)
}
