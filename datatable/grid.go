// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"fmt"
	"sort"
)

// Options configures a Grid. The zero value renders without a header,
// unstyled and unsorted.
type Options struct {
	// ShowHeader renders the column titles (the first column when transposed).
	ShowHeader bool
	// Transpose swaps rows and columns in the rendered structure.
	Transpose bool
	// EmptyText is shown when rows were given but none passed the filter.
	EmptyText string

	Striped    bool
	Bordered   bool
	Condensed  bool
	Responsive bool

	// Filter, when set, drops rows before rendering.
	Filter Filter
	// Sort orders the rendered rows by a column index.
	Sort SortState
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ShowHeader: true,
		EmptyText:  "No data",
		Sort:       Unsorted,
	}
}

// Grid renders rows through an ordered set of columns.
type Grid struct {
	columns []Column
	opts    Options
}

// NewGrid creates a grid over columns. The slice is copied; the caller keeps
// ownership of the original.
func NewGrid(columns []Column, opts Options) *Grid {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Grid{columns: cols, opts: opts}
}

// Columns returns a copy of the grid's columns.
func (g *Grid) Columns() []Column {
	cols := make([]Column, len(g.columns))
	copy(cols, g.columns)
	return cols
}

// Options returns the grid's options.
func (g *Grid) Options() Options {
	return g.opts
}

// Render is shorthand for NewGrid(columns, opts).Render(rows).
func Render(rows []Row, columns []Column, opts Options) (*Rendering, error) {
	return NewGrid(columns, opts).Render(rows)
}

// Render maps rows into a Rendering. rows are read only: the filter and the
// sort work on a separate index, never on the slice itself.
//
// No rows or no columns produce an empty Rendering with nothing to draw.
// Rows that are all rejected by the filter produce the empty state, which
// carries EmptyText.
func (g *Grid) Render(rows []Row) (*Rendering, error) {
	r := &Rendering{
		Transposed: g.opts.Transpose,
		ShowHeader: g.opts.ShowHeader,
		Striped:    g.opts.Striped,
		Bordered:   g.opts.Bordered,
		Condensed:  g.opts.Condensed,
		Responsive: g.opts.Responsive,
	}
	if len(rows) == 0 || len(g.columns) == 0 {
		return r, nil
	}

	index, err := g.selectRows(rows)
	if err != nil {
		return nil, err
	}
	if err := g.sortRows(rows, index); err != nil {
		return nil, err
	}

	r.ColumnCount = len(g.columns)
	r.RowCount = len(index)
	r.SourceRows = index
	r.Titles = make([]string, len(g.columns))
	for c, col := range g.columns {
		r.Titles[c] = col.Header()
	}

	if g.opts.ShowHeader {
		titles := make([]HeaderCell, len(g.columns))
		for c, text := range r.Titles {
			titles[c] = HeaderCell{Column: c, Text: text}
		}
		if g.opts.Transpose {
			r.RowHeaders = titles
		} else {
			r.Header = titles
		}
	}

	if len(index) == 0 {
		r.Empty = true
		r.EmptyText = g.opts.EmptyText
		return r, nil
	}

	cells := make([][]Cell, len(g.columns))
	for c, col := range g.columns {
		cells[c] = make([]Cell, len(index))
		for pos, src := range index {
			raw := rows[src][col.AccessorKey]
			cells[c][pos] = Cell{
				Key:    Encode(c, pos),
				Column: c,
				Row:    pos,
				Raw:    raw,
				Text:   col.Display(raw),
			}
		}
	}

	if g.opts.Transpose {
		r.Body = cells
		return r, nil
	}

	r.Body = make([][]Cell, len(index))
	for pos := range index {
		line := make([]Cell, len(g.columns))
		for c := range g.columns {
			line[c] = cells[c][pos]
		}
		r.Body[pos] = line
	}
	return r, nil
}

func (g *Grid) selectRows(rows []Row) ([]int, error) {
	index := make([]int, 0, len(rows))
	for i, row := range rows {
		if g.opts.Filter != nil {
			ok, err := g.opts.Filter.Evaluate(row)
			if err != nil {
				return nil, fmt.Errorf("filter %s on row %d: %w", g.opts.Filter.Description(), i, err)
			}
			if !ok {
				continue
			}
		}
		index = append(index, i)
	}
	return index, nil
}

func (g *Grid) sortRows(rows []Row, index []int) error {
	s := g.opts.Sort
	if !s.IsSorted() {
		return nil
	}
	if s.Column >= len(g.columns) {
		return fmt.Errorf("%w: %d", ErrInvalidSortColumn, s.Column)
	}
	key := g.columns[s.Column].AccessorKey
	sort.SliceStable(index, func(i, j int) bool {
		a, b := rows[index[i]][key], rows[index[j]][key]
		if s.Direction == SortDescending {
			return CompareRaw(b, a) < 0
		}
		return CompareRaw(a, b) < 0
	})
	return nil
}

// HeaderCell is a column title.
type HeaderCell struct {
	Column int
	Text   string
}

// Cell is one rendered data cell. Column and Row are logical positions: Row
// counts rendered rows after filtering and sorting, and neither changes when
// the grid is transposed.
type Cell struct {
	Key    CellKey
	Column int
	Row    int
	Raw    interface{}
	Text   string
}

// Rendering is the display structure produced by Grid.Render.
type Rendering struct {
	// Header holds the column titles of an untransposed grid with a header.
	Header []HeaderCell
	// RowHeaders holds the column titles of a transposed grid with a header;
	// RowHeaders[i] labels Body[i].
	RowHeaders []HeaderCell
	// Body holds display rows of data cells.
	Body [][]Cell

	// Empty marks the empty state; EmptyText is what to show in its place.
	Empty     bool
	EmptyText string

	Transposed bool
	ShowHeader bool
	Striped    bool
	Bordered   bool
	Condensed  bool
	Responsive bool

	// RowCount and ColumnCount are the logical data dimensions.
	RowCount    int
	ColumnCount int
	// SourceRows maps a logical row to its index in the input rows.
	SourceRows []int
	// Titles holds the column titles even when no header is shown.
	Titles []string
}

// IsBlank reports whether there is nothing at all to draw.
func (r *Rendering) IsBlank() bool {
	return r == nil || (len(r.Header) == 0 && len(r.RowHeaders) == 0 && len(r.Body) == 0 && !r.Empty)
}

// Cell looks a data cell up by key.
func (r *Rendering) Cell(key CellKey) (Cell, bool) {
	c := Decode(key)
	if !c.Valid() || c.Col >= r.ColumnCount || c.Row >= r.RowCount || r.Empty {
		return Cell{}, false
	}
	if r.Transposed {
		return r.Body[c.Col][c.Row], true
	}
	return r.Body[c.Row][c.Col], true
}

// LogicalRow returns the cells of logical row pos in column order,
// whichever way the rendering is oriented.
func (r *Rendering) LogicalRow(pos int) []Cell {
	if r.Empty || pos < 0 || pos >= r.RowCount {
		return nil
	}
	if !r.Transposed {
		return r.Body[pos]
	}
	line := make([]Cell, r.ColumnCount)
	for c := range line {
		line[c] = r.Body[c][pos]
	}
	return line
}

// Lines flattens the rendering into display lines of text, header first and
// row titles leading each line when transposed. The empty state yields only
// the header.
func (r *Rendering) Lines() [][]string {
	if r.IsBlank() {
		return nil
	}

	var lines [][]string
	if len(r.Header) > 0 {
		line := make([]string, len(r.Header))
		for i, h := range r.Header {
			line[i] = h.Text
		}
		lines = append(lines, line)
	}

	if r.Empty && r.Transposed {
		for _, h := range r.RowHeaders {
			lines = append(lines, []string{h.Text})
		}
		return lines
	}

	for i, body := range r.Body {
		line := make([]string, 0, len(body)+1)
		if i < len(r.RowHeaders) {
			line = append(line, r.RowHeaders[i].Text)
		}
		for _, cell := range body {
			line = append(line, cell.Text)
		}
		lines = append(lines, line)
	}
	return lines
}

// Stride is the row stride to pass to SortKeys for keys of this rendering.
func (r *Rendering) Stride() int {
	if r.ColumnCount > r.RowCount {
		return r.ColumnCount
	}
	return r.RowCount
}
