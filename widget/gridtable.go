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

// Package widget provides the Fyne widget that displays a rendered grid.
package widget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dgb/datatable"
)

// DefaultColumnWidth is the initial width of every display column.
const DefaultColumnWidth float32 = 120

// Layout is the display form of a Rendering: one text per visible cell and
// the key of the data cell drawn there. Header and title cells have an empty
// key.
type Layout struct {
	Text [][]string
	Keys [][]datatable.CellKey
	// HeaderRows and TitleCols count the leading rows and columns that hold
	// titles rather than data.
	HeaderRows int
	TitleCols  int
}

// LayoutOf lays r out the way it is drawn. The empty state becomes a row
// holding EmptyText below the header.
func LayoutOf(r *datatable.Rendering) Layout {
	var l Layout
	if r.IsBlank() {
		return l
	}

	if len(r.Header) > 0 {
		l.HeaderRows = 1
		line := make([]string, len(r.Header))
		for i, h := range r.Header {
			line[i] = h.Text
		}
		l.Text = append(l.Text, line)
		l.Keys = append(l.Keys, make([]datatable.CellKey, len(line)))
	}
	if len(r.RowHeaders) > 0 {
		l.TitleCols = 1
	}

	if r.Empty {
		for _, h := range r.RowHeaders {
			l.Text = append(l.Text, []string{h.Text})
			l.Keys = append(l.Keys, make([]datatable.CellKey, 1))
		}
		l.Text = append(l.Text, []string{r.EmptyText})
		l.Keys = append(l.Keys, make([]datatable.CellKey, 1))
		return l
	}

	for i, body := range r.Body {
		text := make([]string, 0, len(body)+l.TitleCols)
		keys := make([]datatable.CellKey, 0, len(body)+l.TitleCols)
		if l.TitleCols > 0 {
			text = append(text, r.RowHeaders[i].Text)
			keys = append(keys, "")
		}
		for _, cell := range body {
			text = append(text, cell.Text)
			keys = append(keys, cell.Key)
		}
		l.Text = append(l.Text, text)
		l.Keys = append(l.Keys, keys)
	}
	return l
}

// Size returns the display row and column counts.
func (l Layout) Size() (rows, cols int) {
	for _, line := range l.Text {
		cols = max(cols, len(line))
	}
	return len(l.Text), cols
}

// At returns the text and key at a display position; positions past a short
// line are empty.
func (l Layout) At(row, col int) (string, datatable.CellKey) {
	if row < 0 || row >= len(l.Text) || col < 0 || col >= len(l.Text[row]) {
		return "", ""
	}
	return l.Text[row][col], l.Keys[row][col]
}

// GridTable shows a Rendering in a Fyne table. Tapping a data cell toggles
// its key in the selection; Copy places the selected text on the clipboard.
type GridTable struct {
	widget.BaseWidget

	// OnSelectionChanged is called after a tap changes the selection.
	OnSelectionChanged func(*datatable.Selection)
	// OnHeaderTapped is called with the column index when a header cell is
	// tapped.
	OnHeaderTapped func(col int)

	table     *widget.Table
	rendering *datatable.Rendering
	layout    Layout
	selection *datatable.Selection
}

// NewGridTable creates a table showing r.
func NewGridTable(r *datatable.Rendering) *GridTable {
	g := &GridTable{selection: datatable.NewSelection()}
	g.table = widget.NewTable(g.length, g.createCell, g.updateCell)
	g.table.OnSelected = g.tapped
	g.ExtendBaseWidget(g)
	g.SetRendering(r)
	return g
}

// SetRendering replaces the displayed grid and clears the selection, since
// keys of the old rendering address different cells in the new one.
func (g *GridTable) SetRendering(r *datatable.Rendering) {
	g.rendering = r
	g.layout = LayoutOf(r)
	g.selection.Clear()

	_, cols := g.layout.Size()
	for c := 0; c < cols; c++ {
		g.table.SetColumnWidth(c, DefaultColumnWidth)
	}
	g.table.Refresh()
}

// Rendering returns the displayed grid.
func (g *GridTable) Rendering() *datatable.Rendering { return g.rendering }

// Selection returns the live selection.
func (g *GridTable) Selection() *datatable.Selection { return g.selection }

// SelectedText returns the selected cells as tab and newline separated text.
func (g *GridTable) SelectedText() string {
	return g.selection.Text(g.rendering)
}

// Copy puts the selected text on the clipboard and returns it.
func (g *GridTable) Copy() string {
	text := g.SelectedText()
	if app := fyne.CurrentApp(); app != nil && text != "" {
		app.Clipboard().SetContent(text)
	}
	return text
}

// TypedShortcut copies on the platform copy shortcut.
func (g *GridTable) TypedShortcut(s fyne.Shortcut) {
	if _, ok := s.(*fyne.ShortcutCopy); ok {
		g.Copy()
	}
}

// CreateRenderer implements fyne.Widget.
func (g *GridTable) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.table)
}

func (g *GridTable) length() (int, int) {
	return g.layout.Size()
}

func (g *GridTable) createCell() fyne.CanvasObject {
	bg := canvas.NewRectangle(color.Transparent)
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	return container.NewStack(bg, label)
}

func (g *GridTable) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	stack := o.(*fyne.Container)
	bg := stack.Objects[0].(*canvas.Rectangle)
	label := stack.Objects[1].(*widget.Label)

	text, key := g.layout.At(id.Row, id.Col)
	label.SetText(text)

	title := id.Row < g.layout.HeaderRows || (id.Col < g.layout.TitleCols && key == "")
	label.TextStyle = fyne.TextStyle{Bold: title}

	switch {
	case key != "" && g.selection.Contains(key):
		bg.FillColor = theme.Color(theme.ColorNameSelection)
	case title:
		bg.FillColor = theme.Color(theme.ColorNameHeaderBackground)
	case g.rendering != nil && g.rendering.Striped && (id.Row-g.layout.HeaderRows)%2 == 1:
		bg.FillColor = theme.Color(theme.ColorNameInputBackground)
	default:
		bg.FillColor = color.Transparent
	}
	bg.Refresh()
	label.Refresh()
}

func (g *GridTable) tapped(id widget.TableCellID) {
	defer g.table.UnselectAll()

	if id.Row < g.layout.HeaderRows {
		if g.OnHeaderTapped != nil {
			g.OnHeaderTapped(id.Col)
		}
		return
	}
	if id.Col < g.layout.TitleCols {
		if title := id.Row - g.layout.HeaderRows; title < len(g.rendering.RowHeaders) && g.OnHeaderTapped != nil {
			g.OnHeaderTapped(title)
		}
		return
	}

	_, key := g.layout.At(id.Row, id.Col)
	if key == "" {
		return
	}
	g.selection.Toggle(key)
	g.table.Refresh()
	if g.OnSelectionChanged != nil {
		g.OnSelectionChanged(g.selection)
	}
}
