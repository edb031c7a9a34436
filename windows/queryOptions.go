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

package windows

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/apache/arrow-go/v18/arrow"

	"dgb/datatable"
	"dgb/internal/view"
)

var (
	errNoColumns    = errors.New("please select at least one column")
	errInvalidLimit = errors.New("invalid limit: must be a positive number")
)

// QueryOptions selects what to fetch of a shared table.
type QueryOptions struct {
	SelectedColumns []string
	Query           string
	Limit           int64
}

// GridSettings is everything the grid options dialog edits on a view.
type GridSettings struct {
	Columns []string
	Query   string
	Options datatable.Options
}

// SettingsOf captures the current settings of v.
func SettingsOf(v *view.View) GridSettings {
	return GridSettings{
		Columns: v.ColumnKeys(),
		Query:   v.Query(),
		Options: v.Options(),
	}
}

// Apply sets s on v. The query is checked first so a bad query leaves v
// untouched.
func (s GridSettings) Apply(v *view.View) error {
	if len(s.Columns) == 0 {
		return errNoColumns
	}
	old := v.Query()
	if err := v.SetQuery(s.Query); err != nil {
		return err
	}
	if err := v.SetColumns(s.Columns); err != nil {
		_ = v.SetQuery(old)
		return err
	}
	v.SetOptions(s.Options)
	return nil
}

// parseLimit reads a row limit. Blank means no limit and returns -1.
func parseLimit(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return -1, nil
	}
	limit, err := strconv.ParseInt(text, 10, 64)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}
	return limit, nil
}

// columnChecks is an ordered list of column check boxes with select all
// and deselect all buttons.
type columnChecks struct {
	keys   []string
	checks []*widget.Check
}

func newColumnChecks(keys, labels []string, checked func(string) bool) *columnChecks {
	cc := &columnChecks{keys: keys}
	for i, k := range keys {
		check := widget.NewCheck(labels[i], nil)
		check.SetChecked(checked(k))
		cc.checks = append(cc.checks, check)
	}
	return cc
}

func (cc *columnChecks) selected() []string {
	var keys []string
	for i, check := range cc.checks {
		if check.Checked {
			keys = append(keys, cc.keys[i])
		}
	}
	return keys
}

func (cc *columnChecks) setAll(on bool) {
	for _, check := range cc.checks {
		check.SetChecked(on)
	}
}

func (cc *columnChecks) content() fyne.CanvasObject {
	boxes := container.NewVBox()
	for _, check := range cc.checks {
		boxes.Add(check)
	}
	scroll := container.NewVScroll(boxes)
	scroll.SetMinSize(fyne.NewSize(400, 180))
	buttons := container.NewHBox(
		widget.NewButton("Select All", func() { cc.setAll(true) }),
		widget.NewButton("Deselect All", func() { cc.setAll(false) }),
	)
	return container.NewBorder(buttons, nil, nil, nil, scroll)
}

func boldLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}

func helpLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Italic: true}
	return l
}

// ShowGridOptionsDialog edits the columns, query and display flags of v and
// passes the result to onApply.
func ShowGridOptionsDialog(w fyne.Window, v *view.View, onApply func(GridSettings)) {
	cur := SettingsOf(v)
	shown := make(map[string]bool, len(cur.Columns))
	for _, k := range cur.Columns {
		shown[k] = true
	}

	var keys, labels []string
	for _, c := range v.Available() {
		keys = append(keys, c.AccessorKey)
		labels = append(labels, c.Header())
	}
	cols := newColumnChecks(keys, labels, func(k string) bool { return shown[k] })

	query := widget.NewEntry()
	query.SetText(cur.Query)
	query.SetPlaceHolder("e.g., age > 25 AND status = 'active'")

	emptyText := widget.NewEntry()
	emptyText.SetText(cur.Options.EmptyText)

	header := widget.NewCheck("Show header", nil)
	header.SetChecked(cur.Options.ShowHeader)
	transpose := widget.NewCheck("Transpose", nil)
	transpose.SetChecked(cur.Options.Transpose)
	striped := widget.NewCheck("Striped", nil)
	striped.SetChecked(cur.Options.Striped)
	bordered := widget.NewCheck("Bordered", nil)
	bordered.SetChecked(cur.Options.Bordered)
	condensed := widget.NewCheck("Condensed", nil)
	condensed.SetChecked(cur.Options.Condensed)
	responsive := widget.NewCheck("Responsive", nil)
	responsive.SetChecked(cur.Options.Responsive)

	content := container.NewVBox(
		boldLabel("Columns:"),
		cols.content(),
		widget.NewSeparator(),
		boldLabel("Filter:"),
		query,
		helpLabel("Leave empty for no filtering. Operators: = != > < >= <= ~ joined by AND/OR."),
		widget.NewSeparator(),
		boldLabel("Display:"),
		container.NewGridWithColumns(3, header, transpose, striped, bordered, condensed, responsive),
		widget.NewForm(widget.NewFormItem("Empty text", emptyText)),
	)

	d := dialog.NewCustomConfirm("Grid Options", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		opts := cur.Options
		opts.ShowHeader = header.Checked
		opts.Transpose = transpose.Checked
		opts.Striped = striped.Checked
		opts.Bordered = bordered.Checked
		opts.Condensed = condensed.Checked
		opts.Responsive = responsive.Checked
		opts.EmptyText = emptyText.Text

		settings := GridSettings{
			Columns: cols.selected(),
			Query:   strings.TrimSpace(query.Text),
			Options: opts,
		}
		if len(settings.Columns) == 0 {
			dialog.ShowError(errNoColumns, w)
			return
		}
		if onApply != nil {
			onApply(settings)
		}
	}, w)
	d.Resize(fyne.NewSize(520, 640))
	d.Show()
}

// ShowQueryOptionsDialog asks which columns and how many rows of a shared
// table to load, given its schema.
func ShowQueryOptionsDialog(w fyne.Window, schema *arrow.Schema, defaultLimit int64, callback func(*QueryOptions)) {
	var keys, labels []string
	for _, field := range schema.Fields() {
		keys = append(keys, field.Name)
		labels = append(labels, fmt.Sprintf("%s (%s)", field.Name, field.Type))
	}
	cols := newColumnChecks(keys, labels, func(string) bool { return true })

	query := widget.NewMultiLineEntry()
	query.SetPlaceHolder("e.g., age > 25 AND status = 'active'")
	query.SetMinRowsVisible(3)

	limit := widget.NewEntry()
	limit.SetPlaceHolder("Leave empty for all rows, or enter a number (e.g., 1000)")
	if defaultLimit > 0 {
		limit.SetText(strconv.FormatInt(defaultLimit, 10))
	}

	content := container.NewVBox(
		boldLabel("Select Columns:"),
		cols.content(),
		widget.NewSeparator(),
		boldLabel("Filter:"),
		query,
		helpLabel("Leave empty for no filtering."),
		widget.NewSeparator(),
		boldLabel("Row Limit:"),
		limit,
		helpLabel("Maximum number of rows to load. Leave empty to load all rows."),
	)

	d := dialog.NewCustomConfirm("Query Options", "Load Data", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		opts := &QueryOptions{
			SelectedColumns: cols.selected(),
			Query:           strings.TrimSpace(query.Text),
		}
		if len(opts.SelectedColumns) == 0 {
			dialog.ShowError(errNoColumns, w)
			return
		}
		n, err := parseLimit(limit.Text)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		opts.Limit = n
		if callback != nil {
			callback(opts)
		}
	}, w)
	d.Resize(fyne.NewSize(500, 600))
	d.Show()
}
