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
	"fmt"

	"fyne.io/fyne/v2/container"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/internal/source"
	"dgb/internal/view"
	dgbwidget "dgb/widget"
)

// Data is one open grid tab.
type Data struct {
	ID      uuid.UUID
	Name    string
	View    *view.View
	Grid    *dgbwidget.GridTable
	Dataset *source.Dataset

	tab *container.TabItem
}

// DataBrowser manages the grid tabs shown inside the Browser tab.
type DataBrowser struct {
	logger         *zap.Logger
	docTabs        *container.DocTabs
	innerTabs      *container.DocTabs
	browserTab     *container.TabItem
	tabs           map[*container.TabItem]*Data
	statusCallback func(string)

	defaults   datatable.Options
	configured []datatable.Column
}

// NewDataBrowser creates the Browser tab inside docTabs. New grids start
// with defaults and the configured columns, when they fit the data.
func NewDataBrowser(docTabs *container.DocTabs, defaults datatable.Options, configured []datatable.Column, logger *zap.Logger, status func(string)) *DataBrowser {
	b := &DataBrowser{
		logger:         logger,
		docTabs:        docTabs,
		tabs:           make(map[*container.TabItem]*Data),
		statusCallback: status,
		defaults:       defaults,
		configured:     configured,
	}

	b.innerTabs = container.NewDocTabs()
	b.innerTabs.SetTabLocation(container.TabLocationBottom)
	b.innerTabs.CloseIntercept = b.closeTab
	b.innerTabs.OnSelected = func(ti *container.TabItem) {
		if d, ok := b.tabs[ti]; ok {
			b.setStatus(b.StatusText(d))
		}
	}

	b.browserTab = container.NewTabItem("Browser", b.innerTabs)
	b.docTabs.Append(b.browserTab)
	return b
}

// Open adds a tab showing d and selects it.
func (b *DataBrowser) Open(d *source.Dataset) (*Data, error) {
	v := view.New(d.Rows, d.Columns, b.defaults)
	if err := v.Configure(b.configured); err != nil {
		b.logger.Warn("configured columns do not fit dataset, showing all columns",
			zap.String("dataset", d.Name), zap.Error(err))
	}

	r, err := v.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", d.Name, err)
	}

	data := &Data{
		ID:      uuid.New(),
		Name:    d.Name,
		View:    v,
		Grid:    dgbwidget.NewGridTable(r),
		Dataset: d,
	}
	data.Grid.OnHeaderTapped = func(col int) {
		if _, err := v.CycleSort(col); err != nil {
			b.logger.Warn("sort failed", zap.Int("column", col), zap.Error(err))
			return
		}
		if err := b.Refresh(data); err != nil {
			b.setStatus("Error: " + err.Error())
		}
	}
	data.Grid.OnSelectionChanged = func(s *datatable.Selection) {
		b.setStatus(fmt.Sprintf("%s | %d cells selected", b.StatusText(data), s.Len()))
	}

	data.tab = container.NewTabItem(d.Name, data.Grid)
	b.tabs[data.tab] = data
	b.innerTabs.Append(data.tab)
	b.innerTabs.Select(data.tab)

	b.ensureBrowserTab()
	b.docTabs.Select(b.browserTab)

	b.logger.Info("opened grid",
		zap.String("id", data.ID.String()),
		zap.String("name", d.Name),
		zap.Int("rows", len(d.Rows)),
		zap.Int("columns", len(d.Columns)))
	b.setStatus(b.StatusText(data))
	return data, nil
}

// Current returns the selected grid, or nil.
func (b *DataBrowser) Current() *Data {
	if b.innerTabs.Selected() == nil {
		return nil
	}
	return b.tabs[b.innerTabs.Selected()]
}

// Len returns the number of open grids.
func (b *DataBrowser) Len() int { return len(b.tabs) }

// Refresh re-renders d after its view changed.
func (b *DataBrowser) Refresh(d *Data) error {
	r, err := d.View.Render()
	if err != nil {
		return err
	}
	d.Grid.SetRendering(r)
	b.setStatus(b.StatusText(d))
	return nil
}

// StatusText summarises d for the status bar.
func (b *DataBrowser) StatusText(d *Data) string {
	r := d.Grid.Rendering()
	total := d.View.RowCount()
	cols := len(d.View.Columns())
	all := len(d.View.Available())

	shown := 0
	if r != nil {
		shown = r.RowCount
	}

	var text string
	if shown != total || cols != all {
		text = fmt.Sprintf("Table %s (showing %d/%d columns x %d/%d rows)", d.Name, cols, all, shown, total)
	} else {
		text = fmt.Sprintf("Table %s (%d columns x %d rows)", d.Name, cols, total)
	}

	if q := d.View.Query(); q != "" {
		text += " | Filter: " + q
	}
	if s := d.View.Sort(); s.IsSorted() {
		name := d.View.Columns()[s.Column].Header()
		arrow := "↑"
		if s.Direction == datatable.SortDescending {
			arrow = "↓"
		}
		text += fmt.Sprintf(" | Sorted: %s %s", name, arrow)
	}
	return text
}

func (b *DataBrowser) closeTab(ti *container.TabItem) {
	if d, ok := b.tabs[ti]; ok {
		b.logger.Debug("closed grid", zap.String("id", d.ID.String()), zap.String("name", d.Name))
		delete(b.tabs, ti)
	}
	b.innerTabs.Remove(ti)

	if sel := b.innerTabs.Selected(); sel != nil {
		if d, ok := b.tabs[sel]; ok {
			b.setStatus(b.StatusText(d))
		}
		return
	}
	b.setStatus("Ready")
}

// ensureBrowserTab re-adds the Browser tab if the user closed it.
func (b *DataBrowser) ensureBrowserTab() {
	for _, item := range b.docTabs.Items {
		if item == b.browserTab {
			return
		}
	}
	b.browserTab = container.NewTabItem("Browser", b.innerTabs)
	b.docTabs.Append(b.browserTab)
}

func (b *DataBrowser) setStatus(text string) {
	if b.statusCallback != nil {
		b.statusCallback(text)
	}
}
