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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"dgb/adapters/deltasharing"
	"dgb/internal/source"
)

// busy shows an infinite progress dialog and returns the function hiding
// it. Both must run on the UI goroutine.
func (t *MainWindow) busy(title string) func() {
	bar := widget.NewProgressBarInfinite()
	d := dialog.NewCustomWithoutButtons(title, bar, t.w)
	d.Resize(fyne.NewSize(300, 100))
	d.Show()
	return func() {
		bar.Stop()
		d.Hide()
	}
}

// fail reports err on the UI goroutine.
func (t *MainWindow) fail(what string, err error) {
	t.logger.Error(what, zap.Error(err))
	t.SetStatus(fmt.Sprintf("Error %s: %v", what, err))
	dialog.ShowError(err, t.w)
}

// OpenPath opens a data file in a new grid, or a Delta Sharing profile in
// the navigation tree.
func (t *MainWindow) OpenPath(path string) {
	content, _ := os.ReadFile(path)
	if source.DetectFileType(path, content) == source.FileTypeDeltaSharingProfile {
		t.LoadProfile(path, string(content))
		return
	}
	t.handleDataFileLoad(path)
}

// handleDataFileLoad loads path in the background and opens it.
func (t *MainWindow) handleDataFileLoad(path string) {
	name := filepath.Base(path)
	t.SetStatus("Loading file: " + name)
	done := t.busy("Loading " + name + "...")

	go func() {
		d, err := source.Load(context.Background(), path, source.Options{Limit: t.cfg.RowLimit})
		fyne.Do(func() {
			done()
			if err != nil {
				t.fail("loading file", err)
				return
			}
			if _, err := t.browser.Open(d); err != nil {
				t.fail("opening grid", err)
				return
			}
			t.SetStatus("Loaded " + d.Summary())
		})
	}()
}

// LoadProfile connects with a profile and fills the navigation tree.
func (t *MainWindow) LoadProfile(path, profile string) {
	client, err := deltasharing.NewClient(profile, t.cfg.APITimeout(), t.logger)
	if err != nil {
		t.fail("opening profile", err)
		return
	}

	t.SetStatus("Loading shares from " + filepath.Base(path))
	done := t.busy("Loading shares...")
	go func() {
		nav := NewNavigationTree()
		err := nav.Load(context.Background(), client)
		fyne.Do(func() {
			done()
			if err != nil {
				t.fail("listing shares", err)
				return
			}
			t.client = client
			t.setNavigation(nav)
			t.SetStatus(fmt.Sprintf("Profile loaded: %d shares, %d tables", len(nav.GetChildren("")), nav.TableCount()))
		})
	}()
}

// openTable loads a shared table into a new grid. opts may be nil.
func (t *MainWindow) openTable(table deltasharing.Table, opts *QueryOptions) {
	if t.client == nil {
		return
	}
	limit := t.cfg.RowLimit
	var columns []string
	query := ""
	if opts != nil {
		limit = opts.Limit
		columns = opts.SelectedColumns
		query = opts.Query
	}

	name := deltasharing.QualifiedName(table)
	t.SetStatus("Loading table data: " + name)
	done := t.busy("Loading " + table.Name + "...")

	go func() {
		d, err := t.fetchTable(table, columns, limit)
		fyne.Do(func() {
			done()
			if err != nil {
				t.fail("loading table", err)
				return
			}
			data, err := t.browser.Open(d)
			if err != nil {
				t.fail("opening grid", err)
				return
			}
			if query != "" {
				if err := data.View.SetQuery(query); err != nil {
					t.fail("applying filter", err)
					return
				}
				if err := t.browser.Refresh(data); err != nil {
					t.fail("applying filter", err)
				}
			}
		})
	}()
}

func (t *MainWindow) fetchTable(table deltasharing.Table, columns []string, limit int64) (*source.Dataset, error) {
	ctx, cancel := timeoutContext(t.cfg.APITimeout())
	defer cancel()

	at, err := t.client.LoadTable(ctx, table, "", limit)
	if err != nil {
		return nil, err
	}
	defer at.Release()
	return source.FromArrow(deltasharing.QualifiedName(table), at, columns)
}

// openTableWithOptions fetches the schema of table, then asks which columns
// and rows to load.
func (t *MainWindow) openTableWithOptions(table deltasharing.Table) {
	if t.client == nil {
		dialog.ShowInformation("Select a Table", "Open a profile and select a table first", t.w)
		return
	}

	t.SetStatus("Loading schema for table: " + table.Name)
	done := t.busy("Loading Schema")
	go func() {
		ctx, cancel := timeoutContext(t.cfg.APITimeout())
		defer cancel()

		at, err := t.client.LoadTable(ctx, table, "", 1)
		fyne.Do(func() {
			done()
			if err != nil {
				t.fail("loading schema", err)
				return
			}
			schema := at.Schema()
			at.Release()
			ShowQueryOptionsDialog(t.w, schema, t.cfg.RowLimit, func(o *QueryOptions) {
				t.openTable(table, o)
			})
		})
	}()
}
