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
	"io"
	"regexp"
	"strconv"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/internal/script"
)

// previewRows is how many values of the chosen column a preview renders.
const previewRows = 10

const highlightDelay = 200 * time.Millisecond

// RendererEditor edits cell renderer scripts and applies them to a column
// of the current grid.
type RendererEditor struct {
	w       fyne.Window
	logger  *zap.Logger
	browser *DataBrowser

	codeEditor   *widget.Entry
	syntaxEditor *SyntaxEditor
	columnSelect *widget.Select
	outputText   *widget.RichText
	container    fyne.CanvasObject

	mu        sync.Mutex
	highlight *time.Timer
}

// NewRendererEditor creates the editor for grids open in browser.
func NewRendererEditor(w fyne.Window, browser *DataBrowser, logger *zap.Logger) *RendererEditor {
	re := &RendererEditor{w: w, browser: browser, logger: logger}
	re.createUI()
	re.SetCode(script.Template)
	return re
}

func (re *RendererEditor) createUI() {
	re.codeEditor = widget.NewMultiLineEntry()
	re.codeEditor.Wrapping = fyne.TextWrapOff
	re.codeEditor.OnChanged = re.scheduleHighlight

	re.syntaxEditor = NewSyntaxEditor()

	re.columnSelect = widget.NewSelect(nil, nil)
	re.columnSelect.PlaceHolder = "Column"

	re.outputText = widget.NewRichText()
	re.outputText.Wrapping = fyne.TextWrapWord
	re.setOutput("Write a package cell with func Render(v interface{}) string.")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentIcon(), func() { re.SetCode(script.Template) }),
		widget.NewToolbarAction(theme.FolderOpenIcon(), re.loadCode),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), re.saveCode),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), re.RefreshColumns),
		widget.NewToolbarAction(theme.MediaPlayIcon(), re.Preview),
		widget.NewToolbarAction(theme.ConfirmIcon(), re.Apply),
		widget.NewToolbarAction(theme.ContentUndoIcon(), re.Reset),
	)

	editorSplit := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Renderer source:"), nil, nil, nil, container.NewScroll(re.codeEditor)),
		container.NewBorder(widget.NewLabel("Highlighted:"), nil, nil, nil, container.NewScroll(re.syntaxEditor)),
	)
	editorSplit.SetOffset(0.5)

	outputCard := widget.NewCard("", "Preview", container.NewScroll(re.outputText))
	split := container.NewHSplit(widget.NewCard("", "", editorSplit), outputCard)
	split.SetOffset(0.6)

	re.container = container.NewBorder(
		container.NewBorder(nil, nil, nil, re.columnSelect, toolbar),
		nil, nil, nil,
		split,
	)
}

// Content returns the editor's canvas object.
func (re *RendererEditor) Content() fyne.CanvasObject { return re.container }

// SetCode replaces the script text.
func (re *RendererEditor) SetCode(code string) {
	re.codeEditor.SetText(code)
	re.cancelHighlight()
	re.syntaxEditor.SetText(code)
	re.syntaxEditor.SetHighlightedLine(0)
}

// Code returns the script text.
func (re *RendererEditor) Code() string { return re.codeEditor.Text }

// RefreshColumns lists the columns of the current grid.
func (re *RendererEditor) RefreshColumns() {
	d := re.browser.Current()
	if d == nil {
		re.columnSelect.SetOptions(nil)
		re.columnSelect.ClearSelected()
		return
	}
	keys := d.View.ColumnKeys()
	re.columnSelect.SetOptions(keys)
	if len(keys) > 0 && indexOf(keys, re.columnSelect.Selected) < 0 {
		re.columnSelect.SetSelected(keys[0])
	}
}

// Preview compiles the script and renders sample values of the chosen
// column into the output pane.
func (re *RendererEditor) Preview() {
	render, ok := re.compile()
	if !ok {
		return
	}
	d, key := re.target()
	if d == nil {
		re.setOutput("Compiled. Open a grid to preview values.")
		return
	}

	var values []interface{}
	for _, row := range d.Dataset.Rows {
		if len(values) == previewRows {
			break
		}
		values = append(values, row[key])
	}
	re.setOutput(fmt.Sprintf("Column %s:\n", key))
	for _, line := range previewLines(render, values) {
		re.appendOutput(line + "\n")
	}
}

// Apply compiles the script and sets it as the renderer of the chosen
// column.
func (re *RendererEditor) Apply() {
	render, ok := re.compile()
	if !ok {
		return
	}
	re.setRenderer(render, "Renderer applied to ")
}

// Reset restores default formatting of the chosen column.
func (re *RendererEditor) Reset() {
	re.setRenderer(nil, "Default formatting restored for ")
}

func (re *RendererEditor) setRenderer(render datatable.CellRenderer, msg string) {
	d, key := re.target()
	if d == nil {
		dialog.ShowInformation("No Grid", "Open a grid and choose a column first.", re.w)
		return
	}
	if err := d.View.SetRenderer(key, render); err != nil {
		dialog.ShowError(err, re.w)
		return
	}
	if err := re.browser.Refresh(d); err != nil {
		dialog.ShowError(err, re.w)
		return
	}
	re.logger.Info("column renderer changed", zap.String("grid", d.Name), zap.String("column", key), zap.Bool("custom", render != nil))
	re.setOutput(msg + key)
}

func (re *RendererEditor) target() (*Data, string) {
	d := re.browser.Current()
	if d == nil || re.columnSelect.Selected == "" {
		return nil, ""
	}
	return d, re.columnSelect.Selected
}

func (re *RendererEditor) compile() (datatable.CellRenderer, bool) {
	render, err := script.Compile(re.Code(), re.logger)
	if err != nil {
		re.syntaxEditor.SetHighlightedLine(errorLine(err))
		re.setOutput("Compile error:\n" + err.Error())
		return nil, false
	}
	re.syntaxEditor.SetHighlightedLine(0)
	return render, true
}

// scheduleHighlight re-highlights the source once typing pauses.
func (re *RendererEditor) scheduleHighlight(text string) {
	re.mu.Lock()
	defer re.mu.Unlock()
	if re.highlight != nil {
		re.highlight.Stop()
	}
	re.highlight = time.AfterFunc(highlightDelay, func() {
		fyne.Do(func() { re.syntaxEditor.SetText(text) })
	})
}

func (re *RendererEditor) cancelHighlight() {
	re.mu.Lock()
	defer re.mu.Unlock()
	if re.highlight != nil {
		re.highlight.Stop()
		re.highlight = nil
	}
}

func (re *RendererEditor) setOutput(text string) {
	re.outputText.Segments = nil
	re.appendOutput(text)
}

func (re *RendererEditor) appendOutput(text string) {
	re.outputText.Segments = append(re.outputText.Segments, &widget.TextSegment{
		Text:  text,
		Style: widget.RichTextStyle{ColorName: theme.ColorNameForeground, Inline: true},
	})
	re.outputText.Refresh()
}

func (re *RendererEditor) saveCode() {
	code := re.Code()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, re.w)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if _, err := io.WriteString(writer, code); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save renderer: %w", err), re.w)
			return
		}
		re.setOutput(fmt.Sprintf("Saved %s (%d bytes)", writer.URI().Name(), len(code)))
	}, re.w)
	d.SetFileName("render.go")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".go"}))
	d.Show()
}

func (re *RendererEditor) loadCode() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, re.w)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read renderer: %w", err), re.w)
			return
		}
		re.SetCode(string(data))
		re.setOutput(fmt.Sprintf("Loaded %s (%d bytes)", reader.URI().Name(), len(data)))
	}, re.w)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".go"}))
	d.Show()
}

// previewLines renders each value as "raw -> text".
func previewLines(render datatable.CellRenderer, values []interface{}) []string {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = fmt.Sprintf("%s -> %q", datatable.FormatRaw(v), render(v))
	}
	return lines
}

var positionPattern = regexp.MustCompile(`(\d+):\d+:`)

// errorLine extracts the source line of an interpreter error, or 0.
func errorLine(err error) int {
	m := positionPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}
