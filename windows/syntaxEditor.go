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
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// SyntaxEditor shows Go source highlighted, with line numbers and an
// optional marked line such as the position of a compile error.
type SyntaxEditor struct {
	widget.BaseWidget

	mu              sync.Mutex
	textGrid        *widget.TextGrid
	text            string
	highlightedLine int // 1-indexed, 0 for none
}

// NewSyntaxEditor creates an empty editor view.
func NewSyntaxEditor() *SyntaxEditor {
	se := &SyntaxEditor{textGrid: widget.NewTextGrid()}
	se.textGrid.ShowLineNumbers = true
	se.ExtendBaseWidget(se)
	return se
}

// SetText replaces the source and re-highlights it.
func (se *SyntaxEditor) SetText(text string) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.text = text
	se.textGrid.Rows = highlightRows(text, se.highlightedLine)
	se.textGrid.Refresh()
}

// Text returns the current source.
func (se *SyntaxEditor) Text() string {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.text
}

// SetHighlightedLine marks a line (1-indexed); 0 clears the mark.
func (se *SyntaxEditor) SetHighlightedLine(line int) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if se.highlightedLine == line {
		return
	}
	se.highlightedLine = line
	se.textGrid.Rows = highlightRows(se.text, line)
	se.textGrid.Refresh()
}

// HighlightedLine returns the marked line, or 0.
func (se *SyntaxEditor) HighlightedLine() int {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.highlightedLine
}

// CreateRenderer implements fyne.Widget.
func (se *SyntaxEditor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(se.textGrid)
}

// highlightRows builds the TextGrid rows for text, marking line mark.
func highlightRows(text string, mark int) []widget.TextGridRow {
	lines := strings.Split(text, "\n")
	rows := make([]widget.TextGridRow, len(lines))
	for i, line := range lines {
		row := HighlightGoLine(line)
		if i+1 == mark {
			markRow(&row)
		}
		rows[i] = row
	}
	return rows
}

func markRow(row *widget.TextGridRow) {
	bg := theme.Color(theme.ColorNameSelection)
	for i, cell := range row.Cells {
		marked := &widget.CustomTextGridStyle{BGColor: bg}
		if custom, ok := cell.Style.(*widget.CustomTextGridStyle); ok {
			marked.FGColor = custom.FGColor
			marked.TextStyle = custom.TextStyle
		}
		row.Cells[i].Style = marked
	}
	row.Style = &widget.CustomTextGridStyle{BGColor: bg}
}
