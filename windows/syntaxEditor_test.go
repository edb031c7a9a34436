package windows

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxEditorHighlightsLines(t *testing.T) {
	test.NewTempApp(t)

	se := NewSyntaxEditor()
	se.SetText("package cell\n\nfunc Render(v interface{}) string {")
	assert.Equal(t, "package cell\n\nfunc Render(v interface{}) string {", se.Text())
	require.Len(t, se.textGrid.Rows, 3)
	assert.Equal(t, syntaxStyles[TokenKeyword], se.textGrid.Rows[0].Cells[0].Style)

	se.SetHighlightedLine(3)
	assert.Equal(t, 3, se.HighlightedLine())
	style, ok := se.textGrid.Rows[2].Cells[0].Style.(*widget.CustomTextGridStyle)
	require.True(t, ok)
	assert.NotNil(t, style.BGColor)
	assert.True(t, style.TextStyle.Bold, "keyword style kept under the mark")

	se.SetHighlightedLine(0)
	assert.Equal(t, syntaxStyles[TokenKeyword], se.textGrid.Rows[2].Cells[0].Style)
}
