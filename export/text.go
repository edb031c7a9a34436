package export

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"dgb/datatable"
)

// WriteText draws r as a terminal table. The empty state is drawn as a
// single row holding the empty text.
func WriteText(w io.Writer, r *datatable.Rendering) error {
	if r.IsBlank() {
		return nil
	}
	_, err := fmt.Fprintln(w, TextTable(r).String())
	return err
}

// TextTable builds the lipgloss table for r.
func TextTable(r *datatable.Rendering) *table.Table {
	lines := r.Lines()
	var headers []string
	if len(r.Header) > 0 {
		headers, lines = lines[0], lines[1:]
	}
	if r.Empty {
		lines = append(lines, []string{r.EmptyText})
	}

	border := lipgloss.HiddenBorder()
	if r.Bordered {
		border = lipgloss.NormalBorder()
	}

	padding := 1
	if r.Condensed {
		padding = 0
	}
	base := lipgloss.NewStyle().Padding(0, padding)
	headerStyle := base.Bold(true)
	titleStyle := base.Bold(r.Transposed && r.ShowHeader)
	stripe := base.Faint(true)

	t := table.New().
		Border(border).
		BorderRow(false).
		BorderHeader(r.Bordered).
		Rows(lines...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 && r.Transposed:
				return titleStyle
			case r.Striped && row%2 == 1:
				return stripe
			default:
				return base
			}
		})
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t
}
