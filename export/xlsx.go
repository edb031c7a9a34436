package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"dgb/datatable"
)

// SheetName is the worksheet WriteXLSX fills.
const SheetName = "Sheet1"

// WriteXLSX writes r as a workbook laid out the way it is displayed. A cell
// is placed by its key: column and row index, shifted past the header row or
// title column and swapped when transposed.
func WriteXLSX(w io.Writer, r *datatable.Rendering) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillSheet(f, r); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, r *datatable.Rendering) error {
	if r.IsBlank() {
		return nil
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	// offset of the data area, 1-based
	rowOff, colOff := 1, 1
	for _, h := range r.Header {
		if err := setCell(f, h.Column+1, 1, h.Text, bold); err != nil {
			return err
		}
		rowOff = 2
	}
	for _, h := range r.RowHeaders {
		if err := setCell(f, 1, h.Column+1, h.Text, bold); err != nil {
			return err
		}
		colOff = 2
	}

	if r.Empty {
		col, row := 1, rowOff
		if r.Transposed {
			col, row = colOff, 1
		}
		return setCell(f, col, row, r.EmptyText, 0)
	}

	for pos := 0; pos < r.RowCount; pos++ {
		for _, cell := range r.LogicalRow(pos) {
			c := datatable.Decode(cell.Key)
			col, row := c.Col+colOff, c.Row+rowOff
			if r.Transposed {
				col, row = c.Row+colOff, c.Col+rowOff
			}
			if err := setCell(f, col, row, xlsxValue(cell), 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}, style int) error {
	if value == nil {
		return nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, name, value); err != nil {
		return err
	}
	if style != 0 {
		return f.SetCellStyle(SheetName, name, name, style)
	}
	return nil
}

// xlsxValue keeps numbers, booleans and times typed in the sheet.
func xlsxValue(cell datatable.Cell) interface{} {
	switch v := exportValue(cell).(type) {
	case nil:
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, bool, time.Time:
		return v
	default:
		return cell.Text
	}
}
