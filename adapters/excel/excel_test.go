package excel

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dgb/datatable"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "", "age"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"ada", "x", 36}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"grace", nil, 85.5}))

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"k"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]interface{}{true}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSheets(t *testing.T) {
	sheets, err := Sheets(writeWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Other"}, sheets)
}

func TestNewFromFileFirstSheet(t *testing.T) {
	path := writeWorkbook(t)
	ds, err := NewFromFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 3, ds.ColumnCount())
	assert.Equal(t, "Sheet1", ds.Metadata()["sheet"])

	name, err := ds.ColumnName(1)
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	v, err := ds.Cell(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(36), v.Raw)

	v, err = ds.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 85.5, v.Raw)

	v, err = ds.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestNewFromFileNamedSheet(t *testing.T) {
	ds, err := NewFromFile(writeWorkbook(t), "Other")
	require.NoError(t, err)

	rows, err := datatable.Records(ds)
	require.NoError(t, err)
	assert.Equal(t, []datatable.Row{{"k": true}}, rows)

	_, err = NewFromFile(writeWorkbook(t), "Missing")
	assert.Error(t, err)
}

func TestNewFromReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"a", "a"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := NewFromReader(&buf, "")
	assert.ErrorIs(t, err, datatable.ErrDuplicateColumn)
}
