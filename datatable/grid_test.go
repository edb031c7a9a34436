package datatable

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{"name": "ada", "age": 36, "city": "London"},
		{"name": "grace", "age": 85},
		{"name": "linus", "age": 54, "city": "Portland"},
	}
}

func sampleColumns() []Column {
	return []Column{
		{AccessorKey: "name", Title: "Name"},
		{AccessorKey: "age", Title: "Age"},
		{AccessorKey: "city"},
	}
}

func TestRenderEmptyProps(t *testing.T) {
	r, err := Render(nil, nil, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.IsBlank())
	assert.Nil(t, r.Header)
	assert.Nil(t, r.Body)
	assert.Nil(t, r.Lines())
}

func TestRenderNoRowsRendersNothing(t *testing.T) {
	opts := DefaultOptions()
	opts.EmptyText = "nothing here"
	r, err := Render([]Row{}, sampleColumns(), opts)
	require.NoError(t, err)
	assert.True(t, r.IsBlank())
	assert.False(t, r.Empty)
}

func TestRenderNoColumnsRendersNothing(t *testing.T) {
	r, err := Render(sampleRows(), nil, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.IsBlank())
}

func TestRenderBasic(t *testing.T) {
	r, err := Render(sampleRows(), sampleColumns(), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, r.Header, 3)
	assert.Equal(t, "Name", r.Header[0].Text)
	assert.Equal(t, "city", r.Header[2].Text, "empty title falls back to accessor key")

	assert.Equal(t, 3, r.RowCount)
	assert.Equal(t, 3, r.ColumnCount)
	require.Len(t, r.Body, 3)
	assert.Equal(t, "grace", r.Body[1][0].Text)
	assert.Equal(t, "85", r.Body[1][1].Text)
	assert.Equal(t, "", r.Body[1][2].Text, "missing value renders empty")
	assert.Nil(t, r.Body[1][2].Raw)
	assert.Equal(t, CellKey("1-2"), r.Body[2][1].Key)
}

func TestRenderWithoutHeader(t *testing.T) {
	r, err := Render(sampleRows(), sampleColumns(), Options{})
	require.NoError(t, err)
	assert.Nil(t, r.Header)
	assert.Len(t, r.Lines(), 3)
}

func TestRenderCustomRenderer(t *testing.T) {
	cols := sampleColumns()
	cols[1].Render = func(raw interface{}) string {
		if raw == nil {
			return "?"
		}
		return strings.Repeat("*", raw.(int)/10)
	}
	r, err := Render(sampleRows(), cols, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "***", r.Body[0][1].Text)
	assert.Equal(t, 36, r.Body[0][1].Raw)
}

func TestRenderTranspose(t *testing.T) {
	rows := sampleRows()
	cols := sampleColumns()
	opts := DefaultOptions()
	opts.Transpose = true

	r, err := Render(rows, cols, opts)
	require.NoError(t, err)

	assert.True(t, r.Transposed)
	assert.Nil(t, r.Header)
	require.Len(t, r.RowHeaders, 3)
	require.Len(t, r.Body, 3)
	require.Len(t, r.Body[0], 3)
	assert.Equal(t, []string{"Name", "ada", "grace", "linus"}, r.Lines()[0])
	assert.Equal(t, []string{"city", "London", "", "Portland"}, r.Lines()[2])

	// keys keep their logical coordinates
	cell, ok := r.Cell("1-2")
	require.True(t, ok)
	assert.Equal(t, "54", cell.Text)

	// input untouched
	assert.Equal(t, sampleRows(), rows)
	assert.Equal(t, "Name", cols[0].Title)
}

func TestRenderTransposeMatchesPlainByKey(t *testing.T) {
	plain, err := Render(sampleRows(), sampleColumns(), DefaultOptions())
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Transpose = true
	flipped, err := Render(sampleRows(), sampleColumns(), opts)
	require.NoError(t, err)

	for c := 0; c < 3; c++ {
		for row := 0; row < 3; row++ {
			a, ok := plain.Cell(Encode(c, row))
			require.True(t, ok)
			b, ok := flipped.Cell(Encode(c, row))
			require.True(t, ok)
			assert.Equal(t, a, b)
		}
	}
}

func TestRenderEmptyStateFromFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.EmptyText = "No matching rows"
	opts.Filter = FilterFunc(func(Row) bool { return false })

	r, err := Render(sampleRows(), sampleColumns(), opts)
	require.NoError(t, err)
	assert.True(t, r.Empty)
	assert.Equal(t, "No matching rows", r.EmptyText)
	assert.Len(t, r.Header, 3)
	assert.Nil(t, r.Body)
	assert.False(t, r.IsBlank())
	assert.Equal(t, [][]string{{"Name", "Age", "city"}}, r.Lines())

	_, ok := r.Cell("0-0")
	assert.False(t, ok)
}

type failingFilter struct{}

func (failingFilter) Evaluate(Row) (bool, error) { return false, ErrInvalidFilter }
func (failingFilter) Description() string       { return "failing" }

func TestRenderFilterError(t *testing.T) {
	opts := DefaultOptions()
	opts.Filter = failingFilter{}
	_, err := Render(sampleRows(), sampleColumns(), opts)
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestRenderFilterKeepsOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.Filter = FilterFunc(func(r Row) bool { return r["city"] != nil })

	r, err := Render(sampleRows(), sampleColumns(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, r.RowCount)
	assert.Equal(t, []int{0, 2}, r.SourceRows)
	assert.Equal(t, "linus", r.Body[1][0].Text)
	assert.Equal(t, CellKey("0-1"), r.Body[1][0].Key)
}

func TestRenderSort(t *testing.T) {
	rows := sampleRows()
	opts := DefaultOptions()
	opts.Sort = SortState{Column: 1, Direction: SortDescending}

	r, err := Render(rows, sampleColumns(), opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, r.SourceRows)
	assert.Equal(t, "grace", r.Body[0][0].Text)
	assert.Equal(t, "ada", rows[0]["name"], "input order untouched")

	opts.Sort = SortState{Column: 2, Direction: SortAscending}
	r, err = Render(rows, sampleColumns(), opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, r.SourceRows, "nil sorts first")
}

func TestRenderInvalidSortColumn(t *testing.T) {
	opts := DefaultOptions()
	opts.Sort = SortState{Column: 9, Direction: SortAscending}
	_, err := Render(sampleRows(), sampleColumns(), opts)
	assert.True(t, errors.Is(err, ErrInvalidSortColumn))
}

func TestRenderCopiesStyleFlags(t *testing.T) {
	opts := Options{Striped: true, Bordered: true, Condensed: true, Responsive: true}
	r, err := Render(sampleRows(), sampleColumns(), opts)
	require.NoError(t, err)
	assert.True(t, r.Striped)
	assert.True(t, r.Bordered)
	assert.True(t, r.Condensed)
	assert.True(t, r.Responsive)
}

func TestNewGridCopiesColumns(t *testing.T) {
	cols := sampleColumns()
	g := NewGrid(cols, DefaultOptions())
	cols[0].Title = "changed"

	assert.Equal(t, "Name", g.Columns()[0].Title)
}

func TestRenderingStride(t *testing.T) {
	r, err := Render(sampleRows()[:1], sampleColumns(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Stride())
}

func TestRenderingTitlesAndLogicalRow(t *testing.T) {
	r, err := Render(sampleRows(), sampleColumns(), Options{Transpose: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age", "city"}, r.Titles)
	assert.Nil(t, r.RowHeaders)

	row := r.LogicalRow(2)
	require.Len(t, row, 3)
	assert.Equal(t, "linus", row[0].Text)
	assert.Equal(t, CellKey("2-2"), row[2].Key)

	assert.Nil(t, r.LogicalRow(3))
	assert.Nil(t, r.LogicalRow(-1))
}
