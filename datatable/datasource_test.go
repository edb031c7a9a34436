package datatable

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSourceDerivesSortedColumns(t *testing.T) {
	src := NewRecordSource(sampleRows())

	assert.Equal(t, 3, src.RowCount())
	assert.Equal(t, 3, src.ColumnCount())

	var names []string
	for c := 0; c < src.ColumnCount(); c++ {
		name, err := src.ColumnName(c)
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{"age", "city", "name"}, names)

	typ, err := src.ColumnType(0)
	require.NoError(t, err)
	assert.Equal(t, TypeInt, typ)
}

func TestRecordSourceBounds(t *testing.T) {
	src := NewRecordSource(sampleRows(), "name")

	_, err := src.ColumnName(1)
	assert.True(t, errors.Is(err, ErrInvalidColumn))
	_, err = src.Cell(5, 0)
	assert.True(t, errors.Is(err, ErrInvalidRow))
	_, err = src.Row(-1)
	assert.True(t, errors.Is(err, ErrInvalidRow))
}

func TestRecordSourceNullCells(t *testing.T) {
	src := NewRecordSource(sampleRows(), "name", "city")
	v, err := src.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
	assert.Equal(t, "", v.Formatted)
}

func TestRecordsRoundTrip(t *testing.T) {
	src := NewRecordSource(sampleRows(), "name", "age", "city")
	rows, err := Records(src)
	require.NoError(t, err)

	assert.Equal(t, sampleRows(), rows)

	cols, err := ColumnsOf(src)
	require.NoError(t, err)
	assert.Equal(t, ColumnsFromKeys("name", "age", "city"), cols)
}

func TestRecordsNilSource(t *testing.T) {
	_, err := Records(nil)
	assert.True(t, errors.Is(err, ErrNoDataSource))
	_, err = ColumnsOf(nil)
	assert.True(t, errors.Is(err, ErrNoDataSource))
}

func TestRecordSourceFromMaps(t *testing.T) {
	src := NewRecordSourceFromMaps([]map[string]interface{}{{"a": 1.5}, {"a": 2.0, "b": true}})
	src.SetMetadata("origin", "test")

	assert.Equal(t, 2, src.ColumnCount())
	assert.Equal(t, "test", src.Metadata()["origin"])
	typ, err := src.ColumnType(1)
	require.NoError(t, err)
	assert.Equal(t, TypeBool, typ)
}

func TestFormatRaw(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		raw  interface{}
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{42, "42"},
		{2.5, "2.5"},
		{float32(0.25), "0.25"},
		{true, "true"},
		{[]byte("bin"), "bin"},
		{day, "2024-03-01"},
		{stamp, "2024-03-01T10:30:00Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRaw(tt.raw))
	}
}

func TestInferType(t *testing.T) {
	assert.Equal(t, TypeInt, InferType(int64(3)))
	assert.Equal(t, TypeFloat, InferType(3.0))
	assert.Equal(t, TypeBool, InferType(false))
	assert.Equal(t, TypeString, InferType("x"))
	assert.Equal(t, TypeList, InferType([]interface{}{1}))
	assert.Equal(t, TypeStruct, InferType(map[string]interface{}{}))
	assert.Equal(t, "Unknown(99)", DataType(99).String())
}

func TestCompareRaw(t *testing.T) {
	assert.Equal(t, -1, CompareRaw(nil, 1))
	assert.Equal(t, 1, CompareRaw(10, 9.5))
	assert.Equal(t, 0, CompareRaw(int64(2), 2.0))
	assert.Equal(t, -1, CompareRaw(false, true))
	assert.Equal(t, -1, CompareRaw("a", "b"))
}

func TestSortDirectionNext(t *testing.T) {
	assert.Equal(t, SortAscending, SortNone.Next())
	assert.Equal(t, SortDescending, SortAscending.Next())
	assert.Equal(t, SortNone, SortDescending.Next())
	assert.False(t, Unsorted.IsSorted())
}
