package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
)

const profile = `{"shareCredentialsVersion":1,"endpoint":"https://sharing.example.com/delta-sharing/","bearerToken":"token"}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path    string
		content string
		want    FileType
	}{
		{"a.csv", "", FileTypeCSV},
		{"a.TSV", "", FileTypeCSV},
		{"a.parquet", "", FileTypeParquet},
		{"a.xlsx", "", FileTypeExcel},
		{"a.json", `[{"a":1}]`, FileTypeJSON},
		{"a.json", profile, FileTypeDeltaSharingProfile},
		{"a.share", profile, FileTypeDeltaSharingProfile},
		{"a.txt", "hello", FileTypeUnknown},
		{"a.bin", "", FileTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFileType(tt.path, []byte(tt.content)), tt.path)
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "people.csv", "name;age\nada;36\ngrace;85\nlinus;54\n")

	d, err := Load(context.Background(), path, Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, FileTypeCSV, d.Type)
	assert.Equal(t, "people.csv", d.Name)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, int64(36), d.Rows[0]["age"])
	assert.Equal(t, datatable.ColumnsFromKeys("name", "age"), d.Columns)
	assert.Contains(t, d.Summary(), "separator: semicolon")
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "people.json", `[{"name":"ada","age":36},{"name":"grace"}]`)

	d, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FileTypeJSON, d.Type)
	assert.Len(t, d.Rows, 2)
	assert.Equal(t, "people.json (2 rows, 2 columns)", d.Summary())

	single, err := FromJSON([]byte(`{"k":"v"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, single.RowCount())

	_, err = FromJSON([]byte(`[]`))
	assert.True(t, errors.Is(err, datatable.ErrEmptyData))
	_, err = FromJSON([]byte(`nope`))
	assert.Error(t, err)
}

func TestLoadRejectsProfilesAndUnknown(t *testing.T) {
	_, err := Load(context.Background(), writeFile(t, "x.share", profile), Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedFile))

	_, err = Load(context.Background(), writeFile(t, "x.bin", "data"), Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedFile))

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), Options{})
	assert.Error(t, err)
}

func TestFromArrow(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "b"}, nil)
	rec := b.NewRecord()
	defer rec.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	d, err := FromArrow("s.sc.t", table, []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, "s.sc.t", d.Name)
	assert.Equal(t, datatable.ColumnsFromKeys("name"), d.Columns)
	assert.Equal(t, "b", d.Rows[1]["name"])

	_, err = FromArrow("x", table, []string{"missing"})
	assert.True(t, errors.Is(err, datatable.ErrColumnNotFound))
}
