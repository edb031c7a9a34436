package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a|b|c", '|'},
		{"a;b,c", ','},
		{"single", ','},
		{"", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDelimiter(tt.line), tt.line)
	}
}

func TestDelimiterName(t *testing.T) {
	assert.Equal(t, "semicolon", DelimiterName(';'))
	assert.Equal(t, "tab", DelimiterName('\t'))
	assert.Equal(t, "#", DelimiterName('#'))
}

func TestNewFromReaderInfersTypes(t *testing.T) {
	ds, err := NewFromReader(strings.NewReader("name;age;active\nada; 36;true\ngrace;85.5;\n"), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, "semicolon", ds.Metadata()["delimiter"])

	name, err := ds.ColumnName(1)
	require.NoError(t, err)
	assert.Equal(t, "age", name)

	v, err := ds.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(36), v.Raw)

	v, err = ds.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 85.5, v.Raw)

	v, err = ds.Cell(1, 2)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestNewFromReaderWithoutHeaders(t *testing.T) {
	cfg := Config{Delimiter: ',', InferTypes: false}
	ds, err := NewFromReader(strings.NewReader("1,2\n3,4,5\n"), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.ColumnCount())
	v, err := ds.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", v.Raw)

	v, err = ds.Cell(0, 2)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestNewFromReaderErrors(t *testing.T) {
	_, err := NewFromReader(strings.NewReader(""), DefaultConfig())
	assert.ErrorIs(t, err, datatable.ErrEmptyData)

	_, err = NewFromReader(strings.NewReader("a,a\n1,2\n"), DefaultConfig())
	assert.ErrorIs(t, err, datatable.ErrDuplicateColumn)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name|city\nada|London\n"), 0o644))

	ds, err := NewFromFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Metadata()["path"])
	assert.Equal(t, "pipe", ds.Metadata()["delimiter"])

	rows, err := datatable.Records(ds)
	require.NoError(t, err)
	assert.Equal(t, []datatable.Row{{"name": "ada", "city": "London"}}, rows)

	_, err = NewFromFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultConfig())
	assert.Error(t, err)
}
