package windows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
	"dgb/internal/view"
)

func sampleView() *view.View {
	rows := []datatable.Row{
		{"name": "ada", "age": 36},
		{"name": "grace", "age": 85},
	}
	return view.New(rows, datatable.ColumnsFromKeys("name", "age"), datatable.DefaultOptions())
}

func TestParseLimit(t *testing.T) {
	n, err := parseLimit(" ")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)

	n, err = parseLimit("250")
	require.NoError(t, err)
	assert.Equal(t, int64(250), n)

	for _, bad := range []string{"0", "-3", "ten"} {
		_, err := parseLimit(bad)
		assert.True(t, errors.Is(err, errInvalidLimit), bad)
	}
}

func TestGridSettingsApply(t *testing.T) {
	v := sampleView()
	s := SettingsOf(v)
	assert.Equal(t, []string{"name", "age"}, s.Columns)

	s.Columns = []string{"age"}
	s.Query = "age > 50"
	s.Options.Transpose = true
	require.NoError(t, s.Apply(v))

	r, err := v.Render()
	require.NoError(t, err)
	assert.True(t, r.Transposed)
	assert.Equal(t, []string{"age"}, r.Titles)
	assert.Equal(t, 1, r.RowCount)
}

func TestGridSettingsApplyRejects(t *testing.T) {
	v := sampleView()

	s := SettingsOf(v)
	s.Columns = nil
	assert.True(t, errors.Is(s.Apply(v), errNoColumns))

	s = SettingsOf(v)
	s.Query = "height > 1"
	assert.Error(t, s.Apply(v))
	assert.Equal(t, "", v.Query())

	s = SettingsOf(v)
	s.Query = "age > 1"
	s.Columns = []string{"nope"}
	assert.Error(t, s.Apply(v))
	assert.Equal(t, "", v.Query(), "query restored when columns fail")
}
