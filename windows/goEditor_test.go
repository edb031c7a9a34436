package windows

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/internal/script"
)

func TestPreviewLines(t *testing.T) {
	render := func(v interface{}) string { return strings.ToUpper(v.(string)) }
	assert.Equal(t, []string{`ada -> "ADA"`}, previewLines(render, []interface{}{"ada"}))
	assert.Empty(t, previewLines(render, nil))
}

func TestErrorLine(t *testing.T) {
	assert.Equal(t, 3, errorLine(errors.New("failed to compile renderer: 3:14: undefined: foo")))
	assert.Equal(t, 0, errorLine(errors.New("no position")))

	_, err := script.Compile("package cell\n\nfunc Render(v interface{}) string {\n\treturn foo\n}\n", nil)
	require.Error(t, err)
	assert.Equal(t, 4, errorLine(err))
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 1, indexOf([]string{"a", "b"}, "b"))
	assert.Equal(t, -1, indexOf(nil, "b"))
}
