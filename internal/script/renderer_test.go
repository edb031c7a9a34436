package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dgb/datatable"
)

const upper = `package cell

import "strings"

func Render(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return "-"
	}
	return strings.ToUpper(s)
}
`

func TestCompileTemplate(t *testing.T) {
	render := MustCompile(Template)
	assert.Equal(t, "42", render(42))
	assert.Equal(t, "", render(nil))
	assert.Equal(t, "x", render("  x "))
}

func TestCompileInGrid(t *testing.T) {
	render, err := Compile(upper, zaptest.NewLogger(t))
	require.NoError(t, err)

	cols := []datatable.Column{{AccessorKey: "name", Render: render}}
	r, err := datatable.Render([]datatable.Row{{"name": "ada"}, {"name": 7}}, cols, datatable.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "ADA", r.Body[0][0].Text)
	assert.Equal(t, "-", r.Body[1][0].Text)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("package cell\nfunc Render(", nil)
	assert.Error(t, err)
}

func TestCompileMissingRender(t *testing.T) {
	_, err := Compile("package cell\nfunc Other() {}\n", nil)
	assert.True(t, errors.Is(err, ErrNoRenderFunc))

	_, err = Compile("package cell\nfunc Render(v int) int { return v }\n", nil)
	assert.True(t, errors.Is(err, ErrNoRenderFunc))
}

func TestCompileRecoversPanics(t *testing.T) {
	src := `package cell

func Render(v interface{}) string {
	return v.(string)
}
`
	render, err := Compile(src, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "ok", render("ok"))
	assert.Equal(t, "", render(3))
}
