// Package script compiles cell renderers written in Go source and runs them
// with the yaegi interpreter.
//
// A renderer script is a small package named cell exposing
//
//	func Render(v interface{}) string
//
// with access to the standard library.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"dgb/datatable"
)

// ErrNoRenderFunc is returned when a script does not define cell.Render with
// the expected signature.
var ErrNoRenderFunc = errors.New("script does not define func Render(v interface{}) string")

// Template is the starting point offered to users writing a new renderer.
const Template = `package cell

import (
	"fmt"
	"strings"
)

// Render returns the text displayed for a cell value.
func Render(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
`

// Compile interprets src and returns its Render function as a CellRenderer.
// A panic raised by the script while rendering is logged and the cell is
// rendered empty.
func Compile(src string, logger *zap.Logger) (datatable.CellRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var stderr bytes.Buffer
	i := interp.New(interp.Options{Stderr: &stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}

	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("failed to compile renderer: %w", err)
	}

	v, err := i.Eval("cell.Render")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRenderFunc, err)
	}
	fn, ok := v.Interface().(func(interface{}) string)
	if !ok {
		return nil, ErrNoRenderFunc
	}

	return func(raw interface{}) (out string) {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("cell renderer panicked",
					zap.Any("value", raw),
					zap.Any("panic", r),
					zap.String("stderr", strings.TrimSpace(stderr.String())))
				out = ""
			}
		}()
		return fn(raw)
	}, nil
}

// MustCompile is Compile for scripts known to be valid, such as Template.
func MustCompile(src string) datatable.CellRenderer {
	r, err := Compile(src, nil)
	if err != nil {
		panic(err)
	}
	return r
}
