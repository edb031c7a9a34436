// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package export writes rendered grids in display and interchange formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dgb/datatable"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// Format represents the supported export formats
type Format int

const (
	FormatText Format = iota
	FormatHTML
	FormatCSV
	FormatJSON
	FormatParquet
	FormatXLSX
)

// Formats lists every format in menu order.
func Formats() []Format {
	return []Format{FormatText, FormatHTML, FormatCSV, FormatJSON, FormatParquet, FormatXLSX}
}

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatHTML:
		return "html"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	case FormatXLSX:
		return "xlsx"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + f.String()
}

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "text", "txt", "":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write writes r to w in format f.
func Write(w io.Writer, r *datatable.Rendering, f Format) error {
	var err error
	switch f {
	case FormatText:
		err = WriteText(w, r)
	case FormatHTML:
		err = WriteHTML(w, r)
	case FormatCSV:
		err = WriteCSV(w, r)
	case FormatJSON:
		err = WriteJSON(w, r)
	case FormatParquet:
		err = WriteParquet(w, r)
	case FormatXLSX:
		err = WriteXLSX(w, r)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", datatable.ErrExportFailed, f, err)
	}
	return nil
}

// WriteFile writes r to path in format f.
func WriteFile(path string, r *datatable.Rendering, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", f, err)
	}

	if err := Write(file, r, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// exportValue is the raw value when the cell displays it unchanged and the
// displayed text otherwise, so custom renderers win over raw data.
func exportValue(c datatable.Cell) interface{} {
	if c.Raw == nil {
		return nil
	}
	if datatable.FormatRaw(c.Raw) == c.Text {
		return c.Raw
	}
	return c.Text
}
