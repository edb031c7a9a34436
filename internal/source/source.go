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

// Package source loads data files into rows and columns ready for a grid.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	arrowadapter "dgb/adapters/arrow"
	csvadapter "dgb/adapters/csv"
	"dgb/adapters/deltasharing"
	exceladapter "dgb/adapters/excel"
	"dgb/datatable"
)

// FileType is the kind of file detected by DetectFileType.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
	FileTypeExcel
	FileTypeDeltaSharingProfile
)

// ErrUnsupportedFile is returned for files no adapter can read.
var ErrUnsupportedFile = errors.New("unsupported file type")

// String returns a short name for the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "CSV"
	case FileTypeParquet:
		return "Parquet"
	case FileTypeJSON:
		return "JSON"
	case FileTypeExcel:
		return "Excel"
	case FileTypeDeltaSharingProfile:
		return "Delta Sharing profile"
	default:
		return "unknown"
	}
}

// DetectFileType classifies path by extension. JSON-like extensions are
// sniffed with content: a Delta Sharing profile wins over plain JSON, and
// .share or .txt files that are not profiles are unknown.
func DetectFileType(path string, content []byte) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".xlsx", ".xlsm":
		return FileTypeExcel
	case ".json":
		if deltasharing.IsProfile(content) {
			return FileTypeDeltaSharingProfile
		}
		return FileTypeJSON
	case ".share", ".txt":
		if deltasharing.IsProfile(content) {
			return FileTypeDeltaSharingProfile
		}
	}
	return FileTypeUnknown
}

// Options controls how a file is loaded.
type Options struct {
	// Sheet selects an Excel sheet; empty means the first one.
	Sheet string
	// Limit caps the number of rows kept; zero or less keeps all.
	Limit int64
}

// Dataset is a loaded file: the source it came from plus the rows and
// default columns a grid renders.
type Dataset struct {
	Name    string
	Type    FileType
	Source  datatable.DataSource
	Rows    []datatable.Row
	Columns []datatable.Column
}

// Summary describes the dataset for status lines.
func (d *Dataset) Summary() string {
	s := fmt.Sprintf("%s (%d rows, %d columns)", d.Name, len(d.Rows), len(d.Columns))
	if sep, ok := d.Source.Metadata()["delimiter"].(string); ok {
		s += ", separator: " + sep
	}
	return s
}

// Load reads path with the adapter matching its type.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	var content []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".share", ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		content = b
	}

	ft := DetectFileType(path, content)
	var (
		ds  datatable.DataSource
		err error
	)
	switch ft {
	case FileTypeCSV:
		ds, err = csvadapter.NewFromFile(path, csvadapter.DefaultConfig())
	case FileTypeParquet:
		ds, err = arrowadapter.NewFromParquet(ctx, path)
	case FileTypeExcel:
		ds, err = exceladapter.NewFromFile(path, opts.Sheet)
	case FileTypeJSON:
		ds, err = FromJSON(content)
	case FileTypeDeltaSharingProfile:
		return nil, fmt.Errorf("%w: %s is a Delta Sharing profile, open it as a share", ErrUnsupportedFile, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s file: %w", ft, err)
	}

	d, err := FromSource(filepath.Base(path), ds, opts.Limit)
	if err != nil {
		return nil, err
	}
	d.Type = ft
	return d, nil
}

// FromSource materialises ds into a Dataset keeping at most limit rows.
func FromSource(name string, ds datatable.DataSource, limit int64) (*Dataset, error) {
	rows, err := datatable.Records(ds)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	cols, err := datatable.ColumnsOf(ds)
	if err != nil {
		return nil, err
	}
	return &Dataset{Name: name, Source: ds, Rows: rows, Columns: cols}, nil
}

// FromArrow converts an Arrow table, keeping only columns when given. The
// table is not released.
func FromArrow(name string, table arrow.Table, columns []string) (*Dataset, error) {
	projected, err := arrowadapter.Project(table, columns)
	if err != nil {
		return nil, err
	}
	defer projected.Release()

	ds, err := arrowadapter.NewFromArrowTable(projected)
	if err != nil {
		return nil, err
	}
	d, err := FromSource(name, ds, 0)
	if err != nil {
		return nil, err
	}
	d.Type = FileTypeParquet
	return d, nil
}

// FromJSON reads an array of objects, or a single object, as records.
func FromJSON(content []byte) (*datatable.RecordSource, error) {
	var data []map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		var single map[string]interface{}
		if err := json.Unmarshal(content, &single); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		data = []map[string]interface{}{single}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: JSON has no records", datatable.ErrEmptyData)
	}
	return datatable.NewRecordSourceFromMaps(data), nil
}
