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

// Package excel loads worksheets of .xlsx workbooks as datatable sources.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"dgb/datatable"
)

// Sheets lists the worksheet names of the workbook at path.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// NewFromFile reads sheet of the workbook at path; an empty sheet name reads
// the first worksheet. The first row holds the column names.
func NewFromFile(path, sheet string) (*datatable.RecordSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	ds, err := fromWorkbook(f, sheet)
	if err != nil {
		return nil, err
	}
	ds.SetMetadata("path", path)
	return ds, nil
}

// NewFromReader is NewFromFile for a workbook held in r.
func NewFromReader(r io.Reader, sheet string) (*datatable.RecordSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f, sheet)
}

func fromWorkbook(f *excelize.File, sheet string) (*datatable.RecordSource, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, datatable.ErrEmptyData
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s has no header row", datatable.ErrEmptyData, sheet)
	}

	names := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(names))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h, _ = excelize.ColumnNumberToName(i + 1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %s", datatable.ErrDuplicateColumn, h)
		}
		seen[h] = true
		names[i] = h
	}

	records := make([]datatable.Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(datatable.Row, len(names))
		for c, cell := range cells {
			if c < len(names) {
				row[names[c]] = cellValue(cell)
			}
		}
		records = append(records, row)
	}

	ds := datatable.NewRecordSource(records, names...)
	ds.SetMetadata("sheet", sheet)
	return ds, nil
}

// cellValue converts the formatted text excelize returns back to a number
// or boolean where possible. Empty cells are nil.
func cellValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return s
}
