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

package arrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"dgb/datatable"
)

// Project returns a table holding the named columns in the order of names.
// Unknown or repeated names are errors. An empty list keeps every column.
// The input table is not released.
func Project(table arrow.Table, names []string) (arrow.Table, error) {
	if len(names) == 0 {
		table.Retain()
		return table, nil
	}

	schema := table.Schema()
	fields := make([]arrow.Field, 0, len(names))
	columns := make([]arrow.Column, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", datatable.ErrDuplicateColumn, name)
		}
		seen[name] = true

		indices := schema.FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: %s", datatable.ErrColumnNotFound, name)
		}
		fields = append(fields, schema.Field(indices[0]))
		columns = append(columns, *table.Column(indices[0]))
	}

	return array.NewTable(arrow.NewSchema(fields, nil), columns, table.NumRows()), nil
}

// Limit returns a table with at most limit rows. A limit of zero or less
// keeps every row. The input table is not released.
func Limit(table arrow.Table, limit int64) arrow.Table {
	if limit <= 0 || limit >= table.NumRows() {
		table.Retain()
		return table
	}

	numCols := int(table.NumCols())
	columns := make([]arrow.Column, numCols)
	for i := 0; i < numCols; i++ {
		col := table.Column(i)
		var chunks []arrow.Array
		rowCount := int64(0)

		for _, chunk := range col.Data().Chunks() {
			if rowCount >= limit {
				break
			}
			remaining := limit - rowCount
			if int64(chunk.Len()) <= remaining {
				chunk.Retain()
				chunks = append(chunks, chunk)
				rowCount += int64(chunk.Len())
			} else {
				chunks = append(chunks, array.NewSlice(chunk, 0, remaining))
				rowCount += remaining
			}
		}

		chunked := arrow.NewChunked(col.DataType(), chunks)
		columns[i] = *arrow.NewColumn(col.Field(), chunked)
		for _, c := range chunks {
			c.Release()
		}
		chunked.Release()
	}

	return array.NewTable(table.Schema(), columns, limit)
}
