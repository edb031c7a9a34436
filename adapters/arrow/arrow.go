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

// Package arrow exposes Arrow tables, and Parquet files read through Arrow,
// as datatable sources.
package arrow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"dgb/datatable"
)

// DataSource holds the values of an Arrow table converted to Go values. The
// table itself is not retained, so callers may release it right after
// NewFromArrowTable returns.
type DataSource struct {
	names []string
	types []datatable.DataType
	cells [][]interface{} // [row][col]
	meta  datatable.Metadata
}

var _ datatable.DataSource = (*DataSource)(nil)

// NewFromArrowTable converts every chunk of table into a DataSource.
func NewFromArrowTable(table arrow.Table) (*DataSource, error) {
	if table == nil {
		return nil, datatable.ErrNoDataSource
	}

	schema := table.Schema()
	ds := &DataSource{
		names: make([]string, schema.NumFields()),
		types: make([]datatable.DataType, schema.NumFields()),
		cells: make([][]interface{}, 0, table.NumRows()),
		meta: datatable.Metadata{
			"schema": schema.String(),
		},
	}
	for i, field := range schema.Fields() {
		ds.names[i] = field.Name
		ds.types[i] = MapType(field.Type)
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			row := make([]interface{}, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = Value(col, rowIdx)
			}
			ds.cells = append(ds.cells, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}

	return ds, nil
}

// ReadParquet reads a whole Parquet file into an Arrow table. The caller
// releases the table.
func ReadParquet(ctx context.Context, path string) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return table, nil
}

// NewFromParquet reads path and converts it in one step.
func NewFromParquet(ctx context.Context, path string) (*DataSource, error) {
	table, err := ReadParquet(ctx, path)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	ds, err := NewFromArrowTable(table)
	if err != nil {
		return nil, err
	}
	ds.meta["path"] = path
	return ds, nil
}

// MapType maps an Arrow type onto the datatable type used for formatting.
func MapType(t arrow.DataType) datatable.DataType {
	switch t.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datatable.TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datatable.TypeFloat
	case arrow.BOOL:
		return datatable.TypeBool
	case arrow.DATE32, arrow.DATE64:
		return datatable.TypeDate
	case arrow.TIMESTAMP:
		return datatable.TypeTimestamp
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		return datatable.TypeBinary
	case arrow.DECIMAL128, arrow.DECIMAL256:
		return datatable.TypeDecimal
	case arrow.STRUCT:
		return datatable.TypeStruct
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return datatable.TypeList
	default:
		return datatable.TypeString
	}
}

// Value returns the Go value at pos, or nil for a null slot. Integers widen to
// int64 and floats to float64; dates and timestamps become time.Time in UTC.
func Value(col arrow.Array, pos int) interface{} {
	if col.IsNull(pos) {
		return nil
	}

	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Binary:
		return append([]byte(nil), c.Value(pos)...)
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int8:
		return int64(c.Value(pos))
	case *array.Int16:
		return int64(c.Value(pos))
	case *array.Int32:
		return int64(c.Value(pos))
	case *array.Int64:
		return c.Value(pos)
	case *array.Uint8:
		return int64(c.Value(pos))
	case *array.Uint16:
		return int64(c.Value(pos))
	case *array.Uint32:
		return int64(c.Value(pos))
	case *array.Uint64:
		return c.Value(pos)
	case *array.Float16:
		return float64(c.Value(pos).Float32())
	case *array.Float32:
		return float64(c.Value(pos))
	case *array.Float64:
		return c.Value(pos)
	case *array.Date32:
		return c.Value(pos).ToTime().UTC()
	case *array.Date64:
		return c.Value(pos).ToTime().UTC()
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(pos).ToTime(unit).UTC()
	case *array.Decimal128:
		scale := c.DataType().(*arrow.Decimal128Type).Scale
		return c.Value(pos).ToString(scale)
	case *array.Struct:
		return structValue(c, pos)
	case *array.List:
		return fmt.Sprintf("%v", array.NewSlice(col, int64(pos), int64(pos+1)))
	default:
		return col.ValueStr(pos)
	}
}

func structValue(s *array.Struct, pos int) interface{} {
	b, err := json.Marshal(s.GetOneForMarshal(pos))
	if err != nil {
		return s.ValueStr(pos)
	}
	var result interface{}
	if err := json.Unmarshal(b, &result); err != nil {
		return string(b)
	}
	return result
}

// RowCount implements datatable.DataSource.
func (d *DataSource) RowCount() int { return len(d.cells) }

// ColumnCount implements datatable.DataSource.
func (d *DataSource) ColumnCount() int { return len(d.names) }

// ColumnName implements datatable.DataSource.
func (d *DataSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(d.names) {
		return "", fmt.Errorf("%w: %d", datatable.ErrInvalidColumn, col)
	}
	return d.names[col], nil
}

// ColumnType implements datatable.DataSource.
func (d *DataSource) ColumnType(col int) (datatable.DataType, error) {
	if col < 0 || col >= len(d.types) {
		return datatable.TypeString, fmt.Errorf("%w: %d", datatable.ErrInvalidColumn, col)
	}
	return d.types[col], nil
}

// Cell implements datatable.DataSource.
func (d *DataSource) Cell(row, col int) (datatable.Value, error) {
	if row < 0 || row >= len(d.cells) {
		return datatable.Value{}, fmt.Errorf("%w: %d", datatable.ErrInvalidRow, row)
	}
	if col < 0 || col >= len(d.names) {
		return datatable.Value{}, fmt.Errorf("%w: %d", datatable.ErrInvalidColumn, col)
	}
	return d.value(row, col), nil
}

// Row implements datatable.DataSource.
func (d *DataSource) Row(row int) ([]datatable.Value, error) {
	if row < 0 || row >= len(d.cells) {
		return nil, fmt.Errorf("%w: %d", datatable.ErrInvalidRow, row)
	}
	values := make([]datatable.Value, len(d.names))
	for col := range values {
		values[col] = d.value(row, col)
	}
	return values, nil
}

// Metadata implements datatable.DataSource.
func (d *DataSource) Metadata() datatable.Metadata { return d.meta }

func (d *DataSource) value(row, col int) datatable.Value {
	return datatable.NewValue(d.cells[row][col], d.types[col])
}
