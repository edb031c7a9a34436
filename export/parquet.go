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

package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"dgb/datatable"
)

// RecordOf converts the logical rows of r into an Arrow record with one
// nullable string column per grid column, holding the displayed text.
// Missing values are null.
func RecordOf(r *datatable.Rendering) (arrow.Record, error) {
	if r.IsBlank() {
		return nil, datatable.ErrEmptyData
	}

	fields := make([]arrow.Field, len(r.Titles))
	for i, title := range r.Titles {
		fields[i] = arrow.Field{Name: title, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for pos := 0; pos < r.RowCount && !r.Empty; pos++ {
		for c, cell := range r.LogicalRow(pos) {
			sb := b.Field(c).(*array.StringBuilder)
			if cell.Raw == nil {
				sb.AppendNull()
			} else {
				sb.Append(cell.Text)
			}
		}
	}
	return b.NewRecord(), nil
}

// WriteParquet writes the logical rows of r as a Snappy compressed Parquet
// file.
func WriteParquet(w io.Writer, r *datatable.Rendering) error {
	rec, err := RecordOf(r)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return writer.Close()
}
