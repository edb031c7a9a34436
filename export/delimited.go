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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"dgb/datatable"
)

// WriteCSV writes the display lines of r, header first. The empty state
// writes the header followed by the empty text.
func WriteCSV(w io.Writer, r *datatable.Rendering) error {
	writer := csv.NewWriter(w)

	for _, line := range r.Lines() {
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	if r.Empty && r.EmptyText != "" {
		if err := writer.Write([]string{r.EmptyText}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes one object per logical row keyed by column title, in
// column order. Orientation and header visibility do not change the output.
func WriteJSON(w io.Writer, r *datatable.Rendering) error {
	records := make([]object, 0, r.RowCount)
	for pos := 0; pos < r.RowCount; pos++ {
		row := r.LogicalRow(pos)
		if row == nil {
			break
		}
		rec := object{keys: r.Titles, values: make([]interface{}, len(row))}
		for c, cell := range row {
			rec.values[c] = exportValue(cell)
		}
		records = append(records, rec)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// object is a JSON object that keeps its keys in order.
type object struct {
	keys   []string
	values []interface{}
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
