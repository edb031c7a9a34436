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

package datatable

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CellKeyDelimiter separates the column and row index in a CellKey.
const CellKeyDelimiter = "-"

// InvalidIndex marks a Coord component that could not be decoded.
const InvalidIndex = -1

// CellKey addresses a single grid cell as "<col>-<row>" in decimal.
type CellKey string

// Coord is a decoded CellKey. A component that failed to parse holds
// InvalidIndex; decoding never fails outright.
type Coord struct {
	Col int
	Row int
}

// Valid reports whether both components decoded.
func (c Coord) Valid() bool {
	return c.Col >= 0 && c.Row >= 0
}

// Key encodes the coordinate back into a CellKey.
func (c Coord) Key() CellKey {
	return Encode(c.Col, c.Row)
}

// String implements fmt.Stringer.
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Col, c.Row)
}

// Encode builds the key for the cell at (colIdx, rowIdx).
func Encode(colIdx, rowIdx int) CellKey {
	return CellKey(strconv.Itoa(colIdx) + CellKeyDelimiter + strconv.Itoa(rowIdx))
}

// Decode splits a key on the delimiter and parses the first two segments.
// Parsing is lenient: surrounding whitespace and trailing garbage are
// tolerated, and a segment without leading digits decodes to InvalidIndex.
// Segments after the second are ignored.
func Decode(key CellKey) Coord {
	parts := strings.Split(string(key), CellKeyDelimiter)
	c := Coord{Col: InvalidIndex, Row: InvalidIndex}
	if len(parts) > 0 {
		c.Col = parseLeadingInt(parts[0])
	}
	if len(parts) > 1 {
		c.Row = parseLeadingInt(parts[1])
	}
	return c
}

// ParseCellKey is the strict counterpart of Decode. It accepts exactly two
// non-negative decimal integers joined by the delimiter.
func ParseCellKey(key CellKey) (Coord, error) {
	parts := strings.Split(string(key), CellKeyDelimiter)
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	col, err := parseStrictIndex(parts[0])
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q column: %v", ErrInvalidCellKey, key, err)
	}
	row, err := parseStrictIndex(parts[1])
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q row: %v", ErrInvalidCellKey, key, err)
	}
	return Coord{Col: col, Row: row}, nil
}

// SortableIndex returns rowIdx*rowCount + colIdx, the linear position used
// to order selections: every cell of row 0 (columns ascending) precedes every
// cell of row 1, and so on. ok is false when either component is invalid.
// rowCount is the stride between consecutive rows; when it does not exceed
// every column index in use, indices of different rows collide and their
// relative order is left to the stable sort. An index that does not fit in
// an int is reported as not ok.
func SortableIndex(key CellKey, rowCount int) (idx int, ok bool) {
	c := Decode(key)
	if !c.Valid() {
		return 0, false
	}
	if rowCount > 0 && c.Row > (math.MaxInt-c.Col)/rowCount {
		return 0, false
	}
	return c.Row*rowCount + c.Col, true
}

// SortKeys returns a copy of keys ordered by SortableIndex. The sort is
// stable; keys that do not decode keep their relative order after every valid
// key. keys itself is left untouched.
func SortKeys(keys []CellKey, rowCount int) []CellKey {
	type indexed struct {
		key CellKey
		idx int
		ok  bool
	}

	items := make([]indexed, len(keys))
	for i, k := range keys {
		idx, ok := SortableIndex(k, rowCount)
		items[i] = indexed{key: k, idx: idx, ok: ok}
	}

	slices.SortStableFunc(items, func(a, b indexed) int {
		switch {
		case a.ok && b.ok:
			return cmp.Compare(a.idx, b.idx)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]CellKey, len(items))
	for i, it := range items {
		sorted[i] = it.key
	}
	return sorted
}

// parseLeadingInt reads a run of decimal digits, optionally preceded by '+',
// at the start of s after trimming whitespace. A '-' never reaches here since
// it is the delimiter.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && s[end] == '+' {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return InvalidIndex
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return InvalidIndex
	}
	return n
}

func parseStrictIndex(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty segment")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit %q", s[i])
		}
	}
	return strconv.Atoi(s)
}
