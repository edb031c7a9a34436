package datatable

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, CellKey("0-0"), Encode(0, 0))
	assert.Equal(t, CellKey("1-2"), Encode(1, 2))
	assert.Equal(t, CellKey("12-340"), Encode(12, 340))
}

func TestDecode(t *testing.T) {
	assert.Equal(t, Coord{Col: 0, Row: 0}, Decode("0-0"))
	assert.Equal(t, Coord{Col: 1, Row: 2}, Decode("1-2"))
}

func TestDecodeRoundTrip(t *testing.T) {
	for c := 0; c < 40; c++ {
		for r := 0; r < 40; r++ {
			got := Decode(Encode(c, r))
			require.Equal(t, Coord{Col: c, Row: r}, got, "col %d row %d", c, r)
		}
	}
	big := Coord{Col: 1 << 30, Row: 987654321}
	assert.Equal(t, big, Decode(big.Key()))
}

func TestDecodeIsLenient(t *testing.T) {
	tests := []struct {
		key  CellKey
		want Coord
	}{
		{"", Coord{Col: InvalidIndex, Row: InvalidIndex}},
		{"3", Coord{Col: 3, Row: InvalidIndex}},
		{"a-b", Coord{Col: InvalidIndex, Row: InvalidIndex}},
		{"4-x", Coord{Col: 4, Row: InvalidIndex}},
		{" 5 - 6 ", Coord{Col: 5, Row: 6}},
		{"7abc-8def", Coord{Col: 7, Row: 8}},
		{"+2-3", Coord{Col: 2, Row: 3}},
		{"1-2-3", Coord{Col: 1, Row: 2}},
		{"-1-2", Coord{Col: InvalidIndex, Row: 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.key))
		})
	}
}

func TestCoordValid(t *testing.T) {
	assert.True(t, Coord{Col: 0, Row: 0}.Valid())
	assert.False(t, Decode("x-1").Valid())
	assert.False(t, Decode("1").Valid())
}

func TestParseCellKeyStrict(t *testing.T) {
	c, err := ParseCellKey("3-9")
	require.NoError(t, err)
	assert.Equal(t, Coord{Col: 3, Row: 9}, c)

	for _, bad := range []CellKey{"", "3", "3-", "-3", "3-9-1", " 3-9", "3-9a", "+3-9"} {
		_, err := ParseCellKey(bad)
		assert.True(t, errors.Is(err, ErrInvalidCellKey), "key %q", bad)
	}
}

func TestSortableIndex(t *testing.T) {
	idx, ok := SortableIndex("1-2", 10)
	require.True(t, ok)
	assert.Equal(t, 21, idx)

	_, ok = SortableIndex("x-2", 10)
	assert.False(t, ok)
}

func TestSortKeys(t *testing.T) {
	assert.Equal(t,
		[]CellKey{"0-0", "1-0", "0-1", "1-1"},
		SortKeys([]CellKey{"0-0", "1-1", "0-1", "1-0"}, 2))

	assert.Equal(t,
		[]CellKey{"1-1", "1-5", "0-10", "1-15"},
		SortKeys([]CellKey{"1-1", "1-15", "0-10", "1-5"}, 16))
}

func TestSortKeysDoesNotMutateInput(t *testing.T) {
	keys := []CellKey{"1-1", "0-0"}
	sorted := SortKeys(keys, 2)

	assert.Equal(t, []CellKey{"0-0", "1-1"}, sorted)
	assert.Equal(t, []CellKey{"1-1", "0-0"}, keys)
}

func TestSortKeysInvalidLast(t *testing.T) {
	got := SortKeys([]CellKey{"bad", "1-0", "", "0-0"}, 4)
	assert.Equal(t, []CellKey{"0-0", "1-0", "bad", ""}, got)
}

func TestSortKeysCollisionIsStable(t *testing.T) {
	// stride 1 makes "1-0" and "0-1" collide on index 1
	got := SortKeys([]CellKey{"1-0", "0-1", "0-0"}, 1)
	assert.Equal(t, []CellKey{"0-0", "1-0", "0-1"}, got)
}

func TestSortKeysLargeIndices(t *testing.T) {
	huge := CellKey("0-" + strconv.Itoa(math.MaxInt/2))
	_, ok := SortableIndex(huge, 4)
	assert.False(t, ok, "index past MaxInt")

	big := CellKey("0-" + strconv.Itoa(math.MaxInt/8))
	idx, ok := SortableIndex(big, 4)
	require.True(t, ok)
	assert.Equal(t, (math.MaxInt/8)*4, idx)

	got := SortKeys([]CellKey{huge, big, "3-0", "0-1"}, 4)
	assert.Equal(t, []CellKey{"3-0", "0-1", big, huge}, got)
}

func TestSortKeysEmpty(t *testing.T) {
	assert.Empty(t, SortKeys(nil, 3))
}
