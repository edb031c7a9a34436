package datatable

import "strings"

// Selection is a set of selected cells addressed by key. The zero value is
// an empty selection ready to use.
type Selection struct {
	keys map[CellKey]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{keys: make(map[CellKey]struct{})}
}

// Add selects key.
func (s *Selection) Add(key CellKey) {
	if s.keys == nil {
		s.keys = make(map[CellKey]struct{})
	}
	s.keys[key] = struct{}{}
}

// Remove deselects key.
func (s *Selection) Remove(key CellKey) {
	delete(s.keys, key)
}

// Toggle flips key and reports whether it is now selected.
func (s *Selection) Toggle(key CellKey) bool {
	if s.Contains(key) {
		s.Remove(key)
		return false
	}
	s.Add(key)
	return true
}

// Contains reports whether key is selected.
func (s *Selection) Contains(key CellKey) bool {
	_, ok := s.keys[key]
	return ok
}

// Clear deselects everything.
func (s *Selection) Clear() {
	s.keys = make(map[CellKey]struct{})
}

// Len returns the number of selected cells.
func (s *Selection) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys ordered by SortKeys with the given stride.
func (s *Selection) Keys(stride int) []CellKey {
	keys := make([]CellKey, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	return SortKeys(keys, stride)
}

// Text joins the text of the selected cells of r: cells of one logical row
// are tab separated, rows are newline separated. Keys that do not address a
// cell of r are skipped.
func (s *Selection) Text(r *Rendering) string {
	if r == nil || s.Len() == 0 {
		return ""
	}

	var b strings.Builder
	lastRow := -1
	for _, key := range s.Keys(r.Stride()) {
		cell, ok := r.Cell(key)
		if !ok {
			continue
		}
		if lastRow >= 0 {
			if cell.Row != lastRow {
				b.WriteByte('\n')
			} else {
				b.WriteByte('\t')
			}
		}
		b.WriteString(cell.Text)
		lastRow = cell.Row
	}
	return b.String()
}
