package datatable

import "fmt"

// CellRenderer turns the raw value of a cell into its display text.
type CellRenderer func(raw interface{}) string

// Column describes one grid column.
type Column struct {
	// AccessorKey selects the value out of each Row.
	AccessorKey string
	// Title is shown in the header. Empty means AccessorKey.
	Title string
	// Render, when set, replaces the default formatting.
	Render CellRenderer
}

// Header returns the display title of the column.
func (c Column) Header() string {
	if c.Title == "" {
		return c.AccessorKey
	}
	return c.Title
}

// Display returns the text shown for raw in this column.
func (c Column) Display(raw interface{}) string {
	if c.Render != nil {
		return c.Render(raw)
	}
	return FormatRaw(raw)
}

// ColumnsFromKeys builds plain columns titled by their accessor key.
func ColumnsFromKeys(keys ...string) []Column {
	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{AccessorKey: k, Title: k}
	}
	return cols
}

// ValidateColumns reports the first column without an accessor key or with
// an accessor key already used by an earlier column.
func ValidateColumns(cols []Column) error {
	seen := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.AccessorKey == "" {
			return fmt.Errorf("%w: column %d has no accessor key", ErrColumnNotFound, i)
		}
		if prev, ok := seen[c.AccessorKey]; ok {
			return fmt.Errorf("%w: %q used by columns %d and %d", ErrDuplicateColumn, c.AccessorKey, prev, i)
		}
		seen[c.AccessorKey] = i
	}
	return nil
}

// SelectColumns returns the columns whose accessor key is listed in keys, in
// the order of keys. Unknown keys yield ErrColumnNotFound.
func SelectColumns(cols []Column, keys []string) ([]Column, error) {
	byKey := make(map[string]Column, len(cols))
	for _, c := range cols {
		byKey[c.AccessorKey] = c
	}
	selected := make([]Column, 0, len(keys))
	for _, k := range keys {
		c, ok := byKey[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, k)
		}
		selected = append(selected, c)
	}
	return selected, nil
}
