package datatable

import (
	"fmt"
	"sort"
)

// DataSource provides read-only access to tabular data.
// Implementations must be safe for concurrent reads.
// All methods should return errors rather than panic.
type DataSource interface {
	// RowCount returns the total number of rows in the data source.
	RowCount() int

	// ColumnCount returns the total number of columns in the data source.
	ColumnCount() int

	// ColumnName returns the name of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnName(col int) (string, error)

	// ColumnType returns the data type of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnType(col int) (DataType, error)

	// Cell returns the value at the specified row and column.
	// Returns ErrInvalidRow if row is out of range.
	// Returns ErrInvalidColumn if col is out of range.
	Cell(row, col int) (Value, error)

	// Row returns all values for the specified row.
	// Returns ErrInvalidRow if row is out of range.
	Row(row int) ([]Value, error)

	// Metadata returns optional metadata about the data source.
	// Returns an empty Metadata map if no metadata is available.
	Metadata() Metadata
}

// Row maps an accessor key to the raw value of one record.
type Row map[string]interface{}

// Records materializes a DataSource into rows keyed by column name.
// Null cells are left out of the row so they render as missing values.
func Records(ds DataSource) ([]Row, error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}

	names, err := columnNames(ds)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, ds.RowCount())
	for r := range rows {
		values, err := ds.Row(r)
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", r, err)
		}
		row := make(Row, len(names))
		for c, v := range values {
			if c >= len(names) || v.IsNull {
				continue
			}
			row[names[c]] = v.Raw
		}
		rows[r] = row
	}
	return rows, nil
}

// ColumnsOf returns one plain column per DataSource column, in source order.
func ColumnsOf(ds DataSource) ([]Column, error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}
	names, err := columnNames(ds)
	if err != nil {
		return nil, err
	}
	return ColumnsFromKeys(names...), nil
}

func columnNames(ds DataSource) ([]string, error) {
	names := make([]string, ds.ColumnCount())
	for c := range names {
		name, err := ds.ColumnName(c)
		if err != nil {
			return nil, err
		}
		names[c] = name
	}
	return names, nil
}

// RecordSource is a DataSource over in-memory rows.
type RecordSource struct {
	rows  []Row
	names []string
	types []DataType
	meta  Metadata
}

var _ DataSource = (*RecordSource)(nil)

// NewRecordSource wraps rows. When names is empty the columns are the sorted
// union of all keys present in rows. Column types are inferred from the first
// non-nil value in each column.
func NewRecordSource(rows []Row, names ...string) *RecordSource {
	if len(names) == 0 {
		seen := make(map[string]bool)
		for _, row := range rows {
			for k := range row {
				if !seen[k] {
					seen[k] = true
					names = append(names, k)
				}
			}
		}
		sort.Strings(names)
	}

	types := make([]DataType, len(names))
	for c, name := range names {
		types[c] = TypeString
		for _, row := range rows {
			if v, ok := row[name]; ok && v != nil {
				types[c] = InferType(v)
				break
			}
		}
	}

	return &RecordSource{
		rows:  rows,
		names: names,
		types: types,
		meta:  Metadata{},
	}
}

// NewRecordSourceFromMaps is NewRecordSource for decoded JSON objects.
func NewRecordSourceFromMaps(maps []map[string]interface{}, names ...string) *RecordSource {
	rows := make([]Row, len(maps))
	for i, m := range maps {
		rows[i] = Row(m)
	}
	return NewRecordSource(rows, names...)
}

// SetMetadata attaches a metadata entry, e.g. the file the rows came from.
func (s *RecordSource) SetMetadata(key string, value interface{}) {
	s.meta[key] = value
}

// RowCount implements DataSource.
func (s *RecordSource) RowCount() int { return len(s.rows) }

// ColumnCount implements DataSource.
func (s *RecordSource) ColumnCount() int { return len(s.names) }

// ColumnName implements DataSource.
func (s *RecordSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.names) {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return s.names[col], nil
}

// ColumnType implements DataSource.
func (s *RecordSource) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(s.types) {
		return TypeString, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return s.types[col], nil
}

// Cell implements DataSource.
func (s *RecordSource) Cell(row, col int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if col < 0 || col >= len(s.names) {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return NewValue(s.rows[row][s.names[col]], s.types[col]), nil
}

// Row implements DataSource.
func (s *RecordSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	values := make([]Value, len(s.names))
	for c, name := range s.names {
		values[c] = NewValue(s.rows[row][name], s.types[c])
	}
	return values, nil
}

// Metadata implements DataSource.
func (s *RecordSource) Metadata() Metadata { return s.meta }
