package datatable

// Filter decides whether a row takes part in a rendering.
type Filter interface {
	// Evaluate reports whether row passes the filter.
	Evaluate(row Row) (bool, error)

	// Description returns a human readable form of the filter.
	Description() string
}

// FilterFunc adapts a plain predicate to the Filter interface.
type FilterFunc func(row Row) bool

// Evaluate implements Filter.
func (f FilterFunc) Evaluate(row Row) (bool, error) {
	return f(row), nil
}

// Description implements Filter.
func (f FilterFunc) Description() string {
	return "custom filter"
}
