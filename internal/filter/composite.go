// Package filter holds the row filters a grid can apply before rendering.
package filter

import (
	"fmt"
	"strings"

	"dgb/datatable"
)

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines filters under one operator.
type CompositeFilter struct {
	Filters []datatable.Filter
	Logic   LogicOp
}

var _ datatable.Filter = (*CompositeFilter)(nil)

// And combines filters so that all must pass.
func And(filters ...datatable.Filter) *CompositeFilter {
	return &CompositeFilter{Filters: filters, Logic: LogicAND}
}

// Or combines filters so that one passing is enough.
func Or(filters ...datatable.Filter) *CompositeFilter {
	return &CompositeFilter{Filters: filters, Logic: LogicOR}
}

// Evaluate runs the filters in order and stops at the first result that
// decides the outcome: a rejection under AND, a match under OR. No filters
// accept every row.
func (f *CompositeFilter) Evaluate(row datatable.Row) (bool, error) {
	var decisive bool
	switch f.Logic {
	case LogicAND:
		decisive = false
	case LogicOR:
		decisive = true
	default:
		return false, fmt.Errorf("%w: unknown logic operator %d", datatable.ErrInvalidFilter, f.Logic)
	}
	if len(f.Filters) == 0 {
		return true, nil
	}

	for _, sub := range f.Filters {
		ok, err := sub.Evaluate(row)
		if err != nil {
			return false, fmt.Errorf("%s: %w", sub.Description(), err)
		}
		if ok == decisive {
			return decisive, nil
		}
	}
	return !decisive, nil
}

// Description joins the member descriptions with the operator.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "all rows"
	}

	parts := make([]string, 0, len(f.Filters))
	for _, sub := range f.Filters {
		parts = append(parts, sub.Description())
	}
	return "(" + strings.Join(parts, " "+f.Logic.String()+" ") + ")"
}
