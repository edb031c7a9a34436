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

package filter

import (
	"fmt"
	"strconv"
	"strings"

	"dgb/datatable"
)

// CompOp is a comparison operator in a query expression.
type CompOp int

const (
	OpEqual CompOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpContains
)

// operators is ordered so that two-character symbols win over their
// one-character prefixes at the same position.
var operators = []struct {
	op     CompOp
	symbol string
}{
	{OpGreaterEqual, ">="},
	{OpLessEqual, "<="},
	{OpNotEqual, "!="},
	{OpEqual, "="},
	{OpGreater, ">"},
	{OpLess, "<"},
	{OpContains, "~"},
}

// String returns the operator symbol.
func (op CompOp) String() string {
	for _, o := range operators {
		if o.op == op {
			return o.symbol
		}
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Expression is a single comparison. An empty Column searches every column
// for Value.
type Expression struct {
	Column   string
	Operator CompOp
	Value    string

	columns []string
}

var _ datatable.Filter = Expression{}

// Evaluate implements datatable.Filter.
func (e Expression) Evaluate(row datatable.Row) (bool, error) {
	if e.Column == "" {
		term := strings.ToLower(e.Value)
		for _, key := range e.searchColumns(row) {
			if strings.Contains(strings.ToLower(datatable.FormatRaw(row[key])), term) {
				return true, nil
			}
		}
		return false, nil
	}

	cell := datatable.FormatRaw(row[e.Column])

	switch e.Operator {
	case OpEqual:
		return strings.EqualFold(cell, e.Value), nil
	case OpNotEqual:
		return !strings.EqualFold(cell, e.Value), nil
	case OpContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(e.Value)), nil
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		return compare(cell, e.Value, e.Operator), nil
	default:
		return false, fmt.Errorf("%w: unknown operator %d", datatable.ErrInvalidFilter, e.Operator)
	}
}

// Description implements datatable.Filter.
func (e Expression) Description() string {
	if e.Column == "" {
		return fmt.Sprintf("any ~ %q", e.Value)
	}
	return fmt.Sprintf("%s %s %q", e.Column, e.Operator, e.Value)
}

func (e Expression) searchColumns(row datatable.Row) []string {
	if len(e.columns) > 0 {
		return e.columns
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	return keys
}

// Query is a chain of expressions joined by AND/OR, evaluated left to right
// without precedence.
type Query struct {
	Expressions []Expression
	LogicOps    []LogicOp
	text        string
}

var _ datatable.Filter = (*Query)(nil)

// Parse parses a query such as `age > 30 AND city ~ lon`. Column names are
// matched case-insensitively against columns and an unknown name is an
// error wrapping datatable.ErrColumnNotFound. A term without an operator is
// a contains search across all columns. A blank query returns nil.
func Parse(query string, columns []string) (*Query, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	columnMap := make(map[string]string, len(columns))
	for _, c := range columns {
		columnMap[strings.ToLower(c)] = c
	}

	q := &Query{text: strings.TrimSpace(query)}
	for _, part := range splitByLogicOps(query) {
		if part.isOperator {
			if part.text == "AND" {
				q.LogicOps = append(q.LogicOps, LogicAND)
			} else {
				q.LogicOps = append(q.LogicOps, LogicOR)
			}
			continue
		}
		expr, err := parseExpression(part.text, columnMap)
		if err != nil {
			return nil, err
		}
		expr.columns = columns
		q.Expressions = append(q.Expressions, expr)
	}

	if len(q.Expressions) == 0 || len(q.LogicOps) != len(q.Expressions)-1 {
		return nil, fmt.Errorf("%w: mismatched expressions and operators in %q", datatable.ErrInvalidFilter, query)
	}
	return q, nil
}

// Evaluate implements datatable.Filter. A nil query passes every row.
func (q *Query) Evaluate(row datatable.Row) (bool, error) {
	if q == nil || len(q.Expressions) == 0 {
		return true, nil
	}

	result, err := q.Expressions[0].Evaluate(row)
	if err != nil {
		return false, err
	}
	for i, op := range q.LogicOps {
		next, err := q.Expressions[i+1].Evaluate(row)
		if err != nil {
			return false, err
		}
		switch op {
		case LogicAND:
			result = result && next
		case LogicOR:
			result = result || next
		}
	}
	return result, nil
}

// Description implements datatable.Filter.
func (q *Query) Description() string {
	if q == nil {
		return "empty query"
	}
	return q.text
}

type queryPart struct {
	text       string
	isOperator bool
}

// splitByLogicOps splits on standalone AND/OR words outside quotes.
func splitByLogicOps(query string) []queryPart {
	var parts []queryPart
	var current strings.Builder
	var quote byte

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, queryPart{text: s})
		}
		current.Reset()
	}

	for i := 0; i < len(query); {
		c := query[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
			i++
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			current.WriteByte(c)
			i++
			continue
		}

		if word, ok := logicWordAt(query, i); ok {
			flush()
			parts = append(parts, queryPart{text: word, isOperator: true})
			i += len(word)
			continue
		}

		current.WriteByte(c)
		i++
	}
	flush()
	return parts
}

func logicWordAt(s string, i int) (string, bool) {
	for _, word := range []string{"AND", "OR"} {
		end := i + len(word)
		if end > len(s) || !strings.EqualFold(s[i:end], word) {
			continue
		}
		if (i == 0 || isWhitespace(s[i-1])) && (end == len(s) || isWhitespace(s[end])) {
			return word, true
		}
	}
	return "", false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseExpression parses a single expression like "column = value".
func parseExpression(text string, columnMap map[string]string) (Expression, error) {
	text = strings.TrimSpace(text)

	best, bestAt := -1, len(text)
	for i, o := range operators {
		if idx := strings.Index(text, o.symbol); idx > 0 && idx < bestAt {
			best, bestAt = i, idx
		}
	}

	if best < 0 {
		return Expression{Operator: OpContains, Value: unquote(text)}, nil
	}

	op := operators[best]
	name := strings.TrimSpace(text[:bestAt])
	column, ok := columnMap[strings.ToLower(name)]
	if !ok {
		return Expression{}, fmt.Errorf("%w: %s", datatable.ErrColumnNotFound, name)
	}

	return Expression{
		Column:   column,
		Operator: op.op,
		Value:    unquote(strings.TrimSpace(text[bestAt+len(op.symbol):])),
	}, nil
}

func unquote(s string) string {
	return strings.Trim(s, "\"'")
}

// compare compares numerically when both sides parse as numbers, otherwise
// case-insensitively as strings.
func compare(cellValue, compareValue string, op CompOp) bool {
	var cmp int
	cell, err1 := strconv.ParseFloat(strings.TrimSpace(cellValue), 64)
	other, err2 := strconv.ParseFloat(strings.TrimSpace(compareValue), 64)
	if err1 == nil && err2 == nil {
		switch {
		case cell < other:
			cmp = -1
		case cell > other:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(strings.ToLower(cellValue), strings.ToLower(compareValue))
	}

	switch op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}
