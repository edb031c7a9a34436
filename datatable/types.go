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

// Package datatable provides the grid model shared by every dgb front end:
// cell keys, column descriptors, typed values, data sources and the grid
// renderer that turns rows and columns into a displayable structure.
package datatable

import (
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeBinary represents binary/blob data.
	TypeBinary
	// TypeDecimal represents decimal/numeric data (fixed precision).
	TypeDecimal
	// TypeStruct represents structured data (nested fields).
	TypeStruct
	// TypeList represents list/array data.
	TypeList
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	case TypeBinary:
		return "Binary"
	case TypeDecimal:
		return "Decimal"
	case TypeStruct:
		return "Struct"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// InferType guesses the DataType of a raw Go value.
// Unknown kinds fall back to TypeString.
func InferType(raw interface{}) DataType {
	switch v := raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case bool:
		return TypeBool
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return TypeDate
		}
		return TypeTimestamp
	case []byte:
		return TypeBinary
	case *big.Float, *big.Rat:
		return TypeDecimal
	case map[string]interface{}:
		return TypeStruct
	case []interface{}:
		return TypeList
	default:
		return TypeString
	}
}

// Value is a typed container for cell values.
// It holds the raw value, type information, and a pre-formatted string for display.
type Value struct {
	// Raw holds the underlying value.
	// The type depends on the DataType field.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is a pre-formatted string representation for display.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return NewNullValue(dataType)
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// FormatRaw stringifies a raw value the way a cell without a custom
// renderer displays it. nil formats as the empty string.
func FormatRaw(raw interface{}) string {
	if raw == nil {
		return ""
	}
	return formatValue(raw, InferType(raw))
}

// formatValue converts a raw value to a formatted string.
func formatValue(raw interface{}, dataType DataType) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		if dataType == TypeDate {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", raw)
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// Next cycles None -> Ascending -> Descending -> None, the order a header
// click walks through.
func (sd SortDirection) Next() SortDirection {
	switch sd {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// SortState represents the current sorting configuration.
type SortState struct {
	// Column is the index of the sorted column (-1 if unsorted).
	Column int
	// Direction is the sort direction.
	Direction SortDirection
}

// Unsorted is the zero-effect sort state.
var Unsorted = SortState{Column: -1, Direction: SortNone}

// IsSorted returns true if this state represents an active sort.
func (s SortState) IsSorted() bool {
	return s.Column >= 0 && s.Direction != SortNone
}
