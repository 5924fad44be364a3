// Package rowcodec converts rows to and from the text block stored as one
// message per row:
//
//	TIMESTAMP: 2025-08-19T10:04:05.123Z
//	DATA:
//	  id: 1
//	  name: 'Alice'
//
// Rows of flexible tables have no column names; their fields are numbered
// from 1.
package rowcodec

import (
	"strconv"
	"strings"
	"time"

	"github.com/shibukawa/chansql/value"
)

// Row is one decoded row. Columns is nil for positional rows.
type Row struct {
	Timestamp time.Time
	Columns   []string
	Values    []value.Value
}

// NewRow builds a row of named values. columns and values must have the same length.
func NewRow(ts time.Time, columns []string, values []value.Value) Row {
	return Row{Timestamp: ts, Columns: columns, Values: values}
}

// NewPositionalRow builds a row for a table without schema.
func NewPositionalRow(ts time.Time, values []value.Value) Row {
	return Row{Timestamp: ts, Values: values}
}

// IsPositional reports whether the row has no column names.
func (r Row) IsPositional() bool {
	return r.Columns == nil
}

// Name returns the field name at i: the column name, or the 1-based
// position for positional rows.
func (r Row) Name(i int) string {
	if r.IsPositional() {
		return strconv.Itoa(i + 1)
	}

	return r.Columns[i]
}

// Lookup returns the value of the named column, ignoring case. Positional
// rows are addressed by their 1-based position.
func (r Row) Lookup(name string) (value.Value, bool) {
	if r.IsPositional() {
		i, err := strconv.Atoi(name)
		if err != nil || i < 1 || i > len(r.Values) {
			return value.Value{}, false
		}

		return r.Values[i-1], true
	}

	for i, c := range r.Columns {
		if strings.EqualFold(c, name) {
			return r.Values[i], true
		}
	}

	return value.Value{}, false
}
