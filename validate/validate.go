// Package validate checks candidate rows against a table schema before they
// are encoded and stored.
package validate

import (
	"unicode/utf8"

	"github.com/shibukawa/chansql/rowcodec"
	"github.com/shibukawa/chansql/schema"
	"github.com/shibukawa/chansql/value"
)

// Insert checks values against s and against the rows already stored. It
// returns the first failure as a *ValidationError. A flexible schema accepts
// anything.
func Insert(s schema.Schema, values []value.Value, existing []rowcodec.Row) error {
	if s.IsFlexible() {
		return nil
	}

	if len(values) != len(s) {
		return &ValidationError{Err: ErrColumnCountMismatch, ExpectedCount: len(s), ActualCount: len(values)}
	}

	for i, column := range s {
		if err := Value(column, i+1, values[i]); err != nil {
			return err
		}
	}

	return primaryKey(s, values, existing)
}

// Value checks a single value for the column at the 1-based position.
func Value(column schema.Column, position int, v value.Value) error {
	if v.IsNull() {
		if column.Nullable() {
			return nil
		}

		return &ValidationError{Err: ErrNullNotAllowed, Column: column.Name, Position: position}
	}

	kind := column.Type.Kind

	switch {
	case kind == schema.Int:
		if v.Kind != value.KindInteger {
			return mismatch(column, position, "integer", v)
		}
	case kind == schema.Boolean:
		if v.Kind != value.KindBoolean {
			return mismatch(column, position, "boolean", v)
		}
	case kind.IsNumeric():
		if !v.IsNumeric() {
			return mismatch(column, position, "number", v)
		}
	case kind.IsText():
		if v.Kind != value.KindString {
			return mismatch(column, position, "string", v)
		}

		if length := utf8.RuneCountInString(v.Str); length > column.Type.Size {
			return &ValidationError{
				Err:      ErrStringTooLong,
				Column:   column.Name,
				Position: position,
				Length:   length,
				Max:      column.Type.Size,
			}
		}
	case kind.IsTemporal():
		if v.Kind != value.KindString {
			return mismatch(column, position, "string (ISO-8601)", v)
		}

		return temporal(column, v.Str)
	}

	return nil
}

func temporal(column schema.Column, s string) error {
	var (
		ok   bool
		hint string
	)

	switch column.Type.Kind {
	case schema.Date:
		ok, hint = IsDate(s), DateHint
	case schema.Time:
		ok, hint = IsTime(s), TimeHint
	default:
		ok, hint = IsDateTime(s), DateTimeHint
	}

	if ok {
		return nil
	}

	return &ValidationError{Err: ErrInvalidIsoFormat, Column: column.Name, Value: s, Expected: hint}
}

func mismatch(column schema.Column, position int, expected string, got value.Value) error {
	return &ValidationError{
		Err:      ErrTypeMismatch,
		Column:   column.Name,
		Position: position,
		Expected: expected,
		Got:      got.Kind.String(),
	}
}

// primaryKey compares the key tuple of values with every existing row.
// Rows missing a key column never collide.
func primaryKey(s schema.Schema, values []value.Value, existing []rowcodec.Row) error {
	keys := s.PrimaryKey()
	if len(keys) == 0 {
		return nil
	}

	for _, row := range existing {
		if sameKey(s, keys, values, row) {
			columns := make([]string, len(keys))
			tuple := make([]value.Value, len(keys))

			for i, k := range keys {
				columns[i] = s[k].Name
				tuple[i] = values[k]
			}

			return &ValidationError{Err: ErrDuplicatePrimaryKey, Columns: columns, Values: tuple}
		}
	}

	return nil
}

func sameKey(s schema.Schema, keys []int, values []value.Value, row rowcodec.Row) bool {
	for _, k := range keys {
		stored, ok := row.Lookup(s[k].Name)
		if !ok || !value.Equal(stored, values[k]) {
			return false
		}
	}

	return true
}
