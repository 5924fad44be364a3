package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/chansql/value"
)

// Sentinel errors
var (
	// ErrColumnCountMismatch is returned when the number of values differs from the number of columns.
	ErrColumnCountMismatch = errors.New("value count mismatch")
	// ErrTypeMismatch is returned when a value has the wrong kind for its column.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrStringTooLong is returned when a string exceeds the VARCHAR/CHAR size.
	ErrStringTooLong = errors.New("string too long")
	// ErrInvalidIsoFormat is returned when a DATE, TIME or DATETIME value is not valid ISO-8601.
	ErrInvalidIsoFormat = errors.New("invalid ISO-8601 format")
	// ErrDuplicatePrimaryKey is returned when another row already holds the same key.
	ErrDuplicatePrimaryKey = errors.New("duplicate primary key")
	// ErrNullNotAllowed is returned when NULL is given for a NOT NULL or PRIMARY KEY column.
	ErrNullNotAllowed = errors.New("NULL not allowed")
)

// ValidationError describes the first rule a candidate row broke. Position
// is the 1-based value position. Which of the other fields are set depends
// on Err.
type ValidationError struct {
	Err      error
	Column   string
	Position int

	// ErrColumnCountMismatch
	ExpectedCount int
	ActualCount   int

	// ErrTypeMismatch; Expected is also the format hint for ErrInvalidIsoFormat
	Expected string
	Got      string

	// ErrStringTooLong
	Length int
	Max    int

	// ErrInvalidIsoFormat
	Value string

	// ErrDuplicatePrimaryKey
	Columns []string
	Values  []value.Value
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrColumnCountMismatch):
		return fmt.Sprintf("%v: expected %d values, got %d", e.Err, e.ExpectedCount, e.ActualCount)
	case errors.Is(e.Err, ErrTypeMismatch):
		return fmt.Sprintf("%v for column %s (position %d): expected %s, got %s", e.Err, e.Column, e.Position, e.Expected, e.Got)
	case errors.Is(e.Err, ErrStringTooLong):
		return fmt.Sprintf("%v for column %s (position %d): length %d exceeds maximum %d", e.Err, e.Column, e.Position, e.Length, e.Max)
	case errors.Is(e.Err, ErrInvalidIsoFormat):
		return fmt.Sprintf("%v for column %s: '%s' (expected %s)", e.Err, e.Column, e.Value, e.Expected)
	case errors.Is(e.Err, ErrDuplicatePrimaryKey):
		rendered := make([]string, len(e.Values))
		for i, v := range e.Values {
			rendered[i] = value.Render(v)
		}

		return fmt.Sprintf("%v: (%s) = (%s) already exists", e.Err, strings.Join(e.Columns, ", "), strings.Join(rendered, ", "))
	case errors.Is(e.Err, ErrNullNotAllowed):
		return fmt.Sprintf("%v for column %s (position %d)", e.Err, e.Column, e.Position)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
