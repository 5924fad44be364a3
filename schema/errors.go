package schema

import (
	"errors"
	"fmt"
	"strings"

	tok "github.com/shibukawa/chansql/tokenizer"
)

// Sentinel errors
var (
	// ErrMissingSize is returned when VARCHAR or CHAR has no size.
	ErrMissingSize = errors.New("missing size")
	// ErrSizeOutOfRange is returned when a VARCHAR or CHAR size is not an integer in 1..65535.
	ErrSizeOutOfRange = errors.New("size out of range")
	// ErrParamNotAllowed is returned when a parameter is given to a type that takes none.
	ErrParamNotAllowed = errors.New("parameter not allowed")
	// ErrPrecisionOutOfRange is returned when a FLOAT, DOUBLE or DECIMAL precision is not an integer in 1..65.
	ErrPrecisionOutOfRange = errors.New("precision out of range")
	// ErrUnknownType is returned for a type name that is not supported.
	ErrUnknownType = errors.New("unknown type")
	// ErrDuplicateColumn is returned when two columns share a name, ignoring case.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrInvalidColumnDefinition is returned when a definition does not have the shape `name TYPE[(param)] [constraints]`.
	ErrInvalidColumnDefinition = errors.New("invalid column definition")
)

// SchemaError describes a rejected column definition.
type SchemaError struct {
	Err        error
	Column     string
	TypeName   string
	Param      string
	Definition string
	Position   tok.Position
}

func (e *SchemaError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	switch {
	case errors.Is(e.Err, ErrMissingSize):
		fmt.Fprintf(&b, ": %s requires a size, e.g. %s(255)", e.TypeName, e.TypeName)
	case errors.Is(e.Err, ErrSizeOutOfRange):
		fmt.Fprintf(&b, ": %s(%s) size must be an integer between 1 and %d", e.TypeName, e.Param, MaxSize)
	case errors.Is(e.Err, ErrPrecisionOutOfRange):
		fmt.Fprintf(&b, ": %s(%s) precision must be an integer between 1 and %d", e.TypeName, e.Param, MaxPrecision)
	case errors.Is(e.Err, ErrParamNotAllowed):
		fmt.Fprintf(&b, ": %s does not take a parameter (got %s)", e.TypeName, e.Param)
	case errors.Is(e.Err, ErrUnknownType):
		fmt.Fprintf(&b, ": %s is not a valid data type (supported: INT, VARCHAR, CHAR, BOOLEAN, FLOAT, DOUBLE, DECIMAL, DATE, TIME, DATETIME)", e.TypeName)
	case errors.Is(e.Err, ErrDuplicateColumn):
		fmt.Fprintf(&b, ": %s", e.Column)
	case errors.Is(e.Err, ErrInvalidColumnDefinition):
		fmt.Fprintf(&b, ": '%s' (expected 'column_name data_type')", e.Definition)
	}

	if e.Column != "" && !errors.Is(e.Err, ErrDuplicateColumn) {
		fmt.Fprintf(&b, " for column %s", e.Column)
	}

	if e.Position.Line > 0 {
		fmt.Fprintf(&b, " at %s", e.Position)
	}

	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
