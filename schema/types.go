package schema

import (
	"strconv"
	"strings"
)

// TypeKind enumerates the supported column types.
type TypeKind int

const (
	Int TypeKind = iota + 1
	Boolean
	Varchar
	Char
	Float
	Double
	Decimal
	Date
	Time
	DateTime
)

const (
	// MaxSize is the largest VARCHAR/CHAR size.
	MaxSize = 65535
	// MaxPrecision is the largest FLOAT/DOUBLE/DECIMAL precision.
	MaxPrecision = 65
)

var typeNames = map[TypeKind]string{
	Int:      "INT",
	Boolean:  "BOOLEAN",
	Varchar:  "VARCHAR",
	Char:     "CHAR",
	Float:    "FLOAT",
	Double:   "DOUBLE",
	Decimal:  "DECIMAL",
	Date:     "DATE",
	Time:     "TIME",
	DateTime: "DATETIME",
}

// aliases maps lower-case spellings to their type.
var aliases = map[string]TypeKind{
	"int":       Int,
	"integer":   Int,
	"bool":      Boolean,
	"boolean":   Boolean,
	"varchar":   Varchar,
	"string":    Varchar,
	"text":      Varchar,
	"char":      Char,
	"character": Char,
	"float":     Float,
	"real":      Float,
	"double":    Double,
	"decimal":   Decimal,
	"numeric":   Decimal,
	"date":      Date,
	"time":      Time,
	"datetime":  DateTime,
	"timestamp": DateTime,
}

func (k TypeKind) String() string {
	if name, ok := typeNames[k]; ok {
		return name
	}

	return "UNKNOWN"
}

// paramRule describes what a type accepts between parentheses.
type paramRule int

const (
	paramNone paramRule = iota
	paramRequiredSize
	paramOptionalPrecision
)

func (k TypeKind) rule() paramRule {
	switch k {
	case Varchar, Char:
		return paramRequiredSize
	case Float, Double, Decimal:
		return paramOptionalPrecision
	default:
		return paramNone
	}
}

// IsTemporal reports whether values of this type are ISO-8601 strings.
func (k TypeKind) IsTemporal() bool {
	return k == Date || k == Time || k == DateTime
}

// IsNumeric reports whether the type accepts integer and float values.
func (k TypeKind) IsNumeric() bool {
	return k == Float || k == Double || k == Decimal
}

// IsText reports whether the type is VARCHAR or CHAR.
func (k TypeKind) IsText() bool {
	return k == Varchar || k == Char
}

// DataType is a column type with its size or precision.
// Size is always set for VARCHAR/CHAR; Precision is 0 when unspecified.
type DataType struct {
	Kind      TypeKind
	Size      int
	Precision int
}

// String renders the type the way it is written in a column definition.
func (t DataType) String() string {
	name := t.Kind.String()

	switch {
	case t.Kind.IsText():
		return name + "(" + strconv.Itoa(t.Size) + ")"
	case t.Kind.IsNumeric() && t.Precision > 0:
		return name + "(" + strconv.Itoa(t.Precision) + ")"
	default:
		return name
	}
}

// LookupType resolves a type name or alias, ignoring case.
func LookupType(name string) (TypeKind, bool) {
	k, ok := aliases[strings.ToLower(name)]
	return k, ok
}

// ValidateTypeSpec checks the parameter of a type. param is the raw text
// between the parentheses, or "" when there were none.
func ValidateTypeSpec(name, param string) (DataType, error) {
	kind, ok := LookupType(name)
	if !ok {
		return DataType{}, &SchemaError{Err: ErrUnknownType, TypeName: name}
	}

	switch kind.rule() {
	case paramRequiredSize:
		if param == "" {
			return DataType{}, &SchemaError{Err: ErrMissingSize, TypeName: kind.String()}
		}

		size, err := strconv.Atoi(param)
		if err != nil || size < 1 || size > MaxSize {
			return DataType{}, &SchemaError{Err: ErrSizeOutOfRange, TypeName: kind.String(), Param: param}
		}

		return DataType{Kind: kind, Size: size}, nil
	case paramOptionalPrecision:
		if param == "" {
			return DataType{Kind: kind}, nil
		}

		precision, err := strconv.Atoi(param)
		if err != nil || precision < 1 || precision > MaxPrecision {
			return DataType{}, &SchemaError{Err: ErrPrecisionOutOfRange, TypeName: kind.String(), Param: param}
		}

		return DataType{Kind: kind, Precision: precision}, nil
	default:
		if param != "" {
			return DataType{}, &SchemaError{Err: ErrParamNotAllowed, TypeName: kind.String(), Param: param}
		}

		return DataType{Kind: kind}, nil
	}
}
