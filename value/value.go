// Package value holds the SQL literal values stored in rows and compared by
// filters, with the parser for comma-separated literal lists.
package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged SQL value. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func Null() Value               { return Value{Kind: KindNull} }
func Bool(b bool) Value         { return Value{Kind: KindBoolean, Bool: b} }
func Int(i int64) Value         { return Value{Kind: KindInteger, Int: i} }
func Float(f float64) Value     { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value     { return Value{Kind: KindString, Str: s} }
func (v Value) IsNull() bool    { return v.Kind == KindNull }
func (v Value) IsNumeric() bool { return v.Kind == KindInteger || v.Kind == KindFloat }

// String renders v as a SQL literal.
func (v Value) String() string {
	return Render(v)
}

// Render returns the literal text of v. Parsing the result with ParseLiteral
// yields v again: strings are single-quoted with ' doubled and floats always
// keep a fraction or exponent so they do not come back as integers.
func Render(v Value) string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindString:
		return Quote(v.Str)
	default:
		return ""
	}
}

// Quote wraps s in single quotes, doubling embedded quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}

	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// Native converts v to the Go value used by encoders: nil, bool, int64,
// float64 or string.
func (v Value) Native() any {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	default:
		return nil
	}
}

// Decimal returns the exact decimal form of a numeric value.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.Kind {
	case KindInteger:
		return decimal.NewFromInt(v.Int), true
	case KindFloat:
		if math.IsInf(v.Float, 0) || math.IsNaN(v.Float) {
			return decimal.Decimal{}, false
		}

		return decimal.NewFromFloat(v.Float), true
	default:
		return decimal.Decimal{}, false
	}
}

// Equal reports whether a and b hold the same value. Values of the same kind
// compare directly; an integer and a float are equal when they are
// numerically equal. Every other cross-kind pair is unequal.
func Equal(a, b Value) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindNull:
			return true
		case KindBoolean:
			return a.Bool == b.Bool
		case KindInteger:
			return a.Int == b.Int
		case KindFloat:
			return a.Float == b.Float
		case KindString:
			return a.Str == b.Str
		}

		return false
	}

	if a.IsNumeric() && b.IsNumeric() {
		da, okA := a.Decimal()
		db, okB := b.Decimal()

		return okA && okB && da.Equal(db)
	}

	return false
}
