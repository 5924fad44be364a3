package value

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"escaped quote", "'it''s a test'", String("it's a test")},
		{"null", "NULL", Null()},
		{"null lower", "null", Null()},
		{"true", "true", Bool(true)},
		{"false mixed case", "FaLsE", Bool(false)},
		{"integer", "123", Int(123)},
		{"negative integer", "-42", Int(-42)},
		{"plus sign", "+7", Int(7)},
		{"float", "123.0", Float(123.0)},
		{"exponent", "1.5e3", Float(1500)},
		{"integer overflow becomes float", "99999999999999999999", Float(1e20)},
		{"backslash verbatim", `'a\nb'`, String(`a\nb`)},
		{"surrounding spaces", "  'x'  ", String("x")},
		{"quoted keyword", "'NULL'", String("NULL")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseLiteral(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		token string
	}{
		{"bare word", "foo", ErrInvalidLiteral, "foo"},
		{"two words", "John Doe", ErrInvalidLiteral, "John Doe"},
		{"double quotes", `"John"`, ErrInvalidLiteral, `"John"`},
		{"trailing garbage", "'abc'x", ErrInvalidLiteral, "'abc'x"},
		{"unterminated", "'abc", ErrUnterminatedString, ""},
		{"empty", "", ErrInvalidLiteral, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiteral(tt.input)
			assert.True(t, errors.Is(err, tt.err))

			var litErr *LiteralError
			assert.True(t, errors.As(err, &litErr))
			assert.Equal(t, tt.token, litErr.Token)
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Value
	}{
		{"mixed", "1, 'John Doe', true", []Value{Int(1), String("John Doe"), Bool(true)}},
		{"comma in string", "'a, b', 2", []Value{String("a, b"), Int(2)}},
		{"escaped quote and comma", "'it''s, ok', NULL", []Value{String("it's, ok"), Null()}},
		{"no spaces", "1,2.5,'x'", []Value{Int(1), Float(2.5), String("x")}},
		{"empty string literal", "'', 1", []Value{String(""), Int(1)}},
		{"empty input", "", []Value{}},
		{"blank input", "   ", []Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ParseList(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"unquoted string", "1, John", ErrInvalidLiteral},
		{"unterminated", "1, 'John", ErrUnterminatedString},
		{"empty element", "1,,2", ErrInvalidLiteral},
		{"trailing comma", "1, 2,", ErrInvalidLiteral},
		{"embedded NUL", "1\x00, 'drop me', 3", ErrInvalidLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList(tt.input)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestParseListKeepsRawBytes(t *testing.T) {
	values, err := ParseList("'\xff', 'a\x00b', 2")
	assert.NoError(t, err)
	assert.Equal(t, []Value{String("\xff"), String("a\x00b"), Int(2)}, values)
}

func TestParseListIsIdempotent(t *testing.T) {
	input := "1, 'it''s', 2.5, NULL, false"

	first, err := ParseList(input)
	assert.NoError(t, err)

	second, err := ParseList(input)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender(t *testing.T) {
	tests := []struct {
		input    Value
		expected string
	}{
		{String("it's"), "'it''s'"},
		{Null(), "NULL"},
		{Bool(true), "true"},
		{Int(-3), "-3"},
		{Float(123), "123.0"},
		{Float(0.25), "0.25"},
		{Float(1e21), "1e+21"},
		{Float(math.Inf(1)), "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.input))

			back, err := ParseLiteral(Render(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, tt.input, back)
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"same integer", Int(25), Int(25), true},
		{"different integer", Int(25), Int(26), false},
		{"integer widened to float", Int(25), Float(25.0), true},
		{"float not equal integer", Float(25.5), Int(25), false},
		{"large integer is exact", Int(9007199254740993), Float(9007199254740992), false},
		{"string exact", String("John"), String("John"), true},
		{"string case sensitive", String("John"), String("john"), false},
		{"string vs integer", String("25"), Int(25), false},
		{"bool", Bool(true), Bool(true), true},
		{"bool vs integer", Bool(true), Int(1), false},
		{"null vs null", Null(), Null(), true},
		{"null vs string", Null(), String("NULL"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}
