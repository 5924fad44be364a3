package schema

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestValidateTypeSpec(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		param    string
		expected DataType
		err      error
	}{
		{"int", "INT", "", DataType{Kind: Int}, nil},
		{"integer alias lower case", "integer", "", DataType{Kind: Int}, nil},
		{"int with param", "INT", "11", DataType{}, ErrParamNotAllowed},
		{"bool alias", "bool", "", DataType{Kind: Boolean}, nil},
		{"boolean with param", "BOOLEAN", "1", DataType{}, ErrParamNotAllowed},
		{"varchar", "VARCHAR", "255", DataType{Kind: Varchar, Size: 255}, nil},
		{"varchar without size", "VARCHAR", "", DataType{}, ErrMissingSize},
		{"varchar zero", "VARCHAR", "0", DataType{}, ErrSizeOutOfRange},
		{"varchar upper bound", "varchar", "65535", DataType{Kind: Varchar, Size: 65535}, nil},
		{"varchar too big", "VARCHAR", "65536", DataType{}, ErrSizeOutOfRange},
		{"varchar not a number", "VARCHAR", "abc", DataType{}, ErrSizeOutOfRange},
		{"text alias", "text", "10", DataType{Kind: Varchar, Size: 10}, nil},
		{"char", "CHAR", "1", DataType{Kind: Char, Size: 1}, nil},
		{"char without size", "character", "", DataType{}, ErrMissingSize},
		{"float without precision", "FLOAT", "", DataType{Kind: Float}, nil},
		{"real alias", "real", "", DataType{Kind: Float}, nil},
		{"double precision", "DOUBLE", "65", DataType{Kind: Double, Precision: 65}, nil},
		{"decimal precision too big", "DECIMAL", "66", DataType{}, ErrPrecisionOutOfRange},
		{"numeric precision zero", "numeric", "0", DataType{}, ErrPrecisionOutOfRange},
		{"date", "DATE", "", DataType{Kind: Date}, nil},
		{"time with param", "TIME", "3", DataType{}, ErrParamNotAllowed},
		{"timestamp alias", "timestamp", "", DataType{Kind: DateTime}, nil},
		{"unknown", "BLOB", "", DataType{}, ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataType, err := ValidateTypeSpec(tt.typeName, tt.param)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, dataType)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Schema
	}{
		{
			name:  "primary key and varchar",
			input: "id INT PRIMARY KEY, name VARCHAR(5)",
			expected: Schema{
				{Name: "id", Type: DataType{Kind: Int}, PrimaryKey: true},
				{Name: "name", Type: DataType{Kind: Varchar, Size: 5}},
			},
		},
		{
			name:  "case insensitive keywords and spacing",
			input: "  Id integer primary   key ,Price decimal ( 10 ) not null",
			expected: Schema{
				{Name: "Id", Type: DataType{Kind: Int}, PrimaryKey: true},
				{Name: "Price", Type: DataType{Kind: Decimal, Precision: 10}, NotNull: true},
			},
		},
		{
			name:  "composite key",
			input: "a INT PRIMARY KEY, b CHAR(2) NOT NULL PRIMARY KEY, born DATE",
			expected: Schema{
				{Name: "a", Type: DataType{Kind: Int}, PrimaryKey: true},
				{Name: "b", Type: DataType{Kind: Char, Size: 2}, PrimaryKey: true, NotNull: true},
				{Name: "born", Type: DataType{Kind: Date}},
			},
		},
		{
			name:     "empty input is flexible",
			input:    "",
			expected: nil,
		},
		{
			name:     "blank input is flexible",
			input:    "   \t",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, s)
			assert.Equal(t, len(tt.expected) == 0, s.IsFlexible())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		column string
	}{
		{"int with size", "id INT(11)", ErrParamNotAllowed, "id"},
		{"varchar without size", "name VARCHAR", ErrMissingSize, "name"},
		{"varchar zero", "name VARCHAR(0)", ErrSizeOutOfRange, "name"},
		{"negative size", "name VARCHAR(-1)", ErrSizeOutOfRange, "name"},
		{"unknown type", "id INT, data BLOB", ErrUnknownType, "data"},
		{"duplicate column", "id INT, ID VARCHAR(3)", ErrDuplicateColumn, "ID"},
		{"missing type", "id", ErrInvalidColumnDefinition, ""},
		{"trailing garbage", "id INT UNIQUE", ErrInvalidColumnDefinition, ""},
		{"empty definition", "id INT,,name CHAR(1)", ErrInvalidColumnDefinition, ""},
		{"legacy colon is not canonical", "id: INT", ErrInvalidColumnDefinition, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)

			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.column, schemaErr.Column)
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	inputs := []string{
		"id INT PRIMARY KEY, name VARCHAR(5)",
		"a integer not null primary key, b text(20), c real, d numeric(12), e timestamp, f bool, g time, h date, i double(3), j character(4)",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			assert.NoError(t, err)

			second, err := Parse(first.String())
			assert.NoError(t, err)
			assert.Equal(t, first, second)

			decoded, err := Decode(first.String())
			assert.NoError(t, err)
			assert.Equal(t, first, decoded)
		})
	}
}

func TestSerialize(t *testing.T) {
	s, err := Parse("id integer primary key, name text(10) not null, score float")
	assert.NoError(t, err)
	assert.Equal(t, "id INT PRIMARY KEY, name VARCHAR(10) NOT NULL, score FLOAT", s.String())
	assert.Equal(t, "CREATE TABLE users (\n    id INT PRIMARY KEY,\n    name VARCHAR(10) NOT NULL,\n    score FLOAT\n)", s.CreateTableSQL("users"))
}

func TestDecodeLegacy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Schema
	}{
		{
			name:  "topic prefix and colon form",
			input: "Schema: id: INT, name: VARCHAR",
			expected: Schema{
				{Name: "id", Type: DataType{Kind: Int}},
				{Name: "name", Type: DataType{Kind: Varchar, Size: MaxSize}},
			},
		},
		{
			name:  "missing sizes and stray params",
			input: "id INT(11) PRIMARY KEY, code CHAR, price DECIMAL(99)",
			expected: Schema{
				{Name: "id", Type: DataType{Kind: Int}, PrimaryKey: true},
				{Name: "code", Type: DataType{Kind: Char, Size: MaxSize}},
				{Name: "price", Type: DataType{Kind: Decimal}},
			},
		},
		{
			name:  "unknown modifiers ignored",
			input: "email: text UNIQUE",
			expected: Schema{
				{Name: "email", Type: DataType{Kind: Varchar, Size: MaxSize}},
			},
		},
		{
			name:     "prefix without definitions",
			input:    "Schema: ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestDecodeLegacyStillRejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"unknown type in colon form", "Schema: id: INT, data: BLOB", ErrUnknownType},
		{"duplicate after missing size", "id INT, id TEXT", ErrDuplicateColumn},
		{"unknown type after missing size", "name VARCHAR, data BLOB", ErrUnknownType},
		{"duplicate after bad precision", "a FLOAT(99), A INT", ErrDuplicateColumn},
		{"duplicate after stray param", "a INT(11), a INT", ErrDuplicateColumn},
		{"unknown type after size out of range", "a CHAR(0), b BLOB", ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.IsError(t, err, tt.expected)
		})
	}
}

func TestSchemaLookup(t *testing.T) {
	s, err := Parse("id INT PRIMARY KEY, tenant INT PRIMARY KEY, Name VARCHAR(3)")
	assert.NoError(t, err)

	assert.Equal(t, 2, s.Index("name"))
	assert.Equal(t, -1, s.Index("missing"))
	assert.Equal(t, []int{0, 1}, s.PrimaryKey())
	assert.Equal(t, []string{"id", "tenant", "Name"}, s.Names())
	assert.False(t, s[0].Nullable())
	assert.True(t, s[2].Nullable())
}
