// Package schema parses column definitions such as
// `id INT PRIMARY KEY, name VARCHAR(100) NOT NULL` into an ordered Schema
// and serializes it back to the single-line form stored in a table's topic.
package schema

import (
	"errors"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/chansql/parser/parsercommon"
	tok "github.com/shibukawa/chansql/tokenizer"
)

// Column is one column definition.
type Column struct {
	Name       string
	Type       DataType
	PrimaryKey bool
	NotNull    bool
}

// Nullable reports whether NULL may be stored. Primary key columns never accept NULL.
func (c Column) Nullable() bool {
	return !c.NotNull && !c.PrimaryKey
}

func (c Column) String() string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Type.String())

	if c.NotNull {
		b.WriteString(" NOT NULL")
	}

	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}

	return b.String()
}

// Schema is an ordered list of columns. An empty Schema describes a flexible
// table that accepts any values.
type Schema []Column

// IsFlexible reports whether no columns are declared.
func (s Schema) IsFlexible() bool {
	return len(s) == 0
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}

	return names
}

// Index returns the position of the named column, ignoring case, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}

	return -1
}

// PrimaryKey returns the positions of the primary key columns.
func (s Schema) PrimaryKey() []int {
	var keys []int

	for i, c := range s {
		if c.PrimaryKey {
			keys = append(keys, i)
		}
	}

	return keys
}

// String serializes s on a single line. Parse(s.String()) returns s.
func (s Schema) String() string {
	defs := make([]string, len(s))
	for i, c := range s {
		defs[i] = c.String()
	}

	return strings.Join(defs, ", ")
}

// CreateTableSQL renders s as a CREATE TABLE statement for display.
func (s Schema) CreateTableSQL(table string) string {
	var b strings.Builder

	b.WriteString("CREATE TABLE ")
	b.WriteString(table)
	b.WriteString(" (\n")

	for i, c := range s {
		if i > 0 {
			b.WriteString(",\n")
		}

		b.WriteString("    ")
		b.WriteString(c.String())
	}

	b.WriteString("\n)")

	return b.String()
}

var (
	typeParam = pc.Seq(
		cmn.WS2(cmn.ParenOpen),
		pc.Optional(cmn.Tag("param", pc.Optional(cmn.Sign), pc.Or(cmn.Number, cmn.Identifier, cmn.String))),
		cmn.SP,
		cmn.WS2(cmn.ParenClose),
	)
	constraint = pc.Or(
		cmn.Tag("primary-key", cmn.WS2(cmn.Primary), cmn.WS2(cmn.Key)),
		cmn.Tag("not-null", cmn.WS2(cmn.Not), cmn.WS2(cmn.Null)),
	)
	columnDefinition = pc.Seq(
		cmn.SP,
		cmn.Tag("column", cmn.WS2(cmn.Identifier)),
		cmn.Tag("type", cmn.WS2(cmn.Identifier)),
		pc.Optional(typeParam),
		pc.ZeroOrMore("constraint", constraint),
		cmn.EOS,
	)
)

// definition is the raw shape of one matched column definition.
type definition struct {
	name       tok.Token
	typeName   string
	param      string
	primaryKey bool
	notNull    bool
}

// Parse parses comma-separated column definitions. Blank input yields an
// empty (flexible) schema.
func Parse(src string) (Schema, error) {
	defs, err := splitDefinitions(src, columnDefinition)
	if err != nil || len(defs) == 0 {
		return nil, err
	}

	result := make(Schema, 0, len(defs))

	for _, def := range defs {
		dataType, err := ValidateTypeSpec(def.typeName, def.param)
		if err != nil {
			return nil, withColumn(err, def)
		}

		result, err = appendColumn(result, def, dataType)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func splitDefinitions(src string, pattern pc.Parser[tok.Token]) ([]definition, error) {
	tokens, err := tok.New(src).AllTokens()
	if err != nil {
		return nil, &SchemaError{Err: ErrInvalidColumnDefinition, Definition: src, Position: lexPosition(err)}
	}

	if len(cmn.TrimSpace(tokens)) == 0 {
		return nil, nil
	}

	pctx := pc.NewParseContext[tok.Token]()

	var defs []definition

	for _, part := range cmn.SplitTopLevel(tokens, tok.COMMA) {
		part = cmn.TrimSpace(part)
		if len(part) == 0 {
			return nil, &SchemaError{Err: ErrInvalidColumnDefinition}
		}

		_, match, err := pattern(pctx, cmn.ToParserToken(part))
		if err != nil {
			return nil, &SchemaError{Err: ErrInvalidColumnDefinition, Definition: cmn.ToSrc(part), Position: part[0].Position}
		}

		defs = append(defs, definition{
			name:       cmn.Tagged(match, "column")[0],
			typeName:   cmn.Tagged(match, "type")[0].Value,
			param:      cmn.ToSrc(cmn.Tagged(match, "param")),
			primaryKey: len(cmn.Tagged(match, "primary-key")) > 0,
			notNull:    len(cmn.Tagged(match, "not-null")) > 0,
		})
	}

	return defs, nil
}

func appendColumn(s Schema, def definition, dataType DataType) (Schema, error) {
	if s.Index(def.name.Value) >= 0 {
		return nil, &SchemaError{Err: ErrDuplicateColumn, Column: def.name.Value, Position: def.name.Position}
	}

	return append(s, Column{
		Name:       def.name.Value,
		Type:       dataType,
		PrimaryKey: def.primaryKey,
		NotNull:    def.notNull,
	}), nil
}

func withColumn(err error, def definition) error {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		schemaErr.Column = def.name.Value
		schemaErr.Position = def.name.Position
	}

	return err
}

func lexPosition(err error) tok.Position {
	var lexErr *tok.Error
	if errors.As(err, &lexErr) {
		return lexErr.Position
	}

	return tok.Position{}
}
