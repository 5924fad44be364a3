package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnterminatedString = errors.New("unterminated string literal")
)

// Error is a lexing failure at a known position.
type Error struct {
	Err      error
	Position Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at %s", e.Err, e.Position)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	WORD          // identifiers, type names
	QUOTE         // string literals ('text')
	NUMBER        // numeric literals
	OPENED_PARENS // (
	CLOSED_PARENS // )
	COMMA         // ,
	COLON         // : (legacy schema topics)

	// Operators
	EQUAL    // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *

	// Keywords
	AND     // AND keyword
	OR      // OR keyword
	NOT     // NOT keyword
	NULL    // NULL keyword
	BOOLEAN // TRUE / FALSE
	PRIMARY // PRIMARY keyword
	KEY     // KEY keyword

	// Others
	OTHER // anything the grammars do not know
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case WORD:
		return "WORD"
	case QUOTE:
		return "QUOTE"
	case NUMBER:
		return "NUMBER"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case EQUAL:
		return "EQUAL"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case NULL:
		return "NULL"
	case BOOLEAN:
		return "BOOLEAN"
	case PRIMARY:
		return "PRIMARY"
	case KEY:
		return "KEY"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// IsKeyword reports whether the token type is produced from a reserved word.
// Keywords are still usable as column names.
func (t TokenType) IsKeyword() bool {
	switch t {
	case AND, OR, NOT, NULL, BOOLEAN, PRIMARY, KEY:
		return true
	default:
		return false
	}
}

// Position represents a position in the source text.
// Line and Column are 1-based, Offset is a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Unquote returns the content of a QUOTE token with doubled quotes collapsed.
// Backslashes are kept verbatim.
func (t Token) Unquote() string {
	if t.Type != QUOTE || len(t.Value) < 2 {
		return t.Value
	}

	body := t.Value[1 : len(t.Value)-1]
	out := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		out = append(out, body[i])
		if body[i] == '\'' && i+1 < len(body) && body[i+1] == '\'' {
			i++
		}
	}

	return string(out)
}
