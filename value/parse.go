package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cmn "github.com/shibukawa/chansql/parser/parsercommon"
	tok "github.com/shibukawa/chansql/tokenizer"
)

// Sentinel errors
var (
	// ErrInvalidLiteral is returned for an unquoted token that is not a number, boolean or NULL.
	ErrInvalidLiteral = errors.New("invalid literal")
	// ErrUnterminatedString is returned when a quoted literal has no closing quote.
	ErrUnterminatedString = errors.New("unterminated string")
)

// LiteralError reports the offending token of a literal list.
type LiteralError struct {
	Err      error
	Token    string
	Position tok.Position
}

func (e *LiteralError) Error() string {
	if errors.Is(e.Err, ErrUnterminatedString) {
		return fmt.Sprintf("%v: missing closing quote for literal starting at %s", e.Err, e.Position)
	}

	if e.Token == "" {
		return fmt.Sprintf("%v at %s: empty value (use NULL for an empty value)", e.Err, e.Position)
	}

	return fmt.Sprintf("%v %q at %s: not a number, boolean, or NULL (string literals require single quotes)", e.Err, e.Token, e.Position)
}

func (e *LiteralError) Unwrap() error {
	return e.Err
}

// ParseList parses comma-separated literals such as `1, 'John Doe', true`.
// Commas inside quoted strings do not split. Blank input yields no values.
func ParseList(src string) ([]Value, error) {
	tokens, err := tok.New(src).AllTokens()
	if err != nil {
		return nil, literalLexError(err)
	}

	if len(cmn.TrimSpace(tokens)) == 0 {
		return []Value{}, nil
	}

	parts := cmn.SplitTopLevel(tokens, tok.COMMA)
	values := make([]Value, 0, len(parts))

	for i, part := range parts {
		v, err := FromTokens(part, separatorPosition(tokens, parts, i))
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	return values, nil
}

// ParseLiteral parses a single literal.
func ParseLiteral(src string) (Value, error) {
	tokens, err := tok.New(src).AllTokens()
	if err != nil {
		return Value{}, literalLexError(err)
	}

	return FromTokens(tokens, tok.Position{Line: 1, Column: 1})
}

// FromTokens classifies the tokens of one literal. A lone quoted token is a
// string; anything else is tried as NULL, boolean, integer and float in that
// order. at is reported when tokens is empty.
func FromTokens(tokens []tok.Token, at tok.Position) (Value, error) {
	tokens = cmn.TrimSpace(tokens)
	if len(tokens) == 0 {
		return Value{}, &LiteralError{Err: ErrInvalidLiteral, Position: at}
	}

	if len(tokens) == 1 && tokens[0].Type == tok.QUOTE {
		return String(tokens[0].Unquote()), nil
	}

	text := cmn.ToSrc(tokens)
	if v, ok := classify(text); ok {
		return v, nil
	}

	return Value{}, &LiteralError{Err: ErrInvalidLiteral, Token: text, Position: tokens[0].Position}
}

func classify(text string) (Value, bool) {
	switch strings.ToLower(text) {
	case "null":
		return Null(), true
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i), true
	}

	// out-of-range floats still come back as ±Inf or 0
	f, err := strconv.ParseFloat(text, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return Float(f), true
	}

	return Value{}, false
}

func literalLexError(err error) error {
	var lexErr *tok.Error
	if errors.As(err, &lexErr) && errors.Is(err, tok.ErrUnterminatedString) {
		return &LiteralError{Err: ErrUnterminatedString, Position: lexErr.Position}
	}

	return &LiteralError{Err: ErrInvalidLiteral, Token: err.Error()}
}

// separatorPosition locates an empty list element for error messages.
func separatorPosition(all []tok.Token, parts [][]tok.Token, i int) tok.Position {
	if len(parts[i]) > 0 {
		return parts[i][0].Position
	}

	offset := 0
	for j := 0; j < i; j++ {
		offset += len(parts[j]) + 1
	}

	if offset-1 >= 0 && offset-1 < len(all) {
		return all[offset-1].Position
	}

	return tok.Position{Line: 1, Column: 1}
}
