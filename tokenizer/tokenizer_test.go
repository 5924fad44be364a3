package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	src := "name='John' AND age = 25"
	tokenizer := New(src)

	expectedTypes := []TokenType{
		WORD, EQUAL, QUOTE, WHITESPACE, AND, WHITESPACE, WORD, WHITESPACE, EQUAL, WHITESPACE, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorWithOptions(t *testing.T) {
	tokenizer := New("id INT PRIMARY KEY, name VARCHAR(5) NOT NULL", Options{SkipWhitespace: true})

	expectedTypes := []TokenType{
		WORD, WORD, PRIMARY, KEY, COMMA, WORD, WORD, OPENED_PARENS, NUMBER, CLOSED_PARENS, NOT, NULL, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	tokenizer := New("a, b, c, d")

	count := 0
	for range tokenizer.Tokens() {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		raw      string
		unquoted string
	}{
		{"simple", "'John'", "'John'", "John"},
		{"doubled quote", "'it''s a test'", "'it''s a test'", "it's a test"},
		{"backslash kept", `'C:\path\n'`, `'C:\path\n'`, `C:\path\n`},
		{"empty", "''", "''", ""},
		{"only quotes", "''''", "''''", "'"},
		{"comma inside", "'a, b'", "'a, b'", "a, b"},
		{"multi-byte", "'日本語'", "'日本語'", "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := New(tt.input).AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, 1, len(tokens))
			assert.Equal(t, QUOTE, tokens[0].Type)
			assert.Equal(t, tt.raw, tokens[0].Value)
			assert.Equal(t, tt.unquoted, tokens[0].Unquote())
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := New("1, 'John").AllTokens()
	assert.True(t, errors.Is(err, ErrUnterminatedString))

	var lexErr *Error
	assert.True(t, errors.As(err, &lexErr))
	assert.Equal(t, Position{Line: 1, Column: 4, Offset: 3}, lexErr.Position)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input  string
		values []string
	}{
		{"123", []string{"123"}},
		{"123.0", []string{"123.0"}},
		{".5", []string{".5"}},
		{"1e10", []string{"1e10"}},
		{"1.5E-3", []string{"1.5E-3"}},
		{"1e", []string{"1", "e"}},
		{"2ex", []string{"2", "ex"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := New(tt.input).AllTokens()
			assert.NoError(t, err)

			var values []string
			for _, token := range tokens {
				values = append(values, token.Value)
			}

			assert.Equal(t, tt.values, values)
			assert.Equal(t, NUMBER, tokens[0].Type)
		})
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	tokens, err := New("and Or NOT null True false primary Key other", Options{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	var types []TokenType
	for _, token := range tokens {
		types = append(types, token.Type)
	}

	assert.Equal(t, []TokenType{AND, OR, NOT, NULL, BOOLEAN, BOOLEAN, PRIMARY, KEY, WORD}, types)
	assert.Equal(t, "Or", tokens[1].Value)
}

func TestPositions(t *testing.T) {
	tokens, err := New("a = 1\n  OR b = 'x'", Options{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 1, Column: 5, Offset: 4}, tokens[2].Position)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 8}, tokens[3].Position)
	assert.Equal(t, Position{Line: 2, Column: 10, Offset: 15}, tokens[6].Position)
}

func TestNulIsNotEndOfInput(t *testing.T) {
	tokens, err := New("1\x00, 'a\x00b', 3").AllTokens()
	assert.NoError(t, err)

	var values []string
	for _, token := range tokens {
		values = append(values, token.Value)
	}

	assert.Equal(t, []string{"1", "\x00", ",", " ", "'a\x00b'", ",", " ", "3"}, values)
	assert.Equal(t, OTHER, tokens[1].Type)
	assert.Equal(t, "a\x00b", tokens[4].Unquote())
}

func TestInvalidUTF8IsKeptVerbatim(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		tokenType TokenType
	}{
		{"inside string", "'\xff\xfe'", QUOTE},
		{"bare byte", "\xff", OTHER},
		{"after letters", "ab\xff", WORD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := New(tt.input).AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, tt.tokenType, tokens[0].Type)
			assert.Equal(t, tt.input, joinValues(tokens))
		})
	}
}

func TestEOFPositionAfterNewline(t *testing.T) {
	var last Token
	for token, err := range New("a\n").Tokens() {
		assert.NoError(t, err)

		last = token
	}

	assert.Equal(t, EOF, last.Type)
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 2}, last.Position)
}

func joinValues(tokens []Token) string {
	var src string
	for _, token := range tokens {
		src += token.Value
	}

	return src
}
