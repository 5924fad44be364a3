package tokenizer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer is a tokenizer that returns an iterator
type Tokenizer struct {
	input   string
	options Options
}

// Options are options for the tokenizer
type Options struct {
	SkipWhitespace bool
}

// New creates a new Tokenizer
func New(input string, options ...Options) *Tokenizer {
	opts := Options{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &Tokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 0,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}

				continue
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, without the trailing EOF token.
// The first error stops tokenization.
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 32)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		if token.Type == EOF {
			break
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int // offset of the byte after current
	offset   int // offset of current
	line     int
	column   int
	current  rune
	eof      bool
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	if t.eof {
		return t.newToken(EOF, "", t.pos()), nil
	}

	switch t.current {
	case ' ', '\t', '\r', '\n':
		return t.readWhitespace(), nil
	case '(':
		return t.single(OPENED_PARENS), nil
	case ')':
		return t.single(CLOSED_PARENS), nil
	case ',':
		return t.single(COMMA), nil
	case ':':
		return t.single(COLON), nil
	case '=':
		return t.single(EQUAL), nil
	case '+':
		return t.single(PLUS), nil
	case '-':
		return t.single(MINUS), nil
	case '*':
		return t.single(ASTERISK), nil
	case '\'':
		return t.readString()
	case '.':
		if isDigit(t.peekChar()) {
			return t.readNumber(), nil
		}

		return t.single(OTHER), nil
	default:
		if t.isWordStart() {
			return t.readWord(), nil
		} else if isDigit(t.current) {
			return t.readNumber(), nil
		}

		return t.single(OTHER), nil
	}
}

// readChar reads the next character. Past the end of input eof is set and
// current is 0; a NUL inside the input is an ordinary character.
func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		if !t.eof {
			if t.current == '\n' {
				t.line++
				t.column = 0
			}

			t.column++
		}

		t.eof = true
		t.current = 0
		t.offset = len(t.input)
		t.position = len(t.input)

		return
	}

	if t.current == '\n' {
		t.line++
		t.column = 0
	}

	r, size := utf8.DecodeRuneInString(t.input[t.position:])
	t.current = r
	t.offset = t.position
	t.position += size
	t.column++
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	return t.peekN(1)
}

// peekN looks n characters ahead of current
func (t *tokenizer) peekN(n int) rune {
	pos := t.position
	for ; n > 1; n-- {
		if pos >= len(t.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(t.input[pos:])
		pos += size
	}

	if pos >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[pos:])

	return r
}

func (t *tokenizer) pos() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

// since returns the raw input from start up to current. Slicing keeps bytes
// that are not valid UTF-8.
func (t *tokenizer) since(start Position) string {
	return t.input[start.Offset:t.offset]
}

func (t *tokenizer) single(tokenType TokenType) Token {
	start := t.pos()
	t.readChar()

	return t.newToken(tokenType, t.since(start), start)
}

// isWordStart reports whether current starts a word. An invalid UTF-8 byte
// decodes to utf8.RuneError, which is not a letter.
func (t *tokenizer) isWordStart() bool {
	return unicode.IsLetter(t.current) || t.current == '_'
}

// readWhitespace reads whitespace characters
func (t *tokenizer) readWhitespace() Token {
	start := t.pos()

	for !t.eof && unicode.IsSpace(t.current) {
		t.readChar()
	}

	return t.newToken(WHITESPACE, t.since(start), start)
}

// readWord reads identifiers and keywords. The original spelling is kept.
func (t *tokenizer) readWord() Token {
	start := t.pos()

	for unicode.IsLetter(t.current) || unicode.IsDigit(t.current) || t.current == '_' {
		t.readChar()
	}

	word := t.since(start)

	return t.newToken(keywordTokenType(word), word, start)
}

// readString reads a single-quoted literal. '' is an escaped quote; the
// token value keeps the surrounding quotes and the raw escapes.
func (t *tokenizer) readString() (Token, error) {
	start := t.pos()

	t.readChar() // opening quote

	for {
		if t.eof {
			return Token{}, &Error{Err: ErrUnterminatedString, Position: start}
		}

		if t.current == '\'' {
			if t.peekChar() == '\'' {
				t.readChar()
				t.readChar()

				continue
			}

			break
		}

		t.readChar()
	}

	t.readChar() // closing quote

	return t.newToken(QUOTE, t.since(start), start), nil
}

// readNumber reads numeric literals
func (t *tokenizer) readNumber() Token {
	start := t.pos()

	// Integer part
	for isDigit(t.current) {
		t.readChar()
	}

	// Decimal point
	if t.current == '.' {
		t.readChar()

		// Decimal part
		for isDigit(t.current) {
			t.readChar()
		}
	}

	// Exponential part, only when digits follow
	if t.current == 'e' || t.current == 'E' {
		next := t.peekN(1)
		if next == '+' || next == '-' {
			next = t.peekN(2)
		}

		if isDigit(next) {
			t.readChar()

			if t.current == '+' || t.current == '-' {
				t.readChar()
			}

			for isDigit(t.current) {
				t.readChar()
			}
		}
	}

	return t.newToken(NUMBER, t.since(start), start)
}

// newToken creates a new token
func (t *tokenizer) newToken(tokenType TokenType, value string, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Position: start,
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// keywordTokenType returns the TokenType corresponding to a keyword
func keywordTokenType(word string) TokenType {
	switch strings.ToUpper(word) {
	case "AND":
		return AND
	case "OR":
		return OR
	case "NOT":
		return NOT
	case "NULL":
		return NULL
	case "TRUE", "FALSE":
		return BOOLEAN
	case "PRIMARY":
		return PRIMARY
	case "KEY":
		return KEY
	default:
		return WORD
	}
}
