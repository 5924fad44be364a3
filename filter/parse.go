package filter

import (
	"errors"
	"fmt"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/chansql/parser/parsercommon"
	tok "github.com/shibukawa/chansql/tokenizer"
	"github.com/shibukawa/chansql/value"
)

// ErrFilterSyntax is returned for a condition that does not follow the grammar.
var ErrFilterSyntax = errors.New("filter syntax error")

// SyntaxError locates a parse failure. Cause holds the literal error when
// the value after '=' could not be parsed.
type SyntaxError struct {
	Position tok.Position
	Context  string
	Cause    error
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%v at %s: %s", ErrFilterSyntax, e.Position, e.Context)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *SyntaxError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFilterSyntax}
	}

	return []error{ErrFilterSyntax, e.Cause}
}

// comparisonHead matches `column =`; the literal is collected separately
// because it runs until the next AND, OR or ')'.
var comparisonHead = pc.Seq(
	cmn.SP,
	cmn.Tag("column", cmn.WS2(cmn.Identifier)),
	cmn.WS2(cmn.Equal),
)

//	expr       := or_expr
//	or_expr    := and_expr ( OR and_expr )*
//	and_expr   := comparison ( AND comparison )*
//	comparison := "(" expr ")" | identifier "=" literal
type parser struct {
	tokens []tok.Token
	pos    int
	pctx   *pc.ParseContext[tok.Token]
}

// Parse parses a WHERE condition.
func Parse(src string) (Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, pctx: pc.NewParseContext[tok.Token]()}

	p.skipSpace()

	if p.peek().Type == tok.EOF {
		return nil, p.errorAt(p.peek(), "empty condition")
	}

	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	switch t := p.peek(); t.Type {
	case tok.EOF:
		return e, nil
	case tok.CLOSED_PARENS:
		return nil, p.errorAt(t, "unmatched ')'")
	default:
		return nil, p.errorAt(t, fmt.Sprintf("unexpected %q, expected AND or OR", t.Value))
	}
}

func lex(src string) ([]tok.Token, error) {
	var tokens []tok.Token

	for token, err := range tok.New(src).Tokens() {
		if err != nil {
			var lexErr *tok.Error
			if errors.As(err, &lexErr) && errors.Is(err, tok.ErrUnterminatedString) {
				return nil, &SyntaxError{
					Position: lexErr.Position,
					Context:  "invalid value",
					Cause:    &value.LiteralError{Err: value.ErrUnterminatedString, Position: lexErr.Position},
				}
			}

			return nil, &SyntaxError{Context: err.Error()}
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

func (p *parser) peek() tok.Token {
	return p.tokens[p.pos]
}

func (p *parser) skipSpace() {
	for p.peek().Type == tok.WHITESPACE {
		p.pos++
	}
}

func (p *parser) errorAt(t tok.Token, context string) error {
	return &SyntaxError{Position: t.Position, Context: context}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		if p.peek().Type != tok.OR {
			return left, nil
		}

		p.pos++

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &Or{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		if p.peek().Type != tok.AND {
			return left, nil
		}

		p.pos++

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &And{Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	p.skipSpace()

	switch t := p.peek(); t.Type {
	case tok.OPENED_PARENS:
		p.pos++

		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if p.peek().Type != tok.CLOSED_PARENS {
			return nil, p.errorAt(t, "missing ')' for this '('")
		}

		p.pos++

		return e, nil
	case tok.EOF:
		return nil, p.errorAt(t, "missing condition at end of input")
	case tok.AND, tok.OR:
		return nil, p.errorAt(t, fmt.Sprintf("missing condition before %s", t.Type))
	case tok.CLOSED_PARENS:
		return nil, p.errorAt(t, "missing condition before ')'")
	}

	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	consumed, match, err := comparisonHead(p.pctx, cmn.ToParserToken(p.tokens[p.pos:]))
	if err != nil {
		return nil, p.headError()
	}

	column := cmn.Tagged(match, "column")[0]
	p.pos += consumed

	start := p.pos
	for !endsLiteral(p.peek().Type) {
		p.pos++
	}

	literal := cmn.TrimSpace(p.tokens[start:p.pos])
	if len(literal) == 0 {
		return nil, p.errorAt(p.peek(), fmt.Sprintf("missing value after '=' for column %s", column.Value))
	}

	v, err := value.FromTokens(literal, literal[0].Position)
	if err != nil {
		return nil, &SyntaxError{
			Position: literal[0].Position,
			Context:  fmt.Sprintf("invalid value for column %s", column.Value),
			Cause:    err,
		}
	}

	return &Comparison{Column: column.Value, Literal: v, Position: column.Position}, nil
}

// headError explains why `column =` did not match at the current position.
func (p *parser) headError() error {
	t := p.peek()
	if t.Type != tok.WORD && !t.Type.IsKeyword() {
		return p.errorAt(t, fmt.Sprintf("expected a column name, got %q", t.Value))
	}

	next := p.pos + 1
	for p.tokens[next].Type == tok.WHITESPACE {
		next++
	}

	op := p.tokens[next]
	if op.Type == tok.EOF {
		return p.errorAt(op, fmt.Sprintf("missing '=' after column %s", t.Value))
	}

	return p.errorAt(op, fmt.Sprintf("unsupported operator %q after column %s (only = is supported)", op.Value, t.Value))
}

func endsLiteral(t tok.TokenType) bool {
	switch t {
	case tok.AND, tok.OR, tok.CLOSED_PARENS, tok.EOF:
		return true
	default:
		return false
	}
}
