package parsercommon

import (
	"slices"

	tok "github.com/shibukawa/chansql/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

var (
	// Space parses a whitespace token.
	Space = PrimitiveType("space", tok.WHITESPACE)
	// ParenOpen parses an opening parenthesis.
	ParenOpen = PrimitiveType("parenOpen", tok.OPENED_PARENS)
	// ParenClose parses a closing parenthesis.
	ParenClose = PrimitiveType("parenClose", tok.CLOSED_PARENS)
	// Colon parses a colon.
	Colon = PrimitiveType("colon", tok.COLON)
	// Equal parses an equal sign.
	Equal = PrimitiveType("equal", tok.EQUAL)
	// Sign parses a leading plus or minus.
	Sign = PrimitiveType("sign", tok.PLUS, tok.MINUS)

	// Number parses a numeric literal.
	Number = PrimitiveType("number", tok.NUMBER)
	// String parses a string literal.
	String = PrimitiveType("string", tok.QUOTE)
	// Identifier parses a word, keywords included.
	Identifier = PrimitiveType("identifier", tok.WORD, tok.AND, tok.OR, tok.NOT, tok.NULL, tok.BOOLEAN, tok.PRIMARY, tok.KEY)

	// Primary parses PRIMARY.
	Primary = PrimitiveType("primary", tok.PRIMARY)
	// Key parses KEY.
	Key = PrimitiveType("key", tok.KEY)
	// Not parses NOT.
	Not = PrimitiveType("not", tok.NOT)
	// Null parses NULL.
	Null = PrimitiveType("null", tok.NULL)

	// SP consumes zero or more space tokens.
	SP = pc.Drop(pc.ZeroOrMore("space", Space))
	// EOS matches end of stream.
	EOS = pc.EOS[tok.Token]()
)

// WS2 parses token and drops the whitespace after it.
func WS2(token pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Seq(
		token,
		pc.Drop(pc.ZeroOrMore("space", Space)),
	)
}

// Tag marks every token matched by p with typeStr so callers can pick the
// parts out of the flat match.
func Tag(typeStr string, p ...pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tok.Token], src []pc.Token[tok.Token]) (converted []pc.Token[tok.Token], err error) {
		for i := range src {
			src[i].Type = typeStr
		}

		return src, nil
	})
}

func PrimitiveType(typeName string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func ToParserToken(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], len(tokens))

	for i, token := range tokens {
		pcToken := pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		}
		results[i] = pcToken
	}

	return results
}

// Tagged collects the raw text of the tokens carrying typeStr.
func Tagged(entities []pc.Token[tok.Token], typeStr string) []tok.Token {
	var results []tok.Token

	for _, entity := range entities {
		if entity.Type == typeStr {
			results = append(results, entity.Val)
		}
	}

	return results
}

// ToSrc joins the source text of tokens.
func ToSrc(tokens []tok.Token) string {
	src := make([]byte, 0, 64)
	for _, token := range tokens {
		src = append(src, token.Value...)
	}

	return string(src)
}

// TrimSpace strips leading and trailing whitespace tokens.
func TrimSpace(tokens []tok.Token) []tok.Token {
	for len(tokens) > 0 && tokens[0].Type == tok.WHITESPACE {
		tokens = tokens[1:]
	}

	for len(tokens) > 0 && tokens[len(tokens)-1].Type == tok.WHITESPACE {
		tokens = tokens[:len(tokens)-1]
	}

	return tokens
}

// SplitTopLevel splits tokens at separators that are not nested in parentheses.
func SplitTopLevel(tokens []tok.Token, separator tok.TokenType) [][]tok.Token {
	var (
		parts [][]tok.Token
		depth int
		start int
	)

	for i, token := range tokens {
		switch token.Type {
		case tok.OPENED_PARENS:
			depth++
		case tok.CLOSED_PARENS:
			if depth > 0 {
				depth--
			}
		case separator:
			if depth == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, tokens[start:])
}
