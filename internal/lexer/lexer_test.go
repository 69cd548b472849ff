package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(input string) []Token {
	l := New(input)
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	toks := scanAll(`@{}[](),;.->:= != <= >= = < > + - * /`)
	require.Equal(t, []TokenType{
		AT, LBRACE, RBRACE, LBRACKET, RBRACKET, LPAREN, RPAREN, COMMA, SEMICOLON, DOT,
		ARROW, ASSIGN, NEQ, LE, GE, EQ, LT, GT, PLUS, MINUS, STAR, SLASH, EOF,
	}, types(toks))
}

func TestNextTokenDistinguishesBangFromNeq(t *testing.T) {
	toks := scanAll(`! !=`)
	require.Equal(t, []TokenType{BANG, NEQ, EOF}, types(toks))
}

func TestNextTokenDistinguishesColonFromAssign(t *testing.T) {
	toks := scanAll(`: :=`)
	require.Equal(t, []TokenType{COLON, ASSIGN, EOF}, types(toks))
}

func TestNextTokenMinusVsArrow(t *testing.T) {
	toks := scanAll(`a->b a-b`)
	require.Equal(t, []TokenType{IDENT, ARROW, IDENT, IDENT, MINUS, IDENT, EOF}, types(toks))
}

func TestNextTokenIdentifierAndNumbers(t *testing.T) {
	toks := scanAll(`foo_bar 123 1.5`)
	require.Equal(t, "foo_bar", toks[0].Lexeme)
	require.Equal(t, IDENT, toks[0].Type)
	require.Equal(t, "123", toks[1].Lexeme)
	require.Equal(t, NUMBER, toks[1].Type)
	require.Equal(t, "1.5", toks[2].Lexeme)
	require.Equal(t, NUMBER, toks[2].Type)
}

func TestNextTokenStringWithEscapedQuote(t *testing.T) {
	toks := scanAll(`"hello \"world\""`)
	require.Equal(t, STRING, toks[0].Type)
	require.Equal(t, `hello "world"`, toks[0].Lexeme)
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	toks := scanAll("a // a comment\nb")
	require.Equal(t, []TokenType{IDENT, IDENT, EOF}, types(toks))
	require.Equal(t, "a", toks[0].Lexeme)
	require.Equal(t, "b", toks[1].Lexeme)
	require.Equal(t, 2, toks[1].Line)
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	toks := scanAll(`#`)
	require.Equal(t, ILLEGAL, toks[0].Type)
	require.Equal(t, "#", toks[0].Lexeme)
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	toks := scanAll("a\nbb")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
}
