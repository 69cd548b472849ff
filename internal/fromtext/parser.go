// Package fromtext implements the .hsf/.hxtf textual front end (spec
// §6): a hand-written recursive-descent parser, built on
// internal/lexer's rune scanner, that produces a GeneralContext,
// interaction tree, initial per-lifeline interpretation, and resolved
// RunOptions from an .hsf file, and an AnalysableMultiTrace from an
// .hxtf file. Grounded on original_source/src/from_text/*.rs for the
// section/field semantics each production implements; the exact
// concrete token syntax (no .pest grammar ships with the retrieved
// sources) is this module's own design.
package fromtext

import (
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/lexer"
)

// parser holds the two-token lookahead every production below reads
// from.
type parser struct {
	lx   *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

func newParser(src string) *parser {
	p := &parser{lx: lexer.New(src)}
	p.cur = p.lx.NextToken()
	p.peek = p.lx.NextToken()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lx.NextToken()
}

func (p *parser) is(t lexer.TokenType) bool { return p.cur.Type == t }

// isKeyword reports whether the current token is an identifier equal
// to kw (section/operator keywords are plain identifiers, not a
// separate reserved-word token class).
func (p *parser) isKeyword(kw string) bool {
	return p.cur.Type == lexer.IDENT && p.cur.Lexeme == kw
}

func (p *parser) syntaxErr(format string, args ...any) error {
	return herrors.New(herrors.KindParsingSyntax, "%d:%d: "+format, append([]any{p.cur.Line, p.cur.Column}, args...)...)
}

func (p *parser) setupErr(format string, args ...any) error {
	return herrors.New(herrors.KindParsingSetup, "%d:%d: "+format, append([]any{p.cur.Line, p.cur.Column}, args...)...)
}

// expect consumes the current token if it matches t, else raises a
// syntax error.
func (p *parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.is(t) {
		return lexer.Token{}, p.syntaxErr("expected %s, found %q", t, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// expectKeyword consumes an IDENT token equal to kw, else raises a
// syntax error.
func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.syntaxErr("expected %q, found %q", kw, p.cur.Lexeme)
	}
	p.advance()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	return tok.Lexeme, nil
}
