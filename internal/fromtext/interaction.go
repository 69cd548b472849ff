package fromtext

import (
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/lexer"
)

// parseInteraction is the recursive-descent entry point for the term
// algebra `I ::= empty | ACTION | strict(...)|seq(...)|alt(...)|par(...)
// | loop_strict(I)|loop_seq(I)|loop_par(I) | scope{vars}(I)`, matching
// original_source/src/from_text/interaction.rs's parse_interaction:
// an n-ary schedule keyword folds right-associatively into the binary
// Strict/Seq/Alt/Par tree internal/interaction.Interaction actually
// holds.
func (p *parser) parseInteraction(resolve resolver, lfOf lifelineResolver, msOf msgResolver) (interaction.Interaction, error) {
	switch {
	case p.isKeyword("empty"):
		p.advance()
		return interaction.Empty(), nil
	case p.isKeyword("strict"):
		return p.parseNary(resolve, lfOf, msOf, interaction.Strict)
	case p.isKeyword("seq"):
		return p.parseNary(resolve, lfOf, msOf, interaction.Seq)
	case p.isKeyword("alt"):
		return p.parseNary(resolve, lfOf, msOf, interaction.Alt)
	case p.isKeyword("par"):
		return p.parseNary(resolve, lfOf, msOf, interaction.Par)
	case p.isKeyword("loop_strict"):
		return p.parseLoop(resolve, lfOf, msOf, interaction.ScheduleStrict)
	case p.isKeyword("loop_seq"):
		return p.parseLoop(resolve, lfOf, msOf, interaction.ScheduleSeq)
	case p.isKeyword("loop_par"):
		return p.parseLoop(resolve, lfOf, msOf, interaction.SchedulePar)
	case p.isKeyword("scope"):
		return p.parseScope(resolve, lfOf, msOf)
	case p.is(lexer.LBRACKET) || p.is(lexer.IDENT):
		act, err := p.parseAction(resolve, lfOf, msOf)
		if err != nil {
			return interaction.Interaction{}, err
		}
		return interaction.Action(act), nil
	}
	return interaction.Interaction{}, p.syntaxErr("expected an interaction term, found %q", p.cur.Lexeme)
}

// parseNary is SCHEDULE_KW '(' I (',' I)* ')', folded right-
// associatively with combine.
func (p *parser) parseNary(resolve resolver, lfOf lifelineResolver, msOf msgResolver, combine func(interaction.Interaction, interaction.Interaction) interaction.Interaction) (interaction.Interaction, error) {
	p.advance() // consume the schedule keyword
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	var terms []interaction.Interaction
	for {
		t, err := p.parseInteraction(resolve, lfOf, msOf)
		if err != nil {
			return interaction.Interaction{}, err
		}
		terms = append(terms, t)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	if len(terms) == 0 {
		return interaction.Empty(), nil
	}
	out := terms[len(terms)-1]
	for i := len(terms) - 2; i >= 0; i-- {
		out = combine(terms[i], out)
	}
	return out, nil
}

// parseLoop is LOOP_KW '(' I ')'.
func (p *parser) parseLoop(resolve resolver, lfOf lifelineResolver, msOf msgResolver, kind interaction.ScheduleKind) (interaction.Interaction, error) {
	p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	body, err := p.parseInteraction(resolve, lfOf, msOf)
	if err != nil {
		return interaction.Interaction{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	return interaction.Loop(kind, body), nil
}

// parseScope is 'scope' '{' IDENT (',' IDENT)* '}' '(' I ')', binding
// a set of already-declared @variable names fresh for each loop
// iteration entering the scope (spec §3's Scope/freshness semantics).
func (p *parser) parseScope(resolve resolver, lfOf lifelineResolver, msOf msgResolver) (interaction.Interaction, error) {
	p.advance()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return interaction.Interaction{}, err
	}
	var vs []int
	for {
		name, err := p.expectIdent()
		if err != nil {
			return interaction.Interaction{}, err
		}
		vrID, _, ok := resolve(name)
		if !ok {
			return interaction.Interaction{}, p.setupErr("unknown variable %q in scope", name)
		}
		vs = append(vs, vrID)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return interaction.Interaction{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	body, err := p.parseInteraction(resolve, lfOf, msOf)
	if err != nil {
		return interaction.Interaction{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return interaction.Interaction{}, err
	}
	return interaction.Scope(vs, body), nil
}
