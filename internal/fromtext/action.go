package fromtext

import (
	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/lexer"
)

// parseAmble is AMBLE ::= '[' AMBLE_ITEM (',' AMBLE_ITEM)* ']', an
// optional pre/postamble of guards, assignments, and clock resets
// decorating a LifelineAction (spec §3). Grounded on
// original_source/src/from_text/action/amble.rs's parse_amble/
// parse_guards/parse_operations, whose three item kinds this mirrors.
func (p *parser) parseAmble(resolve resolver) ([]coredata.AmbleItem, error) {
	if !p.is(lexer.LBRACKET) {
		return nil, nil
	}
	p.advance()
	var items []coredata.AmbleItem
	for {
		item, err := p.parseAmbleItem(resolve)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) parseAmbleItem(resolve resolver) (coredata.AmbleItem, error) {
	switch {
	case p.isKeyword("guard"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return coredata.AmbleItem{}, err
		}
		g, err := p.parseBoolOr(resolve)
		if err != nil {
			return coredata.AmbleItem{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return coredata.AmbleItem{}, err
		}
		return coredata.Guard(g), nil
	case p.isKeyword("reset"):
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return coredata.AmbleItem{}, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return coredata.AmbleItem{}, err
		}
		vrID, _, ok := resolve(name)
		if !ok {
			return coredata.AmbleItem{}, p.setupErr("unknown clock variable %q in reset", name)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return coredata.AmbleItem{}, err
		}
		return coredata.Reset(vrID), nil
	case p.is(lexer.IDENT):
		name, err := p.expectIdent()
		if err != nil {
			return coredata.AmbleItem{}, err
		}
		vrID, _, ok := resolve(name)
		if !ok {
			return coredata.AmbleItem{}, p.setupErr("unknown variable %q in assignment", name)
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return coredata.AmbleItem{}, err
		}
		val, err := p.parseValueOrFresh(resolve)
		if err != nil {
			return coredata.AmbleItem{}, err
		}
		return coredata.Assignment(vrID, val), nil
	}
	return coredata.AmbleItem{}, p.syntaxErr("expected an amble item (guard/assignment/reset), found %q", p.cur.Lexeme)
}

// lifelineResolver resolves a lifeline name to its id, raising a
// setup error (not a bare bool) so callers can propagate it directly.
type lifelineResolver func(name string) (int, error)

// parseLifelineAction is LIFELINE_ACTION ::= [AMBLE] IDENT [AMBLE],
// matching original_source/src/from_text/action/lf_act.rs's
// parse_lifeline_action: an optional preamble, the lifeline name, and
// an optional postamble.
func (p *parser) parseLifelineAction(resolve resolver, lfOf lifelineResolver) (action.LifelineAction, error) {
	pre, err := p.parseAmble(resolve)
	if err != nil {
		return action.LifelineAction{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return action.LifelineAction{}, err
	}
	lfID, err := lfOf(name)
	if err != nil {
		return action.LifelineAction{}, err
	}
	post, err := p.parseAmble(resolve)
	if err != nil {
		return action.LifelineAction{}, err
	}
	return action.LifelineAction{Preamble: pre, LfID: lfID, Postamble: post}, nil
}

// parseArgList is ARG_LIST ::= '(' (VALUE_OR_FRESH (',' VALUE_OR_FRESH)*)? ')'.
func (p *parser) parseArgList(resolve resolver) ([]coredata.ValueOrFresh, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []coredata.ValueOrFresh
	if p.is(lexer.RPAREN) {
		p.advance()
		return args, nil
	}
	for {
		v, err := p.parseValueOrFresh(resolve)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// msgResolver resolves a declared message name to its id, raising a
// setup error directly.
type msgResolver func(name string) (int, error)

// parseAction is ACTION ::= LIFELINE_ACTION ('!' IDENT ARG_LIST '->'
// TARGET | '?' IDENT ARG_LIST), matching original_source/src/from_text/
// action/action.rs's parse_emission/parse_reception: the emitting or
// receiving LifelineAction, the message name and arguments, and (for
// an emission) one or more receiver TARGETs.
func (p *parser) parseAction(resolve resolver, lfOf lifelineResolver, msOf msgResolver) (action.ObservableAction, error) {
	main, err := p.parseLifelineAction(resolve, lfOf)
	if err != nil {
		return action.ObservableAction{}, err
	}
	switch {
	case p.is(lexer.BANG):
		p.advance()
		msName, err := p.expectIdent()
		if err != nil {
			return action.ObservableAction{}, err
		}
		msID, err := msOf(msName)
		if err != nil {
			return action.ObservableAction{}, err
		}
		args, err := p.parseArgList(resolve)
		if err != nil {
			return action.ObservableAction{}, err
		}
		if _, err := p.expect(lexer.ARROW); err != nil {
			return action.ObservableAction{}, err
		}
		targets, err := p.parseTargets(resolve, lfOf)
		if err != nil {
			return action.ObservableAction{}, err
		}
		return action.ObservableAction{Main: main, ActKind: action.Emission, EmissionTargets: targets, MsID: msID, Params: args}, nil
	case p.is(lexer.QUESTION):
		p.advance()
		msName, err := p.expectIdent()
		if err != nil {
			return action.ObservableAction{}, err
		}
		msID, err := msOf(msName)
		if err != nil {
			return action.ObservableAction{}, err
		}
		args, err := p.parseArgList(resolve)
		if err != nil {
			return action.ObservableAction{}, err
		}
		return action.ObservableAction{Main: main, ActKind: action.Reception, MsID: msID, Params: args}, nil
	}
	return action.ObservableAction{}, p.syntaxErr("expected '!' or '?' after lifeline %q", "")
}

// parseTargets is TARGET ::= LIFELINE_ACTION | '{' LIFELINE_ACTION
// (',' LIFELINE_ACTION)* '}'.
func (p *parser) parseTargets(resolve resolver, lfOf lifelineResolver) ([]action.LifelineAction, error) {
	if p.is(lexer.LBRACE) {
		p.advance()
		var targets []action.LifelineAction
		for {
			t, err := p.parseLifelineAction(resolve, lfOf)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
			if p.is(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return targets, nil
	}
	t, err := p.parseLifelineAction(resolve, lfOf)
	if err != nil {
		return nil, err
	}
	return []action.LifelineAction{t}, nil
}
