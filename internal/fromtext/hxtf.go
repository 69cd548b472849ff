package fromtext

import (
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/lexer"
	"github.com/hibou-sem/hibou/internal/trace"
)

// ParseHXTF reads a recorded multi-trace file against the lifelines/
// messages already declared in gen (spec §6's trace reader, grounded
// on original_source/src/from_text/htf_file.rs for the canal/partition
// idea, the concrete syntax being this module's own design since no
// grammar file ships with the sources).
//
// A trace file is a sequence of canal blocks:
//
//	CANAL_BLOCK ::= '[' ('all' | 'any' | IDENT (',' IDENT)*) ']'
//	                TRACE_ACTION ('.' TRACE_ACTION)* ';'
//	TRACE_ACTION ::= [NUMBER ':'] IDENT ('!'|'?') IDENT
//	                 '(' (VALUE_EXPR (',' VALUE_EXPR)*)? ')'
//
// 'all' and 'any' both cover every lifeline gen declares, as one
// ordered canal; a named list covers exactly those lifelines. Any
// lifeline left uncovered by every block gets its own empty singleton
// canal, per complete_canals_up_to_defined_lifelines.
func ParseHXTF(src string, gen *hcontext.GeneralContext) (trace.MultiTrace, error) {
	p := newParser(src)
	noVar := func(string) (int, coredata.Type, bool) { return 0, "", false }

	covered := map[int]struct{}{}
	var canals []trace.Canal

	for !p.is(lexer.EOF) {
		lifelines, err := p.parseCanalHeader(gen)
		if err != nil {
			return trace.MultiTrace{}, err
		}
		var actions []trace.Action
		for {
			act, err := p.parseTraceAction(gen, noVar)
			if err != nil {
				return trace.MultiTrace{}, err
			}
			actions = append(actions, act)
			if p.is(lexer.DOT) {
				p.advance()
				continue
			}
			break
		}
		if p.is(lexer.SEMICOLON) {
			p.advance()
		}
		lfSet := map[int]struct{}{}
		for _, lf := range lifelines {
			lfSet[lf] = struct{}{}
			covered[lf] = struct{}{}
		}
		canals = append(canals, trace.Canal{Lifelines: lfSet, Actions: actions})
	}

	for lfID := 0; lfID < gen.LifelineCount(); lfID++ {
		if _, ok := covered[lfID]; !ok {
			canals = append(canals, trace.Canal{Lifelines: map[int]struct{}{lfID: {}}})
		}
	}
	return trace.New(canals), nil
}

func (p *parser) parseCanalHeader(gen *hcontext.GeneralContext) ([]int, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	if p.isKeyword("all") || p.isKeyword("any") {
		p.advance()
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		all := make([]int, gen.LifelineCount())
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	var lifelines []int
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		lfID, ok := gen.LifelineID(name)
		if !ok {
			return nil, p.setupErr("unknown lifeline %q in canal header", name)
		}
		lifelines = append(lifelines, lfID)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return lifelines, nil
}

func (p *parser) parseTraceAction(gen *hcontext.GeneralContext, noVar resolver) (trace.Action, error) {
	var act trace.Action
	if p.is(lexer.NUMBER) && p.peek.Type == lexer.COLON {
		d, err := p.parseValueExpr(noVar)
		if err != nil {
			return trace.Action{}, err
		}
		act.HasDelay = true
		act.Delay = d
		if _, err := p.expect(lexer.COLON); err != nil {
			return trace.Action{}, err
		}
	}
	lfName, err := p.expectIdent()
	if err != nil {
		return trace.Action{}, err
	}
	lfID, ok := gen.LifelineID(lfName)
	if !ok {
		return trace.Action{}, p.setupErr("unknown lifeline %q in trace", lfName)
	}
	act.LfID = lfID

	switch {
	case p.is(lexer.BANG):
		act.Kind = trace.Emission
		p.advance()
	case p.is(lexer.QUESTION):
		act.Kind = trace.Reception
		p.advance()
	default:
		return trace.Action{}, p.syntaxErr("expected '!' or '?' after lifeline %q", lfName)
	}

	msName, err := p.expectIdent()
	if err != nil {
		return trace.Action{}, err
	}
	msID, ok := gen.MessageID(msName)
	if !ok {
		return trace.Action{}, p.setupErr("unknown message %q in trace", msName)
	}
	act.MsID = msID

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return trace.Action{}, err
	}
	if !p.is(lexer.RPAREN) {
		for {
			v, err := p.parseValueExpr(noVar)
			if err != nil {
				return trace.Action{}, err
			}
			act.Arguments = append(act.Arguments, v)
			if p.is(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return trace.Action{}, err
	}
	return act, nil
}
