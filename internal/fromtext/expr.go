package fromtext

import (
	"strconv"
	"strings"

	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/lexer"
)

// resolver maps a bare identifier appearing in a value or boolean
// expression to the variable id and declared type it refers to.
// Supplied by the caller so the same expression grammar serves
// @init's per-lifeline scope, guard conditions, and assignment
// right-hand sides without this file needing its own notion of
// "currently visible variables".
type resolver func(name string) (vrID int, typ coredata.Type, ok bool)

func numKindOf(g coredata.TDGeneric) (coredata.TDNumber, bool) {
	switch g.Type() {
	case coredata.TInt:
		return g.AsInt(), true
	case coredata.TFloat:
		return g.AsFloat(), true
	}
	return coredata.TDNumber{}, false
}

func wrapNum(kind coredata.Type, n coredata.TDNumber) coredata.TDGeneric {
	if kind == coredata.TInt {
		return coredata.FromInt(n)
	}
	return coredata.FromFloat(n)
}

// parseAtom is ATOM ::= NUMBER | STRING | 'true' | 'false' | IDENT |
// '-' ATOM | '(' VALUE_EXPR ')'.
func (p *parser) parseAtom(resolve resolver) (coredata.TDGeneric, error) {
	switch {
	case p.is(lexer.NUMBER):
		lit := p.cur.Lexeme
		p.advance()
		if strings.Contains(lit, ".") {
			f, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return coredata.TDGeneric{}, p.syntaxErr("invalid float literal %q", lit)
			}
			return coredata.FromFloat(coredata.FloatValue(f)), nil
		}
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return coredata.TDGeneric{}, p.syntaxErr("invalid int literal %q", lit)
		}
		return coredata.FromInt(coredata.IntValue(n)), nil
	case p.is(lexer.STRING):
		s := p.cur.Lexeme
		p.advance()
		return coredata.FromString(coredata.StringValue(s)), nil
	case p.is(lexer.MINUS):
		p.advance()
		sub, err := p.parseAtom(resolve)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		n, ok := numKindOf(sub)
		if !ok {
			return coredata.TDGeneric{}, p.syntaxErr("unary '-' applied to a non-numeric term")
		}
		return wrapNum(sub.Type(), coredata.NumMinus(sub.Type(), n)), nil
	case p.is(lexer.LPAREN):
		p.advance()
		inner, err := p.parseValueExpr(resolve)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return coredata.TDGeneric{}, err
		}
		return inner, nil
	case p.is(lexer.IDENT):
		name := p.cur.Lexeme
		switch name {
		case "true":
			p.advance()
			return coredata.FromBool(coredata.BoolTrue()), nil
		case "false":
			p.advance()
			return coredata.FromBool(coredata.BoolFalse()), nil
		}
		p.advance()
		vrID, typ, ok := resolve(name)
		if !ok {
			return coredata.TDGeneric{}, p.setupErr("unknown variable %q", name)
		}
		ref := coredata.Var(vrID)
		switch typ {
		case coredata.TBool:
			return coredata.FromBool(coredata.BoolRef(ref)), nil
		case coredata.TInt:
			return coredata.FromInt(coredata.NumRef(coredata.TInt, ref)), nil
		case coredata.TFloat:
			return coredata.FromFloat(coredata.NumRef(coredata.TFloat, ref)), nil
		case coredata.TString:
			return coredata.FromString(coredata.StringRef(ref)), nil
		}
		return coredata.TDGeneric{}, p.setupErr("variable %q has unrecognised type %q", name, typ)
	}
	return coredata.TDGeneric{}, p.syntaxErr("expected a value, found %q", p.cur.Lexeme)
}

// parseMulChain is MUL_CHAIN ::= ATOM (('*'|'/') ATOM)*, folded into a
// TDNumber NumFactor chain; non-numeric atoms pass through untouched
// since Bool/String terms have no multiplicative operator (spec §3).
func (p *parser) parseMulChain(resolve resolver) (coredata.TDGeneric, error) {
	first, err := p.parseAtom(resolve)
	if err != nil {
		return coredata.TDGeneric{}, err
	}
	kind := first.Type()
	firstNum, isNum := numKindOf(first)
	if !isNum {
		return first, nil
	}
	factors := []coredata.FactorTerm{{Sign: coredata.FactorMul, Term: firstNum}}
	for p.is(lexer.STAR) || p.is(lexer.SLASH) {
		sign := coredata.FactorMul
		if p.is(lexer.SLASH) {
			sign = coredata.FactorDiv
		}
		p.advance()
		next, err := p.parseAtom(resolve)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		nextNum, ok := numKindOf(next)
		if !ok || next.Type() != kind {
			return coredata.TDGeneric{}, p.syntaxErr("operand of '*'/'/' must be a %s, like its left operand", kind)
		}
		factors = append(factors, coredata.FactorTerm{Sign: sign, Term: nextNum})
	}
	if len(factors) == 1 {
		return first, nil
	}
	return wrapNum(kind, coredata.NumFactor(kind, factors...)), nil
}

// parseValueExpr is VALUE_EXPR ::= MUL_CHAIN (('+'|'-') MUL_CHAIN)*,
// folded into a TDNumber NumAdd chain; non-numeric chains pass
// through untouched.
func (p *parser) parseValueExpr(resolve resolver) (coredata.TDGeneric, error) {
	first, err := p.parseMulChain(resolve)
	if err != nil {
		return coredata.TDGeneric{}, err
	}
	kind := first.Type()
	firstNum, isNum := numKindOf(first)
	if !isNum {
		return first, nil
	}
	adds := []coredata.AddTerm{{Sign: coredata.AddPlus, Term: firstNum}}
	for p.is(lexer.PLUS) || p.is(lexer.MINUS) {
		sign := coredata.AddPlus
		if p.is(lexer.MINUS) {
			sign = coredata.AddMinus
		}
		p.advance()
		next, err := p.parseMulChain(resolve)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		nextNum, ok := numKindOf(next)
		if !ok || next.Type() != kind {
			return coredata.TDGeneric{}, p.syntaxErr("operand of '+'/'-' must be a %s, like its left operand", kind)
		}
		adds = append(adds, coredata.AddTerm{Sign: sign, Term: nextNum})
	}
	if len(adds) == 1 {
		return first, nil
	}
	return wrapNum(kind, coredata.NumAdd(kind, adds...)), nil
}

var compareOps = map[lexer.TokenType]coredata.CompareKind{
	lexer.EQ:  coredata.CmpEqual,
	lexer.NEQ: coredata.CmpNotEqual,
	lexer.LT:  coredata.CmpLess,
	lexer.LE:  coredata.CmpLessEqual,
	lexer.GT:  coredata.CmpGreater,
	lexer.GE:  coredata.CmpGreaterEqual,
}

// parseBoolAtom is BOOL_ATOM ::= ('not'|'!') BOOL_ATOM | '(' BOOL_OR
// ')' | VALUE_EXPR [COMPARE_OP VALUE_EXPR]. A bare VALUE_EXPR with no
// trailing comparator must itself be Bool-typed (a guard/assignment
// variable reference or true/false literal).
func (p *parser) parseBoolAtom(resolve resolver) (coredata.TDBool, error) {
	if p.isKeyword("not") || p.is(lexer.BANG) {
		p.advance()
		operand, err := p.parseBoolAtom(resolve)
		if err != nil {
			return coredata.TDBool{}, err
		}
		return coredata.BoolNot(operand), nil
	}
	if p.is(lexer.LPAREN) {
		p.advance()
		inner, err := p.parseBoolOr(resolve)
		if err != nil {
			return coredata.TDBool{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return coredata.TDBool{}, err
		}
		return inner, nil
	}
	lhs, err := p.parseValueExpr(resolve)
	if err != nil {
		return coredata.TDBool{}, err
	}
	if kind, ok := compareOps[p.cur.Type]; ok {
		p.advance()
		rhs, err := p.parseValueExpr(resolve)
		if err != nil {
			return coredata.TDBool{}, err
		}
		return coredata.BoolCompare(kind, lhs, rhs), nil
	}
	if lhs.Type() != coredata.TBool {
		return coredata.TDBool{}, p.syntaxErr("expected a boolean expression")
	}
	return lhs.AsBool(), nil
}

// parseBoolAnd is BOOL_AND ::= BOOL_ATOM ('and' BOOL_ATOM)*.
func (p *parser) parseBoolAnd(resolve resolver) (coredata.TDBool, error) {
	first, err := p.parseBoolAtom(resolve)
	if err != nil {
		return coredata.TDBool{}, err
	}
	ops := []coredata.TDBool{first}
	for p.isKeyword("and") {
		p.advance()
		next, err := p.parseBoolAtom(resolve)
		if err != nil {
			return coredata.TDBool{}, err
		}
		ops = append(ops, next)
	}
	if len(ops) == 1 {
		return first, nil
	}
	return coredata.BoolAnd(ops...), nil
}

// parseBoolOr is BOOL_OR ::= BOOL_AND ('or' BOOL_AND)*, the top-level
// boolean expression production (spec §3's Bool term algebra).
func (p *parser) parseBoolOr(resolve resolver) (coredata.TDBool, error) {
	first, err := p.parseBoolAnd(resolve)
	if err != nil {
		return coredata.TDBool{}, err
	}
	ops := []coredata.TDBool{first}
	for p.isKeyword("or") {
		p.advance()
		next, err := p.parseBoolAnd(resolve)
		if err != nil {
			return coredata.TDBool{}, err
		}
		ops = append(ops, next)
	}
	if len(ops) == 1 {
		return first, nil
	}
	return coredata.BoolOr(ops...), nil
}

// parseValueOrFresh is VALUE_OR_FRESH ::= 'newfresh' | VALUE_EXPR
// (spec Glossary "Newfresh").
func (p *parser) parseValueOrFresh(resolve resolver) (coredata.ValueOrFresh, error) {
	if p.isKeyword("newfresh") {
		p.advance()
		return coredata.NewFresh(), nil
	}
	v, err := p.parseValueExpr(resolve)
	if err != nil {
		return coredata.ValueOrFresh{}, err
	}
	return coredata.Value(v), nil
}
