package fromtext

import (
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/lexer"
)

// HSF is a fully-parsed .hsf file: the declarations, the interaction
// tree (leaves stamped with their original tree address), the initial
// per-lifeline interpretation from @init, and the resolved run
// options.
type HSF struct {
	Gen             *hcontext.GeneralContext
	Root            interaction.Interaction
	Init            map[int]map[int]coredata.TDGeneric
	Options         config.RunOptions
	OptionsDeclared bool // true iff an @explore_option/@analyze_option section was present
}

// ParseHSF reads an .hsf file's @lifeline/@message/@variable/@init/
// @explore_option/@analyze_option declarations followed by its single
// interaction-term body (spec §6), matching the section-driven reader
// of original_source/src/from_text/setup.rs and interaction.rs: a
// loop over leading '@'-prefixed sections, each dispatched by keyword,
// followed by the one mandatory interaction term.
func ParseHSF(src string, kind ProcessKind) (*HSF, error) {
	p := newParser(src)
	gen := hcontext.NewGeneralContext()
	init := map[int]map[int]coredata.TDGeneric{}
	var opts config.RunOptions
	gotOpts := false

	resolve := func(name string) (int, coredata.Type, bool) {
		vrID, ok := gen.VariableID(name)
		if !ok {
			return 0, "", false
		}
		typ, err := gen.VariableType(vrID)
		if err != nil {
			return 0, "", false
		}
		return vrID, typ, true
	}
	lfOf := func(name string) (int, error) {
		id, ok := gen.LifelineID(name)
		if !ok {
			return 0, herrors.New(herrors.KindUnknownLifeline, "unknown lifeline %q", name)
		}
		return id, nil
	}
	msOf := func(name string) (int, error) {
		id, ok := gen.MessageID(name)
		if !ok {
			return 0, herrors.New(herrors.KindUnknownMessage, "unknown message %q", name)
		}
		return id, nil
	}

	for p.is(lexer.AT) {
		p.advance()
		section, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		switch section {
		case "lifeline", "lifelines":
			if err := p.parseLifelineSection(gen); err != nil {
				return nil, err
			}
		case "message", "messages":
			if err := p.parseMessageSection(gen); err != nil {
				return nil, err
			}
		case "variable", "variables":
			if err := p.parseVariableSection(gen); err != nil {
				return nil, err
			}
		case "init":
			if err := p.parseInitSection(gen, resolve, init); err != nil {
				return nil, err
			}
		case "explore_option":
			if kind != ProcessExplore && kind != ProcessDraw {
				return nil, p.setupErr("@explore_option is not valid in an analyse run")
			}
			o, err := p.parseOptionSection(ProcessExplore)
			if err != nil {
				return nil, err
			}
			opts, gotOpts = o, true
		case "analyze_option", "analyse_option":
			if kind != ProcessAnalyze && kind != ProcessDraw {
				return nil, p.setupErr("@analyze_option is not valid in an explore run")
			}
			o, err := p.parseOptionSection(ProcessAnalyze)
			if err != nil {
				return nil, err
			}
			opts, gotOpts = o, true
		default:
			return nil, p.setupErr("unknown section %q", section)
		}
	}

	if !gotOpts {
		if kind == ProcessAnalyze {
			opts = config.DefaultAnalyzeOptions()
		} else {
			opts = config.DefaultExploreOptions()
		}
	}

	root, err := p.parseInteraction(resolve, lfOf, msOf)
	if err != nil {
		return nil, err
	}
	if !p.is(lexer.EOF) {
		return nil, p.syntaxErr("unexpected trailing input %q after the interaction term", p.cur.Lexeme)
	}
	root = root.DecorateWithInitialPositions(nil)

	return &HSF{Gen: gen, Root: root, Init: init, Options: opts, OptionsDeclared: gotOpts}, nil
}

// parseLifelineSection is '{' IDENT (',' IDENT)* '}', one @lifeline
// declaration per name.
func (p *parser) parseLifelineSection(gen *hcontext.GeneralContext) error {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		if _, err := gen.AddLifeline(name); err != nil {
			return p.setupErr("%s", err)
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(lexer.RBRACE)
	return err
}

// parseMessageSection is '{' MESSAGE_DECL (',' MESSAGE_DECL)* '}',
// MESSAGE_DECL ::= IDENT '(' (PARAM (',' PARAM)*)? ')',
// PARAM ::= TYPE_NAME [IDENT].
func (p *parser) parseMessageSection(gen *hcontext.GeneralContext) error {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return err
		}
		var params []hcontext.ParamSpec
		if !p.is(lexer.RPAREN) {
			for {
				typeName, err := p.expectIdent()
				if err != nil {
					return err
				}
				typ, err := parseTypeName(typeName)
				if err != nil {
					return p.setupErr("%s", err)
				}
				paramName := ""
				if p.is(lexer.IDENT) {
					paramName, err = p.expectIdent()
					if err != nil {
						return err
					}
				}
				params = append(params, hcontext.ParamSpec{Type: typ, Name: paramName})
				if p.is(lexer.COMMA) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return err
		}
		if _, err := gen.AddMessage(name, params); err != nil {
			return p.setupErr("%s", err)
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(lexer.RBRACE)
	return err
}

// parseVariableSection is '{' VAR_DECL (',' VAR_DECL)* '}',
// VAR_DECL ::= TYPE_NAME IDENT | 'clock' IDENT.
func (p *parser) parseVariableSection(gen *hcontext.GeneralContext) error {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	for {
		kindName, err := p.expectIdent()
		if err != nil {
			return err
		}
		isClock := kindName == "clock"
		typ := coredata.TFloat
		if !isClock {
			typ, err = parseTypeName(kindName)
			if err != nil {
				return p.setupErr("%s", err)
			}
		}
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		vrID := gen.AddVariable(name, typ)
		if isClock {
			gen.AddAsClock(vrID)
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(lexer.RBRACE)
	return err
}

// parseInitSection is '{' INIT_ENTRY (',' INIT_ENTRY)* '}',
// INIT_ENTRY ::= IDENT '.' IDENT ':=' VALUE_EXPR, assigning lifeline
// lf's copy of variable v an initial interpretation value (spec §3's
// per-lifeline interpretation, @init mirroring
// original_source/src/from_text/setup.rs's init-block reader).
func (p *parser) parseInitSection(gen *hcontext.GeneralContext, resolve resolver, init map[int]map[int]coredata.TDGeneric) error {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	for {
		lfName, err := p.expectIdent()
		if err != nil {
			return err
		}
		lfID, ok := gen.LifelineID(lfName)
		if !ok {
			return p.setupErr("unknown lifeline %q in @init", lfName)
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return err
		}
		varName, err := p.expectIdent()
		if err != nil {
			return err
		}
		vrID, _, ok := resolve(varName)
		if !ok {
			return p.setupErr("unknown variable %q in @init", varName)
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return err
		}
		val, err := p.parseValueExpr(resolve)
		if err != nil {
			return err
		}
		if init[lfID] == nil {
			init[lfID] = map[int]coredata.TDGeneric{}
		}
		init[lfID][vrID] = val
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(lexer.RBRACE)
	return err
}

func parseTypeName(name string) (coredata.Type, error) {
	switch name {
	case "bool", "Bool":
		return coredata.TBool, nil
	case "int", "Int":
		return coredata.TInt, nil
	case "float", "Float":
		return coredata.TFloat, nil
	case "string", "String":
		return coredata.TString, nil
	}
	return "", herrors.New(herrors.KindParsingSetup, "unknown type name %q", name)
}
