package fromtext

import (
	"strconv"

	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/lexer"
	"github.com/hibou-sem/hibou/internal/process"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// ProcessKind selects which option-section keyword is expected and
// which default RunOptions apply when it is absent (spec §6), exactly
// the process_kind split of original_source/src/from_text/
// hibou_options.rs's parse_hibou_options.
type ProcessKind int

const (
	ProcessExplore ProcessKind = iota
	ProcessAnalyze
	// ProcessDraw accepts either option-section keyword (or neither) —
	// `draw` only needs the declarations and interaction term, not a
	// validated run configuration.
	ProcessDraw
)

// parseOptionSection is OPTION_SECTION ::= '@explore_option' '{'
// OPTION_ENTRY* '}' | '@analyze_option' '{' OPTION_ENTRY* '}',
// consuming the already-advanced-past '@' keyword token. Each entry
// kind may be declared at most once, mirroring parse_hibou_options's
// got_loggers/got_strategy/... duplicate guards.
func (p *parser) parseOptionSection(kind ProcessKind) (config.RunOptions, error) {
	var opts config.RunOptions
	if kind == ProcessAnalyze {
		opts = config.DefaultAnalyzeOptions()
	} else {
		opts = config.DefaultExploreOptions()
	}

	var gotLoggers, gotStrategy, gotPreFilters, gotTemporality, gotGoal, gotPriorities bool

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return config.RunOptions{}, err
	}
	for !p.is(lexer.RBRACE) {
		name, err := p.expectIdent()
		if err != nil {
			return config.RunOptions{}, err
		}
		if _, err := p.expect(lexer.EQ); err != nil {
			return config.RunOptions{}, err
		}
		switch name {
		case "loggers":
			if gotLoggers {
				return config.RunOptions{}, p.setupErr("duplicate 'loggers' option")
			}
			gotLoggers = true
			loggers, err := p.parseLoggerList()
			if err != nil {
				return config.RunOptions{}, err
			}
			opts.Loggers = loggers
		case "strategy":
			if gotStrategy {
				return config.RunOptions{}, p.setupErr("duplicate 'strategy' option")
			}
			gotStrategy = true
			strat, err := p.expectIdent()
			if err != nil {
				return config.RunOptions{}, err
			}
			switch strat {
			case "BFS":
				opts.Strategy = process.BFS
			case "DFS":
				opts.Strategy = process.DFS
			default:
				return config.RunOptions{}, p.setupErr("unknown strategy %q (expected BFS or DFS)", strat)
			}
		case "frontier_priorities":
			if gotPriorities {
				return config.RunOptions{}, p.setupErr("duplicate 'frontier_priorities' option")
			}
			gotPriorities = true
			pr, err := p.parsePriorities()
			if err != nil {
				return config.RunOptions{}, err
			}
			opts.FrontierPriorities = pr
		case "pre_filters":
			if gotPreFilters {
				return config.RunOptions{}, p.setupErr("duplicate 'pre_filters' option")
			}
			gotPreFilters = true
			filters, err := p.parsePreFilters()
			if err != nil {
				return config.RunOptions{}, err
			}
			opts.PreFilters = filters
		case "temporality":
			if gotTemporality {
				return config.RunOptions{}, p.setupErr("duplicate 'temporality' option")
			}
			gotTemporality = true
			t, err := p.expectIdent()
			if err != nil {
				return config.RunOptions{}, err
			}
			switch t {
			case "timed":
				opts.Temporality = process.Timed
			case "untimed":
				opts.Temporality = process.UnTimed
			default:
				return config.RunOptions{}, p.setupErr("unknown temporality %q (expected timed or untimed)", t)
			}
		case "goal":
			if gotGoal {
				return config.RunOptions{}, p.setupErr("duplicate 'goal' option")
			}
			gotGoal = true
			g, err := p.expectIdent()
			if err != nil {
				return config.RunOptions{}, err
			}
			goal := verdict.Pass
			switch g {
			case "pass":
				goal = verdict.Pass
			case "weakpass":
				goal = verdict.WeakPass
			default:
				return config.RunOptions{}, p.setupErr("unknown goal %q (expected pass or weakpass)", g)
			}
			opts.Goal = &goal
		default:
			return config.RunOptions{}, p.setupErr("unknown option %q", name)
		}
		if p.is(lexer.SEMICOLON) {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return config.RunOptions{}, err
	}
	return opts, nil
}

// parseLoggerList is LOGGER_LIST ::= '[' (LOGGER (',' LOGGER)*)? ']',
// LOGGER ::= 'graphic' '(' ('png'|'svg') ')'. graphic is the only
// logger kind the grammar recognises (spec §6's "draw" Non-goal means
// it is accepted but substituted at CLI-wiring time rather than
// rendered here).
func (p *parser) parseLoggerList() ([]config.LoggerSpec, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var out []config.LoggerSpec
	if p.is(lexer.RBRACKET) {
		p.advance()
		return out, nil
	}
	for {
		if err := p.expectKeyword("graphic"); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		fmtName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var format config.GraphicFormat
		switch fmtName {
		case "png":
			format = config.GraphicPNG
		case "svg":
			format = config.GraphicSVG
		default:
			return nil, p.setupErr("unknown graphic format %q (expected png or svg)", fmtName)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		out = append(out, config.LoggerSpec{Kind: config.LoggerGraphic, Format: format})
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return out, nil
}

// parsePriorities is '[' 'emission' '=' NUMBER ',' 'reception' '='
// NUMBER ',' 'loop' '=' NUMBER ']', any subset in any order.
func (p *parser) parsePriorities() (process.Priorities, error) {
	var pr process.Priorities
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return pr, err
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return pr, err
		}
		if _, err := p.expect(lexer.EQ); err != nil {
			return pr, err
		}
		n, err := p.expectSignedInt()
		if err != nil {
			return pr, err
		}
		switch name {
		case "emission":
			pr.Emission = n
		case "reception":
			pr.Reception = n
		case "loop":
			pr.InLoop = n
		default:
			return pr, p.setupErr("unknown frontier priority %q", name)
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return pr, err
	}
	return pr, nil
}

// parsePreFilters is '[' PRE_FILTER (',' PRE_FILTER)* ']', PRE_FILTER
// ::= ('max_loop_depth'|'max_depth'|'max_num') '=' NUMBER.
func (p *parser) parsePreFilters() ([]process.PreFilter, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var out []process.PreFilter
	if p.is(lexer.RBRACKET) {
		p.advance()
		return out, nil
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQ); err != nil {
			return nil, err
		}
		n, err := p.expectUnsignedInt()
		if err != nil {
			return nil, err
		}
		var kind process.PreFilterKind
		switch name {
		case "max_loop_depth":
			kind = process.PreFilterMaxLoopInstanciation
		case "max_depth":
			kind = process.PreFilterMaxProcessDepth
		case "max_num":
			kind = process.PreFilterMaxNodeNumber
		default:
			return nil, p.setupErr("unknown pre-filter %q", name)
		}
		out = append(out, process.PreFilter{Kind: kind, Threshold: n})
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) expectUnsignedInt() (uint32, error) {
	tok, err := p.expect(lexer.NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(tok.Lexeme, 10, 32)
	if err != nil {
		return 0, p.setupErr("invalid unsigned integer %q", tok.Lexeme)
	}
	return uint32(n), nil
}

func (p *parser) expectSignedInt() (int32, error) {
	neg := false
	if p.is(lexer.MINUS) {
		neg = true
		p.advance()
	}
	tok, err := p.expect(lexer.NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok.Lexeme, 10, 32)
	if err != nil {
		return 0, p.setupErr("invalid integer %q", tok.Lexeme)
	}
	if neg {
		n = -n
	}
	return int32(n), nil
}
