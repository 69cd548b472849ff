package modeltext

import (
	"fmt"
	"strings"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
)

// Generate renders the bootstrap model text for one search (spec
// §4.6/§6), grounded on xlia/model.rs's generate_xlia_model. Called
// once, against the initial execution context, before a driver's
// first EvalInit round-trip (exploration.rs's explore()); the search
// itself never needs to regenerate it, since every later mutation
// (scope-instantiated variables, fresh symbols) is communicated back
// through the evaluator's own CreatedSymbols response rather than by
// re-declaring the model.
func Generate(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, root interaction.Interaction, timed bool) (string, error) {
	var xlia strings.Builder
	xlia.WriteString("@xlia< system , 1.0 >:\n")
	if timed {
		xlia.WriteString("timed system <or> HIBOU {\n")
	} else {
		xlia.WriteString("system <or> HIBOU {\n")
	}

	varDecl, err := variableDeclarations(gen, timed)
	if err != nil {
		return "", err
	}

	traceCompareActions, err := traceCompareActionBlocks(gen, timed)
	if err != nil {
		return "", err
	}

	openScopeAction := openScopeActionBlock(gen)

	lifelineActions := map[int][]string{}
	if err := collectLifelineActions(gen, ec, root, lifelineActions, nil); err != nil {
		return "", err
	}

	xlia.WriteString("@composite:\n")
	for lfID := 0; lfID < gen.LifelineCount(); lfID++ {
		lfName, err := gen.LifelineName(lfID)
		if err != nil {
			return "", err
		}
		xlia.WriteString(fmt.Sprintf("\tlifeline machine <or> %s {\n", lfName))
		xlia.WriteString("\t@public:\n")
		xlia.WriteString("\t\tport output hevent(string);\n")
		xlia.WriteString(varDecl)
		xlia.WriteString("\t@composite:\n")
		xlia.WriteString(openScopeAction)
		init, err := lifelineInitializationBlock(gen, ec, lfID)
		if err != nil {
			return "", err
		}
		xlia.WriteString(init)
		for _, block := range lifelineActions[lfID] {
			xlia.WriteString(block)
		}
		for _, block := range traceCompareActions {
			xlia.WriteString(block)
		}
		xlia.WriteString("\t}\n")
	}

	xlia.WriteString("@com:\n")
	xlia.WriteString("\tconnect<env>{\n")
	for lfID := 0; lfID < gen.LifelineCount(); lfID++ {
		lfName, err := gen.LifelineName(lfID)
		if err != nil {
			return "", err
		}
		xlia.WriteString(fmt.Sprintf("\t\toutput %s->hevent;\n", lfName))
	}
	xlia.WriteString("\t}\n")
	xlia.WriteString("}")

	return xlia.String(), nil
}

func variableDeclarations(gen *hcontext.GeneralContext, timed bool) (string, error) {
	var b strings.Builder
	b.WriteString("\t@property:\n")
	if timed {
		b.WriteString("\tvar clock last_lf_compare_clock;\n")
		b.WriteString("\tvar float trace_delay;\n")
	}

	for msID := 0; msID < gen.MessageCount(); msID++ {
		spec, err := gen.MessageSpec(msID)
		if err != nil {
			return "", err
		}
		for prID, param := range spec.Params {
			pName, err := messageParameterName(gen, msID, prID)
			if err != nil {
				return "", err
			}
			tName, err := traceMessageParameterName(gen, msID, prID)
			if err != nil {
				return "", err
			}
			xt := xliaTypeString(string(param.Type))
			b.WriteString(fmt.Sprintf("\tvar %s %s;\n", xt, pName))
			b.WriteString(fmt.Sprintf("\tvar %s %s;\n", xt, tName))
		}
	}

	for vrID := 0; vrID < gen.VariableCount(); vrID++ {
		typeStr := "clock"
		if !gen.IsClock(vrID) {
			t, err := gen.VariableType(vrID)
			if err != nil {
				return "", err
			}
			typeStr = xliaTypeString(string(t))
		}
		base, err := variableBaseForNewfreshName(gen, vrID)
		if err != nil {
			return "", err
		}
		vector, err := variableVectorName(gen, vrID)
		if err != nil {
			return "", err
		}
		index, err := variableArrayIndexName(gen, vrID)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("\tvar %s %s;\n", typeStr, base))
		b.WriteString(fmt.Sprintf("\tvar vector<%s> %s;\n", typeStr, vector))
		b.WriteString(fmt.Sprintf("\tvar int %s;\n", index))
	}

	return b.String(), nil
}

// traceCompareActionBlocks builds one action_compare_ms_<name> machine
// block per declared message (spec §4.8 analysis step 2's
// trace_compare_ms_* runnable).
func traceCompareActionBlocks(gen *hcontext.GeneralContext, timed bool) ([]string, error) {
	var blocks []string
	for msID := 0; msID < gen.MessageCount(); msID++ {
		spec, err := gen.MessageSpec(msID)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("\tmachine action_compare_ms_%s {\n", spec.Name))
		b.WriteString("\t@moe:\n")
		b.WriteString("\t\t@run{\n")
		if timed {
			b.WriteString("\t\t\t// time does not flow in this action\n")
			b.WriteString("\t\t\tguard($delay == 0.0);\n")
			b.WriteString("\t\t\t// to compare timed trace delay\n")
			b.WriteString("\t\t\tguard( last_lf_compare_clock == trace_delay );\n")
		}
		b.WriteString("\t\t\t// values of ms_M_pr_P kept from last symbolic step\n")
		b.WriteString("\t\t\t// values of trace_ms_M_pr_P provided by HIBOU\n")
		for prID := range spec.Params {
			pName, err := messageParameterName(gen, msID, prID)
			if err != nil {
				return nil, err
			}
			tName, err := traceMessageParameterName(gen, msID, prID)
			if err != nil {
				return nil, err
			}
			b.WriteString(fmt.Sprintf("\t\t\tguard(%s == %s);\n", pName, tName))
		}
		if timed {
			b.WriteString("\t\t\t// reset because this is the moment of the latest visible action on this lifeline\n")
			b.WriteString("\t\t\tlast_lf_compare_clock := 0.0;\n")
		}
		b.WriteString("\t\t}\n")
		b.WriteString("\t}\n")
		blocks = append(blocks, b.String())
	}
	return blocks, nil
}

func openScopeActionBlock(gen *hcontext.GeneralContext) string {
	var b strings.Builder
	b.WriteString("\tmachine <start> action_open_scopes {\n")
	b.WriteString("\t@moe:\n")
	b.WriteString("\t\t@run{\n")
	b.WriteString("\t\t\t// creates a new place in each meta-variable vector allowing designation of scoped variables\n")
	b.WriteString("\t\t\t// called once at the beginning so every variable vector has exactly one place for the original instance\n")
	b.WriteString("\t\t\t// called again every time a scope operator is opened during the search\n")
	for vrID := 0; vrID < gen.VariableCount(); vrID++ {
		vector, err := variableVectorName(gen, vrID)
		if err != nil {
			continue
		}
		base, err := variableBaseForNewfreshName(gen, vrID)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\t\t\t%s <=< newfresh(%s);\n", vector, base))
	}
	b.WriteString("\t\t}\n")
	b.WriteString("\t}\n")
	return b.String()
}

func lifelineInitializationBlock(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, lfID int) (string, error) {
	var b strings.Builder
	b.WriteString("\tmachine initialization {\n")
	b.WriteString("\t@moe:\n")
	b.WriteString("\t\t@run{\n")
	b.WriteString("\t\t// initialization of variables per the @init section\n")
	interp, ok := ec.LifelineInterpretation(lfID)
	if ok {
		for vrID, val := range interp {
			line, err := variableInitializationLine(gen, ec, vrID, val)
			if err != nil {
				return "", err
			}
			b.WriteString(line)
		}
	}
	b.WriteString("\t\t}\n")
	b.WriteString("\t}\n")
	return b.String(), nil
}

func variableInitializationLine(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, vrID int, val coredata.TDGeneric) (string, error) {
	name, err := variableDiversityName(gen, vrID)
	if err != nil {
		return "", err
	}
	if isUnboundReference(val) {
		base, err := variableBaseForNewfreshName(gen, vrID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("\t\t\t%s = newfresh(%s);\n", name, base), nil
	}
	expr, err := genericToXlia(gen, ec, val)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\t\t\t%s = %s;\n", name, expr), nil
}

// isUnboundReference reports whether val is a bare VarRef placeholder
// (no evaluator state exists yet to resolve it against at generation
// time), matching model_initialization.rs's special-cased Reference
// arm for every primitive type.
func isUnboundReference(val coredata.TDGeneric) bool {
	switch val.Type() {
	case coredata.TBool:
		return val.AsBool().IsRef()
	case coredata.TInt, coredata.TFloat:
		n := val.AsInt()
		if val.Type() == coredata.TFloat {
			n = val.AsFloat()
		}
		return n.IsRef()
	case coredata.TString:
		return val.AsString().IsRef()
	}
	return false
}

func collectLifelineActions(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, node interaction.Interaction, out map[int][]string, relativePosition []int) error {
	switch {
	case node.IsEmpty():
		return nil
	case node.IsAction():
		return collectActionBlocks(gen, ec, node.AsAction(), out, relativePosition)
	case node.IsScope():
		return collectLifelineActions(gen, ec, node.Body(), out, append(append([]int(nil), relativePosition...), 1))
	case node.IsLoop():
		return collectLifelineActions(gen, ec, node.Body(), out, append(append([]int(nil), relativePosition...), 1))
	default: // Strict, Seq, Alt, Par: binary, same left/right recursion shape
		left := append(append([]int(nil), relativePosition...), 1)
		right := append(append([]int(nil), relativePosition...), 2)
		if err := collectLifelineActions(gen, ec, node.Left(), out, left); err != nil {
			return err
		}
		return collectLifelineActions(gen, ec, node.Right(), out, right)
	}
}

func collectActionBlocks(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, act action.ObservableAction, out map[int][]string, relativePosition []int) error {
	if act.ActKind == action.Emission {
		block, err := actionBlock(gen, ec, act.Main, act.MsID, act.Params, true, false, relativePosition)
		if err != nil {
			return err
		}
		out[act.Main.LfID] = append(out[act.Main.LfID], block)
		for i, target := range act.EmissionTargets {
			targetPos := append(append([]int(nil), relativePosition...), i+1)
			tBlock, err := actionBlock(gen, ec, target, act.MsID, act.Params, false, true, targetPos)
			if err != nil {
				return err
			}
			out[target.LfID] = append(out[target.LfID], tBlock)
		}
		return nil
	}
	block, err := actionBlock(gen, ec, act.Main, act.MsID, act.Params, false, false, relativePosition)
	if err != nil {
		return err
	}
	out[act.Main.LfID] = append(out[act.Main.LfID], block)
	return nil
}

func actionBlock(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, lfAct action.LifelineAction, msID int, params []coredata.ValueOrFresh, isEmission, isTarget bool, relativePosition []int) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\tmachine %s {\n", actionDiversityName(relativePosition)))
	b.WriteString("\t@moe:\n")
	b.WriteString("\t\t@run{\n")
	b.WriteString("\t\t// values of index_V provided by HIBOU\n")

	b.WriteString("\t\t\t// Pre-Amble\n")
	if err := writeAmbleItems(gen, ec, &b, lfAct.Preamble); err != nil {
		return "", err
	}

	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}

	if isEmission {
		b.WriteString("\t\t\t// Emission - values of ms_M_pr_P computed by the evaluator, later queried by HIBOU\n")
		for i, p := range params {
			name, err := messageParameterName(gen, msID, i)
			if err != nil {
				return "", err
			}
			if p.IsFresh() {
				b.WriteString(fmt.Sprintf("\t\t\tnewfresh(%s);\n", name))
			} else {
				expr, err := genericToXlia(gen, ec, p.Value())
				if err != nil {
					return "", err
				}
				b.WriteString(fmt.Sprintf("\t\t\t%s = %s;\n", name, expr))
			}
		}
		b.WriteString(fmt.Sprintf("\t\t\toutput hevent (\"!%s\");\n", spec.Name))
	} else {
		b.WriteString("\t\t\t// Reception - values of ms_M_pr_P provided by HIBOU\n")
		for i, p := range params {
			if !p.IsFresh() || isTarget {
				continue
			}
			name, err := messageParameterName(gen, msID, i)
			if err != nil {
				return "", err
			}
			b.WriteString("\t\t\t// newfresh from the environment: this reception isn't the target of a modelled emission\n")
			b.WriteString(fmt.Sprintf("\t\t\tnewfresh(%s);\n", name))
		}
		b.WriteString(fmt.Sprintf("\t\t\toutput hevent (\"?%s\");\n", spec.Name))
	}

	b.WriteString("\t\t\t// Post-Amble\n")
	if err := writeAmbleItems(gen, ec, &b, lfAct.Postamble); err != nil {
		return "", err
	}

	b.WriteString("\t\t}\n")
	b.WriteString("\t}\n")
	return b.String(), nil
}

func writeAmbleItems(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, b *strings.Builder, items []coredata.AmbleItem) error {
	for _, item := range items {
		switch item.Kind() {
		case coredata.AmbleAssignment:
			name, err := variableDiversityName(gen, item.AssignmentVar())
			if err != nil {
				return err
			}
			val := item.AssignmentValue()
			if val.IsFresh() {
				base, err := variableBaseForNewfreshName(gen, item.AssignmentVar())
				if err != nil {
					return err
				}
				fmt.Fprintf(b, "\t\t\t%s = newfresh(%s);\n", name, base)
			} else {
				expr, err := genericToXlia(gen, ec, val.Value())
				if err != nil {
					return err
				}
				fmt.Fprintf(b, "\t\t\t%s = %s;\n", name, expr)
			}
		case coredata.AmbleGuard:
			expr, err := boolToXlia(gen, ec, item.GuardExpr())
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "\t\t\tguard(%s);\n", expr)
		case coredata.AmbleReset:
			name, err := variableDiversityName(gen, item.ResetVar())
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "\t\t\t%s := 0.0;\n", name)
		}
	}
	return nil
}
