package modeltext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
)

func varRefToXlia(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, ref coredata.VarRef) (string, error) {
	switch {
	case ref.IsVar():
		return variableDiversityName(gen, ref.VarID())
	case ref.IsMsgParam():
		msID, prID := ref.MsgParamIDs()
		return messageParameterName(gen, msID, prID)
	case ref.IsSymbol():
		name, err := ec.SymbolName(ref.SymbolID())
		if err != nil {
			return fmt.Sprintf("symbol_%d", ref.SymbolID()), nil
		}
		return name, nil
	}
	return "", fmt.Errorf("modeltext: variable reference of unknown kind")
}

func numberToXlia(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, n coredata.TDNumber) (string, error) {
	isFloat := n.Kind == coredata.TFloat
	switch {
	case n.IsValue():
		if isFloat {
			return printFloat(n.FloatVal()), nil
		}
		return strconv.FormatInt(n.IntVal(), 10), nil
	case n.IsRef():
		return varRefToXlia(gen, ec, n.Ref())
	case n.IsMinus():
		sub, err := numberToXlia(gen, ec, n.MinusOperand())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("- %s", sub), nil
	case n.IsAdd():
		var b strings.Builder
		first := true
		for _, term := range n.Adds() {
			sub, err := numberToXlia(gen, ec, term.Term)
			if err != nil {
				return "", err
			}
			switch term.Sign {
			case coredata.AddPlus:
				if first {
					b.WriteString(sub)
				} else {
					fmt.Fprintf(&b, "+ %s", sub)
				}
			case coredata.AddMinus:
				fmt.Fprintf(&b, "- %s", sub)
			}
			first = false
		}
		return b.String(), nil
	case n.IsFactor():
		var b strings.Builder
		first := true
		unit := "1"
		if isFloat {
			unit = "1.0"
		}
		for _, term := range n.Factors() {
			sub, err := numberToXlia(gen, ec, term.Term)
			if err != nil {
				return "", err
			}
			switch term.Sign {
			case coredata.FactorMul:
				if first {
					b.WriteString(sub)
				} else {
					fmt.Fprintf(&b, "* %s", sub)
				}
			case coredata.FactorDiv:
				if first {
					fmt.Fprintf(&b, "(%s/%s)", unit, sub)
				} else {
					fmt.Fprintf(&b, "* (%s/%s)", unit, sub)
				}
			}
			first = false
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("modeltext: number term of unknown kind")
}

func printFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.Contains(s, ".") || strings.ContainsAny(s, "eE") {
		return s
	}
	return s + ".0"
}

func stringToXlia(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, s coredata.TDString) (string, error) {
	if s.IsRef() {
		return varRefToXlia(gen, ec, s.Ref())
	}
	return fmt.Sprintf("%q", s.Value()), nil
}

func genericToXlia(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, g coredata.TDGeneric) (string, error) {
	switch g.Type() {
	case coredata.TBool:
		return boolToXlia(gen, ec, g.AsBool())
	case coredata.TInt, coredata.TFloat:
		n := g.AsInt()
		if g.Type() == coredata.TFloat {
			n = g.AsFloat()
		}
		return numberToXlia(gen, ec, n)
	case coredata.TString:
		return stringToXlia(gen, ec, g.AsString())
	}
	return "", fmt.Errorf("modeltext: generic term of unknown type %q", g.Type())
}

func boolToXlia(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, b coredata.TDBool) (string, error) {
	switch {
	case b.IsTrue():
		return "true", nil
	case b.IsFalse():
		return "false", nil
	case b.IsAnd(), b.IsOr():
		sep := " && "
		if b.IsOr() {
			sep = " || "
		}
		parts := make([]string, len(b.Operands()))
		for i, sub := range b.Operands() {
			s, err := boolToXlia(gen, ec, sub)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, sep), nil
	case b.IsNot():
		sub, err := boolToXlia(gen, ec, b.NotOperand())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("not %s", sub), nil
	case b.IsCompare():
		kind, lhs, rhs := b.Compare()
		lhsStr, err := genericToXlia(gen, ec, lhs)
		if err != nil {
			return "", err
		}
		rhsStr, err := genericToXlia(gen, ec, rhs)
		if err != nil {
			return "", err
		}
		op := map[coredata.CompareKind]string{
			coredata.CmpEqual:        "==",
			coredata.CmpNotEqual:     "!=",
			coredata.CmpGreater:      ">",
			coredata.CmpGreaterEqual: ">=",
			coredata.CmpLess:         "<",
			coredata.CmpLessEqual:    "<=",
		}[kind]
		return fmt.Sprintf("%s %s %s", lhsStr, op, rhsStr), nil
	case b.IsRef():
		return varRefToXlia(gen, ec, b.Ref())
	}
	return "", fmt.Errorf("modeltext: bool term of unknown kind")
}
