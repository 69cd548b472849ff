package coredata

// TDGeneric is the tagged union TD_Generic of spec §3: every data
// term, regardless of primitive type, can be carried as one of these
// once boxed for use as an operand of a comparison or as a message
// parameter/assignment value.
type TDGeneric struct {
	typ    Type
	bval   TDBool
	ival   TDNumber
	fval   TDNumber
	sval   TDString
}

func FromBool(b TDBool) TDGeneric     { return TDGeneric{typ: TBool, bval: b} }
func FromInt(n TDNumber) TDGeneric    { return TDGeneric{typ: TInt, ival: n} }
func FromFloat(n TDNumber) TDGeneric  { return TDGeneric{typ: TFloat, fval: n} }
func FromString(s TDString) TDGeneric { return TDGeneric{typ: TString, sval: s} }

// Type is the tag of the union (spec §3 TD_Generic "carries its own type tag").
func (g TDGeneric) Type() Type { return g.typ }

func (g TDGeneric) AsBool() TDBool     { return g.bval }
func (g TDGeneric) AsInt() TDNumber    { return g.ival }
func (g TDGeneric) AsFloat() TDNumber  { return g.fval }
func (g TDGeneric) AsString() TDString { return g.sval }

func (g TDGeneric) OccurringVariables() map[int]struct{} {
	switch g.typ {
	case TBool:
		return g.bval.OccurringVariables()
	case TInt:
		return g.ival.OccurringVariables()
	case TFloat:
		return g.fval.OccurringVariables()
	case TString:
		return g.sval.OccurringVariables()
	}
	return map[int]struct{}{}
}

// Remap dispatches to the boxed term's own Remap by tag, per spec §4.1.
func (g TDGeneric) Remap(mapping map[int]int) TDGeneric {
	switch g.typ {
	case TBool:
		return FromBool(g.bval.Remap(mapping))
	case TInt:
		return FromInt(g.ival.Remap(mapping))
	case TFloat:
		return FromFloat(g.fval.Remap(mapping))
	case TString:
		return FromString(g.sval.Remap(mapping))
	}
	return g
}
