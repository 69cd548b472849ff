package coredata

// CompareKind is the comparison operator carried by a Bool COMPARE
// node; comparisons hold over any two TDGeneric operands (spec §3).
type CompareKind string

const (
	CmpEqual        CompareKind = "="
	CmpNotEqual     CompareKind = "≠"
	CmpLess         CompareKind = "<"
	CmpLessEqual    CompareKind = "≤"
	CmpGreater      CompareKind = ">"
	CmpGreaterEqual CompareKind = "≥"
)

// TDBool is the Bool term algebra: constants, n-ary AND/OR, unary
// NOT, a COMPARE node over generic operands, and a variable reference.
type TDBool struct {
	tag     boolTag
	operand []TDBool    // AND/OR operands
	not     *TDBool     // NOT operand
	cmpKind CompareKind // COMPARE
	cmpLHS  *TDGeneric
	cmpRHS  *TDGeneric
	ref     VarRef
}

type boolTag int

const (
	boolTrue boolTag = iota
	boolFalse
	boolAnd
	boolOr
	boolNot
	boolCompare
	boolRef
)

func BoolTrue() TDBool  { return TDBool{tag: boolTrue} }
func BoolFalse() TDBool { return TDBool{tag: boolFalse} }
func BoolAnd(operands ...TDBool) TDBool {
	return TDBool{tag: boolAnd, operand: operands}
}
func BoolOr(operands ...TDBool) TDBool {
	return TDBool{tag: boolOr, operand: operands}
}
func BoolNot(b TDBool) TDBool { return TDBool{tag: boolNot, not: &b} }
func BoolCompare(kind CompareKind, lhs, rhs TDGeneric) TDBool {
	return TDBool{tag: boolCompare, cmpKind: kind, cmpLHS: &lhs, cmpRHS: &rhs}
}
func BoolRef(ref VarRef) TDBool { return TDBool{tag: boolRef, ref: ref} }

func (b TDBool) IsTrue() bool     { return b.tag == boolTrue }
func (b TDBool) IsFalse() bool    { return b.tag == boolFalse }
func (b TDBool) IsAnd() bool      { return b.tag == boolAnd }
func (b TDBool) IsOr() bool       { return b.tag == boolOr }
func (b TDBool) IsNot() bool      { return b.tag == boolNot }
func (b TDBool) IsCompare() bool  { return b.tag == boolCompare }
func (b TDBool) IsRef() bool      { return b.tag == boolRef }
func (b TDBool) Operands() []TDBool { return b.operand }
func (b TDBool) NotOperand() TDBool { return *b.not }
func (b TDBool) Compare() (CompareKind, TDGeneric, TDGeneric) {
	return b.cmpKind, *b.cmpLHS, *b.cmpRHS
}
func (b TDBool) Ref() VarRef { return b.ref }

// OccurringVariables is the set of Var ids free in b.
func (b TDBool) OccurringVariables() map[int]struct{} {
	out := map[int]struct{}{}
	switch b.tag {
	case boolTrue, boolFalse:
	case boolAnd, boolOr:
		for _, sub := range b.operand {
			mergeInto(out, sub.OccurringVariables())
		}
	case boolNot:
		mergeInto(out, b.not.OccurringVariables())
	case boolCompare:
		mergeInto(out, b.cmpLHS.OccurringVariables())
		mergeInto(out, b.cmpRHS.OccurringVariables())
	case boolRef:
		mergeInto(out, b.ref.OccurringVariables())
	}
	return out
}

// Remap is the structural, total, pure variable-renaming capability.
func (b TDBool) Remap(mapping map[int]int) TDBool {
	switch b.tag {
	case boolTrue, boolFalse:
		return b
	case boolAnd:
		return TDBool{tag: boolAnd, operand: remapAll(b.operand, mapping)}
	case boolOr:
		return TDBool{tag: boolOr, operand: remapAll(b.operand, mapping)}
	case boolNot:
		remapped := b.not.Remap(mapping)
		return TDBool{tag: boolNot, not: &remapped}
	case boolCompare:
		lhs := b.cmpLHS.Remap(mapping)
		rhs := b.cmpRHS.Remap(mapping)
		return TDBool{tag: boolCompare, cmpKind: b.cmpKind, cmpLHS: &lhs, cmpRHS: &rhs}
	case boolRef:
		return TDBool{tag: boolRef, ref: b.ref.Remap(mapping)}
	}
	return b
}

func remapAll(bs []TDBool, mapping map[int]int) []TDBool {
	out := make([]TDBool, len(bs))
	for i, b := range bs {
		out[i] = b.Remap(mapping)
	}
	return out
}

func mergeInto(dst, src map[int]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}
