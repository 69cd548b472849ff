package coredata

type stringTag int

const (
	strValue stringTag = iota
	strRef
)

// TDString is the String term algebra: a constant or a reference.
type TDString struct {
	tag   stringTag
	value string
	ref   VarRef
}

func StringValue(v string) TDString { return TDString{tag: strValue, value: v} }
func StringRef(ref VarRef) TDString { return TDString{tag: strRef, ref: ref} }

func (s TDString) IsValue() bool { return s.tag == strValue }
func (s TDString) IsRef() bool   { return s.tag == strRef }
func (s TDString) Value() string { return s.value }
func (s TDString) Ref() VarRef   { return s.ref }

func (s TDString) OccurringVariables() map[int]struct{} {
	if s.tag == strRef {
		return s.ref.OccurringVariables()
	}
	return map[int]struct{}{}
}

func (s TDString) Remap(mapping map[int]int) TDString {
	if s.tag == strRef {
		return TDString{tag: strRef, ref: s.ref.Remap(mapping)}
	}
	return s
}
