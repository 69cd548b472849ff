// Package coredata implements the typed first-order data-term algebra
// of spec §3/§4.1 (component C1): Bool/Int/Float/String terms, the
// three kinds of variable reference, and the structural, total,
// pure `Remap` capability shared by every term.
package coredata

// Type is one of the four primitive data types. Clock variables are
// declared with Type Float plus membership in a clocks set held by
// the general context (§3); Type itself has no separate Clock tag.
type Type string

const (
	TBool   Type = "Bool"
	TInt    Type = "Int"
	TFloat  Type = "Float"
	TString Type = "String"
)

func (t Type) String() string { return string(t) }
