package coredata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTDGenericRemapRenamesVarRef(t *testing.T) {
	g := FromInt(NumRef(TInt, Var(1)))
	remapped := g.Remap(map[int]int{1: 2})

	require.Equal(t, map[int]struct{}{2: {}}, remapped.OccurringVariables())
	require.Equal(t, map[int]struct{}{1: {}}, g.OccurringVariables())
}

func TestTDGenericRemapLeavesUnmappedVarUntouched(t *testing.T) {
	g := FromInt(NumRef(TInt, Var(7)))
	remapped := g.Remap(map[int]int{1: 2})
	require.Equal(t, map[int]struct{}{7: {}}, remapped.OccurringVariables())
}

func TestVarRefSymbolAndMsgParamPassThroughRemap(t *testing.T) {
	sym := Symbol(3)
	require.Equal(t, sym, sym.Remap(map[int]int{3: 9}))
	require.Empty(t, sym.OccurringVariables())

	mp := MsgParam(1, 0)
	require.Equal(t, mp, mp.Remap(map[int]int{1: 9}))
	require.Empty(t, mp.OccurringVariables())
}

func TestBoolCompareOccurringVariablesUnionsOperands(t *testing.T) {
	b := BoolCompare(CmpLess, FromInt(NumRef(TInt, Var(1))), FromInt(IntValue(10)))
	require.Equal(t, map[int]struct{}{1: {}}, b.OccurringVariables())
}

func TestAmbleItemAssignmentOccurringVariablesIncludesTarget(t *testing.T) {
	item := Assignment(5, Value(FromInt(IntValue(42))))
	require.Equal(t, map[int]struct{}{5: {}}, item.OccurringVariables())

	remapped := item.Remap(map[int]int{5: 6})
	require.Equal(t, 6, remapped.AssignmentVar())
}

func TestAmbleItemResetRemapsTargetVar(t *testing.T) {
	item := Reset(2)
	remapped := item.Remap(map[int]int{2: 8})
	require.Equal(t, 8, remapped.ResetVar())
}

func TestValueOrFreshSkipsRemapAndOccurringVariables(t *testing.T) {
	fresh := NewFresh()
	require.True(t, fresh.IsFresh())
	require.Empty(t, fresh.OccurringVariables())
	require.Equal(t, fresh, fresh.Remap(map[int]int{1: 2}))
}
