package hcontext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/interaction"
)

func actionReferencingVar(vrID int) action.ObservableAction {
	return action.ObservableAction{
		Main: action.LifelineAction{
			LfID:     0,
			Preamble: []coredata.AmbleItem{coredata.Guard(coredata.BoolRef(coredata.Var(vrID)))},
		},
		ActKind: action.Reception,
	}
}

func TestGeneralContextRejectsDuplicateLifelineGroupNames(t *testing.T) {
	gen := NewGeneralContext()
	_, err := gen.AddLifeline("a")
	require.NoError(t, err)
	_, err = gen.AddLifelineGroup("a")
	require.Error(t, err)

	_, err = gen.AddLifelineGroup("g")
	require.NoError(t, err)
	_, err = gen.AddLifeline("g")
	require.Error(t, err)
}

func TestGeneralContextAddLifelineIsIdempotentByName(t *testing.T) {
	gen := NewGeneralContext()
	id1, err := gen.AddLifeline("a")
	require.NoError(t, err)
	id2, err := gen.AddLifeline("a")
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.Equal(t, 1, gen.LifelineCount())
}

func TestGeneralContextRejectsDuplicateMessage(t *testing.T) {
	gen := NewGeneralContext()
	_, err := gen.AddMessage("m", nil)
	require.NoError(t, err)
	_, err = gen.AddMessage("m", nil)
	require.Error(t, err)
}

func TestGeneralContextArityAndParamType(t *testing.T) {
	gen := NewGeneralContext()
	msID, err := gen.AddMessage("m", []ParamSpec{{Type: coredata.TInt}, {Type: coredata.TString, Name: "s"}})
	require.NoError(t, err)

	arity, err := gen.Arity(msID)
	require.NoError(t, err)
	require.Equal(t, 2, arity)

	typ, err := gen.ParamType(msID, 1)
	require.NoError(t, err)
	require.Equal(t, coredata.TString, typ)

	_, err = gen.ParamType(msID, 5)
	require.Error(t, err)
}

func TestGeneralContextUnknownLookupsError(t *testing.T) {
	gen := NewGeneralContext()
	_, err := gen.LifelineName(0)
	require.Error(t, err)
	_, err = gen.VariableName(0)
	require.Error(t, err)
	_, err = gen.VariableType(0)
	require.Error(t, err)
	_, err = gen.MessageSpec(0)
	require.Error(t, err)
}

func TestGeneralContextIsClock(t *testing.T) {
	gen := NewGeneralContext()
	vrID := gen.AddVariable("c", coredata.TFloat)
	require.False(t, gen.IsClock(vrID))
	gen.AddAsClock(vrID)
	require.True(t, gen.IsClock(vrID))
}

func TestExecutionContextSeedsActiveClocksFromGeneralContext(t *testing.T) {
	gen := NewGeneralContext()
	x := gen.AddVariable("x", coredata.TInt)
	clk := gen.AddVariable("c", coredata.TFloat)
	gen.AddAsClock(clk)

	ec := NewExecutionContext(gen, nil, 0)
	_, xIsClock := ec.ActiveClocks()[x]
	require.False(t, xIsClock)
	_, clkIsClock := ec.ActiveClocks()[clk]
	require.True(t, clkIsClock)
}

func TestExecutionContextCloneIsIndependent(t *testing.T) {
	gen := NewGeneralContext()
	gen.AddVariable("x", coredata.TInt)
	ec := NewExecutionContext(gen, map[int]map[int]coredata.TDGeneric{
		0: {0: coredata.FromInt(coredata.IntValue(1))},
	}, 0)

	clone := ec.Clone()
	clone.SetLifelineInterpretation(0, map[int]coredata.TDGeneric{0: coredata.FromInt(coredata.IntValue(2))})
	clone.AddSymbol("s0", coredata.TInt)

	orig, ok := ec.LifelineInterpretation(0)
	require.True(t, ok)
	require.Equal(t, coredata.FromInt(coredata.IntValue(1)), orig[0])

	_, err := ec.SymbolName(0)
	require.Error(t, err, "symbol added to the clone must not leak back to the original")
}

func TestOpenScopeAllocatesFreshInstanceAndRenamesBody(t *testing.T) {
	gen := NewGeneralContext()
	x := gen.AddVariable("x", coredata.TInt)
	ec := NewExecutionContext(gen, nil, 0)

	body := interaction.Action(actionReferencingVar(x))
	baseVrIDCounter := ec.VariableCount()

	renamed, err := ec.OpenScope(gen, []int{x}, body)
	require.NoError(t, err)

	leaf, err := renamed.AsLeaf()
	require.NoError(t, err)
	occ := leaf.OccurringVariables()
	_, stillOriginal := occ[x]
	require.False(t, stillOriginal)
	require.Greater(t, ec.VariableCount(), baseVrIDCounter)

	name, err := ec.VariableName(gen, ec.VariableCount()-1)
	require.NoError(t, err)
	require.Equal(t, "x_1", name)
}

func TestOpenScopeGrowsActiveClocksForClockVariables(t *testing.T) {
	gen := NewGeneralContext()
	clk := gen.AddVariable("c", coredata.TFloat)
	gen.AddAsClock(clk)
	ec := NewExecutionContext(gen, nil, 0)

	body := interaction.Action(actionReferencingVar(clk))
	_, err := ec.OpenScope(gen, []int{clk}, body)
	require.NoError(t, err)

	newID := ec.VariableCount() - 1
	_, isActive := ec.ActiveClocks()[newID]
	require.True(t, isActive)
}
