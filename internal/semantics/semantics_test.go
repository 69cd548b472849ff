package semantics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
)

func reception(lfID, msID int) action.ObservableAction {
	return action.ObservableAction{
		Main:    action.LifelineAction{LfID: lfID},
		ActKind: action.Reception,
		MsID:    msID,
	}
}

func emission(lfID, msID int, targetLfIDs ...int) action.ObservableAction {
	targets := make([]action.LifelineAction, len(targetLfIDs))
	for i, lf := range targetLfIDs {
		targets[i] = action.LifelineAction{LfID: lf}
	}
	return action.ObservableAction{
		Main:            action.LifelineAction{LfID: lfID},
		ActKind:         action.Emission,
		EmissionTargets: targets,
		MsID:            msID,
	}
}

func at(steps ...interaction.Step) interaction.Position {
	p := interaction.Epsilon()
	for _, s := range steps {
		p = p.Prepend(s)
	}
	return p
}

func TestFrontierLeaf(t *testing.T) {
	i := interaction.Action(reception(1, 0))
	require.Equal(t, []interaction.Position{interaction.Epsilon()}, Frontier(i))
	require.Nil(t, Frontier(interaction.Empty()))
}

func TestFrontierStrictOnlyOffersRightWhenLeftExpressesEmpty(t *testing.T) {
	left := interaction.Action(reception(1, 0))
	right := interaction.Action(reception(2, 0))
	i := interaction.Strict(left, right)
	require.Equal(t, []interaction.Position{at(interaction.StepLeft)}, Frontier(i))

	emptyLeft := interaction.Loop(interaction.ScheduleStrict, left)
	i2 := interaction.Strict(emptyLeft, right)
	got := Frontier(i2)
	require.Len(t, got, 2)
}

func TestFrontierSeqRightOnlyWhenLeftAvoidsItsLifeline(t *testing.T) {
	left := interaction.Action(reception(1, 0))
	right := interaction.Action(reception(2, 0))
	i := interaction.Seq(left, right)
	got := Frontier(i)
	// left's frontier always present; right only if left avoids lf 2.
	require.Contains(t, got, at(interaction.StepLeft))
	require.Contains(t, got, at(interaction.StepRight))

	rightSameLf := interaction.Action(reception(1, 1))
	i2 := interaction.Seq(left, rightSameLf)
	got2 := Frontier(i2)
	require.Equal(t, []interaction.Position{at(interaction.StepLeft)}, got2)
}

func TestFrontierAltParUnionBothSides(t *testing.T) {
	left := interaction.Action(reception(1, 0))
	right := interaction.Action(reception(2, 0))
	require.Len(t, Frontier(interaction.Alt(left, right)), 2)
	require.Len(t, Frontier(interaction.Par(left, right)), 2)
}

func TestFrontierLoopAndScopeDescendLeftIntoBody(t *testing.T) {
	body := interaction.Action(reception(1, 0))
	loop := interaction.Loop(interaction.ScheduleSeq, body)
	require.Equal(t, []interaction.Position{at(interaction.StepLeft)}, Frontier(loop))

	scope := interaction.Scope([]int{0}, body)
	require.Equal(t, []interaction.Position{at(interaction.StepLeft)}, Frontier(scope))
}

func TestPruneAltKeepsOnlyTheAvoidingBranch(t *testing.T) {
	touching := interaction.Action(reception(1, 0))
	avoiding := interaction.Action(reception(2, 0))
	i := interaction.Alt(touching, avoiding)
	pruned := Prune(i, 1)
	require.True(t, pruned.IsAction())
	leaf, err := pruned.AsLeaf()
	require.NoError(t, err)
	require.Equal(t, 2, leaf.Main.LfID)
}

func TestPruneAltRecursesWhenBothBranchesAvoid(t *testing.T) {
	i := interaction.Alt(interaction.Action(reception(2, 0)), interaction.Action(reception(3, 0)))
	pruned := Prune(i, 1)
	require.True(t, pruned.IsAlt())
}

func TestPruneLoopCollapsesWhenBodyTouchesLifeline(t *testing.T) {
	loop := interaction.Loop(interaction.ScheduleStrict, interaction.Action(reception(1, 0)))
	require.True(t, Prune(loop, 1).IsEmpty())

	avoidingLoop := interaction.Loop(interaction.ScheduleStrict, interaction.Action(reception(2, 0)))
	pruned := Prune(avoidingLoop, 1)
	require.True(t, pruned.IsLoop())
}

func newTestGeneralContext(t *testing.T) *hcontext.GeneralContext {
	t.Helper()
	gen := hcontext.NewGeneralContext()
	_, err := gen.AddLifeline("a")
	require.NoError(t, err)
	_, err = gen.AddLifeline("b")
	require.NoError(t, err)
	_, err = gen.AddMessage("m", nil)
	require.NoError(t, err)
	gen.AddVariable("x", coredata.TInt)
	return gen
}

func TestShapeExecuteFiresLeafDirectly(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	i := interaction.Action(reception(0, 0))
	newI, pos, fired, needsScoping, err := ShapeExecute(gen, ec, i, interaction.Epsilon())
	require.NoError(t, err)
	require.False(t, needsScoping)
	require.Equal(t, interaction.Epsilon(), pos)
	require.Equal(t, 0, fired.Main.LfID)
	require.True(t, newI.IsAction())
}

func TestShapeExecuteAltDropsTheOtherBranch(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	left := interaction.Action(reception(0, 0))
	right := interaction.Action(reception(1, 0))
	i := interaction.Alt(left, right)
	newI, pos, fired, _, err := ShapeExecute(gen, ec, i, at(interaction.StepLeft))
	require.NoError(t, err)
	require.Equal(t, interaction.Epsilon(), pos)
	require.Equal(t, 0, fired.Main.LfID)
	require.True(t, newI.IsAction())
}

func TestShapeExecuteStrictLeftKeepsRightUnexecuted(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	left := interaction.Action(reception(0, 0))
	right := interaction.Action(reception(1, 0))
	i := interaction.Strict(left, right)
	newI, pos, fired, _, err := ShapeExecute(gen, ec, i, at(interaction.StepLeft))
	require.NoError(t, err)
	require.Equal(t, at(interaction.StepLeft), pos)
	require.Equal(t, 0, fired.Main.LfID)
	require.True(t, newI.IsStrict())
	require.True(t, newI.Left().IsAction())
	require.True(t, newI.Right().IsAction())
}

func TestShapeExecuteSeqRightPrunesLeftFirst(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	// left avoids lifeline 1, so seq's right-hand frontier at lf 1 can fire;
	// the shape_execute rewrite prunes the left branch against lf 1, which
	// leaves a plain action on another lifeline unchanged.
	left := interaction.Action(reception(0, 0))
	right := interaction.Action(reception(1, 0))
	i := interaction.Seq(left, right)
	newI, pos, fired, _, err := ShapeExecute(gen, ec, i, at(interaction.StepRight))
	require.NoError(t, err)
	require.Equal(t, at(interaction.StepRight), pos)
	require.Equal(t, 1, fired.Main.LfID)
	require.True(t, newI.IsSeq())
	require.True(t, newI.Left().IsAction(), "left not touching lf 1 should survive pruning unchanged")
}

func TestShapeExecuteLoopRewrapsWithFreshCopyAndLoop(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	body := interaction.Action(reception(0, 0))
	loop := interaction.Loop(interaction.ScheduleSeq, body)
	newI, pos, fired, _, err := ShapeExecute(gen, ec, loop, at(interaction.StepLeft))
	require.NoError(t, err)
	require.Equal(t, at(interaction.StepLeft), pos)
	require.Equal(t, 0, fired.Main.LfID)
	require.True(t, newI.IsSeq(), "loop_seq unfolds into a seq of the fired copy and the still-live loop")
	require.True(t, newI.Left().IsAction())
	require.True(t, newI.Right().IsLoop())
}

func TestShapeExecuteScopeOpensExactlyOnceAndRenamesBody(t *testing.T) {
	gen := newTestGeneralContext(t)
	ec := hcontext.NewExecutionContext(gen, nil, 0)
	guard := coredata.Guard(coredata.BoolRef(coredata.Var(0)))
	act := reception(0, 0)
	act.Main.Preamble = []coredata.AmbleItem{guard}
	body := interaction.Action(act)
	scoped := interaction.Scope([]int{0}, body)

	newI, pos, _, needsScoping, err := ShapeExecute(gen, ec, scoped, at(interaction.StepLeft))
	require.NoError(t, err)
	require.True(t, needsScoping)
	require.Equal(t, interaction.Epsilon(), pos)

	fired, err := newI.AsLeaf()
	require.NoError(t, err)
	occ := fired.OccurringVariables()
	_, stillZero := occ[0]
	require.False(t, stillZero, "scope opening must rename away the pre-mapped variable id")
	require.Equal(t, 1, ec.VariableCount()-gen.VariableCount(), "exactly one fresh variable instance allocated")
}

func TestDeployOriginalActionFollowupReceptionBecomesEmpty(t *testing.T) {
	i := interaction.Action(reception(0, 0))
	modelAction := reception(0, 0)
	out, err := DeployOriginalActionFollowup(i, interaction.Epsilon(), modelAction, nil)
	require.NoError(t, err)
	require.True(t, out.IsEmpty())
}

func TestDeployOriginalActionFollowupEmissionFoldsTargetsIntoPar(t *testing.T) {
	modelAction := emission(0, 0, 1, 2)
	modelAction.OriginalPosition = []int{}
	modelAction.HasOriginalPos = true
	i := interaction.Action(modelAction)
	out, err := DeployOriginalActionFollowup(i, interaction.Epsilon(), modelAction, []coredata.TDGeneric{})
	require.NoError(t, err)
	require.True(t, out.IsPar())
	leftLeaf, err := out.Left().AsLeaf()
	require.NoError(t, err)
	require.Equal(t, action.Reception, leftLeaf.ActKind)
	require.Equal(t, 1, leftLeaf.Main.LfID)
	rightLeaf, err := out.Right().AsLeaf()
	require.NoError(t, err)
	require.Equal(t, 2, rightLeaf.Main.LfID)
}

func TestDeployOriginalActionFollowupSingleTargetSkipsParFold(t *testing.T) {
	modelAction := emission(0, 0, 1)
	modelAction.OriginalPosition = []int{}
	modelAction.HasOriginalPos = true
	i := interaction.Action(modelAction)
	out, err := DeployOriginalActionFollowup(i, interaction.Epsilon(), modelAction, []coredata.TDGeneric{})
	require.NoError(t, err)
	leaf, err := out.AsLeaf()
	require.NoError(t, err)
	require.Equal(t, action.Reception, leaf.ActKind)
	require.Equal(t, 1, leaf.Main.LfID)
}
