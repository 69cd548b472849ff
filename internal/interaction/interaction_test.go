package interaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/action"
)

func reception(lfID, msID int) action.ObservableAction {
	return action.ObservableAction{
		Main:    action.LifelineAction{LfID: lfID},
		ActKind: action.Reception,
		MsID:    msID,
	}
}

func emission(lfID, msID, targetLfID int) action.ObservableAction {
	return action.ObservableAction{
		Main:            action.LifelineAction{LfID: lfID},
		ActKind:         action.Emission,
		EmissionTargets: []action.LifelineAction{{LfID: targetLfID}},
		MsID:            msID,
	}
}

func TestExpressEmptyMatchesNodeSemantics(t *testing.T) {
	require.True(t, Empty().ExpressEmpty())
	require.False(t, Action(reception(1, 0)).ExpressEmpty())

	require.True(t, Strict(Empty(), Empty()).ExpressEmpty())
	require.False(t, Strict(Empty(), Action(reception(1, 0))).ExpressEmpty())

	require.True(t, Alt(Action(reception(1, 0)), Empty()).ExpressEmpty())
	require.False(t, Alt(Action(reception(1, 0)), Action(reception(2, 0))).ExpressEmpty())

	require.True(t, Loop(ScheduleStrict, Action(reception(1, 0))).ExpressEmpty())

	scoped := Scope([]int{1}, Empty())
	require.True(t, scoped.ExpressEmpty())
}

func TestAvoidsIgnoresUntouchedLifelines(t *testing.T) {
	i := Strict(Action(reception(1, 0)), Action(emission(1, 0, 2)))
	require.True(t, i.Avoids(3))
	require.False(t, i.Avoids(1))
	require.False(t, i.Avoids(2))
}

func TestAvoidsAltRequiresOnlyOneBranch(t *testing.T) {
	i := Alt(Action(reception(1, 0)), Action(reception(2, 0)))
	require.True(t, i.Avoids(1))
	require.True(t, i.Avoids(2))
	require.True(t, i.Avoids(3))
}

func TestLoopDepthCountsNestedLoops(t *testing.T) {
	inner := Loop(ScheduleSeq, Action(reception(1, 0)))
	outer := Loop(ScheduleStrict, Strict(inner, Action(reception(2, 0))))
	require.Equal(t, 2, outer.LoopDepth())
}

func TestLoopDepthAtCountsLoopsOnPath(t *testing.T) {
	body := Action(reception(1, 0))
	loop := Loop(ScheduleStrict, body)
	tree := Strict(loop, Action(reception(2, 0)))

	depth, err := tree.LoopDepthAt(Epsilon().Prepend(StepLeft).Prepend(StepLeft))
	require.NoError(t, err)
	require.Equal(t, 1, depth)

	depth, err = tree.LoopDepthAt(Epsilon().Prepend(StepRight))
	require.NoError(t, err)
	require.Equal(t, 0, depth)
}

func TestGetSubInteractionDescendsBinaryNodes(t *testing.T) {
	left := Action(reception(1, 0))
	right := Action(reception(2, 0))
	tree := Strict(left, right)

	sub, err := tree.GetSubInteraction(Epsilon().Prepend(StepLeft))
	require.NoError(t, err)
	leaf, err := sub.AsLeaf()
	require.NoError(t, err)
	require.Equal(t, 1, leaf.Main.LfID)

	_, err = tree.GetSubInteraction(Epsilon().Prepend(StepRight).Prepend(StepLeft))
	require.Error(t, err)
}

func TestAsLeafRejectsNonActionNode(t *testing.T) {
	_, err := Empty().AsLeaf()
	require.Error(t, err)
}

func TestPositionRoundTripsThroughInts(t *testing.T) {
	p := Epsilon().Prepend(StepRight).Prepend(StepLeft)
	require.Equal(t, []int{1, 2}, p.AsInts())
	require.Equal(t, p.String(), FromInts(p.AsInts()).String())
}
