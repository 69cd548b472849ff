package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/coredata"
)

func singletonCanal(lfID int, actions ...Action) Canal {
	return Canal{Lifelines: map[int]struct{}{lfID: {}}, Actions: actions}
}

func TestCanalForFindsCoveringCanal(t *testing.T) {
	mt := New([]Canal{singletonCanal(1), singletonCanal(2)})

	idx, ok := mt.CanalFor(1)
	require.True(t, ok)
	require.Equal(t, 0, idx)

	_, ok = mt.CanalFor(3)
	require.False(t, ok)
}

func TestIsAnyComponentEmpty(t *testing.T) {
	dry := New([]Canal{singletonCanal(1)})
	require.True(t, dry.IsAnyComponentEmpty())

	wet := New([]Canal{singletonCanal(1, Action{LfID: 1, Kind: Emission, MsID: 0})})
	require.False(t, wet.IsAnyComponentEmpty())
}

func TestWithHeadPoppedRemovesFirstAction(t *testing.T) {
	a1 := Action{LfID: 1, Kind: Emission, MsID: 0, Arguments: []coredata.TDGeneric{coredata.FromInt(coredata.IntValue(1))}}
	a2 := Action{LfID: 1, Kind: Reception, MsID: 1}
	mt := New([]Canal{singletonCanal(1, a1, a2)})

	head, rest := mt.WithHeadPopped(0)
	require.Equal(t, a1, head)
	require.Len(t, rest.Canals[0].Actions, 1)
	require.Equal(t, a2, rest.Canals[0].Actions[0])

	require.Len(t, mt.Canals[0].Actions, 2, "WithHeadPopped must not mutate the receiver")
}

func TestLengthSumsAcrossCanals(t *testing.T) {
	mt := New([]Canal{
		singletonCanal(1, Action{LfID: 1, Kind: Emission, MsID: 0}),
		singletonCanal(2, Action{LfID: 2, Kind: Reception, MsID: 0}, Action{LfID: 2, Kind: Reception, MsID: 1}),
	})
	require.Equal(t, 3, mt.Length())
}
