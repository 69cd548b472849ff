package fromtext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/process"
)

const sampleHSF = `
@lifeline { alice, bob }
@message { ping(int n), pong(int n) }
@variable { int x, clock c }
@init { alice.x := 0 }
@explore_option {
	strategy = DFS;
	pre_filters = [max_loop_depth = 3];
	temporality = untimed;
}
strict(
  alice!ping(x)->bob,
  [guard(x < 10)] bob?ping(x)
)
`

func TestParseHSFDeclarationsAndOptions(t *testing.T) {
	hsf, err := ParseHSF(sampleHSF, ProcessExplore)
	require.NoError(t, err)
	require.True(t, hsf.OptionsDeclared)

	aliceID, ok := hsf.Gen.LifelineID("alice")
	require.True(t, ok)
	bobID, ok := hsf.Gen.LifelineID("bob")
	require.True(t, ok)
	require.NotEqual(t, aliceID, bobID)

	_, ok = hsf.Gen.MessageID("ping")
	require.True(t, ok)

	xID, ok := hsf.Gen.VariableID("x")
	require.True(t, ok)
	cID, ok := hsf.Gen.VariableID("c")
	require.True(t, ok)
	require.True(t, hsf.Gen.IsClock(cID))
	require.False(t, hsf.Gen.IsClock(xID))

	require.Equal(t, process.DFS, hsf.Options.Strategy)
	require.Equal(t, process.UnTimed, hsf.Options.Temporality)
	require.Len(t, hsf.Options.PreFilters, 1)
	require.Equal(t, process.PreFilterMaxLoopInstanciation, hsf.Options.PreFilters[0].Kind)
	require.EqualValues(t, 3, hsf.Options.PreFilters[0].Threshold)

	init, ok := hsf.Init[aliceID]
	require.True(t, ok)
	v, ok := init[xID]
	require.True(t, ok)
	require.Equal(t, int64(0), v.AsInt().IntVal())

	require.True(t, hsf.Root.IsStrict())
	emission, err := hsf.Root.Left().AsLeaf()
	require.NoError(t, err)
	require.Equal(t, action.Emission, emission.ActKind)
	require.Equal(t, aliceID, emission.Main.LfID)
	require.Len(t, emission.EmissionTargets, 1)
	require.Equal(t, bobID, emission.EmissionTargets[0].LfID)

	reception, err := hsf.Root.Right().AsLeaf()
	require.NoError(t, err)
	require.Equal(t, action.Reception, reception.ActKind)
	require.Len(t, reception.Main.Preamble, 1)
}

func TestParseHSFDefaultsWhenOptionsAbsent(t *testing.T) {
	src := `
@lifeline { a }
@message { m() }
empty
`
	hsf, err := ParseHSF(src, ProcessAnalyze)
	require.NoError(t, err)
	require.False(t, hsf.OptionsDeclared)
	require.Equal(t, config.DefaultAnalyzeOptions().Strategy, hsf.Options.Strategy)
	require.NotNil(t, hsf.Options.Goal)
	require.True(t, hsf.Root.IsEmpty())
}

func TestParseHSFRejectsWrongOptionSection(t *testing.T) {
	src := `
@lifeline { a }
@analyze_option { strategy = BFS; }
empty
`
	_, err := ParseHSF(src, ProcessExplore)
	require.Error(t, err)
}

func TestParseHXTFCompletesUncoveredLifelines(t *testing.T) {
	src := `
@lifeline { a, b, c }
@message { m() }
empty
`
	hsf, err := ParseHSF(src, ProcessExplore)
	require.NoError(t, err)

	aID, _ := hsf.Gen.LifelineID("a")
	bID, _ := hsf.Gen.LifelineID("b")
	cID, _ := hsf.Gen.LifelineID("c")

	mt, err := ParseHXTF(`[a]a!m();`, hsf.Gen)
	require.NoError(t, err)
	require.Len(t, mt.Canals, 3)

	idx, ok := mt.CanalFor(aID)
	require.True(t, ok)
	require.Len(t, mt.Canals[idx].Actions, 1)

	idxB, ok := mt.CanalFor(bID)
	require.True(t, ok)
	require.Empty(t, mt.Canals[idxB].Actions)

	idxC, ok := mt.CanalFor(cID)
	require.True(t, ok)
	require.Empty(t, mt.Canals[idxC].Actions)
}
