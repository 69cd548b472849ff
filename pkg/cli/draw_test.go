package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
)

func buildTestContext(t *testing.T) *hcontext.GeneralContext {
	t.Helper()
	gen := hcontext.NewGeneralContext()
	_, err := gen.AddLifeline("a")
	require.NoError(t, err)
	_, err = gen.AddLifeline("b")
	require.NoError(t, err)
	_, err = gen.AddMessage("m", nil)
	require.NoError(t, err)
	return gen
}

func TestRenderDOTEmpty(t *testing.T) {
	gen := buildTestContext(t)
	out, err := RenderDOT(gen, interaction.Empty())
	require.NoError(t, err)
	require.Contains(t, out, "digraph interaction")
	require.Contains(t, out, `label="empty"`)
}

func TestRenderDOTEmissionAndReceptionLabels(t *testing.T) {
	gen := buildTestContext(t)
	emission := action.ObservableAction{
		Main:            action.LifelineAction{LfID: 0},
		ActKind:         action.Emission,
		EmissionTargets: []action.LifelineAction{{LfID: 1}},
		MsID:            0,
	}
	reception := action.ObservableAction{
		Main:    action.LifelineAction{LfID: 1},
		ActKind: action.Reception,
		MsID:    0,
	}
	tree := interaction.Strict(interaction.Action(emission), interaction.Action(reception))

	out, err := RenderDOT(gen, tree)
	require.NoError(t, err)
	require.Contains(t, out, "a!m(...)->b")
	require.Contains(t, out, "b?m(...)")
	require.Contains(t, out, `label="strict"`)
}

func TestRenderDOTLoopAndScopeLabels(t *testing.T) {
	gen := buildTestContext(t)
	vrID := gen.AddVariable("x", "Int")
	body := interaction.Action(action.ObservableAction{
		Main:    action.LifelineAction{LfID: 0},
		ActKind: action.Reception,
		MsID:    0,
	})
	tree := interaction.Scope([]int{vrID}, interaction.Loop(interaction.ScheduleSeq, body))

	out, err := RenderDOT(gen, tree)
	require.NoError(t, err)
	require.Contains(t, out, "scope{x}")
	require.Contains(t, out, "loop_seq")
}

func TestRenderDOTReportsUnknownLifeline(t *testing.T) {
	gen := hcontext.NewGeneralContext()
	_, err := gen.AddMessage("m", nil)
	require.NoError(t, err)
	tree := interaction.Action(action.ObservableAction{
		Main:    action.LifelineAction{LfID: 42},
		ActKind: action.Reception,
		MsID:    0,
	})
	_, err = RenderDOT(gen, tree)
	require.Error(t, err)
}
