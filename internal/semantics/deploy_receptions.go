package semantics

import (
	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/interaction"
)

// DeployOriginalActionFollowup is deploy_original_action_followup() of
// spec §4.3: once the evaluator has produced the effective (possibly
// symbol-bound) parameter values for a fired action, replace it in the
// tree with Empty (a reception) or with the Par-folded reception
// actions it triggers on every emission target (an emission).
func DeployOriginalActionFollowup(i interaction.Interaction, p interaction.Position, modelAction action.ObservableAction, effectiveParameters []coredata.TDGeneric) (interaction.Interaction, error) {
	if modelAction.ActKind == action.Reception {
		return i.Substitute(interaction.Empty(), p)
	}
	values := make([]coredata.ValueOrFresh, len(effectiveParameters))
	for i, v := range effectiveParameters {
		values[i] = coredata.Value(v)
	}
	toSubstitute := deployReceptions(0, modelAction.EmissionTargets, modelAction.MsID, values, modelAction.OriginalPosition)
	return i.Substitute(toSubstitute, p)
}

// deployReceptions folds the per-target reception actions into a
// right-leaning Par. A head that is Empty is dropped rather than
// wrapped in a Par; deployLfAct always returns a reception leaf, so
// every target contributes one reception.
func deployReceptions(index int, targets []action.LifelineAction, msID int, params []coredata.ValueOrFresh, parentOriginal []int) interaction.Interaction {
	if index >= len(targets) {
		return interaction.Empty()
	}
	if index == len(targets)-1 {
		return deployLfAct(targets[index], msID, params, parentOriginal, index)
	}
	head := deployLfAct(targets[index], msID, params, parentOriginal, index)
	tail := deployReceptions(index+1, targets, msID, params, parentOriginal)
	if head.IsEmpty() {
		return tail
	}
	return interaction.Par(head, tail)
}

// deployLfAct builds the single-leaf Reception interaction for one
// emission target, stamped with an address derived from the firing
// emission's own original position so later re-execution can still
// key evaluator runnable fqns off it.
func deployLfAct(lfAct action.LifelineAction, msID int, params []coredata.ValueOrFresh, parentOriginal []int, index int) interaction.Interaction {
	originalPosition := append(append([]int(nil), parentOriginal...), index+1)
	act := action.ObservableAction{
		Main:             lfAct,
		ActKind:          action.Reception,
		MsID:             msID,
		Params:           params,
		OriginalPosition: originalPosition,
		HasOriginalPos:   true,
	}
	return interaction.Action(act)
}
