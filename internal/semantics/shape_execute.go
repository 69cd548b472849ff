package semantics

import (
	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/interaction"
)

// ShapeExecute is shape_execute() of spec §4.3: fire the action
// addressed by p, returning the rewritten tree, the fired action's
// address *within that rewritten tree* (not necessarily p itself —
// Alt/Strict collapse a branch away, Loop rewraps, Seq/Par may shift),
// the fired action, and whether a Scope was opened along the way (so
// the caller knows ec's variable-instance bookkeeping grew).
//
// The returned tree is not yet ready to run: the caller still owns
// substituting the deployed follow-up (Empty for a reception, the
// folded Par of receptions for an emission) at the returned position.
func ShapeExecute(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, i interaction.Interaction, p interaction.Position) (interaction.Interaction, interaction.Position, action.ObservableAction, bool, error) {
	sub, err := i.GetSubInteraction(p)
	if err != nil {
		return interaction.Interaction{}, interaction.Position{}, action.ObservableAction{}, false, err
	}
	leaf, err := sub.AsLeaf()
	if err != nil {
		return interaction.Interaction{}, interaction.Position{}, action.ObservableAction{}, false, err
	}
	concernedLf := leaf.OccupationBefore()
	acc, newI, finalAction, needsScoping, err := shapeExecuteRec(gen, ec, i, concernedLf, p, nil)
	if err != nil {
		return interaction.Interaction{}, interaction.Position{}, action.ObservableAction{}, false, err
	}
	return newI, stepsToPosition(acc), finalAction, needsScoping, nil
}

func stepsToPosition(acc []interaction.Step) interaction.Position {
	if len(acc) == 0 {
		return interaction.Epsilon()
	}
	ints := make([]int, len(acc))
	for i, s := range acc {
		if s == interaction.StepLeft {
			ints[i] = 1
		} else {
			ints[i] = 2
		}
	}
	return interaction.FromInts(ints)
}

// shapeExecuteRec returns (accumulated steps to the fired leaf within
// the rewritten tree, rewritten tree, fired action, needs_scoping).
func shapeExecuteRec(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, myInt interaction.Interaction, concernedLf int, targetPos interaction.Position, acc []interaction.Step) ([]interaction.Step, interaction.Interaction, action.ObservableAction, bool, error) {
	if targetPos.IsEpsilon() {
		if !myInt.IsAction() {
			return nil, interaction.Interaction{}, action.ObservableAction{}, false, herrors.New(herrors.KindPosition, "shape_execute reached a non-action node at the target position")
		}
		return acc, myInt, myInt.AsAction(), false, nil
	}

	step, rest := targetPos.Head()
	switch step {
	case interaction.StepLeft:
		switch {
		case myInt.IsAlt():
			return shapeExecuteRec(gen, ec, myInt.Left(), concernedLf, rest, acc)
		case myInt.IsLoop():
			return shapeExecuteLeftInSchedule(gen, ec, myInt.Body(), myInt, concernedLf, rest, scheduleKindOf(myInt), acc)
		case myInt.IsScope():
			newBody, err := ec.OpenScope(gen, myInt.ScopeVars(), myInt.Body())
			if err != nil {
				return nil, interaction.Interaction{}, action.ObservableAction{}, false, err
			}
			a2, newI, fired, _, err := shapeExecuteRec(gen, ec, newBody, concernedLf, rest, acc)
			if err != nil {
				return nil, interaction.Interaction{}, action.ObservableAction{}, false, err
			}
			return a2, newI, fired, true, nil
		case myInt.IsStrict():
			return shapeExecuteLeftInSchedule(gen, ec, myInt.Left(), myInt.Right(), concernedLf, rest, interaction.ScheduleStrict, acc)
		case myInt.IsSeq():
			return shapeExecuteLeftInSchedule(gen, ec, myInt.Left(), myInt.Right(), concernedLf, rest, interaction.ScheduleSeq, acc)
		case myInt.IsPar():
			return shapeExecuteLeftInSchedule(gen, ec, myInt.Left(), myInt.Right(), concernedLf, rest, interaction.SchedulePar, acc)
		}
	case interaction.StepRight:
		switch {
		case myInt.IsAlt():
			return shapeExecuteRec(gen, ec, myInt.Right(), concernedLf, rest, acc)
		case myInt.IsStrict():
			return shapeExecuteRec(gen, ec, myInt.Right(), concernedLf, rest, acc)
		case myInt.IsSeq():
			newI1 := Prune(myInt.Left(), concernedLf)
			if newI1.IsEmpty() {
				return shapeExecuteRec(gen, ec, myInt.Right(), concernedLf, rest, acc)
			}
			a2, newI2, fired, needsScoping, err := shapeExecuteRec(gen, ec, myInt.Right(), concernedLf, rest, append(acc, interaction.StepRight))
			if err != nil {
				return nil, interaction.Interaction{}, action.ObservableAction{}, false, err
			}
			return a2, interaction.Seq(newI1, newI2), fired, needsScoping, nil
		case myInt.IsPar():
			a2, newI2, fired, needsScoping, err := shapeExecuteRec(gen, ec, myInt.Right(), concernedLf, rest, append(acc, interaction.StepRight))
			if err != nil {
				return nil, interaction.Interaction{}, action.ObservableAction{}, false, err
			}
			return a2, interaction.Par(myInt.Left(), newI2), fired, needsScoping, nil
		}
	}
	return nil, interaction.Interaction{}, action.ObservableAction{}, false, herrors.New(herrors.KindPosition, "position %s does not address a valid sub-interaction for shape_execute", targetPos)
}

func scheduleKindOf(loopNode interaction.Interaction) interaction.ScheduleKind {
	return loopNode.LoopKind()
}

// shapeExecuteLeftInSchedule fires within i1 of a Strict/Seq/Par (or a
// Loop's body, with i2 standing for the whole Loop node so it can
// repeat after this iteration) and rewraps with the same schedule
// operator, i2 carried over unexecuted.
func shapeExecuteLeftInSchedule(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, i1, i2 interaction.Interaction, concernedLf int, subPos interaction.Position, kind interaction.ScheduleKind, acc []interaction.Step) ([]interaction.Step, interaction.Interaction, action.ObservableAction, bool, error) {
	a2, newI1, fired, needsScoping, err := shapeExecuteRec(gen, ec, i1, concernedLf, subPos, append(acc, interaction.StepLeft))
	if err != nil {
		return nil, interaction.Interaction{}, action.ObservableAction{}, false, err
	}
	var finalInteraction interaction.Interaction
	switch kind {
	case interaction.ScheduleStrict:
		finalInteraction = interaction.Strict(newI1, i2)
	case interaction.ScheduleSeq:
		finalInteraction = interaction.Seq(newI1, i2)
	case interaction.SchedulePar:
		finalInteraction = interaction.Par(newI1, i2)
	}
	return a2, finalInteraction, fired, needsScoping, nil
}
