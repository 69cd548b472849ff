// Package semantics implements the rewriting-based operational
// semantics kernel of spec §4 (component C4): frontier, prune,
// shape_execute, and deploy_original_action_followup. All recursion
// is pure tree-to-tree rewriting; the only mutation is on the
// *hcontext.ExecutionContext threaded through shape_execute for
// fresh-symbol and scope-instance bookkeeping.
package semantics

import "github.com/hibou-sem/hibou/internal/interaction"

// Frontier is frontier() of spec §4.3: the set of positions where
// execution may next fire, in the deterministic order the recursion
// produces (consumed as-is by the process manager's enqueue protocol).
func Frontier(i interaction.Interaction) []interaction.Position {
	switch {
	case i.IsEmpty():
		return nil
	case i.IsAction():
		return []interaction.Position{interaction.Epsilon()}
	case i.IsStrict():
		i1, i2 := i.Left(), i.Right()
		out := pushAll(interaction.StepLeft, Frontier(i1))
		if i1.ExpressEmpty() {
			out = append(out, pushAll(interaction.StepRight, Frontier(i2))...)
		}
		return out
	case i.IsSeq():
		i1, i2 := i.Left(), i.Right()
		out := pushAll(interaction.StepLeft, Frontier(i1))
		for _, p2 := range pushAll(interaction.StepRight, Frontier(i2)) {
			sub, err := i.GetSubInteraction(p2)
			if err != nil {
				continue
			}
			leaf, err := sub.AsLeaf()
			if err != nil {
				continue
			}
			if i1.Avoids(leaf.OccupationBefore()) {
				out = append(out, p2)
			}
		}
		return out
	case i.IsAlt():
		out := pushAll(interaction.StepLeft, Frontier(i.Left()))
		out = append(out, pushAll(interaction.StepRight, Frontier(i.Right()))...)
		return out
	case i.IsPar():
		out := pushAll(interaction.StepLeft, Frontier(i.Left()))
		out = append(out, pushAll(interaction.StepRight, Frontier(i.Right()))...)
		return out
	case i.IsLoop(), i.IsScope():
		return pushAll(interaction.StepLeft, Frontier(i.Body()))
	}
	return nil
}

func pushAll(step interaction.Step, positions []interaction.Position) []interaction.Position {
	out := make([]interaction.Position, len(positions))
	for i, p := range positions {
		out[i] = p.Prepend(step)
	}
	return out
}
