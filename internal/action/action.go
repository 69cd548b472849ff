// Package action implements the LifelineAction/ObservableAction layer
// of spec §3 (component C1/C2 boundary): the pre/postamble-decorated
// action that sits at the leaves of an interaction tree.
package action

import "github.com/hibou-sem/hibou/internal/coredata"

// LifelineAction is a single lifeline's contribution to an action: a
// preamble (guards/assignments/resets evaluated before the message
// event), the lifeline id, and a postamble (evaluated after).
type LifelineAction struct {
	Preamble  []coredata.AmbleItem
	LfID      int
	Postamble []coredata.AmbleItem
}

func (l LifelineAction) OccurringVariables() map[int]struct{} {
	out := map[int]struct{}{}
	for _, it := range l.Preamble {
		mergeInto(out, it.OccurringVariables())
	}
	for _, it := range l.Postamble {
		mergeInto(out, it.OccurringVariables())
	}
	return out
}

func (l LifelineAction) Remap(mapping map[int]int) LifelineAction {
	return LifelineAction{
		Preamble:  coredata.RemapAmbleList(l.Preamble, mapping),
		LfID:      l.LfID,
		Postamble: coredata.RemapAmbleList(l.Postamble, mapping),
	}
}

func mergeInto(dst, src map[int]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

// Kind distinguishes a Reception from an Emission; an Emission
// carries the per-target LifelineAction of each receiver (spec §3).
type Kind int

const (
	Reception Kind = iota
	Emission
)

// ObservableAction is the leaf node of an interaction tree: a message
// event (emission or reception) with its emitting/receiving lifeline
// action(s), message id, parameters, and (once stamped by
// DecorateWithInitialPositions) its original tree address.
type ObservableAction struct {
	Main              LifelineAction
	ActKind           Kind
	EmissionTargets   []LifelineAction // non-empty only when ActKind == Emission
	MsID              int
	Params            []coredata.ValueOrFresh
	OriginalPosition  []int // nil until decorated
	HasOriginalPos    bool
}

// OccupationBefore is the lifeline that performs the action.
func (a ObservableAction) OccupationBefore() int { return a.Main.LfID }

// OccupationAfter is occupation_after() of spec §4.2's avoids():
// {main.lf} for a reception, {main.lf} ∪ targets.lf_id for an emission.
func (a ObservableAction) OccupationAfter() map[int]struct{} {
	out := map[int]struct{}{a.Main.LfID: {}}
	if a.ActKind == Emission {
		for _, t := range a.EmissionTargets {
			out[t.LfID] = struct{}{}
		}
	}
	return out
}

func (a ObservableAction) OccurringVariables() map[int]struct{} {
	out := a.Main.OccurringVariables()
	for _, t := range a.EmissionTargets {
		mergeInto(out, t.OccurringVariables())
	}
	for _, p := range a.Params {
		mergeInto(out, p.OccurringVariables())
	}
	return out
}

func (a ObservableAction) Remap(mapping map[int]int) ObservableAction {
	out := a
	out.Main = a.Main.Remap(mapping)
	if len(a.EmissionTargets) > 0 {
		targets := make([]LifelineAction, len(a.EmissionTargets))
		for i, t := range a.EmissionTargets {
			targets[i] = t.Remap(mapping)
		}
		out.EmissionTargets = targets
	}
	if len(a.Params) > 0 {
		params := make([]coredata.ValueOrFresh, len(a.Params))
		for i, p := range a.Params {
			params[i] = p.Remap(mapping)
		}
		out.Params = params
	}
	return out
}

// WithOriginalPosition returns a copy stamped with prefix, used by
// Interaction.DecorateWithInitialPositions (spec §4.2).
func (a ObservableAction) WithOriginalPosition(prefix []int) ObservableAction {
	out := a
	out.OriginalPosition = append([]int(nil), prefix...)
	out.HasOriginalPos = true
	return out
}
