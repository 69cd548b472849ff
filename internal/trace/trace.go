// Package trace implements the observed multi-trace layer of spec §3
// (component C7's input): a recorded TraceAction, the partition of
// lifelines into canals each carrying their own ordered sub-trace,
// and the multi-trace those canals together form. Grounded on
// original_source/src/core/trace.rs.
package trace

import "github.com/hibou-sem/hibou/internal/coredata"

// ActionKind mirrors action.Kind without importing the action package,
// since a recorded TraceAction is compared against a model action by
// signature only (lifeline, message, kind, arity) rather than by
// pre/postamble, so the full action representation is not needed here.
type ActionKind int

const (
	Reception ActionKind = iota
	Emission
)

// Action is one observed event of a recorded trace: an optional delay
// (timed mode only), the lifeline and message it occurred on, and the
// ground argument values it carried.
type Action struct {
	HasDelay  bool
	Delay     coredata.TDGeneric
	LfID      int
	Kind      ActionKind
	MsID      int
	Arguments []coredata.TDGeneric
}

// Canal is one cell of a multi-trace's partition of lifelines: the
// lifeline ids it covers and the ordered sub-trace observed on them.
type Canal struct {
	Lifelines map[int]struct{}
	Actions   []Action
}

// Contains reports whether lfID is one of this canal's lifelines.
func (c Canal) Contains(lfID int) bool {
	_, ok := c.Lifelines[lfID]
	return ok
}

// PopHead returns c's first action and a copy of c with it removed.
// Valid only when len(c.Actions) > 0.
func (c Canal) PopHead() (Action, Canal) {
	rest := append([]Action(nil), c.Actions[1:]...)
	return c.Actions[0], Canal{Lifelines: c.Lifelines, Actions: rest}
}

// MultiTrace is an AnalysableMultiTrace: a disjoint cover of the
// model's lifelines into canals, each independently consumed as the
// analysis driver fires actions.
type MultiTrace struct {
	Canals []Canal
}

func New(canals []Canal) MultiTrace { return MultiTrace{Canals: canals} }

// Length is the total count of not-yet-consumed actions across every
// canal.
func (mt MultiTrace) Length() int {
	n := 0
	for _, c := range mt.Canals {
		n += len(c.Actions)
	}
	return n
}

// IsAnyComponentEmpty is is_any_component_empty() of original_source's
// core/trace.rs: true iff some canal has been fully consumed.
func (mt MultiTrace) IsAnyComponentEmpty() bool {
	for _, c := range mt.Canals {
		if len(c.Actions) == 0 {
			return true
		}
	}
	return false
}

// CanalFor returns the index of the canal covering lfID, and whether
// one was found.
func (mt MultiTrace) CanalFor(lfID int) (int, bool) {
	for i, c := range mt.Canals {
		if c.Contains(lfID) {
			return i, true
		}
	}
	return 0, false
}

// WithHeadPopped returns a copy of mt with canal index i's head action
// removed, plus that popped action.
func (mt MultiTrace) WithHeadPopped(i int) (Action, MultiTrace) {
	canals := append([]Canal(nil), mt.Canals...)
	head, newCanal := canals[i].PopHead()
	canals[i] = newCanal
	return head, MultiTrace{Canals: canals}
}
