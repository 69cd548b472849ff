// Package process implements the process manager and drivers of spec
// §4.7/§4.8 (components C6/C7): a single-threaded cooperative search
// over an interaction tree's frontier, firing each candidate action
// through the evaluator adapter and the rewrite kernel, bounded by
// pre-filters and (in analysis mode) compared against a recorded
// multi-trace. Grounded on original_source/src/process/{process_manager,
// queue,hibou_process,verdicts,exploration}.rs and
// original_source/src/process/symbex/{model_symbex,trace_symbex}.rs.
package process

import (
	"fmt"

	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/trace"
)

// SearchStrategy picks the frontier exploration order (spec §4.7).
type SearchStrategy int

const (
	BFS SearchStrategy = iota
	DFS
)

func (s SearchStrategy) String() string {
	if s == DFS {
		return "Depth First Search"
	}
	return "Breadth First Search"
}

// Temporality selects whether a run queries $delay after every fired
// action (spec §4.6 step 6).
type Temporality int

const (
	UnTimed Temporality = iota
	Timed
)

func (t Temporality) String() string {
	if t == Timed {
		return "Timed"
	}
	return "UnTimed"
}

// PreFilterKind names one of the three bounds a run may impose on the
// search (spec §4.7 "Pre-filters").
type PreFilterKind int

const (
	PreFilterMaxLoopInstanciation PreFilterKind = iota
	PreFilterMaxProcessDepth
	PreFilterMaxNodeNumber
)

// PreFilter pairs a bound kind with its threshold.
type PreFilter struct {
	Kind      PreFilterKind
	Threshold uint32
}

func (f PreFilter) String() string {
	switch f.Kind {
	case PreFilterMaxLoopInstanciation:
		return fmt.Sprintf("MaxLoop=%d", f.Threshold)
	case PreFilterMaxProcessDepth:
		return fmt.Sprintf("MaxDepth=%d", f.Threshold)
	case PreFilterMaxNodeNumber:
		return fmt.Sprintf("MaxNum=%d", f.Threshold)
	}
	return "Unknown"
}

// MemorizedState is one node of the search: the interaction/execution
// context pair reached so far, the evaluator state id it was reached
// at, the remaining multi-trace in analysis mode (nil in exploration),
// the set of not-yet-processed child ids still owed against this
// node, and the accumulated loop/execution depth counters the
// pre-filters bound.
type MemorizedState struct {
	Interaction           interaction.Interaction
	ExeCtx                *hcontext.ExecutionContext
	StateID               string
	MultiTrace            *trace.MultiTrace
	RemainingIDsToProcess map[uint32]struct{}
	LoopDepth             uint32
	Depth                 uint32
}

// Clone deep-copies m for handing to a child NextToProcess (the
// manager mutates its own ExeCtx only through ShapeExecute's ec
// parameter, never the parent's).
func (m *MemorizedState) Clone() *MemorizedState {
	remaining := make(map[uint32]struct{}, len(m.RemainingIDsToProcess))
	for k := range m.RemainingIDsToProcess {
		remaining[k] = struct{}{}
	}
	return &MemorizedState{
		Interaction:           m.Interaction,
		ExeCtx:                m.ExeCtx,
		StateID:               m.StateID,
		MultiTrace:            m.MultiTrace,
		RemainingIDsToProcess: remaining,
		LoopDepth:             m.LoopDepth,
		Depth:                 m.Depth,
	}
}

// NextToProcessKind is Execute(Position): original_source's enum has
// only this one variant, so it is flattened to a plain field rather
// than kept as a one-case sum type.
type NextToProcessKind struct {
	Position interaction.Position
}

// NextToProcess is one queued candidate: which memorized parent state
// it fires against, which of that parent's frontier children it is
// (for remaining-count bookkeeping), and what to do.
type NextToProcess struct {
	StateID   uint32
	IDAsChild uint32
	Kind      NextToProcessKind
}
