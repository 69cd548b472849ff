// Package hlog implements the process logger layer of spec §4.7/§4.8
// (component C8): a pluggable sink for the process manager's init,
// execution, filtered, unsat, verdict, and terminate events. Grounded
// on original_source/src/process/log.rs for the interface surface.
package hlog

import (
	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/verdict"
	"github.com/hibou-sem/hibou/internal/trace"
)

// FilterElimination names which pre-filter dropped a candidate child
// (spec §4.7 "Pre-filters").
type FilterElimination int

const (
	FilterMaxProcessDepth FilterElimination = iota
	FilterMaxLoopInstanciation
	FilterMaxNodeNumber
)

func (f FilterElimination) String() string {
	switch f {
	case FilterMaxProcessDepth:
		return "MaxDepth"
	case FilterMaxLoopInstanciation:
		return "MaxLoop"
	case FilterMaxNodeNumber:
		return "MaxNum"
	}
	return "Unknown"
}

// Logger is the process manager's event sink. A driver run may fan
// events out to several loggers at once (spec: "loggers : Vec<Box<dyn
// ProcessLogger>>").
type Logger interface {
	LogInit(gen *hcontext.GeneralContext, i interaction.Interaction, ec *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace)
	LogTerm(optionsAsStrings []string)
	LogExecution(gen *hcontext.GeneralContext, parentStateID, newStateID uint32, pos interaction.Position, traceAction *trace.Action, modelAction action.ObservableAction, newInteraction interaction.Interaction, newExeCtx *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace)
	LogVerdict(parentStateID uint32, verdict verdict.Coverage)
	LogFiltered(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, modelAction action.ObservableAction, elim FilterElimination)
	LogUnsat(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, traceAction *trace.Action, modelAction action.ObservableAction)
}
