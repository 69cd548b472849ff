package process

import (
	"context"
	"sort"
	"strconv"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/evaluator"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/hlog"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/semantics"
	"github.com/hibou-sem/hibou/internal/trace"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// Priorities weighs a candidate frontier position before it is
// enqueued (spec §4.7 "frontier priorities"): a flat base per
// reception/emission leaf kind, plus a bonus when the position sits
// inside a loop. Higher sorts first regardless of search strategy;
// strategy only decides push direction within one priority group.
type Priorities struct {
	Emission  int32
	Reception int32
	InLoop    int32
}

// Manager is HibouProcessManager of process_manager.rs: the
// strategy/temporality/pre-filter configuration, the live node table
// and work queue, and the logger fan-out, bound to one evaluator
// Adapter for the lifetime of a run.
type Manager struct {
	gen          *hcontext.GeneralContext
	strategy     SearchStrategy
	temporality  Temporality
	preFilters   []PreFilter
	states       map[uint32]*MemorizedState
	queue        *Queue
	priorities   Priorities
	loggers      []hlog.Logger
	adapter      *evaluator.Adapter
}

func NewManager(gen *hcontext.GeneralContext, strategy SearchStrategy, temporality Temporality, preFilters []PreFilter, priorities Priorities, loggers []hlog.Logger, adapter *evaluator.Adapter) *Manager {
	return &Manager{
		gen:         gen,
		strategy:    strategy,
		temporality: temporality,
		preFilters:  preFilters,
		states:      map[uint32]*MemorizedState{},
		queue:       NewQueue(),
		priorities:  priorities,
		loggers:     loggers,
		adapter:     adapter,
	}
}

// OptionsAsStrings is get_options_as_strings(): a human-readable
// rundown of this manager's configuration, used both as the terminal
// log line and (with a goal/verdict pair) the analysis variant of it.
func (m *Manager) OptionsAsStrings(goal, finalVerdict *verdict.Global) []string {
	var out []string
	if goal == nil {
		out = append(out, "process=exploration")
	} else {
		out = append(out, "process=analysis")
		out = append(out, "goal="+goal.String())
		out = append(out, "verdict="+finalVerdict.String())
	}
	out = append(out, "temporality="+m.temporality.String())
	out = append(out, "strategy="+m.strategy.String())
	out = append(out, "frontier_priorities=["+m.priorities.String()+"]")
	filters := "filters=["
	for i, f := range m.preFilters {
		if i > 0 {
			filters += ","
		}
		filters += f.String()
	}
	filters += "]"
	out = append(out, filters)
	return out
}

func (p Priorities) String() string {
	return "emission=" + strconv.Itoa(int(p.Emission)) + ",reception=" + strconv.Itoa(int(p.Reception)) + ",in_loop=" + strconv.Itoa(int(p.InLoop))
}

func (m *Manager) InitLoggers(i interaction.Interaction, ec *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	for _, l := range m.loggers {
		l.LogInit(m.gen, i, ec, remainingMultiTrace)
	}
}

func (m *Manager) TermLoggers(goal, finalVerdict *verdict.Global) {
	opts := m.OptionsAsStrings(goal, finalVerdict)
	for _, l := range m.loggers {
		l.LogTerm(opts)
	}
}

func (m *Manager) verdictLoggers(parentStateID uint32, v verdict.Coverage) {
	for _, l := range m.loggers {
		l.LogVerdict(parentStateID, v)
	}
}

func (m *Manager) logFiltered(parentStateID, newStateID uint32, pos interaction.Position, leaf action.ObservableAction, elim hlog.FilterElimination) {
	parent := m.states[parentStateID]
	for _, l := range m.loggers {
		l.LogFiltered(m.gen, parent.ExeCtx, parentStateID, newStateID, pos, leaf, elim)
	}
}

func (m *Manager) logUnsat(parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction) {
	parent := m.states[parentStateID]
	for _, l := range m.loggers {
		l.LogUnsat(m.gen, parent.ExeCtx, parentStateID, newStateID, pos, tr, modelAction)
	}
}

func (m *Manager) logExecution(parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction, newInteraction interaction.Interaction, newExeCtx *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	for _, l := range m.loggers {
		l.LogExecution(m.gen, parentStateID, newStateID, pos, tr, modelAction, newInteraction, newExeCtx, remainingMultiTrace)
	}
}

func (m *Manager) GetMemorizedState(id uint32) (*MemorizedState, bool) {
	s, ok := m.states[id]
	return s, ok
}

func (m *Manager) ForgetState(id uint32) { delete(m.states, id) }

func (m *Manager) RememberState(id uint32, s *MemorizedState) { m.states[id] = s }

func (m *Manager) ExtractFromQueue() (NextToProcess, bool) { return m.queue.GetNext() }

// EnqueueExecutions is enqueue_executions(): group the candidate
// children by priority (frontier leaf kind + in-loop bonus), push the
// highest-priority group first, and within a group preserve BFS's
// left-to-right order or DFS's right-to-left order (DFS reverses so
// repeated left-insertion restores depth-first descent order).
func (m *Manager) EnqueueExecutions(stateID uint32, toEnqueue []NextToProcess) error {
	parent, ok := m.GetMemorizedState(stateID)
	if !ok {
		return herrors.New(herrors.KindPosition, "enqueue_executions: no memorized state %d", stateID)
	}
	byPriority := map[int32][]NextToProcess{}
	for _, child := range toEnqueue {
		pos := child.Kind.Position
		sub, err := parent.Interaction.GetSubInteraction(pos)
		if err != nil {
			return err
		}
		leaf, err := sub.AsLeaf()
		if err != nil {
			return err
		}
		var priority int32
		if leaf.ActKind == action.Reception {
			priority += m.priorities.Reception
		} else {
			priority += m.priorities.Emission
		}
		loopDepth, err := parent.Interaction.LoopDepthAt(pos)
		if err != nil {
			return err
		}
		if loopDepth > 0 {
			priority += m.priorities.InLoop
		}
		byPriority[priority] = append(byPriority[priority], child)
	}

	keys := make([]int32, 0, len(byPriority))
	for k := range byPriority {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	var reorganized []NextToProcess
	for _, k := range keys {
		reorganized = append(reorganized, byPriority[k]...)
	}

	if m.strategy == DFS {
		for i, j := 0, len(reorganized)-1; i < j; i, j = i+1, j-1 {
			reorganized[i], reorganized[j] = reorganized[j], reorganized[i]
		}
	}
	for _, child := range reorganized {
		m.enqueueChild(child)
	}
	return nil
}

func (m *Manager) enqueueChild(child NextToProcess) {
	if m.strategy == DFS {
		m.queue.InsertLeft(child)
	} else {
		m.queue.InsertRight(child)
	}
}

// applyPreFilters is apply_pre_filters(): the first matching bound
// wins, in declaration order.
func (m *Manager) applyPreFilters(depth, loopDepth, nodeCounter uint32) (hlog.FilterElimination, bool) {
	for _, f := range m.preFilters {
		switch f.Kind {
		case PreFilterMaxProcessDepth:
			if depth > f.Threshold {
				return hlog.FilterMaxProcessDepth, true
			}
		case PreFilterMaxLoopInstanciation:
			if loopDepth > f.Threshold {
				return hlog.FilterMaxLoopInstanciation, true
			}
		case PreFilterMaxNodeNumber:
			if nodeCounter >= f.Threshold {
				return hlog.FilterMaxNodeNumber, true
			}
		}
	}
	return 0, false
}

// GetCoverageVerdict is get_coverage_verdict(): the terminal label for
// a node where the multi-trace is fully consumed (Cov if the
// interaction can terminate there, TooShort otherwise) or where it
// isn't (LackObs if some canal ran dry while another didn't, else Out).
func (m *Manager) GetCoverageVerdict(i interaction.Interaction, mt trace.MultiTrace) verdict.Coverage {
	if mt.Length() == 0 {
		if i.ExpressEmpty() {
			return verdict.Cov
		}
		return verdict.TooShort
	}
	if mt.IsAnyComponentEmpty() {
		return verdict.LackObs
	}
	return verdict.Out
}

// ProcessNextResult is the child search state process_next() produces
// when the candidate survives pre-filtering and the evaluator reports
// Sat.
type ProcessNextResult struct {
	Interaction interaction.Interaction
	ExeCtx      *hcontext.ExecutionContext
	StateID     string
	MultiTrace  *trace.MultiTrace
	Depth       uint32
	LoopDepth   uint32
}

// ProcessNext is process_next(): apply the pre-filters, shape_execute
// the candidate position, fire it through the evaluator adapter, and
// — branching on whether parentState carries a multi-trace — either
// deploy the model's own effective parameters (exploration) or compare
// against the recorded trace's head action before deploying its
// arguments instead (analysis). Returns (nil, nil) when the candidate
// was filtered or turned out UnSat; in both cases the appropriate
// logger has already fired.
func (m *Manager) ProcessNext(ctx context.Context, parentState *MemorizedState, toProcess NextToProcess, newStateID, nodeCounter uint32) (*ProcessNextResult, error) {
	position := toProcess.Kind.Position
	newDepth := parentState.Depth + 1
	loopDepthHere, err := parentState.Interaction.LoopDepthAt(position)
	if err != nil {
		return nil, err
	}
	newLoopDepth := parentState.LoopDepth + uint32(loopDepthHere)

	if elim, filtered := m.applyPreFilters(newDepth, newLoopDepth, nodeCounter); filtered {
		sub, err := parentState.Interaction.GetSubInteraction(position)
		if err != nil {
			return nil, err
		}
		leaf, err := sub.AsLeaf()
		if err != nil {
			return nil, err
		}
		m.logFiltered(toProcess.StateID, newStateID, position, leaf, elim)
		return nil, nil
	}

	newExeCtx := parentState.ExeCtx.Clone()
	shapedInteraction, shapedPosition, shapedAction, needsScoping, err := semantics.ShapeExecute(m.gen, newExeCtx, parentState.Interaction, position)
	if err != nil {
		return nil, err
	}

	fire, err := m.adapter.Fire(ctx, newExeCtx, parentState.StateID, shapedAction, needsScoping, m.temporality == Timed)
	if err != nil {
		return nil, err
	}
	if !fire.Satisfiable {
		m.logUnsat(toProcess.StateID, newStateID, position, nil, shapedAction)
		return nil, nil
	}

	if parentState.MultiTrace == nil {
		newInteraction, err := semantics.DeployOriginalActionFollowup(shapedInteraction, shapedPosition, shapedAction, fire.EffectiveParams)
		if err != nil {
			return nil, err
		}
		tAct := buildTraceAction(shapedAction, fire)
		m.logExecution(toProcess.StateID, newStateID, position, &tAct, shapedAction, newInteraction, newExeCtx, nil)
		return &ProcessNextResult{
			Interaction: newInteraction,
			ExeCtx:      newExeCtx,
			StateID:     fire.StateID,
			MultiTrace:  nil,
			Depth:       newDepth,
			LoopDepth:   newLoopDepth,
		}, nil
	}

	canalIdx, ok := parentState.MultiTrace.CanalFor(shapedAction.Main.LfID)
	if !ok {
		return nil, herrors.New(herrors.KindUnknownLifeline, "no multi-trace canal covers lifeline %d", shapedAction.Main.LfID)
	}
	headTraceAction, newMultiTrace := parentState.MultiTrace.WithHeadPopped(canalIdx)

	var delayPtr *coredata.TDGeneric
	if headTraceAction.HasDelay {
		delayPtr = &headTraceAction.Delay
	}
	cmp, err := m.adapter.CompareTrace(ctx, fire.StateID, shapedAction.Main.LfID, shapedAction.MsID, headTraceAction.Arguments, delayPtr)
	if err != nil {
		return nil, err
	}
	if !cmp.Satisfiable {
		m.logUnsat(toProcess.StateID, newStateID, position, &headTraceAction, shapedAction)
		return nil, nil
	}

	newInteraction, err := semantics.DeployOriginalActionFollowup(shapedInteraction, shapedPosition, shapedAction, headTraceAction.Arguments)
	if err != nil {
		return nil, err
	}
	m.logExecution(toProcess.StateID, newStateID, position, &headTraceAction, shapedAction, newInteraction, newExeCtx, &newMultiTrace)
	return &ProcessNextResult{
		Interaction: newInteraction,
		ExeCtx:      newExeCtx,
		StateID:     cmp.StateID,
		MultiTrace:  &newMultiTrace,
		Depth:       newDepth,
		LoopDepth:   newLoopDepth,
	}, nil
}

// buildTraceAction records an exploration-mode firing as a trace.Action
// purely for the execution logger's benefit (spec §4.7 "execution
// events carry the fired trace action alongside the model action").
func buildTraceAction(a action.ObservableAction, fire evaluator.FireResult) trace.Action {
	kind := trace.Reception
	if a.ActKind == action.Emission {
		kind = trace.Emission
	}
	ta := trace.Action{LfID: a.Main.LfID, Kind: kind, MsID: a.MsID, Arguments: fire.EffectiveParams}
	if fire.HasDelay {
		ta.HasDelay = true
		ta.Delay = fire.Delay
	}
	return ta
}
