package process

import (
	"context"

	"github.com/hibou-sem/hibou/internal/evaluator"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/hlog"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/modeltext"
	"github.com/hibou-sem/hibou/internal/semantics"
	"github.com/hibou-sem/hibou/internal/trace"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// AnalyzeConfig is Explore's analysis counterpart: the same search
// configuration plus an optional goal verdict that lets a run stop
// early once reached (spec §4.8's "goal" early exit).
//
// There is no original_source file this is a line-for-line port of:
// original_source folds analysis into the same explore() entrypoint,
// keyed off whether a multi-trace argument happens to be supplied.
// This module gives analysis its own driver instead, so Explore's
// signature never carries a multi-trace parameter it would otherwise
// just ignore — an authored synthesis over the original's dispatch
// style, recorded as an Open Question decision in DESIGN.md.
type AnalyzeConfig struct {
	Gen         *hcontext.GeneralContext
	Client      *evaluator.Client
	Strategy    SearchStrategy
	Temporality Temporality
	PreFilters  []PreFilter
	Priorities  Priorities
	Loggers     []hlog.Logger
	Goal        *verdict.Global
}

// Analyze runs spec §4.8's trace-bounded search: identical bootstrap
// to Explore, but every memorized node carries the multi-trace still
// left to consume, every node whose frontier comes up empty is scored
// by GetCoverageVerdict and folded into a running Global verdict, and
// the search exits early once that running verdict meets cfg.Goal.
func Analyze(ctx context.Context, cfg AnalyzeConfig, root interaction.Interaction, ec *hcontext.ExecutionContext, mt trace.MultiTrace) (verdict.Global, error) {
	modelText, err := modeltext.Generate(cfg.Gen, ec, root, cfg.Temporality == Timed)
	if err != nil {
		return verdict.Fail, err
	}
	if err := cfg.Client.Initialization(); err != nil {
		return verdict.Fail, err
	}
	if err := cfg.Client.ModelParseText(ctx, modelText); err != nil {
		return verdict.Fail, err
	}
	stateID, err := cfg.Client.EvalInit(ctx, nil)
	if err != nil {
		return verdict.Fail, err
	}

	adapter := evaluator.NewAdapter(cfg.Client, cfg.Gen)
	stateID, err = adapter.FireLifelineInitializations(ctx, ec, stateID)
	if err != nil {
		return verdict.Fail, err
	}

	manager := NewManager(cfg.Gen, cfg.Strategy, cfg.Temporality, cfg.PreFilters, cfg.Priorities, cfg.Loggers, adapter)
	manager.InitLoggers(root, ec, &mt)

	running := verdict.Fail
	nextStateID := uint32(1)
	nodeCounter := uint32(0)
	if err := enqueueNextAnalysisNode(manager, nextStateID, ec, stateID, root, mt, 0, 0, &running); err != nil {
		return running, err
	}
	nextStateID++
	nodeCounter++

	goalMet := func() bool { return cfg.Goal != nil && verdict.AtLeast(running, *cfg.Goal) }

	for !goalMet() {
		toProcess, ok := manager.ExtractFromQueue()
		if !ok {
			break
		}
		newStateID := nextStateID
		nextStateID++

		parentState, ok := manager.GetMemorizedState(toProcess.StateID)
		if !ok {
			return running, herrors.New(herrors.KindPosition, "analyze: no memorized state %d", toProcess.StateID)
		}

		result, err := manager.ProcessNext(ctx, parentState, toProcess, newStateID, nodeCounter)
		if err != nil {
			return running, err
		}
		if result != nil {
			nodeCounter++
			if err := enqueueNextAnalysisNode(manager, newStateID, result.ExeCtx, result.StateID, result.Interaction, *result.MultiTrace, result.Depth, result.LoopDepth, &running); err != nil {
				return running, err
			}
		}

		delete(parentState.RemainingIDsToProcess, toProcess.IDAsChild)
		if len(parentState.RemainingIDsToProcess) == 0 {
			manager.ForgetState(toProcess.StateID)
		} else {
			manager.RememberState(toProcess.StateID, parentState)
		}
	}

	if err := cfg.Client.RunPostProcessor(ctx, nil); err != nil {
		return running, err
	}
	manager.TermLoggers(cfg.Goal, &running)
	return running, nil
}

// enqueueNextAnalysisNode mirrors enqueueNextNode but threads the
// remaining multi-trace through each memorized node, and scores a
// terminal node (empty frontier) via GetCoverageVerdict, folding the
// result into *running.
func enqueueNextAnalysisNode(manager *Manager, stateID uint32, ec *hcontext.ExecutionContext, evalStateID string, i interaction.Interaction, mt trace.MultiTrace, depth, loopDepth uint32, running *verdict.Global) error {
	frontier := semantics.Frontier(i)
	if len(frontier) == 0 {
		coverage := manager.GetCoverageVerdict(i, mt)
		manager.verdictLoggers(stateID, coverage)
		*running = verdict.Update(*running, coverage)
		return nil
	}
	toEnqueue := make([]NextToProcess, len(frontier))
	remaining := make(map[uint32]struct{}, len(frontier))
	for idx, pos := range frontier {
		childID := uint32(idx + 1)
		toEnqueue[idx] = NextToProcess{StateID: stateID, IDAsChild: childID, Kind: NextToProcessKind{Position: pos}}
		remaining[childID] = struct{}{}
	}
	memo := &MemorizedState{
		Interaction:           i,
		ExeCtx:                ec,
		StateID:               evalStateID,
		MultiTrace:            &mt,
		RemainingIDsToProcess: remaining,
		LoopDepth:             loopDepth,
		Depth:                 depth,
	}
	manager.RememberState(stateID, memo)
	return manager.EnqueueExecutions(stateID, toEnqueue)
}
