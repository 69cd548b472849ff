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
)

// ExploreConfig is one exploration run's fixed configuration: the
// static registries, the evaluator RPC client, and the search's
// strategy/temporality/bounds/loggers.
type ExploreConfig struct {
	Gen         *hcontext.GeneralContext
	Client      *evaluator.Client
	Strategy    SearchStrategy
	Temporality Temporality
	PreFilters  []PreFilter
	Priorities  Priorities
	Loggers     []hlog.Logger
}

// Explore runs spec §4.7's plain search: bootstrap the evaluator with
// the emitted model text, fire every lifeline's initialization once,
// then pop/process/re-enqueue the frontier queue until it is dry.
// Grounded on original_source/src/process/exploration.rs's explore().
func Explore(ctx context.Context, cfg ExploreConfig, root interaction.Interaction, ec *hcontext.ExecutionContext) error {
	modelText, err := modeltext.Generate(cfg.Gen, ec, root, cfg.Temporality == Timed)
	if err != nil {
		return err
	}
	if err := cfg.Client.Initialization(); err != nil {
		return err
	}
	if err := cfg.Client.ModelParseText(ctx, modelText); err != nil {
		return err
	}
	stateID, err := cfg.Client.EvalInit(ctx, nil)
	if err != nil {
		return err
	}

	adapter := evaluator.NewAdapter(cfg.Client, cfg.Gen)
	stateID, err = adapter.FireLifelineInitializations(ctx, ec, stateID)
	if err != nil {
		return err
	}

	manager := NewManager(cfg.Gen, cfg.Strategy, cfg.Temporality, cfg.PreFilters, cfg.Priorities, cfg.Loggers, adapter)
	manager.InitLoggers(root, ec, nil)

	nextStateID := uint32(1)
	nodeCounter := uint32(0)
	if err := enqueueNextNode(manager, nextStateID, ec, stateID, root, 0, 0); err != nil {
		return err
	}
	nextStateID++
	nodeCounter++

	for {
		toProcess, ok := manager.ExtractFromQueue()
		if !ok {
			break
		}
		newStateID := nextStateID
		nextStateID++

		parentState, ok := manager.GetMemorizedState(toProcess.StateID)
		if !ok {
			return herrors.New(herrors.KindPosition, "explore: no memorized state %d", toProcess.StateID)
		}

		result, err := manager.ProcessNext(ctx, parentState, toProcess, newStateID, nodeCounter)
		if err != nil {
			return err
		}
		if result != nil {
			nodeCounter++
			if err := enqueueNextNode(manager, newStateID, result.ExeCtx, result.StateID, result.Interaction, result.Depth, result.LoopDepth); err != nil {
				return err
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
		return err
	}
	manager.TermLoggers(nil, nil)
	return nil
}

// enqueueNextNode is enqueue_next_node_in_exploration(): remembers a
// freshly reached node and enqueues its frontier, only if that
// frontier is non-empty (a node with an empty frontier is terminal
// and needs no further bookkeeping).
func enqueueNextNode(manager *Manager, stateID uint32, ec *hcontext.ExecutionContext, evalStateID string, i interaction.Interaction, depth, loopDepth uint32) error {
	frontier := semantics.Frontier(i)
	if len(frontier) == 0 {
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
		MultiTrace:            nil,
		RemainingIDsToProcess: remaining,
		LoopDepth:             loopDepth,
		Depth:                 depth,
	}
	manager.RememberState(stateID, memo)
	return manager.EnqueueExecutions(stateID, toEnqueue)
}
