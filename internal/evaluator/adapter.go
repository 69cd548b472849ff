package evaluator

import (
	"context"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/herrors"
)

// Adapter is the data semantics adapter of spec §4.6 (component C5):
// it sits between the shape_execute/deploy_receptions rewrite kernel
// and the RPC Client, translating a fired ObservableAction into
// bound/unbound variable slots on the wire and translating the
// evaluator's response back into ExecutionContext mutations.
type Adapter struct {
	client *Client
	gen    *hcontext.GeneralContext
}

func NewAdapter(client *Client, gen *hcontext.GeneralContext) *Adapter {
	return &Adapter{client: client, gen: gen}
}

// FireResult is the adapter's account of one EvalRunnable round-trip:
// either UnSat (the caller must drop this branch, per spec §4.6's
// error model, without treating it as a Go error) or Sat with the
// deploy-ready effective parameters (queried back for every message
// parameter, for emissions and receptions alike) and, in timed mode,
// the queried $delay.
type FireResult struct {
	Satisfiable     bool
	StateID         string
	PathCondition   coredata.TDBool
	OtherCondition  coredata.TDBool
	EffectiveParams []coredata.TDGeneric // one entry per message parameter, queried back regardless of reception/emission
	Delay           coredata.TDGeneric
	HasDelay        bool
}

func participatingLifelines(a action.ObservableAction) []int {
	out := []int{a.Main.LfID}
	for _, t := range a.EmissionTargets {
		out = append(out, t.LfID)
	}
	return out
}

// Fire runs spec §4.6's numbered steps for one action firing: opening
// scopes first if needsScoping, binding every appearing variable's
// currently-known value, shipping already-bound reception parameters
// (letting the evaluator compute emission parameters instead),
// submitting the action's runnable fqn, and on Sat refreshing ec's
// per-lifeline interpretation and reading back every message
// parameter's effective value (and $delay, when timed).
func (ad *Adapter) Fire(ctx context.Context, ec *hcontext.ExecutionContext, stateID string, modelAction action.ObservableAction, needsScoping, timed bool) (FireResult, error) {
	if needsScoping {
		var err error
		stateID, err = ad.OpenScopes(ctx, ec, stateID)
		if err != nil {
			return FireResult{}, err
		}
	}

	appearing := modelAction.OccurringVariables()
	participants := participatingLifelines(modelAction)

	bindings, err := ad.bindKnownVariables(ec, participants, appearing)
	if err != nil {
		return FireResult{}, err
	}
	if modelAction.ActKind == action.Reception {
		recBindings, err := ad.bindReceptionParams(modelAction)
		if err != nil {
			return FireResult{}, err
		}
		bindings = append(bindings, recBindings...)
	}

	fqn, err := ActionFQN(ad.gen, modelAction.Main.LfID, modelAction.OriginalPosition)
	if err != nil {
		return FireResult{}, err
	}

	result, err := ad.client.EvalRunnable(ctx, stateID, fqn, bindings)
	if err != nil {
		return FireResult{}, err
	}
	if !result.Satisfiable {
		return FireResult{Satisfiable: false, StateID: result.StateID}, nil
	}

	for _, cs := range result.CreatedSymbols {
		ec.AddSymbol(cs.FQN, cs.Type)
	}
	ec.SetPathCondition(result.PathCondition)

	if err := ad.refreshInterpretation(ctx, ec, result.StateID, participants, appearing); err != nil {
		return FireResult{}, err
	}

	out := FireResult{
		Satisfiable:    true,
		StateID:        result.StateID,
		PathCondition:  result.PathCondition,
		OtherCondition: result.OtherCondition,
	}

	// Queried for both emissions and receptions (not just emissions):
	// for a reception with a NewFresh parameter, HIBOU never learns the
	// value the evaluator unconstrainedly picked except by asking it
	// back, matching original_source's model_symbex.rs, which queries
	// every model_action.params slot unconditionally after firing.
	params, err := ad.queryParams(ctx, result.StateID, modelAction.Main.LfID, modelAction.MsID)
	if err != nil {
		return FireResult{}, err
	}
	out.EffectiveParams = params

	if timed {
		delay, err := ad.client.QueryValue(ctx, result.StateID, DelayFQN())
		if err != nil {
			return FireResult{}, err
		}
		out.Delay, out.HasDelay = delay, true
	}

	return out, nil
}

func (ad *Adapter) bindKnownVariables(ec *hcontext.ExecutionContext, participants []int, appearing map[int]struct{}) ([]Binding, error) {
	var bindings []Binding
	for _, lf := range participants {
		interp, ok := ec.LifelineInterpretation(lf)
		if !ok {
			continue
		}
		for v := range appearing {
			val, ok := interp[v]
			if !ok {
				continue
			}
			fqn, err := VariableFQN(ad.gen, ec, lf, v)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, Binding{VarFQN: fqn, Value: coredata.Value(val)})
		}
	}
	return bindings, nil
}

// bindReceptionParams ships the values a reception's parameters were
// already bound to by deploy_original_action_followup on the firing
// emission's side (spec §4.6 step 3, "for receptions, ships
// HIBOU-side bound parameter values").
func (ad *Adapter) bindReceptionParams(modelAction action.ObservableAction) ([]Binding, error) {
	var bindings []Binding
	for i, p := range modelAction.Params {
		if p.IsFresh() {
			continue
		}
		fqn, err := MessageParamFQN(ad.gen, modelAction.Main.LfID, modelAction.MsID, i)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{VarFQN: fqn, Value: p})
	}
	return bindings, nil
}

func (ad *Adapter) queryParams(ctx context.Context, stateID string, lfID, msID int) ([]coredata.TDGeneric, error) {
	arity, err := ad.gen.Arity(msID)
	if err != nil {
		return nil, err
	}
	params := make([]coredata.TDGeneric, arity)
	for i := 0; i < arity; i++ {
		fqn, err := MessageParamFQN(ad.gen, lfID, msID, i)
		if err != nil {
			return nil, err
		}
		v, err := ad.client.QueryValue(ctx, stateID, fqn)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	return params, nil
}

// refreshInterpretation is spec §4.6 step 6: re-query every appearing
// variable, plus every active clock that already had an interpreted
// value, for each participating lifeline.
func (ad *Adapter) refreshInterpretation(ctx context.Context, ec *hcontext.ExecutionContext, stateID string, participants []int, appearing map[int]struct{}) error {
	for _, lf := range participants {
		interp, ok := ec.LifelineInterpretation(lf)
		fresh := map[int]coredata.TDGeneric{}
		if ok {
			for k, v := range interp {
				fresh[k] = v
			}
		}
		toRefresh := map[int]struct{}{}
		for v := range appearing {
			toRefresh[v] = struct{}{}
		}
		for clk := range ec.ActiveClocks() {
			if _, has := fresh[clk]; has {
				toRefresh[clk] = struct{}{}
			}
		}
		for v := range toRefresh {
			fqn, err := VariableFQN(ad.gen, ec, lf, v)
			if err != nil {
				return err
			}
			val, err := ad.client.QueryValue(ctx, stateID, fqn)
			if err != nil {
				return err
			}
			fresh[v] = val
		}
		ec.SetLifelineInterpretation(lf, fresh)
	}
	return nil
}

// OpenScopes fires every lifeline's action_open_scopes runnable once
// (spec §4.6 step 4), registering any symbols the evaluator reports
// as newly created, and returns the resulting evaluator state id.
func (ad *Adapter) OpenScopes(ctx context.Context, ec *hcontext.ExecutionContext, stateID string) (string, error) {
	for lf := 0; lf < ad.gen.LifelineCount(); lf++ {
		fqn, err := OpenScopesFQN(ad.gen, lf)
		if err != nil {
			return "", err
		}
		result, err := ad.client.EvalRunnable(ctx, stateID, fqn, nil)
		if err != nil {
			return "", err
		}
		stateID = result.StateID
		for _, cs := range result.CreatedSymbols {
			ec.AddSymbol(cs.FQN, cs.Type)
		}
	}
	return stateID, nil
}

// FireLifelineInitializations first runs OpenScopes, then fires every
// lifeline's `.initialization` runnable once, before the search loop
// proper (spec §4.6 step 4a), letting the evaluator assign the
// starting value of whatever variables that lifeline's .hsf @init
// section already named. Grounded on
// original_source/src/grpc_connect/init_calls.rs's
// symbex_fire_lifeline_initializations: the original ships an extra
// index_for(v) binding alongside each appearing variable so the
// initialization runnable writes into the right vector slot; this
// adapter skips that side-channel for the same reason VariableFQN
// already does (see its doc comment) — firing resolves straight to the
// per-instance slot by name, so there is nothing left for an index
// binding to disambiguate.
func (ad *Adapter) FireLifelineInitializations(ctx context.Context, ec *hcontext.ExecutionContext, stateID string) (string, error) {
	stateID, err := ad.OpenScopes(ctx, ec, stateID)
	if err != nil {
		return "", err
	}
	for lf := 0; lf < ad.gen.LifelineCount(); lf++ {
		fqn, err := InitializationFQN(ad.gen, lf)
		if err != nil {
			return "", err
		}
		result, err := ad.client.EvalRunnable(ctx, stateID, fqn, nil)
		if err != nil {
			return "", err
		}
		if !result.Satisfiable {
			return "", herrors.New(herrors.KindUnsatisfiableInitialization, "initialization of lifeline %d is unsatisfiable", lf)
		}
		stateID = result.StateID
		for _, cs := range result.CreatedSymbols {
			ec.AddSymbol(cs.FQN, cs.Type)
		}

		interp, ok := ec.LifelineInterpretation(lf)
		if !ok {
			continue
		}
		fresh := make(map[int]coredata.TDGeneric, len(interp))
		for v := range interp {
			fqn, err := VariableFQN(ad.gen, ec, lf, v)
			if err != nil {
				return "", err
			}
			val, err := ad.client.QueryValue(ctx, stateID, fqn)
			if err != nil {
				return "", err
			}
			fresh[v] = val
		}
		ec.SetLifelineInterpretation(lf, fresh)
	}
	return stateID, nil
}

// CompareTraceResult is the outcome of one analysis-driver trace
// comparison (spec §4.8 step 2/3).
type CompareTraceResult struct {
	Satisfiable bool
	StateID     string
}

// CompareTrace ships a recorded TraceAction's arguments (and, in
// timed mode, its delay) against the model parameters just bound on
// lfID/msID, to check the observed trace is still consistent with the
// model (spec §4.8 analysis step 2).
func (ad *Adapter) CompareTrace(ctx context.Context, stateID string, lfID, msID int, arguments []coredata.TDGeneric, delay *coredata.TDGeneric) (CompareTraceResult, error) {
	fqn, err := TraceCompareFQN(ad.gen, lfID, msID)
	if err != nil {
		return CompareTraceResult{}, err
	}
	bindings := make([]Binding, 0, len(arguments)+1)
	for i, v := range arguments {
		pfqn, err := TraceMessageParamFQN(ad.gen, lfID, msID, i)
		if err != nil {
			return CompareTraceResult{}, err
		}
		bindings = append(bindings, Binding{VarFQN: pfqn, Value: coredata.Value(v)})
	}
	if delay != nil {
		dfqn, err := TraceDelayFQN(ad.gen, lfID)
		if err != nil {
			return CompareTraceResult{}, err
		}
		bindings = append(bindings, Binding{VarFQN: dfqn, Value: coredata.Value(*delay)})
	}
	result, err := ad.client.EvalRunnable(ctx, stateID, fqn, bindings)
	if err != nil {
		return CompareTraceResult{}, err
	}
	return CompareTraceResult{Satisfiable: result.Satisfiable, StateID: result.StateID}, nil
}
