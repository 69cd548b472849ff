package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hibou-sem/hibou/internal/hcontext"
)

func foldPosition(pos []int) string {
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "_")
}

// ActionFQN names the runnable that fires one action in the emitted
// model text, keyed by its owning lifeline and its original tree
// position (spec §4.6 step 5, §6 "the emitted intermediate text
// follows a fixed naming convention"). Grounded on the fqn scheme of
// original_source/src/grpc_connect/xlia_reference_name_tools.rs
// (`<lf>.action_<pos>`), adapted to key on the action's own absolute
// original_position rather than a position taken relative to a moving
// parent, since every ObservableAction already carries one fixed at
// parse time (DecorateWithInitialPositions) and it never needs
// re-deriving.
func ActionFQN(gen *hcontext.GeneralContext, lfID int, originalPosition []int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.action_%s", lfName, foldPosition(originalPosition)), nil
}

// OpenScopesFQN names the per-lifeline runnable the adapter fires
// once before any other action on a scope-opening descent (spec
// §4.6 step 4).
func OpenScopesFQN(gen *hcontext.GeneralContext, lfID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.action_open_scopes", lfName), nil
}

// InitializationFQN names the per-lifeline runnable fired once, right
// after OpenScopesFQN and before any other action, to let the
// evaluator assign the lifeline's initial variable values (spec §4.6
// step 4a). Grounded on
// original_source/src/grpc_connect/init_calls.rs's
// symbex_fire_lifeline_initializations, whose literal fqn is
// `format!("{}.initialization", lf_name)`.
func InitializationFQN(gen *hcontext.GeneralContext, lfID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.initialization", lfName), nil
}

// TraceCompareFQN names the runnable the analysis driver fires to
// check a recorded TraceAction against a just-fired model action
// (spec §4.8 "a second evaluator request trace_compare_ms_<name>").
func TraceCompareFQN(gen *hcontext.GeneralContext, lfID, msID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.action_compare_ms_%s", lfName, spec.Name), nil
}

// MessageParamFQN names the slot the evaluator binds/reads for the
// prID-th parameter of message msID on lifeline lfID.
func MessageParamFQN(gen *hcontext.GeneralContext, lfID, msID, prID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.ms_%s_pr_%d", lfName, spec.Name, prID), nil
}

// TraceMessageParamFQN names the slot the analysis driver binds a
// recorded TraceAction's prID-th argument to, distinct from
// MessageParamFQN so a trace_compare_ms_* runnable never aliases a
// model action's own parameter slot (spec §4.8 step 2).
func TraceMessageParamFQN(gen *hcontext.GeneralContext, lfID, msID, prID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.trace_ms_%s_pr_%d", lfName, spec.Name, prID), nil
}

// TraceDelayFQN names the per-lifeline slot a recorded TraceAction's
// delay is bound to before a trace_compare_ms_* runnable fires (spec
// §4.8 step 2, timed mode).
func TraceDelayFQN(gen *hcontext.GeneralContext, lfID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.trace_delay", lfName), nil
}

// DelayFQN is the fixed `$delay` symbol spec §4.6 step 6 queries in
// timed mode after a Sat EvalRunnable — one symbol shared by every
// lifeline, not a per-lifeline slot, matching
// original_source's literal "$delay" query.
func DelayFQN() string { return "$delay" }

// VariableFQN names the per-lifeline slot of a (possibly
// scope-instantiated) variable. This doubles as the "instance-index
// binding" of spec §4.6 step 2: rather than shipping a separate
// index_for(v) ↦ current_instance(v) map alongside a base variable
// name, the fqn itself already resolves to the correct per-instance
// slot via ExecutionContext.VariableName, which folds scope instance
// numbers into the name it returns.
func VariableFQN(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, lfID, vrID int) (string, error) {
	lfName, err := gen.LifelineName(lfID)
	if err != nil {
		return "", err
	}
	vrName, err := ec.VariableName(gen, vrID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.lf_var_%s", lfName, vrName), nil
}
