package hcontext

import (
	"fmt"

	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/herrors"
	"github.com/hibou-sem/hibou/internal/interaction"
)

type vrOrigin struct {
	parentVrID int
	instance   int
}

// ExecutionContext is the dynamic per-search-state bookkeeping of
// spec §3/§4: fresh-symbol allocation, scope-instantiated variable
// bookkeeping, active clocks, per-lifeline interpretation, and the
// accumulated path condition. Owned by the MemorizedState that
// produced it; cloned into each child before mutation (spec §3
// "Ownership and lifetime").
type ExecutionContext struct {
	symbolCounter   int
	symbolTypes     map[int]coredata.Type
	symbolNames     map[int]string
	symbolNameToID  map[string]int

	vrIDCounter      int
	vrOriginals      map[int]vrOrigin
	vrInstancesCount map[int]int
	activeClocks     map[int]struct{}

	interpretation map[int]map[int]coredata.TDGeneric
	pathCondition  coredata.TDBool
}

// NewExecutionContext builds the initial execution context for a
// fresh search: active clocks seeded from gen_ctx, path condition ⊤,
// and the caller-supplied initial per-lifeline interpretation (from
// the .hsf @init section).
func NewExecutionContext(gen *GeneralContext, initInterpretation map[int]map[int]coredata.TDGeneric, symbolCounter int) *ExecutionContext {
	clocks := map[int]struct{}{}
	for vrID := 0; vrID < gen.VariableCount(); vrID++ {
		if gen.IsClock(vrID) {
			clocks[vrID] = struct{}{}
		}
	}
	interp := map[int]map[int]coredata.TDGeneric{}
	for lf, vals := range initInterpretation {
		cp := map[int]coredata.TDGeneric{}
		for k, v := range vals {
			cp[k] = v
		}
		interp[lf] = cp
	}
	return &ExecutionContext{
		symbolCounter:    symbolCounter,
		symbolTypes:      map[int]coredata.Type{},
		symbolNames:      map[int]string{},
		symbolNameToID:   map[string]int{},
		vrIDCounter:      gen.VariableCount(),
		vrOriginals:      map[int]vrOrigin{},
		vrInstancesCount: map[int]int{},
		activeClocks:     clocks,
		interpretation:   interp,
		pathCondition:    coredata.BoolTrue(),
	}
}

// Clone deep-copies ec for use by a child search state.
func (ec *ExecutionContext) Clone() *ExecutionContext {
	out := &ExecutionContext{
		symbolCounter:    ec.symbolCounter,
		symbolTypes:      make(map[int]coredata.Type, len(ec.symbolTypes)),
		symbolNames:      make(map[int]string, len(ec.symbolNames)),
		symbolNameToID:   make(map[string]int, len(ec.symbolNameToID)),
		vrIDCounter:      ec.vrIDCounter,
		vrOriginals:      make(map[int]vrOrigin, len(ec.vrOriginals)),
		vrInstancesCount: make(map[int]int, len(ec.vrInstancesCount)),
		activeClocks:     make(map[int]struct{}, len(ec.activeClocks)),
		interpretation:   make(map[int]map[int]coredata.TDGeneric, len(ec.interpretation)),
		pathCondition:    ec.pathCondition,
	}
	for k, v := range ec.symbolTypes {
		out.symbolTypes[k] = v
	}
	for k, v := range ec.symbolNames {
		out.symbolNames[k] = v
	}
	for k, v := range ec.symbolNameToID {
		out.symbolNameToID[k] = v
	}
	for k, v := range ec.vrOriginals {
		out.vrOriginals[k] = v
	}
	for k, v := range ec.vrInstancesCount {
		out.vrInstancesCount[k] = v
	}
	for k := range ec.activeClocks {
		out.activeClocks[k] = struct{}{}
	}
	for lf, m := range ec.interpretation {
		cp := make(map[int]coredata.TDGeneric, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out.interpretation[lf] = cp
	}
	return out
}

func (ec *ExecutionContext) PathCondition() coredata.TDBool        { return ec.pathCondition }
func (ec *ExecutionContext) SetPathCondition(pc coredata.TDBool)   { ec.pathCondition = pc }

func (ec *ExecutionContext) LifelineInterpretation(lfID int) (map[int]coredata.TDGeneric, bool) {
	m, ok := ec.interpretation[lfID]
	return m, ok
}

func (ec *ExecutionContext) SetLifelineInterpretation(lfID int, m map[int]coredata.TDGeneric) {
	ec.interpretation[lfID] = m
}

func (ec *ExecutionContext) ActiveClocks() map[int]struct{} { return ec.activeClocks }

func (ec *ExecutionContext) VariableCount() int { return ec.vrIDCounter }

// VariableName resolves vrID to a fully-qualified name: the base
// variable's own name, or "<parent>_<instance>" for a scope-created
// instance.
func (ec *ExecutionContext) VariableName(gen *GeneralContext, vrID int) (string, error) {
	if vrID < gen.VariableCount() {
		return gen.VariableName(vrID)
	}
	origin, ok := ec.vrOriginals[vrID]
	if !ok {
		return "", herrors.New(herrors.KindUnknownVariable, "no scope-instantiated variable with id %d", vrID)
	}
	parentName, err := gen.VariableName(origin.parentVrID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d", parentName, origin.instance), nil
}

func (ec *ExecutionContext) VariableType(gen *GeneralContext, vrID int) (coredata.Type, error) {
	if vrID < gen.VariableCount() {
		return gen.VariableType(vrID)
	}
	origin, ok := ec.vrOriginals[vrID]
	if !ok {
		return "", herrors.New(herrors.KindUnknownVariable, "no scope-instantiated variable with id %d", vrID)
	}
	return gen.VariableType(origin.parentVrID)
}

func (ec *ExecutionContext) IsClock(gen *GeneralContext, vrID int) (bool, error) {
	if vrID < gen.VariableCount() {
		return gen.IsClock(vrID), nil
	}
	origin, ok := ec.vrOriginals[vrID]
	if !ok {
		return false, herrors.New(herrors.KindUnknownVariable, "no scope-instantiated variable with id %d", vrID)
	}
	return gen.IsClock(origin.parentVrID), nil
}

// AddSymbol allocates a fresh evaluator symbol id with its wire fqn
// and type, returning the new id (spec §3 symbol_counter/symbol_types/symbol_names).
func (ec *ExecutionContext) AddSymbol(fqn string, typ coredata.Type) int {
	id := ec.symbolCounter
	ec.symbolCounter++
	ec.symbolNames[id] = fqn
	ec.symbolNameToID[fqn] = id
	ec.symbolTypes[id] = typ
	return id
}

func (ec *ExecutionContext) SymbolName(id int) (string, error) {
	name, ok := ec.symbolNames[id]
	if !ok {
		return "", herrors.New(herrors.KindUnknownSymbol, "no symbol with id %d", id)
	}
	return name, nil
}

func (ec *ExecutionContext) SymbolType(id int) (coredata.Type, error) {
	typ, ok := ec.symbolTypes[id]
	if !ok {
		return "", herrors.New(herrors.KindUnknownSymbol, "no symbol with id %d", id)
	}
	return typ, nil
}

func (ec *ExecutionContext) SymbolIDByName(fqn string) (int, error) {
	id, ok := ec.symbolNameToID[fqn]
	if !ok {
		return 0, herrors.New(herrors.KindUnknownSymbol, "no symbol named %q", fqn)
	}
	return id, nil
}

func (ec *ExecutionContext) createVariableInstance(parentVrID int) int {
	instance, ok := ec.vrInstancesCount[parentVrID]
	if !ok {
		instance = 1
	}
	ec.vrInstancesCount[parentVrID] = instance + 1
	newID := ec.vrIDCounter
	ec.vrIDCounter++
	ec.vrOriginals[newID] = vrOrigin{parentVrID: parentVrID, instance: instance}
	return newID
}

// OpenScope is open_scope() of spec §3/§9: allocates a fresh
// variable instance for every v in scope, grows active_clocks for
// clock variables, and returns the body with those ids remapped.
// Spec §8 testable property: vr_instances_count[v] increases by 1 and
// the new id is >= the prior vr_id_counter; after rewriting, no
// occurrence of a pre-mapped id for v ∈ Vs remains.
func (ec *ExecutionContext) OpenScope(gen *GeneralContext, scope []int, body interaction.Interaction) (interaction.Interaction, error) {
	mapping := map[int]int{}
	for _, vrID := range scope {
		newID := ec.createVariableInstance(vrID)
		mapping[vrID] = newID
		isClock, err := ec.IsClock(gen, vrID)
		if err != nil {
			return interaction.Interaction{}, err
		}
		if isClock {
			ec.activeClocks[newID] = struct{}{}
		}
	}
	return body.Remap(mapping), nil
}
