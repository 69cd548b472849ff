// Package modeltext generates the xlia-flavoured intermediate text a
// run ships to the evaluator once, at the very start of a search, via
// the bootstrap RPC (spec §4.6/§6 "the emitted intermediate text
// follows a fixed naming convention"). Grounded on
// original_source/src/xlia/{model,data,model_initialization,
// xlia_build_name_tools}.rs.
//
// The names this package emits are a separate naming authority from
// internal/evaluator/fqn.go's runtime query/binding keys: fqn.go
// already simplified spec §4.6 step 2's index_for(v) side-channel away
// by folding a scope instance straight into a variable's resolved
// name (see DESIGN.md), so a once-generated declaration text cannot
// know the bounded set of instance names a search will eventually
// mint. This package instead mirrors xlia_build_name_tools.rs's own
// vector/index declaration scheme for the declared text, exactly as
// the original does, while internal/evaluator keeps addressing
// individual RPC calls by its own simpler per-instance fqn. The two
// schemes never need to agree byte-for-byte: the declared text is
// documentation-grade bootstrap material for an external evaluator
// that is itself a black box to this module (spec Non-goals).
package modeltext

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

// actionDiversityName names a leaf action's machine block by its
// relative position within the interaction tree being rendered.
func actionDiversityName(relativePosition []int) string {
	return "action_" + foldPosition(relativePosition)
}

func messageParameterName(gen *hcontext.GeneralContext, msID, prID int) (string, error) {
	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ms_%s_pr_%d", spec.Name, prID), nil
}

func traceMessageParameterName(gen *hcontext.GeneralContext, msID, prID int) (string, error) {
	spec, err := gen.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("trace_ms_%s_pr_%d", spec.Name, prID), nil
}

func variableArrayIndexName(gen *hcontext.GeneralContext, vrID int) (string, error) {
	name, err := gen.VariableName(vrID)
	if err != nil {
		return "", err
	}
	return "index_" + name, nil
}

func variableVectorName(gen *hcontext.GeneralContext, vrID int) (string, error) {
	name, err := gen.VariableName(vrID)
	if err != nil {
		return "", err
	}
	return "lf_var_" + name, nil
}

func variableBaseForNewfreshName(gen *hcontext.GeneralContext, vrID int) (string, error) {
	name, err := gen.VariableName(vrID)
	if err != nil {
		return "", err
	}
	return "var_" + name, nil
}

// variableDiversityName is the array-indexed reference a rendered
// term uses for a base variable: the per-lifeline vector slot
// currently designated by that variable's own index cell.
func variableDiversityName(gen *hcontext.GeneralContext, vrID int) (string, error) {
	vector, err := variableVectorName(gen, vrID)
	if err != nil {
		return "", err
	}
	index, err := variableArrayIndexName(gen, vrID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s[%s]", vector, index), nil
}

func xliaTypeString(t string) string {
	switch t {
	case "Bool":
		return "bool"
	case "Int":
		return "int"
	case "Float":
		return "float"
	case "String":
		return "string"
	}
	return "string"
}
