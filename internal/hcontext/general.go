// Package hcontext implements the General and Execution contexts of
// spec §3/§4 (component C3): the append-only static declarations
// shared by every search state, and the mutable per-state symbol/
// variable-instance/interpretation/path-condition bookkeeping that
// Scope opening and the evaluator adapter mutate.
package hcontext

import (
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/herrors"
)

// MessageSpec is a declared message's name and parameter signature
// (type, optional name per parameter).
type MessageSpec struct {
	Name   string
	Params []ParamSpec
}

type ParamSpec struct {
	Type coredata.Type
	Name string // empty when unnamed
}

// GeneralContext holds the append-only registries parsed out of an
// .hsf file's @lifeline/@message/@variable sections: lifeline and
// group names, message signatures, variable names/types, and the set
// of variables that are clocks. Name uniqueness across lifelines and
// groups is enforced on insertion. Immutable after setup (spec §5);
// safe to share, unsynchronised, across every search state.
type GeneralContext struct {
	lfGroups []string
	lfNames  []string
	msSpecs  []MessageSpec
	vrNames  []string
	vrTypes  []coredata.Type
	clocks   map[int]struct{}
}

func NewGeneralContext() *GeneralContext {
	return &GeneralContext{clocks: map[int]struct{}{}}
}

func (g *GeneralContext) AddAsClock(vrID int) { g.clocks[vrID] = struct{}{} }

// AddLifelineGroup appends a new group name, failing if it collides
// with an existing lifeline name.
func (g *GeneralContext) AddLifelineGroup(name string) (int, error) {
	if _, ok := g.LifelineID(name); ok {
		return 0, herrors.New(herrors.KindUnknownGroup, "cannot add group %q: a lifeline with that name already exists", name)
	}
	if id, ok := g.groupID(name); ok {
		return id, nil
	}
	g.lfGroups = append(g.lfGroups, name)
	return len(g.lfGroups) - 1, nil
}

func (g *GeneralContext) AddLifeline(name string) (int, error) {
	if _, ok := g.groupID(name); ok {
		return 0, herrors.New(herrors.KindUnknownLifeline, "cannot add lifeline %q: a group with that name already exists", name)
	}
	if id, ok := g.LifelineID(name); ok {
		return id, nil
	}
	g.lfNames = append(g.lfNames, name)
	return len(g.lfNames) - 1, nil
}

func (g *GeneralContext) AddMessage(name string, spec []ParamSpec) (int, error) {
	for _, ms := range g.msSpecs {
		if ms.Name == name {
			return 0, herrors.New(herrors.KindUnknownMessage, "duplicate message declaration %q", name)
		}
	}
	g.msSpecs = append(g.msSpecs, MessageSpec{Name: name, Params: spec})
	return len(g.msSpecs) - 1, nil
}

func (g *GeneralContext) AddVariable(name string, typ coredata.Type) int {
	g.vrNames = append(g.vrNames, name)
	g.vrTypes = append(g.vrTypes, typ)
	return len(g.vrNames) - 1
}

func (g *GeneralContext) groupID(name string) (int, bool) {
	for i, n := range g.lfGroups {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (g *GeneralContext) LifelineID(name string) (int, bool) {
	for i, n := range g.lfNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (g *GeneralContext) VariableID(name string) (int, bool) {
	for i, n := range g.vrNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (g *GeneralContext) MessageID(name string) (int, bool) {
	for i, ms := range g.msSpecs {
		if ms.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (g *GeneralContext) IsClock(vrID int) bool {
	_, ok := g.clocks[vrID]
	return ok
}

func (g *GeneralContext) LifelineCount() int { return len(g.lfNames) }
func (g *GeneralContext) MessageCount() int  { return len(g.msSpecs) }
func (g *GeneralContext) VariableCount() int { return len(g.vrNames) }

func (g *GeneralContext) LifelineName(id int) (string, error) {
	if id < 0 || id >= len(g.lfNames) {
		return "", herrors.New(herrors.KindUnknownLifeline, "no lifeline with id %d", id)
	}
	return g.lfNames[id], nil
}

func (g *GeneralContext) MessageSpec(msID int) (MessageSpec, error) {
	if msID < 0 || msID >= len(g.msSpecs) {
		return MessageSpec{}, herrors.New(herrors.KindUnknownMessage, "no message with id %d", msID)
	}
	return g.msSpecs[msID], nil
}

func (g *GeneralContext) ParamType(msID, prID int) (coredata.Type, error) {
	spec, err := g.MessageSpec(msID)
	if err != nil {
		return "", err
	}
	if prID < 0 || prID >= len(spec.Params) {
		return "", herrors.New(herrors.KindUnknownParameter, "message %q has no parameter %d", spec.Name, prID)
	}
	return spec.Params[prID].Type, nil
}

func (g *GeneralContext) VariableName(vrID int) (string, error) {
	if vrID < 0 || vrID >= len(g.vrNames) {
		return "", herrors.New(herrors.KindUnknownVariable, "no base variable with id %d", vrID)
	}
	return g.vrNames[vrID], nil
}

func (g *GeneralContext) VariableType(vrID int) (coredata.Type, error) {
	if vrID < 0 || vrID >= len(g.vrTypes) {
		return "", herrors.New(herrors.KindUnknownVariable, "no base variable with id %d", vrID)
	}
	return g.vrTypes[vrID], nil
}

// Arity is the number of declared parameters of message msID.
func (g *GeneralContext) Arity(msID int) (int, error) {
	spec, err := g.MessageSpec(msID)
	if err != nil {
		return 0, err
	}
	return len(spec.Params), nil
}
