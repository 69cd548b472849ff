package interaction

import (
	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/herrors"
)

// ScheduleKind is the schedule operator a Loop repeats its body
// under: strict, seq, or par (spec §3).
type ScheduleKind int

const (
	ScheduleStrict ScheduleKind = iota
	ScheduleSeq
	SchedulePar
)

type nodeTag int

const (
	nodeEmpty nodeTag = iota
	nodeAction
	nodeStrict
	nodeSeq
	nodeAlt
	nodePar
	nodeLoop
	nodeScope
)

// Interaction is the immutable value-tree term algebra
// `I ::= ∅ | a | I⋅I | I;I | I+I | I∥I | loop_k(I) | scope(Vs,I)`.
// Trees are pure values: rewriting (Substitute, ShapeExecute,
// remapping) always returns a fresh tree, never mutates in place.
type Interaction struct {
	tag      nodeTag
	act      action.ObservableAction
	left     *Interaction
	right    *Interaction
	loopKind ScheduleKind
	scopeVs  []int
}

func Empty() Interaction { return Interaction{tag: nodeEmpty} }

func Action(a action.ObservableAction) Interaction {
	return Interaction{tag: nodeAction, act: a}
}

func Strict(i1, i2 Interaction) Interaction {
	return Interaction{tag: nodeStrict, left: &i1, right: &i2}
}

func Seq(i1, i2 Interaction) Interaction {
	return Interaction{tag: nodeSeq, left: &i1, right: &i2}
}

func Alt(i1, i2 Interaction) Interaction {
	return Interaction{tag: nodeAlt, left: &i1, right: &i2}
}

func Par(i1, i2 Interaction) Interaction {
	return Interaction{tag: nodePar, left: &i1, right: &i2}
}

func Loop(kind ScheduleKind, body Interaction) Interaction {
	return Interaction{tag: nodeLoop, loopKind: kind, left: &body}
}

func Scope(vs []int, body Interaction) Interaction {
	return Interaction{tag: nodeScope, scopeVs: append([]int(nil), vs...), left: &body}
}

func (i Interaction) IsEmpty() bool  { return i.tag == nodeEmpty }
func (i Interaction) IsAction() bool { return i.tag == nodeAction }
func (i Interaction) IsStrict() bool { return i.tag == nodeStrict }
func (i Interaction) IsSeq() bool    { return i.tag == nodeSeq }
func (i Interaction) IsAlt() bool    { return i.tag == nodeAlt }
func (i Interaction) IsPar() bool    { return i.tag == nodePar }
func (i Interaction) IsLoop() bool   { return i.tag == nodeLoop }
func (i Interaction) IsScope() bool  { return i.tag == nodeScope }

// Left / Right return the binary-node operands; valid only for the
// corresponding tag.
func (i Interaction) Left() Interaction  { return *i.left }
func (i Interaction) Right() Interaction { return *i.right }

// Body is the sole child of a Loop or Scope node.
func (i Interaction) Body() Interaction { return *i.left }

func (i Interaction) LoopKind() ScheduleKind { return i.loopKind }
func (i Interaction) ScopeVars() []int       { return append([]int(nil), i.scopeVs...) }

// AsAction returns the leaf action; valid only when IsAction().
func (i Interaction) AsAction() action.ObservableAction { return i.act }

// AsLeaf is as_leaf() of spec §4.2: it requires i to be an Action node.
func (i Interaction) AsLeaf() (action.ObservableAction, error) {
	if i.tag != nodeAction {
		return action.ObservableAction{}, herrors.New(herrors.KindPosition, "as_leaf called on a non-action interaction node")
	}
	return i.act, nil
}

// GetSubInteraction is get_sub_interaction() of spec §4.2: descends
// along p and returns the sub-tree found there.
func (i Interaction) GetSubInteraction(p Position) (Interaction, error) {
	if p.IsEpsilon() {
		return i, nil
	}
	step, rest := p.Head()
	switch step {
	case StepLeft:
		switch i.tag {
		case nodeSeq, nodeStrict, nodeAlt, nodePar, nodeLoop, nodeScope:
			return i.left.GetSubInteraction(rest)
		}
	case StepRight:
		switch i.tag {
		case nodeSeq, nodeStrict, nodeAlt, nodePar:
			return i.right.GetSubInteraction(rest)
		}
	}
	return Interaction{}, herrors.New(herrors.KindPosition, "position %s does not address a valid sub-interaction", p)
}

// ExpressEmpty is express_empty() of spec §4.2.
func (i Interaction) ExpressEmpty() bool {
	switch i.tag {
	case nodeEmpty:
		return true
	case nodeAction:
		return false
	case nodeStrict, nodeSeq, nodePar:
		return i.left.ExpressEmpty() && i.right.ExpressEmpty()
	case nodeAlt:
		return i.left.ExpressEmpty() || i.right.ExpressEmpty()
	case nodeLoop:
		return true
	case nodeScope:
		return i.left.ExpressEmpty()
	}
	return false
}

// Avoids is avoids() of spec §4.2: true iff no terminal execution of
// i touches lifeline lf.
func (i Interaction) Avoids(lf int) bool {
	switch i.tag {
	case nodeEmpty:
		return true
	case nodeAction:
		_, touched := i.act.OccupationAfter()[lf]
		return !touched
	case nodeStrict, nodeSeq, nodePar:
		return i.left.Avoids(lf) && i.right.Avoids(lf)
	case nodeAlt:
		return i.left.Avoids(lf) || i.right.Avoids(lf)
	case nodeLoop:
		return true
	case nodeScope:
		return i.left.Avoids(lf)
	}
	return true
}

// LoopDepth is loop_depth() of spec §4.2.
func (i Interaction) LoopDepth() int {
	switch i.tag {
	case nodeEmpty, nodeAction:
		return 0
	case nodeStrict, nodeSeq, nodeAlt, nodePar:
		l, r := i.left.LoopDepth(), i.right.LoopDepth()
		if l > r {
			return l
		}
		return r
	case nodeLoop:
		return 1 + i.left.LoopDepth()
	case nodeScope:
		return i.left.LoopDepth()
	}
	return 0
}

// LoopDepthAt is loop_depth_at() of spec §4.2: the count of Loop
// nodes crossed while descending to position p.
func (i Interaction) LoopDepthAt(p Position) (int, error) {
	if p.IsEpsilon() {
		return 0, nil
	}
	step, rest := p.Head()
	switch step {
	case StepLeft:
		switch i.tag {
		case nodeAlt, nodeStrict, nodeSeq, nodePar, nodeScope:
			return i.left.LoopDepthAt(rest)
		case nodeLoop:
			sub, err := i.left.LoopDepthAt(rest)
			if err != nil {
				return 0, err
			}
			return 1 + sub, nil
		}
	case StepRight:
		switch i.tag {
		case nodeAlt, nodeStrict, nodeSeq, nodePar:
			return i.right.LoopDepthAt(rest)
		}
	}
	return 0, herrors.New(herrors.KindPosition, "position %s does not address a valid sub-interaction", p)
}
