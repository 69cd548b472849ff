package interaction

import "github.com/hibou-sem/hibou/internal/herrors"

// Substitute is substitute() of spec §4.2: replace the sub-tree at
// position p with sub. `Strict`/`Seq`/`Par` normalise to the
// surviving branch when the other branch becomes Empty, and
// `Loop`/`Scope` collapse to Empty when their body does; `Alt`
// deliberately does NOT normalise (spec §9 open question, preserved
// as-is rather than silently unified).
func (i Interaction) Substitute(sub Interaction, p Position) (Interaction, error) {
	if p.IsEpsilon() {
		return sub, nil
	}
	step, rest := p.Head()
	switch step {
	case StepLeft:
		switch i.tag {
		case nodeStrict:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.right, nil
			}
			return Strict(updated, *i.right), nil
		case nodeSeq:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.right, nil
			}
			return Seq(updated, *i.right), nil
		case nodeAlt:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			return Alt(updated, *i.right), nil
		case nodePar:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.right, nil
			}
			return Par(updated, *i.right), nil
		case nodeLoop:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return Empty(), nil
			}
			return Loop(i.loopKind, updated), nil
		case nodeScope:
			updated, err := i.left.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return Empty(), nil
			}
			return Scope(i.scopeVs, updated), nil
		}
	case StepRight:
		switch i.tag {
		case nodeStrict:
			updated, err := i.right.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.left, nil
			}
			return Strict(*i.left, updated), nil
		case nodeSeq:
			updated, err := i.right.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.left, nil
			}
			return Seq(*i.left, updated), nil
		case nodeAlt:
			updated, err := i.right.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			return Alt(*i.left, updated), nil
		case nodePar:
			updated, err := i.right.Substitute(sub, rest)
			if err != nil {
				return Interaction{}, err
			}
			if updated.IsEmpty() {
				return *i.left, nil
			}
			return Par(*i.left, updated), nil
		}
	}
	return Interaction{}, herrors.New(herrors.KindPosition, "cannot substitute on a position that does not exist within the interaction")
}

// DecorateWithInitialPositions is decorate_with_initial_positions() of
// spec §4.2: stamps every action leaf with its path address, used to
// key the evaluator's runnable fqns.
func (i Interaction) DecorateWithInitialPositions(prefix []int) Interaction {
	switch i.tag {
	case nodeEmpty:
		return Empty()
	case nodeAction:
		return Action(i.act.WithOriginalPosition(prefix))
	case nodeStrict:
		return Strict(i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)),
			i.right.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 2)))
	case nodeSeq:
		return Seq(i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)),
			i.right.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 2)))
	case nodeAlt:
		return Alt(i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)),
			i.right.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 2)))
	case nodePar:
		return Par(i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)),
			i.right.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 2)))
	case nodeLoop:
		return Loop(i.loopKind, i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)))
	case nodeScope:
		return Scope(i.scopeVs, i.left.DecorateWithInitialPositions(append(append([]int(nil), prefix...), 1)))
	}
	return i
}

// Remap applies a variable-renaming map structurally over the whole
// tree, including element-wise remapping of Scope variable id lists
// (spec §4.1).
func (i Interaction) Remap(mapping map[int]int) Interaction {
	switch i.tag {
	case nodeEmpty:
		return Empty()
	case nodeAction:
		return Action(i.act.Remap(mapping))
	case nodeStrict:
		return Strict(i.left.Remap(mapping), i.right.Remap(mapping))
	case nodeSeq:
		return Seq(i.left.Remap(mapping), i.right.Remap(mapping))
	case nodeAlt:
		return Alt(i.left.Remap(mapping), i.right.Remap(mapping))
	case nodePar:
		return Par(i.left.Remap(mapping), i.right.Remap(mapping))
	case nodeLoop:
		return Loop(i.loopKind, i.left.Remap(mapping))
	case nodeScope:
		remapped := make([]int, len(i.scopeVs))
		for idx, v := range i.scopeVs {
			if to, ok := mapping[v]; ok {
				remapped[idx] = to
			} else {
				remapped[idx] = v
			}
		}
		return Scope(remapped, i.left.Remap(mapping))
	}
	return i
}
