package semantics

import "github.com/hibou-sem/hibou/internal/interaction"

// Prune is prune() of spec §4.3: remove lifeline lf's contribution
// from Alt and Loop branches ahead of a Seq's right-hand execution,
// so a branch that lf never reaches stays available while one it does
// reach is eliminated entirely (a Loop touching lf collapses to Empty,
// since no bound on its remaining iterations can be assumed avoided).
func Prune(i interaction.Interaction, lf int) interaction.Interaction {
	switch {
	case i.IsEmpty():
		return interaction.Empty()
	case i.IsAction():
		return i
	case i.IsSeq():
		return interaction.Seq(Prune(i.Left(), lf), Prune(i.Right(), lf))
	case i.IsStrict():
		return interaction.Strict(Prune(i.Left(), lf), Prune(i.Right(), lf))
	case i.IsPar():
		return interaction.Par(Prune(i.Left(), lf), Prune(i.Right(), lf))
	case i.IsAlt():
		i1, i2 := i.Left(), i.Right()
		if i1.Avoids(lf) {
			if i2.Avoids(lf) {
				return interaction.Alt(Prune(i1, lf), Prune(i2, lf))
			}
			return Prune(i1, lf)
		}
		return Prune(i2, lf)
	case i.IsLoop():
		body := i.Body()
		if body.Avoids(lf) {
			return interaction.Loop(i.LoopKind(), Prune(body, lf))
		}
		return interaction.Empty()
	case i.IsScope():
		return interaction.Scope(i.ScopeVars(), Prune(i.Body(), lf))
	}
	return i
}
