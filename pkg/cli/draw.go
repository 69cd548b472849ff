// Package cli implements the hibou command-line surface (spec §6):
// draw, explore, and analyze, each a thin wiring layer over
// internal/fromtext, internal/evaluator, and internal/process.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
)

// RenderDOT renders root as a Graphviz DOT digraph: one node per tree
// position, edges from each operator node to its children. Structure
// only — no layout or colour, full diagram rendering being an
// explicit Non-goal (spec §1/§6); this is enough to make
// internal/interaction's shape visually inspectable with any `dot`
// renderer the caller has on hand.
func RenderDOT(gen *hcontext.GeneralContext, root interaction.Interaction) (string, error) {
	var b strings.Builder
	b.WriteString("digraph interaction {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	counter := 0
	if err := renderNode(&b, gen, root, &counter); err != nil {
		return "", err
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func renderNode(b *strings.Builder, gen *hcontext.GeneralContext, i interaction.Interaction, counter *int) error {
	id := *counter
	*counter++
	nodeName := "n" + strconv.Itoa(id)

	switch {
	case i.IsEmpty():
		fmt.Fprintf(b, "  %s [label=%q];\n", nodeName, "empty")
		return nil
	case i.IsAction():
		label, err := actionLabel(gen, i.AsAction())
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "  %s [label=%q, shape=ellipse];\n", nodeName, label)
		return nil
	case i.IsStrict() || i.IsSeq() || i.IsAlt() || i.IsPar():
		label := binaryLabel(i)
		fmt.Fprintf(b, "  %s [label=%q];\n", nodeName, label)
		leftName, rightName := "n"+strconv.Itoa(*counter), ""
		if err := renderNode(b, gen, i.Left(), counter); err != nil {
			return err
		}
		rightName = "n" + strconv.Itoa(*counter)
		if err := renderNode(b, gen, i.Right(), counter); err != nil {
			return err
		}
		fmt.Fprintf(b, "  %s -> %s;\n", nodeName, leftName)
		fmt.Fprintf(b, "  %s -> %s;\n", nodeName, rightName)
		return nil
	case i.IsLoop():
		fmt.Fprintf(b, "  %s [label=%q];\n", nodeName, loopLabel(i))
		childName := "n" + strconv.Itoa(*counter)
		if err := renderNode(b, gen, i.Body(), counter); err != nil {
			return err
		}
		fmt.Fprintf(b, "  %s -> %s;\n", nodeName, childName)
		return nil
	case i.IsScope():
		fmt.Fprintf(b, "  %s [label=%q];\n", nodeName, scopeLabel(gen, i))
		childName := "n" + strconv.Itoa(*counter)
		if err := renderNode(b, gen, i.Body(), counter); err != nil {
			return err
		}
		fmt.Fprintf(b, "  %s -> %s;\n", nodeName, childName)
		return nil
	}
	return fmt.Errorf("draw: unrecognised interaction node")
}

func binaryLabel(i interaction.Interaction) string {
	switch {
	case i.IsStrict():
		return "strict"
	case i.IsSeq():
		return "seq"
	case i.IsAlt():
		return "alt"
	case i.IsPar():
		return "par"
	}
	return "?"
}

func loopLabel(i interaction.Interaction) string {
	switch i.LoopKind() {
	case interaction.ScheduleStrict:
		return "loop_strict"
	case interaction.ScheduleSeq:
		return "loop_seq"
	case interaction.SchedulePar:
		return "loop_par"
	}
	return "loop"
}

func scopeLabel(gen *hcontext.GeneralContext, i interaction.Interaction) string {
	var names []string
	for _, vrID := range i.ScopeVars() {
		name, err := gen.VariableName(vrID)
		if err != nil {
			name = strconv.Itoa(vrID)
		}
		names = append(names, name)
	}
	return "scope{" + strings.Join(names, ",") + "}"
}

func actionLabel(gen *hcontext.GeneralContext, a action.ObservableAction) (string, error) {
	lfName, err := gen.LifelineName(a.Main.LfID)
	if err != nil {
		return "", err
	}
	ms, err := gen.MessageSpec(a.MsID)
	if err != nil {
		return "", err
	}
	if a.ActKind == action.Reception {
		return fmt.Sprintf("%s?%s(...)", lfName, ms.Name), nil
	}
	var targets []string
	for _, t := range a.EmissionTargets {
		tName, err := gen.LifelineName(t.LfID)
		if err != nil {
			return "", err
		}
		targets = append(targets, tName)
	}
	return fmt.Sprintf("%s!%s(...)->%s", lfName, ms.Name, strings.Join(targets, ",")), nil
}
