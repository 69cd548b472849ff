package hlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/trace"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// colorLevelOnce/colorLevelVal cache terminal color support detection
// the same way the teacher's builtins_term.go does, so a TextLogger
// writing to a piped file degrades to plain text automatically.
var (
	colorLevelOnce sync.Once
	colorLevelVal  int
)

func detectColorLevel(w io.Writer) int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return 0
	}
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return 0
	}
	if os.Getenv("TERM") == "dumb" {
		return 0
	}
	return 1
}

func getColorLevel(w io.Writer) int {
	colorLevelOnce.Do(func() { colorLevelVal = detectColorLevel(w) })
	return colorLevelVal
}

func ansiWrap(w io.Writer, code, s string) string {
	if getColorLevel(w) == 0 {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// TextLogger is the human-readable hlog.Logger: one line per event,
// optionally colorized. Grounded on original_source/src/process/log.rs's
// TextProcessLogger (same six events) and on the teacher's
// internal/evaluator/builtins_term.go ANSI-detection pattern.
type TextLogger struct {
	out io.Writer
}

func NewTextLogger(out io.Writer) *TextLogger { return &TextLogger{out: out} }

func (l *TextLogger) green(s string) string  { return ansiWrap(l.out, "32", s) }
func (l *TextLogger) red(s string) string    { return ansiWrap(l.out, "31", s) }
func (l *TextLogger) yellow(s string) string { return ansiWrap(l.out, "33", s) }
func (l *TextLogger) cyan(s string) string   { return ansiWrap(l.out, "36", s) }

func (l *TextLogger) LogInit(gen *hcontext.GeneralContext, i interaction.Interaction, ec *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	if remainingMultiTrace != nil {
		fmt.Fprintf(l.out, "%s analysing against a multi-trace of length %d\n", l.cyan("[init]"), remainingMultiTrace.Length())
		return
	}
	fmt.Fprintf(l.out, "%s exploring\n", l.cyan("[init]"))
}

func (l *TextLogger) LogTerm(optionsAsStrings []string) {
	fmt.Fprintf(l.out, "%s %s\n", l.cyan("[term]"), strings.Join(optionsAsStrings, " "))
}

func (l *TextLogger) LogExecution(gen *hcontext.GeneralContext, parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction, newInteraction interaction.Interaction, newExeCtx *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	spec, _ := gen.MessageSpec(modelAction.MsID)
	kind := "?"
	switch modelAction.ActKind {
	case action.Emission:
		kind = "!"
	case action.Reception:
		kind = "?"
	}
	fmt.Fprintf(l.out, "%s #%d -> #%d at %s : %s %s%s\n",
		l.green("[exec]"), parentStateID, newStateID, pos, lfName, kind, spec.Name)
}

func (l *TextLogger) LogVerdict(parentStateID uint32, v verdict.Coverage) {
	color := l.yellow
	switch v {
	case verdict.Cov:
		color = l.green
	case verdict.Out, verdict.LackObs:
		color = l.red
	}
	fmt.Fprintf(l.out, "%s #%d : %s\n", l.cyan("[verdict]"), parentStateID, color(v.String()))
}

func (l *TextLogger) LogFiltered(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, modelAction action.ObservableAction, elim FilterElimination) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	fmt.Fprintf(l.out, "%s #%d -> #%d at %s : %s (%s)\n",
		l.yellow("[filtered]"), parentStateID, newStateID, pos, lfName, elim)
}

func (l *TextLogger) LogUnsat(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	fmt.Fprintf(l.out, "%s #%d -> #%d at %s : %s\n",
		l.red("[unsat]"), parentStateID, newStateID, pos, lfName)
}

// displayGeneric renders a TDGeneric's literal value for log lines,
// falling back to its type tag for compound/variable terms where
// there is no single literal to show.
func displayGeneric(g coredata.TDGeneric) string {
	switch g.Type() {
	case coredata.TBool:
		b := g.AsBool()
		if b.IsTrue() {
			return "true"
		}
		if b.IsFalse() {
			return "false"
		}
	case coredata.TInt:
		n := g.AsInt()
		if n.IsValue() {
			return fmt.Sprintf("%d", n.IntVal())
		}
	case coredata.TFloat:
		n := g.AsFloat()
		if n.IsValue() {
			return fmt.Sprintf("%g", n.FloatVal())
		}
	case coredata.TString:
		s := g.AsString()
		if s.IsValue() {
			return s.Value()
		}
	}
	return fmt.Sprintf("<%s expr>", g.Type())
}
