package cli

import (
	"fmt"
	"os"

	"github.com/hibou-sem/hibou/internal/fromtext"
)

// DrawArgs is the resolved input to RunDraw: the .hsf path and the
// DOT output path (config.DefaultDrawOutput when unset).
type DrawArgs struct {
	HSFPath    string
	OutputPath string
}

// RunDraw implements `hibou draw <file.hsf> [-o=out.dot]` (spec §6):
// parse the file and write its interaction tree out as Graphviz DOT.
func RunDraw(args DrawArgs) error {
	src, err := os.ReadFile(args.HSFPath)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	hsf, err := fromtext.ParseHSF(string(src), fromtext.ProcessDraw)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	dot, err := RenderDOT(hsf.Gen, hsf.Root)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := os.WriteFile(args.OutputPath, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}
