package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/evaluator"
	"github.com/hibou-sem/hibou/internal/fromtext"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/process"
)

// AnalyzeArgs is the resolved input to RunAnalyze: the .hsf and .hxtf
// paths, the evaluator address, and whether the final verdict should
// also be emitted as YAML (the -report=yaml flag).
type AnalyzeArgs struct {
	HSFPath       string
	HXTFPath      string
	EvaluatorAddr string
	ProjectFile   string
	ReportYAML    bool
}

// RunAnalyze implements `hibou analyze <file.hsf> <file.hxtf>
// [-evaluator=addr] [-report=yaml]` (spec §6): parse both files, dial
// the evaluator, and drive process.Analyze against the recorded
// multi-trace.
func RunAnalyze(ctx context.Context, args AnalyzeArgs) error {
	hsfSrc, err := os.ReadFile(args.HSFPath)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	hsf, err := fromtext.ParseHSF(string(hsfSrc), fromtext.ProcessAnalyze)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	opts := hsf.Options
	if !hsf.OptionsDeclared {
		if err := applyProjectFile(&opts, args.ProjectFile); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}

	hxtfSrc, err := os.ReadFile(args.HXTFPath)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	mt, err := fromtext.ParseHXTF(string(hxtfSrc), hsf.Gen)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	client, err := evaluator.Dial(args.EvaluatorAddr)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	defer client.Close()

	loggers, closeLoggers, err := buildLoggers(opts, config.TrimSpecExt(args.HSFPath)+".journal.sqlite")
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	defer closeLoggers()

	ec := hcontext.NewExecutionContext(hsf.Gen, hsf.Init, 0)
	cfg := process.AnalyzeConfig{
		Gen:         hsf.Gen,
		Client:      client,
		Strategy:    opts.Strategy,
		Temporality: opts.Temporality,
		PreFilters:  opts.PreFilters,
		Priorities:  opts.FrontierPriorities,
		Loggers:     loggers,
		Goal:        opts.Goal,
	}
	finalVerdict, err := process.Analyze(ctx, cfg, hsf.Root, ec, mt)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Println(finalVerdict.String())
	if args.ReportYAML {
		out, err := config.EncodeYAML(opts)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		fmt.Printf("verdict: %s\n%s", finalVerdict.String(), out)
	}
	return nil
}
