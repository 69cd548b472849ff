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

// ExploreArgs is the resolved input to RunExplore: the .hsf path,
// the evaluator's gRPC address, and the optional hibou.yaml path,
// consulted only when the file has no @explore_option section.
type ExploreArgs struct {
	HSFPath        string
	EvaluatorAddr  string
	ProjectFile    string
}

// RunExplore implements `hibou explore <file.hsf> [-evaluator=addr]`
// (spec §6): parse the file, dial the evaluator, and drive
// process.Explore to exhaustion.
func RunExplore(ctx context.Context, args ExploreArgs) error {
	src, err := os.ReadFile(args.HSFPath)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	hsf, err := fromtext.ParseHSF(string(src), fromtext.ProcessExplore)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	opts := hsf.Options
	if !hsf.OptionsDeclared {
		if err := applyProjectFile(&opts, args.ProjectFile); err != nil {
			return fmt.Errorf("explore: %w", err)
		}
	}

	client, err := evaluator.Dial(args.EvaluatorAddr)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	defer client.Close()

	loggers, closeLoggers, err := buildLoggers(opts, config.TrimSpecExt(args.HSFPath)+".journal.sqlite")
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	defer closeLoggers()

	ec := hcontext.NewExecutionContext(hsf.Gen, hsf.Init, 0)
	cfg := process.ExploreConfig{
		Gen:         hsf.Gen,
		Client:      client,
		Strategy:    opts.Strategy,
		Temporality: opts.Temporality,
		PreFilters:  opts.PreFilters,
		Priorities:  opts.FrontierPriorities,
		Loggers:     loggers,
	}
	return process.Explore(ctx, cfg, hsf.Root, ec)
}
