package cli

import (
	"fmt"

	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/process"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// applyProjectFile layers an optional hibou.yaml project defaults
// file onto opts, called only when the .hsf carried no explicit
// @explore_option/@analyze_option section of its own (spec §6's
// "project defaults, overridden per-file" layering — the .hsf section
// always wins outright when present, rather than being merged field
// by field against the project file).
func applyProjectFile(opts *config.RunOptions, path string) error {
	if path == "" {
		return nil
	}
	pf, err := config.LoadProjectFile(path)
	if err != nil {
		return err
	}
	if pf == nil {
		return nil
	}
	switch pf.Strategy {
	case "":
	case "BFS":
		opts.Strategy = process.BFS
	case "DFS":
		opts.Strategy = process.DFS
	default:
		return fmt.Errorf("hibou.yaml: unknown strategy %q", pf.Strategy)
	}
	switch pf.Temporality {
	case "":
	case "timed":
		opts.Temporality = process.Timed
	case "untimed":
		opts.Temporality = process.UnTimed
	default:
		return fmt.Errorf("hibou.yaml: unknown temporality %q", pf.Temporality)
	}
	switch pf.Goal {
	case "":
	case "pass":
		goal := verdict.Pass
		opts.Goal = &goal
	case "weakpass":
		goal := verdict.WeakPass
		opts.Goal = &goal
	default:
		return fmt.Errorf("hibou.yaml: unknown goal %q", pf.Goal)
	}
	for _, name := range pf.Loggers {
		switch name {
		case "graphic(png)":
			opts.Loggers = append(opts.Loggers, config.LoggerSpec{Kind: config.LoggerGraphic, Format: config.GraphicPNG})
		case "graphic(svg)":
			opts.Loggers = append(opts.Loggers, config.LoggerSpec{Kind: config.LoggerGraphic, Format: config.GraphicSVG})
		default:
			return fmt.Errorf("hibou.yaml: unknown logger %q", name)
		}
	}
	return nil
}
