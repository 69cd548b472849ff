package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/pkg/cli"
)

const usage = `usage:
  hibou draw <file.hsf> [-o=out.dot]
  hibou explore <file.hsf> [-evaluator=host:port] [-project=hibou.yaml]
  hibou analyze <file.hsf> <file.hxtf> [-evaluator=host:port] [-project=hibou.yaml] [-report=yaml]
`

const defaultEvaluatorAddr = "localhost:50051"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "draw":
		err = runDraw(os.Args[2:])
	case "explore":
		err = runExplore(os.Args[2:])
	case "analyze", "analyse":
		err = runAnalyze(os.Args[2:])
	case "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseFlag extracts "-name=value" from args, returning value and the
// remaining positional args with that flag removed. No flag-parsing
// framework, matching the teacher's manual os.Args switch style.
func parseFlag(args []string, name string) (string, []string) {
	prefix := "-" + name + "="
	var value string
	var rest []string
	for _, a := range args {
		if len(a) > len(prefix) && a[:len(prefix)] == prefix {
			value = a[len(prefix):]
			continue
		}
		rest = append(rest, a)
	}
	return value, rest
}

func runDraw(args []string) error {
	out, args := parseFlag(args, "o")
	if len(args) < 1 {
		return fmt.Errorf("draw: missing <file.hsf>\n%s", usage)
	}
	if out == "" {
		out = config.DefaultDrawOutput
	}
	return cli.RunDraw(cli.DrawArgs{HSFPath: args[0], OutputPath: out})
}

func runExplore(args []string) error {
	evalAddr, args := parseFlag(args, "evaluator")
	project, args := parseFlag(args, "project")
	if len(args) < 1 {
		return fmt.Errorf("explore: missing <file.hsf>\n%s", usage)
	}
	if evalAddr == "" {
		evalAddr = defaultEvaluatorAddr
	}
	return cli.RunExplore(context.Background(), cli.ExploreArgs{
		HSFPath:       args[0],
		EvaluatorAddr: evalAddr,
		ProjectFile:   project,
	})
}

func runAnalyze(args []string) error {
	evalAddr, args := parseFlag(args, "evaluator")
	project, args := parseFlag(args, "project")
	report, args := parseFlag(args, "report")
	if len(args) < 2 {
		return fmt.Errorf("analyze: missing <file.hsf> <file.hxtf>\n%s", usage)
	}
	if evalAddr == "" {
		evalAddr = defaultEvaluatorAddr
	}
	return cli.RunAnalyze(context.Background(), cli.AnalyzeArgs{
		HSFPath:       args[0],
		HXTFPath:      args[1],
		EvaluatorAddr: evalAddr,
		ProjectFile:   project,
		ReportYAML:    report == "yaml",
	})
}
