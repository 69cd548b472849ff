package cli

import (
	"fmt"
	"os"

	"github.com/hibou-sem/hibou/internal/config"
	"github.com/hibou-sem/hibou/internal/hlog"
)

// buildLoggers turns a run's resolved LoggerSpec list into concrete
// hlog.Logger values: a TextLogger to stdout is always present (the
// teacher's CLI tools likewise always narrate to the terminal), and
// each requested graphic(...) logger — the only logger kind the
// .hsf grammar accepts — is substituted by a JournalLogger against
// journalPath, since full diagram rendering is an explicit Non-goal
// (spec §1/§6). Returns the loggers and a closer to flush/close any
// opened journal file.
func buildLoggers(opts config.RunOptions, journalPath string) ([]hlog.Logger, func() error, error) {
	loggers := []hlog.Logger{hlog.NewTextLogger(os.Stdout)}
	closer := func() error { return nil }

	for _, spec := range opts.Loggers {
		if spec.Kind != config.LoggerGraphic {
			continue
		}
		fmt.Fprintf(os.Stderr, "warning: graphic logger requested but diagram rendering is out of scope; logging to %s instead\n", journalPath)
		jl, err := hlog.NewJournalLogger(journalPath)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, jl)
		closer = jl.Close
	}
	return loggers, closer, nil
}
