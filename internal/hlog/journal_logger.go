package hlog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hibou-sem/hibou/internal/action"
	"github.com/hibou-sem/hibou/internal/hcontext"
	"github.com/hibou-sem/hibou/internal/interaction"
	"github.com/hibou-sem/hibou/internal/trace"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// JournalLogger persists every event to a SQLite file so a run can be
// replayed or queried after the fact, independent of whatever
// TextLogger also ran alongside it. Grounded on original_source/src/
// process/log.rs's JSON file logger for "persist every event",
// adapted to a queryable store using the driver the teacher's go.mod
// already carries (modernc.org/sqlite, a pure-Go driver, so no cgo
// toolchain is pulled into the build).
type JournalLogger struct {
	db *sql.DB
}

func NewJournalLogger(path string) (*JournalLogger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	parent_state INTEGER,
	new_state INTEGER,
	position TEXT,
	lifeline TEXT,
	message TEXT,
	detail TEXT
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return &JournalLogger{db: db}, nil
}

func (l *JournalLogger) Close() error { return l.db.Close() }

func actKindLabel(k action.Kind) string {
	if k == action.Emission {
		return "emission"
	}
	return "reception"
}

func (l *JournalLogger) insert(kind string, parentState, newState *uint32, pos, lifeline, message, detail string) {
	l.db.Exec(
		`INSERT INTO events (kind, parent_state, new_state, position, lifeline, message, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		kind, parentState, newState, pos, lifeline, message, detail,
	)
}

func (l *JournalLogger) LogInit(gen *hcontext.GeneralContext, i interaction.Interaction, ec *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	detail := "explore"
	if remainingMultiTrace != nil {
		detail = fmt.Sprintf("analyze len=%d", remainingMultiTrace.Length())
	}
	l.insert("init", nil, nil, "", "", "", detail)
}

func (l *JournalLogger) LogTerm(optionsAsStrings []string) {
	detail := ""
	for i, o := range optionsAsStrings {
		if i > 0 {
			detail += " "
		}
		detail += o
	}
	l.insert("term", nil, nil, "", "", "", detail)
}

func (l *JournalLogger) LogExecution(gen *hcontext.GeneralContext, parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction, newInteraction interaction.Interaction, newExeCtx *hcontext.ExecutionContext, remainingMultiTrace *trace.MultiTrace) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	spec, _ := gen.MessageSpec(modelAction.MsID)
	l.insert("exec", &parentStateID, &newStateID, pos.String(), lfName, spec.Name, actKindLabel(modelAction.ActKind))
}

func (l *JournalLogger) LogVerdict(parentStateID uint32, v verdict.Coverage) {
	l.insert("verdict", &parentStateID, nil, "", "", "", v.String())
}

func (l *JournalLogger) LogFiltered(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, modelAction action.ObservableAction, elim FilterElimination) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	l.insert("filtered", &parentStateID, &newStateID, pos.String(), lfName, "", elim.String())
}

func (l *JournalLogger) LogUnsat(gen *hcontext.GeneralContext, ec *hcontext.ExecutionContext, parentStateID, newStateID uint32, pos interaction.Position, tr *trace.Action, modelAction action.ObservableAction) {
	lfName, _ := gen.LifelineName(modelAction.Main.LfID)
	l.insert("unsat", &parentStateID, &newStateID, pos.String(), lfName, "", "")
}
