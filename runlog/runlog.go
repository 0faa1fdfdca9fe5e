// CLAUDE:SUMMARY SQLite-backed run audit: one row per processed issue, retention cleanup, never blocks the pipeline.
// Package runlog records extraction-run statistics in a local SQLite store.
//
// The engine itself never touches storage; callers that want a durable audit
// of what each run saw wire a runlog.Logger next to it. A failing audit store
// never blocks extraction: write errors are logged via slog and swallowed.
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	db, err := runlog.Open("runs.db")
//	logger := runlog.NewLogger(db, nil)
//	logger.LogRun(ctx, res.Stats)
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/gaceta/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_runs (
	run_id           TEXT PRIMARY KEY,
	source_name      TEXT NOT NULL,
	pages_total      INTEGER NOT NULL,
	section_first    INTEGER NOT NULL,
	section_last     INTEGER NOT NULL,
	blocks_seen      INTEGER NOT NULL,
	blocks_dropped   INTEGER NOT NULL,
	blocks_recovered INTEGER NOT NULL,
	records_emitted  INTEGER NOT NULL,
	started_at       INTEGER NOT NULL,
	finished_at      INTEGER NOT NULL,
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extraction_runs_source ON extraction_runs(source_name);
CREATE INDEX IF NOT EXISTS idx_extraction_runs_created ON extraction_runs(created_at);
`

// Open opens (or creates) the run-audit database with the production-safe
// pragmas applied via EXEC and the schema in place.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply runlog schema: %w", err)
	}
	return db, nil
}

// Logger writes run statistics rows.
type Logger struct {
	db  *sql.DB
	log *slog.Logger
}

// NewLogger creates a Logger backed by a database from Open. A nil log
// falls back to slog.Default.
func NewLogger(db *sql.DB, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{db: db, log: log}
}

// LogRun records the statistics of one processed issue. Non-blocking
// contract: errors are logged but do not propagate, so a failing audit
// store never interrupts a batch.
func (l *Logger) LogRun(ctx context.Context, stats engine.Stats) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO extraction_runs (
			run_id, source_name, pages_total, section_first, section_last,
			blocks_seen, blocks_dropped, blocks_recovered, records_emitted,
			started_at, finished_at, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		stats.RunID, stats.SourceName, stats.PagesTotal,
		stats.Section.First, stats.Section.Last,
		stats.BlocksSeen, stats.BlocksDropped, stats.BlocksRecovered,
		stats.RecordsEmitted,
		stats.StartedAt.Unix(), stats.FinishedAt.Unix(), time.Now().Unix())
	if err != nil {
		l.log.Error("runlog write failed", "error", err, "run_id", stats.RunID)
	}
}

// Cleanup deletes run rows older than the retention threshold. days <= 0
// keeps everything.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days)*86400
	if _, err := db.ExecContext(ctx, "DELETE FROM extraction_runs WHERE created_at < ?", cutoff); err != nil {
		return fmt.Errorf("runlog cleanup: %w", err)
	}
	return nil
}
