// Package journal keeps a local SQLite history of orchestration runs.
// Writes are best-effort by contract: a broken journal must never change
// the outcome of a run, so callers log journal errors and move on.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"evctl/internal/orchestrator"
)

// Journal is the SQLite-backed run history.
type Journal struct {
	db *sql.DB
}

// PhaseRecord is the persisted form of one PhaseResult.
type PhaseRecord struct {
	Phase      string `json:"phase"`
	Outcome    string `json:"outcome"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

// RunRecord is one orchestration run as stored in the journal.
type RunRecord struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Outcome     string // ok, degraded, fatal, cancelled
	WorkerCount int
	Provisioned int
	Failed      int
	Total       int
	Phases      []PhaseRecord
}

// NewRecord flattens a RunReport into its journal form.
func NewRecord(rep *orchestrator.RunReport) RunRecord {
	rec := RunRecord{
		StartedAt:   rep.StartedAt,
		FinishedAt:  rep.FinishedAt,
		Outcome:     runOutcome(rep),
		WorkerCount: rep.WorkerCount,
		Provisioned: rep.Reconcile.Provisioned,
		Failed:      rep.Reconcile.Failed,
		Total:       rep.Reconcile.Total,
	}
	for _, res := range rep.Results {
		pr := PhaseRecord{
			Phase:      res.Phase.String(),
			Outcome:    res.Outcome.String(),
			Message:    res.Message,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			pr.Error = res.Err.Error()
		}
		rec.Phases = append(rec.Phases, pr)
	}
	return rec
}

func runOutcome(rep *orchestrator.RunReport) string {
	switch {
	case rep.Fatal:
		return "fatal"
	case rep.Cancelled:
		return "cancelled"
	case rep.Degraded():
		return "degraded"
	default:
		return "ok"
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER NOT NULL,
	outcome      TEXT    NOT NULL,
	worker_count INTEGER NOT NULL,
	provisioned  INTEGER NOT NULL,
	failed       INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	phases       TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Open opens (and, first time around, creates) the journal at path.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	// WAL keeps concurrent `evctl history` reads from tripping over a
	// run that is writing its record.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring journal: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores one run and returns its journal id.
func (j *Journal) Record(ctx context.Context, rec RunRecord) (int64, error) {
	phases, err := json.Marshal(rec.Phases)
	if err != nil {
		return 0, fmt.Errorf("encoding phase records: %w", err)
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, outcome, worker_count, provisioned, failed, total, phases)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(), rec.Outcome,
		rec.WorkerCount, rec.Provisioned, rec.Failed, rec.Total, string(phases),
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, outcome, worker_count, provisioned, failed, total, phases
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec                   RunRecord
			startedMS, finishedMS int64
			phases                string
		)
		if err := rows.Scan(&rec.ID, &startedMS, &finishedMS, &rec.Outcome,
			&rec.WorkerCount, &rec.Provisioned, &rec.Failed, &rec.Total, &phases); err != nil {
			return nil, fmt.Errorf("scanning run record: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedMS)
		rec.FinishedAt = time.UnixMilli(finishedMS)
		if err := json.Unmarshal([]byte(phases), &rec.Phases); err != nil {
			return nil, fmt.Errorf("decoding phase records for run %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
