// Package postgres persists battery runs so verdicts can be compared across
// transcription revisions. The ledger is optional; the battery runs fine
// without a database.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"voynstat/domain/core"
	"voynstat/domain/report"
	apperrors "voynstat/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS battery_runs (
	run_id TEXT PRIMARY KEY,
	corpus_fingerprint TEXT NOT NULL,
	token_count INTEGER NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS probe_outcomes (
	run_id TEXT NOT NULL REFERENCES battery_runs(run_id),
	probe TEXT NOT NULL,
	verdict TEXT NOT NULL,
	report JSONB NOT NULL,
	PRIMARY KEY (run_id, probe)
);
`

// RunRecord is one persisted battery run
type RunRecord struct {
	RunID             string    `db:"run_id"`
	CorpusFingerprint string    `db:"corpus_fingerprint"`
	TokenCount        int       `db:"token_count"`
	StartedAt         time.Time `db:"started_at"`
	FinishedAt        time.Time `db:"finished_at"`
}

// LedgerRepository stores battery runs in PostgreSQL
type LedgerRepository struct {
	db *sqlx.DB
}

// Open connects to the ledger database and ensures the schema exists
func Open(ctx context.Context, url string) (*LedgerRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeLedger, err, "cannot connect to ledger database")
	}

	repo := &LedgerRepository{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *LedgerRepository) ensureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return apperrors.WithCode(apperrors.CodeLedger, err, "cannot create ledger schema")
	}
	return nil
}

// RecordRun inserts a run and its probe outcomes in one transaction
func (r *LedgerRepository) RecordRun(ctx context.Context, runID core.RunID, fingerprint core.Hash, tokenCount int, startedAt time.Time, reports []*report.Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeLedger, err, "cannot begin ledger transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO battery_runs (run_id, corpus_fingerprint, token_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		runID.String(), fingerprint.String(), tokenCount, startedAt)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeLedger, err, "cannot insert battery run")
	}

	for _, rep := range reports {
		payload, err := json.Marshal(rep)
		if err != nil {
			return apperrors.WithCode(apperrors.CodeLedger, err, "cannot serialize report for ledger")
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO probe_outcomes (run_id, probe, verdict, report)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (run_id, probe) DO UPDATE SET
				verdict = EXCLUDED.verdict,
				report = EXCLUDED.report`,
			runID.String(), rep.Probe, string(rep.Verdict), payload)
		if err != nil {
			return apperrors.WithCode(apperrors.CodeLedger, err, "cannot insert probe outcome")
		}
	}

	return tx.Commit()
}

// ListRuns returns persisted runs, most recent first
func (r *LedgerRepository) ListRuns(ctx context.Context) ([]RunRecord, error) {
	var runs []RunRecord
	err := r.db.SelectContext(ctx, &runs, `
		SELECT run_id, corpus_fingerprint, token_count, started_at, finished_at
		FROM battery_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeLedger, err, "cannot list battery runs")
	}
	return runs, nil
}

// Close releases the database connection
func (r *LedgerRepository) Close() error {
	return r.db.Close()
}
