package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/models/store"
	"github.com/netops-tools/netaudit/pkg/store/duckdb"
)

// ErrNoRuns is returned when history is queried before any audit run
// has been recorded.
var ErrNoRuns = errors.New("no audit runs recorded")

// Store persists per-device audit outcomes so past runs can be listed
// and compared.
type Store interface {
	Add(ctx context.Context, run domain.AuditRun) error
	ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error)
	GetRun(ctx context.Context, runID string) ([]store.DeviceRunRecord, error)
	LatestRunID(ctx context.Context) (string, error)
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{db: db}, nil
}

// Add writes the run's device rows in a single transaction: a run is
// either recorded whole or not at all. A caller-supplied transaction on
// the context is joined instead; its owner commits or rolls back.
func (h *historyStore) Add(ctx context.Context, run domain.AuditRun) error {
	if len(run.Report.Devices) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	ownTx := tx == nil
	if ownTx {
		var err error
		tx, err = h.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
	}

	if err := insertRun(ctx, tx, run); err != nil {
		if ownTx {
			tx.Rollback()
		}
		return err
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run domain.AuditRun) error {
	query := `
		INSERT INTO audit_runs (
			run_id, started_at, hostname, status,
			violations, high_count, medium_count, low_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, result := range run.Report.Devices {
		_, err = stmt.ExecContext(ctx,
			run.ID,
			run.StartedAt,
			result.Hostname,
			string(result.Status),
			len(result.Violations),
			result.SeverityCounts[domain.SeverityHigh],
			result.SeverityCounts[domain.SeverityMedium],
			result.SeverityCounts[domain.SeverityLow],
		)
		if err != nil {
			return fmt.Errorf("insert device record: %w", err)
		}
	}

	return nil
}

func (h *historyStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT
			run_id,
			MIN(started_at) AS started_at,
			COUNT(*) AS total_devices,
			SUM(CASE WHEN status = 'PASS' THEN 1 ELSE 0 END) AS compliant,
			SUM(CASE WHEN status = 'FAIL' THEN 1 ELSE 0 END) AS non_compliant,
			SUM(violations) AS total_violations
		FROM audit_runs
		GROUP BY run_id
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []store.RunSummary
	for rows.Next() {
		var s store.RunSummary
		err := rows.Scan(
			&s.RunID,
			&s.StartedAt,
			&s.TotalDevices,
			&s.CompliantDevices,
			&s.NonCompliantDevices,
			&s.TotalViolations,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (h *historyStore) GetRun(ctx context.Context, runID string) ([]store.DeviceRunRecord, error) {
	query := `
		SELECT run_id, started_at, hostname, status,
		       violations, high_count, medium_count, low_count
		FROM audit_runs
		WHERE run_id = ?
		ORDER BY hostname`

	rows, err := h.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []store.DeviceRunRecord
	for rows.Next() {
		var r store.DeviceRunRecord
		err := rows.Scan(
			&r.RunID,
			&r.StartedAt,
			&r.Hostname,
			&r.Status,
			&r.Violations,
			&r.HighCount,
			&r.MediumCount,
			&r.LowCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan device record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

func (h *historyStore) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := h.db.QueryRowContext(ctx,
		`SELECT run_id FROM audit_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return runID, nil
}
