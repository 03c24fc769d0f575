package edgar

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/edgar-ingest/internal/db"
)

// RunEntry represents a row in edgar.run_history.
type RunEntry struct {
	ID          int64          `json:"id"`
	Operation   string         `json:"operation"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Records     int64          `json:"records"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RunResult holds the outcome of a pipeline run, passed to Complete().
type RunResult struct {
	Records  int64          `json:"records"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RunLog provides read/write access to the edgar.run_history table.
type RunLog struct {
	pool db.Pool
}

// NewRunLog creates a new RunLog backed by the given connection pool.
func NewRunLog(pool db.Pool) *RunLog {
	return &RunLog{pool: pool}
}

// LastSuccess returns the started_at time of the most recent completed
// run of an operation, or nil when it has never completed.
func (l *RunLog) LastSuccess(ctx context.Context, operation string) (*time.Time, error) {
	var t time.Time
	err := l.pool.QueryRow(ctx,
		`SELECT started_at FROM edgar.run_history
		 WHERE operation = $1 AND status = 'complete'
		 ORDER BY started_at DESC LIMIT 1`,
		operation,
	).Scan(&t)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "runlog: last success for %s", operation)
	}
	return &t, nil
}

// Start records the beginning of a run and returns its ID.
func (l *RunLog) Start(ctx context.Context, operation string) (int64, error) {
	var id int64
	err := l.pool.QueryRow(ctx,
		`INSERT INTO edgar.run_history (operation, status, started_at)
		 VALUES ($1, 'running', now()) RETURNING id`,
		operation,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrapf(err, "runlog: start run for %s", operation)
	}
	return id, nil
}

// Complete marks a run as successfully completed.
func (l *RunLog) Complete(ctx context.Context, runID int64, result *RunResult) error {
	var metaJSON []byte
	if result != nil && result.Metadata != nil {
		var err error
		metaJSON, err = json.Marshal(result.Metadata)
		if err != nil {
			return eris.Wrap(err, "runlog: marshal metadata")
		}
	}

	records := int64(0)
	if result != nil {
		records = result.Records
	}

	_, err := l.pool.Exec(ctx,
		`UPDATE edgar.run_history
		 SET status = 'complete', completed_at = now(), records = $1, metadata = $2
		 WHERE id = $3`,
		records, metaJSON, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %d", runID)
	}
	return nil
}

// Fail marks a run as failed with an error message.
func (l *RunLog) Fail(ctx context.Context, runID int64, errMsg string) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE edgar.run_history
		 SET status = 'failed', completed_at = now(), error = $1
		 WHERE id = $2`,
		errMsg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %d", runID)
	}
	return nil
}

// ListAll returns all run history entries ordered by most recent first.
func (l *RunLog) ListAll(ctx context.Context) ([]RunEntry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, operation, status, started_at, completed_at, records, error, metadata
		 FROM edgar.run_history ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list all")
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var completedAt *time.Time
		var errStr *string
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.Operation, &e.Status, &e.StartedAt, &completedAt, &e.Records, &errStr, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "runlog: scan entry")
		}
		e.CompletedAt = completedAt
		if errStr != nil {
			e.Error = *errStr
		}
		if metaJSON != nil {
			_ = json.Unmarshal(metaJSON, &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
