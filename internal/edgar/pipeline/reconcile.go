package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/index"
)

// ReconcileIndex brings the local filing index up to date with EDGAR's
// quarterly master indexes for the given year range. Entries already
// covered by the stored date bounds are skipped; entries newer than the
// stored maximum are only taken once their settling window has passed,
// so late index amendments on EDGAR's side cannot be missed.
func (r *Runner) ReconcileIndex(ctx context.Context, startYear, endYear int) error {
	runID, err := r.runs.Start(ctx, "reconcile")
	if err != nil {
		return err
	}

	first, last, err := r.store.IndexBounds(ctx)
	if err != nil {
		_ = r.runs.Fail(ctx, runID, err.Error())
		return err
	}

	now := time.Now()
	var inserted int64
	for year := startYear; year <= endYear; year++ {
		for qtr := 1; qtr <= 4; qtr++ {
			data, err := r.masterIndex(ctx, year, qtr)
			if err != nil {
				r.log.Warn("master index unavailable",
					zap.Int("year", year), zap.Int("quarter", qtr), zap.Error(err))
				continue
			}
			entries, err := index.ParseMasterIndex(bytes.NewReader(data))
			if err != nil {
				r.log.Warn("master index unparsable",
					zap.Int("year", year), zap.Int("quarter", qtr), zap.Error(err))
				continue
			}

			picked := index.Select(entries, first, last, now)
			n, err := r.store.InsertIndexEntries(ctx, picked)
			if err != nil {
				_ = r.runs.Fail(ctx, runID, err.Error())
				return err
			}
			inserted += n
			r.log.Info("quarter reconciled",
				zap.Int("year", year), zap.Int("quarter", qtr),
				zap.Int("parsed", len(entries)), zap.Int("selected", len(picked)),
				zap.Int64("inserted", n))
		}
	}

	return r.runs.Complete(ctx, runID, &edgar.RunResult{
		Records: inserted,
		Metadata: map[string]any{
			"start_year": startYear,
			"end_year":   endYear,
		},
	})
}

// masterIndex returns one quarter's master index, from the local index
// directory when a cached copy exists, otherwise downloaded and cached.
func (r *Runner) masterIndex(ctx context.Context, year, qtr int) ([]byte, error) {
	name := fmt.Sprintf("%d-QTR%d-master.idx", year, qtr)
	path := filepath.Join(r.cfg.IndexDir, name)

	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	url := r.absURL(fmt.Sprintf("Archives/edgar/full-index/%d/QTR%d/master.idx", year, qtr))
	data, err := r.client.Get(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: download master index %d QTR%d", year, qtr)
	}

	if err := os.MkdirAll(r.cfg.IndexDir, 0o755); err == nil {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			r.log.Warn("cache master index failed", zap.String("path", path), zap.Error(err))
		}
	}
	return data, nil
}
