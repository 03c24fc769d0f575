package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/fundamentals"
)

// IngestFilings downloads and derives fundamentals for every stored
// 10-K and 10-Q of the given CIKs. Derived records are batched and
// persisted on the client's flush cadence rather than one row at a
// time; a filing that cannot be fetched or parsed is logged and skipped
// without aborting the run.
func (r *Runner) IngestFilings(ctx context.Context, ciks []string) error {
	runID, err := r.runs.Start(ctx, "filings")
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		batch    []*fundamentals.Record
		inserted int64
	)
	flush := func() {
		mu.Lock()
		pending := batch
		batch = nil
		mu.Unlock()
		if len(pending) == 0 {
			return
		}
		n, err := r.store.InsertFilings(ctx, pending)
		if err != nil {
			r.log.Error("persist filing batch failed", zap.Int("rows", len(pending)), zap.Error(err))
			return
		}
		mu.Lock()
		inserted += n
		mu.Unlock()
	}
	r.client.OnFlush(flush)
	defer r.client.OnFlush(nil)

	var processed int
	for _, cik := range ciks {
		entries, err := r.store.CompanyFilings(ctx, cik)
		if err != nil {
			_ = r.runs.Fail(ctx, runID, err.Error())
			return err
		}
		r.log.Info("ingesting company filings", zap.String("cik", cik), zap.Int("filings", len(entries)))

		for _, entry := range entries {
			doc, _, err := r.instanceDocument(ctx, entry)
			if err != nil {
				r.log.Warn("filing skipped",
					zap.String("cik", cik),
					zap.String("accession", entry.AccessionNumber()),
					zap.Error(err))
				continue
			}
			if doc == nil {
				continue
			}

			rec := fundamentals.Build(doc)
			rec.AccessionNumber = entry.AccessionNumber()

			mu.Lock()
			batch = append(batch, rec)
			mu.Unlock()
			processed++
		}
	}

	r.client.Flush()

	mu.Lock()
	total := inserted
	mu.Unlock()
	return r.runs.Complete(ctx, runID, &edgar.RunResult{
		Records: total,
		Metadata: map[string]any{
			"ciks":      len(ciks),
			"processed": processed,
		},
	})
}
