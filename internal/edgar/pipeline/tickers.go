package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/fundamentals"
	"github.com/sells-group/edgar-ingest/internal/edgar/store"
)

// DiscoverTickers finds CIKs with recent filings but no stored trading
// symbol, reads each company's most recent instance document for its
// entity metadata, and records the symbol. Filings that never tagged a
// usable symbol are skipped.
func (r *Runner) DiscoverTickers(ctx context.Context, since time.Time) error {
	runID, err := r.runs.Start(ctx, "tickers")
	if err != nil {
		return err
	}

	entries, err := r.store.LatestFilingsWithoutTicker(ctx, since)
	if err != nil {
		_ = r.runs.Fail(ctx, runID, err.Error())
		return err
	}
	r.log.Info("discovering tickers", zap.Int("candidates", len(entries)))

	var tickers []store.Ticker
	for _, entry := range entries {
		doc, docURL, err := r.instanceDocument(ctx, entry)
		if err != nil {
			r.log.Warn("ticker candidate skipped",
				zap.String("cik", entry.CIK),
				zap.String("accession", entry.AccessionNumber()),
				zap.Error(err))
			continue
		}
		if doc == nil {
			continue
		}

		info := fundamentals.BaseInfo(doc)
		if info.TradingSymbol == "" || info.TradingSymbol == fundamentals.MissingSymbol {
			r.log.Debug("no trading symbol tagged", zap.String("cik", entry.CIK))
			continue
		}
		tickers = append(tickers, store.Ticker{
			CIK:            entry.CIK,
			RegistrantName: info.EntityRegistrantName,
			TradingSymbol:  info.TradingSymbol,
			SourceURL:      docURL,
		})
	}

	inserted, err := r.store.InsertTickers(ctx, tickers)
	if err != nil {
		_ = r.runs.Fail(ctx, runID, err.Error())
		return err
	}

	return r.runs.Complete(ctx, runID, &edgar.RunResult{
		Records: inserted,
		Metadata: map[string]any{
			"since":      since.Format("2006-01-02"),
			"candidates": len(entries),
		},
	})
}
