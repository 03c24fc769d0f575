// Package pipeline orchestrates the EDGAR ingestion runs: index
// reconciliation, filing ingestion and ticker discovery.
package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/edgar-ingest/internal/config"
	"github.com/sells-group/edgar-ingest/internal/db"
	"github.com/sells-group/edgar-ingest/internal/edgar"
	"github.com/sells-group/edgar-ingest/internal/edgar/index"
	"github.com/sells-group/edgar-ingest/internal/edgar/store"
	"github.com/sells-group/edgar-ingest/internal/edgar/xbrl"
	"github.com/sells-group/edgar-ingest/internal/fetcher"
)

const defaultBaseURL = "https://www.sec.gov"

// Runner executes ingestion runs against one database and one shared
// rate-limited EDGAR client.
type Runner struct {
	// BaseURL is the EDGAR host. Overridable for tests.
	BaseURL string

	cfg    config.EdgarConfig
	store  *store.Store
	runs   *edgar.RunLog
	client *fetcher.Client
	log    *zap.Logger
}

// New wires a Runner from configuration and a database pool.
func New(cfg config.EdgarConfig, pool db.Pool) *Runner {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	client := fetcher.NewClient(fetcher.Options{
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryBase:  cfg.RetryBase,
		Limiter:    limiter,
	})
	return &Runner{
		BaseURL: defaultBaseURL,
		cfg:     cfg,
		store:   store.New(pool, cfg.BatchSize),
		runs:    edgar.NewRunLog(pool),
		client:  client,
		log:     zap.L().With(zap.String("component", "pipeline")),
	}
}

// absURL joins a landing-page href to the EDGAR host. Hrefs come back
// both with and without a leading slash.
func (r *Runner) absURL(link string) string {
	return r.BaseURL + "/" + strings.TrimPrefix(link, "/")
}

// instanceDocument fetches a filing's landing page, locates its XBRL
// instance document and returns it parsed along with the document URL.
// A nil document with nil error means the filing has no usable instance
// document and should be skipped.
func (r *Runner) instanceDocument(ctx context.Context, entry index.Entry) (*xbrl.Document, string, error) {
	landingURL := r.absURL("Archives/" + entry.HTMLLink)
	page, err := r.client.Get(ctx, landingURL)
	if err != nil {
		return nil, "", eris.Wrapf(err, "pipeline: fetch landing page for %s", entry.AccessionNumber())
	}

	link, err := instanceDocumentLink(page)
	if err != nil {
		return nil, "", eris.Wrapf(err, "pipeline: scan landing page for %s", entry.AccessionNumber())
	}
	if link == "" {
		r.log.Debug("no filing document link on landing page",
			zap.String("accession", entry.AccessionNumber()))
		return nil, "", nil
	}
	if !strings.HasSuffix(strings.ToLower(link), ".xml") {
		r.log.Info("non-xml filing document, skipping",
			zap.String("accession", entry.AccessionNumber()),
			zap.String("link", link))
		if r.cfg.DownloadNonXML {
			r.saveDocument(ctx, link)
		}
		return nil, "", nil
	}

	docURL := r.absURL(link)
	data, err := r.client.Get(ctx, docURL)
	if err != nil {
		return nil, "", eris.Wrapf(err, "pipeline: fetch instance document for %s", entry.AccessionNumber())
	}
	doc, err := xbrl.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, "", eris.Wrapf(err, "pipeline: parse instance document for %s", entry.AccessionNumber())
	}
	return doc, docURL, nil
}

// instanceDocumentLink scans a filing landing page for the XBRL
// instance document. Rows qualify when the description or type cell
// names the form or an instance document; within qualifying rows the
// last .xml link wins, falling back to the last link of any kind so
// callers can report non-XML filings.
func instanceDocumentLink(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", eris.Wrap(err, "pipeline: parse landing page")
	}

	var lastXML, lastAny string
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		desc := strings.ToUpper(strings.TrimSpace(row.Find("td:nth-of-type(2)").Text()))
		kind := strings.ToUpper(strings.TrimSpace(row.Find("td:nth-of-type(4)").Text()))
		if !rowMatches(desc) && !rowMatches(kind) {
			return
		}
		row.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || href == "" {
				return
			}
			lastAny = href
			if strings.HasSuffix(strings.ToLower(href), ".xml") {
				lastXML = href
			}
		})
	})

	if lastXML != "" {
		return lastXML, nil
	}
	return lastAny, nil
}

func rowMatches(cell string) bool {
	return strings.Contains(cell, "10-K") ||
		strings.Contains(cell, "10-Q") ||
		strings.Contains(cell, "XBRL INSTANCE DOCUMENT")
}

// saveDocument downloads a non-XML filing document into the data
// directory. Failures are logged, never fatal.
func (r *Runner) saveDocument(ctx context.Context, link string) {
	data, err := r.client.Get(ctx, r.absURL(link))
	if err != nil {
		r.log.Warn("download of non-xml document failed", zap.String("link", link), zap.Error(err))
		return
	}
	if err := os.MkdirAll(r.cfg.DataDir, 0o755); err != nil {
		r.log.Warn("create data dir failed", zap.Error(err))
		return
	}
	path := filepath.Join(r.cfg.DataDir, filepath.Base(link))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.log.Warn("write non-xml document failed", zap.String("path", path), zap.Error(err))
	}
}
