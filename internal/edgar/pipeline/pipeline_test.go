package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const landingPage = `<html><body><table>
<tr><th>Seq</th><th>Description</th><th>Document</th><th>Type</th></tr>
<tr><td>1</td><td>10-K Annual Report</td><td><a href="/Archives/edgar/data/77/report.htm">report.htm</a></td><td>10-K</td></tr>
<tr><td>2</td><td>XBRL INSTANCE DOCUMENT</td><td><a href="/Archives/edgar/data/77/instance.xml">instance.xml</a></td><td>EX-101.INS</td></tr>
<tr><td>3</td><td>GRAPHIC</td><td><a href="/Archives/edgar/data/77/logo.jpg">logo.jpg</a></td><td>GRAPHIC</td></tr>
</table></body></html>`

const instanceXML = `<?xml version="1.0"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance"
      xmlns:xbrli="http://www.xbrl.org/2003/instance"
      xmlns:us-gaap="http://fasb.org/us-gaap/2022"
      xmlns:dei="http://xbrl.sec.gov/dei/2022">
  <xbrli:context id="AsOf">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">77</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:instant>2021-12-31</xbrli:instant></xbrli:period>
  </xbrli:context>
  <xbrli:context id="YTD">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">77</xbrli:identifier></xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2021-01-01</xbrli:startDate>
      <xbrli:endDate>2021-12-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <dei:EntityRegistrantName contextRef="YTD">Example Corp</dei:EntityRegistrantName>
  <dei:TradingSymbol contextRef="YTD">EXM</dei:TradingSymbol>
  <dei:DocumentType contextRef="YTD">10-K</dei:DocumentType>
  <dei:DocumentPeriodEndDate contextRef="YTD">2021-12-31</dei:DocumentPeriodEndDate>
  <us-gaap:Assets contextRef="AsOf" unitRef="usd">1000</us-gaap:Assets>
</xbrl>`

func testServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRunner(t *testing.T, pool pgxmock.PgxPoolIface, baseURL string) *Runner {
	t.Helper()
	r := New(config.EdgarConfig{
		UserAgent:     "tester test@example.com",
		RatePerSecond: 100,
		MaxRetries:    1,
		RetryBase:     time.Millisecond,
		Timeout:       5 * time.Second,
		IndexDir:      t.TempDir(),
		DataDir:       t.TempDir(),
	}, pool)
	r.BaseURL = baseURL
	return r
}

// anyArgs matches n bind arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func indexEntryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"cik", "company_name", "form_type", "filing_date", "txt_link", "html_link"}).
		AddRow("77", "Example Corp", "10-K",
			time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
			"edgar/data/77/0000000077-22-000001.txt",
			"edgar/data/77/0000000077-22-000001-index.html")
}

func TestInstanceDocumentLink_PrefersXML(t *testing.T) {
	link, err := instanceDocumentLink([]byte(landingPage))
	require.NoError(t, err)
	assert.Equal(t, "/Archives/edgar/data/77/instance.xml", link)
}

func TestInstanceDocumentLink_LastLinkWins(t *testing.T) {
	page := `<table>
<tr><td>1</td><td>10-Q Report</td><td><a href="/a/first.xml">a</a></td><td>10-Q</td></tr>
<tr><td>2</td><td>10-Q Report</td><td><a href="/a/second.xml">b</a></td><td>10-Q</td></tr>
</table>`
	link, err := instanceDocumentLink([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "/a/second.xml", link)
}

func TestInstanceDocumentLink_FallsBackToNonXML(t *testing.T) {
	page := `<table>
<tr><td>1</td><td>10-K Annual Report</td><td><a href="/a/report.htm">a</a></td><td>10-K</td></tr>
</table>`
	link, err := instanceDocumentLink([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "/a/report.htm", link)
}

func TestInstanceDocumentLink_TypeCellMatches(t *testing.T) {
	page := `<table>
<tr><td>1</td><td>Instance</td><td><a href="/a/inst.xml">a</a></td><td>XBRL INSTANCE DOCUMENT</td></tr>
</table>`
	link, err := instanceDocumentLink([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "/a/inst.xml", link)
}

func TestInstanceDocumentLink_NoMatch(t *testing.T) {
	page := `<table>
<tr><td>1</td><td>GRAPHIC</td><td><a href="/a/logo.jpg">a</a></td><td>GRAPHIC</td></tr>
</table>`
	link, err := instanceDocumentLink([]byte(page))
	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestIngestFilings(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/Archives/edgar/data/77/0000000077-22-000001-index.html": landingPage,
		"/Archives/edgar/data/77/instance.xml":                    instanceXML,
	})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("filings").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	pool.ExpectQuery(`FROM edgar.filing_index`).
		WithArgs("77").
		WillReturnRows(indexEntryRows())
	pool.ExpectBegin()
	// One bind argument per edgar.filings column.
	pool.ExpectExec(`INSERT INTO "edgar"."filings"`).
		WithArgs(anyArgs(67)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(1), []byte(`{"ciks":1,"processed":1}`), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.IngestFilings(context.Background(), []string{"77"})
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestIngestFilings_SkipsNonXML(t *testing.T) {
	page := `<table>
<tr><td>1</td><td>10-K Annual Report</td><td><a href="/Archives/edgar/data/77/report.htm">a</a></td><td>10-K</td></tr>
</table>`
	srv := testServer(t, map[string]string{
		"/Archives/edgar/data/77/0000000077-22-000001-index.html": page,
	})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("filings").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	pool.ExpectQuery(`FROM edgar.filing_index`).
		WithArgs("77").
		WillReturnRows(indexEntryRows())
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(0), []byte(`{"ciks":1,"processed":0}`), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.IngestFilings(context.Background(), []string{"77"})
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestIngestFilings_FetchFailureSkipsFiling(t *testing.T) {
	srv := testServer(t, map[string]string{})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("filings").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	pool.ExpectQuery(`FROM edgar.filing_index`).
		WithArgs("77").
		WillReturnRows(indexEntryRows())
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(0), []byte(`{"ciks":1,"processed":0}`), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.IngestFilings(context.Background(), []string{"77"})
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestDiscoverTickers(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/Archives/edgar/data/77/0000000077-22-000001-index.html": landingPage,
		"/Archives/edgar/data/77/instance.xml":                    instanceXML,
	})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	since := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("tickers").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	pool.ExpectQuery(`NOT IN \(SELECT cik FROM edgar.tickers\)`).
		WithArgs(since).
		WillReturnRows(indexEntryRows())
	pool.ExpectBegin()
	pool.ExpectExec(`INSERT INTO "edgar"."tickers"`).
		WithArgs("77", "Example Corp", "EXM", srv.URL+"/Archives/edgar/data/77/instance.xml").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(1), []byte(`{"candidates":1,"since":"2021-01-01"}`), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.DiscoverTickers(context.Background(), since)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestDiscoverTickers_SkipsUntaggedSymbol(t *testing.T) {
	noSymbol := strings.Replace(instanceXML,
		`<dei:TradingSymbol contextRef="YTD">EXM</dei:TradingSymbol>`, "", 1)
	srv := testServer(t, map[string]string{
		"/Archives/edgar/data/77/0000000077-22-000001-index.html": landingPage,
		"/Archives/edgar/data/77/instance.xml":                    noSymbol,
	})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	since := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("tickers").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	pool.ExpectQuery(`NOT IN \(SELECT cik FROM edgar.tickers\)`).
		WithArgs(since).
		WillReturnRows(indexEntryRows())
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(0), []byte(`{"candidates":1,"since":"2021-01-01"}`), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.DiscoverTickers(context.Background(), since)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

const masterIndexSample = `Description:           Master Index of EDGAR Dissemination Feed
Last Data Received:    March 31, 2021

CIK|Company Name|Form Type|Date Filed|Filename
--------------------------------------------------------------------------------
77|EXAMPLE CORP|10-K|2021-02-01|edgar/data/77/0000000077-21-000001.txt
90|OTHER INC|10-Q|2021-03-15|edgar/data/90/0000000090-21-000002.txt
`

func TestReconcileIndex(t *testing.T) {
	srv := testServer(t, map[string]string{})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("reconcile").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	pool.ExpectQuery(`SELECT MIN\(filing_date\), MAX\(filing_date\)`).
		WillReturnRows(pgxmock.NewRows([]string{"min", "max"}).AddRow((*time.Time)(nil), (*time.Time)(nil)))
	// QTR1 has a cached local file; QTR2-4 404 on the server and are skipped.
	pool.ExpectBegin()
	// Two index rows of six columns each.
	pool.ExpectExec(`INSERT INTO "edgar"."filing_index"`).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	pool.ExpectCommit()
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(2), []byte(`{"end_year":2021,"start_year":2021}`), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	path := filepath.Join(r.cfg.IndexDir, "2021-QTR1-master.idx")
	require.NoError(t, os.WriteFile(path, []byte(masterIndexSample), 0o644))

	err = r.ReconcileIndex(context.Background(), 2021, 2021)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestReconcileIndex_DownloadsAndCaches(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/Archives/edgar/full-index/2021/QTR1/master.idx": masterIndexSample,
	})

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`INSERT INTO edgar.run_history`).
		WithArgs("reconcile").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	pool.ExpectQuery(`SELECT MIN\(filing_date\), MAX\(filing_date\)`).
		WillReturnRows(pgxmock.NewRows([]string{"min", "max"}).AddRow((*time.Time)(nil), (*time.Time)(nil)))
	pool.ExpectBegin()
	// Two index rows of six columns each.
	pool.ExpectExec(`INSERT INTO "edgar"."filing_index"`).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	pool.ExpectCommit()
	pool.ExpectExec(`UPDATE edgar.run_history`).
		WithArgs(int64(2), []byte(`{"end_year":2021,"start_year":2021}`), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	r := testRunner(t, pool, srv.URL)
	err = r.ReconcileIndex(context.Background(), 2021, 2021)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())

	cached := filepath.Join(r.cfg.IndexDir, "2021-QTR1-master.idx")
	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, masterIndexSample, string(data))
}
