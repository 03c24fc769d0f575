// Package store persists EDGAR index entries, discovered tickers and
// derived filing records.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/edgar-ingest/internal/db"
	"github.com/sells-group/edgar-ingest/internal/edgar/fundamentals"
	"github.com/sells-group/edgar-ingest/internal/edgar/index"
)

// Ticker is one discovered CIK to trading symbol mapping. SourceURL is
// the instance document the symbol was read from.
type Ticker struct {
	CIK            string
	RegistrantName string
	TradingSymbol  string
	SourceURL      string
}

// Store wraps the edgar schema tables. chunkSize caps the rows per
// insert statement; zero means db.DefaultChunkSize.
type Store struct {
	pool      db.Pool
	chunkSize int
}

func New(pool db.Pool, chunkSize int) *Store {
	return &Store{pool: pool, chunkSize: chunkSize}
}

// IndexBounds returns the smallest and largest filing dates currently
// stored. Both are nil when the index is empty.
func (s *Store) IndexBounds(ctx context.Context) (first, last *time.Time, err error) {
	err = s.pool.QueryRow(ctx,
		"SELECT MIN(filing_date), MAX(filing_date) FROM edgar.filing_index",
	).Scan(&first, &last)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: query index bounds")
	}
	return first, last, nil
}

// InsertIndexEntries inserts index rows, skipping any the store already
// has, and returns how many were new.
func (s *Store) InsertIndexEntries(ctx context.Context, entries []index.Entry) (int64, error) {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.CIK, e.CompanyName, e.FormType, e.FilingDate, e.TxtLink, e.HTMLLink,
		})
	}
	return db.InsertIgnore(ctx, s.pool, db.InsertConfig{
		Table:        "edgar.filing_index",
		Columns:      []string{"cik", "company_name", "form_type", "filing_date", "txt_link", "html_link"},
		ConflictKeys: []string{"cik", "form_type", "filing_date", "html_link"},
		ChunkSize:    s.chunkSize,
	}, rows)
}

// CompanyFilings returns all stored 10-K and 10-Q index entries for a
// CIK, newest first.
func (s *Store) CompanyFilings(ctx context.Context, cik string) ([]index.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cik, company_name, form_type, filing_date, txt_link, html_link
		 FROM edgar.filing_index
		 WHERE cik = $1 AND form_type IN ('10-K', '10-Q')
		 ORDER BY filing_date DESC`,
		cik,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "store: query filings for cik %s", cik)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// LatestFilingsWithoutTicker returns, per CIK not yet present in the
// tickers table, its most recent 10-K or 10-Q index entry filed after
// the given date.
func (s *Store) LatestFilingsWithoutTicker(ctx context.Context, since time.Time) ([]index.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (fi.cik)
		        fi.cik, fi.company_name, fi.form_type, fi.filing_date, fi.txt_link, fi.html_link
		 FROM edgar.filing_index fi
		 WHERE fi.filing_date > $1
		   AND fi.form_type IN ('10-K', '10-Q')
		   AND fi.cik NOT IN (SELECT cik FROM edgar.tickers)
		 ORDER BY fi.cik, fi.filing_date DESC`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: query filings without ticker")
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]index.Entry, error) {
	var entries []index.Entry
	for rows.Next() {
		var e index.Entry
		if err := rows.Scan(&e.CIK, &e.CompanyName, &e.FormType, &e.FilingDate, &e.TxtLink, &e.HTMLLink); err != nil {
			return nil, eris.Wrap(err, "store: scan index entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertTickers inserts discovered tickers, skipping CIK/symbol pairs
// already present.
func (s *Store) InsertTickers(ctx context.Context, tickers []Ticker) (int64, error) {
	rows := make([][]any, 0, len(tickers))
	for _, tk := range tickers {
		rows = append(rows, []any{tk.CIK, tk.RegistrantName, tk.TradingSymbol, tk.SourceURL})
	}
	return db.InsertIgnore(ctx, s.pool, db.InsertConfig{
		Table:        "edgar.tickers",
		Columns:      []string{"cik", "registrant_name", "trading_symbol", "source_url"},
		ConflictKeys: []string{"cik", "trading_symbol"},
		ChunkSize:    s.chunkSize,
	}, rows)
}

var filingColumns = []string{
	"accession_number",
	"entity_registrant_name",
	"fiscal_year",
	"entity_central_index_key",
	"entity_filer_category",
	"trading_symbol",
	"document_fiscal_year_focus",
	"document_fiscal_period_focus",
	"document_type",
	"balance_sheet_date",
	"income_statement_period_ytd",
	"assets",
	"current_assets",
	"noncurrent_assets",
	"liabilities_and_equity",
	"liabilities",
	"current_liabilities",
	"noncurrent_liabilities",
	"commitments_and_contingencies",
	"temporary_equity",
	"equity",
	"equity_attributable_to_nci",
	"equity_attributable_to_parent",
	"revenues",
	"cost_of_revenue",
	"gross_profit",
	"operating_expenses",
	"costs_and_expenses",
	"other_operating_income",
	"operating_income_loss",
	"nonoperating_income_loss",
	"interest_and_debt_expense",
	"income_before_equity_method_investments",
	"income_from_equity_method_investments",
	"income_from_continuing_operations_before_tax",
	"income_tax_expense_benefit",
	"income_from_continuing_operations_after_tax",
	"income_from_discontinued_operations",
	"extraordinary_items_gain_loss",
	"net_income_loss",
	"net_income_available_to_common_basic",
	"preferred_stock_dividends_and_adjustments",
	"net_income_attributable_to_nci",
	"net_income_attributable_to_parent",
	"other_comprehensive_income",
	"comprehensive_income",
	"comprehensive_income_attributable_to_parent",
	"comprehensive_income_attributable_to_nci",
	"nonoperating_income_plus_interest_and_debt_expense",
	"nonoperating_income_plus_interest_plus_equity_method",
	"net_cash_flow",
	"net_cash_flows_operating",
	"net_cash_flows_investing",
	"net_cash_flows_financing",
	"net_cash_flows_operating_continuing",
	"net_cash_flows_investing_continuing",
	"net_cash_flows_financing_continuing",
	"net_cash_flows_operating_discontinued",
	"net_cash_flows_investing_discontinued",
	"net_cash_flows_financing_discontinued",
	"net_cash_flows_discontinued",
	"net_cash_flows_continuing",
	"exchange_gains_losses",
	"sgr",
	"roa",
	"roe",
	"ros",
}

// InsertFilings persists derived filing records. The accession number
// is the conflict key: re-ingesting a filing is a silent no-op.
func (s *Store) InsertFilings(ctx context.Context, records []*fundamentals.Record) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, filingRow(r))
	}
	return db.InsertIgnore(ctx, s.pool, db.InsertConfig{
		Table:        "edgar.filings",
		Columns:      filingColumns,
		ConflictKeys: []string{"accession_number"},
		ChunkSize:    s.chunkSize,
	}, rows)
}

func filingRow(r *fundamentals.Record) []any {
	return []any{
		r.AccessionNumber,
		r.EntityRegistrantName,
		r.FiscalYear,
		r.EntityCentralIndexKey,
		r.EntityFilerCategory,
		r.TradingSymbol,
		r.DocumentFiscalYearFocus,
		r.DocumentFiscalPeriodFocus,
		r.DocumentType,
		nullableDate(r.BalanceSheetDate),
		nullableDate(r.IncomeStatementPeriodYTD),
		r.Assets,
		r.CurrentAssets,
		r.NoncurrentAssets,
		r.LiabilitiesAndEquity,
		r.Liabilities,
		r.CurrentLiabilities,
		r.NoncurrentLiabilities,
		r.CommitmentsAndContingencies,
		r.TemporaryEquity,
		r.Equity,
		r.EquityAttributableToNoncontrollingInterest,
		r.EquityAttributableToParent,
		r.Revenues,
		r.CostOfRevenue,
		r.GrossProfit,
		r.OperatingExpenses,
		r.CostsAndExpenses,
		r.OtherOperatingIncome,
		r.OperatingIncomeLoss,
		r.NonoperatingIncomeLoss,
		r.InterestAndDebtExpense,
		r.IncomeBeforeEquityMethodInvestments,
		r.IncomeFromEquityMethodInvestments,
		r.IncomeFromContinuingOperationsBeforeTax,
		r.IncomeTaxExpenseBenefit,
		r.IncomeFromContinuingOperationsAfterTax,
		r.IncomeFromDiscontinuedOperations,
		r.ExtraordinaryItemsGainLoss,
		r.NetIncomeLoss,
		r.NetIncomeAvailableToCommonStockholdersBasic,
		r.PreferredStockDividendsAndOtherAdjustments,
		r.NetIncomeAttributableToNoncontrollingInterest,
		r.NetIncomeAttributableToParent,
		r.OtherComprehensiveIncome,
		r.ComprehensiveIncome,
		r.ComprehensiveIncomeAttributableToParent,
		r.ComprehensiveIncomeAttributableToNCI,
		r.NonoperatingIncomeLossPlusInterestAndDebtExpense,
		r.NonoperatingIncomePlusInterestAndDebtExpensePlusIncomeFromEquityMethodInvestments,
		r.NetCashFlow,
		r.NetCashFlowsOperating,
		r.NetCashFlowsInvesting,
		r.NetCashFlowsFinancing,
		r.NetCashFlowsOperatingContinuing,
		r.NetCashFlowsInvestingContinuing,
		r.NetCashFlowsFinancingContinuing,
		r.NetCashFlowsOperatingDiscontinued,
		r.NetCashFlowsInvestingDiscontinued,
		r.NetCashFlowsFinancingDiscontinued,
		r.NetCashFlowsDiscontinued,
		r.NetCashFlowsContinuing,
		r.ExchangeGainsLosses,
		r.SGR,
		r.ROA,
		r.ROE,
		r.ROS,
	}
}

// nullableDate maps the resolver's empty string to NULL.
func nullableDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
