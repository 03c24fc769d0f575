// Package fundamentals derives a normalized set of accounting concepts
// from a parsed XBRL filing. Raw facts are pulled through ordered alias
// chains, missing values are imputed from accounting identities, and the
// result is cross-checked against the balance sheet, income statement
// and cash flow statement relations.
package fundamentals

// Sentinels for entity metadata the filing never tagged.
const (
	MissingValue  = "NULL"
	MissingSymbol = "Not Provided"
)

// Record is one filing's derived fundamentals. Numeric concept fields
// are always defined after Build: absent facts come out as zero. Ratio
// fields stay nil when their denominator is zero.
type Record struct {
	// Entity metadata, independent of the reporting period.
	EntityRegistrantName      string
	FiscalYear                string
	EntityCentralIndexKey     string
	EntityFilerCategory       string
	TradingSymbol             string
	DocumentFiscalYearFocus   string
	DocumentFiscalPeriodFocus string
	DocumentType              string

	// Period and context selection.
	BalanceSheetDate         string
	IncomeStatementPeriodYTD string
	ContextForInstants       string
	ContextForDurations      string

	// Set by the caller from the filing index entry.
	AccessionNumber string

	// Balance sheet.
	Assets                                    float64
	CurrentAssets                             float64
	NoncurrentAssets                          float64
	LiabilitiesAndEquity                      float64
	Liabilities                               float64
	CurrentLiabilities                        float64
	NoncurrentLiabilities                     float64
	CommitmentsAndContingencies               float64
	TemporaryEquity                           float64
	Equity                                    float64
	EquityAttributableToNoncontrollingInterest float64
	EquityAttributableToParent                float64

	// Income statement.
	Revenues                                      float64
	CostOfRevenue                                 float64
	GrossProfit                                   float64
	OperatingExpenses                             float64
	CostsAndExpenses                              float64
	OtherOperatingIncome                          float64
	OperatingIncomeLoss                           float64
	NonoperatingIncomeLoss                        float64
	InterestAndDebtExpense                        float64
	IncomeBeforeEquityMethodInvestments           float64
	IncomeFromEquityMethodInvestments             float64
	IncomeFromContinuingOperationsBeforeTax       float64
	IncomeTaxExpenseBenefit                       float64
	IncomeFromContinuingOperationsAfterTax        float64
	IncomeFromDiscontinuedOperations              float64
	ExtraordinaryItemsGainLoss                    float64
	NetIncomeLoss                                 float64
	NetIncomeAvailableToCommonStockholdersBasic   float64
	PreferredStockDividendsAndOtherAdjustments    float64
	NetIncomeAttributableToNoncontrollingInterest float64
	NetIncomeAttributableToParent                 float64
	OtherComprehensiveIncome                      float64
	ComprehensiveIncome                           float64
	ComprehensiveIncomeAttributableToParent       float64
	ComprehensiveIncomeAttributableToNCI          float64

	// Derived income statement subtotals.
	NonoperatingIncomeLossPlusInterestAndDebtExpense float64
	NonoperatingIncomePlusInterestAndDebtExpensePlusIncomeFromEquityMethodInvestments float64

	// Cash flow statement.
	NetCashFlow                       float64
	NetCashFlowsOperating             float64
	NetCashFlowsInvesting             float64
	NetCashFlowsFinancing             float64
	NetCashFlowsOperatingContinuing   float64
	NetCashFlowsInvestingContinuing   float64
	NetCashFlowsFinancingContinuing   float64
	NetCashFlowsOperatingDiscontinued float64
	NetCashFlowsInvestingDiscontinued float64
	NetCashFlowsFinancingDiscontinued float64
	NetCashFlowsDiscontinued          float64
	NetCashFlowsContinuing            float64
	ExchangeGainsLosses               float64

	// Ratios, nil when the denominator is zero.
	SGR *float64
	ROA *float64
	ROE *float64
	ROS *float64
}
