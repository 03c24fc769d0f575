package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImputeAssetsFromCurrentAssets(t *testing.T) {
	r := &Record{
		CurrentAssets:        500,
		LiabilitiesAndEquity: 500,
	}
	imputeBalanceSheet(r)
	assert.Equal(t, 500.0, r.Assets)
}

func TestImputeLiabilitiesFromIdentity(t *testing.T) {
	r := &Record{
		Assets:               1000,
		LiabilitiesAndEquity: 1000,
		Equity:               400,
		TemporaryEquity:      50,
	}
	imputeBalanceSheet(r)
	assert.Equal(t, 550.0, r.Liabilities)
}

func TestImputeEquityFromParentAndNCI(t *testing.T) {
	r := &Record{
		EquityAttributableToParent:                 300,
		EquityAttributableToNoncontrollingInterest: 100,
	}
	imputeBalanceSheet(r)
	assert.Equal(t, 400.0, r.Equity)
}

func TestImputeParentFromEquity(t *testing.T) {
	r := &Record{Equity: 400}
	imputeBalanceSheet(r)
	assert.Equal(t, 400.0, r.EquityAttributableToParent)
}

func TestImputeContinuingOperationsTax(t *testing.T) {
	r := &Record{
		IncomeFromContinuingOperationsBeforeTax: 130,
		IncomeTaxExpenseBenefit:                 30,
	}
	imputeIncomeStatement(r)
	assert.Equal(t, 100.0, r.IncomeFromContinuingOperationsAfterTax)
}

func TestImputeNetIncomeSplitsContinuing(t *testing.T) {
	r := &Record{
		NetIncomeLoss:                    90,
		IncomeFromDiscontinuedOperations: 10,
	}
	imputeIncomeStatement(r)
	assert.Equal(t, 80.0, r.IncomeFromContinuingOperationsAfterTax)
	assert.Equal(t, 90.0, r.NetIncomeAttributableToParent)
	assert.Equal(t, 90.0, r.ComprehensiveIncome)
	// Available-to-common is imputed before the parent figure exists,
	// so it stays zero here.
	assert.Zero(t, r.NetIncomeAvailableToCommonStockholdersBasic)
}

func TestImputeCashFlowContinuingSplit(t *testing.T) {
	r := &Record{
		NetCashFlowsOperating:             300,
		NetCashFlowsInvesting:             -120,
		NetCashFlowsFinancing:             -80,
		NetCashFlowsOperatingDiscontinued: 20,
	}
	imputeCashFlow(r)

	assert.Equal(t, 20.0, r.NetCashFlowsDiscontinued)
	assert.Equal(t, 280.0, r.NetCashFlowsOperatingContinuing)
	assert.Equal(t, 80.0, r.NetCashFlowsContinuing)
	assert.Equal(t, 100.0, r.NetCashFlow)
}

// Re-deriving an already-derived record must not move any value.
func TestImputeIdempotent(t *testing.T) {
	rec := buildFrom(t, instanceDoc("2022-12-31", map[string]string{
		"I:us-gaap:Assets":                           "1000",
		"I:us-gaap:AssetsCurrent":                    "400",
		"I:us-gaap:LiabilitiesAndStockholdersEquity": "1000",
		"I:us-gaap:LiabilitiesCurrent":               "250",
		"I:us-gaap:StockholdersEquity":               "400",
		"us-gaap:Revenues":                           "500",
		"us-gaap:CostOfRevenue":                      "200",
		"us-gaap:OperatingExpenses":                  "180",
		"us-gaap:OperatingIncomeLoss":                "120",
		"us-gaap:NetIncomeLoss":                      "90",
		"us-gaap:NetCashProvidedByUsedInOperatingActivities": "150",
	}))

	again := *rec
	imputeBalanceSheet(&again)
	imputeIncomeStatement(&again)
	imputeCashFlow(&again)
	deriveRatios(&again)

	assert.Equal(t, *rec, again)
}

func TestImputeEquityMethodMovedBelowOperatingIncomeOnce(t *testing.T) {
	r := &Record{
		IncomeFromEquityMethodInvestments:       30,
		IncomeBeforeEquityMethodInvestments:     160,
		IncomeFromContinuingOperationsBeforeTax: 130,
		OperatingIncomeLoss:                     130,
	}

	imputeIncomeStatement(r)
	assert.Equal(t, 100.0, r.IncomeBeforeEquityMethodInvestments)
	assert.Equal(t, 100.0, r.OperatingIncomeLoss)

	// The reclassified record is already consistent; a second pass must
	// not subtract the equity method income again.
	again := *r
	imputeIncomeStatement(&again)
	assert.Equal(t, *r, again)
}
