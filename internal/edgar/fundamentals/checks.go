package fundamentals

import "go.uber.org/zap"

// Statement consistency checks. A non-zero residual means the derived
// record does not satisfy the identity; residuals are logged for
// inspection but never block persistence.

// cfExchangeVariantMarker flags filings that fold the exchange rate
// effect into the activity subtotals instead of reporting it as its own
// reconciling line. The marker value cannot occur as a real residual,
// which keeps these filings distinguishable from genuine errors.
const cfExchangeVariantMarker = 888888

func checkBalanceSheet(r *Record, log *zap.Logger) {
	bs1 := r.Equity - (r.EquityAttributableToParent + r.EquityAttributableToNoncontrollingInterest)
	bs2 := r.Assets - r.LiabilitiesAndEquity

	var bs3, bs4 float64
	classified := r.CurrentAssets != 0 || r.NoncurrentAssets != 0 ||
		r.CurrentLiabilities != 0 || r.NoncurrentLiabilities != 0
	if classified {
		bs3 = r.Assets - (r.CurrentAssets + r.NoncurrentAssets)
		bs4 = r.Liabilities - (r.CurrentLiabilities + r.NoncurrentLiabilities)
	}

	bs5 := r.LiabilitiesAndEquity -
		(r.Liabilities + r.CommitmentsAndContingencies + r.TemporaryEquity + r.Equity)

	if bs1 != 0 {
		log.Debug("BS1: equity != parent + noncontrolling interest",
			zap.Float64("equity", r.Equity),
			zap.Float64("parent", r.EquityAttributableToParent),
			zap.Float64("noncontrolling", r.EquityAttributableToNoncontrollingInterest),
			zap.Float64("residual", bs1))
	}
	if bs2 != 0 {
		log.Debug("BS2: assets != liabilities and equity",
			zap.Float64("assets", r.Assets),
			zap.Float64("liabilities_and_equity", r.LiabilitiesAndEquity),
			zap.Float64("residual", bs2))
	}
	if bs3 != 0 {
		log.Debug("BS3: assets != current + noncurrent assets",
			zap.Float64("assets", r.Assets),
			zap.Float64("current", r.CurrentAssets),
			zap.Float64("noncurrent", r.NoncurrentAssets),
			zap.Float64("residual", bs3))
	}
	if bs4 != 0 {
		log.Debug("BS4: liabilities != current + noncurrent liabilities",
			zap.Float64("liabilities", r.Liabilities),
			zap.Float64("current", r.CurrentLiabilities),
			zap.Float64("noncurrent", r.NoncurrentLiabilities),
			zap.Float64("residual", bs4))
	}
	if bs5 != 0 {
		log.Debug("BS5: liabilities and equity != components",
			zap.Float64("liabilities_and_equity", r.LiabilitiesAndEquity),
			zap.Float64("liabilities", r.Liabilities),
			zap.Float64("commitments", r.CommitmentsAndContingencies),
			zap.Float64("temporary_equity", r.TemporaryEquity),
			zap.Float64("equity", r.Equity),
			zap.Float64("residual", bs5))
	}
}

func checkIncomeStatement(r *Record, log *zap.Logger) {
	residuals := []struct {
		name  string
		value float64
	}{
		{"IS1: gross profit != revenues - cost of revenue",
			(r.Revenues - r.CostOfRevenue) - r.GrossProfit},
		{"IS2: operating income != gross profit - opex + other operating income",
			(r.GrossProfit - r.OperatingExpenses + r.OtherOperatingIncome) - r.OperatingIncomeLoss},
		{"IS3: income before equity method != operating + nonoperating and interest",
			(r.OperatingIncomeLoss + r.NonoperatingIncomeLossPlusInterestAndDebtExpense) - r.IncomeBeforeEquityMethodInvestments},
		{"IS4: continuing before tax != before equity method + equity method",
			(r.IncomeBeforeEquityMethodInvestments + r.IncomeFromEquityMethodInvestments) - r.IncomeFromContinuingOperationsBeforeTax},
		{"IS5: continuing after tax != before tax - tax",
			(r.IncomeFromContinuingOperationsBeforeTax - r.IncomeTaxExpenseBenefit) - r.IncomeFromContinuingOperationsAfterTax},
		{"IS6: net income != continuing + discontinued + extraordinary",
			(r.IncomeFromContinuingOperationsAfterTax + r.IncomeFromDiscontinuedOperations + r.ExtraordinaryItemsGainLoss) - r.NetIncomeLoss},
		{"IS7: net income != parent + noncontrolling interest",
			(r.NetIncomeAttributableToParent + r.NetIncomeAttributableToNoncontrollingInterest) - r.NetIncomeLoss},
		{"IS8: available to common != parent - preferred adjustments",
			(r.NetIncomeAttributableToParent - r.PreferredStockDividendsAndOtherAdjustments) - r.NetIncomeAvailableToCommonStockholdersBasic},
		{"IS9: comprehensive income != parent + noncontrolling interest",
			(r.ComprehensiveIncomeAttributableToParent + r.ComprehensiveIncomeAttributableToNCI) - r.ComprehensiveIncome},
		{"IS10: comprehensive income != net income + other comprehensive",
			(r.NetIncomeLoss + r.OtherComprehensiveIncome) - r.ComprehensiveIncome},
		{"IS11: operating income != revenues - costs and expenses + other operating income",
			r.OperatingIncomeLoss - (r.Revenues - r.CostsAndExpenses + r.OtherOperatingIncome)},
	}

	for _, res := range residuals {
		if res.value != 0 {
			log.Debug(res.name, zap.Float64("residual", res.value))
		}
	}
}

func checkCashFlow(r *Record, log *zap.Logger) {
	cf1 := r.NetCashFlow - (r.NetCashFlowsOperating + r.NetCashFlowsInvesting +
		r.NetCashFlowsFinancing + r.ExchangeGainsLosses)
	if cf1 != 0 && cf1 == -r.ExchangeGainsLosses {
		cf1 = cfExchangeVariantMarker
	}

	residuals := []struct {
		name  string
		value float64
	}{
		{"CF1: net cash flow != activities + exchange effect", cf1},
		{"CF2: continuing != continuing components",
			r.NetCashFlowsContinuing - (r.NetCashFlowsOperatingContinuing + r.NetCashFlowsInvestingContinuing + r.NetCashFlowsFinancingContinuing)},
		{"CF3: discontinued != discontinued components",
			r.NetCashFlowsDiscontinued - (r.NetCashFlowsOperatingDiscontinued + r.NetCashFlowsInvestingDiscontinued + r.NetCashFlowsFinancingDiscontinued)},
		{"CF4: operating != continuing + discontinued",
			r.NetCashFlowsOperating - (r.NetCashFlowsOperatingContinuing + r.NetCashFlowsOperatingDiscontinued)},
		{"CF5: investing != continuing + discontinued",
			r.NetCashFlowsInvesting - (r.NetCashFlowsInvestingContinuing + r.NetCashFlowsInvestingDiscontinued)},
		{"CF6: financing != continuing + discontinued",
			r.NetCashFlowsFinancing - (r.NetCashFlowsFinancingContinuing + r.NetCashFlowsFinancingDiscontinued)},
	}

	for _, res := range residuals {
		if res.value != 0 {
			log.Debug(res.name, zap.Float64("residual", res.value))
		}
	}
}
