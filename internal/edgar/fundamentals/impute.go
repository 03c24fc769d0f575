package fundamentals

// Imputations fill in concepts filers left untagged using the
// accounting identities between them. Every rule is guarded so it only
// fires while its target is still zero, which keeps the whole pass
// idempotent: re-deriving an already-derived record changes nothing.

func imputeBalanceSheet(r *Record) {
	// Total assets missing entirely, current assets carry the total.
	if r.Assets == 0 && r.Assets == r.LiabilitiesAndEquity && r.CurrentAssets == r.LiabilitiesAndEquity {
		r.Assets = r.CurrentAssets
	}
	if r.Assets == 0 && r.LiabilitiesAndEquity != 0 && r.CurrentAssets == r.LiabilitiesAndEquity {
		r.Assets = r.CurrentAssets
	}
	if r.Assets == 0 && r.NoncurrentAssets == 0 && r.LiabilitiesAndEquity != 0 &&
		r.LiabilitiesAndEquity == r.Liabilities+r.Equity {
		r.Assets = r.CurrentAssets
	}

	if r.Assets != 0 && r.CurrentAssets != 0 {
		r.NoncurrentAssets = r.Assets - r.CurrentAssets
	}

	if r.LiabilitiesAndEquity == 0 && r.Assets != 0 {
		r.LiabilitiesAndEquity = r.Assets
	}

	// Equity from parent and noncontrolling interest.
	if r.EquityAttributableToNoncontrollingInterest != 0 && r.EquityAttributableToParent != 0 {
		r.Equity = r.EquityAttributableToParent + r.EquityAttributableToNoncontrollingInterest
	}
	if r.Equity == 0 && r.EquityAttributableToNoncontrollingInterest == 0 && r.EquityAttributableToParent != 0 {
		r.Equity = r.EquityAttributableToParent
	}
	if r.Equity == 0 {
		r.Equity = r.EquityAttributableToParent + r.EquityAttributableToNoncontrollingInterest
	}

	// And the reverse: parent share from total equity.
	if r.Equity != 0 && r.EquityAttributableToNoncontrollingInterest != 0 && r.EquityAttributableToParent == 0 {
		r.EquityAttributableToParent = r.Equity - r.EquityAttributableToNoncontrollingInterest
	}
	if r.Equity != 0 && r.EquityAttributableToNoncontrollingInterest == 0 && r.EquityAttributableToParent == 0 {
		r.EquityAttributableToParent = r.Equity
	}

	// Liabilities from the balance sheet identity.
	if r.Liabilities == 0 && r.Equity != 0 {
		r.Liabilities = r.LiabilitiesAndEquity -
			(r.CommitmentsAndContingencies + r.TemporaryEquity + r.Equity)
	}

	if r.Liabilities != 0 && r.CurrentLiabilities != 0 {
		r.NoncurrentLiabilities = r.Liabilities - r.CurrentLiabilities
	}

	if r.Liabilities == 0 && r.CurrentLiabilities != 0 && r.NoncurrentLiabilities == 0 {
		r.Liabilities = r.CurrentLiabilities
	}
}

func imputeIncomeStatement(r *Record) {
	r.NonoperatingIncomeLossPlusInterestAndDebtExpense = r.NonoperatingIncomeLoss + r.InterestAndDebtExpense

	if r.NetIncomeAvailableToCommonStockholdersBasic == 0 &&
		r.PreferredStockDividendsAndOtherAdjustments == 0 && r.NetIncomeAttributableToParent != 0 {
		r.NetIncomeAvailableToCommonStockholdersBasic = r.NetIncomeAttributableToParent
	}

	if r.NetIncomeLoss != 0 && r.IncomeFromContinuingOperationsAfterTax == 0 {
		r.IncomeFromContinuingOperationsAfterTax = r.NetIncomeLoss -
			r.IncomeFromDiscontinuedOperations - r.ExtraordinaryItemsGainLoss
	}

	if r.NetIncomeAttributableToParent == 0 &&
		r.NetIncomeAttributableToNoncontrollingInterest == 0 && r.NetIncomeLoss != 0 {
		r.NetIncomeAttributableToParent = r.NetIncomeLoss
	}

	if r.PreferredStockDividendsAndOtherAdjustments == 0 &&
		r.NetIncomeAttributableToParent != 0 && r.NetIncomeAvailableToCommonStockholdersBasic != 0 {
		r.PreferredStockDividendsAndOtherAdjustments = r.NetIncomeAttributableToParent -
			r.NetIncomeAvailableToCommonStockholdersBasic
	}

	// Comprehensive income family.
	if r.ComprehensiveIncomeAttributableToParent == 0 && r.ComprehensiveIncomeAttributableToNCI == 0 &&
		r.ComprehensiveIncome == 0 && r.OtherComprehensiveIncome == 0 {
		r.ComprehensiveIncome = r.NetIncomeLoss
	}
	if r.ComprehensiveIncome != 0 && r.OtherComprehensiveIncome == 0 {
		r.OtherComprehensiveIncome = r.ComprehensiveIncome - r.NetIncomeLoss
	}
	if r.ComprehensiveIncomeAttributableToParent == 0 && r.ComprehensiveIncomeAttributableToNCI == 0 &&
		r.ComprehensiveIncome != 0 {
		r.ComprehensiveIncomeAttributableToParent = r.ComprehensiveIncome
	}

	// Continuing operations before and after tax.
	if r.IncomeBeforeEquityMethodInvestments != 0 && r.IncomeFromEquityMethodInvestments != 0 &&
		r.IncomeFromContinuingOperationsBeforeTax == 0 {
		r.IncomeFromContinuingOperationsBeforeTax = r.IncomeBeforeEquityMethodInvestments +
			r.IncomeFromEquityMethodInvestments
	}
	if r.IncomeFromContinuingOperationsBeforeTax == 0 && r.IncomeFromContinuingOperationsAfterTax != 0 {
		r.IncomeFromContinuingOperationsBeforeTax = r.IncomeFromContinuingOperationsAfterTax +
			r.IncomeTaxExpenseBenefit
	}
	if r.IncomeFromContinuingOperationsAfterTax == 0 && r.IncomeFromContinuingOperationsBeforeTax != 0 {
		r.IncomeFromContinuingOperationsAfterTax = r.IncomeFromContinuingOperationsBeforeTax -
			r.IncomeTaxExpenseBenefit
	}

	// Gross profit triangle: any one of the three can be recovered from
	// the other two.
	if r.GrossProfit == 0 && r.Revenues != 0 && r.CostOfRevenue != 0 {
		r.GrossProfit = r.Revenues - r.CostOfRevenue
	}
	if r.GrossProfit != 0 && r.Revenues == 0 && r.CostOfRevenue != 0 {
		r.Revenues = r.GrossProfit + r.CostOfRevenue
	}
	if r.GrossProfit != 0 && r.Revenues != 0 && r.CostOfRevenue == 0 {
		r.CostOfRevenue = r.Revenues - r.GrossProfit
	}

	// Costs and expenses, single-step statements only.
	if r.GrossProfit == 0 && r.CostsAndExpenses == 0 && r.CostOfRevenue != 0 && r.OperatingExpenses != 0 {
		r.CostsAndExpenses = r.CostOfRevenue + r.OperatingExpenses
	}
	if r.CostsAndExpenses == 0 && r.OperatingExpenses != 0 && r.CostOfRevenue != 0 {
		r.CostsAndExpenses = r.CostOfRevenue + r.OperatingExpenses
	}
	if r.GrossProfit == 0 && r.CostsAndExpenses == 0 && r.Revenues != 0 &&
		r.OperatingIncomeLoss != 0 && r.OtherOperatingIncome != 0 {
		r.CostsAndExpenses = r.Revenues - r.OperatingIncomeLoss - r.OtherOperatingIncome
	}

	if r.CostOfRevenue != 0 && r.CostsAndExpenses != 0 && r.OperatingExpenses == 0 {
		r.OperatingExpenses = r.CostsAndExpenses - r.CostOfRevenue
	}

	if r.Revenues != 0 && r.GrossProfit == 0 &&
		r.Revenues-r.CostsAndExpenses == r.OperatingIncomeLoss &&
		r.OperatingExpenses == 0 && r.OtherOperatingIncome == 0 {
		r.CostOfRevenue = r.CostsAndExpenses - r.OperatingExpenses
	}

	if r.IncomeBeforeEquityMethodInvestments == 0 && r.IncomeFromContinuingOperationsBeforeTax != 0 {
		r.IncomeBeforeEquityMethodInvestments = r.IncomeFromContinuingOperationsBeforeTax -
			r.IncomeFromEquityMethodInvestments
	}
	if r.OperatingIncomeLoss != 0 && r.NonoperatingIncomeLoss != 0 &&
		r.InterestAndDebtExpense == 0 && r.IncomeBeforeEquityMethodInvestments != 0 {
		r.InterestAndDebtExpense = r.IncomeBeforeEquityMethodInvestments -
			(r.OperatingIncomeLoss + r.NonoperatingIncomeLoss)
	}

	if r.GrossProfit != 0 && r.OperatingExpenses != 0 && r.OperatingIncomeLoss != 0 {
		r.OtherOperatingIncome = r.OperatingIncomeLoss - (r.GrossProfit - r.OperatingExpenses)
	}

	// Some filers report equity method investments above operating
	// income; move them below so the statement relations line up. A
	// reclassified record satisfies IncomeBeforeEquityMethodInvestments
	// == before-tax - equity method, so it is left alone on a re-run.
	if r.IncomeFromEquityMethodInvestments != 0 && r.IncomeBeforeEquityMethodInvestments != 0 &&
		r.IncomeBeforeEquityMethodInvestments != r.IncomeFromContinuingOperationsBeforeTax &&
		r.IncomeBeforeEquityMethodInvestments != r.IncomeFromContinuingOperationsBeforeTax-r.IncomeFromEquityMethodInvestments {
		r.IncomeBeforeEquityMethodInvestments = r.IncomeFromContinuingOperationsBeforeTax -
			r.IncomeFromEquityMethodInvestments
		r.OperatingIncomeLoss -= r.IncomeFromEquityMethodInvestments
	}

	if r.OperatingIncomeLoss == 0 && r.IncomeBeforeEquityMethodInvestments != 0 {
		r.OperatingIncomeLoss = r.IncomeBeforeEquityMethodInvestments +
			r.NonoperatingIncomeLoss - r.InterestAndDebtExpense
	}

	r.NonoperatingIncomePlusInterestAndDebtExpensePlusIncomeFromEquityMethodInvestments =
		r.IncomeFromContinuingOperationsBeforeTax - r.OperatingIncomeLoss

	if r.NonoperatingIncomeLossPlusInterestAndDebtExpense == 0 &&
		r.NonoperatingIncomePlusInterestAndDebtExpensePlusIncomeFromEquityMethodInvestments != 0 {
		r.NonoperatingIncomeLossPlusInterestAndDebtExpense =
			r.NonoperatingIncomePlusInterestAndDebtExpensePlusIncomeFromEquityMethodInvestments -
				r.IncomeFromEquityMethodInvestments
	}
}

func imputeCashFlow(r *Record) {
	if r.NetCashFlowsDiscontinued == 0 {
		r.NetCashFlowsDiscontinued = r.NetCashFlowsOperatingDiscontinued +
			r.NetCashFlowsInvestingDiscontinued + r.NetCashFlowsFinancingDiscontinued
	}

	if r.NetCashFlowsOperating != 0 && r.NetCashFlowsOperatingContinuing == 0 {
		r.NetCashFlowsOperatingContinuing = r.NetCashFlowsOperating - r.NetCashFlowsOperatingDiscontinued
	}
	if r.NetCashFlowsInvesting != 0 && r.NetCashFlowsInvestingContinuing == 0 {
		r.NetCashFlowsInvestingContinuing = r.NetCashFlowsInvesting - r.NetCashFlowsInvestingDiscontinued
	}
	if r.NetCashFlowsFinancing != 0 && r.NetCashFlowsFinancingContinuing == 0 {
		r.NetCashFlowsFinancingContinuing = r.NetCashFlowsFinancing - r.NetCashFlowsFinancingDiscontinued
	}

	if r.NetCashFlowsOperating == 0 && r.NetCashFlowsOperatingContinuing != 0 && r.NetCashFlowsOperatingDiscontinued == 0 {
		r.NetCashFlowsOperating = r.NetCashFlowsOperatingContinuing
	}
	if r.NetCashFlowsInvesting == 0 && r.NetCashFlowsInvestingContinuing != 0 && r.NetCashFlowsInvestingDiscontinued == 0 {
		r.NetCashFlowsInvesting = r.NetCashFlowsInvestingContinuing
	}
	if r.NetCashFlowsFinancing == 0 && r.NetCashFlowsFinancingContinuing != 0 && r.NetCashFlowsFinancingDiscontinued == 0 {
		r.NetCashFlowsFinancing = r.NetCashFlowsFinancingContinuing
	}

	r.NetCashFlowsContinuing = r.NetCashFlowsOperatingContinuing +
		r.NetCashFlowsInvestingContinuing + r.NetCashFlowsFinancingContinuing

	if r.NetCashFlow == 0 &&
		(r.NetCashFlowsOperating != 0 || r.NetCashFlowsInvesting != 0 || r.NetCashFlowsFinancing != 0) {
		r.NetCashFlow = r.NetCashFlowsOperating + r.NetCashFlowsInvesting + r.NetCashFlowsFinancing
	}
}

// deriveRatios computes the key ratios. A ratio stays nil whenever its
// denominator is zero.
func deriveRatios(r *Record) {
	if r.Revenues != 0 && r.Equity != 0 && r.Assets != 0 {
		margin := r.NetIncomeLoss / r.Revenues
		leverage := 1 + (r.Assets-r.Equity)/r.Equity
		denom := r.Assets/r.Revenues - margin*leverage
		if denom != 0 {
			sgr := margin * leverage / denom
			r.SGR = &sgr
		}
	}
	if r.Assets != 0 {
		roa := r.NetIncomeLoss / r.Assets
		r.ROA = &roa
	}
	if r.Equity != 0 {
		roe := r.NetIncomeLoss / r.Equity
		r.ROE = &roe
	}
	if r.Revenues != 0 {
		ros := r.NetIncomeLoss / r.Revenues
		r.ROS = &ros
	}
}
