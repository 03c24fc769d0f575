package fundamentals

// Ordered alias chains for concepts that filers tag inconsistently.
// The first concept with a fact in the selected context wins.

var revenuesAliases = []string{
	"us-gaap:Revenues",
	"us-gaap:SalesRevenueNet",
	"us-gaap:SalesRevenueServicesNet",
	"us-gaap:RevenuesNetOfInterestExpense",
	"us-gaap:RegulatedAndUnregulatedOperatingRevenue",
	"us-gaap:HealthCareOrganizationRevenue",
	"us-gaap:InterestAndDividendIncomeOperating",
	"us-gaap:RealEstateRevenueNet",
	"us-gaap:RevenueMineralSales",
	"us-gaap:OilAndGasRevenue",
	"us-gaap:FinancialServicesRevenue",
}

var equityAliases = []string{
	"us-gaap:StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	"us-gaap:StockholdersEquity",
	"us-gaap:PartnersCapitalIncludingPortionAttributableToNoncontrollingInterest",
	"us-gaap:PartnersCapital",
	"us-gaap:CommonStockholdersEquity",
	"us-gaap:MemberEquity",
	"us-gaap:AssetsNet",
}

var temporaryEquityAliases = []string{
	"us-gaap:TemporaryEquityRedemptionValue",
	"us-gaap:RedeemablePreferredStockCarryingAmount",
	"us-gaap:TemporaryEquityCarryingAmount",
	"us-gaap:TemporaryEquityValueExcludingAdditionalPaidInCapital",
	"us-gaap:TemporaryEquityCarryingAmountAttributableToParent",
	"us-gaap:RedeemableNoncontrollingInterestEquityFairValue",
}

var redeemableNCIAliases = []string{
	"us-gaap:RedeemableNoncontrollingInterestEquityCarryingAmount",
	"us-gaap:RedeemableNoncontrollingInterestEquityCommonCarryingAmount",
}

var liabilitiesAndEquityAliases = []string{
	"us-gaap:LiabilitiesAndStockholdersEquity",
	"us-gaap:LiabilitiesAndPartnersCapital",
}

var equityNCIAliases = []string{
	"us-gaap:MinorityInterest",
	"us-gaap:PartnersCapitalAttributableToNoncontrollingInterest",
}

// The second alias looks wrong on paper but matches long-standing filer
// behavior for partnerships that never tag StockholdersEquity.
var equityParentAliases = []string{
	"us-gaap:StockholdersEquity",
	"us-gaap:LiabilitiesAndPartnersCapital",
}

var costOfRevenueAliases = []string{
	"us-gaap:CostOfRevenue",
	"us-gaap:CostOfServices",
	"us-gaap:CostOfGoodsSold",
	"us-gaap:CostOfGoodsAndServicesSold",
}

var operatingExpensesAliases = []string{
	"us-gaap:OperatingExpenses",
	"us-gaap:OperatingCostsAndExpenses",
}

var incomeContinuingBeforeTaxAliases = []string{
	"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesMinorityInterestAndIncomeLossFromEquityMethodInvestments",
	"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
}

var incomeTaxAliases = []string{
	"us-gaap:IncomeTaxExpenseBenefit",
	"us-gaap:IncomeTaxExpenseBenefitContinuingOperations",
}

var discontinuedOperationsAliases = []string{
	"us-gaap:IncomeLossFromDiscontinuedOperationsNetOfTax",
	"us-gaap:DiscontinuedOperationGainLossOnDisposalOfDiscontinuedOperationNetOfTax",
	"us-gaap:IncomeLossFromDiscontinuedOperationsNetOfTaxAttributableToReportingEntity",
}

var netIncomeAliases = []string{
	"us-gaap:ProfitLoss",
	"us-gaap:NetIncomeLoss",
	"us-gaap:NetIncomeLossAvailableToCommonStockholdersBasic",
	"us-gaap:IncomeLossFromContinuingOperations",
	"us-gaap:IncomeLossAttributableToParent",
	"us-gaap:IncomeLossFromContinuingOperationsIncludingPortionAttributableToNoncontrollingInterest",
}

var comprehensiveIncomeAliases = []string{
	"us-gaap:ComprehensiveIncomeNetOfTaxIncludingPortionAttributableToNoncontrollingInterest",
	"us-gaap:ComprehensiveIncomeNetOfTax",
}

var netCashFlowAliases = []string{
	"us-gaap:CashAndCashEquivalentsPeriodIncreaseDecrease",
	"us-gaap:CashPeriodIncreaseDecrease",
	"us-gaap:NetCashProvidedByUsedInContinuingOperations",
}

var exchangeGainsAliases = []string{
	"us-gaap:EffectOfExchangeRateOnCashAndCashEquivalents",
	"us-gaap:EffectOfExchangeRateOnCashAndCashEquivalentsContinuingOperations",
	"us-gaap:CashProvidedByUsedInFinancingActivitiesDiscontinuedOperations",
}
