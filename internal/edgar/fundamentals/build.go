package fundamentals

import (
	"go.uber.org/zap"

	"github.com/sells-group/edgar-ingest/internal/edgar/xbrl"
)

// BaseInfo extracts the entity metadata that does not depend on the
// reporting period context. Untagged fields get the "NULL" sentinel,
// except the trading symbol which gets "Not Provided".
func BaseInfo(doc *xbrl.Document) *Record {
	rec := &Record{}
	rec.EntityRegistrantName = metaField(doc, "dei:EntityRegistrantName", MissingValue)
	rec.FiscalYear = metaField(doc, "dei:CurrentFiscalYearEndDate", MissingValue)
	rec.EntityCentralIndexKey = metaField(doc, "dei:EntityCentralIndexKey", MissingValue)
	rec.EntityFilerCategory = metaField(doc, "dei:EntityFilerCategory", MissingValue)
	rec.TradingSymbol = metaField(doc, "dei:TradingSymbol", MissingSymbol)
	rec.DocumentFiscalYearFocus = metaField(doc, "dei:DocumentFiscalYearFocus", MissingValue)
	rec.DocumentFiscalPeriodFocus = metaField(doc, "dei:DocumentFiscalPeriodFocus", MissingValue)
	rec.DocumentType = metaField(doc, "dei:DocumentType", MissingValue)
	return rec
}

func metaField(doc *xbrl.Document, concept, fallback string) string {
	if fact, ok := doc.FirstFact(concept); ok && fact.Value != "" {
		return fact.Value
	}
	return fallback
}

// Build derives the full fundamentals record for a filing: entity
// metadata, raw concept extraction through the alias chains, identity
// imputations for missing values, consistency checks and key ratios.
// When the document has no usable period end date only the metadata is
// populated.
func Build(doc *xbrl.Document) *Record {
	rec := BaseInfo(doc)
	log := zap.L().With(zap.String("component", "fundamentals"))

	periodEnd := doc.PeriodEnd()
	if periodEnd == "" {
		log.Debug("document period end date missing or not a date",
			zap.String("registrant", rec.EntityRegistrantName))
		return rec
	}

	ctxs := xbrl.Resolve(doc, periodEnd)
	rec.BalanceSheetDate = periodEnd
	rec.IncomeStatementPeriodYTD = ctxs.DurationStart
	rec.ContextForInstants = ctxs.Instant
	rec.ContextForDurations = ctxs.Duration

	src := source{doc: doc, ctxs: ctxs}
	extractBalanceSheet(src, rec)
	imputeBalanceSheet(rec)
	checkBalanceSheet(rec, log)

	extractIncomeStatement(src, rec)
	imputeIncomeStatement(rec)
	checkIncomeStatement(rec, log)

	extractCashFlow(src, rec)
	imputeCashFlow(rec)
	checkCashFlow(rec, log)

	deriveRatios(rec)
	return rec
}

// source reads numeric facts against the resolved period contexts.
// Chains return the first concept that has a fact, zero when none do.
type source struct {
	doc  *xbrl.Document
	ctxs xbrl.Contexts
}

func (s source) instant(concepts ...string) float64 {
	return s.first(s.ctxs.Instant, concepts)
}

func (s source) duration(concepts ...string) float64 {
	return s.first(s.ctxs.Duration, concepts)
}

func (s source) first(ctxID string, concepts []string) float64 {
	for _, c := range concepts {
		if v, ok := s.doc.NumericFact(c, ctxID); ok {
			return v
		}
	}
	return 0
}

func extractBalanceSheet(s source, r *Record) {
	r.Assets = s.instant("us-gaap:Assets")
	r.CurrentAssets = s.instant("us-gaap:AssetsCurrent")

	if v, ok := s.doc.NumericFact("us-gaap:AssetsNoncurrent", s.ctxs.Instant); ok {
		r.NoncurrentAssets = v
	} else if r.Assets != 0 && r.CurrentAssets != 0 {
		r.NoncurrentAssets = r.Assets - r.CurrentAssets
	}

	r.LiabilitiesAndEquity = s.instant(liabilitiesAndEquityAliases...)
	r.Liabilities = s.instant("us-gaap:Liabilities")
	r.CurrentLiabilities = s.instant("us-gaap:LiabilitiesCurrent")

	if v, ok := s.doc.NumericFact("us-gaap:LiabilitiesNoncurrent", s.ctxs.Instant); ok {
		r.NoncurrentLiabilities = v
	} else if r.Liabilities != 0 && r.CurrentLiabilities != 0 {
		r.NoncurrentLiabilities = r.Liabilities - r.CurrentLiabilities
	}

	r.CommitmentsAndContingencies = s.instant("us-gaap:CommitmentsAndContingencies")
	r.TemporaryEquity = s.instant(temporaryEquityAliases...)

	// Redeemable noncontrolling interest is rare but can be reported
	// separately from temporary equity.
	if r.TemporaryEquity != 0 {
		r.TemporaryEquity += s.instant(redeemableNCIAliases...)
	}

	r.Equity = s.instant(equityAliases...)
	r.EquityAttributableToNoncontrollingInterest = s.instant(equityNCIAliases...)
	r.EquityAttributableToParent = s.instant(equityParentAliases...)
}

func extractIncomeStatement(s source, r *Record) {
	r.Revenues = s.duration(revenuesAliases...)
	r.CostOfRevenue = s.duration(costOfRevenueAliases...)
	r.GrossProfit = s.duration("us-gaap:GrossProfit")
	r.OperatingExpenses = s.duration(operatingExpensesAliases...)
	r.CostsAndExpenses = s.duration("us-gaap:CostsAndExpenses")
	r.OtherOperatingIncome = s.duration("us-gaap:OtherOperatingIncome")
	r.OperatingIncomeLoss = s.duration("us-gaap:OperatingIncomeLoss")
	r.NonoperatingIncomeLoss = s.duration("us-gaap:NonoperatingIncomeExpense")
	r.InterestAndDebtExpense = s.duration("us-gaap:InterestAndDebtExpense")
	r.IncomeBeforeEquityMethodInvestments = s.duration(
		"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesMinorityInterestAndIncomeLossFromEquityMethodInvestments")
	r.IncomeFromEquityMethodInvestments = s.duration("us-gaap:IncomeLossFromEquityMethodInvestments")
	r.IncomeFromContinuingOperationsBeforeTax = s.duration(incomeContinuingBeforeTaxAliases...)
	r.IncomeTaxExpenseBenefit = s.duration(incomeTaxAliases...)
	r.IncomeFromContinuingOperationsAfterTax = s.duration(
		"us-gaap:IncomeLossBeforeExtraordinaryItemsAndCumulativeEffectOfChangeInAccountingPrinciple")
	r.IncomeFromDiscontinuedOperations = s.duration(discontinuedOperationsAliases...)
	r.ExtraordinaryItemsGainLoss = s.duration("us-gaap:ExtraordinaryItemNetOfTax")
	r.NetIncomeLoss = s.duration(netIncomeAliases...)
	r.NetIncomeAvailableToCommonStockholdersBasic = s.duration("us-gaap:NetIncomeLossAvailableToCommonStockholdersBasic")
	r.PreferredStockDividendsAndOtherAdjustments = s.duration("us-gaap:PreferredStockDividendsAndOtherAdjustments")
	r.NetIncomeAttributableToNoncontrollingInterest = s.duration("us-gaap:NetIncomeLossAttributableToNoncontrollingInterest")
	r.NetIncomeAttributableToParent = s.duration("us-gaap:NetIncomeLoss")
	r.OtherComprehensiveIncome = s.duration("us-gaap:OtherComprehensiveIncomeLossNetOfTax")
	r.ComprehensiveIncome = s.duration(comprehensiveIncomeAliases...)
	r.ComprehensiveIncomeAttributableToParent = s.duration("us-gaap:ComprehensiveIncomeNetOfTax")
	r.ComprehensiveIncomeAttributableToNCI = s.duration("us-gaap:ComprehensiveIncomeNetOfTaxAttributableToNoncontrollingInterest")
}

func extractCashFlow(s source, r *Record) {
	r.NetCashFlow = s.duration(netCashFlowAliases...)
	r.NetCashFlowsOperating = s.duration("us-gaap:NetCashProvidedByUsedInOperatingActivities")
	r.NetCashFlowsInvesting = s.duration("us-gaap:NetCashProvidedByUsedInInvestingActivities")
	r.NetCashFlowsFinancing = s.duration("us-gaap:NetCashProvidedByUsedInFinancingActivities")
	r.NetCashFlowsOperatingContinuing = s.duration("us-gaap:NetCashProvidedByUsedInOperatingActivitiesContinuingOperations")
	r.NetCashFlowsInvestingContinuing = s.duration("us-gaap:NetCashProvidedByUsedInInvestingActivitiesContinuingOperations")
	r.NetCashFlowsFinancingContinuing = s.duration("us-gaap:NetCashProvidedByUsedInFinancingActivitiesContinuingOperations")
	r.NetCashFlowsOperatingDiscontinued = s.duration("us-gaap:CashProvidedByUsedInOperatingActivitiesDiscontinuedOperations")
	r.NetCashFlowsInvestingDiscontinued = s.duration("us-gaap:CashProvidedByUsedInInvestingActivitiesDiscontinuedOperations")
	r.NetCashFlowsFinancingDiscontinued = s.duration("us-gaap:CashProvidedByUsedInFinancingActivitiesDiscontinuedOperations")
	r.NetCashFlowsDiscontinued = s.duration("us-gaap:NetCashProvidedByUsedInDiscontinuedOperations")
	r.ExchangeGainsLosses = s.duration(exchangeGainsAliases...)
}
