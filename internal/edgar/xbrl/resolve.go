package xbrl

import (
	"go.uber.org/zap"
)

// Contexts holds the resolved context ids for the filing's primary
// reporting period. Either id may be empty when no qualifying context
// exists; lookups against an empty id simply return no value.
type Contexts struct {
	Instant       string
	Duration      string
	DurationStart string // start date of the selected duration context (YTD)
}

// instantAnchors are concepts that always appear with an instant context
// in practice, used to discover the balance-sheet context.
var instantAnchors = []string{
	"us-gaap:Assets",
	"us-gaap:AssetsCurrent",
	"us-gaap:LiabilitiesAndStockholdersEquity",
}

// durationAnchors are concepts used to discover the income/cash-flow
// context.
var durationAnchors = []string{
	"us-gaap:CashAndCashEquivalentsPeriodIncreaseDecrease",
	"us-gaap:CashPeriodIncreaseDecrease",
	"us-gaap:NetIncomeLoss",
	"dei:DocumentPeriodEndDate",
}

// startDateSentinel is later than any real filing period start, so the
// first qualifying duration context always replaces it.
const startDateSentinel = "2099-01-01"

// Resolve finds the instant and duration context ids for the document's
// reporting period. Dimensionally qualified contexts are rejected. Among
// qualifying duration contexts the one with the earliest start date wins:
// the filing's primary period is the cumulative year-to-date one, not a
// narrower quarter-only window.
func Resolve(doc *Document, periodEnd string) Contexts {
	res := Contexts{DurationStart: startDateSentinel}
	if periodEnd == "" {
		res.DurationStart = ""
		return res
	}

	log := zap.L().With(zap.String("component", "xbrl.resolve"))

	// Instant context via anchor facts.
	for _, anchor := range instantAnchors {
		if res.Instant != "" {
			break
		}
		for _, fact := range doc.Facts(anchor) {
			ctx, ok := doc.Context(fact.ContextRef)
			if !ok {
				continue
			}
			if ctx.Instant == periodEnd && !ctx.Dimensional {
				res.Instant = ctx.ID
				break
			}
		}
	}

	// Fallback: any context with the right instant date that an Assets
	// fact actually references. Covers documents that never tag the
	// anchor concepts with a clean context.
	if res.Instant == "" {
		res.Instant = alternativeInstantContext(doc, periodEnd)
	}

	// Duration context via anchor facts, preferring the broadest
	// year-to-date window.
	for _, anchor := range durationAnchors {
		for _, fact := range doc.Facts(anchor) {
			ctx, ok := doc.Context(fact.ContextRef)
			if !ok {
				continue
			}
			if ctx.EndDate != periodEnd || ctx.Dimensional {
				continue
			}
			if ctx.StartDate != "" && ctx.StartDate <= res.DurationStart {
				res.DurationStart = ctx.StartDate
				res.Duration = ctx.ID
			}
		}
	}

	if res.Duration == "" {
		res.DurationStart = ""
	}

	if res.Instant == "" && res.Duration == "" {
		log.Debug("no qualifying context found", zap.String("period_end", periodEnd))
	}

	return res
}

// alternativeInstantContext scans contexts by instant date and accepts the
// first one referenced by a us-gaap:Assets fact.
func alternativeInstantContext(doc *Document, periodEnd string) string {
	for _, id := range doc.ContextIDs() {
		ctx, _ := doc.Context(id)
		if ctx.Instant != periodEnd {
			continue
		}
		if _, ok := doc.FactFor("us-gaap:Assets", id); ok {
			return id
		}
	}
	return ""
}
