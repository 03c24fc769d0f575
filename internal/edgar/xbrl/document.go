// Package xbrl parses XBRL instance documents from EDGAR filings and
// resolves the reporting-period contexts used to extract facts.
package xbrl

import (
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PeriodKind distinguishes point-in-time facts from period facts.
type PeriodKind int

const (
	// Instant facts are balance-sheet positions as of one date.
	Instant PeriodKind = iota
	// Duration facts cover a start/end range (income, cash flow).
	Duration
)

// Context is one xbrli:context declaration binding facts to a reporting
// period and, optionally, to a dimensional (segment/member) qualifier.
type Context struct {
	ID          string
	Instant     string // ISO date, empty for duration contexts
	StartDate   string
	EndDate     string
	Dimensional bool // segment with at least one explicitMember
}

// Fact is a single tagged value in the document.
type Fact struct {
	Concept    string // namespace-qualified, e.g. "us-gaap:Assets"
	ContextRef string
	Value      string
	Nil        bool // xsi:nil="true"
}

// Document is a parsed XBRL instance.
type Document struct {
	contexts   map[string]Context
	contextIDs []string // document order
	facts      []Fact
	byConcept  map[string][]int // indexes into facts
}

var isoDateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Parse reads an XBRL instance document in a single token walk, collecting
// context declarations and tagged facts. Elements that are neither are
// skipped, so inline junk in real-world filings is tolerated.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{
		contexts:  make(map[string]Context),
		byConcept: make(map[string][]int),
	}

	decoder := xml.NewDecoder(r)
	// EDGAR instance documents occasionally declare latin-1.
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xbrl: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Local == "context" {
			ctx, err := parseContext(decoder, se)
			if err != nil {
				return nil, err
			}
			if ctx.ID != "" {
				doc.contexts[ctx.ID] = ctx
				doc.contextIDs = append(doc.contextIDs, ctx.ID)
			}
			continue
		}

		if contextRef := attrValue(se, "contextRef"); contextRef != "" {
			fact := Fact{
				Concept:    conceptName(se.Name),
				ContextRef: contextRef,
				Nil:        attrValue(se, "nil") == "true",
			}
			fact.Value, err = collectText(decoder, se)
			if err != nil {
				return nil, err
			}
			doc.byConcept[fact.Concept] = append(doc.byConcept[fact.Concept], len(doc.facts))
			doc.facts = append(doc.facts, fact)
		}
	}

	return doc, nil
}

// parseContext consumes a context subtree, capturing the period dates and
// whether the declaration carries a dimensional qualifier.
func parseContext(decoder *xml.Decoder, start xml.StartElement) (Context, error) {
	ctx := Context{ID: attrValue(start, "id")}

	depth := 1
	inSegment := false
	var textTarget *string

	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return ctx, eris.Wrap(err, "xbrl: parse context")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "segment":
				inSegment = true
			case "explicitMember":
				if inSegment {
					ctx.Dimensional = true
				}
			case "instant":
				textTarget = &ctx.Instant
			case "startDate":
				textTarget = &ctx.StartDate
			case "endDate":
				textTarget = &ctx.EndDate
			}
		case xml.CharData:
			if textTarget != nil {
				*textTarget += string(t)
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "segment" {
				inSegment = false
			}
			textTarget = nil
		}
	}

	ctx.Instant = strings.TrimSpace(ctx.Instant)
	ctx.StartDate = strings.TrimSpace(ctx.StartDate)
	ctx.EndDate = strings.TrimSpace(ctx.EndDate)
	return ctx, nil
}

// collectText consumes the element's subtree and returns its flattened
// character data. Fact elements are leaves in practice, but nested markup
// is tolerated.
func collectText(decoder *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return "", eris.Wrapf(err, "xbrl: read fact %s", conceptName(start.Name))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			depth--
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// conceptName maps a resolved XML name back to its conventional prefixed
// form. encoding/xml reports namespace URIs, not prefixes, so the URI is
// classified by its well-known host path.
func conceptName(name xml.Name) string {
	switch {
	case strings.Contains(name.Space, "fasb.org/us-gaap"):
		return "us-gaap:" + name.Local
	case strings.Contains(name.Space, "/dei"):
		return "dei:" + name.Local
	case name.Space == "":
		return name.Local
	default:
		return name.Space + ":" + name.Local
	}
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Context returns the context declaration with the given id.
func (d *Document) Context(id string) (Context, bool) {
	ctx, ok := d.contexts[id]
	return ctx, ok
}

// ContextIDs returns all context ids in document order.
func (d *Document) ContextIDs() []string {
	return d.contextIDs
}

// Facts returns all facts tagged with the concept, in document order.
func (d *Document) Facts(concept string) []Fact {
	idxs := d.byConcept[concept]
	out := make([]Fact, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, d.facts[i])
	}
	return out
}

// FirstFact returns the first fact tagged with the concept regardless of
// context, used for entity metadata that is context-independent.
func (d *Document) FirstFact(concept string) (Fact, bool) {
	idxs := d.byConcept[concept]
	if len(idxs) == 0 {
		return Fact{}, false
	}
	return d.facts[idxs[0]], true
}

// FactFor returns the first fact tagged with the concept under the given
// context id.
func (d *Document) FactFor(concept, contextID string) (Fact, bool) {
	for _, i := range d.byConcept[concept] {
		if d.facts[i].ContextRef == contextID {
			return d.facts[i], true
		}
	}
	return Fact{}, false
}

// PeriodEnd returns the document's declared reporting-period end date, or
// empty when the dei tag is missing or not a date.
func (d *Document) PeriodEnd() string {
	fact, ok := d.FirstFact("dei:DocumentPeriodEndDate")
	if !ok {
		return ""
	}
	m := isoDateRe.FindString(fact.Value)
	if m == "" {
		zap.L().Debug("document period end is not a date", zap.String("value", fact.Value))
	}
	return m
}

// NumericFact extracts the numeric value of the first fact for (concept,
// contextID). A nil-marked fact resolves to zero; an unparsable numeric
// string is logged and treated as absent so imputation can still fill the
// field later.
func (d *Document) NumericFact(concept, contextID string) (float64, bool) {
	if contextID == "" {
		return 0, false
	}
	fact, ok := d.FactFor(concept, contextID)
	if !ok {
		return 0, false
	}
	if fact.Nil {
		return 0, true
	}
	raw := strings.ReplaceAll(strings.TrimSpace(fact.Value), ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		zap.L().Debug("fact value is not numeric",
			zap.String("concept", concept),
			zap.String("value", fact.Value),
		)
		return 0, false
	}
	return v, true
}
