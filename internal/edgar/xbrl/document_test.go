package xbrl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInstance = `<?xml version="1.0" encoding="utf-8"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance"
      xmlns:xbrli="http://www.xbrl.org/2003/instance"
      xmlns:xbrldi="http://xbrl.org/2006/xbrldi"
      xmlns:us-gaap="http://fasb.org/us-gaap/2021-01-31"
      xmlns:dei="http://xbrl.sec.gov/dei/2021"
      xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <xbrli:context id="I2021Q4">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:instant>2021-12-31</xbrli:instant>
    </xbrli:period>
  </xbrli:context>
  <xbrli:context id="I2021Q4_Seg">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
      <xbrli:segment>
        <xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">us-gaap:OperatingSegmentsMember</xbrldi:explicitMember>
      </xbrli:segment>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:instant>2021-12-31</xbrli:instant>
    </xbrli:period>
  </xbrli:context>
  <xbrli:context id="D2021">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2021-01-01</xbrli:startDate>
      <xbrli:endDate>2021-12-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <xbrli:context id="D2021Q4">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2021-10-01</xbrli:startDate>
      <xbrli:endDate>2021-12-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <dei:DocumentPeriodEndDate contextRef="D2021">2021-12-31</dei:DocumentPeriodEndDate>
  <dei:EntityRegistrantName contextRef="D2021">Example Corp</dei:EntityRegistrantName>
  <us-gaap:Assets contextRef="I2021Q4" unitRef="usd" decimals="-3">1000000</us-gaap:Assets>
  <us-gaap:Assets contextRef="I2021Q4_Seg" unitRef="usd" decimals="-3">400000</us-gaap:Assets>
  <us-gaap:AssetsCurrent contextRef="I2021Q4" unitRef="usd">250000</us-gaap:AssetsCurrent>
  <us-gaap:NetIncomeLoss contextRef="D2021" unitRef="usd">90000</us-gaap:NetIncomeLoss>
  <us-gaap:NetIncomeLoss contextRef="D2021Q4" unitRef="usd">20000</us-gaap:NetIncomeLoss>
  <us-gaap:CommitmentsAndContingencies contextRef="I2021Q4" xsi:nil="true"/>
  <us-gaap:Revenues contextRef="D2021" unitRef="usd">not-a-number</us-gaap:Revenues>
</xbrl>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(sampleInstance))
	require.NoError(t, err)
	return doc
}

func TestParseContexts(t *testing.T) {
	doc := parseSample(t)

	ctx, ok := doc.Context("I2021Q4")
	require.True(t, ok)
	assert.Equal(t, "2021-12-31", ctx.Instant)
	assert.False(t, ctx.Dimensional)

	seg, ok := doc.Context("I2021Q4_Seg")
	require.True(t, ok)
	assert.True(t, seg.Dimensional)

	dur, ok := doc.Context("D2021")
	require.True(t, ok)
	assert.Equal(t, "2021-01-01", dur.StartDate)
	assert.Equal(t, "2021-12-31", dur.EndDate)
	assert.Empty(t, dur.Instant)

	assert.Equal(t, []string{"I2021Q4", "I2021Q4_Seg", "D2021", "D2021Q4"}, doc.ContextIDs())
}

func TestParseFacts(t *testing.T) {
	doc := parseSample(t)

	facts := doc.Facts("us-gaap:Assets")
	require.Len(t, facts, 2)
	assert.Equal(t, "I2021Q4", facts[0].ContextRef)
	assert.Equal(t, "1000000", facts[0].Value)

	fact, ok := doc.FactFor("us-gaap:NetIncomeLoss", "D2021Q4")
	require.True(t, ok)
	assert.Equal(t, "20000", fact.Value)

	_, ok = doc.FactFor("us-gaap:NetIncomeLoss", "nope")
	assert.False(t, ok)
}

func TestPeriodEnd(t *testing.T) {
	doc := parseSample(t)
	assert.Equal(t, "2021-12-31", doc.PeriodEnd())
}

func TestPeriodEndMissing(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<xbrl xmlns="http://www.xbrl.org/2003/instance"></xbrl>`))
	require.NoError(t, err)
	assert.Empty(t, doc.PeriodEnd())
}

func TestNumericFact(t *testing.T) {
	doc := parseSample(t)

	v, ok := doc.NumericFact("us-gaap:Assets", "I2021Q4")
	require.True(t, ok)
	assert.Equal(t, 1000000.0, v)

	// nil-marked fact resolves to zero, present
	v, ok = doc.NumericFact("us-gaap:CommitmentsAndContingencies", "I2021Q4")
	require.True(t, ok)
	assert.Zero(t, v)

	// unparsable numeric text is absent, not zero
	_, ok = doc.NumericFact("us-gaap:Revenues", "D2021")
	assert.False(t, ok)

	// empty context id never matches
	_, ok = doc.NumericFact("us-gaap:Assets", "")
	assert.False(t, ok)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<xbrl><unclosed>`))
	require.Error(t, err)
}
