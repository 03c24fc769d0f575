package index

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const masterSample = `Description:           Master Index of EDGAR Dissemination Feed
Last Data Received:    June 30, 2021

CIK|Company Name|Form Type|Date Filed|Filename
--------------------------------------------------------------------------------
320193|Apple Inc.|10-Q|2021-04-29|edgar/data/320193/0000320193-21-000056.txt
789019|MICROSOFT CORP|10-Q|2021-04-27|edgar/data/789019/0001564590-21-021563.txt|edgar/data/789019/0001564590-21-021563-index.html
1018724|AMAZON COM INC|8-K|2021-04-30|edgar/data/1018724/0001018724-21-000011.txt
`

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestParseMasterIndex(t *testing.T) {
	entries, err := ParseMasterIndex(strings.NewReader(masterSample))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "320193", entries[0].CIK)
	assert.Equal(t, "Apple Inc.", entries[0].CompanyName)
	assert.Equal(t, "10-Q", entries[0].FormType)
	assert.Equal(t, date(t, "2021-04-29"), entries[0].FilingDate)
	assert.Equal(t, "edgar/data/320193/0000320193-21-000056.txt", entries[0].TxtLink)

	// Derived from the txt link when the row has no sixth column.
	assert.Equal(t, "edgar/data/320193/0000320193-21-000056-index.html", entries[0].HTMLLink)
	// Taken verbatim when present.
	assert.Equal(t, "edgar/data/789019/0001564590-21-021563-index.html", entries[1].HTMLLink)
}

func TestParseMasterIndexEmpty(t *testing.T) {
	entries, err := ParseMasterIndex(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAccessionNumber(t *testing.T) {
	e := Entry{HTMLLink: "edgar/data/320193/0000320193-21-000056-index.html"}
	assert.Equal(t, "0000320193-21-000056", e.AccessionNumber())

	e = Entry{TxtLink: "edgar/data/320193/0000320193-21-000056.txt"}
	assert.Equal(t, "0000320193-21-000056", e.AccessionNumber())
}

func TestSelectEmptyStore(t *testing.T) {
	entries := []Entry{
		{FilingDate: date(t, "2021-03-01")},
		{FilingDate: date(t, "2021-04-01")},
	}
	assert.Equal(t, entries, Select(entries, nil, nil, date(t, "2021-06-05")))
}

func TestSelectBounds(t *testing.T) {
	first := date(t, "2021-01-01")
	last := date(t, "2021-06-01")
	today := date(t, "2021-06-05")

	cases := []struct {
		name   string
		filed  string
		wanted bool
	}{
		{"new and settled", "2021-06-02", true},
		{"new but inside settling window", "2021-06-04", false},
		{"filed today", "2021-06-05", false},
		{"tie at last stored date", "2021-06-01", false},
		{"inside stored range", "2021-05-30", false},
		{"backfill before first", "2020-12-01", true},
		{"tie at first stored date", "2021-01-01", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := []Entry{{FilingDate: date(t, tc.filed)}}
			got := Select(entries, &first, &last, today)
			if tc.wanted {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestSelectSettlingBoundary(t *testing.T) {
	first := date(t, "2021-01-01")
	last := date(t, "2021-06-01")

	// Exactly two days old qualifies, one day short does not.
	entries := []Entry{{FilingDate: date(t, "2021-06-03")}}
	assert.Len(t, Select(entries, &first, &last, date(t, "2021-06-05")), 1)
	assert.Empty(t, Select(entries, &first, &last, date(t, "2021-06-04")))
}
