// Package index parses EDGAR master index files and decides which
// entries the store is missing.
package index

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// settlingWindow holds back the newest index rows: EDGAR publishes
// same-day rows incrementally, so an entry is only ingested once its
// filing date is at least this far in the past.
const settlingWindow = 48 * time.Hour

const dateLayout = "2006-01-02"

// Entry is one row of an EDGAR master index file.
type Entry struct {
	CIK         string
	CompanyName string
	FormType    string
	FilingDate  time.Time
	TxtLink     string
	HTMLLink    string
}

// AccessionNumber derives the accession number from the entry's link,
// e.g. edgar/data/320193/0000320193-21-000105.txt -> 0000320193-21-000105.
func (e Entry) AccessionNumber() string {
	link := e.HTMLLink
	if link == "" {
		link = e.TxtLink
	}
	if i := strings.LastIndex(link, "/"); i >= 0 {
		link = link[i+1:]
	}
	link = strings.TrimSuffix(link, "-index.html")
	link = strings.TrimSuffix(link, ".txt")
	return link
}

// ParseMasterIndex reads a pipe-delimited master index:
//
//	CIK|Company Name|Form Type|Date Filed|Filename[|Index Filename]
//
// Header and separator lines are skipped. When the row carries no
// sixth column the index link is derived from the filing's txt link.
func ParseMasterIndex(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var entries []Entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "index: read master index")
		}
		if len(row) < 5 {
			continue
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(row[3]))
		if err != nil {
			// Header or separator line.
			continue
		}
		entry := Entry{
			CIK:         strings.TrimSpace(row[0]),
			CompanyName: strings.TrimSpace(row[1]),
			FormType:    strings.TrimSpace(row[2]),
			FilingDate:  date,
			TxtLink:     strings.TrimSpace(row[4]),
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			entry.HTMLLink = strings.TrimSpace(row[5])
		} else {
			entry.HTMLLink = strings.TrimSuffix(entry.TxtLink, ".txt") + "-index.html"
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Select returns the entries the store is missing. With no stored
// bounds everything is selected. Otherwise an entry qualifies when it
// is newer than the last stored date and old enough to have settled,
// or older than the first stored date (back-fill). Entries dated
// exactly at the last stored date are already present.
func Select(entries []Entry, first, last *time.Time, today time.Time) []Entry {
	if last == nil {
		return entries
	}

	var selected []Entry
	for _, e := range entries {
		newAndSettled := e.FilingDate.After(*last) && !e.FilingDate.Add(settlingWindow).After(today)
		backfill := first != nil && e.FilingDate.Before(*first)
		if newAndSettled || backfill {
			selected = append(selected, e)
		}
	}
	return selected
}
