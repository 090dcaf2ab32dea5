package importer

// dates.go parses the date cells users actually type into spreadsheets:
// US-style, EU-style, ISO, month names, and 2-digit years.

import (
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted. Years that
// would land more than this many years in the future are assumed to be in
// the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
// Month-first layouts come first, so "1/2/2026" reads as January 2nd.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	// Day-first layouts for columns where the source convention is
	// unambiguously European, such as lease off-hire dates.
	dayFirstLayouts = []string{
		"2-1-2006", "02-01-2006", "2/1/2006", "02/01/2006", "2.1.2006", "02.01.2006",
	}
)

// ParseDate parses a spreadsheet date cell. 4-digit year layouts are tried
// first since they are unambiguous, then 2-digit layouts with the pivot year
// adjustment. Returns false when no layout matches.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseDayFirstDate parses a date cell from a day-first source column,
// preferring DD-MM-YYYY readings before falling back to ParseDate.
func ParseDayFirstDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dayFirstLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return ParseDate(s)
}

// ISODate formats a parsed date the way the backend expects timestamps:
// ISO 8601 at midnight UTC.
func ISODate(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		Format("2006-01-02T15:04:05.000Z07:00")
}
