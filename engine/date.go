package engine

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the layout of canonical date keys.
const DateKeyLayout = "2006-01-02"

var dateLayouts = []string{
	DateKeyLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"02/01/2006",
	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDateFromFormat parses the date formats the data store emits. Dates
// without an offset are read in loc.
func ParseDateFromFormat(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// DateKeyOf truncates t to its calendar day in loc.
func DateKeyOf(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateKeyLayout)
}
