// Package engine turns normalized venue/event records and a FilterState into
// display cards. Everything here is a pure function of its arguments: no I/O,
// no logging, no package-level mutable state.
package engine

import (
	"time"
)

// DateParser converts a store-formatted date string into a time.
type DateParser func(s string) (time.Time, error)

// Engine carries the calendar settings every stage shares.
type Engine struct {
	location  *time.Location
	parseDate DateParser
}

// New returns an Engine that buckets dates in loc using ParseDateFromFormat.
// A nil loc means time.Local.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		location: loc,
		parseDate: func(s string) (time.Time, error) {
			return ParseDateFromFormat(s, loc)
		},
	}
}

// NewWithParser is New with a caller-supplied date parser.
func NewWithParser(loc *time.Location, parser DateParser) *Engine {
	e := New(loc)
	if parser != nil {
		e.parseDate = parser
	}
	return e
}

func (e *Engine) Location() *time.Location {
	return e.location
}

// ParseDate never fails loudly: ok is false for anything the parser rejects.
func (e *Engine) ParseDate(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := e.parseDate(s)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// DateKey returns the canonical day key for a store-formatted date.
func (e *Engine) DateKey(s string) (string, bool) {
	t, ok := e.ParseDate(s)
	if !ok {
		return "", false
	}
	return DateKeyOf(t, e.location), true
}
