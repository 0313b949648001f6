package engine

import (
	"sort"
	"strings"
	"time"

	"nightlife-server/models"
	"nightlife-server/models/event"
)

// DateIndex maps venues to the days they have events on, plus a global
// per-day event count. A venue with no parseable dates has no entry.
type DateIndex struct {
	ByVenue map[string][]models.DateOption
	Counts  map[string]int
}

// VenueDates returns the venue's options; ok is false when it has none.
func (idx DateIndex) VenueDates(venueID string) ([]models.DateOption, bool) {
	opts, ok := idx.ByVenue[venueID]
	return opts, ok
}

// BuildDateIndex indexes every event that has both a venue id and a
// parseable date. Other events are skipped, not reported.
func (e *Engine) BuildDateIndex(events []event.Event, now time.Time) DateIndex {
	idx := DateIndex{
		ByVenue: make(map[string][]models.DateOption),
		Counts:  make(map[string]int),
	}
	todayKey := DateKeyOf(now, e.location)
	seen := make(map[string]map[string]struct{})

	for _, ev := range events {
		if ev.VenueID == "" {
			continue
		}
		t, ok := e.ParseDate(ev.EventDate)
		if !ok {
			continue
		}
		key := DateKeyOf(t, e.location)
		idx.Counts[key]++

		venueSeen, ok := seen[ev.VenueID]
		if !ok {
			venueSeen = make(map[string]struct{})
			seen[ev.VenueID] = venueSeen
		}
		if _, dup := venueSeen[key]; dup {
			continue
		}
		venueSeen[key] = struct{}{}
		idx.ByVenue[ev.VenueID] = append(idx.ByVenue[ev.VenueID], e.dateOption(t, todayKey))
	}

	for id := range idx.ByVenue {
		sortDateOptions(idx.ByVenue[id])
	}
	return idx
}

// GlobalDateOptions lists every indexed day with its event count. Extra
// dates (such as the store's filter-option dates) are added with a zero
// count when no event falls on them; unparseable extras are dropped.
func (e *Engine) GlobalDateOptions(idx DateIndex, now time.Time, extraDates ...string) []models.DateOption {
	todayKey := DateKeyOf(now, e.location)
	out := make([]models.DateOption, 0, len(idx.Counts)+len(extraDates))
	for key, count := range idx.Counts {
		t, err := time.ParseInLocation(DateKeyLayout, key, e.location)
		if err != nil {
			continue
		}
		opt := e.dateOption(t, todayKey)
		opt.Count = count
		out = append(out, opt)
	}
	for _, opt := range e.DateOptionsFromStrings(extraDates, now) {
		if _, indexed := idx.Counts[opt.DateKey]; !indexed {
			out = append(out, opt)
		}
	}
	sortDateOptions(out)
	return out
}

// DateOptionsFromStrings converts the filter-options date list. Unparseable
// and repeated days are dropped.
func (e *Engine) DateOptionsFromStrings(dates []string, now time.Time) []models.DateOption {
	todayKey := DateKeyOf(now, e.location)
	seen := make(map[string]struct{}, len(dates))
	out := make([]models.DateOption, 0, len(dates))
	for _, d := range dates {
		t, ok := e.ParseDate(strings.TrimSpace(d))
		if !ok {
			continue
		}
		key := DateKeyOf(t, e.location)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.dateOption(t, todayKey))
	}
	sortDateOptions(out)
	return out
}

func (e *Engine) dateOption(t time.Time, todayKey string) models.DateOption {
	local := t.In(e.location)
	key := local.Format(DateKeyLayout)
	return models.DateOption{
		Weekday: local.Format("Mon"),
		Label:   local.Format("Jan 2"),
		DateKey: key,
		IsToday: key == todayKey,
	}
}

// Date keys are zero-padded ISO days, so lexical order is calendar order.
func sortDateOptions(opts []models.DateOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].DateKey < opts[j].DateKey
	})
}
