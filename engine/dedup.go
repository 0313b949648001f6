package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"nightlife-server/models"
)

// DedupPolicy names how listings that describe the same logical event are collapsed.
type DedupPolicy string

const (
	// DedupComposite keys on venue, name, day and start time; the most
	// complete listing wins.
	DedupComposite DedupPolicy = "composite"
	// DedupClosestToToday keys on venue and name only; the occurrence
	// nearest to now wins. Used to collapse recurring events.
	DedupClosestToToday DedupPolicy = "closest"
)

func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DedupComposite:
		return DedupComposite, nil
	case DedupClosestToToday:
		return DedupClosestToToday, nil
	default:
		return "", fmt.Errorf("unknown dedup policy %q", s)
	}
}

const keySeparator = "\x1f"

// CompletenessScore weighs how much optional data a listing carries.
func CompletenessScore(l models.Listing) int {
	ev, v := l.Event, l.Venue
	score := 0
	score += weight(ev.Artist != "", 2)
	score += weight(len(ev.MusicGenre) > 0, 2)
	score += weight(len(ev.EventVibe) > 0, 2)
	score += weight(ev.AnalysisNotes != "", 1)
	score += weight(ev.Subtitle != "", 1)
	score += weight(v.Instagram != "", 1)
	score += weight(v.Phone != "", 1)
	score += weight(v.Website != "", 1)
	score += weight(v.Address != "", 1)
	score += weight(len(v.Highlights) > 0, 1)
	return score
}

func weight(present bool, w int) int {
	if present {
		return w
	}
	return 0
}

// Dedupe applies the event-id pass followed by the given policy.
func (e *Engine) Dedupe(listings []models.Listing, policy DedupPolicy, now time.Time) []models.Listing {
	byID := e.DedupeByEventID(listings)
	switch policy {
	case DedupClosestToToday:
		return e.DedupeClosestToToday(byID, now)
	default:
		return e.DedupeComposite(byID)
	}
}

// DedupeByEventID collapses rows sharing an event id. Rows without an id are kept.
func (e *Engine) DedupeByEventID(listings []models.Listing) []models.Listing {
	return dedupe(listings,
		func(l models.Listing) (string, bool) {
			return l.Event.EventID, l.Event.EventID != ""
		},
		moreComplete,
	)
}

// DedupeComposite collapses listings with the same venue, name, day and
// start time. Higher completeness wins; ties keep the first seen.
func (e *Engine) DedupeComposite(listings []models.Listing) []models.Listing {
	return dedupe(listings, e.compositeKey, moreComplete)
}

// DedupeClosestToToday collapses listings with the same venue and name,
// keeping the one whose date is nearest to now. Ties keep the first seen.
func (e *Engine) DedupeClosestToToday(listings []models.Listing, now time.Time) []models.Listing {
	distance := func(l models.Listing) time.Duration {
		t, ok := e.ParseDate(l.Event.EventDate)
		if !ok {
			return time.Duration(math.MaxInt64)
		}
		d := t.Sub(now)
		if d < 0 {
			d = -d
		}
		return d
	}
	return dedupe(listings, looseKey, func(candidate, current models.Listing) bool {
		return distance(candidate) < distance(current)
	})
}

func (e *Engine) compositeKey(l models.Listing) (string, bool) {
	ev := l.Event
	name := normalizedName(ev.Name)
	if ev.VenueID == "" || name == "" {
		return "", false
	}
	day, ok := e.DateKey(ev.EventDate)
	if !ok {
		day = strings.ToLower(strings.TrimSpace(ev.EventDate))
	}
	start := ev.StartTime
	if start == "" {
		start, _ = ParseTimeRange(ev.EventTime)
	}
	return strings.Join([]string{ev.VenueID, name, day, strings.ToLower(strings.TrimSpace(start))}, keySeparator), true
}

func looseKey(l models.Listing) (string, bool) {
	name := normalizedName(l.Event.Name)
	if l.Event.VenueID == "" || name == "" {
		return "", false
	}
	return l.Event.VenueID + keySeparator + name, true
}

func normalizedName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func moreComplete(candidate, current models.Listing) bool {
	return CompletenessScore(candidate) > CompletenessScore(current)
}

// dedupe keeps one listing per key in first-appearance order. When a later
// listing is better it takes the earlier one's slot. Unkeyed listings pass through.
func dedupe(
	listings []models.Listing,
	key func(models.Listing) (string, bool),
	better func(candidate, current models.Listing) bool,
) []models.Listing {
	slots := make(map[string]int, len(listings))
	out := make([]models.Listing, 0, len(listings))

	for _, l := range listings {
		k, ok := key(l)
		if !ok {
			out = append(out, l)
			continue
		}
		if i, seen := slots[k]; seen {
			if better(l, out[i]) {
				out[i] = l
			}
			continue
		}
		slots[k] = len(out)
		out = append(out, l)
	}
	return out
}
