package engine

import (
	"strings"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// Matches reports whether the listing passes every facet of fs. Facets are
// ANDed; values within a facet are ORed.
func (e *Engine) Matches(l models.Listing, fs models.FilterState) bool {
	return matchesCategory(l.Event.Categories, fs.Categories) &&
		matchesAttributes(l.Event.Attributes, fs.Attributes) &&
		matchesArea(listingArea(l), fs.Areas) &&
		e.matchesDates(l.Event.EventDate, fs.Dates) &&
		matchesSearch(l, fs.Query)
}

// Filter keeps the listings that match fs, in order.
func (e *Engine) Filter(listings []models.Listing, fs models.FilterState) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if e.Matches(l, fs) {
			out = append(out, l)
		}
	}
	return out
}

// DoesVenueMatchFilters is the venue-level predicate shared by the map and
// the card views. A venue matches when at least one of its events would
// produce a card. A venue without events can only match when no event-level
// facet is restricted.
func (e *Engine) DoesVenueMatchFilters(v venue.Venue, events []event.Event, fs models.FilterState) bool {
	if len(events) == 0 {
		return !hasEventFacets(fs) && matchesArea(v.Area, fs.Areas) && matchesVenueSearch(v, fs.Query)
	}
	for _, ev := range events {
		if e.Matches(models.Listing{Event: ev, Venue: v}, fs) {
			return true
		}
	}
	return false
}

func matchesCategory(tags []event.CategoryTag, selected map[string][]string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range tags {
		for primary, secondaries := range selected {
			if !equalFoldTrim(tag.Primary, primary) {
				continue
			}
			if len(secondaries) == 0 || containsFold(secondaries, tag.Secondary) {
				return true
			}
		}
	}
	return false
}

func matchesAttributes(attrs event.Attributes, selected event.Attributes) bool {
	return matchesFacet(attrs.Venue, selected.Venue) &&
		matchesFacet(attrs.Energy, selected.Energy) &&
		matchesFacet(attrs.Timing, selected.Timing) &&
		matchesFacet(attrs.Status, selected.Status)
}

func matchesFacet(tags, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, t := range tags {
		if containsFold(selected, t) {
			return true
		}
	}
	return false
}

func matchesArea(area string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if isAllAreas(s) {
			return true
		}
	}
	return area != "" && containsFold(selected, area)
}

func isAllAreas(s string) bool {
	return equalFoldTrim(s, models.AllAreas) || equalFoldTrim(s, "All")
}

func (e *Engine) matchesDates(raw string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	key, ok := e.DateKey(raw)
	if !ok {
		return false
	}
	for _, s := range selected {
		s = strings.TrimSpace(s)
		if sk, ok := e.DateKey(s); ok {
			s = sk
		}
		if s == key {
			return true
		}
	}
	return false
}

func matchesSearch(l models.Listing, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if containsLower(l.Event.Name, q) || containsLower(listingVenueName(l), q) {
		return true
	}
	for _, tag := range l.Event.Categories {
		if containsLower(tag.Primary, q) || containsLower(tag.Secondary, q) {
			return true
		}
	}
	return false
}

func matchesVenueSearch(v venue.Venue, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return containsLower(v.VenueName, q) || containsLower(v.Category, q)
}

func hasEventFacets(fs models.FilterState) bool {
	return len(fs.Categories) > 0 ||
		len(fs.Attributes.Venue) > 0 ||
		len(fs.Attributes.Energy) > 0 ||
		len(fs.Attributes.Timing) > 0 ||
		len(fs.Attributes.Status) > 0 ||
		len(fs.Dates) > 0
}

func listingArea(l models.Listing) string {
	if l.Venue.Area != "" {
		return l.Venue.Area
	}
	return l.Event.VenueArea
}

func listingVenueName(l models.Listing) string {
	if l.Venue.VenueName != "" {
		return l.Venue.VenueName
	}
	return l.Event.VenueName
}

func containsLower(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if equalFoldTrim(v, s) {
			return true
		}
	}
	return false
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
