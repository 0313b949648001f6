package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

func rooftopListing() models.Listing {
	return listing(
		event.Event{
			EventID:   "e1",
			VenueID:   "v1",
			Name:      "Sunset Sessions",
			EventDate: "2025-06-01",
			Categories: []event.CategoryTag{
				{Primary: "Nightlife", Secondary: "Rooftop Venue", Confidence: 0.9},
			},
			Attributes: event.Attributes{
				Venue:  []string{"Rooftop"},
				Energy: []string{"Chill"},
			},
		},
		venue.Venue{VenueID: "v1", VenueName: "Skyline Lounge", Area: "Downtown Dubai"},
	)
}

func TestMatches_EmptyFilterMatchesEverything(t *testing.T) {
	e := newTestEngine()

	assert.True(t, e.Matches(rooftopListing(), models.FilterState{}))
	assert.True(t, e.Matches(models.Listing{}, models.FilterState{}))
}

func TestMatches_Category(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()

	tests := []struct {
		name     string
		selected map[string][]string
		want     bool
	}{
		{"primary only", map[string][]string{"Nightlife": {}}, true},
		{"primary case insensitive", map[string][]string{"nightlife": {}}, true},
		{"primary and secondary", map[string][]string{"Nightlife": {"Rooftop Venue"}}, true},
		{"wrong secondary", map[string][]string{"Nightlife": {"Beach Club"}}, false},
		{"other primary", map[string][]string{"Dining": {}}, false},
		{"any of several primaries", map[string][]string{"Dining": {}, "Nightlife": {}}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fs := models.FilterState{Categories: test.selected}
			assert.Equal(t, test.want, e.Matches(l, fs))
		})
	}
}

func TestMatches_Attributes(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()

	assert.True(t, e.Matches(l, models.FilterState{Attributes: event.Attributes{Venue: []string{"rooftop", "Beach"}}}))
	assert.False(t, e.Matches(l, models.FilterState{Attributes: event.Attributes{Energy: []string{"High"}}}))
	assert.False(t, e.Matches(l, models.FilterState{Attributes: event.Attributes{
		Venue:  []string{"Rooftop"},
		Timing: []string{"Late Night"},
	}}), "facets are ANDed")
}

func TestMatches_Area(t *testing.T) {
	e := newTestEngine()
	downtown := rooftopListing()
	jbr := rooftopListing()
	jbr.Venue.Area = "JBR"

	fs := models.FilterState{Areas: []string{"Downtown Dubai"}}

	assert.True(t, e.Matches(downtown, fs))
	assert.False(t, e.Matches(jbr, fs))

	all := models.FilterState{Areas: []string{models.AllAreas}}
	assert.True(t, e.Matches(jbr, all))
}

func TestMatches_AreaFallsBackToEventArea(t *testing.T) {
	e := newTestEngine()
	l := listing(event.Event{VenueArea: "Marina"}, venue.Venue{})

	assert.True(t, e.Matches(l, models.FilterState{Areas: []string{"marina"}}))
	assert.False(t, e.Matches(models.Listing{}, models.FilterState{Areas: []string{"Marina"}}))
}

func TestMatches_Dates(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()

	assert.True(t, e.Matches(l, models.FilterState{Dates: []string{"2025-06-01"}}))
	assert.True(t, e.Matches(l, models.FilterState{Dates: []string{"1 June 2025"}}), "selected dates are normalized")
	assert.False(t, e.Matches(l, models.FilterState{Dates: []string{"2025-06-02"}}))

	undated := rooftopListing()
	undated.Event.EventDate = "soon"
	assert.False(t, e.Matches(undated, models.FilterState{Dates: []string{"2025-06-01"}}))
	assert.True(t, e.Matches(undated, models.FilterState{}))
}

func TestMatches_Search(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()

	for _, q := range []string{"sunset", "SKYLINE", "rooftop venue", "  nightlife "} {
		assert.True(t, e.Matches(l, models.FilterState{Query: q}), q)
	}
	assert.False(t, e.Matches(l, models.FilterState{Query: "karaoke"}))
}

func TestFilter_PreservesOrder(t *testing.T) {
	e := newTestEngine()
	a := rooftopListing()
	b := rooftopListing()
	b.Event.EventID = "e2"
	b.Venue.Area = "JBR"
	c := rooftopListing()
	c.Event.EventID = "e3"

	out := e.Filter([]models.Listing{a, b, c}, models.FilterState{Areas: []string{"Downtown Dubai"}})

	if assert.Len(t, out, 2) {
		assert.Equal(t, "e1", out[0].Event.EventID)
		assert.Equal(t, "e3", out[1].Event.EventID)
	}
}

func TestDoesVenueMatchFilters(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()
	v := l.Venue
	events := []event.Event{l.Event}

	assert.True(t, e.DoesVenueMatchFilters(v, events, models.FilterState{}))
	assert.True(t, e.DoesVenueMatchFilters(v, events, models.FilterState{Categories: map[string][]string{"Nightlife": {}}}))
	assert.False(t, e.DoesVenueMatchFilters(v, events, models.FilterState{Categories: map[string][]string{"Dining": {}}}))
	assert.False(t, e.DoesVenueMatchFilters(v, events, models.FilterState{Areas: []string{"JBR"}}))
}

func TestDoesVenueMatchFilters_AreaFromEventAgreesWithCards(t *testing.T) {
	e := newTestEngine()
	v := venue.Venue{VenueID: "1", VenueName: "Club Alpha", VenueLat: 25.08, VenueLng: 55.13, HasCoords: true}
	events := []event.Event{{EventID: "a", VenueID: "1", Name: "Foam Party", VenueArea: "JBR"}}
	fs := models.FilterState{Areas: []string{"JBR"}}

	cards := e.BuildCards([]venue.Venue{v}, events, fs, DedupComposite, time.Now())
	markers := e.Markers([]venue.Venue{v}, events, fs)

	assert.Len(t, cards, 1)
	if assert.Len(t, markers, 1) {
		assert.True(t, markers[0].Matches)
	}

	other := models.FilterState{Areas: []string{"Downtown Dubai"}}
	assert.Empty(t, e.BuildCards([]venue.Venue{v}, events, other, DedupComposite, time.Now()))
	assert.False(t, e.DoesVenueMatchFilters(v, events, other))
}

func TestDoesVenueMatchFilters_VenueWithoutEvents(t *testing.T) {
	e := newTestEngine()
	v := venue.Venue{VenueID: "v9", VenueName: "Quiet Bar", Category: "Bar", Area: "JBR"}

	assert.True(t, e.DoesVenueMatchFilters(v, nil, models.FilterState{}))
	assert.True(t, e.DoesVenueMatchFilters(v, nil, models.FilterState{Areas: []string{"JBR"}, Query: "quiet"}))
	assert.False(t, e.DoesVenueMatchFilters(v, nil, models.FilterState{Query: "club"}))
	assert.False(t, e.DoesVenueMatchFilters(v, nil, models.FilterState{Dates: []string{"2025-06-01"}}))
	assert.False(t, e.DoesVenueMatchFilters(v, nil, models.FilterState{Categories: map[string][]string{"Nightlife": {}}}))
}

func TestMatches_Deterministic(t *testing.T) {
	e := newTestEngine()
	l := rooftopListing()
	fs := models.FilterState{
		Categories: map[string][]string{"Nightlife": {"Rooftop Venue"}, "Dining": {}},
		Areas:      []string{"Downtown Dubai"},
		Dates:      []string{"2025-06-01"},
		Query:      "sky",
	}

	first := e.Matches(l, fs)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Matches(l, fs))
	}
	assert.True(t, first)
}
