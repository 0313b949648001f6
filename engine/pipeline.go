package engine

import (
	"time"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// Join pairs every event with its venue. An event whose venue is unknown
// gets a venue built from its own denormalized fields.
func Join(venues []venue.Venue, events []event.Event) []models.Listing {
	byID := make(map[string]venue.Venue, len(venues))
	for _, v := range venues {
		byID[v.VenueID] = v
	}

	out := make([]models.Listing, 0, len(events))
	for _, ev := range events {
		v, ok := byID[ev.VenueID]
		if !ok {
			v = venue.Venue{
				VenueID:   ev.VenueID,
				VenueName: ev.VenueName,
				Area:      ev.VenueArea,
			}
		}
		out = append(out, models.Listing{Event: ev, Venue: v})
	}
	return out
}

// BuildCards is the whole pipeline: join, filter, dedupe, assemble. The
// result is a fresh slice; inputs are not modified.
func (e *Engine) BuildCards(
	venues []venue.Venue,
	events []event.Event,
	fs models.FilterState,
	policy DedupPolicy,
	now time.Time,
) []models.Card {
	listings := e.Filter(Join(venues, events), fs)
	return e.AssembleCards(e.Dedupe(listings, policy, now))
}
