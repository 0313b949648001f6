package engine

import (
	"strings"

	"nightlife-server/models"
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// DimmedMarkerColor is used for venues that fail the current filters.
const DimmedMarkerColor = "#9e9e9e"

const defaultMarkerColor = "#f44336"

// keyword → color, checked in order against the lower-cased venue category.
var categoryColors = []struct {
	keyword string
	color   string
}{
	{"nightclub", "#e91e63"},
	{"club", "#e91e63"},
	{"rooftop", "#03a9f4"},
	{"beach", "#00bcd4"},
	{"lounge", "#9c27b0"},
	{"bar", "#ff9800"},
	{"restaurant", "#4caf50"},
}

// MarkerFor styles one venue for the map using DoesVenueMatchFilters.
func (e *Engine) MarkerFor(v venue.Venue, events []event.Event, fs models.FilterState) models.Marker {
	matches := e.DoesVenueMatchFilters(v, events, fs)
	color := DimmedMarkerColor
	if matches {
		color = categoryColor(v.Category)
	}
	return models.Marker{
		VenueID:   v.VenueID,
		VenueName: v.VenueName,
		Category:  v.Category,
		Lat:       v.VenueLat,
		Lng:       v.VenueLng,
		Color:     color,
		Matches:   matches,
	}
}

// Markers styles every venue that has coordinates.
func (e *Engine) Markers(venues []venue.Venue, events []event.Event, fs models.FilterState) []models.Marker {
	byVenue := GroupEventsByVenue(events)
	out := make([]models.Marker, 0, len(venues))
	for _, v := range venues {
		if !v.HasCoords {
			continue
		}
		out = append(out, e.MarkerFor(v, byVenue[v.VenueID], fs))
	}
	return out
}

// GroupEventsByVenue keeps each venue's events in input order.
func GroupEventsByVenue(events []event.Event) map[string][]event.Event {
	out := make(map[string][]event.Event)
	for _, ev := range events {
		out[ev.VenueID] = append(out[ev.VenueID], ev)
	}
	return out
}

func categoryColor(category string) string {
	c := strings.ToLower(category)
	for _, cc := range categoryColors {
		if strings.Contains(c, cc.keyword) {
			return cc.color
		}
	}
	return defaultMarkerColor
}
