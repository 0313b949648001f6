package models

import (
	"nightlife-server/models/event"
	"nightlife-server/models/venue"
)

// Listing pairs an event with the venue it references.
type Listing struct {
	Event event.Event `json:"event"`
	Venue venue.Venue `json:"venue"`
}

// Card is the display-ready join of one event and its venue. Cards are
// rebuilt on every request and never patched.
type Card struct {
	Event event.Event `json:"event"`
	Venue venue.Venue `json:"venue"`

	Title         string `json:"title"`
	DateKey       string `json:"date_key,omitempty"`
	DisplayDate   string `json:"display_date"`
	DatePill      string `json:"date_pill"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	TimeLabel     string `json:"time_label,omitempty"`
	SmartSubtitle string `json:"smart_subtitle,omitempty"`
}

// DateOption is one selectable calendar day.
type DateOption struct {
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
	DateKey string `json:"date_key"`
	IsToday bool   `json:"is_today"`
	Count   int    `json:"count,omitempty"`
}

// Marker is what the map layer needs to draw one venue.
type Marker struct {
	VenueID   string  `json:"venue_id"`
	VenueName string  `json:"venue_name"`
	Category  string  `json:"category,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Color     string  `json:"color"`
	Matches   bool    `json:"matches"`
}
