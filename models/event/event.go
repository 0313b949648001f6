package event

// CategoryTag is one primary/secondary taxonomy pair attached to an event.
type CategoryTag struct {
	Primary    string  `json:"primary"`
	Secondary  string  `json:"secondary,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Attributes groups the event's attribute tags by facet.
type Attributes struct {
	Venue  []string `json:"venue,omitempty"`
	Energy []string `json:"energy,omitempty"`
	Timing []string `json:"timing,omitempty"`
	Status []string `json:"status,omitempty"`
}

// Event is the normalized form of one scheduled occurrence.
type Event struct {
	EventID string `json:"event_id"`
	VenueID string `json:"venue_id"`

	Name     string `json:"event_name"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Artist   string `json:"artist,omitempty"`

	MusicGenre    []string `json:"music_genre,omitempty"`
	EventVibe     []string `json:"event_vibe,omitempty"`
	AnalysisNotes string   `json:"analysis_notes,omitempty"`

	// EventDate is kept as delivered by the data store; the engine derives date keys from it.
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	EntryPrice string `json:"entry_price,omitempty"`
	Offers     string `json:"offers,omitempty"`

	Categories []CategoryTag `json:"categories,omitempty"`
	Attributes Attributes    `json:"attributes"`

	// Denormalized venue fields some payloads carry alongside the event.
	VenueName string `json:"venue_name,omitempty"`
	VenueArea string `json:"venue_area,omitempty"`
}
