package models

import "net/url"

// RecordQueryParams mirrors the data API's server-side filters. Use zero-values to omit.
type RecordQueryParams struct {
	VenueID  string
	Category string
	Vibe     string
	Offer    string
	Date     string
}

func (p RecordQueryParams) ToValues() url.Values {
	q := url.Values{}

	setIf(q, "venue_id", p.VenueID)
	setIf(q, "category", p.Category)
	setIf(q, "vibe", p.Vibe)
	setIf(q, "offer", p.Offer)
	setIf(q, "date", p.Date)

	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
