package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"nightlife-server/engine"
	"nightlife-server/models"
	"nightlife-server/models/venue"
)

// Catalog is the read side the handlers serve from.
type Catalog interface {
	Cards(ctx context.Context, fs models.FilterState, policy engine.DedupPolicy, now time.Time) ([]models.Card, error)
	VenueCards(ctx context.Context, venueID string, fs models.FilterState, policy engine.DedupPolicy, now time.Time) ([]models.Card, error)
	Venues(ctx context.Context) ([]venue.Venue, error)
	Venue(ctx context.Context, venueID string) (*venue.Venue, error)
	NearbyVenues(ctx context.Context, lat, lng, radiusKm float64) ([]venue.Venue, error)
	VenueDates(ctx context.Context, venueID string, now time.Time) ([]models.DateOption, error)
	GlobalDates(ctx context.Context, now time.Time) ([]models.DateOption, error)
	FilterOptions(ctx context.Context) (*models.FilterOptionsResponse, error)
	Markers(ctx context.Context, fs models.FilterState) ([]models.Marker, error)
	LastRefresh(ctx context.Context) (time.Time, error)
}

const (
	VENUE_ID_PATH_VAR = "venueId"

	LAT_QUERY_ARG      = "lat"
	LNG_QUERY_ARG      = "lng"
	LON_QUERY_ARG      = "lon"
	RADIUS_QUERY_ARG   = "radius"
	DEDUP_QUERY_ARG    = "dedup"
	VENUE_ID_QUERY_ARG = "venue_id"
)

// DEFAULT_RADIUS_KM applies when ?radius is absent.
const DEFAULT_RADIUS_KM = 5.0

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	s := vals.Get(name)
	return strconv.ParseFloat(s, 64)
}
