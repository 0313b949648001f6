package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"nightlife-server/dao/redis"
	"nightlife-server/models/venue"
)

type VenueHandler struct {
	catalog Catalog
	now     func() time.Time
}

func NewVenueHandler(catalog Catalog, now func() time.Time) *VenueHandler {
	if now == nil {
		now = time.Now
	}
	return &VenueHandler{catalog: catalog, now: now}
}

// GetVenues handles GET /v1/venues
func (h *VenueHandler) GetVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.catalog.Venues(r.Context())
	if err != nil {
		log.Println("[VenueHandler] Error loading venues:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

// GetVenuesNearby handles GET /v1/venues/nearby?lat=&lng=&radius=
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	lat, lng, radius, ok := parseNearbyArgs(r.URL.Query(), w)
	if !ok {
		return
	}

	venues, err := h.catalog.NearbyVenues(r.Context(), lat, lng, radius)
	if err != nil {
		log.Println("[VenueHandler] Error loading nearby venues:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

// GetVenue handles GET /v1/venues/{venueId}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)[VENUE_ID_PATH_VAR]
	v, err := h.catalog.Venue(r.Context(), venueID)
	if !h.handleVenueErr(w, venueID, err) {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetVenueDates handles GET /v1/venues/{venueId}/dates
func (h *VenueHandler) GetVenueDates(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)[VENUE_ID_PATH_VAR]
	dates, err := h.catalog.VenueDates(r.Context(), venueID, h.now())
	if !h.handleVenueErr(w, venueID, err) {
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// handleVenueErr writes the error response and reports whether to continue.
func (h *VenueHandler) handleVenueErr(w http.ResponseWriter, venueID string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, redis.ErrVenueNotFound):
		writeError(w, http.StatusNotFound, "venue not found: "+venueID)
	default:
		log.Printf("[VenueHandler] Error loading venue %s: %v", venueID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
	return false
}

func parseNearbyArgs(vals url.Values, w http.ResponseWriter) (lat, lng, radius float64, ok bool) {
	var err error

	lat, err = parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid argument "+LAT_QUERY_ARG)
		return
	}
	lngArg := LNG_QUERY_ARG
	if vals.Get(lngArg) == "" && vals.Get(LON_QUERY_ARG) != "" {
		lngArg = LON_QUERY_ARG
	}
	lng, err = parseArgFloat64(vals, lngArg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid argument "+LNG_QUERY_ARG)
		return
	}
	if !venue.ValidCoordinates(lat, lng) {
		writeError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}

	radius = DEFAULT_RADIUS_KM
	if vals.Get(RADIUS_QUERY_ARG) != "" {
		radius, err = parseArgFloat64(vals, RADIUS_QUERY_ARG)
		if err != nil || radius <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid argument "+RADIUS_QUERY_ARG)
			return
		}
	}
	ok = true
	return
}
